package iometrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecordBatch verifies counters of bulk writes.
func TestRecordBatch(t *testing.T) {
	before := testutil.ToFloat64(ImportRecordsTotal.WithLabelValues("duplicate"))
	batches := testutil.ToFloat64(ImportBatchesTotal.WithLabelValues(BatchOK))

	RecordBatch(BatchOK, 8, 0, 2, 10*time.Millisecond)

	assert.Equal(t, before+2,
		testutil.ToFloat64(ImportRecordsTotal.WithLabelValues("duplicate")))
	assert.Equal(t, batches+1,
		testutil.ToFloat64(ImportBatchesTotal.WithLabelValues(BatchOK)))
}

// TestRecordGBIFRequest verifies status labels.
func TestRecordGBIFRequest(t *testing.T) {
	errs := testutil.ToFloat64(GBIFRequestsTotal.WithLabelValues("error"))
	ok := testutil.ToFloat64(GBIFRequestsTotal.WithLabelValues("200"))

	RecordGBIFRequest(0)
	RecordGBIFRequest(200)

	assert.Equal(t, errs+1, testutil.ToFloat64(GBIFRequestsTotal.WithLabelValues("error")))
	assert.Equal(t, ok+1, testutil.ToFloat64(GBIFRequestsTotal.WithLabelValues("200")))
}

// TestHandler verifies metrics are exposed.
func TestHandler(t *testing.T) {
	RecordQueued(1)
	RecordHTTPRequest(http.MethodGet, "/health", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fungidb_import_records_total")
	assert.Contains(t, rec.Body.String(), `route="/health"`)
}
