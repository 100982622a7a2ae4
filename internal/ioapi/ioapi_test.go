package ioapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gnames/fungidb/internal/iomem"
	"github.com/gnames/fungidb/internal/iotesting"
	"github.com/gnames/fungidb/pkg/config"
	"github.com/gnames/fungidb/pkg/store"
	"github.com/gnames/fungidb/pkg/taxon"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	t     *testing.T
	h     http.Handler
	store store.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	s := iomem.New()
	srv := New(config.New(), s)
	srv.bcryptCost = bcrypt.MinCost
	return &testAPI{t: t, h: srv.Handler(), store: s}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var res T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return res
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
	User    struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

type noteResponse struct {
	Success bool       `json:"success"`
	ID      string     `json:"id"`
	Note    store.Note `json:"note"`
}

func (a *testAPI) registerUser(email string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/register", map[string]string{
		"name": "Ana", "email": email, "password": "secreto1",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[loginResponse](a.t, rec).UserID
}

// TestHealth verifies the health endpoint.
func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// TestRegisterLogin verifies registration and login outcomes.
func TestRegisterLogin(t *testing.T) {
	a := newTestAPI(t)
	id := a.registerUser("Ana@Example.org")
	assert.NotEmpty(t, id)

	tests := []struct {
		msg    string
		path   string
		body   any
		status int
	}{
		{"login", "/login",
			map[string]string{"email": "ana@example.org", "password": "secreto1"},
			http.StatusOK},
		{"wrong password", "/login",
			map[string]string{"email": "ana@example.org", "password": "nope123"},
			http.StatusUnauthorized},
		{"unknown user", "/login",
			map[string]string{"email": "luis@example.org", "password": "secreto1"},
			http.StatusNotFound},
		{"duplicate email", "/register",
			map[string]string{"name": "Ana", "email": "ANA@example.org", "password": "secreto1"},
			http.StatusConflict},
		{"missing fields", "/register",
			map[string]string{"email": "luis@example.org"},
			http.StatusBadRequest},
		{"bad email", "/register",
			map[string]string{"name": "Luis", "email": "luis", "password": "secreto1"},
			http.StatusBadRequest},
		{"bad json", "/login", "{", http.StatusBadRequest},
	}
	for _, v := range tests {
		rec := a.do(http.MethodPost, v.path, v.body)
		assert.Equal(t, v.status, rec.Code, v.msg)
		res := decodeBody[loginResponse](t, rec)
		assert.Equal(t, v.status < 300, res.Success, v.msg)
		if v.status >= 300 {
			assert.NotEmpty(t, res.Message, v.msg)
		}
	}

	rec := a.do(http.MethodPost, "/login",
		map[string]string{"email": "ana@example.org", "password": "secreto1"})
	res := decodeBody[loginResponse](t, rec)
	assert.Equal(t, id, res.User.ID)
	assert.Equal(t, "Ana", res.User.Name)
	assert.Equal(t, "ana@example.org", res.User.Email)
	assert.NotContains(t, rec.Body.String(), "$2a$", "hash is never exposed")
}

// TestSpecies verifies saving and searching species.
func TestSpecies(t *testing.T) {
	a := newTestAPI(t)
	champ := "champiñón"
	_, err := a.store.InsertSpecies(context.Background(), []taxon.Species{
		iotesting.Species("1", "Agaricus bisporus (J.E.Lange) Imbach", &champ),
		iotesting.Species("2", "Amanita muscaria (L.) Lam.", nil),
	})
	require.NoError(t, err)

	rec := a.do(http.MethodPost, "/fungi", map[string]any{
		"id": "3", "scientificName": "Boletus edulis Bull.", "vernacularName": "boleto",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/fungi", map[string]any{
		"id": "3", "scientificName": "Boletus edulis Bull.",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/fungi", map[string]any{"id": "4"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	tests := []struct {
		msg   string
		path  string
		names []string
	}{
		{"no diacritics", "/fungi/search?q=champinon",
			[]string{"Agaricus bisporus (J.E.Lange) Imbach"}},
		{"legacy param", "/fungi/search?texto=AMANITA",
			[]string{"Amanita muscaria (L.) Lam."}},
		{"saved species", "/fungi/search?q=boleto",
			[]string{"Boletus edulis Bull."}},
		{"empty", "/fungi/search?q=", []string{}},
		{"no match", "/fungi/search?q=xyz", []string{}},
	}
	for _, v := range tests {
		rec := a.do(http.MethodGet, v.path, nil)
		require.Equal(t, http.StatusOK, rec.Code, v.msg)
		docs := decodeBody[[]taxon.Species](t, rec)
		names := make([]string, len(docs))
		for i := range docs {
			names[i] = docs[i].ScientificName
		}
		assert.Equal(t, v.names, names, v.msg)
	}
}

// TestNotes verifies the note lifecycle on both route prefixes.
func TestNotes(t *testing.T) {
	for _, prefix := range []string{"/notes", "/cuaderno"} {
		t.Run(prefix, func(t *testing.T) {
			a := newTestAPI(t)
			userID := a.registerUser("ana@example.org")

			rec := a.do(http.MethodPost, prefix, map[string]any{
				"userId":    userID,
				"title":     "Níscalos",
				"date":      "2025-10-12",
				"latitude":  "40,4168",
				"longitude": -3.7038,
			})
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			created := decodeBody[noteResponse](t, rec)
			require.NotEmpty(t, created.ID)
			require.NotNil(t, created.Note.Latitude)
			assert.InDelta(t, 40.4168, created.Note.Latitude.Float(), 1e-9)

			rec = a.do(http.MethodGet, prefix+"?userId="+userID, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			notes := decodeBody[[]store.Note](t, rec)
			require.Len(t, notes, 1)
			assert.Equal(t, "Níscalos", notes[0].Title)

			rec = a.do(http.MethodPut, prefix+"/"+created.ID,
				map[string]any{"place": "Sierra de Guadarrama"})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			updated := decodeBody[noteResponse](t, rec)
			assert.Equal(t, "Sierra de Guadarrama", updated.Note.Place)
			assert.Equal(t, "Níscalos", updated.Note.Title)

			rec = a.do(http.MethodDelete, prefix+"/"+created.ID, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			rec = a.do(http.MethodDelete, prefix+"/"+created.ID, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)

			// keys sent by released notebook clients
			rec = a.do(http.MethodPost, prefix, map[string]any{
				"userId":   userID,
				"fecha":    "2025-10-12",
				"latitud":  "40.4168",
				"longitud": "-3.7038",
			})
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			legacy := decodeBody[noteResponse](t, rec)
			require.NotNil(t, legacy.Note.Date)
			assert.Equal(t, "2025-10-12", legacy.Note.Date.Format(store.DateLayout))
			require.NotNil(t, legacy.Note.Latitude)
			assert.InDelta(t, 40.4168, legacy.Note.Latitude.Float(), 1e-9)
			require.NotNil(t, legacy.Note.Longitude)
			assert.InDelta(t, -3.7038, legacy.Note.Longitude.Float(), 1e-9)

			rec = a.do(http.MethodPut, prefix+"/"+legacy.ID,
				map[string]any{"latitud": 41.5})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			updated = decodeBody[noteResponse](t, rec)
			require.NotNil(t, updated.Note.Latitude)
			assert.InDelta(t, 41.5, updated.Note.Latitude.Float(), 1e-9)
		})
	}
}

// TestNotes_Invalid verifies rejected note requests.
func TestNotes_Invalid(t *testing.T) {
	a := newTestAPI(t)
	userID := a.registerUser("ana@example.org")

	tests := []struct {
		msg    string
		method string
		path   string
		body   any
		status int
	}{
		{"invalid user filter", http.MethodGet, "/notes?userId=abc", nil,
			http.StatusBadRequest},
		{"missing user", http.MethodPost, "/notes",
			map[string]any{"title": "x"}, http.StatusBadRequest},
		{"invalid user", http.MethodPost, "/notes",
			map[string]any{"userId": "abc"}, http.StatusBadRequest},
		{"invalid id", http.MethodPut, "/notes/abc",
			map[string]any{"title": "x"}, http.StatusBadRequest},
		{"empty update", http.MethodPut, "/notes/" + userID,
			map[string]any{}, http.StatusBadRequest},
		{"missing note", http.MethodPut, "/notes/" + userID,
			map[string]any{"title": "x"}, http.StatusNotFound},
		{"invalid delete", http.MethodDelete, "/notes/abc", nil,
			http.StatusBadRequest},
		{"bad latitude", http.MethodPost, "/notes",
			map[string]any{"userId": userID, "latitude": "north"},
			http.StatusBadRequest},
	}
	for _, v := range tests {
		rec := a.do(v.method, v.path, v.body)
		assert.Equal(t, v.status, rec.Code, v.msg)
		assert.Contains(t, rec.Body.String(), `"success":false`, v.msg)
	}
}

// TestNotFound verifies unknown routes.
func TestNotFound(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

// TestMetrics verifies that requests are exposed as metrics.
func TestMetrics(t *testing.T) {
	a := newTestAPI(t)
	a.do(http.MethodGet, "/health", nil)
	rec := a.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fungidb_http_requests_total")
}

// TestRun verifies graceful shutdown.
func TestRun(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptServerHost("127.0.0.1"),
		config.OptServerPort(38271),
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(cfg, iomem.New()).Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
