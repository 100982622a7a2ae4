package iogbif

import (
	"fmt"
	"runtime"

	"github.com/gnames/fungidb/pkg/errcode"
	"github.com/gnames/gn"
)

// UnavailableError reports a GBIF request that failed after all attempts.
func UnavailableError(url string, attempts int, err error) error {
	msg := `GBIF API is unavailable

<em>Request:</em> %s
<em>Attempts:</em> %d

Try again later or increase <em>gbif.retry_attempts</em>.`
	vars := []any{url, attempts}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.GBIFUnavailableError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s after %d attempts: %w",
			fn.Name(), url, attempts, err),
	}
}

// DecodeError reports a GBIF response that is not valid JSON.
func DecodeError(url string, err error) error {
	msg := "Cannot decode GBIF response from <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.GBIFDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: decode %s: %w", fn.Name(), url, err),
	}
}

// StorageError reports a page that could not be saved.
func StorageError(offset int, err error) error {
	msg := `Cannot save GBIF species at offset <em>%d</em>

Fetched pages are upserted, it is safe to run the fetch again.`
	vars := []any{offset}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.GBIFStorageError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: upsert at offset %d: %w", fn.Name(), offset, err),
	}
}
