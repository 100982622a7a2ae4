package ioimport

import (
	"fmt"
	"runtime"

	"github.com/gnames/fungidb/pkg/errcode"
	"github.com/gnames/gn"
)

// StorageError reports a failed bulk write. It aborts the import.
func StorageError(batchSize int, err error) error {
	msg := `Cannot write a batch of <em>%d</em> species

<em>Possible causes:</em>
  - Database is unavailable
  - Database user has no write permission

The import stopped. Fix the problem and run it again,
already stored species are skipped or replaced.`
	vars := []any{batchSize}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportStorageError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: bulk write of %d docs: %w",
			fn.Name(), batchSize, err),
	}
}

// CancelledError reports an import interrupted by the user.
func CancelledError(err error) error {
	msg := "Import was cancelled"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
