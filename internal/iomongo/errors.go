package iomongo

import (
	"fmt"
	"runtime"

	"github.com/gnames/fungidb/pkg/errcode"
	"github.com/gnames/gn"
)

func ConnectionError(uri, database string, err error) error {
	msg := `Cannot connect to MongoDB <em>%s</em>, database <em>%s</em>.
Check that the server is running and that FUNGIDB_DATABASE_URI
(or MONGO_URI) is correct.`
	vars := []any{uri, database}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot connect to %s/%s: %w",
			fn.Name(), uri, database, err),
	}
}

func IndexError(collection string, err error) error {
	msg := "Cannot create indexes of <em>%s</em> collection"
	vars := []any{collection}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreIndexError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot create indexes of %s: %w",
			fn.Name(), collection, err),
	}
}
