package iopg

import (
	"fmt"
	"runtime"

	"github.com/gnames/fungidb/pkg/errcode"
	"github.com/gnames/gn"
)

func ConnectionError(host string, port int, database, user string, err error) error {
	msg := `Cannot connect to PostgreSQL <em>%s@%s:%d/%s</em>.
Check that the server is running, the database exists and
FUNGIDB_DATABASE_PASSWORD is set.`
	vars := []any{user, host, port, database}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot connect to %s:%d/%s: %w",
			fn.Name(), host, port, database, err),
	}
}

func GORMConnectionError(err error) error {
	msg := "Cannot open GORM session on PostgreSQL pool"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreConnectionError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot open gorm: %w", fn.Name(), err),
	}
}

func SchemaError(err error) error {
	msg := "Cannot create PostgreSQL tables"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreSchemaError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: automigrate failed: %w", fn.Name(), err),
	}
}
