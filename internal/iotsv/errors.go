package iotsv

import (
	"fmt"
	"runtime"

	"github.com/gnames/fungidb/pkg/errcode"
	"github.com/gnames/gn"
)

func OpenError(path string, err error) error {
	msg := "Cannot open TSV file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TSVOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open %s: %w", fn.Name(), path, err),
	}
}

func ParseError(path string, line int, err error) error {
	msg := "Cannot read <em>%s</em> at line %d"
	vars := []any{path, line}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TSVParseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s line %d: %w",
			fn.Name(), path, line, err),
	}
}
