package ioapi

import (
	"fmt"
	"runtime"

	"github.com/gnames/fungidb/pkg/errcode"
	"github.com/gnames/gn"
)

// StartError reports a server that could not listen on its address.
func StartError(addr string, err error) error {
	msg := `Cannot start REST API on <em>%s</em>

Check that the port is free or change <em>server.port</em>.`
	vars := []any{addr}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ServerStartError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: listen on %s: %w", fn.Name(), addr, err),
	}
}
