/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/fungidb/internal/iomem"
	"github.com/gnames/fungidb/internal/iomongo"
	"github.com/gnames/fungidb/internal/iopg"
	"github.com/gnames/fungidb/pkg/config"
	"github.com/gnames/fungidb/pkg/errcode"
	"github.com/gnames/fungidb/pkg/store"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

var errUnknownBackend = errors.New("unknown database backend")

// openStore connects to the backend selected in the configuration.
func openStore(ctx context.Context, c *config.Config) (store.Store, error) {
	switch c.Database.Backend {
	case "mongo":
		return iomongo.New(ctx, c.Database)
	case "postgres":
		return iopg.New(ctx, c.Database)
	case "memory":
		gn.Warn("Using <warn>memory</warn> backend, data is lost on exit")
		return iomem.New(), nil
	default:
		return nil, &gn.Error{
			Code: errcode.StoreUnknownBackendError,
			Msg:  "Unknown database backend <em>%s</em>",
			Vars: []any{c.Database.Backend},
			Err:  errUnknownBackend,
		}
	}
}

// closeStore releases connections, logging failures.
func closeStore(s store.Store) {
	if err := s.Close(context.Background()); err != nil {
		gn.Warn("Cannot close database connection: %s", err)
	}
}

// signalContext is cancelled on Ctrl-C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// withErrorMessage prints errors of a run function before returning them.
func withErrorMessage(
	run func(*cobra.Command, []string) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err != nil {
			gn.PrintErrorMessage(err)
		}
		return err
	}
}
