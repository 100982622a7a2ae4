package iologger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/fungidb/pkg/config"
	"github.com/gnames/fungidb/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewHandler verifies format and level selection.
func TestNewHandler(t *testing.T) {
	tests := []struct {
		msg      string
		cfg      config.LogConfig
		contains string
		debug    bool
	}{
		{"json", config.LogConfig{Format: "json", Level: "info"}, `"msg":"hello"`, false},
		{"text", config.LogConfig{Format: "text", Level: "debug"}, "msg=hello", true},
		{"unknown format", config.LogConfig{Format: "xml", Level: "warn"}, "", false},
	}

	for _, v := range tests {
		var buf bytes.Buffer
		h := NewHandler(&buf, v.cfg)
		log := slog.New(h)
		log.Info("hello", "taxa", 3)
		log.Debug("details")

		if v.contains == "" {
			assert.Empty(t, buf.String(), v.msg)
			continue
		}
		assert.Contains(t, buf.String(), v.contains, v.msg)
		assert.Equal(t, v.debug, bytes.Contains(buf.Bytes(), []byte("details")), v.msg)
	}
}

// TestInit_File verifies the log file is created in the log directory.
func TestInit_File(t *testing.T) {
	orig := slog.Default()
	defer slog.SetDefault(orig)

	logDir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}
	require.NoError(t, Init(logDir, cfg, false))
	slog.Info("first")

	require.NoError(t, Init(logDir, cfg, true))
	slog.Info("second")

	data, err := os.ReadFile(filepath.Join(logDir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

// TestInit_BadDir verifies CreateLogFileError for a missing directory.
func TestInit_BadDir(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "missing")
	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}
	err := Init(logDir, cfg, false)
	require.Error(t, err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
}
