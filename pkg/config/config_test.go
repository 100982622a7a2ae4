package config_test

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gnames/fungidb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "fungidb"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "fungidb"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "fungidb", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "fungidb", "config.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "mongo", cfg.Database.Backend)
	assert.Equal(t, "fungi", cfg.Database.Name)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Empty(t, cfg.Database.Password, "no literal credentials")

	assert.Equal(t, "Taxon.tsv", cfg.Import.TaxonFile)
	assert.Equal(t, "VernacularName.tsv", cfg.Import.VernacularFile)
	assert.Equal(t, 2000, cfg.Import.BatchSize)
	assert.Equal(t, 6, cfg.Import.MaxInFlight)
	assert.True(t, cfg.Import.IsStrict())
	assert.Equal(t, "insert", cfg.Import.WriteMode)

	assert.Equal(t, "https://api.gbif.org/v1", cfg.GBIF.URL)
	assert.Equal(t, 300, cfg.GBIF.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.GBIF.PageDelay)
	assert.False(t, cfg.GBIF.EnglishFallback)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.SearchLimit)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Destination)

	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestOptionDatabaseBackend(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"postgres", "postgres", "postgres"},
		{"memory", "memory", "memory"},
		{"normalizes case", " MONGO ", "mongo"},
		{"ignores unknown backend", "sqlite", "mongo"},
		{"ignores empty", "", "mongo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseBackend(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.Backend)
		})
	}
}

func TestOptionDatabaseURI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets uri", "mongodb://db:27017", "mongodb://db:27017"},
		{"trims whitespace", "  mongodb://db:27017 ", "mongodb://db:27017"},
		{"ignores empty string", "", "mongodb://localhost:27017"},
		{"ignores whitespace-only", "   ", "mongodb://localhost:27017"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseURI(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.URI)
		})
	}
}

func TestOptionDatabaseSSLMode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"disable", "disable", "disable"},
		{"require", "require", "require"},
		{"verify-ca", "verify-ca", "verify-ca"},
		{"verify-full", "verify-full", "verify-full"},
		{"normalizes to lowercase", "REQUIRE", "require"},
		{"ignores invalid value", "invalid", "disable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseSSLMode(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.SSLMode)
		})
	}
}

func TestOptionImport(t *testing.T) {
	t.Run("batch size", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptImportBatchSize(500)})
		assert.Equal(t, 500, cfg.Import.BatchSize)
		cfg.Update([]config.Option{config.OptImportBatchSize(0)})
		assert.Equal(t, 500, cfg.Import.BatchSize)
		cfg.Update([]config.Option{config.OptImportBatchSize(-3)})
		assert.Equal(t, 500, cfg.Import.BatchSize)
	})

	t.Run("max in flight", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptImportMaxInFlight(2)})
		assert.Equal(t, 2, cfg.Import.MaxInFlight)
		cfg.Update([]config.Option{config.OptImportMaxInFlight(0)})
		assert.Equal(t, 2, cfg.Import.MaxInFlight)
	})

	t.Run("strict ranks", func(t *testing.T) {
		falseVal := false
		cfg := config.New()
		cfg.Update([]config.Option{config.OptImportStrictRanks(nil)})
		assert.True(t, cfg.Import.IsStrict())
		cfg.Update([]config.Option{config.OptImportStrictRanks(&falseVal)})
		assert.False(t, cfg.Import.IsStrict())
	})

	t.Run("write mode", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptImportWriteMode("UPSERT")})
		assert.Equal(t, "upsert", cfg.Import.WriteMode)
		cfg.Update([]config.Option{config.OptImportWriteMode("merge")})
		assert.Equal(t, "upsert", cfg.Import.WriteMode)
	})
}

func TestOptionGBIF(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptGBIFURL("http://localhost:8080/v1/"),
		config.OptGBIFPageSize(50),
		config.OptGBIFPageDelay(0),
		config.OptGBIFRetryAttempts(2),
		config.OptGBIFRetryDelay(-time.Second),
		config.OptGBIFEnglishFallback(true),
	})
	assert.Equal(t, "http://localhost:8080/v1", cfg.GBIF.URL)
	assert.Equal(t, 50, cfg.GBIF.PageSize)
	assert.Equal(t, time.Duration(0), cfg.GBIF.PageDelay)
	assert.Equal(t, 2, cfg.GBIF.RetryAttempts)
	assert.Equal(t, time.Second, cfg.GBIF.RetryDelay, "negative delay ignored")
	assert.True(t, cfg.GBIF.EnglishFallback)
}

func TestOptionServerCORSOrigins(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptServerCORSOrigins([]string{" ", ""})})
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)

	cfg.Update([]config.Option{
		config.OptServerCORSOrigins([]string{" http://localhost:8081 ", ""}),
	})
	assert.Equal(t, []string{"http://localhost:8081"}, cfg.Server.CORSOrigins)
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"debug", "debug", "debug"},
		{"warn", "warn", "warn"},
		{"normalizes to lowercase", "ERROR", "error"},
		{"ignores invalid value", "trace", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptLogLevel(tt.input)})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestOptionLogDestination(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptLogDestination("stderr")})
	assert.Equal(t, "stderr", cfg.Log.Destination)
	cfg.Update([]config.Option{config.OptLogDestination("stdin")})
	assert.Equal(t, "stderr", cfg.Log.Destination)
}

func TestOptionJobsNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"sets valid jobs number", 8, 8},
		{"ignores zero", 0, runtime.NumCPU()},
		{"ignores negative", -5, runtime.NumCPU()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptJobsNumber(tt.input)})
			assert.Equal(t, tt.expected, cfg.JobsNumber)
		})
	}
}

func TestMultipleOptions(t *testing.T) {
	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptDatabaseName("first"),
			config.OptDatabaseName("second"),
		})
		assert.Equal(t, "second", cfg.Database.Name)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("carries persistent fields", func(t *testing.T) {
		falseVal := false
		original := config.New()
		original.Update([]config.Option{
			config.OptDatabaseBackend("postgres"),
			config.OptDatabaseName("fungi_test"),
			config.OptDatabasePassword("from-env"),
			config.OptImportBatchSize(100),
			config.OptImportStrictRanks(&falseVal),
			config.OptImportWriteMode("upsert"),
			config.OptGBIFPageDelay(0),
			config.OptGBIFVernacularLookup(true),
			config.OptServerPort(8080),
			config.OptLogFormat("text"),
			config.OptJobsNumber(3),
		})

		newCfg := config.New()
		newCfg.Update(original.ToOptions())

		assert.Equal(t, original.Database, newCfg.Database)
		assert.Equal(t, original.Import.BatchSize, newCfg.Import.BatchSize)
		assert.False(t, newCfg.Import.IsStrict())
		assert.Equal(t, "upsert", newCfg.Import.WriteMode)
		assert.Equal(t, original.GBIF, newCfg.GBIF)
		assert.Equal(t, original.Server, newCfg.Server)
		assert.Equal(t, original.Log, newCfg.Log)
		assert.Equal(t, 3, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptHomeDir("/custom/home")})

		newCfg := config.New()
		newCfg.Update(cfg.ToOptions())
		assert.Equal(t, "", newCfg.HomeDir)
	})
}
