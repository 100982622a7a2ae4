package config

import (
	"strings"
	"time"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseBackend sets the storage implementation.
// Valid values: "mongo", "postgres", "memory".
func OptDatabaseBackend(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Database.Backend", s) {
			c.Database.Backend = s
		}
	}
}

// OptDatabaseURI sets the MongoDB connection string.
func OptDatabaseURI(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database URI", s) {
			c.Database.URI = s
		}
	}
}

// OptDatabaseName sets the database name.
func OptDatabaseName(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Name = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseTimeout sets the connection timeout.
func OptDatabaseTimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Database Timeout", d) {
			c.Database.Timeout = d
		}
	}
}

// OptImportTaxonFile sets the path to the taxon TSV file.
func OptImportTaxonFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Taxon File", s) {
			c.Import.TaxonFile = s
		}
	}
}

// OptImportVernacularFile sets the path to the vernacular names TSV file.
func OptImportVernacularFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Vernacular File", s) {
			c.Import.VernacularFile = s
		}
	}
}

// OptImportBatchSize sets the number of documents per bulk write.
func OptImportBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Import.BatchSize = i
		}
	}
}

// OptImportMaxInFlight sets the ceiling of concurrent bulk writes.
func OptImportMaxInFlight(i int) Option {
	return func(c *Config) {
		if isValidInt("Max In-Flight Batches", i) {
			c.Import.MaxInFlight = i
		}
	}
}

// OptImportStrictRanks toggles the phylum/class/order gate of the filter.
// Uses pointer to distinguish between unset (nil) and false.
func OptImportStrictRanks(b *bool) Option {
	return func(c *Config) {
		if b != nil {
			c.Import.StrictRanks = b
		}
	}
}

// OptImportWriteMode sets how documents are written.
// Valid values: "insert", "upsert".
func OptImportWriteMode(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Import.WriteMode", s) {
			c.Import.WriteMode = s
		}
	}
}

// OptGBIFURL sets the base URL of the GBIF API.
func OptGBIFURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidString("GBIF URL", s) {
			c.GBIF.URL = s
		}
	}
}

// OptGBIFPageSize sets the number of records per GBIF page.
func OptGBIFPageSize(i int) Option {
	return func(c *Config) {
		if isValidInt("GBIF Page Size", i) {
			c.GBIF.PageSize = i
		}
	}
}

// OptGBIFPageDelay sets the pause between GBIF pages. Zero disables it.
func OptGBIFPageDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.GBIF.PageDelay = d
		}
	}
}

// OptGBIFRetryAttempts caps the attempts of a single GBIF request.
func OptGBIFRetryAttempts(i int) Option {
	return func(c *Config) {
		if isValidInt("GBIF Retry Attempts", i) {
			c.GBIF.RetryAttempts = i
		}
	}
}

// OptGBIFRetryDelay sets the base delay between GBIF attempts.
func OptGBIFRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.GBIF.RetryDelay = d
		}
	}
}

// OptGBIFTimeout sets the timeout of one GBIF HTTP request.
func OptGBIFTimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("GBIF Timeout", d) {
			c.GBIF.Timeout = d
		}
	}
}

// OptGBIFVernacularLookup enables per-species vernacular names requests.
func OptGBIFVernacularLookup(b bool) Option {
	return func(c *Config) {
		c.GBIF.VernacularLookup = b
	}
}

// OptGBIFEnglishFallback allows English names when Spanish ones are absent.
func OptGBIFEnglishFallback(b bool) Option {
	return func(c *Config) {
		c.GBIF.EnglishFallback = b
	}
}

// OptServerHost sets the interface the REST API listens on.
func OptServerHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Server Host", s) {
			c.Server.Host = s
		}
	}
}

// OptServerPort sets the TCP port of the REST API.
func OptServerPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Port", i) {
			c.Server.Port = i
		}
	}
}

// OptServerCORSOrigins sets allowed CORS origins.
func OptServerCORSOrigins(ss []string) Option {
	var origins []string
	for _, v := range ss {
		v = strings.TrimSpace(v)
		if v != "" {
			origins = append(origins, v)
		}
	}
	return func(c *Config) {
		if len(origins) > 0 {
			c.Server.CORSOrigins = origins
		}
	}
}

// OptServerRateLimit sets allowed requests per IP per minute.
func OptServerRateLimit(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Rate Limit", i) {
			c.Server.RateLimit = i
		}
	}
}

// OptServerSearchLimit caps the number of species returned by a search.
func OptServerSearchLimit(i int) Option {
	return func(c *Config) {
		if isValidInt("Search Limit", i) {
			c.Server.SearchLimit = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
