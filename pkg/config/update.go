package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var d time.Duration

	s = c.Database.Backend
	if s != "" {
		res = append(res, OptDatabaseBackend(s))
	}
	s = c.Database.URI
	if s != "" {
		res = append(res, OptDatabaseURI(s))
	}
	s = c.Database.Name
	if s != "" {
		res = append(res, OptDatabaseName(s))
	}
	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	d = c.Database.Timeout
	if d > 0 {
		res = append(res, OptDatabaseTimeout(d))
	}

	s = c.Import.TaxonFile
	if s != "" {
		res = append(res, OptImportTaxonFile(s))
	}
	s = c.Import.VernacularFile
	if s != "" {
		res = append(res, OptImportVernacularFile(s))
	}
	i = c.Import.BatchSize
	if i > 0 {
		res = append(res, OptImportBatchSize(i))
	}
	i = c.Import.MaxInFlight
	if i > 0 {
		res = append(res, OptImportMaxInFlight(i))
	}
	if c.Import.StrictRanks != nil {
		b := *c.Import.StrictRanks
		res = append(res, OptImportStrictRanks(&b))
	}
	s = c.Import.WriteMode
	if s != "" {
		res = append(res, OptImportWriteMode(s))
	}

	s = c.GBIF.URL
	if s != "" {
		res = append(res, OptGBIFURL(s))
	}
	i = c.GBIF.PageSize
	if i > 0 {
		res = append(res, OptGBIFPageSize(i))
	}
	res = append(res, OptGBIFPageDelay(c.GBIF.PageDelay))
	i = c.GBIF.RetryAttempts
	if i > 0 {
		res = append(res, OptGBIFRetryAttempts(i))
	}
	res = append(res, OptGBIFRetryDelay(c.GBIF.RetryDelay))
	d = c.GBIF.Timeout
	if d > 0 {
		res = append(res, OptGBIFTimeout(d))
	}
	res = append(res,
		OptGBIFVernacularLookup(c.GBIF.VernacularLookup),
		OptGBIFEnglishFallback(c.GBIF.EnglishFallback),
	)

	s = c.Server.Host
	if s != "" {
		res = append(res, OptServerHost(s))
	}
	i = c.Server.Port
	if i > 0 {
		res = append(res, OptServerPort(i))
	}
	if len(c.Server.CORSOrigins) > 0 {
		res = append(res, OptServerCORSOrigins(c.Server.CORSOrigins))
	}
	i = c.Server.RateLimit
	if i > 0 {
		res = append(res, OptServerRateLimit(i))
	}
	i = c.Server.SearchLimit
	if i > 0 {
		res = append(res, OptServerSearchLimit(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidDuration(name string, d time.Duration) bool {
	res := d > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive duration, ignoring %s", name, d)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.Backend": {"mongo": s, "postgres": s, "memory": s},
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Import.WriteMode": {"insert": s, "upsert": s},
		"Log.Level":        {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":       {"json": s, "text": s, "tint": s},
		"Log.Destination":  {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
