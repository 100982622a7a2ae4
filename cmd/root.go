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
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/fungidb/internal/iofs"
	"github.com/gnames/fungidb/internal/iologger"
	fungidb "github.com/gnames/fungidb/pkg"
	"github.com/gnames/fungidb/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands.
// A new instance is created on every call to keep tests independent.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s",
			fungidb.Version, fungidb.Build),
		Use:   "fungidb",
		Short: "FungiDB imports fungal species and serves them to field notebooks",
		Long: `FungiDB loads fungal species into a document store and serves a
REST API for the mobile field notebook.

Commands:
  - create: prepare collections, tables and indexes
  - import: load species from taxonomic backbone TSV files
  - fetch:  load species from the GBIF species API
  - serve:  run the REST API

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (FUNGIDB_*)
  3. Config file (~/.config/fungidb/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (import.batch_size → FUNGIDB_IMPORT_BATCH_SIZE).

  Examples:
    FUNGIDB_DATABASE_BACKEND    mongo, postgres or memory
    FUNGIDB_DATABASE_URI        MongoDB connection string (also MONGO_URI)
    FUNGIDB_DATABASE_PASSWORD   PostgreSQL password
    FUNGIDB_SERVER_PORT         REST API port (also PORT)
    FUNGIDB_LOG_LEVEL           Log level (debug/info/warn/error)`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "fungidb version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for fungidb")

	rootCmd.AddCommand(
		getCreateCmd(),
		getImportCmd(),
		getFetchCmd(),
		getServeCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"backend", cfg.Database.Backend,
	)

	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("FUNGIDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	keys := []string{
		// Database configuration
		"database.backend",
		"database.name",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.ssl_mode",
		"database.timeout",

		// Import configuration
		"import.taxon_file",
		"import.vernacular_file",
		"import.batch_size",
		"import.max_in_flight",
		"import.strict_ranks",
		"import.write_mode",

		// GBIF configuration
		"gbif.url",
		"gbif.page_size",
		"gbif.page_delay",
		"gbif.retry_attempts",
		"gbif.retry_delay",
		"gbif.timeout",
		"gbif.vernacular_lookup",
		"gbif.english_fallback",

		// Server configuration
		"server.host",
		"server.cors_origins",
		"server.rate_limit",
		"server.search_limit",

		// Log configuration
		"log.level",
		"log.format",
		"log.destination",

		// General configuration
		"jobs_number",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// hosting platforms provide these names
	_ = v.BindEnv("database.uri", "FUNGIDB_DATABASE_URI", "MONGO_URI")
	_ = v.BindEnv("server.port", "FUNGIDB_SERVER_PORT", "PORT")

	v.AutomaticEnv()
}
