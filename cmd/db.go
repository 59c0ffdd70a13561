package cmd

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/grovetools/quill/builder"
	"github.com/grovetools/quill/cli"
	"github.com/grovetools/quill/config"
	"github.com/grovetools/quill/engine"
)

// driverNames maps config driver values to the registered database/sql name.
var driverNames = map[string]string{
	"sqlite":  "sqlite",
	"sqlite3": "sqlite",
	"mysql":   "mysql",
}

// loadConfig resolves and loads the quill configuration for a command,
// honoring the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := cli.GetOptions(cmd)

	path, err := cli.InitConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if path == "" {
		cfg := &config.Config{}
		cfg.SetDefaults()
		return cfg, nil
	}

	return config.Load(path)
}

// openEngine opens the configured database and pairs it with the matching
// SQL builder.
func openEngine(cfg *config.Config) (*engine.Engine, func() error, error) {
	driver, ok := driverNames[cfg.Database.Driver]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported database driver %q (supported: sqlite, mysql)", cfg.Database.Driver)
	}

	bld, err := builder.ForDriver(cfg.Database.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(driver, cfg.Database.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	return engine.New(db, bld), db.Close, nil
}
