package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/quill/tui/theme"
)

func NewPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			eng, closeDB, err := openEngine(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			start := time.Now()
			if err := eng.DB().PingContext(cmd.Context()); err != nil {
				fmt.Printf("%s %s (%s): %v\n",
					theme.StatusText("error", "FAIL"), cfg.Database.Driver, cfg.Database.DSN, err)
				return err
			}

			fmt.Printf("%s %s (%s) in %s\n",
				theme.StatusText("success", "OK"), cfg.Database.Driver, cfg.Database.DSN,
				time.Since(start).Round(time.Microsecond))
			return nil
		},
	}
	return cmd
}
