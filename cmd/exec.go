package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/quill/query"
	"github.com/grovetools/quill/tui/theme"
)

func NewExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Run a SQL statement against the configured database",
		Long: `Run a SQL statement against the database configured in quill.yml.

Statements starting with SELECT print their result rows. Other statements
print the number of affected rows.

Examples:
  # Query rows
  quill exec "SELECT id, name FROM user"

  # Run a statement
  quill exec "DELETE FROM session WHERE expired = 1"

  # Machine-readable output
  quill exec --json "SELECT count(*) AS n FROM user"`,
		Args: cobra.ExactArgs(1),
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

			ctx := cmd.Context()
			stmt := strings.TrimSpace(args[0])
			jsonOutput, _ := cmd.Flags().GetBool("json")

			if !strings.HasPrefix(strings.ToUpper(stmt), "SELECT") {
				affected, err := eng.ExecSQL(ctx, stmt)
				if err != nil {
					return err
				}
				if jsonOutput {
					fmt.Printf("{\"rows_affected\": %d}\n", affected)
				} else {
					fmt.Printf("%s %d row(s) affected\n", theme.StatusText("success", "OK"), affected)
				}
				return nil
			}

			rows, err := eng.QuerySQL(ctx, stmt)
			if err != nil {
				return err
			}

			if jsonOutput {
				data, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal rows: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			printRows(rows)
			return nil
		},
	}
	return cmd
}

// printRows renders result rows as column: value blocks, one block per row.
// Column order is alphabetical since maps carry no order.
func printRows(rows []query.Row) {
	t := theme.DefaultTheme
	if len(rows) == 0 {
		fmt.Println(t.Muted.Render("(no rows)"))
		return
	}

	for i, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Println(t.Header.Render(fmt.Sprintf("row %d", i+1)))
		for _, k := range keys {
			fmt.Printf("  %s: %v\n", t.Accent.Render(k), row[k])
		}
	}
	fmt.Println(t.Muted.Render(fmt.Sprintf("%d row(s)", len(rows))))
}
