package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/quill/cli"
	"github.com/grovetools/quill/hooks"
	"github.com/grovetools/quill/tui/theme"
)

const defaultHooksFile = ".pre-commit-config.yaml"

func NewHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Inspect and validate pre-commit hook configuration",
	}

	cmd.AddCommand(newHooksValidateCmd())
	cmd.AddCommand(newHooksListCmd())
	cmd.AddCommand(newHooksSchemaCmd())

	return cmd
}

func newHooksValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a hook configuration file against the schema",
		Long: `Validate a hook configuration file against the schema.

Unknown keys produce warnings rather than errors, so files written for
newer hook runners still validate.

Examples:
  # Validate the default file
  quill hooks validate

  # Validate a specific file
  quill hooks validate ci/.pre-commit-config.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultHooksFile
			if len(args) == 1 {
				path = args[0]
			}

			logger := cli.GetLogger(cmd, cli.WithOutput(cmd.ErrOrStderr()))
			cfg, warnings, err := hooks.Load(path)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				logger.Warn(w)
			}

			if err := hooks.Validate(cfg); err != nil {
				return err
			}

			hookCount := 0
			for _, repo := range cfg.Repos {
				hookCount += len(repo.Hooks)
			}
			fmt.Printf("%s %s: %d repo(s), %d hook(s)\n",
				theme.StatusText("success", "VALID"), path, len(cfg.Repos), hookCount)
			return nil
		},
	}
	return cmd
}

func newHooksListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [file]",
		Short: "List the hooks a configuration file declares",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultHooksFile
			if len(args) == 1 {
				path = args[0]
			}

			cfg, _, err := hooks.Load(path)
			if err != nil {
				return err
			}

			t := theme.DefaultTheme
			for _, repo := range cfg.Repos {
				fmt.Printf("%s %s\n", t.Header.Render(repo.Repo), t.Muted.Render("@ "+repo.Rev))
				for _, hook := range repo.Hooks {
					line := "  " + t.Accent.Render(hook.ID)
					if len(hook.Args) > 0 {
						line += " " + strings.Join(hook.Args, " ")
					}
					if hook.LanguageVersion != "" {
						line += " " + t.Muted.Render("("+hook.LanguageVersion+")")
					}
					fmt.Println(line)
				}
			}
			return nil
		},
	}
	return cmd
}

func newHooksSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the hook configuration JSON schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hooks.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
	return cmd
}
