// Package cli provides the shared cobra scaffolding for quill commands:
// standard flags, flag-driven loggers, styled help, and code-aware error
// reporting.
package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/quill/config"
	"github.com/grovetools/quill/logging"
)

// CommandOptions holds common options for quill commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with standard quill flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to quill.yml config file")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger creates a logger based on command flags. Options given by the
// caller are applied after the flag-derived ones and win.
func GetLogger(cmd *cobra.Command, opts ...LoggerOption) *logrus.Logger {
	entry := logging.NewLogger("quill-cli")
	logger := entry.Logger

	var flagOpts []LoggerOption
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		flagOpts = append(flagOpts, WithLevel(logrus.DebugLevel))
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		flagOpts = append(flagOpts, WithFormatter(&logrus.JSONFormatter{}))
	}

	for _, opt := range append(flagOpts, opts...) {
		opt(logger)
	}

	return logger
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// InitConfig resolves the configuration file path, preferring the flag value
// over directory discovery. An empty result means no config file is in play.
func InitConfig(configFile string) (string, error) {
	if configFile != "" {
		return configFile, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	foundConfigFile, err := config.FindConfigFile(cwd)
	if err != nil {
		// No config file found, that's okay for some commands
		return "", nil
	}

	return foundConfigFile, nil
}
