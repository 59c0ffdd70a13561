package main

import (
	"os"

	"github.com/grovetools/quill/cli"
	"github.com/grovetools/quill/cmd"
	"github.com/grovetools/quill/version"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"quill",
		"Typed SQL query builder and data mapper for the Grove ecosystem",
	)
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	info := version.GetInfo()
	cli.SetVersionTemplate(rootCmd, info)

	rootCmd.AddCommand(cli.NewVersionCommand(info))
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cmd.NewPingCmd())
	rootCmd.AddCommand(cmd.NewExecCmd())
	rootCmd.AddCommand(cmd.NewHooksCmd())

	cli.ApplyStyledHelpRecursive(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		cli.NewErrorHandler(verbose).Handle(err)
		os.Exit(1)
	}
}
