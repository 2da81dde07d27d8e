// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"errors"
	"os"

	"smctl/internal/commands"
	"smctl/internal/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	statusColor     = color.New(color.FgCyan)
	errorColor      = color.New(color.FgRed)
	warnColor       = color.New(color.FgYellow)
	stepColor       = color.New(color.FgYellow)
	successColor    = color.New(color.FgGreen)
	identifierColor = color.New(color.FgBlue)
	dimColor        = color.New(color.Faint)
	diffAddColor    = color.New(color.FgGreen)
	diffDelColor    = color.New(color.FgRed)
	diffHunkColor   = color.New(color.FgCyan)
)

// envAlias is the value of the persistent --env flag.
var envAlias string

var rootCmd = &cobra.Command{
	Use:   "smctl",
	Short: "Service Manager ScriptLibrary CLI",
	Long: `A command-line interface to pull, push, compile, execute and compare
Service Manager ScriptLibrary records.

Environments are stored in ~/.config/servicemanager/config.yaml (override the
directory with SMCTL_CONFIG_DIR). Run without arguments for the interactive
palette.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The terminal belongs to the prompts when they can be shown.
		logger.InitLogger(isInteractive())
		return nil
	},
}

// RunCLI executes the root command and exits non-zero on failure. Errors the
// commands already showed are not printed again.
func RunCLI() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if !errors.Is(err, commands.ErrReported) {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envAlias, "env", "e", "", "alias of the environment to use (prompted for when omitted)")
	_ = rootCmd.RegisterFlagCompletionFunc("env", envCompletionFunc)

	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(librariesCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(executeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}
