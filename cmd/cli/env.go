// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"smctl/internal/commands"
	"smctl/internal/config"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage Service Manager environments",
	Long: `Add, list, remove and check the Service Manager environments smctl talks to.
Every environment has an alias used with --env, a display name, the REST base
URL and the workspace directory its libraries are saved in.`,
}

var envAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an environment through a guided prompt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, true, func(ctx context.Context, c *commands.Commands) error {
			return c.AddEnvironment(ctx)
		})
	},
}

var envListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the configured environments",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FileStore{}.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if len(cfg.Environments) == 0 {
			warnColor.Fprintln(os.Stderr, `No environments configured. Add one with "smctl env add".`)
			return nil
		}
		for _, alias := range cfg.Aliases() {
			env := cfg.Environments[alias]
			fmt.Printf("%s  %s  %s\n", identifierColor.Sprint(alias), env.Name, dimColor.Sprint(env.URL))
			fmt.Printf("    workspace: %s\n", env.Path)
		}
		return nil
	},
}

var removeYes bool

var envRemoveCmd = &cobra.Command{
	Use:               "remove [alias]",
	Aliases:           []string{"rm"},
	Short:             "Remove an environment",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: envArgCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		alias := envAlias
		if len(args) == 1 {
			alias = args[0]
		}
		prompt := alias == "" || !removeYes
		return runCommand(cmd, prompt, func(ctx context.Context, c *commands.Commands) error {
			if removeYes {
				c.Confirm = func(context.Context, string) (bool, error) { return true, nil }
			}
			return c.RemoveEnvironment(ctx, alias)
		})
	},
}

var envStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that every environment answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		notifier := newTerminalNotifier()
		notifier.Status("Checking environments...")
		statuses, err := newCommands(notifier).CheckEnvironments(ctx)
		notifier.Stop()
		if err != nil {
			return err
		}
		return printStatuses(statuses)
	},
}

// printStatuses prints one line per environment and fails when any of them
// could not be reached.
func printStatuses(statuses []commands.EnvStatus) error {
	failed := 0
	for _, s := range statuses {
		if !s.Reachable() {
			failed++
			errorColor.Printf("✗ %s", s.Alias)
			fmt.Printf("  %s  %s\n", s.Name, dimColor.Sprint(s.Err))
			continue
		}
		successColor.Printf("✓ %s", s.Alias)
		fmt.Printf("  %s  %s libraries  %s\n", s.Name, humanize.Comma(int64(s.Libraries)), dimColor.Sprint(s.Latency.Round(time.Millisecond)))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d environments unreachable", failed, len(statuses))
	}
	return nil
}

func init() {
	envRemoveCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "remove without asking for confirmation")

	envCmd.AddCommand(envAddCmd)
	envCmd.AddCommand(envListCmd)
	envCmd.AddCommand(envRemoveCmd)
	envCmd.AddCommand(envStatusCmd)
}
