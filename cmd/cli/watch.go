// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"smctl/internal/commands"
	"smctl/internal/config"
	"smctl/internal/logger"
	"smctl/internal/watch"

	"github.com/spf13/cobra"
)

var (
	watchCompile  bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Push libraries to an environment whenever they are saved",
	Long: `Watches a directory and pushes every saved .js file to the environment
given with --env. The directory defaults to the environment's workspace.
Runs until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if envAlias == "" {
			return errors.New("watch needs --env")
		}
		if watchDebounce < 0 {
			return fmt.Errorf("--debounce must not be negative, got %s", watchDebounce)
		}
		return runCommand(cmd, false, func(ctx context.Context, c *commands.Commands) error {
			target, _, err := c.PickEnvironment(ctx, envAlias)
			if err != nil {
				return err
			}

			dir := target.Env.Path
			if len(args) == 1 {
				dir = args[0]
			}
			dir, err = config.ResolvePath(dir)
			if err != nil {
				return err
			}
			if dir, err = filepath.Abs(dir); err != nil {
				return err
			}

			w, err := watch.New(dir, func(ctx context.Context, path string) error {
				return c.SyncFile(ctx, target, path, watchCompile)
			}, watch.WithDebounce(watchDebounce))
			if err != nil {
				return err
			}
			defer w.Close()

			statusColor.Printf("Watching %s for %s. Press Ctrl+C to stop.\n", dir, identifierColor.Sprint(target.Alias))
			err = w.Run(ctx)
			if errors.Is(err, context.Canceled) {
				logger.Info("Watch stopped", "dir", dir)
				fmt.Println()
				return nil
			}
			return err
		})
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchCompile, "compile", false, "compile every library after pushing it")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "how long a file must be quiet before it is pushed")
}
