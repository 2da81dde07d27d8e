// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"os"

	"smctl/internal/commands"
	"smctl/internal/runner"

	"github.com/spf13/cobra"
)

var (
	openAfterPull bool
	diffTool      string
)

var librariesCmd = &cobra.Command{
	Use:     "libraries",
	Aliases: []string{"get"},
	Short:   "Browse the libraries of an environment and pull one",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var pulled string
		err := runCommand(cmd, true, func(ctx context.Context, c *commands.Commands) error {
			c.Open = capturePath(&pulled)
			return c.GetLibrary(ctx, envAlias)
		})
		return openPulled(cmd, pulled, err)
	},
}

var pullCmd = &cobra.Command{
	Use:               "pull <file>",
	Short:             "Replace a local library with its remote version",
	Long:              `Fetches the ScriptLibrary named after <file> and saves it into the environment's workspace.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: libraryFileCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		var pulled string
		err := runCommand(cmd, envAlias == "", func(ctx context.Context, c *commands.Commands) error {
			c.Open = capturePath(&pulled)
			_, err := c.PullLibrary(ctx, envAlias, args[0])
			return err
		})
		return openPulled(cmd, pulled, err)
	},
}

var pushCmd = &cobra.Command{
	Use:               "push <file>",
	Short:             "Upload a local library, creating it when missing",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: libraryFileCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, envAlias == "", func(ctx context.Context, c *commands.Commands) error {
			return c.PushLibrary(ctx, envAlias, args[0])
		})
	},
}

var compileCmd = &cobra.Command{
	Use:               "compile <file>",
	Short:             "Compile the remote version of a library",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: libraryFileCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, envAlias == "", func(ctx context.Context, c *commands.Commands) error {
			return c.CompileLibrary(ctx, envAlias, args[0])
		})
	},
}

var executeCmd = &cobra.Command{
	Use:               "execute <file>",
	Aliases:           []string{"exec"},
	Short:             "Execute the remote version of a library",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: libraryFileCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, envAlias == "", func(ctx context.Context, c *commands.Commands) error {
			return c.ExecuteLibrary(ctx, envAlias, args[0])
		})
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <file>",
	Short: "Diff a local library against its remote version",
	Long: `Shows a unified diff from the local file (left) to the remote version (right).

With --tool the two files are opened in an external program instead. Use
{local} and {remote} in the command line to place the paths; otherwise they
are appended. SMCTL_DIFF_TOOL sets a default.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: libraryFileCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		tool := diffTool
		if tool == "" {
			tool = os.Getenv("SMCTL_DIFF_TOOL")
		}

		var local, remote string
		err := runCommand(cmd, envAlias == "", func(ctx context.Context, c *commands.Commands) error {
			if tool != "" {
				c.DiffTool = func(_ context.Context, l, r string) error {
					local, remote = l, r
					return nil
				}
			}
			_, err := c.CompareLibrary(ctx, envAlias, args[0])
			return err
		})
		if err != nil || local == "" {
			return err
		}

		step, err := runner.ToolStep("diff", tool, local, remote)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return runner.Run(ctx, step)
	},
}

// capturePath records the path handed to an Open hook so the editor can be
// started once the prompt has released the terminal.
func capturePath(dst *string) func(context.Context, string) error {
	return func(_ context.Context, path string) error {
		*dst = path
		return nil
	}
}

func openPulled(cmd *cobra.Command, path string, err error) error {
	if err != nil || path == "" || !openAfterPull {
		return err
	}
	return openInEditor(cmd, path)
}

func init() {
	librariesCmd.Flags().BoolVar(&openAfterPull, "open", false, "open the pulled library in $VISUAL or $EDITOR")
	pullCmd.Flags().BoolVar(&openAfterPull, "open", false, "open the pulled library in $VISUAL or $EDITOR")
	compareCmd.Flags().StringVar(&diffTool, "tool", "", "external diff command, e.g. \"meld {local} {remote}\"")
}
