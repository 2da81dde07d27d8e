// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"smctl/internal/commands"
	"smctl/internal/config"
	"smctl/internal/runner"
	"smctl/internal/ui"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var errNotInteractive = errors.New("this command needs a terminal to prompt; pass --env (and the other required arguments) when running non-interactively")

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// isInteractive reports whether prompts can be shown.
func isInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// commandContext is cancelled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// newCommands wires the command layer for the CLI. Presenter and Confirm are
// set by runCommand when prompting is possible.
func newCommands(n commands.Notifier) *commands.Commands {
	return &commands.Commands{
		Store:    config.FileStore{},
		Notifier: n,
	}
}

// openInEditor opens a pulled library in $VISUAL or $EDITOR.
func openInEditor(cmd *cobra.Command, path string) error {
	step, err := runner.EditorStep(path)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	return runner.Run(ctx, step)
}

// runCommand runs fn with a fully wired Commands. When prompt is true the
// command shows prompts inline, which needs a terminal; results are printed
// after the prompt has exited. External tools must therefore run after
// runCommand returns, never from inside fn.
func runCommand(cmd *cobra.Command, prompt bool, fn func(ctx context.Context, c *commands.Commands) error) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	notifier := newTerminalNotifier()
	defer notifier.Stop()

	if !prompt {
		return fn(ctx, newCommands(notifier))
	}
	if !isInteractive() {
		return errNotInteractive
	}

	deferred := &deferredNotifier{}
	err := ui.Run(ctx, ui.Options{Title: rootCmd.Short}, func(ctx context.Context, p *ui.Presenter) error {
		deferred.status = p.Status
		c := newCommands(deferred)
		c.Presenter = p
		c.Confirm = p.Confirm
		return fn(ctx, c)
	})
	deferred.flush(notifier)
	return err
}
