// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package tui runs the interactive command palette.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"smctl/internal/commands"
	"smctl/internal/config"
	"smctl/internal/library"
	"smctl/internal/logger"
	"smctl/internal/runner"
	"smctl/internal/ui"
	"smctl/internal/wizard"

	"github.com/dustin/go-humanize"
)

// action is one palette entry.
type action struct {
	key   string
	label string
	desc  string
	// needsFile asks for a library file first.
	needsFile bool
	run       func(ctx context.Context, c *commands.Commands, file string) error
}

var actions = []action{
	{key: "add", label: "Add Environment", desc: "Configure a new Service Manager instance",
		run: func(ctx context.Context, c *commands.Commands, _ string) error { return c.AddEnvironment(ctx) }},
	{key: "get", label: "Get Library", desc: "Browse remote libraries and pull one",
		run: func(ctx context.Context, c *commands.Commands, _ string) error { return c.GetLibrary(ctx, "") }},
	{key: "pull", label: "Pull Library", desc: "Replace a local file with the remote version", needsFile: true,
		run: func(ctx context.Context, c *commands.Commands, file string) error {
			_, err := c.PullLibrary(ctx, "", file)
			return err
		}},
	{key: "push", label: "Push Library", desc: "Upload a local file", needsFile: true,
		run: func(ctx context.Context, c *commands.Commands, file string) error { return c.PushLibrary(ctx, "", file) }},
	{key: "compile", label: "Compile Library", desc: "Compile the remote version", needsFile: true,
		run: func(ctx context.Context, c *commands.Commands, file string) error { return c.CompileLibrary(ctx, "", file) }},
	{key: "execute", label: "Execute Library", desc: "Execute the remote version", needsFile: true,
		run: func(ctx context.Context, c *commands.Commands, file string) error { return c.ExecuteLibrary(ctx, "", file) }},
	{key: "compare", label: "Compare Library", desc: "Diff a local file against the remote version", needsFile: true,
		run: func(ctx context.Context, c *commands.Commands, file string) error {
			_, err := c.CompareLibrary(ctx, "", file)
			return err
		}},
	{key: "check", label: "Check Environments", desc: "Probe every configured environment",
		run: checkEnvironments},
	{key: "remove", label: "Remove Environment", desc: "Delete an environment from the configuration",
		run: func(ctx context.Context, c *commands.Commands, _ string) error { return c.RemoveEnvironment(ctx, "") }},
	{key: "quit", label: "Quit"},
}

// RunTUI initializes and runs the palette.
func RunTUI() {
	logger.InitLogger(true)

	err := ui.Run(context.Background(), ui.Options{Title: "Service Manager", AltScreen: true}, palette)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}

// palette shows the action list until the user quits.
func palette(ctx context.Context, p *ui.Presenter) error {
	c := &commands.Commands{
		Store:     config.FileStore{},
		Presenter: p,
		Notifier:  p,
		Confirm:   p.Confirm,
		DiffTool:  diffTool(p),
	}

	items := make([]wizard.Item, len(actions))
	for i, a := range actions {
		items[i] = wizard.Item{Key: a.key, Label: a.label, Description: a.desc}
	}

	var last *wizard.Item
	var lastFile string
	for {
		item, ok, err := wizard.Pick(ctx, p, wizard.QuickPickParams{
			Title:       "Commands",
			Items:       items,
			ActiveItem:  last,
			Placeholder: "Type to filter commands",
		})
		if err != nil {
			return err
		}
		if !ok || item.Key == "quit" {
			return nil
		}
		last = &item

		a := findAction(item.Key)
		file := ""
		if a.needsFile {
			file, ok, err = askFile(ctx, p, a.label, lastFile)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			lastFile = file
		}

		if err := a.run(ctx, c, file); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !errors.Is(err, commands.ErrReported) {
				logger.Error("Command failed", "command", a.key, "error", err)
				p.Error(err.Error())
			}
		}
	}
}

func findAction(key string) action {
	for _, a := range actions {
		if a.key == key {
			return a
		}
	}
	return action{}
}

// askFile prompts for a library file. The answer must name an existing file.
func askFile(ctx context.Context, p *ui.Presenter, title, last string) (string, bool, error) {
	value, ok, err := wizard.Ask(ctx, p, wizard.InputBoxParams{
		Title:       title,
		Value:       last,
		Prompt:      "Path of the library file",
		Placeholder: "e.g. ~/sm/dev/helpers" + library.Ext,
		Validate: func(_ context.Context, v string) (string, error) {
			path, err := config.ResolvePath(strings.TrimSpace(v))
			if err != nil {
				return err.Error(), nil
			}
			info, err := os.Stat(path)
			switch {
			case err != nil:
				return "File not found", nil
			case info.IsDir():
				return "That is a directory", nil
			case filepath.Ext(path) != library.Ext:
				return fmt.Sprintf("Library files end in %s", library.Ext), nil
			}
			return "", nil
		},
	})
	if err != nil || !ok {
		return "", ok, err
	}
	path, err := config.ResolvePath(strings.TrimSpace(value))
	return path, err == nil, err
}

// diffTool runs SMCTL_DIFF_TOOL for comparisons and shows its output as a
// document. Interactive tools cannot share the screen, so only their output
// is kept.
func diffTool(p *ui.Presenter) func(context.Context, string, string) error {
	commandLine := os.Getenv("SMCTL_DIFF_TOOL")
	if commandLine == "" {
		return nil
	}
	return func(ctx context.Context, local, remote string) error {
		step, err := runner.ToolStep("diff", commandLine, local, remote)
		if err != nil {
			return err
		}
		p.Status(fmt.Sprintf("Running %s", step))
		var out strings.Builder
		err = runner.Collect(ctx, step, func(line runner.OutputLine) {
			out.WriteString(line.Line)
		})
		// diff(1) exits non-zero when the files differ.
		if out.Len() == 0 {
			if err != nil {
				return err
			}
			p.Info("Diff tool finished without output.")
			return nil
		}
		p.Document(library.Title, out.String())
		return nil
	}
}

// checkEnvironments shows a report of every environment.
func checkEnvironments(ctx context.Context, c *commands.Commands, _ string) error {
	c.Notifier.Status("Checking environments...")
	statuses, err := c.CheckEnvironments(ctx)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, s := range statuses {
		if !s.Reachable() {
			fmt.Fprintf(&b, "✗ %s (%s)\n    %s\n    %v\n", s.Alias, s.Name, s.URL, s.Err)
			continue
		}
		fmt.Fprintf(&b, "✓ %s (%s)\n    %s\n    %s libraries in %s\n",
			s.Alias, s.Name, s.URL, humanize.Comma(int64(s.Libraries)), s.Latency.Round(time.Millisecond))
	}
	c.Notifier.Document("Environment status", b.String())
	return nil
}
