// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package runner runs external tools such as diff viewers and editors on
// library files.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"smctl/internal/logger"
	"smctl/internal/util"

	"github.com/mattn/go-shellwords"
)

// Placeholders accepted in tool command lines.
const (
	LocalPlaceholder  = "{local}"
	RemotePlaceholder = "{remote}"
)

// ErrNoEditor is returned by EditorStep when neither $VISUAL nor $EDITOR is set.
var ErrNoEditor = errors.New("no editor configured: set $VISUAL or $EDITOR")

// Step is one external command.
type Step struct {
	Name    string
	Command string
	Args    []string
	Dir     string
}

// String renders the step as a shell command line.
func (s Step) String() string {
	parts := []string{s.Command}
	for _, arg := range s.Args {
		parts = append(parts, util.QuoteArgForShell(arg))
	}
	return strings.Join(parts, " ")
}

type OutputLine struct {
	Line    string
	IsError bool // True if the line came from stderr
}

// ToolStep parses a user supplied command line such as "meld" or
// "code --diff {local} {remote}". Environment variables are expanded. When the
// line uses no placeholder, local and remote are appended.
func ToolStep(name, commandLine, local, remote string) (Step, error) {
	p := shellwords.NewParser()
	p.ParseEnv = true
	words, err := p.Parse(commandLine)
	if err != nil {
		return Step{}, fmt.Errorf("parsing command %q: %w", commandLine, err)
	}
	if len(words) == 0 {
		return Step{}, fmt.Errorf("empty command for %s", name)
	}

	args := make([]string, 0, len(words)+1)
	substituted := false
	for _, w := range words[1:] {
		if strings.Contains(w, LocalPlaceholder) || strings.Contains(w, RemotePlaceholder) {
			substituted = true
			w = strings.ReplaceAll(w, LocalPlaceholder, local)
			w = strings.ReplaceAll(w, RemotePlaceholder, remote)
		}
		args = append(args, w)
	}
	if !substituted {
		if local != "" {
			args = append(args, local)
		}
		if remote != "" {
			args = append(args, remote)
		}
	}
	return Step{Name: name, Command: words[0], Args: args}, nil
}

// EditorStep opens path in $VISUAL, falling back to $EDITOR.
func EditorStep(path string) (Step, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		return Step{}, ErrNoEditor
	}
	return ToolStep("Open Editor", editor, path, "")
}

// Stream executes step. If cliMode is true, the command is attached to the
// terminal. Otherwise output is sent chunk by chunk over the returned channel.
// The error channel receives at most one error and is closed when the command
// has finished.
func Stream(ctx context.Context, step Step, cliMode bool) (<-chan OutputLine, <-chan error) {
	// Buffer channel slightly for TUI mode to prevent blocking on rapid output
	outChan := make(chan OutputLine, 10)
	errChan := make(chan error, 1)

	go func() {
		defer close(outChan)
		defer close(errChan)

		cmd := exec.CommandContext(ctx, step.Command, step.Args...)
		cmd.Dir = step.Dir
		logger.Info("Running external command", "step", step.Name, "command", step.String())
		runLocalCommand(cmd, fmt.Sprintf("step '%s'", step.Name), cliMode, outChan, errChan)
	}()

	return outChan, errChan
}

// Run executes step attached to the terminal and waits for it.
func Run(ctx context.Context, step Step) error {
	out, errs := Stream(ctx, step, true)
	for range out {
	}
	return <-errs
}

// Collect runs step detached from the terminal and hands every output chunk
// to onOutput.
func Collect(ctx context.Context, step Step, onOutput func(OutputLine)) error {
	out, errs := Stream(ctx, step, false)
	for line := range out {
		if onOutput != nil {
			onOutput(line)
		}
	}
	return <-errs
}

// streamPipe reads raw chunks from the pipe and sends them over the outChan.
// This is used for TUI mode where raw output (including control characters) is needed.
func streamPipe(pipe io.Reader, outChan chan<- OutputLine, doneChan chan<- struct{}, isError bool) {
	defer func() { doneChan <- struct{}{} }()
	buf := make([]byte, 1024)
	for {
		n, err := pipe.Read(buf)
		if n > 0 {
			outChan <- OutputLine{Line: string(buf[:n]), IsError: isError}
		}
		if err != nil {
			if err != io.EOF && !errors.Is(err, os.ErrClosed) {
				logger.Warn("Pipe read error", "stderr", isError, "error", err)
			}
			break
		}
	}
}
