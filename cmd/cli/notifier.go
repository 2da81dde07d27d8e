// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"smctl/internal/commands"

	"github.com/briandowns/spinner"
)

// terminalNotifier prints outcomes with colors. Status lines drive a spinner
// that stops as soon as anything else is printed.
type terminalNotifier struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
}

func newTerminalNotifier() *terminalNotifier {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Color("cyan")
	return &terminalNotifier{out: os.Stdout, spinner: s}
}

func (n *terminalNotifier) Status(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.spinner.Suffix = " " + msg
	if !n.spinner.Active() {
		n.spinner.Start()
	}
}

func (n *terminalNotifier) Info(msg string) {
	n.print(func() { successColor.Fprintln(n.out, msg) })
}

func (n *terminalNotifier) Warn(msg string) {
	n.print(func() { warnColor.Fprintln(os.Stderr, msg) })
}

func (n *terminalNotifier) Error(msg string) {
	n.print(func() { errorColor.Fprintln(os.Stderr, msg) })
}

func (n *terminalNotifier) Document(title, body string) {
	n.print(func() {
		stepColor.Fprintf(n.out, "--- %s ---\n", title)
		printDocument(n.out, body)
		stepColor.Fprintln(n.out, "--- End ---")
	})
}

// Stop clears a running spinner.
func (n *terminalNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.spinner.Stop()
}

func (n *terminalNotifier) print(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.spinner.Stop()
	fn()
}

// printDocument colors unified diff lines and prints anything else as is.
func printDocument(w io.Writer, body string) {
	for _, line := range strings.SplitAfter(body, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			dimColor.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			diffHunkColor.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			diffAddColor.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			diffDelColor.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
	if !strings.HasSuffix(body, "\n") {
		fmt.Fprintln(w)
	}
}

// deferredNotifier is used while an inline prompt owns the terminal. Status
// lines go to the prompt; everything else is kept and printed once the prompt
// has exited.
type deferredNotifier struct {
	mu     sync.Mutex
	status func(string)
	queued []func(commands.Notifier)
}

func (d *deferredNotifier) Status(msg string) { d.status(msg) }

func (d *deferredNotifier) Info(msg string) {
	d.queue(func(n commands.Notifier) { n.Info(msg) })
}

func (d *deferredNotifier) Warn(msg string) {
	d.queue(func(n commands.Notifier) { n.Warn(msg) })
}

func (d *deferredNotifier) Error(msg string) {
	d.queue(func(n commands.Notifier) { n.Error(msg) })
}

func (d *deferredNotifier) Document(title, body string) {
	d.queue(func(n commands.Notifier) { n.Document(title, body) })
}

func (d *deferredNotifier) queue(fn func(commands.Notifier)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queued = append(d.queued, fn)
}

// flush replays everything queued into n.
func (d *deferredNotifier) flush(n commands.Notifier) {
	d.mu.Lock()
	queued := d.queued
	d.queued = nil
	d.mu.Unlock()
	for _, fn := range queued {
		fn(n)
	}
}
