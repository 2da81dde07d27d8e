// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"context"
	"errors"
	"time"

	"smctl/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
)

// Presenter renders wizard prompts, questions and notifications inside a
// running Bubble Tea program. It is safe for use from any goroutine.
type Presenter struct {
	send func(tea.Msg)
}

// NewPresenter creates a presenter that delivers its messages through send,
// usually (*tea.Program).Send.
func NewPresenter(send func(tea.Msg)) *Presenter {
	return &Presenter{send: send}
}

func (p *Presenter) CreateInputBox() wizard.InputBox {
	return &inputBox{widget: newWidget("input", p.send)}
}

func (p *Presenter) CreateQuickPick() wizard.QuickPick {
	return &quickPick{widget: newWidget("pick", p.send)}
}

// Confirm asks a yes/no question and waits for the answer.
func (p *Presenter) Confirm(ctx context.Context, question string) (bool, error) {
	reply := make(chan bool, 1)
	p.send(confirmMsg{question: question, reply: reply})
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (p *Presenter) Info(msg string)  { p.notify(levelInfo, msg) }
func (p *Presenter) Warn(msg string)  { p.notify(levelWarn, msg) }
func (p *Presenter) Error(msg string) { p.notify(levelError, msg) }

func (p *Presenter) notify(l level, msg string) {
	p.send(notifyMsg{level: l, text: msg, at: time.Now()})
}

// Status shows a transient line under the main content.
func (p *Presenter) Status(msg string) {
	p.send(statusMsg{text: msg, ttl: defaultStatusTTL})
}

// Document opens a scrollable read-only view. Esc closes it.
func (p *Presenter) Document(title, body string) {
	p.send(documentMsg{title: title, body: body})
}

// Options configures Run.
type Options struct {
	// Title is rendered in the header.
	Title string
	// AltScreen takes over the whole terminal. The interactive palette uses
	// it; one-off prompts from the CLI render inline.
	AltScreen bool
}

// Run starts a program and calls fn with a presenter bound to it. The program
// exits when fn returns. If the user quits first, fn's context is cancelled
// and Run waits for fn to return.
func Run(ctx context.Context, opts Options, fn func(ctx context.Context, p *Presenter) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(opts.Title)
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	prog := tea.NewProgram(m, progOpts...)
	presenter := NewPresenter(prog.Send)

	done := make(chan error, 1)
	go func() {
		err := fn(ctx, presenter)
		done <- err
		prog.Send(quitMsg{})
	}()

	_, runErr := prog.Run()
	cancel()
	fnErr := <-done

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return fnErr
}
