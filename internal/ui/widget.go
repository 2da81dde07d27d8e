// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"slices"
	"sync"

	"smctl/internal/logger"
	"smctl/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
)

// widget is the caller-side half of a prompt. Setters are forwarded to the
// program as messages; the model calls emit from Update to deliver user
// input to subscribers. emit never blocks the UI loop.
type widget struct {
	name string // "input" or "pick", for logs
	send func(tea.Msg)

	mu        sync.Mutex
	value     string
	inputOpts wizard.InputBoxOptions
	pickOpts  wizard.QuickPickOptions
	subs      []chan wizard.Event
}

func newWidget(name string, send func(tea.Msg)) *widget {
	return &widget{name: name, send: send}
}

func (w *widget) SetEnabled(enabled bool) { w.send(setEnabledMsg{w: w, enabled: enabled}) }
func (w *widget) SetBusy(busy bool)       { w.send(setBusyMsg{w: w, busy: busy}) }
func (w *widget) Show()                   { w.send(showWidgetMsg{w: w}) }
func (w *widget) Dispose()                { w.send(disposeWidgetMsg{w: w}) }

func (w *widget) Subscribe() (<-chan wizard.Event, func()) {
	ch := make(chan wizard.Event, eventBuffer)
	w.mu.Lock()
	w.subs = append(w.subs, ch)
	w.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			w.subs = slices.DeleteFunc(w.subs, func(c chan wizard.Event) bool { return c == ch })
			close(ch)
		})
	}
}

func (w *widget) emit(ev wizard.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ev.Kind == wizard.EventValueChanged {
		w.value = ev.Value
	}
	for _, ch := range w.subs {
		select {
		case ch <- ev:
		default:
			logger.Warn("Dropping widget event, subscriber is not keeping up", "widget", w.name, "event", ev.Kind.String())
		}
	}
}

func (w *widget) currentValue() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

func (w *widget) options() (wizard.InputBoxOptions, wizard.QuickPickOptions) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inputOpts, w.pickOpts
}

type inputBox struct{ *widget }

func (b *inputBox) Configure(opts wizard.InputBoxOptions) {
	b.mu.Lock()
	b.inputOpts = opts
	b.value = opts.Value
	b.mu.Unlock()
	b.send(configureInputMsg{w: b.widget, opts: opts})
}

func (b *inputBox) Value() string { return b.currentValue() }

func (b *inputBox) SetValidationMessage(msg string) {
	b.send(validationMsg{w: b.widget, message: msg})
}

type quickPick struct{ *widget }

func (q *quickPick) Configure(opts wizard.QuickPickOptions) {
	q.mu.Lock()
	q.pickOpts = opts
	q.mu.Unlock()
	q.send(configurePickMsg{w: q.widget, opts: opts})
}
