// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package wizardtest provides a scripted wizard.Presenter for tests. Each
// created widget is handed the next Script, which runs on its own goroutine
// once the widget is shown and plays user input into it.
package wizardtest

import (
	"slices"
	"sync"
	"testing"
	"time"

	"smctl/internal/wizard"
)

// Timeout bounds every wait in this package.
const Timeout = 2 * time.Second

// Script drives one widget.
type Script func(w *Widget)

// Presenter hands out scripted widgets in creation order.
type Presenter struct {
	mu      sync.Mutex
	scripts []Script
	widgets []*Widget
	created chan *Widget
}

// New returns a presenter that assigns scripts to widgets in order. Widgets
// created after the scripts run out are shown but never receive input.
func New(scripts ...Script) *Presenter {
	return &Presenter{
		scripts: scripts,
		created: make(chan *Widget, 64),
	}
}

func (p *Presenter) newWidget(kind string) *Widget {
	p.mu.Lock()
	defer p.mu.Unlock()
	w := &Widget{
		Kind:    kind,
		enabled: true,
		events:  make(chan wizard.Event),
		done:    make(chan struct{}),
	}
	if len(p.scripts) > 0 {
		w.script = p.scripts[0]
		p.scripts = p.scripts[1:]
	}
	p.widgets = append(p.widgets, w)
	select {
	case p.created <- w:
	default:
	}
	return w
}

func (p *Presenter) CreateInputBox() wizard.InputBox {
	return &inputBox{Widget: p.newWidget("input")}
}

func (p *Presenter) CreateQuickPick() wizard.QuickPick {
	return &quickPick{Widget: p.newWidget("pick")}
}

// Widgets returns every widget created so far.
func (p *Presenter) Widgets() []*Widget {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.widgets)
}

// Next waits for the next widget to be created.
func (p *Presenter) Next(t testing.TB) *Widget {
	t.Helper()
	select {
	case w := <-p.created:
		return w
	case <-time.After(Timeout):
		t.Fatal("timed out waiting for a widget")
		return nil
	}
}

// Widget records everything the sequencer does to it.
type Widget struct {
	Kind string

	mu        sync.Mutex
	input     wizard.InputBoxOptions
	pick      wizard.QuickPickOptions
	value     string
	messages  []string
	enabled   bool
	busy      bool
	toggles   []bool
	disposals int

	script Script
	events chan wizard.Event
	done   chan struct{}
	once   sync.Once
}

func (w *Widget) SetEnabled(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enabled = enabled
	w.toggles = append(w.toggles, enabled)
}

func (w *Widget) SetBusy(busy bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = busy
}

func (w *Widget) Show() {
	if w.script != nil {
		go w.script(w)
	}
}

func (w *Widget) Dispose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.disposals++
}

func (w *Widget) Subscribe() (<-chan wizard.Event, func()) {
	return w.events, func() {
		w.once.Do(func() { close(w.done) })
	}
}

// Emit delivers ev. It reports false when the prompt had already settled.
func (w *Widget) Emit(ev wizard.Event) bool {
	if ev.Kind == wizard.EventValueChanged {
		w.mu.Lock()
		w.value = ev.Value
		w.mu.Unlock()
	}
	select {
	case w.events <- ev:
		return true
	case <-w.done:
		return false
	case <-time.After(Timeout):
		return false
	}
}

func (w *Widget) Type(text string) bool {
	return w.Emit(wizard.Event{Kind: wizard.EventValueChanged, Value: text})
}

// Accept submits the current value.
func (w *Widget) Accept() bool {
	return w.Emit(wizard.Event{Kind: wizard.EventAccept, Value: w.text()})
}

func (w *Widget) Back() bool   { return w.Emit(wizard.Event{Kind: wizard.EventBack}) }
func (w *Widget) Hide() bool   { return w.Emit(wizard.Event{Kind: wizard.EventHide}) }

// text is what the user has typed so far.
func (w *Widget) text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

// Settled is closed once the prompt stopped listening.
func (w *Widget) Settled() <-chan struct{} { return w.done }

func (w *Widget) Enabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enabled
}

func (w *Widget) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Toggles lists every SetEnabled call in order.
func (w *Widget) Toggles() []bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.toggles)
}

func (w *Widget) Disposals() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.disposals
}

// ValidationMessages lists every message set on the widget, including
// empty ones that cleared a previous message.
func (w *Widget) ValidationMessages() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.messages)
}

func (w *Widget) InputOptions() wizard.InputBoxOptions {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input
}

func (w *Widget) PickOptions() wizard.QuickPickOptions {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pick
}

type inputBox struct{ *Widget }

func (b *inputBox) Configure(opts wizard.InputBoxOptions) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.input = opts
	b.value = opts.Value
}

func (b *inputBox) Value() string { return b.text() }

func (b *inputBox) SetValidationMessage(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
}

type quickPick struct{ *Widget }

func (q *quickPick) Configure(opts wizard.QuickPickOptions) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pick = opts
}

// Enter types text and accepts it.
func Enter(text string) Script {
	return func(w *Widget) {
		if w.Type(text) {
			w.Accept()
		}
	}
}

// AcceptValue accepts whatever the widget was prefilled with.
func AcceptValue() Script { return func(w *Widget) { w.Accept() } }

// GoBack presses the back button.
func GoBack() Script { return func(w *Widget) { w.Back() } }

// Dismiss hides the widget.
func Dismiss() Script { return func(w *Widget) { w.Hide() } }

// Choose selects item in a quick pick.
func Choose(item wizard.Item) Script {
	return func(w *Widget) {
		w.Emit(wizard.Event{Kind: wizard.EventSelect, Item: item})
	}
}

// ChooseKey selects the configured item with the given key.
func ChooseKey(key string) Script {
	return func(w *Widget) {
		for _, it := range w.PickOptions().Items {
			if it.Key == key {
				w.Emit(wizard.Event{Kind: wizard.EventSelect, Item: it})
				return
			}
		}
		w.Hide()
	}
}

// Sequence runs several scripts against the same widget, one after another.
func Sequence(scripts ...Script) Script {
	return func(w *Widget) {
		for _, s := range scripts {
			s(w)
		}
	}
}
