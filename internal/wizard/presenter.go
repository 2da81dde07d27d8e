// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package wizard

// Presenter is the host UI layer. It creates the widgets a Sequencer shows;
// the Sequencer owns each widget from creation until it disposes it.
type Presenter interface {
	CreateInputBox() InputBox
	CreateQuickPick() QuickPick
}

// Widget is the part of a prompt widget shared by input boxes and pick lists.
type Widget interface {
	SetEnabled(enabled bool)
	SetBusy(busy bool)
	Show()
	Dispose()

	// Subscribe returns the widget's event stream. Calling unsubscribe stops
	// delivery; it is safe to call more than once.
	Subscribe() (events <-chan Event, unsubscribe func())
}

// InputBox is a free-text prompt widget.
type InputBox interface {
	Widget
	Configure(opts InputBoxOptions)
	Value() string
	SetValidationMessage(msg string)
}

// QuickPick is a single-choice list widget.
type QuickPick interface {
	Widget
	Configure(opts QuickPickOptions)
}

// InputBoxOptions is what the widget displays for an input prompt.
type InputBoxOptions struct {
	Title          string
	Step           int
	TotalSteps     int
	Value          string
	Prompt         string
	Placeholder    string
	Password       bool
	IgnoreFocusOut bool
	ShowBack       bool
}

// QuickPickOptions is what the widget displays for a pick list.
type QuickPickOptions struct {
	Title       string
	Step        int
	TotalSteps  int
	Items       []Item
	ActiveItem  *Item
	Placeholder string
	ShowBack    bool
}

// Item is one entry of a pick list. Key identifies the entry to the caller.
type Item struct {
	Key         string
	Label       string
	Description string
}

// EventKind enumerates what a widget can report.
type EventKind int

const (
	EventValueChanged EventKind = iota + 1
	EventAccept
	EventBack
	EventSelect
	EventHide
)

func (k EventKind) String() string {
	switch k {
	case EventValueChanged:
		return "value-changed"
	case EventAccept:
		return "accept"
	case EventBack:
		return "back"
	case EventSelect:
		return "select"
	case EventHide:
		return "hide"
	default:
		return "unknown"
	}
}

// Event is a user interaction reported by a widget. Value carries the text
// for EventValueChanged and the text as it was when the user pressed accept
// for EventAccept; Item carries the selection for EventSelect.
type Event struct {
	Kind  EventKind
	Value string
	Item  Item
}
