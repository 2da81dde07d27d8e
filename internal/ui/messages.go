// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ui's messages.go file defines the message types widgets and the
// presenter send into the Bubble Tea program. Widgets live on the caller's
// goroutine; every change they make travels as one of these messages so the
// model is only ever touched from Update.

package ui

import (
	"time"

	"smctl/internal/wizard"
)

// Widget lifecycle messages
type configureInputMsg struct {
	w    *widget
	opts wizard.InputBoxOptions
}
type configurePickMsg struct {
	w    *widget
	opts wizard.QuickPickOptions
}
type showWidgetMsg struct{ w *widget }
type disposeWidgetMsg struct{ w *widget }
type setEnabledMsg struct {
	w       *widget
	enabled bool
}
type setBusyMsg struct {
	w    *widget
	busy bool
}
type validationMsg struct {
	w       *widget
	message string
}

// Presenter messages
type confirmMsg struct {
	question string
	reply    chan<- bool
}
type notifyMsg struct {
	level level
	text  string
	at    time.Time
}
type statusMsg struct {
	text string
	ttl  time.Duration
}
type documentMsg struct {
	title string
	body  string
}
type expireMsg struct{ now time.Time }
type quitMsg struct{}
