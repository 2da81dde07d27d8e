// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import "time"

// state represents what the TUI is currently showing.
type state int

const (
	stateIdle     state = iota // no widget: a command is running
	stateInput                 // an input box is shown
	statePick                  // a quick pick is shown
	stateConfirm               // a yes/no question overlays the widget
	stateDocument              // a scrollable document overlays everything
)

// Severity of a notification.
type level int

const (
	levelInfo level = iota
	levelWarn
	levelError
)

const (
	maxNotifications = 4                // oldest notifications are dropped beyond this
	maxPickRows      = 12               // visible rows of a pick list
	eventBuffer      = 64               // per-subscription event buffer
	defaultStatusTTL = 5 * time.Second  // how long a status line stays without an explicit ttl
	notificationTTL  = 10 * time.Second // how long a notification stays visible
)
