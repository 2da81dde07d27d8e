// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// --- Message Handlers ---
// These functions handle specific message types received by the model's Update function.

func handleWindowSizeMsg(m *model, msg tea.WindowSizeMsg) tea.Cmd {
	m.width = msg.Width
	m.height = msg.Height
	m.viewport.Width = msg.Width
	// Header, borders and footer take roughly eight lines.
	m.viewport.Height = max(msg.Height-8, 3)
	m.input.Width = max(msg.Width-8, 10)
	m.filter.Width = max(msg.Width-8, 10)
	m.ready = true
	return nil
}

// handleShowWidgetMsg makes msg.w the active widget. Configure messages sent
// before Show were ignored, so the options are read from the widget itself.
func handleShowWidgetMsg(m *model, msg showWidgetMsg) tea.Cmd {
	m.active = msg.w
	m.enabled = true
	m.busy = false
	m.validation = ""

	inputOpts, pickOpts := msg.w.options()
	if msg.w.name == "pick" {
		m.kind = statePick
		m.applyPickOptions(pickOpts)
		m.input.Blur()
		return m.filter.Focus()
	}
	m.kind = stateInput
	m.applyInputOptions(inputOpts)
	m.filter.Blur()
	return m.input.Focus()
}

func handleExpireMsg(m *model, msg expireMsg) tea.Cmd {
	kept := m.notifications[:0]
	for _, n := range m.notifications {
		if msg.now.Sub(n.at) < notificationTTL {
			kept = append(kept, n)
		}
	}
	m.notifications = kept
	if m.status != "" && !msg.now.Before(m.statusUntil) {
		m.status = ""
	}
	return expireTick()
}
