// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"smctl/internal/wizard"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// --- Key Handlers ---

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keymap.Quit) {
		m.answerConfirm(false)
		return tea.Quit
	}

	switch m.state() {
	case stateDocument:
		return m.handleDocumentKeys(msg)
	case stateConfirm:
		m.handleConfirmKeys(msg)
		return nil
	case stateInput:
		return m.handleInputKeys(msg)
	case statePick:
		return m.handlePickKeys(msg)
	}
	return nil
}

func (m *model) handleDocumentKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Esc), key.Matches(msg, m.keymap.Enter):
		m.doc = nil
		return nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *model) handleConfirmKeys(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keymap.Yes):
		m.answerConfirm(true)
	case key.Matches(msg, m.keymap.No), key.Matches(msg, m.keymap.Esc):
		m.answerConfirm(false)
	}
}

func (m *model) handleInputKeys(msg tea.KeyMsg) tea.Cmd {
	if !m.enabled {
		return nil
	}
	switch {
	case key.Matches(msg, m.keymap.Enter):
		m.active.emit(wizard.Event{Kind: wizard.EventAccept, Value: m.input.Value()})
		return nil
	case key.Matches(msg, m.keymap.Esc):
		m.active.emit(wizard.Event{Kind: wizard.EventHide})
		return nil
	case key.Matches(msg, m.keymap.Back):
		if m.inputOpts.ShowBack {
			m.active.emit(wizard.Event{Kind: wizard.EventBack})
		}
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.validation = ""
		m.active.emit(wizard.Event{Kind: wizard.EventValueChanged, Value: after})
	}
	return cmd
}

func (m *model) handlePickKeys(msg tea.KeyMsg) tea.Cmd {
	if !m.enabled {
		return nil
	}
	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return nil
	case key.Matches(msg, m.keymap.PgUp):
		m.cursor = max(m.cursor-maxPickRows, 0)
		return nil
	case key.Matches(msg, m.keymap.PgDown):
		m.cursor = max(min(m.cursor+maxPickRows, len(m.filtered)-1), 0)
		return nil
	case key.Matches(msg, m.keymap.Enter):
		if item, ok := m.selectedItem(); ok {
			m.active.emit(wizard.Event{Kind: wizard.EventSelect, Item: item})
		}
		return nil
	case key.Matches(msg, m.keymap.Esc):
		m.active.emit(wizard.Event{Kind: wizard.EventHide})
		return nil
	case key.Matches(msg, m.keymap.Back):
		if m.pickOpts.ShowBack {
			m.active.emit(wizard.Event{Kind: wizard.EventBack})
		}
		return nil
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if after := m.filter.Value(); after != before {
		m.filtered = filterItems(m.pickOpts.Items, after)
		m.cursor = 0
	}
	return cmd
}

func (m *model) selectedItem() (wizard.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return wizard.Item{}, false
	}
	return m.pickOpts.Items[m.filtered[m.cursor]], true
}
