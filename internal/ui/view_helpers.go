// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	var body, footer string
	switch m.state() {
	case stateDocument:
		body, footer = m.renderDocumentView()
	case stateConfirm:
		body, footer = m.renderConfirmView()
	case stateInput:
		body, footer = m.renderInputView()
	case statePick:
		body, footer = m.renderPickView()
	default:
		body, footer = m.renderIdleView()
	}

	b := strings.Builder{}
	b.WriteString(titleStyle.Render(m.title) + "\n")
	content := mainContentBorderStyle
	if m.width > 2 {
		content = content.Width(m.width - 2)
	}
	b.WriteString(content.Render(body) + "\n")
	b.WriteString(m.renderNotifications())
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(footer)
	return b.String()
}

// stepTitle renders "Title (step/total)" the way every prompt header looks.
func stepTitle(title string, step, total int) string {
	if total <= 0 {
		return titleStyle.Render(title)
	}
	return titleStyle.Render(title) + " " + stepStyle.Render(fmt.Sprintf("(%d/%d)", step, total))
}

func (m *model) renderFooter(bindings ...string) string {
	sep := footerSeparatorStyle.Render(" | ")
	help := strings.Join(bindings, sep)
	if m.width > 0 {
		help = lipgloss.NewStyle().Width(m.width).Render(help)
	}
	return "\n" + help
}

func (m *model) renderIdleView() (string, string) {
	body := m.spinner.View() + " " + statusStyle.Render("Working...")
	return body, m.renderFooter(helpEntry(m.keymap.Quit))
}

func (m *model) renderInputView() (string, string) {
	b := strings.Builder{}
	b.WriteString(stepTitle(m.inputOpts.Title, m.inputOpts.Step, m.inputOpts.TotalSteps) + "\n\n")
	if m.inputOpts.Prompt != "" {
		b.WriteString(promptStyle.Render(m.inputOpts.Prompt) + "\n")
	}
	b.WriteString(m.input.View() + "\n")
	if m.busy {
		b.WriteString(m.spinner.View() + " " + dimStyle.Render("Validating...") + "\n")
	}
	if m.validation != "" {
		b.WriteString(errorStyle.Render(m.validation) + "\n")
	}

	bindings := []string{helpEntry(m.keymap.Enter), helpEntry(m.keymap.Esc)}
	if m.inputOpts.ShowBack {
		bindings = append(bindings, helpEntry(m.keymap.Back))
	}
	bindings = append(bindings, helpEntry(m.keymap.Quit))
	return b.String(), m.renderFooter(bindings...)
}

func (m *model) renderPickView() (string, string) {
	b := strings.Builder{}
	b.WriteString(stepTitle(m.pickOpts.Title, m.pickOpts.Step, m.pickOpts.TotalSteps) + "\n\n")
	b.WriteString(m.filter.View() + "\n")

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  No matching items") + "\n")
	}
	start := 0
	if m.cursor >= maxPickRows {
		start = m.cursor - maxPickRows + 1
	}
	end := min(start+maxPickRows, len(m.filtered))
	for i := start; i < end; i++ {
		item := m.pickOpts.Items[m.filtered[i]]
		cursor := "  "
		label := item.Label
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
			label = cursorStyle.Render(label)
		}
		line := cursor + label
		if item.Description != "" {
			line += " " + descriptionStyle.Render(item.Description)
		}
		b.WriteString(line + "\n")
	}
	if end < len(m.filtered) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more", len(m.filtered)-end)) + "\n")
	}

	bindings := []string{
		m.keymap.Up.Help().Key + "/" + m.keymap.Down.Help().Key + footerDescStyle.Render(": navigate"),
		helpEntry(m.keymap.Enter),
		helpEntry(m.keymap.Esc),
	}
	if m.pickOpts.ShowBack {
		bindings = append(bindings, helpEntry(m.keymap.Back))
	}
	bindings = append(bindings, helpEntry(m.keymap.Quit))
	return b.String(), m.renderFooter(bindings...)
}

func (m *model) renderConfirmView() (string, string) {
	body := warnStyle.Render(m.confirm.question)
	return body, m.renderFooter(helpEntry(m.keymap.Yes), helpEntry(m.keymap.No), helpEntry(m.keymap.Quit))
}

func (m *model) renderDocumentView() (string, string) {
	body := titleStyle.Render(m.doc.title) + "\n\n" + m.viewport.View()
	scroll := m.keymap.Up.Help().Key + "/" + m.keymap.Down.Help().Key + "/" +
		m.keymap.PgUp.Help().Key + "/" + m.keymap.PgDown.Help().Key + footerDescStyle.Render(": scroll")
	return body, m.renderFooter(scroll, m.keymap.Esc.Help().Key+footerDescStyle.Render(": close"), helpEntry(m.keymap.Quit))
}

func (m *model) renderNotifications() string {
	if len(m.notifications) == 0 {
		return ""
	}
	b := strings.Builder{}
	for _, n := range m.notifications {
		switch n.level {
		case levelError:
			b.WriteString(errorStyle.Render("✗ "+n.text) + "\n")
		case levelWarn:
			b.WriteString(warnStyle.Render("! "+n.text) + "\n")
		default:
			b.WriteString(successStyle.Render("✓ "+n.text) + "\n")
		}
	}
	return b.String()
}
