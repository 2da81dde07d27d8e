// Package ui implements the terminal presenter: input boxes, pick lists,
// yes/no questions, notifications and document views rendered with Bubble
// Tea. Flows run on their own goroutine and talk to the program through a
// Presenter.
package ui

import (
	"time"

	"smctl/internal/wizard"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type model struct {
	keymap KeyMap
	title  string
	width  int
	height int
	ready  bool

	// Active widget. Messages for any other widget are ignored.
	active     *widget
	kind       state // stateInput or statePick while active is set
	inputOpts  wizard.InputBoxOptions
	pickOpts   wizard.QuickPickOptions
	input      textinput.Model
	filter     textinput.Model
	filtered   []int
	cursor     int
	enabled    bool
	busy       bool
	validation string

	confirm *confirmMsg

	notifications []notifyMsg
	status        string
	statusUntil   time.Time

	doc      *documentMsg
	viewport viewport.Model

	spinner spinner.Model
	now     func() time.Time
}

func newModel(title string) *model {
	if title == "" {
		title = "Service Manager"
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle
	return &model{
		keymap:   DefaultKeyMap,
		title:    title,
		input:    textinput.New(),
		filter:   textinput.New(),
		spinner:  s,
		viewport: viewport.New(80, 20),
		now:      time.Now,
	}
}

func expireTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return expireMsg{now: t} })
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, expireTick(), textinput.Blink)
}

// state reports the topmost view.
func (m *model) state() state {
	switch {
	case m.doc != nil:
		return stateDocument
	case m.confirm != nil:
		return stateConfirm
	case m.active != nil:
		return m.kind
	default:
		return stateIdle
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cmd = handleWindowSizeMsg(m, msg)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
	case expireMsg:
		cmd = handleExpireMsg(m, msg)
	case configureInputMsg:
		if m.active == msg.w {
			m.applyInputOptions(msg.opts)
		}
	case configurePickMsg:
		if m.active == msg.w {
			m.applyPickOptions(msg.opts)
		}
	case showWidgetMsg:
		cmd = handleShowWidgetMsg(m, msg)
	case disposeWidgetMsg:
		if m.active == msg.w {
			m.active = nil
			m.input.Blur()
			m.filter.Blur()
		}
	case setEnabledMsg:
		if m.active == msg.w {
			m.enabled = msg.enabled
		}
	case setBusyMsg:
		if m.active == msg.w {
			m.busy = msg.busy
		}
	case validationMsg:
		if m.active == msg.w {
			m.validation = msg.message
		}
	case confirmMsg:
		if m.confirm != nil {
			m.confirm.reply <- false
		}
		m.confirm = &msg
	case notifyMsg:
		m.notifications = append(m.notifications, msg)
		if len(m.notifications) > maxNotifications {
			m.notifications = m.notifications[len(m.notifications)-maxNotifications:]
		}
	case statusMsg:
		m.status = msg.text
		m.statusUntil = m.now().Add(msg.ttl)
	case documentMsg:
		m.doc = &msg
		m.viewport.SetContent(msg.body)
		m.viewport.GotoTop()
	case quitMsg:
		m.answerConfirm(false)
		return m, tea.Quit
	default:
		// Cursor blink and similar textinput internals.
		if m.active != nil && m.kind == stateInput {
			m.input, cmd = m.input.Update(msg)
		} else if m.active != nil && m.kind == statePick {
			m.filter, cmd = m.filter.Update(msg)
		}
	}
	return m, cmd
}

func (m *model) applyInputOptions(opts wizard.InputBoxOptions) {
	m.inputOpts = opts
	m.input.Placeholder = opts.Placeholder
	m.input.Prompt = "> "
	m.input.EchoMode = textinput.EchoNormal
	if opts.Password {
		m.input.EchoMode = textinput.EchoPassword
		m.input.EchoCharacter = '*'
	}
	m.input.SetValue(opts.Value)
	m.input.CursorEnd()
}

func (m *model) applyPickOptions(opts wizard.QuickPickOptions) {
	m.pickOpts = opts
	m.filter.Placeholder = opts.Placeholder
	m.filter.Prompt = "/ "
	m.filter.SetValue("")
	m.filtered = filterItems(opts.Items, "")
	m.cursor = 0
	if opts.ActiveItem != nil {
		for i, idx := range m.filtered {
			if opts.Items[idx].Key == opts.ActiveItem.Key {
				m.cursor = i
				break
			}
		}
	}
}

func (m *model) answerConfirm(ok bool) {
	if m.confirm == nil {
		return
	}
	m.confirm.reply <- ok
	m.confirm = nil
}
