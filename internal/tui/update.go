package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case templateReadyMsg:
		current, ok := m.workflow.Current()
		if !ok || current.ID != msg.sessionID {
			// Superseded by navigation; the cache write (if any) is
			// harmless, the view must not react.
			return m, nil
		}
		if m.state == StateLoading {
			if msg.err != nil {
				m.errMsg = "Could not load the questions. Retrying may help."
			} else {
				m.errMsg = ""
			}
			if _, cached := m.currentTemplate(); cached {
				m.state = StateForm
			}
		}
		return m, nil

	case prefetchDoneMsg:
		// A late prefetch may have landed the template the view is waiting
		// on; other sessions' templates need no reaction, the view derives
		// from the cache.
		if m.state == StateLoading {
			if _, cached := m.currentTemplate(); cached {
				m.errMsg = ""
				m.state = StateForm
			}
		}
		return m, nil

	case submitFinishedMsg:
		if msg.err != nil {
			m.state = StateFailed
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.outcome = msg.outcome
		m.state = StateDone
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == StateRemark {
		return m.updateRemark(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.state {
	case StateLoading:
		// After a failed fetch, any other key re-issues it.
		if m.errMsg != "" {
			if current, ok := m.workflow.Current(); ok {
				m.errMsg = ""
				return m, tea.Batch(m.spinner.Tick, m.fetchTemplateCmd(current))
			}
		}
		return m, nil
	case StateForm:
		return m.updateForm(msg)
	case StateFailed:
		// Any other key returns to the form so the student can retry.
		m.state = StateForm
		return m, nil
	case StateDone:
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tmpl, ok := m.currentTemplate()
	if !ok {
		return m, nil
	}
	total := tmpl.QuestionCount()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.questionCursor > 0 {
			m.questionCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.questionCursor < total-1 {
			m.questionCursor++
		}

	case key.Matches(msg, m.keys.Option):
		n, err := strconv.Atoi(msg.String())
		if err != nil {
			return m, nil
		}
		if q, ok := m.questionAt(m.questionCursor); ok && n >= 1 && n <= len(q.Options) {
			m.workflow.Answer(q.ID, q.Options[n-1].ID)
			// Move on to the next unanswered question.
			if m.questionCursor < total-1 {
				m.questionCursor++
			}
		}

	case key.Matches(msg, m.keys.Next):
		if m.workflow.IsLast() {
			return m, nil
		}
		if m.workflow.Next() {
			return m.enterSession()
		}

	case key.Matches(msg, m.keys.Previous):
		if m.workflow.Previous() {
			return m.enterSession()
		}

	case key.Matches(msg, m.keys.Remark):
		m.remarkInput.SetValue(m.workflow.Remark())
		m.remarkInput.Focus()
		m.state = StateRemark
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Submit):
		if m.workflow.IsLast() && m.workflow.CurrentComplete() && m.workflow.AllComplete() {
			m.state = StateSubmitting
			return m, tea.Batch(m.spinner.Tick, m.submitCmd())
		}
	}

	return m, nil
}

func (m Model) updateRemark(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.workflow.SetRemark(m.remarkInput.Value())
		m.remarkInput.Blur()
		m.state = StateForm
		return m, nil
	case tea.KeyEsc:
		m.remarkInput.Blur()
		m.state = StateForm
		return m, nil
	}

	var cmd tea.Cmd
	m.remarkInput, cmd = m.remarkInput.Update(msg)
	return m, cmd
}

// enterSession resets per-session view state after navigation and kicks a
// fetch when the new session's template has not arrived yet.
func (m Model) enterSession() (tea.Model, tea.Cmd) {
	m.questionCursor = 0
	current, ok := m.workflow.Current()
	if !ok {
		return m, nil
	}
	if _, cached := m.cache.Lookup(current.TemplateID); cached {
		m.state = StateForm
		return m, nil
	}
	m.state = StateLoading
	return m, tea.Batch(m.spinner.Tick, m.fetchTemplateCmd(current))
}
