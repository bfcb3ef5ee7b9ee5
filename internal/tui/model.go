package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/campuspulse/campuspulse/internal/feedback"
	"github.com/campuspulse/campuspulse/internal/models"
)

type SessionState int

const (
	StateLoading SessionState = iota
	StateForm
	StateRemark
	StateSubmitting
	StateDone
	StateFailed
)

// templateReadyMsg reports that the fetch issued for a session's template
// settled. The cache already holds the result on success.
type templateReadyMsg struct {
	sessionID  int
	templateID int
	err        error
}

// prefetchDoneMsg reports that the bulk prefetch finished; individual
// failures were logged per template and are not carried here.
type prefetchDoneMsg struct{}

// submitFinishedMsg is the terminal result of the submission protocol.
type submitFinishedMsg struct {
	outcome feedback.Outcome
	err     error
}

type Model struct {
	workflow    *feedback.Workflow
	cache       *feedback.TemplateCache
	coordinator *feedback.Coordinator

	ctx    context.Context
	cancel context.CancelFunc

	state          SessionState
	keys           KeyMap
	help           help.Model
	spinner        spinner.Model
	remarkInput    textinput.Model
	questionCursor int
	errMsg         string
	outcome        feedback.Outcome
	quitting       bool
	width          int
	height         int
}

func NewModel(workflow *feedback.Workflow, cache *feedback.TemplateCache, coordinator *feedback.Coordinator) Model {
	ctx, cancel := context.WithCancel(context.Background())

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "Any remarks for this staff member (optional)"
	ti.CharLimit = 1000

	return Model{
		workflow:    workflow,
		cache:       cache,
		coordinator: coordinator,
		ctx:         ctx,
		cancel:      cancel,
		state:       StateLoading,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		remarkInput: ti,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.prefetchCmd()}
	if current, ok := m.workflow.Current(); ok {
		cmds = append(cmds, m.fetchTemplateCmd(current))
	}
	return tea.Batch(cmds...)
}

// fetchTemplateCmd fetches the template for one session. The message names
// the session it was issued for so stale completions, arriving after the
// student navigated elsewhere, are discarded instead of driving the view.
func (m Model) fetchTemplateCmd(session models.FeedbackSession) tea.Cmd {
	ctx, cache := m.ctx, m.cache
	return func() tea.Msg {
		_, err := cache.Get(ctx, session.TemplateID)
		return templateReadyMsg{sessionID: session.ID, templateID: session.TemplateID, err: err}
	}
}

// prefetchCmd warms the cache for every distinct template the queue
// references, so the final completeness pass does not pay serial round
// trips.
func (m Model) prefetchCmd() tea.Cmd {
	ctx, cache := m.ctx, m.cache
	ids := m.workflow.TemplateIDs()
	return func() tea.Msg {
		cache.Prefetch(ctx, ids)
		return prefetchDoneMsg{}
	}
}

func (m Model) submitCmd() tea.Cmd {
	ctx, coordinator := m.ctx, m.coordinator
	return func() tea.Msg {
		outcome, err := coordinator.Submit(ctx)
		return submitFinishedMsg{outcome: outcome, err: err}
	}
}

// Outcome returns the terminal submission outcome, or "" if the student
// quit before submitting.
func (m Model) Outcome() feedback.Outcome {
	return m.outcome
}

// currentTemplate resolves the displayed session's template from the cache.
func (m Model) currentTemplate() (models.Template, bool) {
	current, ok := m.workflow.Current()
	if !ok {
		return models.Template{}, false
	}
	return m.cache.Lookup(current.TemplateID)
}

// questionAt flattens the current template's sections and returns the
// question under the cursor.
func (m Model) questionAt(index int) (models.Question, bool) {
	tmpl, ok := m.currentTemplate()
	if !ok {
		return models.Question{}, false
	}
	i := 0
	for _, sec := range tmpl.Sections {
		for _, q := range sec.Questions {
			if i == index {
				return q, true
			}
			i++
		}
	}
	return models.Question{}, false
}
