package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campuspulse/campuspulse/internal/feedback"
	"github.com/campuspulse/campuspulse/internal/models"
)

type memStore struct {
	mu      sync.Mutex
	records map[string]string
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]string)}
}

func (m *memStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.records[key]
	return v, ok, nil
}

func (m *memStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = value
	return nil
}

func (m *memStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

func twoQuestionTemplate(id int) models.Template {
	var questions []models.Question
	for q := 1; q <= 2; q++ {
		questionID := id*100 + q
		questions = append(questions, models.Question{
			ID:           questionID,
			QuestionText: fmt.Sprintf("Q%d", q),
			Options: []models.Option{
				{ID: questionID*10 + 1, OptionText: "Poor", Marks: 1},
				{ID: questionID*10 + 2, OptionText: "Good", Marks: 5},
			},
		})
	}
	return models.Template{
		TemplateID:   id,
		TemplateName: fmt.Sprintf("T%d", id),
		Sections:     []models.Section{{SectionName: "Part A", Questions: questions}},
	}
}

func newTestModel(t *testing.T, templates map[int]models.Template, sessions ...models.FeedbackSession) (Model, *feedback.Workflow) {
	t.Helper()
	cache := feedback.NewTemplateCache(func(ctx context.Context, id int) (models.Template, error) {
		tmpl, ok := templates[id]
		if !ok {
			return models.Template{}, errors.New("no such template")
		}
		return tmpl, nil
	})
	var ids []int
	for id := range templates {
		ids = append(ids, id)
	}
	cache.Prefetch(context.Background(), ids)

	w := feedback.NewWorkflow(sessions, cache, newMemStore(), "alice")
	c := feedback.NewCoordinator(w, cache, func(ctx context.Context, items []models.SubmissionItem) error {
		return nil
	}, "B1")
	m := NewModel(w, cache, c)
	m.state = StateForm
	return m, w
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func session(id, templateID int) models.FeedbackSession {
	return models.FeedbackSession{
		ID:         id,
		Subject:    models.Subject{ID: id, Name: fmt.Sprintf("Subject %d", id)},
		Staff:      models.Staff{ID: id, Name: fmt.Sprintf("Staff %d", id)},
		Phase:      "Phase 1",
		TemplateID: templateID,
	}
}

func TestOptionKeySelectsAnswer(t *testing.T) {
	tmpl := twoQuestionTemplate(1)
	m, w := newTestModel(t, map[int]models.Template{1: tmpl}, session(1, 1))

	next, _ := m.Update(keyMsg("2"))
	m = next.(Model)

	q := tmpl.Sections[0].Questions[0]
	if got, ok := w.AnswerFor(q.ID); !ok || got != q.Options[1].ID {
		t.Errorf("AnswerFor(%d) = (%d, %v), want option %d", q.ID, got, ok, q.Options[1].ID)
	}
	if m.questionCursor != 1 {
		t.Errorf("questionCursor = %d, want advance to 1", m.questionCursor)
	}
}

func TestNextKeyGatedOnCompleteness(t *testing.T) {
	templates := map[int]models.Template{1: twoQuestionTemplate(1), 2: twoQuestionTemplate(2)}
	m, w := newTestModel(t, templates, session(1, 1), session(2, 2))

	next, _ := m.Update(keyMsg("n"))
	m = next.(Model)
	if w.Cursor() != 0 {
		t.Errorf("Cursor() = %d after gated next, want 0", w.Cursor())
	}

	next, _ = m.Update(keyMsg("1"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("1"))
	m = next.(Model)

	next, _ = m.Update(keyMsg("n"))
	m = next.(Model)
	if w.Cursor() != 1 {
		t.Errorf("Cursor() = %d after completing and pressing n, want 1", w.Cursor())
	}
	if m.questionCursor != 0 {
		t.Errorf("questionCursor = %d after navigation, want 0", m.questionCursor)
	}
}

func TestStaleTemplateResultIgnored(t *testing.T) {
	templates := map[int]models.Template{1: twoQuestionTemplate(1), 2: twoQuestionTemplate(2)}
	m, w := newTestModel(t, templates, session(1, 1), session(2, 2))

	// Complete session 1 and move to session 2.
	for _, k := range []string{"1", "1", "n"} {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	if w.Cursor() != 1 {
		t.Fatalf("Cursor() = %d, want 1", w.Cursor())
	}

	// A late, failed fetch result for the session we navigated away from
	// must not disturb the now-displayed session.
	next, _ := m.Update(templateReadyMsg{sessionID: 1, templateID: 1, err: errors.New("late failure")})
	m = next.(Model)

	if m.state != StateForm {
		t.Errorf("state = %v after stale message, want StateForm", m.state)
	}
	if m.errMsg != "" {
		t.Errorf("errMsg = %q after stale message, want empty", m.errMsg)
	}
}

func TestSubmitKeyRequiresAllComplete(t *testing.T) {
	templates := map[int]models.Template{1: twoQuestionTemplate(1), 2: twoQuestionTemplate(2)}
	m, w := newTestModel(t, templates, session(1, 1), session(2, 2))

	// Complete session 1 and land on the last session, still unanswered.
	for _, k := range []string{"1", "1", "n"} {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	next, cmd := m.Update(keyMsg("s"))
	m = next.(Model)
	if m.state == StateSubmitting {
		t.Error("submit started while the last session is incomplete")
	}
	if cmd != nil {
		t.Error("submit command issued while incomplete")
	}

	for _, k := range []string{"1", "1"} {
		next, _ = m.Update(keyMsg(k))
		m = next.(Model)
	}
	if !w.AllComplete() {
		t.Fatal("expected all sessions complete")
	}
	next, cmd = m.Update(keyMsg("s"))
	m = next.(Model)
	if m.state != StateSubmitting {
		t.Errorf("state = %v, want StateSubmitting", m.state)
	}
	if cmd == nil {
		t.Error("no submit command issued")
	}
}

func TestFailedFetchShowsErrorAndRetries(t *testing.T) {
	// No template can be fetched for the displayed session.
	m, _ := newTestModel(t, map[int]models.Template{}, session(1, 1))
	m.state = StateLoading

	next, _ := m.Update(templateReadyMsg{sessionID: 1, templateID: 1, err: errors.New("service down")})
	m = next.(Model)
	if m.state != StateLoading {
		t.Fatalf("state = %v, want StateLoading until the template arrives", m.state)
	}

	view := m.View()
	if !strings.Contains(view, "Could not load the questions") {
		t.Errorf("view does not surface the load failure:\n%s", view)
	}
	if strings.Contains(view, "Loading questions") {
		t.Error("view still shows the bare spinner after a failed fetch")
	}

	// Any key other than quit retries the fetch.
	next, cmd := m.Update(keyMsg("x"))
	m = next.(Model)
	if cmd == nil {
		t.Error("no refetch command issued on keypress after failure")
	}
	if m.errMsg != "" {
		t.Errorf("errMsg = %q after retry keypress, want cleared", m.errMsg)
	}
}

func TestLatePrefetchUnblocksLoading(t *testing.T) {
	tmpl := twoQuestionTemplate(1)
	m, _ := newTestModel(t, map[int]models.Template{1: tmpl}, session(1, 1))
	// The direct fetch failed earlier; the template then landed via the
	// concurrent prefetch.
	m.state = StateLoading
	m.errMsg = "Could not load the questions. Retrying may help."

	next, _ := m.Update(prefetchDoneMsg{})
	m = next.(Model)
	if m.state != StateForm {
		t.Errorf("state = %v after prefetch landed the template, want StateForm", m.state)
	}
	if m.errMsg != "" {
		t.Errorf("errMsg = %q, want cleared", m.errMsg)
	}
}

func TestSubmitFinishedTransitions(t *testing.T) {
	tmpl := twoQuestionTemplate(1)
	m, _ := newTestModel(t, map[int]models.Template{1: tmpl}, session(1, 1))

	next, _ := m.Update(submitFinishedMsg{outcome: feedback.OutcomeSubmitted})
	m = next.(Model)
	if m.state != StateDone || m.Outcome() != feedback.OutcomeSubmitted {
		t.Errorf("state = %v, outcome = %q", m.state, m.Outcome())
	}

	m2, _ := newTestModel(t, map[int]models.Template{1: tmpl}, session(1, 1))
	next, _ = m2.Update(submitFinishedMsg{err: errors.New("network down")})
	m2 = next.(Model)
	if m2.state != StateFailed {
		t.Errorf("state = %v, want StateFailed", m2.state)
	}
}
