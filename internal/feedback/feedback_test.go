package feedback

import (
	"context"
	"fmt"
	"sync"

	"github.com/campuspulse/campuspulse/internal/models"
)

// memStore is an in-memory DraftStore for tests.
type memStore struct {
	mu      sync.Mutex
	records map[string]string
	sets    int
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
	m.sets++
	return nil
}

func (m *memStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

// testTemplate builds a single-section template whose questions are
// numbered templateID*100+1.. and whose options are questionID*10+1..,
// each option worth its ordinal marks.
func testTemplate(templateID, questions int) models.Template {
	tmpl := models.Template{
		TemplateID:   templateID,
		TemplateName: fmt.Sprintf("Template %d", templateID),
	}
	sec := models.Section{SectionName: "Part A"}
	for q := 1; q <= questions; q++ {
		questionID := templateID*100 + q
		question := models.Question{
			ID:           questionID,
			QuestionText: fmt.Sprintf("Question %d", q),
			OrderIndex:   q,
		}
		for o := 1; o <= 4; o++ {
			question.Options = append(question.Options, models.Option{
				ID:         questionID*10 + o,
				OptionText: fmt.Sprintf("Option %d", o),
				Marks:      o,
				OrderIndex: o,
			})
		}
		sec.Questions = append(sec.Questions, question)
	}
	tmpl.Sections = []models.Section{sec}
	return tmpl
}

func testSession(id, templateID int) models.FeedbackSession {
	return models.FeedbackSession{
		ID:         id,
		Subject:    models.Subject{ID: id * 7, Name: fmt.Sprintf("Subject %d", id)},
		Staff:      models.Staff{ID: id * 3, Name: fmt.Sprintf("Staff %d", id)},
		Phase:      "Phase 1",
		TemplateID: templateID,
	}
}

// fixedFetcher serves templates from a map and counts calls per id.
type fixedFetcher struct {
	mu        sync.Mutex
	templates map[int]models.Template
	calls     map[int]int
	fail      map[int]error
}

func newFixedFetcher(templates ...models.Template) *fixedFetcher {
	f := &fixedFetcher{
		templates: make(map[int]models.Template),
		calls:     make(map[int]int),
		fail:      make(map[int]error),
	}
	for _, t := range templates {
		f.templates[t.TemplateID] = t
	}
	return f
}

func (f *fixedFetcher) fetch(ctx context.Context, templateID int) (models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[templateID]++
	if err := f.fail[templateID]; err != nil {
		return models.Template{}, err
	}
	tmpl, ok := f.templates[templateID]
	if !ok {
		return models.Template{}, fmt.Errorf("template %d not found", templateID)
	}
	return tmpl, nil
}

func (f *fixedFetcher) callCount(templateID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[templateID]
}

// answerAll records the first option for every question of the session's
// template via the workflow's own mutation path.
func answerAll(w *Workflow, tmpl models.Template) {
	for _, sec := range tmpl.Sections {
		for _, q := range sec.Questions {
			w.Answer(q.ID, q.Options[0].ID)
		}
	}
}
