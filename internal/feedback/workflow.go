package feedback

import (
	"github.com/campuspulse/campuspulse/internal/logger"
	"github.com/campuspulse/campuspulse/internal/models"
)

// Workflow walks a student through feedback for every pending session. It
// owns the answer and remark maps for its lifetime and persists them, with
// the cursor, on every mutation. Completeness and navigation gating are
// derived from (queue, answers, cache, cursor) on demand rather than held in
// flags.
type Workflow struct {
	queue    []models.FeedbackSession
	cache    *TemplateCache
	store    DraftStore
	username string
	draft    Draft
	cursor   int
}

// NewWorkflow filters the active-feedback list down to pending sessions,
// loads the user's saved draft, and positions the cursor where the draft
// left off (clamped to the queue).
func NewWorkflow(sessions []models.FeedbackSession, cache *TemplateCache, store DraftStore, username string) *Workflow {
	var pending []models.FeedbackSession
	for _, s := range sessions {
		if !s.IsCompleted {
			pending = append(pending, s)
		}
	}

	draft := LoadDraft(store, username)
	cursor := draft.CurrentIndex
	if cursor < 0 || cursor >= len(pending) {
		cursor = 0
	}

	return &Workflow{
		queue:    pending,
		cache:    cache,
		store:    store,
		username: username,
		draft:    draft,
		cursor:   cursor,
	}
}

func (w *Workflow) persist() {
	w.draft.CurrentIndex = w.cursor
	if err := SaveDraft(w.store, w.username, w.draft); err != nil {
		logger.Warn("failed to persist draft", "user", w.username, "err", err)
	}
}

// Queue returns the pending sessions in service order.
func (w *Workflow) Queue() []models.FeedbackSession {
	return w.queue
}

func (w *Workflow) Len() int {
	return len(w.queue)
}

func (w *Workflow) Cursor() int {
	return w.cursor
}

// Current returns the session at the cursor; false when the queue is empty.
func (w *Workflow) Current() (models.FeedbackSession, bool) {
	if len(w.queue) == 0 {
		return models.FeedbackSession{}, false
	}
	return w.queue[w.cursor], true
}

// TemplateIDs returns the distinct template ids referenced by the queue,
// for prefetching.
func (w *Workflow) TemplateIDs() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, s := range w.queue {
		if !seen[s.TemplateID] {
			seen[s.TemplateID] = true
			ids = append(ids, s.TemplateID)
		}
	}
	return ids
}

// Answer records the chosen option for a question of the current session.
// Re-answering a question replaces the previous choice.
func (w *Workflow) Answer(questionID, optionID int) {
	current, ok := w.Current()
	if !ok {
		return
	}
	if w.draft.Answers[current.ID] == nil {
		w.draft.Answers[current.ID] = make(map[int]int)
	}
	w.draft.Answers[current.ID][questionID] = optionID
	w.persist()
}

// AnswerFor returns the current session's chosen option for a question.
func (w *Workflow) AnswerFor(questionID int) (int, bool) {
	current, ok := w.Current()
	if !ok {
		return 0, false
	}
	optionID, ok := w.draft.Answers[current.ID][questionID]
	return optionID, ok
}

// SetRemark stores the free-text remark for the current session.
func (w *Workflow) SetRemark(text string) {
	current, ok := w.Current()
	if !ok {
		return
	}
	w.draft.Remarks[current.ID] = text
	w.persist()
}

// Remark returns the current session's remark.
func (w *Workflow) Remark() string {
	current, ok := w.Current()
	if !ok {
		return ""
	}
	return w.draft.Remarks[current.ID]
}

// AnsweredCount counts the queued session's answers whose question ids
// belong to its template. Unknown template counts as zero.
func (w *Workflow) AnsweredCount(index int) int {
	if index < 0 || index >= len(w.queue) {
		return 0
	}
	session := w.queue[index]
	tmpl, ok := w.cache.Lookup(session.TemplateID)
	if !ok {
		return 0
	}

	n := 0
	for questionID := range w.draft.Answers[session.ID] {
		if tmpl.HasQuestion(questionID) {
			n++
		}
	}
	return n
}

// SessionComplete reports whether the queued session's template is cached
// and every one of its questions has exactly one recorded choice. An absent
// template means an unknown denominator, which is incomplete.
func (w *Workflow) SessionComplete(index int) bool {
	if index < 0 || index >= len(w.queue) {
		return false
	}
	session := w.queue[index]
	tmpl, ok := w.cache.Lookup(session.TemplateID)
	if !ok {
		return false
	}
	total := tmpl.QuestionCount()
	if total == 0 {
		return false
	}

	answers := w.draft.Answers[session.ID]
	if len(answers) != total {
		return false
	}
	for questionID := range answers {
		if !tmpl.HasQuestion(questionID) {
			return false
		}
	}
	return true
}

// CurrentComplete reports completeness of the session at the cursor.
func (w *Workflow) CurrentComplete() bool {
	return w.SessionComplete(w.cursor)
}

// AllComplete reports whether every pending session is complete. False for
// an empty queue.
func (w *Workflow) AllComplete() bool {
	if len(w.queue) == 0 {
		return false
	}
	for i := range w.queue {
		if !w.SessionComplete(i) {
			return false
		}
	}
	return true
}

// IsLast reports whether the cursor is on the final pending session.
func (w *Workflow) IsLast() bool {
	return len(w.queue) > 0 && w.cursor == len(w.queue)-1
}

// Next advances the cursor, permitted only when the current session is
// complete and not the last. Returns whether the cursor moved.
func (w *Workflow) Next() bool {
	if w.IsLast() || !w.CurrentComplete() {
		return false
	}
	w.cursor++
	w.persist()
	return true
}

// Previous moves the cursor back, permitted whenever it is not at the
// start. Answers for the session left behind are retained.
func (w *Workflow) Previous() bool {
	if w.cursor == 0 {
		return false
	}
	w.cursor--
	w.persist()
	return true
}

// Progress returns the answered and total question counts for the session
// at the cursor. Total is zero while the template is still being fetched.
func (w *Workflow) Progress() (answered, total int) {
	current, ok := w.Current()
	if !ok {
		return 0, 0
	}
	total, _ = w.cache.QuestionCount(current.TemplateID)
	return w.AnsweredCount(w.cursor), total
}
