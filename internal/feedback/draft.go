package feedback

import (
	"encoding/json"

	"github.com/campuspulse/campuspulse/internal/constants"
	"github.com/campuspulse/campuspulse/internal/logger"
)

// DraftStore is the durable persistence capability the workflow depends on.
// storage.Provider satisfies it; tests substitute an in-memory fake.
type DraftStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Draft is the persisted form state for one user: every session's chosen
// options, per-session remarks, and the navigator cursor.
type Draft struct {
	// Answers maps session id -> question id -> chosen option id.
	Answers map[int]map[int]int `json:"answers"`
	// Remarks maps session id -> free-text remark.
	Remarks map[int]string `json:"remarks"`
	// CurrentIndex is the navigator cursor into the pending queue.
	CurrentIndex int `json:"currentIndex"`
}

func newDraft() Draft {
	return Draft{
		Answers: make(map[int]map[int]int),
		Remarks: make(map[int]string),
	}
}

// DraftKey namespaces the stored draft by username, falling back to a guest
// key when nobody identified is present.
func DraftKey(username string) string {
	if username == "" {
		username = constants.GuestUser
	}
	return constants.DraftKeyPrefix + username
}

// LoadDraft reads the user's saved draft. A missing or unparseable record
// yields a fresh empty draft; parse failures are logged, never fatal.
func LoadDraft(store DraftStore, username string) Draft {
	data, ok, err := store.Get(DraftKey(username))
	if err != nil {
		logger.Warn("failed to read saved draft", "user", username, "err", err)
		return newDraft()
	}
	if !ok {
		return newDraft()
	}

	var d Draft
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		logger.Warn("failed to parse saved draft", "user", username, "err", err)
		return newDraft()
	}
	if d.Answers == nil {
		d.Answers = make(map[int]map[int]int)
	}
	if d.Remarks == nil {
		d.Remarks = make(map[int]string)
	}
	return d
}

// SaveDraft rewrites the user's draft record.
func SaveDraft(store DraftStore, username string, d Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return store.Set(DraftKey(username), string(data))
}

// ClearDraft removes the user's draft record. Called only after a confirmed
// terminal submission success.
func ClearDraft(store DraftStore, username string) error {
	return store.Remove(DraftKey(username))
}
