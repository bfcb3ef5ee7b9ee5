// Package auth keeps the logged-in identity in durable storage and the
// bearer token in the OS keyring.
package auth

import (
	"encoding/json"
	"fmt"

	"github.com/campuspulse/campuspulse/internal/keyring"
	"github.com/campuspulse/campuspulse/internal/logger"
	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/storage"
)

const (
	currentSessionKey = "current_session"
	sessionKeyPrefix  = "session_"
)

// Save records the identity and token of a freshly logged-in user and
// marks them as the current session.
func Save(store storage.Provider, user models.User, token string) error {
	if err := keyring.SetToken(user.Username, token); err != nil {
		return err
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := store.Set(sessionKeyPrefix+user.Username, string(data)); err != nil {
		return err
	}
	return store.Set(currentSessionKey, user.Username)
}

// CurrentUsername returns the username of the current session, or "" when
// nobody is logged in.
func CurrentUsername(store storage.Provider) string {
	username, ok, err := store.Get(currentSessionKey)
	if err != nil || !ok {
		return ""
	}
	return username
}

// Current returns the cached identity of the current session.
func Current(store storage.Provider) (models.User, bool) {
	username := CurrentUsername(store)
	if username == "" {
		return models.User{}, false
	}

	data, ok, err := store.Get(sessionKeyPrefix + username)
	if err != nil || !ok {
		return models.User{}, false
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		logger.Warn("failed to parse cached session", "user", username, "err", err)
		return models.User{}, false
	}
	return user, true
}

// Clear forgets the current session and its token.
func Clear(store storage.Provider) error {
	username := CurrentUsername(store)
	if username == "" {
		return nil
	}

	if err := keyring.DeleteToken(username); err != nil && err != keyring.ErrNotFound {
		logger.Warn("failed to delete token from keyring", "user", username, "err", err)
	}
	if err := store.Remove(sessionKeyPrefix + username); err != nil {
		return err
	}
	return store.Remove(currentSessionKey)
}

// TokenSource adapts the current session's keyring entry to an api.TokenSource.
// It returns "" when no user is logged in or the keyring cannot be read;
// requests then proceed unauthenticated and the service answers 401.
func TokenSource(store storage.Provider) func() string {
	return func() string {
		username := CurrentUsername(store)
		if username == "" {
			return ""
		}
		token, err := keyring.GetToken(username)
		if err != nil {
			if err != keyring.ErrNotFound {
				logger.Warn("failed to read token from keyring", "user", username, "err", err)
			}
			return ""
		}
		return token
	}
}
