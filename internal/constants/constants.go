package constants

import "time"

const (
	// AppName doubles as the keyring service name.
	AppName = "campuspulse"

	// DefaultAPIBaseURL is used when neither the flag nor
	// CAMPUSPULSE_API_URL is set.
	DefaultAPIBaseURL = "http://localhost:8080"

	// DraftKeyPrefix namespaces the persisted multi-feedback draft per user.
	DraftKeyPrefix = "multi_feedback_"

	// GuestUser keys the draft when no identified user is present.
	GuestUser = "guest"
)

const (
	// MaxPayloadItems matches the remote submit endpoint's accepted batch
	// size. Payloads above this are rejected before any network call.
	MaxPayloadItems = 10000

	// MaxRemarkLen caps free-text remarks, same as the single-form flow.
	MaxRemarkLen = 1000

	// SubmitMaxAttempts bounds the submit retry loop (1 initial + 3 retries).
	SubmitMaxAttempts = 4

	// SubmitTimeout bounds a single submit request.
	SubmitTimeout = 60 * time.Second
)
