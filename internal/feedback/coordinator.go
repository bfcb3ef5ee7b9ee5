package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campuspulse/campuspulse/internal/api"
	"github.com/campuspulse/campuspulse/internal/constants"
	"github.com/campuspulse/campuspulse/internal/logger"
	"github.com/campuspulse/campuspulse/internal/models"
)

var (
	// ErrIncomplete means a required question is unanswered or a required
	// template could not be obtained; no network call is made and the
	// draft is retained.
	ErrIncomplete = errors.New("feedback is incomplete")

	// ErrEmptyPayload means the assembled payload had no items.
	ErrEmptyPayload = errors.New("nothing to submit")

	// ErrPayloadTooLarge means the payload exceeded the service's accepted
	// batch size. UI gating should make this unreachable.
	ErrPayloadTooLarge = errors.New("payload exceeds maximum batch size")
)

// Outcome is a terminal submission result.
type Outcome string

const (
	// OutcomeSubmitted is a genuine accepted submission.
	OutcomeSubmitted Outcome = "submitted"
	// OutcomeAlreadyCompleted means the service already held this feedback,
	// typically from a concurrent session. Treated as success.
	OutcomeAlreadyCompleted Outcome = "already_completed"
)

// SubmitFunc posts the flattened payload in one call.
type SubmitFunc func(ctx context.Context, items []models.SubmissionItem) error

// RetryPolicy is a bounded retry description: attempt count, backoff
// schedule, and the classifier for failures that must not be retried
// because they are really successes.
type RetryPolicy struct {
	MaxAttempts     int
	Backoff         func(attempt int) time.Duration
	TerminalSuccess func(err error) bool
}

// DefaultRetryPolicy allows 3 retries after the first attempt, waiting
// attempt-number seconds between tries, and treats an already-submitted
// signal as terminal success.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: constants.SubmitMaxAttempts,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
		TerminalSuccess: func(err error) bool {
			return errors.Is(err, api.ErrAlreadySubmitted)
		},
	}
}

// Coordinator validates global completeness, assembles the flattened
// payload, and drives the submit-with-retry protocol.
type Coordinator struct {
	workflow *Workflow
	cache    *TemplateCache
	submit   SubmitFunc
	policy   RetryPolicy
	batchID  string

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewCoordinator(workflow *Workflow, cache *TemplateCache, submit SubmitFunc, batchID string) *Coordinator {
	return &Coordinator{
		workflow: workflow,
		cache:    cache,
		submit:   submit,
		policy:   DefaultRetryPolicy(),
		batchID:  batchID,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BuildPayload reconciles template availability for every pending session,
// re-checks completeness, and flattens the answer maps into one ordered
// list. Items follow queue order, and template question order within a
// session. A template that cannot be fetched aborts the whole build.
func (c *Coordinator) BuildPayload(ctx context.Context) ([]models.SubmissionItem, error) {
	var payload []models.SubmissionItem

	for index, session := range c.workflow.Queue() {
		// Just-in-time fetch for anything prefetch did not land.
		tmpl, err := c.cache.Get(ctx, session.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("template %d for %s unavailable: %w", session.TemplateID, session.Subject.Name, err)
		}

		if !c.workflow.SessionComplete(index) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrIncomplete, session.Subject.Name, session.Staff.Name)
		}

		answers := c.workflow.draft.Answers[session.ID]
		remark := SanitizeRemark(c.workflow.draft.Remarks[session.ID])
		remarkAttached := false

		for _, sec := range tmpl.Sections {
			for _, q := range sec.Questions {
				optionID, ok := answers[q.ID]
				if !ok {
					continue
				}
				marks := 0
				if opt, found := tmpl.FindOption(q.ID, optionID); found {
					marks = opt.Marks
				} else {
					// Chosen option id missing from the fetched template is
					// a data inconsistency, kept non-fatal with marks 0.
					logger.Warn("selected option not in template", "session", session.ID, "question", q.ID, "option", optionID)
				}

				item := models.SubmissionItem{
					ScheduleID: session.ID,
					QuestionID: q.ID,
					OptionID:   optionID,
					Marks:      marks,
					StaffID:    session.Staff.ID,
					BatchID:    c.batchID,
					SubjectID:  session.Subject.ID,
				}
				// The session remark rides on its first item.
				if remark != "" && !remarkAttached {
					item.Remarks = remark
					remarkAttached = true
				}
				payload = append(payload, item)
			}
		}
	}

	return payload, nil
}

// Submit runs the full protocol: reconcile templates, validate, flatten,
// bound-check, then POST with bounded linear-backoff retries. Any terminal
// success clears the persisted draft; every failure path leaves it intact.
func (c *Coordinator) Submit(ctx context.Context) (Outcome, error) {
	if c.workflow.Len() == 0 {
		return "", ErrIncomplete
	}

	// BuildPayload fetches any template the prefetch did not land before it
	// judges completeness; incompleteness surfaces as a wrapped
	// ErrIncomplete naming the offending session.
	payload, err := c.BuildPayload(ctx)
	if err != nil {
		return "", err
	}
	if len(payload) == 0 {
		logger.Error("assembled payload is empty")
		return "", ErrEmptyPayload
	}
	if len(payload) > constants.MaxPayloadItems {
		logger.Error("assembled payload exceeds batch ceiling", "items", len(payload))
		return "", ErrPayloadTooLarge
	}

	outcome, err := c.run(ctx, payload)
	if err != nil {
		return "", err
	}

	if err := ClearDraft(c.workflow.store, c.workflow.username); err != nil {
		logger.Warn("failed to clear draft after submission", "user", c.workflow.username, "err", err)
	}
	return outcome, nil
}

func (c *Coordinator) run(ctx context.Context, payload []models.SubmissionItem) (Outcome, error) {
	var lastErr error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		err := c.submit(ctx, payload)
		if err == nil {
			return OutcomeSubmitted, nil
		}
		if c.policy.TerminalSuccess(err) {
			return OutcomeAlreadyCompleted, nil
		}

		lastErr = err
		if attempt == c.policy.MaxAttempts {
			break
		}
		logger.Warn("submit attempt failed, retrying", "attempt", attempt, "err", err)
		if err := c.sleep(ctx, c.policy.Backoff(attempt)); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("submission failed after %d attempts: %w", c.policy.MaxAttempts, lastErr)
}
