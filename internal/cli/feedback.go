package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campuspulse/campuspulse/internal/feedback"
	"github.com/campuspulse/campuspulse/internal/tui"
)

type FeedbackCmd struct{}

func (c *FeedbackCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	user, err := requireSession(ctx)
	if err != nil {
		return err
	}

	sessions, err := ctx.API.ActiveFeedback(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch active feedback: %w", err)
	}

	cache := feedback.NewTemplateCache(ctx.API.TemplateQuestions)
	workflow := feedback.NewWorkflow(sessions, cache, ctx.Store, user.Username)
	if workflow.Len() == 0 {
		fmt.Println("No pending feedback. All done.")
		return nil
	}

	coordinator := feedback.NewCoordinator(workflow, cache, ctx.API.Submit, user.Batch)

	p := tea.NewProgram(tui.NewModel(workflow, cache, coordinator), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(tui.Model); ok {
		switch m.Outcome() {
		case feedback.OutcomeSubmitted:
			fmt.Println("Feedback submitted. Thank you.")
		case feedback.OutcomeAlreadyCompleted:
			fmt.Println("Feedback was already recorded for these sessions.")
		default:
			fmt.Println("Feedback not submitted. Your answers are saved and will be restored next time.")
		}
	}
	return nil
}
