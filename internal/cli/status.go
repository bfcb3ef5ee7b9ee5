package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusHeadStyle = lipgloss.NewStyle().Bold(true)
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	doneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if _, err := requireSession(ctx); err != nil {
		return err
	}

	sessions, err := ctx.API.ActiveFeedback(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch active feedback: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No feedback scheduled for you right now.")
		return nil
	}

	pending := 0
	fmt.Println(statusHeadStyle.Render("Feedback status"))
	fmt.Println()
	for _, s := range sessions {
		mark := doneStyle.Render("✓ done   ")
		if !s.IsCompleted {
			mark = pendingStyle.Render("• pending")
			pending++
		}
		fmt.Printf("  %s  %s / %s (%s, ends %s)\n", mark, s.Subject.Name, s.Staff.Name, s.Phase, s.EndDate)
	}
	fmt.Println()

	if pending == 0 {
		fmt.Println("All feedback submitted. Nothing to do.")
	} else {
		fmt.Printf("%d pending. Run 'campuspulse feedback' to fill them in.\n", pending)
	}
	return nil
}
