package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/campuspulse/campuspulse/internal/api"
	"github.com/campuspulse/campuspulse/internal/report"
)

type ReportCmd struct {
	StaffID    int      `arg:"" help:"Staff ID to report on (see 'admin metadata')."`
	StaffName  string   `help:"Staff name printed on the report heading."`
	Batches    []string `short:"b" help:"Restrict to these batch IDs."`
	Phases     []string `short:"p" help:"Restrict to these phases."`
	TemplateID string   `short:"t" help:"Restrict to one template ID, or 'all'." default:"all"`
	From       string   `help:"Earliest submission date (YYYY-MM-DD)."`
	To         string   `help:"Latest submission date (YYYY-MM-DD)."`
	Output     string   `short:"o" help:"Write the report to a file instead of stdout." type:"path"`
}

func (c *ReportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if _, err := requireRole(ctx, "admin"); err != nil {
		return err
	}

	rows, err := ctx.API.Analytics(context.Background(), c.StaffID, api.AnalyticsFilter{
		BatchIDs:   c.Batches,
		Phases:     c.Phases,
		TemplateID: c.TemplateID,
		FromDate:   c.From,
		ToDate:     c.To,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch analytics: %w", err)
	}

	name := c.StaffName
	if name == "" {
		for _, row := range rows {
			if row.StaffName != "" {
				name = row.StaffName
				break
			}
		}
	}
	if name == "" {
		name = fmt.Sprintf("Staff #%d", c.StaffID)
	}

	rendered := report.Render(name, rows)

	if c.Output != "" {
		if err := os.WriteFile(c.Output, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("Report written to %s\n", c.Output)
		return nil
	}

	fmt.Print(rendered)
	return nil
}
