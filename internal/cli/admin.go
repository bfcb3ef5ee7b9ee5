package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/campuspulse/campuspulse/internal/api"
	"github.com/campuspulse/campuspulse/internal/models"
)

type AdminMetadataCmd struct{}

func (c *AdminMetadataCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if _, err := requireRole(ctx, "admin"); err != nil {
		return err
	}

	meta, err := ctx.API.Metadata(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch metadata: %w", err)
	}

	fmt.Println("Staff:")
	for _, s := range meta.Staff {
		fmt.Printf("  %3d  %s\n", s.ID, s.Name)
	}
	fmt.Println("Subjects:")
	for _, s := range meta.Subjects {
		fmt.Printf("  %3d  %s\n", s.ID, s.Name)
	}
	fmt.Println("Batches:")
	for _, b := range meta.Batches {
		fmt.Printf("       %s\n", b)
	}
	fmt.Println("Templates:")
	for _, t := range meta.Templates {
		fmt.Printf("  %3d  %s", t.ID, t.Name)
		if t.Description != "" {
			fmt.Printf(" (%s)", t.Description)
		}
		fmt.Println()
	}
	return nil
}

type AdminScheduleCmd struct {
	Batch      string `short:"b" help:"Batch the schedule targets." required:""`
	Phase      string `short:"p" help:"Phase label, e.g. 'Phase 1'." required:""`
	SubjectID  int    `short:"s" help:"Subject ID from 'admin metadata'." required:""`
	StaffIDs   []int  `short:"S" help:"Staff IDs to collect feedback on." required:""`
	TemplateID int    `short:"t" help:"Question template ID." required:""`
	Start      string `help:"Start date (YYYY-MM-DD)." required:""`
	End        string `help:"End date (YYYY-MM-DD)." required:""`
}

func (c *AdminScheduleCmd) Validate() error {
	start, err := time.Parse("2006-01-02", c.Start)
	if err != nil {
		return fmt.Errorf("invalid start date, use YYYY-MM-DD: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.End)
	if err != nil {
		return fmt.Errorf("invalid end date, use YYYY-MM-DD: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date is before start date")
	}
	if len(c.StaffIDs) == 0 {
		return fmt.Errorf("at least one staff ID is required")
	}
	return nil
}

func (c *AdminScheduleCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if _, err := requireRole(ctx, "admin"); err != nil {
		return err
	}

	msg, err := ctx.API.CreateSchedule(context.Background(), models.ScheduleRequest{
		Batch:      c.Batch,
		Phase:      c.Phase,
		SubjectID:  c.SubjectID,
		StaffIDs:   c.StaffIDs,
		TemplateID: c.TemplateID,
		StartDate:  c.Start,
		EndDate:    c.End,
	})
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	if msg == "" {
		msg = "Schedule created."
	}
	fmt.Println(msg)
	return nil
}

type AdminSchedulesCmd struct{}

func (c *AdminSchedulesCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if _, err := requireRole(ctx, "admin"); err != nil {
		return err
	}

	schedules, err := ctx.API.Schedules(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch schedules: %w", err)
	}

	if len(schedules) == 0 {
		fmt.Println("No schedules.")
		return nil
	}

	for _, s := range schedules {
		fmt.Printf("  %v  %v / %v (%v, %v to %v)\n",
			s["batch"], s["subjectName"], s["staffName"], s["phase"], s["startDate"], s["endDate"])
	}
	return nil
}

type AdminAnalyticsCmd struct {
	StaffID    int      `arg:"" help:"Staff ID to inspect, or 0 for all staff." default:"0"`
	Batches    []string `short:"b" help:"Restrict to these batch IDs."`
	Phases     []string `short:"p" help:"Restrict to these phases."`
	Subjects   []string `short:"s" help:"Restrict to these subject IDs."`
	TemplateID string   `short:"t" help:"Restrict to one template ID, or 'all'." default:"all"`
	From       string   `help:"Earliest submission date (YYYY-MM-DD)."`
	To         string   `help:"Latest submission date (YYYY-MM-DD)."`
}

func (c *AdminAnalyticsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if _, err := requireRole(ctx, "admin"); err != nil {
		return err
	}

	rows, err := ctx.API.Analytics(context.Background(), c.StaffID, api.AnalyticsFilter{
		BatchIDs:   c.Batches,
		Phases:     c.Phases,
		SubjectIDs: c.Subjects,
		TemplateID: c.TemplateID,
		FromDate:   c.From,
		ToDate:     c.To,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch analytics: %w", err)
	}

	if len(rows) == 0 {
		fmt.Println("No feedback data for the selected filters.")
		return nil
	}

	for _, row := range rows {
		name := row.StaffName
		if name == "" {
			name = fmt.Sprintf("staff #%d", row.StaffID)
		}
		fmt.Printf("  %-24s %-10s %-20s %-10s %3d/%-3d responses  A %.2f  B %.2f  overall %.2f\n",
			name, row.BatchID, row.SubjectName, row.Phase,
			row.TotalRespondents, row.BatchStrength,
			row.PartAAverage, row.PartBAverage, row.OverallAverage)
	}
	return nil
}
