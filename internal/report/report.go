// Package report renders fetched analytics rows as a printable
// consolidated feedback report.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/campuspulse/campuspulse/internal/models"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	rowHeadStyle = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// partAStats keeps the original dashboard's grouping: rows without a section
// label count as Part A.
func partAStats(stats []models.QuestionStat) []models.QuestionStat {
	var out []models.QuestionStat
	for _, s := range stats {
		if s.Section == "Part A" || s.Section == "" {
			out = append(out, s)
		}
	}
	return out
}

func partBStats(stats []models.QuestionStat) []models.QuestionStat {
	var out []models.QuestionStat
	for _, s := range stats {
		if s.Section == "Part B" {
			out = append(out, s)
		}
	}
	return out
}

// percent converts a 0-10 average to the report's percentage scale.
func percent(avg float64) float64 {
	return avg / 10 * 100
}

// Render builds the consolidated report for one staff member. Rows are one
// (batch, subject, phase) aggregate each.
func Render(staffName string, rows []models.AnalyticsRow) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("CONSOLIDATED FEEDBACK REPORT"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Staff: %s\n\n", staffName))

	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("No feedback data for the selected filters."))
		b.WriteString("\n")
		return b.String()
	}

	for _, row := range rows {
		b.WriteString(rowHeadStyle.Render(fmt.Sprintf("%s • %s • %s", row.BatchID, row.SubjectName, orNA(row.Phase))))
		b.WriteString("\n")
		if row.TemplateName != "" {
			b.WriteString(fmt.Sprintf("  Template:  %s\n", row.TemplateName))
		}
		b.WriteString(fmt.Sprintf("  Responses: %d of %d\n", row.TotalRespondents, row.BatchStrength))
		b.WriteString(fmt.Sprintf("  Teaching effectiveness: %.1f%%   Research effectiveness: %.1f%%   Overall: %.2f\n",
			percent(row.PartAAverage), percent(row.PartBAverage), row.OverallAverage))

		if stats := partAStats(row.QuestionStats); len(stats) > 0 {
			b.WriteString("  Part A\n")
			writeStats(&b, stats, "A")
		}
		if stats := partBStats(row.QuestionStats); len(stats) > 0 {
			b.WriteString("  Part B\n")
			writeStats(&b, stats, "B")
		}
		b.WriteString("\n")
	}

	b.WriteString(headingStyle.Render("Summary"))
	b.WriteString("\n")
	var teaching, research float64
	for _, row := range rows {
		teaching += row.PartAAverage
		research += row.PartBAverage
	}
	n := float64(len(rows))
	b.WriteString(fmt.Sprintf("Overall teaching effectiveness: %.1f%% | Research effectiveness: %.1f%%\n",
		percent(teaching/n), percent(research/n)))

	return b.String()
}

func writeStats(b *strings.Builder, stats []models.QuestionStat, prefix string) {
	for i, s := range stats {
		text := s.QuestionText
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		fmt.Fprintf(b, "    %s%-2d %-60s %5.2f\n", prefix, i+1, text, s.AverageMarks)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
