package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/campuspulse/campuspulse/internal/feedback"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	current, ok := m.workflow.Current()
	if !ok {
		return docStyle.Render("No pending feedback. You're all caught up!")
	}

	var content string
	switch m.state {
	case StateLoading:
		if m.errMsg != "" {
			content = lipgloss.JoinVertical(lipgloss.Left,
				dangerStyle.Render(m.errMsg),
				"",
				subtitleStyle.Render("Press any key to retry, q to quit. Your answers are saved."),
			)
		} else {
			content = fmt.Sprintf("%s Loading questions...", m.spinner.View())
		}
	case StateForm:
		content = m.viewForm()
	case StateRemark:
		content = m.viewRemark()
	case StateSubmitting:
		content = fmt.Sprintf("%s Submitting all feedback...", m.spinner.View())
	case StateDone:
		content = m.viewDone()
	case StateFailed:
		content = lipgloss.JoinVertical(lipgloss.Left,
			dangerStyle.Render("Submission failed: "+m.errMsg),
			"",
			subtitleStyle.Render("Your answers are saved. Press any key to go back and retry."),
		)
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		titleStyle.Render(current.Subject.Name),
		subtitleStyle.Render(current.Staff.Name+" • "+current.Phase),
	)

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		content,
		"",
		m.help.View(m.keys),
	))
}

func (m Model) viewHeader() string {
	answered, total := m.workflow.Progress()
	status := fmt.Sprintf("Staff %d of %d | %d / %d Answered",
		m.workflow.Cursor()+1, m.workflow.Len(), answered, total)
	if m.errMsg != "" && m.state == StateForm {
		status += "  " + dangerStyle.Render(m.errMsg)
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, m.viewProgressBar(answered, total))
}

func (m Model) viewProgressBar(answered, total int) string {
	width := m.width - 6
	if width < 10 {
		width = 40
	}
	filled := 0
	if total > 0 {
		filled = answered * width / total
	}
	return progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) viewForm() string {
	tmpl, ok := m.currentTemplate()
	if !ok {
		return fmt.Sprintf("%s Loading questions...", m.spinner.View())
	}

	var b strings.Builder
	index := 0
	for _, sec := range tmpl.Sections {
		b.WriteString(sectionStyle.Render(sec.SectionName))
		b.WriteString("\n")
		for _, q := range sec.Questions {
			chosen, answered := m.workflow.AnswerFor(q.ID)

			marker := "  "
			if answered {
				marker = answeredStyle.Render("✓ ")
			}
			line := fmt.Sprintf("%s%d. %s", marker, index+1, q.QuestionText)

			if index == m.questionCursor {
				b.WriteString(activeQuestionStyle.Render(line))
				b.WriteString("\n")
				for i, opt := range q.Options {
					label := fmt.Sprintf("[%d] %s (%d)", i+1, opt.OptionText, opt.Marks)
					if answered && chosen == opt.ID {
						b.WriteString(selectedOptionStyle.Render("(•) " + label))
					} else {
						b.WriteString(optionStyle.Render("( ) " + label))
					}
					b.WriteString("\n")
				}
			} else {
				b.WriteString(questionStyle.Render(line))
				b.WriteString("\n")
			}
			index++
		}
	}

	if remark := m.workflow.Remark(); remark != "" {
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Remark: " + remark))
		b.WriteString("\n")
	}

	if m.workflow.IsLast() && m.workflow.AllComplete() {
		b.WriteString("\n")
		b.WriteString(successStyle.Render("All feedback complete. Press s to submit everything."))
	}

	return b.String()
}

func (m Model) viewRemark() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		"Remark for this staff member (enter to save, esc to cancel):",
		"",
		m.remarkInput.View(),
	)
}

func (m Model) viewDone() string {
	if m.outcome == feedback.OutcomeAlreadyCompleted {
		return successStyle.Render("Your feedback had already been recorded. Thank you!")
	}
	return successStyle.Render("Feedback submitted. Thank you for your valuable feedback!")
}
