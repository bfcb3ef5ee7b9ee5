package models

// Subject is a taught subject as listed by the feedback service.
type Subject struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Staff is a staff member feedback can be given on.
type Staff struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FeedbackSession is one (student, staff, subject, phase) feedback
// obligation, tied to a question template. The client only reads these;
// the service owns them.
type FeedbackSession struct {
	ID          int     `json:"id"`
	Subject     Subject `json:"subject"`
	Staff       Staff   `json:"staff"`
	Phase       string  `json:"phase"`
	EndDate     string  `json:"endDate"`
	IsCompleted bool    `json:"isCompleted"`
	TemplateID  int     `json:"templateId"`
}

// Option is a single answer choice carrying the marks awarded for it.
type Option struct {
	ID         int    `json:"id"`
	OptionText string `json:"optionText"`
	Marks      int    `json:"marks"`
	OrderIndex int    `json:"orderIndex"`
}

// Question is a single-choice rated question.
type Question struct {
	ID           int      `json:"id"`
	QuestionText string   `json:"questionText"`
	OrderIndex   int      `json:"orderIndex"`
	Options      []Option `json:"options"`
}

// Section groups questions under a heading.
type Section struct {
	SectionName string     `json:"sectionName"`
	Questions   []Question `json:"questions"`
}

// Template is the reusable question structure shared by potentially many
// scheduled sessions.
type Template struct {
	TemplateID   int       `json:"templateId"`
	TemplateName string    `json:"templateName"`
	Sections     []Section `json:"sections"`
}

// QuestionCount is the completeness denominator for every session that
// references this template.
func (t Template) QuestionCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Questions)
	}
	return n
}

// HasQuestion reports whether the question id belongs to this template.
func (t Template) HasQuestion(questionID int) bool {
	for _, s := range t.Sections {
		for _, q := range s.Questions {
			if q.ID == questionID {
				return true
			}
		}
	}
	return false
}

// FindOption resolves an option inside the template by question and option
// id. The second return is false when either id is absent.
func (t Template) FindOption(questionID, optionID int) (Option, bool) {
	for _, s := range t.Sections {
		for _, q := range s.Questions {
			if q.ID != questionID {
				continue
			}
			for _, o := range q.Options {
				if o.ID == optionID {
					return o, true
				}
			}
			return Option{}, false
		}
	}
	return Option{}, false
}

// SubmissionItem is one answered-question record destined for the remote
// submit endpoint.
type SubmissionItem struct {
	ScheduleID int    `json:"schedule_id"`
	QuestionID int    `json:"question_id"`
	OptionID   int    `json:"option_id"`
	Marks      int    `json:"marks"`
	StaffID    int    `json:"staff_id"`
	BatchID    string `json:"batch_id"`
	SubjectID  int    `json:"subject_id"`
	Remarks    string `json:"remarks,omitempty"`
}
