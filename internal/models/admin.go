package models

// User is the authenticated identity as reported by the service. Batch is
// empty for admin users.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Batch    string `json:"batch,omitempty"`
}

// TemplateInfo is the template listing entry from admin metadata.
type TemplateInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Metadata is the admin scheduling lookup data.
type Metadata struct {
	Staff     []Staff        `json:"staff"`
	Subjects  []Subject      `json:"subjects"`
	Batches   []string       `json:"batches"`
	Templates []TemplateInfo `json:"templates"`
}

// ScheduleRequest creates feedback sessions for one subject across a set of
// staff members.
type ScheduleRequest struct {
	Batch      string `json:"batch"`
	Phase      string `json:"phase"`
	SubjectID  int    `json:"subjectId"`
	StaffIDs   []int  `json:"staffIds"`
	TemplateID int    `json:"templateId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

// QuestionStat is a per-question aggregate inside an analytics row.
type QuestionStat struct {
	QuestionID   int     `json:"questionId"`
	QuestionText string  `json:"questionText"`
	Section      string  `json:"section"`
	AverageMarks float64 `json:"averageMarks"`
}

// AnalyticsRow is one (staff, batch, subject, phase) aggregate computed by
// the service.
type AnalyticsRow struct {
	StaffID          int            `json:"staffId,omitempty"`
	StaffName        string         `json:"staffName,omitempty"`
	BatchID          string         `json:"batchId"`
	TotalRespondents int            `json:"totalRespondents"`
	BatchStrength    int            `json:"batchStrength"`
	SubjectName      string         `json:"subjectName"`
	Phase            string         `json:"phase"`
	TemplateName     string         `json:"templateName,omitempty"`
	OverallAverage   float64        `json:"overallAverage"`
	PartAAverage     float64        `json:"partAAverage"`
	PartBAverage     float64        `json:"partBAverage"`
	QuestionStats    []QuestionStat `json:"questionStats"`
}
