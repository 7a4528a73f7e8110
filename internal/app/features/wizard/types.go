// internal/app/features/wizard/types.go
package wizard

import (
	"html/template"

	"github.com/schoolyard/examdesk/internal/app/system/formutil"
	"github.com/schoolyard/examdesk/internal/domain/models"
)

// sectionChoice is one selectable standard/section pair on the grades page.
type sectionChoice struct {
	StandardID   string
	StandardName string
	SectionID    string
	SectionName  string
	Selected     bool
}

// gradesData renders the section-selection step.
type gradesData struct {
	formutil.Base

	Flow      string // "exam" or "quiz"
	FlowLabel string
	Choices   []sectionChoice
	CancelURL string
}

// studentRow is one roster entry on the student-selection step.
type studentRow struct {
	ID       string
	Name     string
	Email    string
	Selected bool
}

// studentsData renders the student-selection step.
type studentsData struct {
	formutil.Base

	Flow         string
	FlowLabel    string
	StandardName string
	SectionName  string
	Query        string
	Students     []studentRow
	SelectedIDs  int
	CancelURL    string
}

// formPageData renders the authoring step.
type formPageData struct {
	formutil.Base

	Flow          string
	FlowLabel     string
	StandardName  string
	SectionName   string
	StudentCount  int
	Details       models.AssessmentDetails
	Description   string
	Questions     []models.Question
	QuestionsJSON string
	QuestionTypes []string
	CanGenerate   bool
	CancelURL     string
}

// confirmData renders the review-and-confirm step.
type confirmData struct {
	formutil.Base

	Flow          string
	FlowLabel     string
	StandardName  string
	SectionName   string
	Title         string
	Subject       string
	Topic         string
	TimeLimit     int
	Instructions  template.HTML
	QuestionCount int
	Students      []studentRow
	StudentCount  int
	Retrying      bool
	EditFormURL   string
	CancelURL     string
}

// successData renders the post-commit page.
type successData struct {
	formutil.Base

	FlowLabel     string
	Title         string
	AssignedCount int
	ListURL       string
}

// display substitutes a placeholder for missing review values so the confirm
// page never renders an empty cell.
func display(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
