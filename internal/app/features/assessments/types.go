// internal/app/features/assessments/types.go
package assessments

import (
	"github.com/schoolyard/examdesk/internal/app/system/viewdata"
	"github.com/schoolyard/examdesk/internal/platform"
)

// listItem is a summary row in an exam/quiz history table.
type listItem struct {
	ID            string
	Title         string
	Subject       string
	Topic         string
	QuestionCount int
	AssignedCount int
	CreatedAt     string
}

// historyItem is a row in the "recently assigned" side panel, sourced from
// the dashboard's own audit history rather than the platform.
type historyItem struct {
	Title         string
	StandardName  string
	SectionName   string
	AssignedCount int
	AssignedBy    string
	When          string
}

// listData provides template data for the exam/quiz history pages.
type listData struct {
	viewdata.BaseVM

	Kind    string // "exam" or "quiz", drives labels and links
	NewURL  string // entry point into the wizard
	Items   []listItem
	History []historyItem

	// Pagination
	Page     int
	PrevPage int
	NextPage int
	HasPrev  bool
	HasNext  bool
	Total    int

	// Load failure
	LoadError string
}

func (d *listData) setPagination(p platform.Pagination) {
	d.HasPrev = p.CurrentPage > 1
	d.HasNext = p.CurrentPage < p.TotalPages
	d.PrevPage = p.CurrentPage - 1
	d.NextPage = p.CurrentPage + 1
	d.Total = p.TotalCount
}

func toListItems(rows []platform.AssessmentSummary) []listItem {
	items := make([]listItem, 0, len(rows))
	for _, a := range rows {
		items = append(items, listItem{
			ID:            a.ID,
			Title:         a.Title,
			Subject:       a.Subject,
			Topic:         a.Topic,
			QuestionCount: a.QuestionCount,
			AssignedCount: a.AssignedCount,
			CreatedAt:     a.CreatedAt.Format("Jan 2, 2006"),
		})
	}
	return items
}
