// internal/app/features/assessments/list.go
package assessments

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/schoolyard/examdesk/internal/app/system/timeouts"
	"github.com/schoolyard/examdesk/internal/app/system/viewdata"
)

// ServeExamList handles GET /exams, the custom exam history.
func (h *Handler) ServeExamList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page := parsePage(r)

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Custom exams", "/"),
		Kind:   "exam",
		NewURL: "/wizard/exam/grades",
		Page:   page,
	}

	res, err := h.Platform.ListCustomExams(ctx, page)
	if err != nil {
		// The history page still renders; the table shows the failure inline.
		h.Log.Error("list custom exams", zap.Error(err))
		data.LoadError = "Could not load exams. Go back and try again."
	} else {
		data.Items = toListItems(res.Exams)
		data.setPagination(res.Pagination)
	}

	data.History = h.recentHistory(ctx, "customExam")

	templates.Render(w, r, "assessments_list", data)
}

// ServeQuizList handles GET /quizzes, the custom quiz history.
func (h *Handler) ServeQuizList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page := parsePage(r)

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Custom quizzes", "/"),
		Kind:   "quiz",
		NewURL: "/wizard/quiz/grades",
		Page:   page,
	}

	res, err := h.Platform.ListCustomQuizzes(ctx, page)
	if err != nil {
		h.Log.Error("list custom quizzes", zap.Error(err))
		data.LoadError = "Could not load quizzes. Go back and try again."
	} else {
		data.Items = toListItems(res.Quizzes)
		data.setPagination(res.Pagination)
	}

	data.History = h.recentHistory(ctx, "customQuiz")

	templates.Render(w, r, "assessments_list", data)
}

// recentHistory loads the dashboard's own audit records for the side panel.
// Best-effort: failures log and return nothing.
func (h *Handler) recentHistory(ctx context.Context, flow string) []historyItem {
	if h.History == nil {
		return nil
	}

	recs, err := h.History.ListRecent(ctx, flow, 10)
	if err != nil {
		h.Log.Warn("load assignment history", zap.Error(err))
		return nil
	}

	items := make([]historyItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, historyItem{
			Title:         rec.Title,
			StandardName:  rec.StandardName,
			SectionName:   rec.SectionName,
			AssignedCount: rec.AssignedCount,
			AssignedBy:    rec.AssignedByName,
			When:          rec.CreatedAt.Format("Jan 2, 2006 15:04"),
		})
	}
	return items
}

func parsePage(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
