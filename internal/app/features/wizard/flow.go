// internal/app/features/wizard/flow.go
package wizard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Flow identifies which assessment kind a wizard run is building. The two
// flows share every step and differ only in the platform endpoints they hit
// and the state keys they use, so one run can hold an exam draft and a quiz
// draft side by side without collision.
type Flow string

const (
	FlowExam Flow = "customExam"
	FlowQuiz Flow = "customQuiz"
)

// flowFromRequest resolves the {flow} URL segment ("exam" or "quiz").
func flowFromRequest(r *http.Request) (Flow, bool) {
	switch chi.URLParam(r, "flow") {
	case "exam":
		return FlowExam, true
	case "quiz":
		return FlowQuiz, true
	default:
		return "", false
	}
}

// Slug is the flow's URL segment.
func (f Flow) Slug() string {
	if f == FlowQuiz {
		return "quiz"
	}
	return "exam"
}

// Label is the lowercase human name used in page copy.
func (f Flow) Label() string {
	if f == FlowQuiz {
		return "quiz"
	}
	return "exam"
}

// ListURL is the history page the wizard exits to.
func (f Flow) ListURL() string {
	if f == FlowQuiz {
		return "/quizzes"
	}
	return "/exams"
}

func (f Flow) stepURL(step string) string {
	return "/wizard/" + f.Slug() + "/" + step
}

// State keys, prefixed by flow so concurrent exam and quiz runs in the same
// browser session never read each other's values.

func (f Flow) gradeKey() string    { return string(f) + "GradeAndSection" }
func (f Flow) studentsKey() string { return string(f) + "SelectedStudents" }
func (f Flow) formKey() string     { return string(f) + "FormData" }
func (f Flow) commitKey() string   { return string(f) + "CommitState" }
