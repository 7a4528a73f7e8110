// internal/app/features/assessments/routes.go
package assessments

import "github.com/go-chi/chi/v5"

// ExamRoutes returns the subrouter for /exams.
func ExamRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeExamList)
	return r
}

// QuizRoutes returns the subrouter for /quizzes.
func QuizRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeQuizList)
	return r
}
