// internal/app/features/wizard/routes.go
package wizard

import "github.com/go-chi/chi/v5"

// Routes returns the wizard subrouter, mounted at /wizard. The {flow}
// segment is "exam" or "quiz"; anything else 404s in the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/{flow}", func(r chi.Router) {
		r.Get("/", h.ServeStart)
		r.Get("/grades", h.ServeGrades)
		r.Post("/grades", h.HandleGrades)
		r.Get("/students", h.ServeStudents)
		r.Post("/students", h.HandleStudents)
		r.Get("/form", h.ServeForm)
		r.Post("/form", h.HandleForm)
		r.Post("/generate", h.HandleGenerate)
		r.Get("/confirm", h.ServeConfirm)
		r.Post("/confirm", h.HandleConfirm)
		r.Post("/cancel", h.HandleCancel)
		r.Get("/success", h.ServeSuccess)
	})
	return r
}
