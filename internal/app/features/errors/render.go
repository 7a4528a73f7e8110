// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/schoolyard/examdesk/internal/app/system/auth"
	"go.uber.org/zap"
)

// renderPage renders the shared error page with the given title and message.
func renderPage(w http.ResponseWriter, r *http.Request, title, msg, backURL string) {
	role, name, _, signedIn := auth.UserCtx(r)
	if backURL == "" {
		backURL = "/"
	}

	data := pageData{
		Title:      title,
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	}

	templates.Render(w, r, "error_page", data)
}

// RenderNotFound shows a friendly "not found" page with a message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	w.WriteHeader(http.StatusNotFound)
	renderPage(w, r, "Not found", msg, backURL)
}

// RenderServerError shows a friendly "something went wrong" page.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	w.WriteHeader(http.StatusInternalServerError)
	renderPage(w, r, "Something went wrong", msg, backURL)
}

// RenderForbidden shows a friendly access error page with a message.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	w.WriteHeader(http.StatusForbidden)
	renderPage(w, r, "Access denied", msg, backURL)
}

// ErrorLogger pairs zap logging with user-facing error pages so handlers can
// report a failure once and move on.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogBadRequest logs a malformed-request error and renders an error page
// with the given user message.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	w.WriteHeader(http.StatusBadRequest)
	renderPage(w, r, "Invalid request", userMsg, backURL)
}

// LogServerError logs an internal failure and renders an error page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	RenderServerError(w, r, userMsg, backURL)
}
