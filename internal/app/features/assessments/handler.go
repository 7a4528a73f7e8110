// internal/app/features/assessments/handler.go
package assessments

import (
	"context"

	"go.uber.org/zap"

	uierrors "github.com/schoolyard/examdesk/internal/app/features/errors"
	assignhistorystore "github.com/schoolyard/examdesk/internal/app/store/assignhistory"
	"github.com/schoolyard/examdesk/internal/platform"
)

// Lister is the slice of the platform client the history pages need.
type Lister interface {
	ListCustomExams(ctx context.Context, page int) (platform.ExamsPage, error)
	ListCustomQuizzes(ctx context.Context, page int) (platform.QuizzesPage, error)
}

// Handler owns the custom exam and quiz history pages. These are the landing
// pages for staff and the redirect target after a wizard run completes.
//
// History may be nil (e.g., in tests); the recent-assignments panel is then
// omitted.
type Handler struct {
	Platform Lister
	History  *assignhistorystore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs an assessments Handler.
func NewHandler(pf Lister, history *assignhistorystore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Platform: pf,
		History:  history,
		ErrLog:   errLog,
		Log:      logger,
	}
}
