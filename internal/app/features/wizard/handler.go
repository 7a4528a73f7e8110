// internal/app/features/wizard/handler.go
package wizard

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	uierrors "github.com/schoolyard/examdesk/internal/app/features/errors"
	assignhistorystore "github.com/schoolyard/examdesk/internal/app/store/assignhistory"
	"github.com/schoolyard/examdesk/internal/app/system/questiongen"
	"github.com/schoolyard/examdesk/internal/app/wizardstate"
	"github.com/schoolyard/examdesk/internal/domain/models"
	"github.com/schoolyard/examdesk/internal/platform"
)

// runCookieName holds the signed wizard run ID. The ID is opaque; all wizard
// state lives server-side under it.
const runCookieName = "examdesk-wizard"

// PlatformAPI is the slice of the platform client the wizard uses.
type PlatformAPI interface {
	FetchAllStandards(ctx context.Context) ([]models.Standard, error)
	FetchAllStudents(ctx context.Context, standardName, sectionName string) ([]models.Student, error)
	CreateCustomExam(ctx context.Context, payload platform.CreateExamPayload) (platform.CreatedExam, error)
	CreateCustomQuiz(ctx context.Context, payload platform.CreateQuizPayload) (platform.CreatedQuiz, error)
	AssignCustomExam(ctx context.Context, examID string, studentIDs []string, institutionID string) (int, error)
	AssignQuiz(ctx context.Context, quizID string, studentIDs []string, institutionID string) (int, error)
}

// Generator drafts questions for the form stage. May be absent.
type Generator interface {
	Generate(ctx context.Context, req questiongen.Request) ([]models.Question, error)
}

// Handler owns every step of the exam/quiz assignment wizard.
//
// History and Gen may be nil: without History no audit record is written,
// without Gen the generate action reports that drafting is unavailable.
type Handler struct {
	Platform PlatformAPI
	States   wizardstate.Store
	History  *assignhistorystore.Store
	Gen      Generator
	Cookies  *securecookie.SecureCookie
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger

	locks runLocks
}

// NewHandler constructs the wizard handler.
func NewHandler(pf PlatformAPI, states wizardstate.Store, history *assignhistorystore.Store, gen Generator, cookies *securecookie.SecureCookie, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Platform: pf,
		States:   states,
		History:  history,
		Gen:      gen,
		Cookies:  cookies,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// runID returns the caller's wizard run ID, minting and setting a fresh one
// when the cookie is absent or fails to decode.
func (h *Handler) runID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(runCookieName); err == nil {
		var id string
		if err := h.Cookies.Decode(runCookieName, c.Value, &id); err == nil && id != "" {
			return id
		}
	}

	id := uuid.NewString()
	encoded, err := h.Cookies.Encode(runCookieName, id)
	if err != nil {
		// Encoding only fails on a misconfigured key; the run still works for
		// this request, it just won't survive to the next one.
		h.Log.Error("encode wizard run cookie", zap.Error(err))
		return id
	}
	http.SetCookie(w, &http.Cookie{
		Name:     runCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// runLocks serializes confirm submissions per run. TryLock (not Lock) so a
// double-submit fails fast instead of queueing a second commit.
type runLocks struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func (l *runLocks) TryLock(runID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = make(map[string]struct{})
	}
	if _, taken := l.held[runID]; taken {
		return false
	}
	l.held[runID] = struct{}{}
	return true
}

func (l *runLocks) Unlock(runID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, runID)
}
