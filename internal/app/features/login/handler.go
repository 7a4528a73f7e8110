// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolyard/examdesk/internal/app/system/auth"
	"github.com/schoolyard/examdesk/internal/app/system/formutil"
	"github.com/schoolyard/examdesk/internal/app/system/inputval"
	"github.com/schoolyard/examdesk/internal/app/system/ratelimit"
	"github.com/schoolyard/examdesk/internal/app/system/timeouts"
	"github.com/schoolyard/examdesk/internal/platform"
)

// Authenticator is the slice of the platform client the login flow needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (platform.StaffUser, error)
}

// Handler owns the staff sign-in pages.
//
// Credentials are checked against the platform. As a bootstrap fallback for
// installs without platform credentials yet, a single local admin can be
// configured with a bcrypt password hash.
type Handler struct {
	Platform   Authenticator
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger

	// Local fallback admin; both must be set for the fallback to be active.
	AdminEmail        string
	AdminPasswordHash string
}

func NewHandler(pf Authenticator, sessionMgr *auth.SessionManager, adminEmail, adminPasswordHash string, logger *zap.Logger) *Handler {
	return &Handler{
		Platform:          pf,
		SessionMgr:        sessionMgr,
		Limiter:           ratelimit.NewLoginLimiter(),
		Log:               logger,
		AdminEmail:        adminEmail,
		AdminPasswordHash: adminPasswordHash,
	}
}

// loginFormData is the view model for the sign-in form.
type loginFormData struct {
	formutil.Base
	Email  string
	Return string
}

type loginInput struct {
	Email    string `validate:"required,email" label:"Email"`
	Password string `validate:"required" label:"Password"`
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	data := loginFormData{Return: safeReturn(r)}
	formutil.SetBase(&data.Base, r, "Sign in", "/")
	templates.Render(w, r, "login", data)
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.reRender(w, r, "", "Invalid form data.")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	input := loginInput{Email: email, Password: password}
	if result := inputval.Validate(input); result.HasErrors() {
		h.reRender(w, r, email, result.First())
		return
	}

	if allowed, reason := h.Limiter.Check(r, email); !allowed {
		h.reRender(w, r, email, reason)
		return
	}

	user, ok := h.authenticate(r, email, password)
	if !ok {
		h.reRender(w, r, email, "Email or password is incorrect.")
		return
	}
	h.Limiter.ResetEmail(email)

	if err := h.SessionMgr.SignIn(w, r, user); err != nil {
		h.Log.Error("login: save session", zap.Error(err))
		h.reRender(w, r, email, "Could not sign you in. Please try again.")
		return
	}

	dest := safeReturn(r)
	if dest == "" {
		dest = "/"
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) authenticate(r *http.Request, email, password string) (auth.SessionUser, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	staff, err := h.Platform.Login(ctx, email, password)
	if err == nil {
		return auth.SessionUser{
			ID:            staff.ID,
			Name:          staff.Name,
			Email:         staff.Email,
			Role:          staff.Role,
			InstitutionID: staff.InstitutionID,
		}, true
	}

	if !platform.IsAPIError(err) {
		h.Log.Warn("login: platform unreachable", zap.Error(err))
	}

	// Local bootstrap admin fallback.
	if h.AdminEmail != "" && h.AdminPasswordHash != "" &&
		strings.EqualFold(email, h.AdminEmail) &&
		bcrypt.CompareHashAndPassword([]byte(h.AdminPasswordHash), []byte(password)) == nil {
		return auth.SessionUser{
			ID:    "local-admin",
			Name:  "Administrator",
			Email: h.AdminEmail,
			Role:  "admin",
		}, true
	}

	return auth.SessionUser{}, false
}

func (h *Handler) reRender(w http.ResponseWriter, r *http.Request, email, msg string) {
	data := loginFormData{Email: email, Return: safeReturn(r)}
	formutil.SetBase(&data.Base, r, "Sign in", "/")
	data.SetError(msg)
	templates.Render(w, r, "login", data)
}

// safeReturn validates the optional return target so login cannot be used as
// an open redirect.
func safeReturn(r *http.Request) string {
	ret := r.URL.Query().Get("return")
	if ret == "" {
		ret = strings.TrimSpace(r.FormValue("return"))
	}
	return urlutil.SafeReturn(ret, "", "")
}
