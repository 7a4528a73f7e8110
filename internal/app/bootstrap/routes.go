// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	assessmentsfeature "github.com/schoolyard/examdesk/internal/app/features/assessments"
	errorsfeature "github.com/schoolyard/examdesk/internal/app/features/errors"
	healthfeature "github.com/schoolyard/examdesk/internal/app/features/health"
	homefeature "github.com/schoolyard/examdesk/internal/app/features/home"
	loginfeature "github.com/schoolyard/examdesk/internal/app/features/login"
	logoutfeature "github.com/schoolyard/examdesk/internal/app/features/logout"
	wizardfeature "github.com/schoolyard/examdesk/internal/app/features/wizard"
	assignhistorystore "github.com/schoolyard/examdesk/internal/app/store/assignhistory"
	"github.com/schoolyard/examdesk/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the session manager, boots the
// template engine, and mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	history := assignhistorystore.New(deps.MongoDatabase)

	// The wizard run cookie is signed separately from the session so the run
	// ID survives a sign-out.
	wizardCookies := securecookie.New(deriveKey(appCfg.SessionKey, "wizard-run"), nil)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// All form posts carry the CSRF token; health stays outside for probes.
	csrfMiddleware := csrf.Protect(
		deriveKey(appCfg.SessionKey, "csrf"),
		csrf.Secure(secure),
		csrf.Path("/"),
	)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)

		// Public pages
		homeHandler := homefeature.NewHandler(logger)
		r.Mount("/", homefeature.Routes(homeHandler))

		// Authentication
		loginHandler := loginfeature.NewHandler(deps.Platform, sessionMgr, appCfg.AdminEmail, appCfg.AdminPasswordHash, logger)
		r.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler))

		// Error pages
		errorsHandler := errorsfeature.NewHandler()
		r.Get("/forbidden", errorsHandler.Forbidden)
		r.Get("/unauthorized", errorsHandler.Unauthorized)

		// Staff-only areas: assessment histories and the assignment wizard.
		r.Group(func(r chi.Router) {
			r.Use(sessionMgr.RequireSignedIn)

			assessmentsHandler := assessmentsfeature.NewHandler(deps.Platform, history, errLog, logger)
			r.Mount("/exams", assessmentsfeature.ExamRoutes(assessmentsHandler))
			r.Mount("/quizzes", assessmentsfeature.QuizRoutes(assessmentsHandler))

			var gen wizardfeature.Generator
			if deps.QuestionGen != nil {
				gen = deps.QuestionGen
			}
			wizardHandler := wizardfeature.NewHandler(deps.Platform, deps.WizardStates, history, gen, wizardCookies, errLog, logger)
			r.Mount("/wizard", wizardfeature.Routes(wizardHandler))
		})
	})

	return r, nil
}

// deriveKey stretches the session secret into a fixed 32-byte key for a named
// purpose, so the CSRF and wizard cookies never share key material with the
// session store.
func deriveKey(secret, purpose string) []byte {
	sum := sha256.Sum256([]byte(secret + ":" + purpose))
	return sum[:]
}
