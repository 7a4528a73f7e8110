// internal/app/features/wizard/generate.go
package wizard

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/schoolyard/examdesk/internal/app/system/questiongen"
	"github.com/schoolyard/examdesk/internal/app/system/timeouts"
	"github.com/schoolyard/examdesk/internal/app/wizardstate"
	"github.com/schoolyard/examdesk/internal/domain/models"
)

// HandleGenerate handles POST /wizard/{flow}/generate: drafts questions with
// the configured model and appends them to the stored form data. The drafts
// land in the authoring form for review; nothing reaches the platform until
// the staff member confirms.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	f, ok := flowFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	runID := h.runID(w, r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse generate form", err,
			"The submitted form could not be read.", f.stepURL("form"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	grade, students, redirected := h.requirePriorSteps(ctx, w, r, f, runID)
	if redirected {
		return
	}

	var form models.WizardFormData
	if _, err := wizardstate.Fetch(ctx, h.States, runID, f.formKey(), &form); err != nil {
		h.ErrLog.LogServerError(w, r, "read form data", err,
			"Could not load your wizard progress. Please start over.", f.stepURL("grades"))
		return
	}

	if h.Gen == nil {
		h.renderForm(w, r, f, grade, students, form,
			"Question drafting is not configured on this server.")
		return
	}

	count, _ := strconv.Atoi(r.PostFormValue("gen_count"))
	req := questiongen.Request{
		Subject:       strings.TrimSpace(r.PostFormValue("gen_subject")),
		Topic:         strings.TrimSpace(r.PostFormValue("gen_topic")),
		Difficulty:    strings.TrimSpace(r.PostFormValue("gen_difficulty")),
		QuestionCount: count,
		QuestionType:  strings.TrimSpace(r.PostFormValue("gen_type")),
	}
	if req.Subject == "" {
		req.Subject = form.Details.Subject
	}
	if req.Topic == "" {
		req.Topic = form.Details.Topic
	}
	if req.Subject == "" {
		h.renderForm(w, r, f, grade, students, form,
			"Fill in a subject before drafting questions.")
		return
	}

	drafted, err := h.Gen.Generate(ctx, req)
	if err != nil {
		h.Log.Warn("question generation failed", zap.Error(err))
		h.renderForm(w, r, f, grade, students, form,
			"Question drafting failed. You can add questions manually or try again.")
		return
	}

	form.Questions = append(form.Questions, drafted...)
	if err := wizardstate.Put(ctx, h.States, runID, f.formKey(), form); err != nil {
		h.ErrLog.LogServerError(w, r, "save drafted questions", err,
			"Could not save the drafted questions. Please try again.", f.stepURL("form"))
		return
	}

	http.Redirect(w, r, f.stepURL("form"), http.StatusSeeOther)
}
