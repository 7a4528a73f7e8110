// internal/app/features/wizard/confirm.go
package wizard

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/schoolyard/examdesk/internal/app/system/auth"
	"github.com/schoolyard/examdesk/internal/app/system/formutil"
	"github.com/schoolyard/examdesk/internal/app/system/htmlsanitize"
	"github.com/schoolyard/examdesk/internal/app/system/navigation"
	"github.com/schoolyard/examdesk/internal/app/system/timeouts"
	"github.com/schoolyard/examdesk/internal/app/wizardstate"
	"github.com/schoolyard/examdesk/internal/domain/models"
	"github.com/schoolyard/examdesk/internal/platform"
)

// ServeConfirm handles GET /wizard/{flow}/confirm: the final review page.
// Only the form data is a hard prerequisite; a missing grade or student
// selection renders as a placeholder so the review is still visible, with
// the submit control disabled until students are chosen.
func (h *Handler) ServeConfirm(w http.ResponseWriter, r *http.Request) {
	f, ok := flowFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	runID := h.runID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	form, grade, students, redirected := h.loadReview(ctx, w, r, f, runID)
	if redirected {
		return
	}

	h.renderConfirm(w, r, f, runID, grade, students, form, "")
}

// loadReview fetches the review inputs. Absent form data redirects to the
// form step; absent grade or students come back as zero values.
func (h *Handler) loadReview(ctx context.Context, w http.ResponseWriter, r *http.Request, f Flow, runID string) (models.WizardFormData, models.GradeAndSection, models.SelectedStudents, bool) {
	var form models.WizardFormData
	var grade models.GradeAndSection
	var students models.SelectedStudents

	found, err := wizardstate.Fetch(ctx, h.States, runID, f.formKey(), &form)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "read form data", err,
			"Could not load your wizard progress. Please start over.", f.stepURL("grades"))
		return form, grade, students, true
	}
	if !found {
		http.Redirect(w, r, f.stepURL("form"), http.StatusSeeOther)
		return form, grade, students, true
	}

	if _, err := wizardstate.Fetch(ctx, h.States, runID, f.gradeKey(), &grade); err != nil {
		h.Log.Warn("read grade selection", zap.Error(err))
	}
	if _, err := wizardstate.Fetch(ctx, h.States, runID, f.studentsKey(), &students); err != nil {
		h.Log.Warn("read student selection", zap.Error(err))
	}

	return form, grade, students, false
}

// HandleConfirm handles POST /wizard/{flow}/confirm: the two-phase commit.
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	f, ok := flowFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	runID := h.runID(w, r)

	// Create plus assign can take two full platform round trips.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	form, grade, students, redirected := h.loadReview(ctx, w, r, f, runID)
	if redirected {
		return
	}

	// No students means nothing to assign; rejected here, no platform call.
	if len(students.Students) == 0 {
		h.renderConfirm(w, r, f, runID, grade, students, form,
			"Select students before assigning. Nothing has been created.")
		return
	}

	user, _ := auth.CurrentUser(r)

	state, err := h.runCommit(ctx, f, runID, user)
	if err != nil {
		switch {
		case errors.Is(err, errCommitInFlight):
			h.renderConfirm(w, r, f, runID, grade, students, form,
				"This submission is already being processed. Wait a moment, then refresh.")
		case platform.IsAPIError(err):
			h.Log.Warn("commit rejected by platform",
				zap.String("flow", string(f)),
				zap.String("phase", string(state.Phase)),
				zap.Error(err))
			h.renderConfirm(w, r, f, runID, grade, students, form, commitFailureMessage(state, f))
		default:
			h.ErrLog.LogServerError(w, r, "commit wizard run", err,
				commitFailureMessage(state, f), f.stepURL("confirm"))
		}
		return
	}

	http.Redirect(w, r, f.stepURL("success"), http.StatusSeeOther)
}

// HandleCancel handles POST /wizard/{flow}/cancel. Clearing is idempotent;
// cancelling an empty or already-cancelled run is fine.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	f, ok := flowFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	runID := h.runID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	for _, key := range []string{f.gradeKey(), f.studentsKey(), f.formKey(), f.commitKey()} {
		if err := h.States.Remove(ctx, runID, key); err != nil {
			h.Log.Warn("clear wizard state on cancel", zap.String("key", key), zap.Error(err))
		}
	}

	dest := navigation.SafeBackURL(r, navigation.ListingBackURL(f.ListURL()))
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// ServeSuccess handles GET /wizard/{flow}/success. It renders the committed
// result once and then retires the run; a refresh lands on the listing.
func (h *Handler) ServeSuccess(w http.ResponseWriter, r *http.Request) {
	f, ok := flowFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	runID := h.runID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var state commitState
	found, err := wizardstate.Fetch(ctx, h.States, runID, f.commitKey(), &state)
	if err != nil {
		h.Log.Warn("read commit state", zap.Error(err))
	}
	if !found || state.Phase != phaseAssigned {
		http.Redirect(w, r, f.ListURL(), http.StatusSeeOther)
		return
	}

	data := successData{
		FlowLabel:     f.Label(),
		Title:         state.Resource.Title,
		AssignedCount: state.AssignedCount,
		ListURL:       f.ListURL(),
	}
	formutil.SetBase(&data.Base, r, "Assigned", f.ListURL())

	templates.Render(w, r, "wizard_success", data)

	if err := h.States.Remove(ctx, runID, f.commitKey()); err != nil {
		h.Log.Warn("retire commit state", zap.Error(err))
	}
}

func (h *Handler) renderConfirm(w http.ResponseWriter, r *http.Request, f Flow, runID string, grade models.GradeAndSection, students models.SelectedStudents, form models.WizardFormData, errMsg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var state commitState
	if _, err := wizardstate.Fetch(ctx, h.States, runID, f.commitKey(), &state); err != nil {
		h.Log.Warn("read commit state", zap.Error(err))
	}

	rows := make([]studentRow, 0, len(students.Students))
	for _, st := range students.Students {
		rows = append(rows, studentRow{ID: st.ID, Name: st.FullName(), Email: st.Email})
	}

	data := confirmData{
		Flow:          f.Slug(),
		FlowLabel:     f.Label(),
		StandardName:  display(grade.StandardName),
		SectionName:   display(grade.SectionName),
		Title:         display(form.Details.Title),
		Subject:       display(form.Details.Subject),
		Topic:         display(form.Details.Topic),
		TimeLimit:     form.Details.TimeLimitMinutes,
		Instructions:  htmlsanitize.SanitizeHTML(form.Details.Instructions),
		QuestionCount: len(form.Questions),
		Students:      rows,
		StudentCount:  len(rows),
		Retrying:      state.Phase == phaseAssignFailed && state.Resource.ResourceID != "",
		EditFormURL:   f.stepURL("form"),
		CancelURL:     f.stepURL("cancel"),
	}
	formutil.SetBase(&data.Base, r, "Review and assign", f.stepURL("form"))
	if errMsg != "" {
		data.SetError(errMsg)
	}

	templates.Render(w, r, "wizard_confirm", data)
}

// commitFailureMessage distinguishes "nothing happened" from "created but not
// assigned" so the staff member knows whether a retry re-creates.
func commitFailureMessage(state commitState, f Flow) string {
	if state.Phase == phaseAssignFailed && state.Resource.ResourceID != "" {
		return "The " + f.Label() + " was created but assigning it failed. Submit again to retry the assignment only."
	}
	return "The " + f.Label() + " could not be created. Nothing was assigned; please try again."
}
