// internal/app/features/wizard/grade.go
package wizard

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/schoolyard/examdesk/internal/app/system/formutil"
	"github.com/schoolyard/examdesk/internal/app/system/timeouts"
	"github.com/schoolyard/examdesk/internal/app/wizardstate"
	"github.com/schoolyard/examdesk/internal/domain/models"
)

// ServeStart sends the caller to the first step of the flow.
func (h *Handler) ServeStart(w http.ResponseWriter, r *http.Request) {
	f, ok := flowFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, f.stepURL("grades"), http.StatusSeeOther)
}

// ServeGrades handles GET /wizard/{flow}/grades: the standard/section picker.
func (h *Handler) ServeGrades(w http.ResponseWriter, r *http.Request) {
	f, ok := flowFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	runID := h.runID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	standards, err := h.Platform.FetchAllStandards(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "fetch standards", err,
			"Could not load grades from the platform. Please try again.", f.ListURL())
		return
	}

	var current models.GradeAndSection
	if _, err := wizardstate.Fetch(ctx, h.States, runID, f.gradeKey(), &current); err != nil {
		h.Log.Warn("read grade selection", zap.Error(err))
	}

	data := gradesData{
		Flow:      f.Slug(),
		FlowLabel: f.Label(),
		Choices:   buildChoices(standards, current),
		CancelURL: f.stepURL("cancel"),
	}
	formutil.SetBase(&data.Base, r, "Select a section", f.ListURL())

	templates.Render(w, r, "wizard_grades", data)
}

// HandleGrades handles POST /wizard/{flow}/grades.
//
// Writing a new selection drops any previously selected students, since they
// belong to the old section. Authored form data survives; it is not tied to
// the roster.
func (h *Handler) HandleGrades(w http.ResponseWriter, r *http.Request) {
	f, ok := flowFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	runID := h.runID(w, r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse grades form", err,
			"The submitted form could not be read.", f.stepURL("grades"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	standards, err := h.Platform.FetchAllStandards(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "fetch standards", err,
			"Could not load grades from the platform. Please try again.", f.ListURL())
		return
	}

	reRender := func(msg string) {
		data := gradesData{
			Flow:      f.Slug(),
			FlowLabel: f.Label(),
			Choices:   buildChoices(standards, models.GradeAndSection{}),
			CancelURL: f.stepURL("cancel"),
		}
		formutil.SetBase(&data.Base, r, "Select a section", f.ListURL())
		data.SetError(msg)
		templates.Render(w, r, "wizard_grades", data)
	}

	standardID, sectionID, ok := splitChoice(r.PostFormValue("choice"))
	if !ok {
		reRender("Choose a grade and section to continue.")
		return
	}

	selection, found := findSelection(standards, standardID, sectionID)
	if !found {
		reRender("That section is no longer available. Choose another.")
		return
	}

	if err := wizardstate.Put(ctx, h.States, runID, f.gradeKey(), selection); err != nil {
		h.ErrLog.LogServerError(w, r, "save grade selection", err,
			"Could not save your selection. Please try again.", f.stepURL("grades"))
		return
	}
	if err := h.States.Remove(ctx, runID, f.studentsKey()); err != nil {
		h.Log.Warn("drop stale student selection", zap.Error(err))
	}

	http.Redirect(w, r, f.stepURL("students"), http.StatusSeeOther)
}

func buildChoices(standards []models.Standard, current models.GradeAndSection) []sectionChoice {
	var choices []sectionChoice
	for _, std := range standards {
		for _, sec := range std.Sections {
			choices = append(choices, sectionChoice{
				StandardID:   std.ID,
				StandardName: std.Name,
				SectionID:    sec.ID,
				SectionName:  sec.Name,
				Selected:     std.ID == current.Standard.ID && sec.ID == current.Section.ID,
			})
		}
	}
	return choices
}

// splitChoice decodes the "standardID:sectionID" radio value.
func splitChoice(v string) (standardID, sectionID string, ok bool) {
	standardID, sectionID, found := strings.Cut(v, ":")
	if !found || standardID == "" || sectionID == "" {
		return "", "", false
	}
	return standardID, sectionID, true
}

func findSelection(standards []models.Standard, standardID, sectionID string) (models.GradeAndSection, bool) {
	for _, std := range standards {
		if std.ID != standardID {
			continue
		}
		for _, sec := range std.Sections {
			if sec.ID == sectionID {
				return models.GradeAndSection{
					StandardName: std.Name,
					SectionName:  sec.Name,
					Standard:     std,
					Section:      sec,
				}, true
			}
		}
	}
	return models.GradeAndSection{}, false
}
