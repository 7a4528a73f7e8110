// internal/app/features/wizard/students.go
package wizard

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/schoolyard/examdesk/internal/app/system/formutil"
	"github.com/schoolyard/examdesk/internal/app/system/timeouts"
	"github.com/schoolyard/examdesk/internal/app/wizardstate"
	"github.com/schoolyard/examdesk/internal/domain/models"
)

// ServeStudents handles GET /wizard/{flow}/students. Requires a grade
// selection; without one the caller is sent back to the first step.
func (h *Handler) ServeStudents(w http.ResponseWriter, r *http.Request) {
	f, ok := flowFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	runID := h.runID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var grade models.GradeAndSection
	found, err := wizardstate.Fetch(ctx, h.States, runID, f.gradeKey(), &grade)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "read grade selection", err,
			"Could not load your wizard progress. Please start over.", f.stepURL("grades"))
		return
	}
	if !found {
		http.Redirect(w, r, f.stepURL("grades"), http.StatusSeeOther)
		return
	}

	roster, err := h.Platform.FetchAllStudents(ctx, grade.StandardName, grade.SectionName)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "fetch students", err,
			"Could not load the student roster. Please try again.", f.stepURL("grades"))
		return
	}

	var selected models.SelectedStudents
	if _, err := wizardstate.Fetch(ctx, h.States, runID, f.studentsKey(), &selected); err != nil {
		h.ErrLog.LogServerError(w, r, "read student selection", err,
			"Could not load your wizard progress. Please start over.", f.stepURL("grades"))
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))

	data := studentsData{
		Flow:         f.Slug(),
		FlowLabel:    f.Label(),
		StandardName: grade.StandardName,
		SectionName:  grade.SectionName,
		Query:        query,
		Students:     buildStudentRows(roster, selected, query),
		SelectedIDs:  len(selected.Students),
		CancelURL:    f.stepURL("cancel"),
	}
	formutil.SetBase(&data.Base, r, "Select students", f.stepURL("grades"))

	templates.Render(w, r, "wizard_students", data)
}

// HandleStudents handles POST /wizard/{flow}/students. The posted IDs are
// resolved against a fresh roster fetch; IDs no longer on the roster are
// silently dropped rather than stored blind.
func (h *Handler) HandleStudents(w http.ResponseWriter, r *http.Request) {
	f, ok := flowFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	runID := h.runID(w, r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse students form", err,
			"The submitted form could not be read.", f.stepURL("students"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var grade models.GradeAndSection
	found, err := wizardstate.Fetch(ctx, h.States, runID, f.gradeKey(), &grade)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "read grade selection", err,
			"Could not load your wizard progress. Please start over.", f.stepURL("grades"))
		return
	}
	if !found {
		http.Redirect(w, r, f.stepURL("grades"), http.StatusSeeOther)
		return
	}

	roster, err := h.Platform.FetchAllStudents(ctx, grade.StandardName, grade.SectionName)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "fetch students", err,
			"Could not load the student roster. Please try again.", f.stepURL("students"))
		return
	}

	reRender := func(msg string) {
		data := studentsData{
			Flow:         f.Slug(),
			FlowLabel:    f.Label(),
			StandardName: grade.StandardName,
			SectionName:  grade.SectionName,
			Students:     buildStudentRows(roster, models.SelectedStudents{}, ""),
			CancelURL:    f.stepURL("cancel"),
		}
		formutil.SetBase(&data.Base, r, "Select students", f.stepURL("grades"))
		data.SetError(msg)
		templates.Render(w, r, "wizard_students", data)
	}

	posted := r.PostForm["students"]
	if r.PostFormValue("select_all") != "" {
		posted = nil
		for _, st := range roster {
			posted = append(posted, st.ID)
		}
	}

	selection := resolveStudents(roster, posted)
	if len(selection.Students) == 0 {
		reRender("Select at least one student to continue.")
		return
	}

	if err := wizardstate.Put(ctx, h.States, runID, f.studentsKey(), selection); err != nil {
		h.ErrLog.LogServerError(w, r, "save student selection", err,
			"Could not save your selection. Please try again.", f.stepURL("students"))
		return
	}

	http.Redirect(w, r, f.stepURL("form"), http.StatusSeeOther)
}

// buildStudentRows merges the roster with the saved selection and applies the
// local search filter. Filtering is display-only: selected students outside
// the filter stay selected.
func buildStudentRows(roster []models.Student, selected models.SelectedStudents, query string) []studentRow {
	chosen := make(map[string]struct{}, len(selected.Students))
	for _, st := range selected.Students {
		chosen[st.ID] = struct{}{}
	}

	q := strings.ToLower(query)
	rows := make([]studentRow, 0, len(roster))
	for _, st := range roster {
		name := st.FullName()
		if q != "" &&
			!strings.Contains(strings.ToLower(name), q) &&
			!strings.Contains(strings.ToLower(st.Email), q) {
			continue
		}
		_, sel := chosen[st.ID]
		rows = append(rows, studentRow{
			ID:       st.ID,
			Name:     name,
			Email:    st.Email,
			Selected: sel,
		})
	}
	return rows
}

// resolveStudents maps posted IDs onto roster entries, preserving the posted
// order and dropping unknown IDs.
func resolveStudents(roster []models.Student, ids []string) models.SelectedStudents {
	byID := make(map[string]models.Student, len(roster))
	for _, st := range roster {
		byID[st.ID] = st
	}

	var out models.SelectedStudents
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if st, ok := byID[id]; ok {
			out.Students = append(out.Students, st)
		}
	}
	return out
}
