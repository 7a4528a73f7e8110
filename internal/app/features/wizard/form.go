// internal/app/features/wizard/form.go
package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/schoolyard/examdesk/internal/app/system/formutil"
	"github.com/schoolyard/examdesk/internal/app/system/htmlsanitize"
	"github.com/schoolyard/examdesk/internal/app/system/inputval"
	"github.com/schoolyard/examdesk/internal/app/system/timeouts"
	"github.com/schoolyard/examdesk/internal/app/wizardstate"
	"github.com/schoolyard/examdesk/internal/domain/models"
)

// detailsInput is the scalar half of the authoring form.
type detailsInput struct {
	Title        string `validate:"required,max=200" label:"Title"`
	Subject      string `validate:"required,max=100" label:"Subject"`
	Topic        string `validate:"max=200" label:"Topic"`
	TimeLimit    int    `validate:"min=1,max=600" label:"Time limit"`
	Instructions string `validate:"max=5000" label:"Instructions"`
	Description  string `validate:"max=5000" label:"Description"`
	Difficulty   string `validate:"omitempty,oneof=easy medium hard" label:"Difficulty"`
}

// ServeForm handles GET /wizard/{flow}/form: the authoring step. Requires
// both a grade selection and a student selection.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	f, ok := flowFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	runID := h.runID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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
	if form.Details.TimeLimitMinutes == 0 {
		form.Details.TimeLimitMinutes = 30
	}

	h.renderForm(w, r, f, grade, students, form, "")
}

// HandleForm handles POST /wizard/{flow}/form. Question rows arrive as a JSON
// document in a hidden field maintained by the page script; each entry is
// rebuilt through the question constructors so invalid combinations are
// rejected before anything is stored.
func (h *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	f, ok := flowFromRequest(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	runID := h.runID(w, r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse authoring form", err,
			"The submitted form could not be read.", f.stepURL("form"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	grade, students, redirected := h.requirePriorSteps(ctx, w, r, f, runID)
	if redirected {
		return
	}

	timeLimit, _ := strconv.Atoi(r.PostFormValue("time_limit"))
	input := detailsInput{
		Title:        strings.TrimSpace(r.PostFormValue("title")),
		Subject:      strings.TrimSpace(r.PostFormValue("subject")),
		Topic:        strings.TrimSpace(r.PostFormValue("topic")),
		TimeLimit:    timeLimit,
		Instructions: strings.TrimSpace(r.PostFormValue("instructions")),
		Description:  strings.TrimSpace(r.PostFormValue("description")),
		Difficulty:   strings.TrimSpace(r.PostFormValue("difficulty")),
	}

	questions, qErr := parseQuestions(r.PostFormValue("questions_json"))

	form := models.WizardFormData{
		Details: models.AssessmentDetails{
			Title:            input.Title,
			Subject:          input.Subject,
			Topic:            input.Topic,
			TimeLimitMinutes: input.TimeLimit,
			Instructions:     htmlsanitize.Sanitize(input.Instructions),
			Difficulty:       input.Difficulty,
		},
		Description: htmlsanitize.Sanitize(input.Description),
		Questions:   questions,
	}

	if result := inputval.Validate(input); result.HasErrors() {
		h.renderForm(w, r, f, grade, students, form, result.First())
		return
	}
	if qErr != nil {
		h.renderForm(w, r, f, grade, students, form, qErr.Error())
		return
	}
	if len(questions) == 0 {
		h.renderForm(w, r, f, grade, students, form, "Add at least one question to continue.")
		return
	}

	if err := wizardstate.Put(ctx, h.States, runID, f.formKey(), form); err != nil {
		h.ErrLog.LogServerError(w, r, "save form data", err,
			"Could not save your work. Please try again.", f.stepURL("form"))
		return
	}

	http.Redirect(w, r, f.stepURL("confirm"), http.StatusSeeOther)
}

// requirePriorSteps loads the grade and student selections, redirecting to the
// earliest missing step. The returned bool reports whether a redirect (or an
// error page) was already written.
func (h *Handler) requirePriorSteps(ctx context.Context, w http.ResponseWriter, r *http.Request, f Flow, runID string) (models.GradeAndSection, models.SelectedStudents, bool) {
	var grade models.GradeAndSection
	found, err := wizardstate.Fetch(ctx, h.States, runID, f.gradeKey(), &grade)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "read grade selection", err,
			"Could not load your wizard progress. Please start over.", f.stepURL("grades"))
		return grade, models.SelectedStudents{}, true
	}
	if !found {
		http.Redirect(w, r, f.stepURL("grades"), http.StatusSeeOther)
		return grade, models.SelectedStudents{}, true
	}

	var students models.SelectedStudents
	found, err = wizardstate.Fetch(ctx, h.States, runID, f.studentsKey(), &students)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "read student selection", err,
			"Could not load your wizard progress. Please start over.", f.stepURL("grades"))
		return grade, students, true
	}
	if !found || len(students.Students) == 0 {
		http.Redirect(w, r, f.stepURL("students"), http.StatusSeeOther)
		return grade, students, true
	}

	return grade, students, false
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, f Flow, grade models.GradeAndSection, students models.SelectedStudents, form models.WizardFormData, errMsg string) {
	qjson, err := json.Marshal(form.Questions)
	if err != nil {
		qjson = []byte("[]")
	}

	data := formPageData{
		Flow:          f.Slug(),
		FlowLabel:     f.Label(),
		StandardName:  grade.StandardName,
		SectionName:   grade.SectionName,
		StudentCount:  len(students.Students),
		Details:       form.Details,
		Description:   form.Description,
		Questions:     form.Questions,
		QuestionsJSON: string(qjson),
		QuestionTypes: models.QuestionTypes,
		CanGenerate:   h.Gen != nil,
		CancelURL:     f.stepURL("cancel"),
	}
	formutil.SetBase(&data.Base, r, "Compose the "+f.Label(), f.stepURL("students"))
	if errMsg != "" {
		data.SetError(errMsg)
	}

	templates.Render(w, r, "wizard_form", data)
}

// rawQuestion is the wire shape of one row in the questions_json field.
type rawQuestion struct {
	QuestionText  string          `json:"questionText"`
	QuestionType  string          `json:"questionType"`
	Marks         int             `json:"marks"`
	BloomTaxonomy string          `json:"bloomTaxonomy"`
	Options       []models.Option `json:"options"`
	CorrectAnswer string          `json:"correctAnswer"`
}

// parseQuestions decodes and validates the submitted question list. The first
// invalid question aborts the parse; unlike generated drafts, hand-authored
// rows are not silently dropped.
func parseQuestions(raw string) ([]models.Question, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil, nil
	}

	var rows []rawQuestion
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("The question list could not be read. Remove and re-add the last question.")
	}

	questions := make([]models.Question, 0, len(rows))
	for i, row := range rows {
		text := strings.TrimSpace(row.QuestionText)
		if text == "" {
			return nil, fmt.Errorf("Question %d has no text.", i+1)
		}
		marks := row.Marks
		if marks <= 0 {
			marks = 1
		}

		var (
			q   models.Question
			err error
		)
		if row.QuestionType == models.QuestionTypeMCQ {
			q, err = models.NewMultipleChoice(text, marks, row.BloomTaxonomy, row.Options)
		} else {
			q, err = models.NewOpenEnded(row.QuestionType, text, marks, row.BloomTaxonomy, strings.TrimSpace(row.CorrectAnswer))
		}
		if err != nil {
			return nil, fmt.Errorf("Question %d: %v.", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
