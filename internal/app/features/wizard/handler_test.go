package wizard

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/schoolyard/examdesk/internal/app/wizardstate"
	"github.com/schoolyard/examdesk/internal/domain/models"
	"github.com/schoolyard/examdesk/internal/testutil"
)

// wizardRequest builds a request with the {flow} URL param and, when runID is
// set, the signed run cookie, so handlers resolve the run we seeded.
func wizardRequest(t *testing.T, h *Handler, method, target, flowSlug, runID string) *http.Request {
	t.Helper()

	r := testutil.NewRequest(method, target)
	r = testutil.WithChiURLParam(r, "flow", flowSlug)
	if runID != "" {
		encoded, err := h.Cookies.Encode(runCookieName, runID)
		if err != nil {
			t.Fatalf("encode run cookie: %v", err)
		}
		r.AddCookie(&http.Cookie{Name: runCookieName, Value: encoded})
	}
	return r
}

func TestFlowFromRequest(t *testing.T) {
	cases := []struct {
		slug string
		want Flow
		ok   bool
	}{
		{"exam", FlowExam, true},
		{"quiz", FlowQuiz, true},
		{"essay", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		r := testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/wizard/x/grades"), "flow", tc.slug)
		got, ok := flowFromRequest(r)
		if ok != tc.ok || got != tc.want {
			t.Errorf("slug %q: got (%q, %v), want (%q, %v)", tc.slug, got, ok, tc.want, tc.ok)
		}
	}
}

func TestServeStartRedirectsToGrades(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	w := testutil.NewRecorder()
	h.ServeStart(w, wizardRequest(t, h, http.MethodGet, "/wizard/quiz", "quiz", ""))
	w.AssertRedirect(t, "/wizard/quiz/grades")
}

func TestUnknownFlowIs404(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	w := testutil.NewRecorder()
	h.ServeStart(w, wizardRequest(t, h, http.MethodGet, "/wizard/essay", "essay", ""))
	w.AssertStatus(t, http.StatusNotFound)
}

func TestServeStudentsWithoutGradeRedirects(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	w := testutil.NewRecorder()
	h.ServeStudents(w, wizardRequest(t, h, http.MethodGet, "/wizard/exam/students", "exam", "run-1"))
	w.AssertRedirect(t, "/wizard/exam/grades")
}

func TestServeFormWithoutStudentsRedirects(t *testing.T) {
	h := newTestHandler(&fakePlatform{})
	ctx := context.Background()

	if err := wizardstate.Put(ctx, h.States, "run-1", FlowExam.gradeKey(), testutil.SampleGradeAndSection()); err != nil {
		t.Fatalf("seed grade: %v", err)
	}

	w := testutil.NewRecorder()
	h.ServeForm(w, wizardRequest(t, h, http.MethodGet, "/wizard/exam/form", "exam", "run-1"))
	w.AssertRedirect(t, "/wizard/exam/students")
}

func TestServeConfirmWithoutFormRedirects(t *testing.T) {
	h := newTestHandler(&fakePlatform{})
	seedRun(t, h, FlowExam, "run-1", 2)
	if err := h.States.Remove(context.Background(), "run-1", FlowExam.formKey()); err != nil {
		t.Fatalf("remove form: %v", err)
	}

	w := testutil.NewRecorder()
	h.ServeConfirm(w, wizardRequest(t, h, http.MethodGet, "/wizard/exam/confirm", "exam", "run-1"))
	w.AssertRedirect(t, "/wizard/exam/form")
}

func TestServeSuccessWithoutCommitRedirectsToListing(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	w := testutil.NewRecorder()
	h.ServeSuccess(w, wizardRequest(t, h, http.MethodGet, "/wizard/quiz/success", "quiz", "run-1"))
	w.AssertRedirect(t, "/quizzes")
}

func TestHandleCancelClearsRunAndRedirects(t *testing.T) {
	h := newTestHandler(&fakePlatform{})
	ctx := context.Background()
	seedRun(t, h, FlowExam, "run-1", 2)

	w := testutil.NewRecorder()
	h.HandleCancel(w, wizardRequest(t, h, http.MethodPost, "/wizard/exam/cancel", "exam", "run-1"))
	w.AssertRedirect(t, "/exams")

	var grade models.GradeAndSection
	if found, _ := wizardstate.Fetch(ctx, h.States, "run-1", FlowExam.gradeKey(), &grade); found {
		t.Error("grade selection survived cancel")
	}
	var form models.WizardFormData
	if found, _ := wizardstate.Fetch(ctx, h.States, "run-1", FlowExam.formKey(), &form); found {
		t.Error("form data survived cancel")
	}

	// Cancelling again on the now-empty run is fine.
	w = testutil.NewRecorder()
	h.HandleCancel(w, wizardRequest(t, h, http.MethodPost, "/wizard/exam/cancel", "exam", "run-1"))
	w.AssertRedirect(t, "/exams")
}

func TestHandleCancelHonorsBoundedReturn(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	w := testutil.NewRecorder()
	h.HandleCancel(w, wizardRequest(t, h, http.MethodPost,
		"/wizard/exam/cancel?return=%2Fexams%3Fpage%3D2", "exam", "run-1"))
	w.AssertRedirect(t, "/exams?page=2")

	// A return target outside the exam listing falls back.
	w = testutil.NewRecorder()
	h.HandleCancel(w, wizardRequest(t, h, http.MethodPost,
		"/wizard/exam/cancel?return=%2Fquizzes", "exam", "run-1"))
	w.AssertRedirect(t, "/exams")
}

func TestRunIDSurvivesCookieRoundTrip(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	w := testutil.NewRecorder()
	first := h.runID(w, testutil.NewRequest(http.MethodGet, "/wizard/exam/grades"))
	if first == "" {
		t.Fatal("expected a minted run ID")
	}

	res := w.Result()
	if len(res.Cookies()) == 0 {
		t.Fatal("expected the run cookie to be set")
	}

	next := testutil.NewRequest(http.MethodGet, "/wizard/exam/students")
	for _, c := range res.Cookies() {
		next.AddCookie(c)
	}
	second := h.runID(testutil.NewRecorder(), next)
	if second != first {
		t.Errorf("run ID changed across requests: %q then %q", first, second)
	}
}

func TestRunIDRejectsTamperedCookie(t *testing.T) {
	h := newTestHandler(&fakePlatform{})

	r := testutil.NewRequest(http.MethodGet, "/wizard/exam/grades")
	r.AddCookie(&http.Cookie{Name: runCookieName, Value: "forged-value"})

	w := testutil.NewRecorder()
	id := h.runID(w, r)
	if id == "" || id == "forged-value" {
		t.Errorf("tampered cookie must mint a fresh ID, got %q", id)
	}
}

func TestSplitChoice(t *testing.T) {
	cases := []struct {
		in       string
		standard string
		section  string
		ok       bool
	}{
		{"std-1:sec-1a", "std-1", "sec-1a", true},
		{"std-1:", "", "", false},
		{":sec-1a", "", "", false},
		{"no-separator", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		standard, section, ok := splitChoice(tc.in)
		if standard != tc.standard || section != tc.section || ok != tc.ok {
			t.Errorf("splitChoice(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.in, standard, section, ok, tc.standard, tc.section, tc.ok)
		}
	}
}

func TestFindSelectionValidatesAgainstRoster(t *testing.T) {
	standards := testutil.SampleStandards()

	sel, found := findSelection(standards, "std-1", "sec-1b")
	if !found {
		t.Fatal("expected a known section to resolve")
	}
	if sel.StandardName != "Grade 6" || sel.SectionName != "B" {
		t.Errorf("resolved names: %q / %q", sel.StandardName, sel.SectionName)
	}

	if _, found := findSelection(standards, "std-1", "sec-2a"); found {
		t.Error("a section from another standard must not resolve")
	}
	if _, found := findSelection(standards, "std-9", "sec-1a"); found {
		t.Error("an unknown standard must not resolve")
	}
}

func TestBuildChoicesMarksCurrentSelection(t *testing.T) {
	standards := testutil.SampleStandards()
	current := testutil.SampleGradeAndSection()

	choices := buildChoices(standards, current)
	if len(choices) != 3 {
		t.Fatalf("choices: got %d, want one per section", len(choices))
	}

	selected := 0
	for _, c := range choices {
		if c.Selected {
			selected++
			if c.StandardID != current.Standard.ID || c.SectionID != current.Section.ID {
				t.Errorf("wrong choice marked selected: %+v", c)
			}
		}
	}
	if selected != 1 {
		t.Errorf("selected choices: got %d, want 1", selected)
	}
}

func TestResolveStudentsDropsUnknownAndDuplicateIDs(t *testing.T) {
	roster := testutil.SampleStudents(3)

	sel := resolveStudents(roster, []string{"stu-3", "stu-1", "stu-3", "ghost"})
	if len(sel.Students) != 2 {
		t.Fatalf("selection: got %d students, want 2", len(sel.Students))
	}
	if sel.Students[0].ID != "stu-3" || sel.Students[1].ID != "stu-1" {
		t.Errorf("posted order must be preserved: %+v", sel.Students)
	}
}

func TestBuildStudentRowsFilterIsDisplayOnly(t *testing.T) {
	roster := testutil.SampleStudents(3)
	selected := models.SelectedStudents{Students: roster[:2]}

	rows := buildStudentRows(roster, selected, "student3")
	if len(rows) != 1 {
		t.Fatalf("filtered rows: got %d, want 1", len(rows))
	}
	if rows[0].ID != "stu-3" || rows[0].Selected {
		t.Errorf("unexpected filtered row: %+v", rows[0])
	}

	rows = buildStudentRows(roster, selected, "")
	if len(rows) != 3 {
		t.Fatalf("unfiltered rows: got %d", len(rows))
	}
	if !rows[0].Selected || !rows[1].Selected || rows[2].Selected {
		t.Errorf("selection flags wrong: %+v", rows)
	}
}

func TestParseQuestions(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		for _, raw := range []string{"", "  ", "[]"} {
			qs, err := parseQuestions(raw)
			if err != nil || qs != nil {
				t.Errorf("parseQuestions(%q) = (%v, %v), want (nil, nil)", raw, qs, err)
			}
		}
	})

	t.Run("valid mixed list", func(t *testing.T) {
		raw := `[
			{"questionText":"Pick one","questionType":"MCQ","marks":2,"options":[{"optionText":"a","isCorrect":true},{"optionText":"b","isCorrect":false}]},
			{"questionText":"Explain","questionType":"Short Answer","marks":0,"correctAnswer":"because"}
		]`
		qs, err := parseQuestions(raw)
		if err != nil {
			t.Fatalf("parseQuestions failed: %v", err)
		}
		if len(qs) != 2 {
			t.Fatalf("questions: got %d", len(qs))
		}
		if qs[0].QuestionType != models.QuestionTypeMCQ || qs[0].Marks != 2 {
			t.Errorf("first question: %+v", qs[0])
		}
		// Zero or negative marks default to one.
		if qs[1].Marks != 1 {
			t.Errorf("defaulted marks: got %d, want 1", qs[1].Marks)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := parseQuestions(`[{"questionText":`); err == nil {
			t.Error("expected an error for malformed JSON")
		}
	})

	t.Run("invalid question aborts with its position", func(t *testing.T) {
		raw := `[
			{"questionText":"Fine","questionType":"Short Answer","marks":1,"correctAnswer":"x"},
			{"questionText":"Broken","questionType":"MCQ","marks":1,"options":[{"optionText":"a","isCorrect":true},{"optionText":"b","isCorrect":true}]}
		]`
		_, err := parseQuestions(raw)
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(err.Error(), "Question 2") {
			t.Errorf("error should name the failing question, got %q", err.Error())
		}
	})

	t.Run("missing text aborts", func(t *testing.T) {
		_, err := parseQuestions(`[{"questionText":"  ","questionType":"Short Answer","marks":1}]`)
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(err.Error(), "Question 1") {
			t.Errorf("error should name the failing question, got %q", err.Error())
		}
	})
}
