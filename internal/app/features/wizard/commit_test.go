package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	uierrors "github.com/schoolyard/examdesk/internal/app/features/errors"
	"github.com/schoolyard/examdesk/internal/app/system/auth"
	"github.com/schoolyard/examdesk/internal/app/wizardstate"
	"github.com/schoolyard/examdesk/internal/domain/models"
	"github.com/schoolyard/examdesk/internal/platform"
	"github.com/schoolyard/examdesk/internal/testutil"
)

// fakePlatform implements PlatformAPI with canned data and call counters.
type fakePlatform struct {
	standards []models.Standard
	students  []models.Student

	createErr    error
	assignErr    error
	assignReturn int

	createExamCalls int
	createQuizCalls int
	assignExamCalls int
	assignQuizCalls int

	lastAssignID     string
	lastAssignIDs    []string
	lastInstitution  string
	lastExamPayload  platform.CreateExamPayload
	lastQuizPayload  platform.CreateQuizPayload
}

func (f *fakePlatform) FetchAllStandards(ctx context.Context) ([]models.Standard, error) {
	return f.standards, nil
}

func (f *fakePlatform) FetchAllStudents(ctx context.Context, standardName, sectionName string) ([]models.Student, error) {
	return f.students, nil
}

func (f *fakePlatform) CreateCustomExam(ctx context.Context, payload platform.CreateExamPayload) (platform.CreatedExam, error) {
	f.createExamCalls++
	f.lastExamPayload = payload
	if f.createErr != nil {
		return platform.CreatedExam{}, f.createErr
	}
	return platform.CreatedExam{
		ExamID:        "exam-1",
		Title:         payload.Title,
		Subject:       payload.Subject,
		QuestionCount: len(payload.Questions),
	}, nil
}

func (f *fakePlatform) CreateCustomQuiz(ctx context.Context, payload platform.CreateQuizPayload) (platform.CreatedQuiz, error) {
	f.createQuizCalls++
	f.lastQuizPayload = payload
	if f.createErr != nil {
		return platform.CreatedQuiz{}, f.createErr
	}
	return platform.CreatedQuiz{
		QuizID:        "quiz-1",
		Title:         payload.Title,
		QuestionCount: len(payload.Questions),
	}, nil
}

func (f *fakePlatform) AssignCustomExam(ctx context.Context, examID string, studentIDs []string, institutionID string) (int, error) {
	f.assignExamCalls++
	f.lastAssignID = examID
	f.lastAssignIDs = studentIDs
	f.lastInstitution = institutionID
	if f.assignErr != nil {
		return 0, f.assignErr
	}
	return f.assignReturn, nil
}

func (f *fakePlatform) AssignQuiz(ctx context.Context, quizID string, studentIDs []string, institutionID string) (int, error) {
	f.assignQuizCalls++
	f.lastAssignID = quizID
	f.lastAssignIDs = studentIDs
	f.lastInstitution = institutionID
	if f.assignErr != nil {
		return 0, f.assignErr
	}
	return f.assignReturn, nil
}

var testCookieKey = []byte("0123456789abcdef0123456789abcdef")

func newTestHandler(fake *fakePlatform) *Handler {
	logger := zap.NewNop()
	return NewHandler(
		fake,
		wizardstate.NewMemoryStore(time.Hour),
		nil, // no history store
		nil, // no generator
		securecookie.New(testCookieKey, nil),
		uierrors.NewErrorLogger(logger),
		logger,
	)
}

func seedRun(t *testing.T, h *Handler, f Flow, runID string, studentCount int) {
	t.Helper()
	ctx := context.Background()

	if err := wizardstate.Put(ctx, h.States, runID, f.gradeKey(), testutil.SampleGradeAndSection()); err != nil {
		t.Fatalf("seed grade: %v", err)
	}
	sel := models.SelectedStudents{Students: testutil.SampleStudents(studentCount)}
	if err := wizardstate.Put(ctx, h.States, runID, f.studentsKey(), sel); err != nil {
		t.Fatalf("seed students: %v", err)
	}
	if err := wizardstate.Put(ctx, h.States, runID, f.formKey(), testutil.SampleFormData()); err != nil {
		t.Fatalf("seed form: %v", err)
	}
}

func TestRunCommitCreatesThenAssigns(t *testing.T) {
	fake := &fakePlatform{assignReturn: 2}
	h := newTestHandler(fake)
	ctx := context.Background()

	seedRun(t, h, FlowExam, "run-1", 3)

	user := &auth.SessionUser{ID: "staff-1", Name: "Pat", InstitutionID: "inst-1"}
	state, err := h.runCommit(ctx, FlowExam, "run-1", user)
	if err != nil {
		t.Fatalf("runCommit failed: %v", err)
	}

	if state.Phase != phaseAssigned {
		t.Errorf("phase: got %q, want %q", state.Phase, phaseAssigned)
	}
	if fake.createExamCalls != 1 || fake.assignExamCalls != 1 {
		t.Errorf("calls: create=%d assign=%d, want 1 and 1", fake.createExamCalls, fake.assignExamCalls)
	}
	if fake.lastAssignID != "exam-1" {
		t.Errorf("assign used resource %q, want the created exam-1", fake.lastAssignID)
	}
	if len(fake.lastAssignIDs) != 3 {
		t.Errorf("assigned %d students, want 3", len(fake.lastAssignIDs))
	}
	if fake.lastInstitution != "inst-1" {
		t.Errorf("institution: got %q", fake.lastInstitution)
	}

	// The server-reported count wins even when it differs from the selection.
	if state.AssignedCount != 2 {
		t.Errorf("assigned count: got %d, want the server-reported 2", state.AssignedCount)
	}

	// Draft state is spent; the commit record survives for the success page.
	var scratch models.GradeAndSection
	if found, _ := wizardstate.Fetch(ctx, h.States, "run-1", FlowExam.gradeKey(), &scratch); found {
		t.Error("grade selection must be cleared after a successful commit")
	}
	var cs commitState
	if found, _ := wizardstate.Fetch(ctx, h.States, "run-1", FlowExam.commitKey(), &cs); !found {
		t.Error("commit state must survive a successful commit")
	}
}

func TestRunCommitQuizFlowUsesQuizEndpoints(t *testing.T) {
	fake := &fakePlatform{assignReturn: 1}
	h := newTestHandler(fake)

	seedRun(t, h, FlowQuiz, "run-1", 1)

	state, err := h.runCommit(context.Background(), FlowQuiz, "run-1", nil)
	if err != nil {
		t.Fatalf("runCommit failed: %v", err)
	}
	if state.Phase != phaseAssigned {
		t.Errorf("phase: got %q", state.Phase)
	}
	if fake.createQuizCalls != 1 || fake.assignQuizCalls != 1 {
		t.Errorf("quiz calls: create=%d assign=%d", fake.createQuizCalls, fake.assignQuizCalls)
	}
	if fake.createExamCalls != 0 || fake.assignExamCalls != 0 {
		t.Error("quiz flow must not touch exam endpoints")
	}
	if fake.lastAssignID != "quiz-1" {
		t.Errorf("assign used resource %q", fake.lastAssignID)
	}
}

func TestRunCommitCreateFailureAssignsNothing(t *testing.T) {
	fake := &fakePlatform{createErr: &platform.APIError{StatusCode: 400, Message: "title exists"}}
	h := newTestHandler(fake)
	ctx := context.Background()

	seedRun(t, h, FlowExam, "run-1", 2)

	state, err := h.runCommit(ctx, FlowExam, "run-1", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if state.Phase != phaseCreateFailed {
		t.Errorf("phase: got %q, want %q", state.Phase, phaseCreateFailed)
	}
	if fake.assignExamCalls != 0 {
		t.Error("assign must not run when create fails")
	}

	// Draft state survives a failed commit so the user can retry.
	var scratch models.WizardFormData
	if found, _ := wizardstate.Fetch(ctx, h.States, "run-1", FlowExam.formKey(), &scratch); !found {
		t.Error("form data must survive a failed commit")
	}
}

func TestRunCommitRetryAfterAssignFailureSkipsCreate(t *testing.T) {
	fake := &fakePlatform{
		assignReturn: 2,
		assignErr:    &platform.APIError{StatusCode: 500, Message: "assignment service down"},
	}
	h := newTestHandler(fake)
	ctx := context.Background()

	seedRun(t, h, FlowExam, "run-1", 2)

	state, err := h.runCommit(ctx, FlowExam, "run-1", nil)
	if err == nil {
		t.Fatal("expected the first commit to fail")
	}
	if state.Phase != phaseAssignFailed {
		t.Fatalf("phase after failure: got %q, want %q", state.Phase, phaseAssignFailed)
	}
	if state.Resource.ResourceID != "exam-1" {
		t.Fatalf("created resource must be recorded, got %q", state.Resource.ResourceID)
	}

	// Retry: the exam exists, only the assignment should run again.
	fake.assignErr = nil
	state, err = h.runCommit(ctx, FlowExam, "run-1", nil)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if state.Phase != phaseAssigned {
		t.Errorf("phase after retry: got %q", state.Phase)
	}
	if fake.createExamCalls != 1 {
		t.Errorf("create ran %d times across the retry, want exactly 1", fake.createExamCalls)
	}
	if fake.assignExamCalls != 2 {
		t.Errorf("assign ran %d times, want 2", fake.assignExamCalls)
	}
}

func TestRunCommitAlreadyAssignedIsIdempotent(t *testing.T) {
	fake := &fakePlatform{assignReturn: 3}
	h := newTestHandler(fake)
	ctx := context.Background()

	seedRun(t, h, FlowExam, "run-1", 3)

	if _, err := h.runCommit(ctx, FlowExam, "run-1", nil); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}

	// A stale resubmit after success must not re-create or re-assign.
	state, err := h.runCommit(ctx, FlowExam, "run-1", nil)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if state.Phase != phaseAssigned || state.AssignedCount != 3 {
		t.Errorf("resubmit state: %+v", state)
	}
	if fake.createExamCalls != 1 || fake.assignExamCalls != 1 {
		t.Errorf("resubmit re-ran platform calls: create=%d assign=%d", fake.createExamCalls, fake.assignExamCalls)
	}
}

func TestRunCommitRejectsConcurrentSubmission(t *testing.T) {
	fake := &fakePlatform{assignReturn: 1}
	h := newTestHandler(fake)

	seedRun(t, h, FlowExam, "run-1", 1)

	if !h.locks.TryLock("run-1") {
		t.Fatal("could not take the run lock")
	}
	defer h.locks.Unlock("run-1")

	_, err := h.runCommit(context.Background(), FlowExam, "run-1", nil)
	if !errors.Is(err, errCommitInFlight) {
		t.Fatalf("expected errCommitInFlight, got %v", err)
	}
	if fake.createExamCalls != 0 {
		t.Error("a blocked submission must not reach the platform")
	}
}

func TestRunCommitFlowsDoNotCollide(t *testing.T) {
	fake := &fakePlatform{assignReturn: 1}
	h := newTestHandler(fake)
	ctx := context.Background()

	// Same run holds both an exam draft and a quiz draft.
	seedRun(t, h, FlowExam, "run-1", 1)
	seedRun(t, h, FlowQuiz, "run-1", 2)

	if _, err := h.runCommit(ctx, FlowExam, "run-1", nil); err != nil {
		t.Fatalf("exam commit failed: %v", err)
	}

	// The quiz draft must be untouched by the exam commit.
	var sel models.SelectedStudents
	found, err := wizardstate.Fetch(ctx, h.States, "run-1", FlowQuiz.studentsKey(), &sel)
	if err != nil || !found {
		t.Fatalf("quiz students missing after exam commit (found=%v err=%v)", found, err)
	}
	if len(sel.Students) != 2 {
		t.Errorf("quiz selection: got %d students, want 2", len(sel.Students))
	}
}
