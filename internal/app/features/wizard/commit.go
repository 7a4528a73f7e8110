// internal/app/features/wizard/commit.go
package wizard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/schoolyard/examdesk/internal/app/system/auth"
	"github.com/schoolyard/examdesk/internal/app/wizardstate"
	"github.com/schoolyard/examdesk/internal/domain/models"
	"github.com/schoolyard/examdesk/internal/platform"
)

// commitPhase tracks where a confirm submission is in its two-phase commit.
// The phase is persisted in the run state before and after every platform
// call, so a retry after a crash or an assign failure can pick up where the
// run stopped instead of creating the resource twice.
type commitPhase string

const (
	phaseCreating     commitPhase = "CREATING"
	phaseCreated      commitPhase = "CREATED"
	phaseAssigning    commitPhase = "ASSIGNING"
	phaseAssigned     commitPhase = "ASSIGNED"
	phaseCreateFailed commitPhase = "CREATE_FAILED"
	phaseAssignFailed commitPhase = "ASSIGN_FAILED"
)

// commitState is the persisted record of a confirm submission.
type commitState struct {
	Phase         commitPhase            `json:"phase"`
	Resource      models.CreatedResource `json:"resource,omitempty"`
	AssignedCount int                    `json:"assignedCount,omitempty"`
	LastError     string                 `json:"lastError,omitempty"`
}

// errCommitInFlight reports a confirm submission that raced an ongoing one.
var errCommitInFlight = fmt.Errorf("a submission for this wizard is already in progress")

// runCommit executes create-then-assign for one wizard run.
//
// Only one commit per run may execute at a time; a concurrent call fails with
// errCommitInFlight rather than waiting. If a previous attempt created the
// resource but failed to assign, the persisted resource ID is reused and only
// the assign phase runs again. A run that already assigned returns its result
// unchanged, so a stale resubmit cannot assign twice.
func (h *Handler) runCommit(ctx context.Context, f Flow, runID string, user *auth.SessionUser) (commitState, error) {
	if !h.locks.TryLock(runID) {
		return commitState{}, errCommitInFlight
	}
	defer h.locks.Unlock(runID)

	var state commitState
	if _, err := wizardstate.Fetch(ctx, h.States, runID, f.commitKey(), &state); err != nil {
		return state, fmt.Errorf("load commit state: %w", err)
	}
	if state.Phase == phaseAssigned {
		return state, nil
	}

	var grade models.GradeAndSection
	if found, err := wizardstate.Fetch(ctx, h.States, runID, f.gradeKey(), &grade); err != nil || !found {
		return state, fmt.Errorf("grade selection missing")
	}
	var students models.SelectedStudents
	if found, err := wizardstate.Fetch(ctx, h.States, runID, f.studentsKey(), &students); err != nil || !found || len(students.Students) == 0 {
		return state, fmt.Errorf("student selection missing")
	}
	var form models.WizardFormData
	if found, err := wizardstate.Fetch(ctx, h.States, runID, f.formKey(), &form); err != nil || !found {
		return state, fmt.Errorf("form data missing")
	}

	// Phase 1: create, unless a previous attempt already did.
	if state.Resource.ResourceID == "" {
		state.Phase = phaseCreating
		if err := h.saveCommit(ctx, f, runID, state); err != nil {
			return state, err
		}

		resource, err := h.createResource(ctx, f, form)
		if err != nil {
			state.Phase = phaseCreateFailed
			state.LastError = err.Error()
			h.saveCommitBestEffort(ctx, f, runID, state)
			return state, fmt.Errorf("create %s: %w", f.Label(), err)
		}

		state.Phase = phaseCreated
		state.Resource = resource
		state.LastError = ""
		if err := h.saveCommit(ctx, f, runID, state); err != nil {
			return state, err
		}
	} else {
		h.Log.Info("retrying assignment with existing resource",
			zap.String("flow", string(f)),
			zap.String("resourceID", state.Resource.ResourceID))
	}

	// Phase 2: assign.
	state.Phase = phaseAssigning
	if err := h.saveCommit(ctx, f, runID, state); err != nil {
		return state, err
	}

	institutionID := ""
	if user != nil {
		institutionID = user.InstitutionID
	}
	assigned, err := h.assignResource(ctx, f, state.Resource.ResourceID, students.IDs(), institutionID)
	if err != nil {
		state.Phase = phaseAssignFailed
		state.LastError = err.Error()
		h.saveCommitBestEffort(ctx, f, runID, state)
		return state, fmt.Errorf("assign %s: %w", f.Label(), err)
	}

	state.Phase = phaseAssigned
	state.AssignedCount = assigned
	state.LastError = ""
	if err := h.saveCommit(ctx, f, runID, state); err != nil {
		return state, err
	}

	h.recordHistory(ctx, f, state, grade, students, user)

	// The draft is spent; only the commit state survives for the success page.
	for _, key := range []string{f.gradeKey(), f.studentsKey(), f.formKey()} {
		if err := h.States.Remove(ctx, runID, key); err != nil {
			h.Log.Warn("clear wizard state after commit", zap.String("key", key), zap.Error(err))
		}
	}

	return state, nil
}

func (h *Handler) createResource(ctx context.Context, f Flow, form models.WizardFormData) (models.CreatedResource, error) {
	if f == FlowQuiz {
		created, err := h.Platform.CreateCustomQuiz(ctx, platform.BuildQuizPayload(form))
		if err != nil {
			return models.CreatedResource{}, err
		}
		return models.CreatedResource{
			ResourceID:       created.QuizID,
			Title:            created.Title,
			Subject:          created.Subject,
			Topic:            created.Topic,
			TimeLimitMinutes: created.TimeLimitMinutes,
			Instructions:     created.Instructions,
			QuestionCount:    created.QuestionCount,
		}, nil
	}

	created, err := h.Platform.CreateCustomExam(ctx, platform.BuildExamPayload(form))
	if err != nil {
		return models.CreatedResource{}, err
	}
	return models.CreatedResource{
		ResourceID:       created.ExamID,
		Title:            created.Title,
		Subject:          created.Subject,
		Topic:            created.Topic,
		TimeLimitMinutes: created.TimeLimitMinutes,
		Instructions:     created.Instructions,
		QuestionCount:    created.QuestionCount,
	}, nil
}

func (h *Handler) assignResource(ctx context.Context, f Flow, resourceID string, studentIDs []string, institutionID string) (int, error) {
	if f == FlowQuiz {
		return h.Platform.AssignQuiz(ctx, resourceID, studentIDs, institutionID)
	}
	return h.Platform.AssignCustomExam(ctx, resourceID, studentIDs, institutionID)
}

func (h *Handler) saveCommit(ctx context.Context, f Flow, runID string, state commitState) error {
	if err := wizardstate.Put(ctx, h.States, runID, f.commitKey(), state); err != nil {
		return fmt.Errorf("persist commit state: %w", err)
	}
	return nil
}

// saveCommitBestEffort persists a failure phase. The platform error is the
// one the caller cares about, so a save failure here only logs.
func (h *Handler) saveCommitBestEffort(ctx context.Context, f Flow, runID string, state commitState) {
	if err := wizardstate.Put(ctx, h.States, runID, f.commitKey(), state); err != nil {
		h.Log.Error("persist commit state", zap.String("phase", string(state.Phase)), zap.Error(err))
	}
}

// recordHistory writes the dashboard's audit record. Best-effort: the
// assignment already happened on the platform, so a history failure only logs.
func (h *Handler) recordHistory(ctx context.Context, f Flow, state commitState, grade models.GradeAndSection, students models.SelectedStudents, user *auth.SessionUser) {
	if h.History == nil {
		return
	}

	rec := models.AssignmentRecord{
		Flow:          string(f),
		ResourceID:    state.Resource.ResourceID,
		Title:         state.Resource.Title,
		Subject:       state.Resource.Subject,
		StandardName:  grade.StandardName,
		SectionName:   grade.SectionName,
		SelectedCount: len(students.Students),
		AssignedCount: state.AssignedCount,
	}
	if user != nil {
		rec.AssignedByID = user.ID
		rec.AssignedByName = user.Name
	}

	if _, err := h.History.Create(ctx, rec); err != nil {
		h.Log.Warn("write assignment history", zap.Error(err))
	}
}
