// internal/domain/models/wizard.go
package models

// The types in this file are the wizard's hand-off state: each one is written
// by exactly one wizard step, serialized into the per-run state store, and
// read by later steps. They live for a single wizard run and are cleared on
// success or cancel.

// GradeAndSection is the snapshot written by the section-selection step.
// It carries both the display names (used for student filtering and review)
// and the full selected objects.
type GradeAndSection struct {
	StandardName string   `json:"standardName"`
	SectionName  string   `json:"sectionName"`
	Standard     Standard `json:"standard"`
	Section      Section  `json:"section"`
}

// AssessmentDetails holds the scalar fields of an exam/quiz under authoring.
type AssessmentDetails struct {
	Title            string `json:"title"`
	Subject          string `json:"subject"`
	Topic            string `json:"topic"`
	TimeLimitMinutes int    `json:"timeLimitMinutes"`
	Instructions     string `json:"instructions"`
	Difficulty       string `json:"difficulty,omitempty"`
}

// WizardFormData is the complete output of the form stage: details plus the
// authored question list. The same shape serves both exam and quiz flows; the
// flow kind decides which create endpoint and payload shape it is mapped to.
type WizardFormData struct {
	Details     AssessmentDetails `json:"details"`
	Description string            `json:"description"`
	Questions   []Question        `json:"questions"`
}

// SelectedStudents is the ordered selection produced by the student step.
// It is immutable once written; the confirmation stage assigns to exactly
// these IDs even if the live roster has changed since.
type SelectedStudents struct {
	Students []Student `json:"students"`
}

// IDs returns the student IDs in selection order.
func (s SelectedStudents) IDs() []string {
	ids := make([]string, 0, len(s.Students))
	for _, st := range s.Students {
		ids = append(ids, st.ID)
	}
	return ids
}

// CreatedResource describes the exam/quiz returned by a successful create
// call. It exists only between the create and assign phases of a confirm, and
// is persisted in the commit state so a failed assignment can be retried
// without re-creating.
type CreatedResource struct {
	ResourceID       string `json:"resourceId"`
	Title            string `json:"title"`
	Subject          string `json:"subject"`
	Topic            string `json:"topic"`
	TimeLimitMinutes int    `json:"timeLimitMinutes"`
	Instructions     string `json:"instructions"`
	QuestionCount    int    `json:"questionCount"`
}
