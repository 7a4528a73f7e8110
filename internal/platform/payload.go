// internal/platform/payload.go
package platform

import "github.com/schoolyard/examdesk/internal/domain/models"

// This file maps authored form data onto the platform's create payloads.
//
// The exam and quiz endpoints accept almost the same shape, with one
// long-standing wart: the exam contract spells the Bloom field
// "bloomTaxanomy" while the quiz contract spells it correctly. Both spellings
// are preserved here; fixing the exam side would break the platform.

// ExamQuestion is one question in the exam-create payload.
type ExamQuestion struct {
	QuestionText  string          `json:"questionText"`
	QuestionType  string          `json:"questionType"`
	Marks         int             `json:"marks"`
	BloomTaxanomy string          `json:"bloomTaxanomy"` // sic, exam contract
	Options       []models.Option `json:"options,omitempty"`
	CorrectAnswer string          `json:"correctAnswer,omitempty"`
}

// QuizQuestion is one question in the quiz-create payload.
type QuizQuestion struct {
	QuestionText  string          `json:"questionText"`
	QuestionType  string          `json:"questionType"`
	Marks         int             `json:"marks"`
	BloomTaxonomy string          `json:"bloomTaxonomy"`
	Options       []models.Option `json:"options,omitempty"`
	CorrectAnswer string          `json:"correctAnswer,omitempty"`
}

// CreateExamPayload is the body of POST /custom-exams/create.
type CreateExamPayload struct {
	Title            string         `json:"title"`
	Subject          string         `json:"subject"`
	Topic            string         `json:"topic"`
	Description      string         `json:"description,omitempty"`
	TimeLimitMinutes int            `json:"timeLimitMinutes"`
	Instructions     string         `json:"instructions,omitempty"`
	Difficulty       string         `json:"difficulty,omitempty"`
	Questions        []ExamQuestion `json:"questions"`
}

// CreateQuizPayload is the body of POST /custom-quizzes/create.
type CreateQuizPayload struct {
	Title            string         `json:"title"`
	Subject          string         `json:"subject"`
	Topic            string         `json:"topic"`
	Description      string         `json:"description,omitempty"`
	TimeLimitMinutes int            `json:"timeLimitMinutes"`
	Instructions     string         `json:"instructions,omitempty"`
	Difficulty       string         `json:"difficulty,omitempty"`
	Questions        []QuizQuestion `json:"questions"`
}

// BuildExamPayload transforms authored form data into the exam contract.
// MCQ questions carry options, every other type carries correctAnswer, and
// no question ever carries both.
func BuildExamPayload(form models.WizardFormData) CreateExamPayload {
	p := CreateExamPayload{
		Title:            form.Details.Title,
		Subject:          form.Details.Subject,
		Topic:            form.Details.Topic,
		Description:      form.Description,
		TimeLimitMinutes: form.Details.TimeLimitMinutes,
		Instructions:     form.Details.Instructions,
		Difficulty:       form.Details.Difficulty,
		Questions:        make([]ExamQuestion, 0, len(form.Questions)),
	}
	for _, q := range form.Questions {
		eq := ExamQuestion{
			QuestionText:  q.QuestionText,
			QuestionType:  q.QuestionType,
			Marks:         q.Marks,
			BloomTaxanomy: q.BloomTaxonomy,
		}
		if q.IsMCQ() {
			eq.Options = q.Options
		} else {
			eq.CorrectAnswer = q.CorrectAnswer
		}
		p.Questions = append(p.Questions, eq)
	}
	return p
}

// BuildQuizPayload transforms authored form data into the quiz contract.
func BuildQuizPayload(form models.WizardFormData) CreateQuizPayload {
	p := CreateQuizPayload{
		Title:            form.Details.Title,
		Subject:          form.Details.Subject,
		Topic:            form.Details.Topic,
		Description:      form.Description,
		TimeLimitMinutes: form.Details.TimeLimitMinutes,
		Instructions:     form.Details.Instructions,
		Difficulty:       form.Details.Difficulty,
		Questions:        make([]QuizQuestion, 0, len(form.Questions)),
	}
	for _, q := range form.Questions {
		qq := QuizQuestion{
			QuestionText:  q.QuestionText,
			QuestionType:  q.QuestionType,
			Marks:         q.Marks,
			BloomTaxonomy: q.BloomTaxonomy,
		}
		if q.IsMCQ() {
			qq.Options = q.Options
		} else {
			qq.CorrectAnswer = q.CorrectAnswer
		}
		p.Questions = append(p.Questions, qq)
	}
	return p
}
