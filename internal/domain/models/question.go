// internal/domain/models/question.go
package models

import "fmt"

// Canonical question type identifiers.
//
// QuestionTypeMCQ carries answer options; every other type carries a free-form
// correct answer. The two are mutually exclusive on a single question, and the
// constructors below are the only sanctioned way to build one, so the
// exclusivity is settled at construction time rather than checked at submit.
const (
	QuestionTypeMCQ         = "MCQ"
	QuestionTypeShortAnswer = "Short Answer"
	QuestionTypeLongAnswer  = "Long Answer"
	QuestionTypeTrueFalse   = "True/False"
	QuestionTypeFillBlank   = "Fill in the Blank"
)

// QuestionTypes is the full set of allowed question type identifiers.
var QuestionTypes = []string{
	QuestionTypeMCQ,
	QuestionTypeShortAnswer,
	QuestionTypeLongAnswer,
	QuestionTypeTrueFalse,
	QuestionTypeFillBlank,
}

// IsValidQuestionType reports whether t is a known question type.
func IsValidQuestionType(t string) bool {
	for _, qt := range QuestionTypes {
		if qt == t {
			return true
		}
	}
	return false
}

// Option is a single answer choice on a multiple-choice question.
type Option struct {
	OptionText string `json:"optionText"`
	IsCorrect  bool   `json:"isCorrect"`
}

// Question is one authored exam/quiz question.
//
// Options is populated only when QuestionType is MCQ; CorrectAnswer only for
// every other type. Use NewMultipleChoice / NewOpenEnded to construct.
type Question struct {
	QuestionText  string   `json:"questionText"`
	QuestionType  string   `json:"questionType"`
	Marks         int      `json:"marks"`
	BloomTaxonomy string   `json:"bloomTaxonomy"`
	Options       []Option `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

// IsMCQ reports whether the question is multiple choice.
func (q Question) IsMCQ() bool { return q.QuestionType == QuestionTypeMCQ }

// NewMultipleChoice builds an MCQ question. Exactly one option must be marked
// correct.
func NewMultipleChoice(text string, marks int, bloom string, options []Option) (Question, error) {
	if len(options) < 2 {
		return Question{}, fmt.Errorf("multiple-choice question needs at least 2 options, got %d", len(options))
	}
	correct := 0
	for _, o := range options {
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return Question{}, fmt.Errorf("multiple-choice question needs exactly 1 correct option, got %d", correct)
	}
	return Question{
		QuestionText:  text,
		QuestionType:  QuestionTypeMCQ,
		Marks:         marks,
		BloomTaxonomy: bloom,
		Options:       options,
	}, nil
}

// NewOpenEnded builds a non-MCQ question of the given type with a free-form
// correct answer.
func NewOpenEnded(qType, text string, marks int, bloom, correctAnswer string) (Question, error) {
	if qType == QuestionTypeMCQ {
		return Question{}, fmt.Errorf("use NewMultipleChoice for MCQ questions")
	}
	if !IsValidQuestionType(qType) {
		return Question{}, fmt.Errorf("unknown question type %q", qType)
	}
	return Question{
		QuestionText:  text,
		QuestionType:  qType,
		Marks:         marks,
		BloomTaxonomy: bloom,
		CorrectAnswer: correctAnswer,
	}, nil
}
