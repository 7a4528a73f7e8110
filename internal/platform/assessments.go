// internal/platform/assessments.go
package platform

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// CreatedExam is the data block of a successful exam create.
type CreatedExam struct {
	ExamID           string `json:"examId"`
	Title            string `json:"title"`
	Subject          string `json:"subject"`
	Topic            string `json:"topic"`
	TimeLimitMinutes int    `json:"timeLimitMinutes"`
	Instructions     string `json:"instructions"`
	QuestionCount    int    `json:"questionCount"`
}

// CreatedQuiz is the data block of a successful quiz create.
type CreatedQuiz struct {
	QuizID           string `json:"quizId"`
	Title            string `json:"title"`
	Subject          string `json:"subject"`
	Topic            string `json:"topic"`
	TimeLimitMinutes int    `json:"timeLimitMinutes"`
	Instructions     string `json:"instructions"`
	QuestionCount    int    `json:"questionCount"`
}

// CreateCustomExam creates an ad-hoc exam. The returned ExamID is the handle
// for the follow-up assign call.
func (c *Client) CreateCustomExam(ctx context.Context, payload CreateExamPayload) (CreatedExam, error) {
	return call[CreatedExam](ctx, c, http.MethodPost, "/custom-exams/create", nil, payload)
}

// CreateCustomQuiz creates an ad-hoc quiz.
func (c *Client) CreateCustomQuiz(ctx context.Context, payload CreateQuizPayload) (CreatedQuiz, error) {
	return call[CreatedQuiz](ctx, c, http.MethodPost, "/custom-quizzes/create", nil, payload)
}

type assignExamRequest struct {
	ExamID        string   `json:"examId"`
	StudentIDs    []string `json:"studentIds"`
	InstitutionID string   `json:"institutionId,omitempty"`
}

type assignQuizRequest struct {
	QuizID        string   `json:"quizId"`
	StudentIDs    []string `json:"studentIds"`
	InstitutionID string   `json:"institutionId,omitempty"`
}

type assignExamData struct {
	AssignedCount int `json:"assignedCount"`
}

type assignQuizData struct {
	AssignedStudentsCount int `json:"assignedStudentsCount"`
}

// AssignCustomExam assigns a created exam to the given students and returns
// the number of students the platform actually assigned. That count is
// authoritative and can differ from len(studentIDs).
func (c *Client) AssignCustomExam(ctx context.Context, examID string, studentIDs []string, institutionID string) (int, error) {
	body := assignExamRequest{ExamID: examID, StudentIDs: studentIDs, InstitutionID: institutionID}
	data, err := call[assignExamData](ctx, c, http.MethodPost, "/custom-exams/assign", nil, body)
	if err != nil {
		return 0, err
	}
	return data.AssignedCount, nil
}

// AssignQuiz assigns a created quiz. Note the endpoint lives under /quizzes,
// not /custom-quizzes; that asymmetry is the platform's, not ours.
func (c *Client) AssignQuiz(ctx context.Context, quizID string, studentIDs []string, institutionID string) (int, error) {
	body := assignQuizRequest{QuizID: quizID, StudentIDs: studentIDs, InstitutionID: institutionID}
	data, err := call[assignQuizData](ctx, c, http.MethodPost, "/quizzes/assign", nil, body)
	if err != nil {
		return 0, err
	}
	return data.AssignedStudentsCount, nil
}

// AssessmentSummary is one row in the custom exam/quiz history listings.
type AssessmentSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Subject       string    `json:"subject"`
	Topic         string    `json:"topic"`
	QuestionCount int       `json:"questionCount"`
	AssignedCount int       `json:"assignedCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ExamsPage is one page of the custom exam history.
type ExamsPage struct {
	Exams      []AssessmentSummary `json:"exams"`
	Pagination Pagination          `json:"pagination"`
}

// QuizzesPage is one page of the custom quiz history.
type QuizzesPage struct {
	Quizzes    []AssessmentSummary `json:"quizzes"`
	Pagination Pagination          `json:"pagination"`
}

// ListCustomExams fetches one page of previously created custom exams.
func (c *Client) ListCustomExams(ctx context.Context, page int) (ExamsPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	return call[ExamsPage](ctx, c, http.MethodGet, "/custom-exams", q, nil)
}

// ListCustomQuizzes fetches one page of previously created custom quizzes.
func (c *Client) ListCustomQuizzes(ctx context.Context, page int) (QuizzesPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	return call[QuizzesPage](ctx, c, http.MethodGet, "/custom-quizzes", q, nil)
}
