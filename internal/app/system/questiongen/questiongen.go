// Package questiongen drafts exam/quiz questions with an OpenAI-compatible
// model. Generation is an assist for the wizard's form stage: staff review
// and edit whatever comes back, and nothing is sent to the platform until
// they confirm.
package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/schoolyard/examdesk/internal/domain/models"
)

// Request describes what to generate.
type Request struct {
	Subject       string
	Topic         string
	Difficulty    string
	QuestionCount int
	QuestionType  string // one of models.QuestionTypes, or "" for mixed
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
	log   *zap.Logger
}

// New creates a question generator. baseURL may point at any
// OpenAI-compatible endpoint; empty means api.openai.com.
func New(baseURL, apiKey, modelName string, logger *zap.Logger) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
		log:   logger,
	}
}

// generatedQuestion is the raw shape we ask the model to produce.
type generatedQuestion struct {
	QuestionText  string          `json:"questionText"`
	QuestionType  string          `json:"questionType"`
	Marks         int             `json:"marks"`
	BloomTaxonomy string          `json:"bloomTaxonomy"`
	Options       []models.Option `json:"options"`
	CorrectAnswer string          `json:"correctAnswer"`
}

type generatedSet struct {
	Questions []generatedQuestion `json:"questions"`
}

// Generate asks the model for a question set and converts the result into
// validated tagged questions. Questions the model returns malformed (e.g. an
// MCQ without exactly one correct option) are dropped, not repaired.
func (c *Client) Generate(ctx context.Context, req Request) ([]models.Question, error) {
	if req.QuestionCount <= 0 {
		req.QuestionCount = 5
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("question generation API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("question generation returned no choices")
	}

	raw := resp.Choices[0].Message.Content

	var set generatedSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return nil, fmt.Errorf("parse generated questions: %w", err)
	}

	questions := make([]models.Question, 0, len(set.Questions))
	for _, g := range set.Questions {
		q, err := convert(g)
		if err != nil {
			c.log.Warn("dropping malformed generated question",
				zap.String("type", g.QuestionType),
				zap.Error(err))
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no usable questions generated")
	}
	return questions, nil
}

func convert(g generatedQuestion) (models.Question, error) {
	marks := g.Marks
	if marks <= 0 {
		marks = 1
	}
	if g.QuestionType == models.QuestionTypeMCQ {
		return models.NewMultipleChoice(g.QuestionText, marks, g.BloomTaxonomy, g.Options)
	}
	return models.NewOpenEnded(g.QuestionType, g.QuestionText, marks, g.BloomTaxonomy, g.CorrectAnswer)
}

const systemPrompt = `You are an assistant that drafts school assessment questions.
Respond with a single JSON object: {"questions": [...]}. Each question has
"questionText", "questionType", "marks" (integer), "bloomTaxonomy", and either
"options" (array of {"optionText","isCorrect"}, exactly one correct) for type
"MCQ" or "correctAnswer" (string) for every other type. Never include both
options and correctAnswer on the same question.`

func buildUserPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d questions on the subject %q", req.QuestionCount, req.Subject)
	if req.Topic != "" {
		fmt.Fprintf(&b, ", topic %q", req.Topic)
	}
	if req.Difficulty != "" {
		fmt.Fprintf(&b, ", difficulty %s", req.Difficulty)
	}
	if req.QuestionType != "" {
		fmt.Fprintf(&b, ". Use only the question type %q", req.QuestionType)
	} else {
		fmt.Fprintf(&b, ". Mix question types (MCQ, Short Answer, True/False)")
	}
	b.WriteString(".")
	return b.String()
}
