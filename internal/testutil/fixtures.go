package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/schoolyard/examdesk/internal/domain/models"
)

// TestContext returns a context with a generous timeout for test operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// SetupTestDB connects to the MongoDB instance named by EXAMDESK_TEST_MONGO_URI
// and returns a per-test database that is dropped on cleanup. Tests that call
// it are skipped when the variable is unset, so the suite runs without a
// database by default.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("EXAMDESK_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("EXAMDESK_TEST_MONGO_URI not set; skipping MongoDB-backed test")
	}

	ctx, cancel := TestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect to test MongoDB: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Fatalf("ping test MongoDB: %v", err)
	}

	db := client.Database(fmt.Sprintf("examdesk_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// SampleStandards returns a small roster hierarchy for handler tests.
func SampleStandards() []models.Standard {
	return []models.Standard{
		{
			ID:   "std-1",
			Name: "Grade 6",
			Sections: []models.Section{
				{ID: "sec-1a", Name: "A"},
				{ID: "sec-1b", Name: "B"},
			},
		},
		{
			ID:   "std-2",
			Name: "Grade 7",
			Sections: []models.Section{
				{ID: "sec-2a", Name: "A"},
			},
		},
	}
}

// SampleStudents returns n students in the given section.
func SampleStudents(n int) []models.Student {
	students := make([]models.Student, 0, n)
	for i := 1; i <= n; i++ {
		students = append(students, models.Student{
			ID:        fmt.Sprintf("stu-%d", i),
			Email:     fmt.Sprintf("student%d@test.com", i),
			FirstName: fmt.Sprintf("Student%d", i),
			LastName:  "Test",
			IsActive:  true,
		})
	}
	return students
}

// SampleQuestions returns a valid mixed question list.
func SampleQuestions() []models.Question {
	mcq, _ := models.NewMultipleChoice("What is 2+2?", 1, "Remember", []models.Option{
		{OptionText: "3", IsCorrect: false},
		{OptionText: "4", IsCorrect: true},
	})
	short, _ := models.NewOpenEnded(models.QuestionTypeShortAnswer, "Define gravity.", 2, "Understand", "A force of attraction between masses.")
	return []models.Question{mcq, short}
}

// SampleFormData returns complete authored form data.
func SampleFormData() models.WizardFormData {
	return models.WizardFormData{
		Details: models.AssessmentDetails{
			Title:            "Unit 3 Checkpoint",
			Subject:          "Science",
			Topic:            "Forces",
			TimeLimitMinutes: 30,
			Instructions:     "Answer every question.",
			Difficulty:       "medium",
		},
		Description: "Covers lessons 1 through 4.",
		Questions:   SampleQuestions(),
	}
}

// SampleGradeAndSection returns a selection matching SampleStandards.
func SampleGradeAndSection() models.GradeAndSection {
	standards := SampleStandards()
	return models.GradeAndSection{
		StandardName: standards[0].Name,
		SectionName:  standards[0].Sections[0].Name,
		Standard:     standards[0],
		Section:      standards[0].Sections[0],
	}
}
