package assignhistorystore

import (
	"testing"
	"time"

	"github.com/schoolyard/examdesk/internal/domain/models"
	"github.com/schoolyard/examdesk/internal/testutil"
)

func TestCreateSetsIDAndCreatedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec, err := s.Create(ctx, models.AssignmentRecord{
		Flow:          "customExam",
		ResourceID:    "exam-1",
		Title:         "Unit 3 Checkpoint",
		SelectedCount: 3,
		AssignedCount: 2,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.ID.IsZero() {
		t.Error("Create must set the inserted ID")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("Create must default CreatedAt")
	}
}

func TestCreateKeepsExplicitCreatedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	stamp := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	rec, err := s.Create(ctx, models.AssignmentRecord{
		Flow:       "customQuiz",
		ResourceID: "quiz-1",
		Title:      "Pop Quiz",
		CreatedAt:  stamp,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !rec.CreatedAt.Equal(stamp) {
		t.Errorf("CreatedAt: got %v, want %v", rec.CreatedAt, stamp)
	}
}

func TestListRecentFiltersByFlowNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	seed := []models.AssignmentRecord{
		{Flow: "customExam", ResourceID: "exam-old", Title: "Old Exam", CreatedAt: base},
		{Flow: "customExam", ResourceID: "exam-new", Title: "New Exam", CreatedAt: base.Add(time.Hour)},
		{Flow: "customQuiz", ResourceID: "quiz-1", Title: "Quiz", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, rec := range seed {
		if _, err := s.Create(ctx, rec); err != nil {
			t.Fatalf("seed Create failed: %v", err)
		}
	}

	got, err := s.ListRecent(ctx, "customExam", 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records: got %d, want 2 (quiz record must be filtered out)", len(got))
	}
	if got[0].ResourceID != "exam-new" || got[1].ResourceID != "exam-old" {
		t.Errorf("order: got %q then %q, want newest first", got[0].ResourceID, got[1].ResourceID)
	}
}

func TestListRecentHonorsLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := models.AssignmentRecord{
			Flow:       "customQuiz",
			ResourceID: "quiz",
			Title:      "Quiz",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := s.Create(ctx, rec); err != nil {
			t.Fatalf("seed Create failed: %v", err)
		}
	}

	got, err := s.ListRecent(ctx, "customQuiz", 3)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("records: got %d, want 3", len(got))
	}
}
