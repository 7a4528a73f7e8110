package assessments

import (
	"net/http"
	"testing"
	"time"

	"github.com/schoolyard/examdesk/internal/platform"
	"github.com/schoolyard/examdesk/internal/testutil"
)

func TestParsePage(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"page=3", 3},
		{"page=0", 1},
		{"page=-2", 1},
		{"page=abc", 1},
	}
	for _, tc := range cases {
		r := testutil.NewRequest(http.MethodGet, "/exams?"+tc.query)
		if got := parsePage(r); got != tc.want {
			t.Errorf("parsePage(%q) = %d, want %d", tc.query, got, tc.want)
		}
	}
}

func TestSetPagination(t *testing.T) {
	cases := []struct {
		name     string
		p        platform.Pagination
		hasPrev  bool
		hasNext  bool
		prevPage int
		nextPage int
	}{
		{
			name:     "first of many",
			p:        platform.Pagination{CurrentPage: 1, TotalPages: 4, TotalCount: 40},
			hasNext:  true,
			prevPage: 0,
			nextPage: 2,
		},
		{
			name:     "middle",
			p:        platform.Pagination{CurrentPage: 2, TotalPages: 4, TotalCount: 40},
			hasPrev:  true,
			hasNext:  true,
			prevPage: 1,
			nextPage: 3,
		},
		{
			name:     "last",
			p:        platform.Pagination{CurrentPage: 4, TotalPages: 4, TotalCount: 40},
			hasPrev:  true,
			prevPage: 3,
			nextPage: 5,
		},
		{
			name: "single page",
			p:    platform.Pagination{CurrentPage: 1, TotalPages: 1, TotalCount: 3},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d listData
			d.setPagination(tc.p)
			if d.HasPrev != tc.hasPrev || d.HasNext != tc.hasNext {
				t.Errorf("HasPrev/HasNext: got %v/%v, want %v/%v", d.HasPrev, d.HasNext, tc.hasPrev, tc.hasNext)
			}
			if d.PrevPage != tc.prevPage || d.NextPage != tc.nextPage {
				t.Errorf("PrevPage/NextPage: got %d/%d, want %d/%d", d.PrevPage, d.NextPage, tc.prevPage, tc.nextPage)
			}
			if d.Total != tc.p.TotalCount {
				t.Errorf("Total: got %d, want %d", d.Total, tc.p.TotalCount)
			}
		})
	}
}

func TestToListItems(t *testing.T) {
	created := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	rows := []platform.AssessmentSummary{
		{
			ID:            "exam-1",
			Title:         "Unit 3 Checkpoint",
			Subject:       "Science",
			Topic:         "Forces",
			QuestionCount: 12,
			AssignedCount: 28,
			CreatedAt:     created,
		},
	}

	items := toListItems(rows)
	if len(items) != 1 {
		t.Fatalf("items: got %d, want 1", len(items))
	}
	got := items[0]
	if got.ID != "exam-1" || got.Title != "Unit 3 Checkpoint" || got.QuestionCount != 12 || got.AssignedCount != 28 {
		t.Errorf("item fields: %+v", got)
	}
	if got.CreatedAt != "Mar 14, 2026" {
		t.Errorf("CreatedAt formatting: got %q", got.CreatedAt)
	}

	if items := toListItems(nil); len(items) != 0 {
		t.Errorf("nil rows should yield no items, got %d", len(items))
	}
}
