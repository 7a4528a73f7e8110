package navigation

import (
	"net/http/httptest"
	"testing"
)

func TestSafeBackURL(t *testing.T) {
	opts := ListingBackURL("/exams")

	cases := []struct {
		name   string
		target string
		want   string
	}{
		{"no return", "/wizard/exam/cancel", "/exams"},
		{"valid listing page", "/wizard/exam/cancel?return=%2Fexams%3Fpage%3D3", "/exams?page=3"},
		{"wrong prefix", "/wizard/exam/cancel?return=%2Fquizzes", "/exams"},
		{"absolute URL rejected", "/wizard/exam/cancel?return=https%3A%2F%2Fevil.test%2Fexams", "/exams"},
		{"scheme-relative rejected", "/wizard/exam/cancel?return=%2F%2Fevil.test", "/exams"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", tc.target, nil)
			if got := SafeBackURL(r, opts); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSafeBackURLExcludesWizardPages(t *testing.T) {
	r := httptest.NewRequest("POST", "/x?return=%2Fexams%2Fwizard%2Fexam%2Fconfirm", nil)
	if got := SafeBackURL(r, ListingBackURL("/exams")); got != "/exams" {
		t.Errorf("wizard subpath must fall back to the listing, got %q", got)
	}
}
