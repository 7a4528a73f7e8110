// internal/platform/roster.go
package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/schoolyard/examdesk/internal/domain/models"
)

// StandardsPage is one page of the institution's standards listing.
type StandardsPage struct {
	Standards  []models.Standard `json:"standards"`
	Pagination Pagination        `json:"pagination"`
}

// StudentsPage is one page of a filtered student listing.
type StudentsPage struct {
	Students   []models.Student `json:"students"`
	Pagination Pagination       `json:"pagination"`
}

// ListStandards fetches one page of standards.
func (c *Client) ListStandards(ctx context.Context, page int) (StandardsPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	return call[StandardsPage](ctx, c, http.MethodGet, "/standards", q, nil)
}

// FetchAllStandards walks the standards listing page by page until the
// platform reports the last page (currentPage >= totalPages).
func (c *Client) FetchAllStandards(ctx context.Context) ([]models.Standard, error) {
	var all []models.Standard
	for page := 1; ; page++ {
		res, err := c.ListStandards(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetch standards page %d: %w", page, err)
		}
		all = append(all, res.Standards...)
		if res.Pagination.CurrentPage >= res.Pagination.TotalPages {
			return all, nil
		}
	}
}

// ListStudents fetches one page of students, filtered by standard and
// section display names (the platform filters on names, not IDs).
func (c *Client) ListStudents(ctx context.Context, page int, standardName, sectionName string) (StudentsPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("standardName", standardName)
	q.Set("sectionName", sectionName)
	return call[StudentsPage](ctx, c, http.MethodGet, "/students", q, nil)
}

// FetchAllStudents walks the filtered student listing to completion.
func (c *Client) FetchAllStudents(ctx context.Context, standardName, sectionName string) ([]models.Student, error) {
	var all []models.Student
	for page := 1; ; page++ {
		res, err := c.ListStudents(ctx, page, standardName, sectionName)
		if err != nil {
			return nil, fmt.Errorf("fetch students page %d: %w", page, err)
		}
		all = append(all, res.Students...)
		if res.Pagination.CurrentPage >= res.Pagination.TotalPages {
			return all, nil
		}
	}
}
