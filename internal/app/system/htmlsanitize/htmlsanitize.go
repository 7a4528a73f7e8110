// Package htmlsanitize strips unsafe HTML from user-authored content before
// it is echoed back into a page. Exam and quiz instructions may carry basic
// formatting; everything else is removed.
package htmlsanitize

import (
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

func getPolicy() *bluemonday.Policy {
	once.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy
}

// Sanitize removes unsafe HTML, keeping common formatting tags.
func Sanitize(s string) string {
	return getPolicy().Sanitize(s)
}

// SanitizeHTML sanitizes and returns template.HTML ready for rendering.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}
