package htmlsanitize

import (
	"strings"
	"testing"
)

func TestSanitizeStripsScripts(t *testing.T) {
	got := Sanitize(`Read chapter 3.<script>alert("x")</script>`)
	if strings.Contains(got, "<script") || strings.Contains(got, "alert") {
		t.Errorf("script survived: %q", got)
	}
	if !strings.Contains(got, "Read chapter 3.") {
		t.Errorf("text content lost: %q", got)
	}
}

func TestSanitizeKeepsBasicFormatting(t *testing.T) {
	got := Sanitize(`<p>Answer <strong>all</strong> questions.</p><ul><li>One</li></ul>`)
	for _, tag := range []string{"<p>", "<strong>", "<ul>", "<li>"} {
		if !strings.Contains(got, tag) {
			t.Errorf("formatting tag %s was stripped: %q", tag, got)
		}
	}
}

func TestSanitizeDropsEventHandlers(t *testing.T) {
	got := Sanitize(`<p onclick="steal()">Hi</p><a href="javascript:evil()">link</a>`)
	if strings.Contains(got, "onclick") || strings.Contains(got, "javascript:") {
		t.Errorf("unsafe attributes survived: %q", got)
	}
}

func TestSanitizeHTMLReturnsSanitizedMarkup(t *testing.T) {
	got := string(SanitizeHTML(`<em>note</em><script>x</script>`))
	if got != "<em>note</em>" {
		t.Errorf("got %q", got)
	}
}
