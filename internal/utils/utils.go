package utils

import "regexp"

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// RemoveHTMLTags strips markup from user-supplied names before they are
// interpolated into HTML-mode messages.
func RemoveHTMLTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}
