package output

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Sanitize makes name safe for use as a single path segment. Every rune
// outside [A-Za-z0-9_-] becomes '_' after lower-casing and trimming, so the
// result only contains [a-z0-9_-] and Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(name string) string {
	return unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
}

// ImageExt returns the extension of the URL path, ignoring any query string
// or fragment. It may be empty.
func ImageExt(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return path.Ext(p)
}
