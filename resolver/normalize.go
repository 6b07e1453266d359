package resolver

import (
	"regexp"
	"strings"
)

// RewriteRule is one pattern of the URL normalization table.
type RewriteRule struct {
	Pattern *regexp.Regexp
	Replace string
}

// DefaultRewriteRules canonicalizes short-link and embed-style URL shapes
// into the watch form. The table is configuration; replacements must not
// produce strings the table matches again.
func DefaultRewriteRules() []RewriteRule {
	return []RewriteRule{
		{regexp.MustCompile(`youtube\.com/shorts/([0-9A-Za-z_-]{11})`), "youtube.com/watch?v=$1"},
		{regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`), "www.youtube.com/watch?v=$1"},
		{regexp.MustCompile(`m\.youtube\.com`), "www.youtube.com"},
		{regexp.MustCompile(`youtube\.com/embed/([0-9A-Za-z_-]{11})`), "youtube.com/watch?v=$1"},
		{regexp.MustCompile(`youtube\.com/v/([0-9A-Za-z_-]{11})`), "youtube.com/watch?v=$1"},
	}
}

// Normalize rewrites src through the rule table and ensures an https scheme.
// It is a pure string rewrite, performs no network I/O, and is idempotent.
func Normalize(src string, rules []RewriteRule) string {
	s := strings.TrimSpace(src)
	for _, rule := range rules {
		s = rule.Pattern.ReplaceAllString(s, rule.Replace)
	}
	if s != "" && !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	return s
}
