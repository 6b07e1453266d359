package resolver

import "time"

// DefaultAlternativesCap bounds the alternative rendition list.
const DefaultAlternativesCap = 15

// DefaultClientProfiles is the client identity trial order handed to the
// extraction collaborator.
func DefaultClientProfiles() []string { return []string{"ios", "android"} }

// Config holds configuration for the Resolver.
type Config struct {
	// Quality maps quality labels to pixel-height ceilings.
	// Zero value uses DefaultQualityPolicy.
	Quality QualityPolicy

	// Rewrites is the URL normalization table.
	// Zero value uses DefaultRewriteRules.
	Rewrites []RewriteRule

	// ClientProfiles is the ordered list of client identity profiles passed to
	// the extractor. Zero value uses DefaultClientProfiles.
	ClientProfiles []string

	// AlternativesCap bounds the alternative rendition list.
	// Zero value uses DefaultAlternativesCap.
	AlternativesCap int

	// RequestTimeout bounds one Resolve call unless the caller's context
	// already carries a deadline. Zero leaves timing to the extractor.
	RequestTimeout time.Duration

	// Logger receives non-fatal warnings. If nil, warnings are discarded.
	Logger Logger
}
