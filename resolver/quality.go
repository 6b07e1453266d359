package resolver

import "strings"

const (
	// SmallestAvailable is the map value that requests the smallest available
	// rendition instead of a numeric ceiling.
	SmallestAvailable = 0

	// DefaultCeiling is the pixel-height bound applied to unrecognized labels.
	DefaultCeiling = 720
)

// QualityPolicy maps quality labels such as "1080p" to pixel-height ceilings.
// Whether a label like "360p" means a numeric bound or SmallestAvailable is a
// deployment decision, not a constant.
type QualityPolicy struct {
	// Ceilings maps lowercase labels to height bounds. A SmallestAvailable
	// value marks the smallest-available sentinel.
	Ceilings map[string]int

	// Default is the bound for labels missing from Ceilings.
	// Zero value uses DefaultCeiling.
	Default int
}

// DefaultQualityPolicy maps the common labels to numeric ceilings.
func DefaultQualityPolicy() QualityPolicy {
	return QualityPolicy{
		Ceilings: map[string]int{
			"360p":  360,
			"480p":  480,
			"720p":  720,
			"1080p": 1080,
			"1440p": 1440,
			"2160p": 2160,
		},
		Default: DefaultCeiling,
	}
}

// Ceiling translates a label into a height bound. smallest is true when the
// label maps to the smallest-available sentinel, in which case height is 0.
func (p QualityPolicy) Ceiling(label string) (height int, smallest bool) {
	h, ok := p.Ceilings[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		d := p.Default
		if d <= 0 {
			d = DefaultCeiling
		}
		return d, false
	}
	if h == SmallestAvailable {
		return 0, true
	}
	return h, false
}
