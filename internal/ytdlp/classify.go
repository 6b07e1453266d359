package ytdlp

import (
	"fmt"
	"strings"

	"github.com/famomatic/vidgate/resolver"
)

// classify maps a failed yt-dlp run onto the resolver error taxonomy by
// inspecting its stderr. Unrecognized failures wrap ErrExtraction with the
// first stderr line kept for internal logging.
func classify(stderr []byte, err error) error {
	msg := strings.ToLower(string(stderr))
	switch {
	case strings.Contains(msg, "private video"),
		strings.Contains(msg, "video unavailable"),
		strings.Contains(msg, "this video is not available"),
		strings.Contains(msg, "has been terminated"):
		return resolver.ErrUnavailable
	case strings.Contains(msg, "sign in to confirm your age"),
		strings.Contains(msg, "age-restricted"),
		strings.Contains(msg, "age restricted"):
		return resolver.ErrAgeRestricted
	case strings.Contains(msg, "copyright"):
		return resolver.ErrTakedown
	}
	if line := firstLine(stderr); line != "" {
		return fmt.Errorf("%w: %s", resolver.ErrExtraction, line)
	}
	return fmt.Errorf("%w: %v", resolver.ErrExtraction, err)
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
