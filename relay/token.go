package relay

import (
	"encoding/base64"
	"net/url"
)

// EncodeLocation wraps an upstream location in a URL-safe reversible token so
// it can be handed to a client without exposing the raw location.
func EncodeLocation(raw string) string {
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// DecodeLocation reverses EncodeLocation. Decoding is opportunistic, never a
// hard requirement: when the input is not a token that decodes to an http(s)
// URL, the input itself is returned as the literal target.
func DecodeLocation(input string) string {
	for _, enc := range []*base64.Encoding{base64.URLEncoding, base64.RawURLEncoding} {
		decoded, err := enc.DecodeString(input)
		if err != nil {
			continue
		}
		if target := string(decoded); isHTTPURL(target) {
			return target
		}
	}
	return input
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
