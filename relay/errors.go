package relay

import "errors"

// ErrUpstreamFetch indicates the upstream media fetch failed or timed out.
// The cause stays in the error chain for internal logging; user-facing
// surfaces emit a generic message.
var ErrUpstreamFetch = errors.New("upstream fetch failed")
