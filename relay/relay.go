// Package relay fetches an upstream byte range and re-emits it with corrected
// headers, so browser clients blocked by cross-origin restrictions can play or
// download the media through this server.
package relay

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DeliveryMode is the two-valued decision on how a relayed body travels.
type DeliveryMode string

const (
	// DeliveryInline means the body was materialized under the inline limit
	// and may travel through text-only payloads via EncodeInline.
	DeliveryInline DeliveryMode = "inline"
	// DeliveryStreamed means the body is at or above the inline limit and is
	// delivered through Response.Stream without being materialized.
	DeliveryStreamed DeliveryMode = "streamed"
)

const (
	// DefaultInlineLimit keeps inline bodies under common payload ceilings of
	// function-style hosting transports.
	DefaultInlineLimit = 1_000_000

	// DefaultTimeout bounds the upstream fetch up to the point the response
	// starts flowing.
	DefaultTimeout = 30 * time.Second

	// DefaultContentType is assumed when upstream omits Content-Type.
	DefaultContentType = "video/mp4"

	// DefaultUserAgent is presented upstream. Some media hosts reject
	// requests without a desktop browser signature.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Config holds configuration for the Relay.
type Config struct {
	// HTTPClient is used for upstream fetches. If nil, a pooled default is
	// built.
	HTTPClient *http.Client

	// UserAgent overrides DefaultUserAgent.
	UserAgent string

	// Timeout bounds the upstream fetch and the inline read. Once a response
	// is handed back in streamed mode, only caller cancellation applies.
	// Zero value uses DefaultTimeout.
	Timeout time.Duration

	// InlineLimit overrides DefaultInlineLimit.
	InlineLimit int

	// Logger receives non-fatal warnings. If nil, warnings are discarded.
	Logger Logger
}

// Request describes one relay invocation.
type Request struct {
	// Target is the upstream location, either literal or as an opaque token
	// produced by EncodeLocation.
	Target string

	// RangeHeader is the inbound Range header copied verbatim.
	// Empty means no range was requested.
	RangeHeader string
}

// Response re-emits the upstream resource.
type Response struct {
	// StatusCode mirrors the upstream status verbatim, 206 included.
	StatusCode int

	ContentType   string
	ContentLength string
	ContentRange  string
	// AcceptRanges is "bytes" whenever upstream answered with Content-Range.
	AcceptRanges string

	Mode DeliveryMode

	// Body holds the materialized bytes when Mode is DeliveryInline.
	Body []byte
	// Stream delivers the body when Mode is DeliveryStreamed.
	// The caller owns closing it.
	Stream io.ReadCloser
}

// EncodedBody is the inline body in a reversible byte-preserving text form
// for transports that cannot carry binary payloads.
func (r *Response) EncodedBody() string { return EncodeInline(r.Body) }

// EncodeInline converts body bytes to a reversible text encoding that cannot
// alter the byte count on the way back.
func EncodeInline(body []byte) string {
	return base64.StdEncoding.EncodeToString(body)
}

// DecodeInline reverses EncodeInline.
func DecodeInline(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// Relay performs stateless request-in/response-out upstream fetches.
type Relay struct {
	config Config
	client *http.Client
	logger Logger
}

// New creates a Relay.
func New(config Config) *Relay {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.InlineLimit <= 0 {
		config.InlineLimit = DefaultInlineLimit
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	client := config.HTTPClient
	if client == nil {
		client = defaultHTTPClient()
	}
	logger := config.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	return &Relay{config: config, client: client, logger: logger}
}

// Do decodes the target, fetches it with the inbound range forwarded
// verbatim, and decides the delivery mode from the response size.
func (r *Relay) Do(ctx context.Context, req Request) (*Response, error) {
	target := DecodeLocation(req.Target)

	// The timeout covers connect, headers and the inline read. Streamed
	// bodies outlive it; abandoning callers cancel via ctx.
	ctx, cancel := context.WithCancel(ctx)
	timer := time.AfterFunc(r.config.Timeout, cancel)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		timer.Stop()
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	httpReq.Header.Set("User-Agent", r.config.UserAgent)
	if req.RangeHeader != "" {
		httpReq.Header.Set("Range", req.RangeHeader)
	}

	upstream, err := r.client.Do(httpReq)
	if err != nil {
		timer.Stop()
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	if upstream.StatusCode >= http.StatusBadRequest {
		r.logger.Warnf("upstream answered status=%d for relayed fetch", upstream.StatusCode)
	}

	resp := &Response{
		StatusCode:    upstream.StatusCode,
		ContentType:   upstream.Header.Get("Content-Type"),
		ContentLength: upstream.Header.Get("Content-Length"),
		ContentRange:  upstream.Header.Get("Content-Range"),
	}
	if resp.ContentType == "" {
		resp.ContentType = DefaultContentType
	}
	if resp.ContentRange != "" {
		resp.AcceptRanges = "bytes"
	}

	buf := make([]byte, r.config.InlineLimit)
	n, err := io.ReadFull(upstream.Body, buf)
	switch err {
	case nil:
		// At least InlineLimit bytes exist; hand the prefix plus the rest
		// back as a stream.
		timer.Stop()
		resp.Mode = DeliveryStreamed
		resp.Stream = &prefixedBody{
			reader: io.MultiReader(bytes.NewReader(buf[:n]), upstream.Body),
			body:   upstream.Body,
			cancel: cancel,
		}
		return resp, nil
	case io.EOF, io.ErrUnexpectedEOF:
		timer.Stop()
		cancel()
		upstream.Body.Close()
		resp.Mode = DeliveryInline
		resp.Body = buf[:n]
		return resp, nil
	default:
		timer.Stop()
		cancel()
		upstream.Body.Close()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
}

// prefixedBody stitches the materialized prefix back onto the live upstream
// body and releases the request context on close.
type prefixedBody struct {
	reader io.Reader
	body   io.Closer
	cancel context.CancelFunc
}

func (p *prefixedBody) Read(b []byte) (int, error) { return p.reader.Read(b) }

func (p *prefixedBody) Close() error {
	p.cancel()
	return p.body.Close()
}

func defaultHTTPClient() *http.Client {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return http.DefaultClient
	}
	t := transport.Clone()
	t.MaxIdleConns = 10
	t.MaxIdleConnsPerHost = 5
	t.IdleConnTimeout = 30 * time.Second
	return &http.Client{Transport: t}
}
