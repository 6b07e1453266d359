package relay

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDo_InlineSmallBody(t *testing.T) {
	body := []byte("tiny payload")
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/webm")
		w.Write(body)
	}))
	defer upstream.Close()

	resp, err := New(Config{}).Do(context.Background(), Request{Target: upstream.URL})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Mode != DeliveryInline {
		t.Fatalf("mode = %q, want inline", resp.Mode)
	}
	if !bytes.Equal(resp.Body, body) {
		t.Fatalf("body = %q, want %q", resp.Body, body)
	}
	if resp.ContentType != "video/webm" {
		t.Fatalf("content type = %q, want video/webm", resp.ContentType)
	}
}

func TestDo_DefaultContentType(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Suppress the automatic content type so the header is absent.
		w.Header()["Content-Type"] = nil
		w.Write([]byte("data"))
	}))
	defer upstream.Close()

	resp, err := New(Config{}).Do(context.Background(), Request{Target: upstream.URL})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.ContentType != DefaultContentType {
		t.Fatalf("content type = %q, want %q", resp.ContentType, DefaultContentType)
	}
}

func TestDo_RangeForwardedAndPartialContentPreserved(t *testing.T) {
	var gotRange string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Range", "bytes 0-99/500")
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusPartialContent)
		w.Write(bytes.Repeat([]byte("x"), 100))
	}))
	defer upstream.Close()

	resp, err := New(Config{}).Do(context.Background(), Request{
		Target:      upstream.URL,
		RangeHeader: "bytes=0-99",
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if gotRange != "bytes=0-99" {
		t.Fatalf("upstream saw Range %q, want %q", gotRange, "bytes=0-99")
	}
	if resp.StatusCode != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206", resp.StatusCode)
	}
	if resp.ContentRange != "bytes 0-99/500" {
		t.Fatalf("Content-Range = %q, want preserved verbatim", resp.ContentRange)
	}
	if resp.AcceptRanges != "bytes" {
		t.Fatalf("AcceptRanges = %q, want bytes", resp.AcceptRanges)
	}
	if resp.ContentLength != "100" {
		t.Fatalf("ContentLength = %q, want 100", resp.ContentLength)
	}
}

func TestDo_NoRangeHeaderWhenAbsent(t *testing.T) {
	var sawRange bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawRange = r.Header["Range"]
		w.Write([]byte("ok"))
	}))
	defer upstream.Close()

	resp, err := New(Config{}).Do(context.Background(), Request{Target: upstream.URL})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if sawRange {
		t.Fatal("Range header forwarded despite absent inbound range")
	}
	if resp.AcceptRanges != "" {
		t.Fatalf("AcceptRanges = %q, want empty without Content-Range", resp.AcceptRanges)
	}
}

func TestDo_DeliveryModeBoundary(t *testing.T) {
	cases := []struct {
		name string
		size int
		want DeliveryMode
	}{
		{"one under the limit", DefaultInlineLimit - 1, DeliveryInline},
		{"exactly the limit", DefaultInlineLimit, DeliveryStreamed},
		{"over the limit", DefaultInlineLimit + 1, DeliveryStreamed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := bytes.Repeat([]byte("a"), tc.size)
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write(body)
			}))
			defer upstream.Close()

			resp, err := New(Config{}).Do(context.Background(), Request{Target: upstream.URL})
			if err != nil {
				t.Fatalf("Do() error = %v", err)
			}
			if resp.Mode != tc.want {
				t.Fatalf("mode = %q, want %q for %d bytes", resp.Mode, tc.want, tc.size)
			}

			switch resp.Mode {
			case DeliveryInline:
				if len(resp.Body) != tc.size {
					t.Fatalf("inline body = %d bytes, want %d", len(resp.Body), tc.size)
				}
			case DeliveryStreamed:
				defer resp.Stream.Close()
				streamed, err := io.ReadAll(resp.Stream)
				if err != nil {
					t.Fatalf("reading stream: %v", err)
				}
				if len(streamed) != tc.size {
					t.Fatalf("streamed body = %d bytes, want %d", len(streamed), tc.size)
				}
				if !bytes.Equal(streamed, body) {
					t.Fatal("streamed body differs from upstream body")
				}
			}
		})
	}
}

func TestDo_TokenTarget(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("via token"))
	}))
	defer upstream.Close()

	resp, err := New(Config{}).Do(context.Background(), Request{Target: EncodeLocation(upstream.URL)})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if string(resp.Body) != "via token" {
		t.Fatalf("body = %q, want %q", resp.Body, "via token")
	}
}

func TestDo_UserAgentSent(t *testing.T) {
	var gotUA string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer upstream.Close()

	if _, err := New(Config{}).Do(context.Background(), Request{Target: upstream.URL}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if gotUA != DefaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}
}

func TestDo_UpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	_, err := New(Config{}).Do(context.Background(), Request{Target: upstream.URL})
	if !errors.Is(err, ErrUpstreamFetch) {
		t.Fatalf("Do() error = %v, want ErrUpstreamFetch", err)
	}
}

func TestDo_Timeout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer upstream.Close()

	_, err := New(Config{Timeout: 50 * time.Millisecond}).Do(context.Background(), Request{Target: upstream.URL})
	if !errors.Is(err, ErrUpstreamFetch) {
		t.Fatalf("Do() error = %v, want ErrUpstreamFetch", err)
	}
}

func TestEncodeInline_RoundTrip(t *testing.T) {
	body := make([]byte, 256)
	for i := range body {
		body[i] = byte(i)
	}

	decoded, err := DecodeInline(EncodeInline(body))
	if err != nil {
		t.Fatalf("DecodeInline() error = %v", err)
	}
	if !bytes.Equal(decoded, body) {
		t.Fatal("inline encoding altered the bytes")
	}
}
