package httpapi

import (
	"io"
	"net/http"

	"github.com/famomatic/vidgate/relay"
)

func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		s.writeError(w, http.StatusBadRequest, "url parameter required")
		return
	}

	resp, err := s.relay.Do(r.Context(), relay.Request{
		Target:      target,
		RangeHeader: r.Header.Get("Range"),
	})
	if err != nil {
		s.logger.WithError(err).Error("relay fetch failed")
		s.writeError(w, http.StatusInternalServerError, "proxy error")
		return
	}

	h := w.Header()
	h.Set("Access-Control-Expose-Headers", "Content-Length, Content-Range, Content-Type")
	h.Set("Content-Type", resp.ContentType)
	if resp.ContentLength != "" {
		h.Set("Content-Length", resp.ContentLength)
	}
	if resp.ContentRange != "" {
		h.Set("Content-Range", resp.ContentRange)
		h.Set("Accept-Ranges", resp.AcceptRanges)
	}
	w.WriteHeader(resp.StatusCode)

	switch resp.Mode {
	case relay.DeliveryInline:
		if _, err := w.Write(resp.Body); err != nil {
			s.logger.WithError(err).Warn("relay write interrupted")
		}
	case relay.DeliveryStreamed:
		defer resp.Stream.Close()
		if _, err := io.Copy(w, resp.Stream); err != nil {
			s.logger.WithError(err).Warn("relay stream interrupted")
		}
	}
}
