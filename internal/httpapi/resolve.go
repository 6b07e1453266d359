package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/famomatic/vidgate/relay"
	"github.com/famomatic/vidgate/resolver"
)

type resolveRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

type resolveResponse struct {
	Title           string        `json:"title"`
	Thumbnail       string        `json:"thumbnail,omitempty"`
	Duration        int64         `json:"duration"`
	VideoURL        string        `json:"video_url"`
	AudioURL        string        `json:"audio_url,omitempty"`
	DirectVideoURL  string        `json:"direct_video_url"`
	DirectAudioURL  string        `json:"direct_audio_url,omitempty"`
	SeparateStreams bool          `json:"separate_streams"`
	Quality         string        `json:"quality"`
	Uploader        string        `json:"uploader"`
	ViewCount       int64         `json:"view_count"`
	Description     string        `json:"description,omitempty"`
	UploadDate      string        `json:"upload_date,omitempty"`
	Channel         string        `json:"channel,omitempty"`
	ChannelURL      string        `json:"channel_url,omitempty"`
	Alternatives    []alternative `json:"alternatives,omitempty"`
}

type alternative struct {
	Label     string  `json:"label"`
	Height    int     `json:"height"`
	FrameRate float64 `json:"fps,omitempty"`
	Ext       string  `json:"ext,omitempty"`
	FileSize  int64   `json:"filesize,omitempty"`
	URL       string  `json:"url"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var in resolveRequest
	if r.Method == http.MethodPost {
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&in)
		if err != nil && !errors.Is(err, io.EOF) {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		in.URL = r.URL.Query().Get("url")
		in.Quality = r.URL.Query().Get("quality")
	}
	if in.Quality == "" {
		in.Quality = s.config.DefaultQuality
	}

	res, err := s.resolver.Resolve(r.Context(), in.URL, in.Quality)
	if err != nil {
		s.writeResolveError(w, err)
		return
	}

	out := resolveResponse{
		Title:           res.Title,
		Thumbnail:       res.Thumbnail,
		Duration:        res.Duration,
		VideoURL:        s.relayLocation(res.VideoURL),
		DirectVideoURL:  res.VideoURL,
		SeparateStreams: res.SeparateStreams,
		Quality:         qualityLabel(res.SelectedHeight),
		Uploader:        res.Uploader,
		ViewCount:       res.ViewCount,
		Description:     res.Description,
		UploadDate:      res.UploadDate,
		Channel:         res.Channel,
		ChannelURL:      res.ChannelURL,
	}
	if res.AudioURL != "" {
		out.AudioURL = s.relayLocation(res.AudioURL)
		out.DirectAudioURL = res.AudioURL
	}
	for _, alt := range res.Alternatives {
		out.Alternatives = append(out.Alternatives, alternative{
			Label:     alt.Label,
			Height:    alt.Height,
			FrameRate: alt.FrameRate,
			Ext:       alt.Ext,
			FileSize:  alt.FileSize,
			URL:       s.relayLocation(alt.URL),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// relayLocation encodes an upstream location into an opaque token referencing
// this server's relay endpoint.
func (s *Server) relayLocation(upstream string) string {
	return s.config.PublicBaseURL + s.config.RelayPath + "?url=" + relay.EncodeLocation(upstream)
}

func qualityLabel(height int) string {
	if height <= 0 {
		return "?p"
	}
	return strconv.Itoa(height) + "p"
}

func (s *Server) writeResolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, resolver.ErrMissingInput):
		s.writeError(w, http.StatusBadRequest, "url parameter required")
	case errors.Is(err, resolver.ErrUnavailable), errors.Is(err, resolver.ErrAgeRestricted):
		s.writeError(w, http.StatusNotFound, "video is unavailable or private")
	case errors.Is(err, resolver.ErrTakedown):
		s.writeError(w, http.StatusNotFound, "video was removed due to a copyright claim")
	case errors.Is(err, resolver.ErrNoPlayableStream):
		s.writeError(w, http.StatusNotFound, "no playable stream found for this video")
	default:
		s.logger.WithError(err).Error("resolution failed")
		s.writeError(w, http.StatusInternalServerError, "could not process the video, check the link and try again")
	}
}
