// Package resolver turns a source media URL and a quality label into one or
// two directly fetchable stream locations, delegating site-specific
// extraction to an external collaborator.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Resolver applies the format resolution algorithm over the extraction
// collaborator's candidate set. It is stateless and safe for concurrent use.
type Resolver struct {
	extractor Extractor
	config    Config
	logger    Logger
}

// New creates a Resolver around the given extraction collaborator.
func New(extractor Extractor, config Config) *Resolver {
	if config.Quality.Ceilings == nil {
		config.Quality = DefaultQualityPolicy()
	}
	if config.Rewrites == nil {
		config.Rewrites = DefaultRewriteRules()
	}
	if config.ClientProfiles == nil {
		config.ClientProfiles = DefaultClientProfiles()
	}
	if config.AlternativesCap <= 0 {
		config.AlternativesCap = DefaultAlternativesCap
	}
	logger := config.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	return &Resolver{extractor: extractor, config: config, logger: logger}
}

// Resolve normalizes sourceURL, obtains the candidate rendition set, and
// selects the best video location not exceeding the requested quality, with
// an independent audio location when only demuxed streams are available.
func (r *Resolver) Resolve(ctx context.Context, sourceURL, qualityLabel string) (*ResolutionResult, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return nil, ErrMissingInput
	}
	src := Normalize(sourceURL, r.config.Rewrites)

	height, smallest := r.config.Quality.Ceiling(qualityLabel)

	ctx, cancel := withDefaultTimeout(ctx, r.config.RequestTimeout)
	defer cancel()

	ex, err := r.extractor.Extract(ctx, src, ExtractHints{
		MaxHeight:      height,
		Smallest:       smallest,
		ClientProfiles: r.config.ClientProfiles,
	})
	if err != nil {
		return nil, mapExtractError(err)
	}
	if ex == nil {
		return nil, fmt.Errorf("%w: extractor returned no data", ErrExtraction)
	}

	sel, err := selectRenditions(ex)
	if err != nil {
		return nil, err
	}
	if sel.video.URL == "" {
		return nil, ErrNoPlayableStream
	}
	if sel.separate {
		r.logger.Warnf("serving separate video and audio streams for %s", src)
	}

	res := &ResolutionResult{
		Title:           orUnknown(ex.Title),
		Thumbnail:       ex.Thumbnail,
		Duration:        ex.Duration,
		Uploader:        orUnknown(ex.Uploader),
		Description:     ex.Description,
		UploadDate:      ex.UploadDate,
		Channel:         ex.Channel,
		ChannelURL:      ex.ChannelURL,
		ViewCount:       ex.ViewCount,
		VideoURL:        sel.video.URL,
		SeparateStreams: sel.separate,
		SelectedHeight:  sel.video.Height,
		Alternatives:    buildAlternatives(ex.Renditions, r.config.AlternativesCap),
	}
	if res.SelectedHeight == 0 {
		res.SelectedHeight = ex.Height
	}
	if sel.hasAudio {
		res.AudioURL = sel.audio.URL
	}
	return res, nil
}

// mapExtractError keeps classified collaborator failures and folds everything
// else into ErrExtraction. The cause text stays in the error chain for
// internal logging; callers surface only the sentinel.
func mapExtractError(err error) error {
	switch {
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, ErrAgeRestricted),
		errors.Is(err, ErrTakedown),
		errors.Is(err, ErrNoPlayableStream),
		errors.Is(err, ErrExtraction):
		return err
	}
	return fmt.Errorf("%w: %v", ErrExtraction, err)
}

// buildAlternatives filters to video-capable renditions with a known location
// and height, deduplicates by height keeping the first occurrence, sorts by
// height descending, and truncates to limit.
func buildAlternatives(renditions []Rendition, limit int) []Alternative {
	seen := make(map[int]struct{}, len(renditions))
	out := make([]Alternative, 0, limit)
	for _, r := range renditions {
		if !r.HasVideo() || r.URL == "" || r.Height <= 0 {
			continue
		}
		if _, dup := seen[r.Height]; dup {
			continue
		}
		seen[r.Height] = struct{}{}
		label := r.FormatLabel
		if label == "" {
			label = fmt.Sprintf("%dp", r.Height)
		}
		out = append(out, Alternative{
			Label:     label,
			Height:    r.Height,
			FrameRate: r.FrameRate,
			Ext:       r.Ext,
			FileSize:  r.FileSize,
			URL:       r.URL,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Height > out[j].Height })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

func withDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
