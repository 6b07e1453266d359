package ytdlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/famomatic/vidgate/resolver"
)

// SearchResult is one entry of the search collaborator contract.
type SearchResult struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  int64  `json:"duration"`
	Uploader  string `json:"uploader,omitempty"`
	ViewCount int64  `json:"view_count"`
	Snippet   string `json:"description,omitempty"`
}

const (
	snippetLimit      = 200
	defaultMaxResults = 10
)

// Search runs a flat-playlist search query and returns up to maxResults
// entries with description snippets truncated to 200 characters.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, resolver.ErrMissingInput
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	args := c.baseArgs()
	args = append(args, "--flat-playlist", "--", fmt.Sprintf("ytsearch%d:%s", maxResults, query))

	stdout, stderr, err := c.run(ctx, c.config.Path, args...)
	if err != nil {
		return nil, classify(stderr, err)
	}
	if !gjson.ValidBytes(stdout) {
		return nil, fmt.Errorf("%w: yt-dlp produced no parseable output", resolver.ErrExtraction)
	}

	var out []SearchResult
	gjson.ParseBytes(stdout).Get("entries").ForEach(func(_, e gjson.Result) bool {
		out = append(out, SearchResult{
			ID:        e.Get("id").String(),
			Title:     e.Get("title").String(),
			URL:       e.Get("url").String(),
			Thumbnail: firstThumbnail(e),
			Duration:  e.Get("duration").Int(),
			Uploader:  e.Get("uploader").String(),
			ViewCount: e.Get("view_count").Int(),
			Snippet:   truncate(e.Get("description").String(), snippetLimit),
		})
		return true
	})
	return out, nil
}

func firstThumbnail(e gjson.Result) string {
	if t := e.Get("thumbnail").String(); t != "" {
		return t
	}
	return e.Get("thumbnails.0.url").String()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
