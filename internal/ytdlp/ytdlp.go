// Package ytdlp adapts the yt-dlp binary to the resolver's extraction and
// search collaborator contracts.
package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/famomatic/vidgate/resolver"
)

// Config holds configuration for the yt-dlp adapter.
type Config struct {
	// Path is the yt-dlp binary. Zero value uses "yt-dlp" from PATH.
	Path string

	// SocketTimeout is passed through as --socket-timeout seconds.
	// Zero value uses 30.
	SocketTimeout int

	// GeoBypass enables yt-dlp's geo restriction bypass.
	GeoBypass bool

	// NoCheckCertificate skips upstream TLS verification, for hosts with
	// broken intermediate chains.
	NoCheckCertificate bool
}

// runner executes the external binary. Injectable for tests.
type runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Client shells out to yt-dlp and parses its JSON output.
type Client struct {
	config Config
	run    runner
}

// New creates a yt-dlp adapter.
func New(config Config) *Client {
	if config.Path == "" {
		config.Path = "yt-dlp"
	}
	if config.SocketTimeout <= 0 {
		config.SocketTimeout = 30
	}
	return &Client{config: config, run: runCommand}
}

// Extract implements resolver.Extractor.
func (c *Client) Extract(ctx context.Context, sourceURL string, hints resolver.ExtractHints) (*resolver.Extraction, error) {
	args := c.baseArgs()
	args = append(args, "--format", formatSelector(hints))
	if len(hints.ClientProfiles) > 0 {
		args = append(args, "--extractor-args", "youtube:player_client="+strings.Join(hints.ClientProfiles, ","))
	}
	args = append(args, "--", sourceURL)

	stdout, stderr, err := c.run(ctx, c.config.Path, args...)
	if err != nil {
		return nil, classify(stderr, err)
	}
	if !gjson.ValidBytes(stdout) {
		return nil, fmt.Errorf("%w: yt-dlp produced no parseable output", resolver.ErrExtraction)
	}
	return parseExtraction(gjson.ParseBytes(stdout)), nil
}

func (c *Client) baseArgs() []string {
	args := []string{
		"--dump-single-json",
		"--no-warnings",
		"--no-playlist",
		"--socket-timeout", strconv.Itoa(c.config.SocketTimeout),
	}
	if c.config.GeoBypass {
		args = append(args, "--geo-bypass")
	}
	if c.config.NoCheckCertificate {
		args = append(args, "--no-check-certificate")
	}
	return args
}

// formatSelector mirrors the quality ceiling into yt-dlp's format language:
// a muxed rendition under the ceiling, else separate video+audio under the
// ceiling, else whatever is best.
func formatSelector(hints resolver.ExtractHints) string {
	if hints.Smallest {
		return "worst"
	}
	h := hints.MaxHeight
	if h <= 0 {
		h = resolver.DefaultCeiling
	}
	return fmt.Sprintf("best[height<=%d]/bestvideo[height<=%d]+bestaudio/best", h, h)
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
