package resolver

import "context"

// NoCodec is the sentinel the extraction collaborator reports for a track
// that is absent from a rendition.
const NoCodec = "none"

// Rendition is one candidate encoding of the source media.
type Rendition struct {
	URL            string
	Height         int
	FrameRate      float64
	Ext            string
	VideoCodec     string
	AudioCodec     string
	AverageBitrate float64 // kbps, audio track
	TotalBitrate   float64 // kbps, whole rendition
	FileSize       int64
	FormatLabel    string
}

// HasVideo reports whether the rendition carries a usable video track.
// An empty codec means the extractor did not report one; only the explicit
// NoCodec sentinel rules a track out.
func (r Rendition) HasVideo() bool { return r.VideoCodec != NoCodec }

// HasAudio reports whether the rendition carries a usable audio track.
func (r Rendition) HasAudio() bool { return r.AudioCodec != NoCodec }

// Extraction is the candidate set and metadata returned by the extraction
// collaborator for one source URL. The rendition list is not re-queried.
type Extraction struct {
	Title       string
	Thumbnail   string
	Duration    int64
	Uploader    string
	Description string
	UploadDate  string
	Channel     string
	ChannelURL  string
	ViewCount   int64
	Height      int

	// DirectURL is set when the extractor already resolved a single playable
	// location on its own.
	DirectURL string
	// RequestedPair holds the extractor's own pre-selected formats, when any.
	// Two entries mean a separately muxed video/audio pair.
	RequestedPair []Rendition
	Renditions    []Rendition
}

// ExtractHints steer the extraction collaborator's internal format selection.
// The collaborator is free to ignore them; selection here is the fallback.
type ExtractHints struct {
	// MaxHeight is the pixel-height ceiling for video renditions.
	MaxHeight int
	// Smallest requests the smallest available rendition instead of a ceiling.
	Smallest bool
	// ClientProfiles is the ordered list of client identity tags the
	// collaborator may present upstream. Opaque to the resolver.
	ClientProfiles []string
}

// Extractor is the external extraction collaborator.
type Extractor interface {
	Extract(ctx context.Context, sourceURL string, hints ExtractHints) (*Extraction, error)
}

// ResolutionResult describes the selected stream locations and metadata for
// one resolved source. It is constructed fresh per request and never mutated.
type ResolutionResult struct {
	Title       string
	Thumbnail   string
	Duration    int64
	Uploader    string
	Description string
	UploadDate  string
	Channel     string
	ChannelURL  string
	ViewCount   int64

	VideoURL string
	// AudioURL is set only when video and audio must be fetched separately.
	AudioURL        string
	SeparateStreams bool
	SelectedHeight  int

	Alternatives []Alternative
}

// Alternative is one selectable video rendition offered next to the primary
// pick, deduplicated by height and sorted by height descending.
type Alternative struct {
	Label     string
	Height    int
	FrameRate float64
	Ext       string
	FileSize  int64
	URL       string
}
