package ytdlp

import (
	"github.com/tidwall/gjson"

	"github.com/famomatic/vidgate/resolver"
)

func parseExtraction(info gjson.Result) *resolver.Extraction {
	ex := &resolver.Extraction{
		Title:       info.Get("title").String(),
		Thumbnail:   info.Get("thumbnail").String(),
		Duration:    info.Get("duration").Int(),
		Uploader:    info.Get("uploader").String(),
		Description: info.Get("description").String(),
		UploadDate:  info.Get("upload_date").String(),
		Channel:     info.Get("channel").String(),
		ChannelURL:  info.Get("channel_url").String(),
		ViewCount:   info.Get("view_count").Int(),
		Height:      int(info.Get("height").Int()),
		DirectURL:   info.Get("url").String(),
	}
	info.Get("requested_formats").ForEach(func(_, f gjson.Result) bool {
		ex.RequestedPair = append(ex.RequestedPair, parseRendition(f))
		return true
	})
	info.Get("formats").ForEach(func(_, f gjson.Result) bool {
		ex.Renditions = append(ex.Renditions, parseRendition(f))
		return true
	})
	return ex
}

func parseRendition(f gjson.Result) resolver.Rendition {
	return resolver.Rendition{
		URL:            f.Get("url").String(),
		Height:         int(f.Get("height").Int()),
		FrameRate:      f.Get("fps").Float(),
		Ext:            f.Get("ext").String(),
		VideoCodec:     f.Get("vcodec").String(),
		AudioCodec:     f.Get("acodec").String(),
		AverageBitrate: f.Get("abr").Float(),
		TotalBitrate:   f.Get("tbr").Float(),
		FileSize:       f.Get("filesize").Int(),
		FormatLabel:    f.Get("format_note").String(),
	}
}
