package resolver

// selection is the outcome of the rendition scan: a video pick and an
// optional independent audio pick.
type selection struct {
	video    Rendition
	audio    Rendition
	hasAudio bool
	separate bool
}

// selectRenditions applies the priority order over the extractor's candidate
// set, stopping at the first branch that yields a usable result:
// the extractor's own pre-paired formats, then its direct URL, then the best
// combined rendition, then independent video and audio picks.
func selectRenditions(ex *Extraction) (selection, error) {
	if n := len(ex.RequestedPair); n > 0 {
		if n == 2 {
			return selection{
				video:    ex.RequestedPair[0],
				audio:    ex.RequestedPair[1],
				hasAudio: true,
				separate: true,
			}, nil
		}
		return selection{video: ex.RequestedPair[0]}, nil
	}

	if ex.DirectURL != "" {
		return selection{video: Rendition{URL: ex.DirectURL, Height: ex.Height}}, nil
	}

	if best, ok := bestCombined(ex.Renditions); ok {
		return selection{video: best}, nil
	}

	video, ok := bestVideo(ex.Renditions)
	if !ok {
		return selection{}, ErrNoPlayableStream
	}
	sel := selection{video: video}
	if audio, ok := bestAudio(ex.Renditions); ok {
		sel.audio = audio
		sel.hasAudio = true
		sel.separate = true
	}
	return sel, nil
}

// bestCombined picks the muxed rendition with the greatest (height, bitrate)
// tuple, height primary. Ties keep the first occurrence, so the result does
// not depend on list order for distinct tuples.
func bestCombined(renditions []Rendition) (Rendition, bool) {
	var best Rendition
	found := false
	for _, r := range renditions {
		if r.URL == "" || !r.HasVideo() || !r.HasAudio() {
			continue
		}
		if !found || combinedLess(best, r) {
			best = r
			found = true
		}
	}
	return best, found
}

func combinedLess(a, b Rendition) bool {
	if a.Height != b.Height {
		return a.Height < b.Height
	}
	return a.TotalBitrate < b.TotalBitrate
}

func bestVideo(renditions []Rendition) (Rendition, bool) {
	var best Rendition
	found := false
	for _, r := range renditions {
		if r.URL == "" || !r.HasVideo() {
			continue
		}
		if !found || r.Height > best.Height {
			best = r
			found = true
		}
	}
	return best, found
}

func bestAudio(renditions []Rendition) (Rendition, bool) {
	var best Rendition
	found := false
	for _, r := range renditions {
		if r.URL == "" || !r.HasAudio() {
			continue
		}
		if !found || r.AverageBitrate > best.AverageBitrate {
			best = r
			found = true
		}
	}
	return best, found
}
