package download

import (
	"cmp"
	"slices"

	"github.com/ytget/ytmp3/internal/model"
)

// SelectAudioStream picks the audio-only stream with the highest bitrate.
// Ties keep resolver order, so the first of equal candidates wins.
func SelectAudioStream(meta *model.VideoMetadata) (model.StreamDescriptor, error) {
	audio := meta.AudioStreams()
	if len(audio) == 0 {
		return model.StreamDescriptor{}, ErrStreamNotFound
	}

	slices.SortStableFunc(audio, func(a, b model.StreamDescriptor) int {
		return cmp.Compare(b.Bitrate, a.Bitrate)
	})
	return audio[0], nil
}

// SelectVideoStream returns the stream the resolver designated as highest
// resolution
func SelectVideoStream(meta *model.VideoMetadata) (model.StreamDescriptor, error) {
	s, ok := meta.StreamByID(meta.HighestResolutionID)
	if !ok {
		return model.StreamDescriptor{}, ErrStreamNotFound
	}
	return s, nil
}

// SelectStream applies the audio or video policy to meta
func SelectStream(meta *model.VideoMetadata, audioOnly bool) (model.StreamDescriptor, error) {
	if audioOnly {
		return SelectAudioStream(meta)
	}
	return SelectVideoStream(meta)
}
