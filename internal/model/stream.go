package model

import "strings"

// StreamDescriptor describes one downloadable encoding of a video. It is
// produced by a resolver and read-only to the downloader.
type StreamDescriptor struct {
	ID            string `json:"id"`
	VideoID       string `json:"video_id"`
	Itag          int    `json:"itag"`
	MimeType      string `json:"mime_type"`
	Container     string `json:"container"`
	IsAudioOnly   bool   `json:"is_audio_only"`
	Bitrate       int    `json:"bitrate,omitempty"`    // bits per second, 0 if unknown
	Resolution    string `json:"resolution,omitempty"` // e.g. "720p", empty if unknown
	ContentLength int64  `json:"content_length,omitempty"`
}

// Extension returns the container as a file extension with leading dot
func (s StreamDescriptor) Extension() string {
	if s.Container == "" {
		return ""
	}
	return "." + strings.TrimPrefix(s.Container, ".")
}

// VideoMetadata is a resolved video with its streams in resolver order.
// HighestResolutionID names the resolver's own pick for the best video
// stream and is empty when the resolver has none.
type VideoMetadata struct {
	ID                  string             `json:"id"`
	Title               string             `json:"title"`
	Author              string             `json:"author,omitempty"`
	Streams             []StreamDescriptor `json:"streams"`
	HighestResolutionID string             `json:"highest_resolution_id,omitempty"`
}

// AudioStreams returns the audio-only streams in resolver order
func (v *VideoMetadata) AudioStreams() []StreamDescriptor {
	var audio []StreamDescriptor
	for _, s := range v.Streams {
		if s.IsAudioOnly {
			audio = append(audio, s)
		}
	}
	return audio
}

// StreamByID returns the stream with the given id
func (v *VideoMetadata) StreamByID(id string) (StreamDescriptor, bool) {
	if id == "" {
		return StreamDescriptor{}, false
	}
	for _, s := range v.Streams {
		if s.ID == id {
			return s, true
		}
	}
	return StreamDescriptor{}, false
}
