package model

import "testing"

func TestVideoMetadata_AudioStreams(t *testing.T) {
	video := &VideoMetadata{
		Streams: []StreamDescriptor{
			{ID: "v1", IsAudioOnly: false},
			{ID: "a1", IsAudioOnly: true, Bitrate: 128000},
			{ID: "a2", IsAudioOnly: true, Bitrate: 160000},
		},
	}

	audio := video.AudioStreams()
	if len(audio) != 2 {
		t.Fatalf("Expected 2 audio streams, got %d", len(audio))
	}
	if audio[0].ID != "a1" || audio[1].ID != "a2" {
		t.Errorf("Expected resolver order a1, a2, got %s, %s", audio[0].ID, audio[1].ID)
	}
}

func TestVideoMetadata_StreamByID(t *testing.T) {
	video := &VideoMetadata{
		Streams: []StreamDescriptor{{ID: "v1"}, {ID: "v2"}},
	}

	if s, ok := video.StreamByID("v2"); !ok || s.ID != "v2" {
		t.Errorf("Expected to find v2, got %+v (ok=%v)", s, ok)
	}
	if _, ok := video.StreamByID(""); ok {
		t.Error("Expected empty id to match nothing")
	}
	if _, ok := video.StreamByID("missing"); ok {
		t.Error("Expected missing id to match nothing")
	}
}

func TestStreamDescriptor_Extension(t *testing.T) {
	tests := []struct {
		container string
		expected  string
	}{
		{"webm", ".webm"},
		{".mp4", ".mp4"},
		{"", ""},
	}

	for _, test := range tests {
		s := StreamDescriptor{Container: test.container}
		if got := s.Extension(); got != test.expected {
			t.Errorf("Extension() for %q = %q, expected %q", test.container, got, test.expected)
		}
	}
}
