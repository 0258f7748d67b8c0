package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ytget/ytmp3/internal/model"
	"github.com/ytget/ytmp3/internal/platform"
)

// fakeResolver serves canned metadata and writes small files on Download
type fakeResolver struct {
	mu          sync.Mutex
	videos      map[string]*model.VideoMetadata
	playlists   map[string]*model.PlaylistMetadata
	resolveErr  map[string]error
	downloadErr error
	block       chan struct{}
	downloaded  []model.StreamDescriptor
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		videos:     make(map[string]*model.VideoMetadata),
		playlists:  make(map[string]*model.PlaylistMetadata),
		resolveErr: make(map[string]error),
	}
}

func (f *fakeResolver) addVideo(meta *model.VideoMetadata) string {
	url := "https://www.youtube.com/watch?v=" + meta.ID
	f.videos[url] = meta
	return url
}

func (f *fakeResolver) ResolveVideo(ctx context.Context, url string) (*model.VideoMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.resolveErr[url]; ok {
		return nil, err
	}
	meta, ok := f.videos[url]
	if !ok {
		return nil, fmt.Errorf("video not found: %s", url)
	}
	return meta, nil
}

func (f *fakeResolver) ResolvePlaylist(ctx context.Context, url string) (*model.PlaylistMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.resolveErr[url]; ok {
		return nil, err
	}
	playlist, ok := f.playlists[url]
	if !ok {
		return nil, fmt.Errorf("playlist not found: %s", url)
	}
	return playlist, nil
}

func (f *fakeResolver) Download(ctx context.Context, stream model.StreamDescriptor, dir string) (string, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.downloadErr != nil {
		return "", f.downloadErr
	}

	title := stream.VideoID
	for _, meta := range f.videos {
		if meta.ID == stream.VideoID {
			title = meta.Title
		}
	}
	path := filepath.Join(dir, platform.SanitizeFilename(title)+stream.Extension())
	if err := os.WriteFile(path, []byte("media"), 0644); err != nil {
		return "", err
	}
	f.downloaded = append(f.downloaded, stream)
	return path, nil
}

func (f *fakeResolver) downloads() []model.StreamDescriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.StreamDescriptor(nil), f.downloaded...)
}

func audioStream(videoID string, itag, bitrate int) model.StreamDescriptor {
	return model.StreamDescriptor{
		ID:          fmt.Sprintf("%s-%d", videoID, itag),
		VideoID:     videoID,
		Itag:        itag,
		MimeType:    `audio/webm; codecs="opus"`,
		Container:   "webm",
		IsAudioOnly: true,
		Bitrate:     bitrate,
	}
}

func videoStream(videoID string, itag int, resolution string) model.StreamDescriptor {
	return model.StreamDescriptor{
		ID:         fmt.Sprintf("%s-%d", videoID, itag),
		VideoID:    videoID,
		Itag:       itag,
		MimeType:   `video/mp4; codecs="avc1.64001F, mp4a.40.2"`,
		Container:  "mp4",
		Bitrate:    1_500_000,
		Resolution: resolution,
	}
}

// testVideo builds a video with a 720p progressive stream and the given
// audio bitrates
func testVideo(id, title string, audioBitrates ...int) *model.VideoMetadata {
	meta := &model.VideoMetadata{ID: id, Title: title}
	video := videoStream(id, 22, "720p")
	meta.Streams = append(meta.Streams, video)
	meta.HighestResolutionID = video.ID
	for i, bitrate := range audioBitrates {
		meta.Streams = append(meta.Streams, audioStream(id, 249+i, bitrate))
	}
	return meta
}

// recordingReporter keeps every message it is given
type recordingReporter struct {
	messages []string
	progress []model.Progress
}

func (r *recordingReporter) Message(msg string) {
	r.messages = append(r.messages, msg)
}

func (r *recordingReporter) Progress(current, total int, msg string) {
	r.messages = append(r.messages, msg)
	r.progress = append(r.progress, model.Progress{Current: current, Total: total})
}

// recordingAdapter keeps every adapter call as a line of text
type recordingAdapter struct {
	calls []string
}

func (a *recordingAdapter) Message(kind model.JobKind, msg string) {
	a.calls = append(a.calls, fmt.Sprintf("message %s: %s", kind, msg))
}

func (a *recordingAdapter) Prompt(kind model.JobKind, title, msg string, severity model.Severity) {
	a.calls = append(a.calls, fmt.Sprintf("prompt %s %s: %s: %s", kind, severity, title, msg))
}

func (a *recordingAdapter) SetEnabled(kind model.JobKind, enabled bool) {
	a.calls = append(a.calls, fmt.Sprintf("enabled %s: %t", kind, enabled))
}

var errNetwork = errors.New("connection reset by peer")
