package youtube

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	kkdai "github.com/kkdai/youtube/v2"

	"github.com/ytget/ytmp3/internal/model"
	"github.com/ytget/ytmp3/internal/platform"
)

// PlaylistEnumerator lists playlist items when the primary playlist browse
// fails
type PlaylistEnumerator interface {
	ParsePlaylist(ctx context.Context, url string) (*model.PlaylistMetadata, error)
}

// Option configures a Resolver
type Option func(*Resolver)

// MaxCachedVideos bounds the videos kept between ResolveVideo and Download
const MaxCachedVideos = 8

// WithHTTPClient sets the HTTP client used for every request. A client
// timeout applies per request; streams with a known length are fetched in
// chunks, each with its own request.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.httpClient = client
	}
}

// WithPlaylistFallback sets the enumerator used when the playlist browse fails
func WithPlaylistFallback(fallback PlaylistEnumerator) Option {
	return func(r *Resolver) {
		r.fallback = fallback
	}
}

// Resolver implements the download resolver contract on top of kkdai/youtube.
// A kkdai.Client is not safe for concurrent use, so every operation gets its
// own client. Videos resolved by ResolveVideo are kept together with their
// client until a Download takes them, so a download does not fetch the
// metadata twice.
type Resolver struct {
	httpClient *http.Client
	fallback   PlaylistEnumerator
	logger     *slog.Logger

	mu     sync.Mutex
	videos map[string]resolvedVideo
	order  []string
}

type resolvedVideo struct {
	video  *kkdai.Video
	client *kkdai.Client
}

// NewResolver creates a new resolver
func NewResolver(logger *slog.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{
		logger: logger,
		videos: make(map[string]resolvedVideo),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) newClient() *kkdai.Client {
	return &kkdai.Client{HTTPClient: r.httpClient}
}

// ResolveVideo fetches video metadata and maps its formats to stream
// descriptors
func (r *Resolver) ResolveVideo(ctx context.Context, url string) (*model.VideoMetadata, error) {
	client := r.newClient()
	video, err := client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, wrapFetchError(err, "fetch video")
	}

	r.store(resolvedVideo{video: video, client: client})

	meta := metadataFromVideo(video)
	r.logger.Debug("video resolved", "id", video.ID, "title", video.Title, "streams", len(meta.Streams))
	return meta, nil
}

// ResolvePlaylist fetches the playlist title and its ordered entries
func (r *Resolver) ResolvePlaylist(ctx context.Context, url string) (*model.PlaylistMetadata, error) {
	playlist, err := r.newClient().GetPlaylistContext(ctx, url)
	if err == nil {
		return playlistFromEntries(playlist, url), nil
	}

	fetchErr := wrapFetchError(err, "fetch playlist")
	if r.fallback == nil || categoryForError(err) == CategoryInvalidURL {
		return nil, fetchErr
	}

	r.logger.Warn("playlist browse failed, using fallback", "url", url, "error", err)
	meta, fallbackErr := r.fallback.ParsePlaylist(ctx, url)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w (fallback: %v)", fetchErr, fallbackErr)
	}
	return meta, nil
}

// Download streams the chosen format into dir. The file is named after the
// sanitized video title with the stream's container extension.
func (r *Resolver) Download(ctx context.Context, stream model.StreamDescriptor, dir string) (string, error) {
	resolved, err := r.take(ctx, stream.VideoID)
	if err != nil {
		return "", err
	}
	video, client := resolved.video, resolved.client

	format := findFormat(video.Formats, stream.Itag)
	if format == nil {
		return "", fmt.Errorf("format %d not available for video %s", stream.Itag, stream.VideoID)
	}

	body, size, err := client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", wrapFetchError(err, "open stream")
	}
	defer body.Close()

	path := filepath.Join(dir, platform.SanitizeFilename(video.Title)+stream.Extension())
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	r.logger.Info("downloading", "file", filepath.Base(path), "size", humanize.Bytes(uint64(max(size, 0))))

	written, err := io.Copy(file, body)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}

	r.logger.Info("download finished", "file", filepath.Base(path), "written", humanize.Bytes(uint64(written)))
	return path, nil
}

// store caches a resolved video, evicting the oldest entry past
// MaxCachedVideos
func (r *Resolver) store(resolved resolvedVideo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := resolved.video.ID
	if _, ok := r.videos[id]; ok {
		r.forget(id)
	}
	r.videos[id] = resolved
	r.order = append(r.order, id)
	for len(r.order) > MaxCachedVideos {
		r.forget(r.order[0])
	}
}

// forget drops id from the cache; r.mu must be held
func (r *Resolver) forget(id string) {
	delete(r.videos, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
}

// take removes and returns the cached video, or fetches it with a new client
func (r *Resolver) take(ctx context.Context, id string) (resolvedVideo, error) {
	r.mu.Lock()
	resolved, ok := r.videos[id]
	if ok {
		r.forget(id)
	}
	r.mu.Unlock()
	if ok {
		return resolved, nil
	}

	client := r.newClient()
	video, err := client.GetVideoContext(ctx, id)
	if err != nil {
		return resolvedVideo{}, wrapFetchError(err, "fetch video")
	}
	return resolvedVideo{video: video, client: client}, nil
}

func metadataFromVideo(video *kkdai.Video) *model.VideoMetadata {
	meta := &model.VideoMetadata{
		ID:     video.ID,
		Title:  video.Title,
		Author: video.Author,
	}
	for _, f := range video.Formats {
		meta.Streams = append(meta.Streams, streamFromFormat(video.ID, f))
	}

	// progressive formats carry both video and audio
	progressive := video.Formats.Type("video").WithAudioChannels()
	if len(progressive) > 0 {
		progressive.Sort()
		meta.HighestResolutionID = streamID(video.ID, progressive[0].ItagNo)
	}
	return meta
}

func streamFromFormat(videoID string, f kkdai.Format) model.StreamDescriptor {
	bitrate := f.AverageBitrate
	if bitrate == 0 {
		bitrate = f.Bitrate
	}
	audioOnly := strings.HasPrefix(f.MimeType, "audio/")

	s := model.StreamDescriptor{
		ID:            streamID(videoID, f.ItagNo),
		VideoID:       videoID,
		Itag:          f.ItagNo,
		MimeType:      f.MimeType,
		Container:     containerFromMime(f.MimeType),
		IsAudioOnly:   audioOnly,
		Bitrate:       bitrate,
		ContentLength: f.ContentLength,
	}
	if !audioOnly {
		s.Resolution = f.QualityLabel
	}
	return s
}

func streamID(videoID string, itag int) string {
	return fmt.Sprintf("%s:%d", videoID, itag)
}

// containerFromMime returns the mime subtype, e.g. "webm" for
// `audio/webm; codecs="opus"`
func containerFromMime(mime string) string {
	base, _, _ := strings.Cut(mime, ";")
	_, subtype, ok := strings.Cut(strings.TrimSpace(base), "/")
	if !ok {
		return ""
	}
	return subtype
}

func findFormat(formats kkdai.FormatList, itag int) *kkdai.Format {
	matches := formats.Itag(itag)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

func playlistFromEntries(playlist *kkdai.Playlist, url string) *model.PlaylistMetadata {
	meta := &model.PlaylistMetadata{
		ID:    playlist.ID,
		Title: playlist.Title,
		URL:   url,
	}
	if meta.Title == "" {
		meta.Title = platform.DefaultPlaylistTitle
	}
	for _, entry := range playlist.Videos {
		meta.Items = append(meta.Items, model.VideoRef{
			ID:    entry.ID,
			Title: entry.Title,
			URL:   fmt.Sprintf(platform.YouTubeVideoURLTemplate, entry.ID),
		})
	}
	return meta
}
