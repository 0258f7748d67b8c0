package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ytget/ytmp3/internal/model"
	"github.com/ytget/ytmp3/internal/platform"
)

// Labels used in status messages
const (
	LabelAudio = "Audio"
	LabelVideo = "Video"

	audioDescription = "Audio (MP3)"
	videoDescription = "Video (Highest Resolution)"
)

// SingleOutcome describes a finished single-item download
type SingleOutcome struct {
	Label     string
	Title     string
	FileName  string
	Dir       string
	Path      string
	AudioOnly bool
	Stream    model.StreamDescriptor
}

// PlaylistOutcome describes a finished playlist download. Total is the
// advertised item count; Downloaded and Skipped add up to it.
type PlaylistOutcome struct {
	Title      string
	Folder     string
	Total      int
	Downloaded int
	Skipped    int
	Files      []string
}

// Service downloads single items and playlists through a Resolver
type Service struct {
	resolver Resolver
	logger   *slog.Logger
}

// NewService creates a new download service
func NewService(resolver Resolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resolver: resolver,
		logger:   logger,
	}
}

// DownloadSingle downloads one video, or only its best audio stream saved
// with an .mp3 extension
func (s *Service) DownloadSingle(ctx context.Context, target model.DownloadTarget, reporter Reporter) (*SingleOutcome, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}

	if err := platform.CreateDirectoryIfNotExists(target.DestinationDir); err != nil {
		return nil, newDownloadError(ErrTransfer, target.URL, err)
	}

	reporter.Message(fmt.Sprintf("Resolving %s...", target.URL))
	meta, err := s.resolver.ResolveVideo(ctx, target.URL)
	if err != nil {
		return nil, newDownloadError(ErrResolution, target.URL, err)
	}

	stream, err := SelectStream(meta, target.AudioOnly)
	if err != nil {
		return nil, newDownloadError(ErrStreamNotFound, target.URL, nil)
	}

	label, description := LabelVideo, videoDescription
	if target.AudioOnly {
		label, description = LabelAudio, audioDescription
	}
	reporter.Message(fmt.Sprintf("Downloading %s: %s...", description, meta.Title))

	s.logger.Info("downloading stream",
		"url", target.URL,
		"title", meta.Title,
		"itag", stream.Itag,
		"mime", stream.MimeType,
		"dir", target.DestinationDir)

	path, err := s.resolver.Download(ctx, stream, target.DestinationDir)
	if err != nil {
		return nil, newDownloadError(ErrTransfer, target.URL, err)
	}

	if target.AudioOnly {
		path = s.renameToMP3(target.URL, path)
	}

	return &SingleOutcome{
		Label:     label,
		Title:     meta.Title,
		FileName:  filepath.Base(path),
		Dir:       filepath.Dir(path),
		Path:      path,
		AudioOnly: target.AudioOnly,
		Stream:    stream,
	}, nil
}

// DownloadPlaylist downloads the best audio stream of every playlist item
// into a folder named after the playlist. Items without an audio stream are
// skipped; any other error aborts the remaining items.
func (s *Service) DownloadPlaylist(ctx context.Context, target model.DownloadTarget, reporter Reporter) (*PlaylistOutcome, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}

	reporter.Message(fmt.Sprintf("Resolving playlist %s...", target.URL))
	playlist, err := s.resolver.ResolvePlaylist(ctx, target.URL)
	if err != nil {
		return nil, newDownloadError(ErrResolution, target.URL, err)
	}

	folder := filepath.Join(target.DestinationDir, playlistFolderName(playlist.Title))
	if err := platform.CreateDirectoryIfNotExists(folder); err != nil {
		return nil, newDownloadError(ErrTransfer, target.URL, err)
	}

	total := playlist.TotalItems()
	outcome := &PlaylistOutcome{
		Title:  playlist.Title,
		Folder: folder,
		Total:  total,
	}

	reporter.Message(fmt.Sprintf("Starting MP3 playlist download: %s (%d tracks)...", playlist.Title, total))
	s.logger.Info("playlist resolved", "title", playlist.Title, "items", total, "folder", folder)

	for i, item := range playlist.Items {
		if err := ctx.Err(); err != nil {
			return nil, newDownloadError(ErrTransfer, target.URL, err)
		}

		itemURL := item.URL
		if itemURL == "" {
			itemURL = item.ID
		}
		title := item.Title
		if title == "" {
			title = itemURL
		}
		reporter.Progress(i+1, total, fmt.Sprintf("[%d/%d] Downloading MP3: %s...", i+1, total, title))

		path, err := s.downloadPlaylistItem(ctx, itemURL, folder)
		if errors.Is(err, ErrStreamNotFound) {
			s.logger.Debug("skipping playlist item without audio stream", "url", itemURL, "index", i+1)
			outcome.Skipped++
			continue
		}
		if err != nil {
			return nil, err
		}

		outcome.Downloaded++
		outcome.Files = append(outcome.Files, path)
	}

	return outcome, nil
}

func (s *Service) downloadPlaylistItem(ctx context.Context, url, folder string) (string, error) {
	meta, err := s.resolver.ResolveVideo(ctx, url)
	if err != nil {
		return "", newDownloadError(ErrResolution, url, err)
	}

	stream, err := SelectAudioStream(meta)
	if err != nil {
		return "", newDownloadError(ErrStreamNotFound, url, nil)
	}

	path, err := s.resolver.Download(ctx, stream, folder)
	if err != nil {
		return "", newDownloadError(ErrTransfer, url, err)
	}
	return s.renameToMP3(url, path), nil
}

// playlistFolderName keeps the sanitized title a single path segment below
// the destination
func playlistFolderName(title string) string {
	name := platform.SanitizeFilename(title)
	switch strings.TrimSpace(name) {
	case "", ".", "..":
		return platform.DefaultPlaylistTitle
	}
	return name
}

// renameToMP3 gives the saved file an .mp3 extension. The bytes are not
// transcoded. A failed rename keeps the original file.
func (s *Service) renameToMP3(url, path string) string {
	renamed, err := platform.ReplaceExtension(path, platform.AudioExtension)
	if err != nil {
		s.logger.Warn("keeping original file name",
			"url", url,
			"path", path,
			"error", newDownloadError(ErrRename, url, err))
		return path
	}
	return renamed
}
