package download

import (
	"context"

	"github.com/ytget/ytmp3/internal/model"
)

// Resolver turns URLs into metadata and stream descriptors and fetches the
// bytes of a chosen stream. Implementations talk to the video platform.
type Resolver interface {
	// ResolveVideo returns the video metadata with all downloadable streams
	ResolveVideo(ctx context.Context, url string) (*model.VideoMetadata, error)

	// ResolvePlaylist returns the playlist title and its ordered items
	ResolvePlaylist(ctx context.Context, url string) (*model.PlaylistMetadata, error)

	// Download writes the stream into dir and returns the saved file path
	Download(ctx context.Context, stream model.StreamDescriptor, dir string) (string, error)
}

// Reporter receives progress from a running download. The runner forwards
// every call to the interface loop as a status event.
type Reporter interface {
	Message(msg string)
	Progress(current, total int, msg string)
}

// Adapter is the presentation side of a job kind: a status line, a modal
// prompt and the enabled state of the trigger that starts the job.
// It is only ever called from the interface loop.
type Adapter interface {
	Message(kind model.JobKind, msg string)
	Prompt(kind model.JobKind, title, msg string, severity model.Severity)
	SetEnabled(kind model.JobKind, enabled bool)
}

type nopReporter struct{}

func (nopReporter) Message(string)            {}
func (nopReporter) Progress(int, int, string) {}
