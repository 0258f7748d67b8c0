package status

import (
	"github.com/ytget/ytmp3/internal/download"
	"github.com/ytget/ytmp3/internal/model"
)

// Fanout forwards every call to each adapter in order
type Fanout []download.Adapter

func (f Fanout) Message(kind model.JobKind, msg string) {
	for _, a := range f {
		a.Message(kind, msg)
	}
}

func (f Fanout) Prompt(kind model.JobKind, title, msg string, severity model.Severity) {
	for _, a := range f {
		a.Prompt(kind, title, msg, severity)
	}
}

func (f Fanout) SetEnabled(kind model.JobKind, enabled bool) {
	for _, a := range f {
		a.SetEnabled(kind, enabled)
	}
}
