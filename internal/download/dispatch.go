package download

import (
	"context"

	"github.com/ytget/ytmp3/internal/model"
)

// Dispatch applies one status event to the adapter. Call it only from the
// interface loop.
func Dispatch(ev model.StatusEvent, adapter Adapter) {
	switch ev.Type {
	case model.EventMessage, model.EventProgress:
		adapter.Message(ev.Kind, ev.Message)
	case model.EventPrompt:
		adapter.Prompt(ev.Kind, ev.Title, ev.Message, ev.Severity)
	case model.EventEnabled:
		adapter.SetEnabled(ev.Kind, ev.Enabled)
	}
}

// Pump dispatches events until the job jobID has finished and its trigger
// has been re-enabled, ctx is done, or events is closed. Events of other
// jobs are dispatched too.
func Pump(ctx context.Context, events <-chan model.StatusEvent, jobID string, adapter Adapter) model.JobStatus {
	status := model.JobStatusRunning
	for {
		var ev model.StatusEvent
		var ok bool
		select {
		case <-ctx.Done():
			return status
		case ev, ok = <-events:
			if !ok {
				return status
			}
		}

		Dispatch(ev, adapter)
		if ev.JobID != jobID {
			continue
		}
		if ev.Type == model.EventFinished {
			status = ev.Status
		}
		if ev.Type == model.EventEnabled && ev.Enabled {
			return status
		}
	}
}

// WarnInputMissing tells the user a URL is required. No job is started.
func WarnInputMissing(kind model.JobKind, adapter Adapter) {
	adapter.Prompt(kind, PromptInputMissing, "Please enter a YouTube URL.", model.SeverityWarning)
}
