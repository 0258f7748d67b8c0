package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ytget/ytmp3/internal/model"
)

// JobRunner starts jobs and reports their state
type JobRunner interface {
	Run(kind model.JobKind, target model.DownloadTarget) (jobID string, started bool)
	State(kind model.JobKind) model.JobState
}

type startJobRequest struct {
	URL            string `json:"url"`
	AudioOnly      bool   `json:"audio_only"`
	DestinationDir string `json:"destination_dir"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// StartJobHandler starts a job of kind. Requests without a destination use
// defaultDir; playlist jobs are always audio-only.
func StartJobHandler(runner JobRunner, kind model.JobKind, defaultDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startJobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		target := model.DownloadTarget{
			URL:            strings.TrimSpace(req.URL),
			Kind:           kind,
			AudioOnly:      req.AudioOnly || kind == model.KindPlaylist,
			DestinationDir: strings.TrimSpace(req.DestinationDir),
		}
		if target.DestinationDir == "" {
			target.DestinationDir = defaultDir
		}
		if err := target.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		jobID, started := runner.Run(kind, target)
		if !started {
			writeError(w, http.StatusConflict, fmt.Sprintf("%s download already running", kind.Label()))
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]string{"id": jobID})
	}
}

// JobView is a JobState with derived progress and timing
type JobView struct {
	model.JobState
	Percent    int   `json:"percent"`
	DurationMS int64 `json:"duration_ms"`
}

func newJobView(state model.JobState) JobView {
	view := JobView{JobState: state, DurationMS: state.Duration().Milliseconds()}
	if state.Progress != nil {
		view.Percent = state.Progress.Percent()
	}
	return view
}

// ListJobsHandler returns the state of both job kinds
func ListJobsHandler(runner JobRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []JobView{
			newJobView(runner.State(model.KindSingle)),
			newJobView(runner.State(model.KindPlaylist)),
		})
	}
}
