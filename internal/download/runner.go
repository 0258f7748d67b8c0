package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/ytget/ytmp3/internal/model"
	"github.com/ytget/ytmp3/internal/platform"
)

// Runner defaults
const (
	DefaultEventBuffer = 64
	JobIDPrefix        = "job-"
	LockFileExtension  = ".lock"
)

// Prompt titles shown when a job finishes
const (
	PromptDownloadComplete = "Download Complete"
	PromptDownloadError    = "Download Error"
	PromptError            = "Error"
	PromptPlaylistComplete = "Playlist Complete"
	PromptPlaylistError    = "Playlist Error"
	PromptInputMissing     = "Input Missing"
)

// Option configures a Runner
type Option func(*Runner)

// WithLockDir guards each job kind with a lock file in dir, so that two
// processes sharing dir never run the same kind at once
func WithLockDir(dir string) Option {
	return func(r *Runner) {
		r.lockDir = dir
	}
}

// WithJobTimeout bounds the run time of every job. Zero disables the limit.
func WithJobTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.jobTimeout = timeout
	}
}

// WithLogger sets the runner logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithEventBuffer sets the capacity of the event channel
func WithEventBuffer(size int) Option {
	return func(r *Runner) {
		if size >= 0 {
			r.eventBuffer = size
		}
	}
}

// Runner starts background jobs, at most one per job kind. Workers report
// through a channel of status events that the interface loop drains.
type Runner struct {
	ctx         context.Context
	svc         *Service
	logger      *slog.Logger
	lockDir     string
	jobTimeout  time.Duration
	eventBuffer int

	events chan model.StatusEvent

	mu     sync.Mutex
	busy   map[model.JobKind]bool
	states map[model.JobKind]*model.JobState

	wg sync.WaitGroup
}

// NewRunner creates a runner whose jobs live within ctx
func NewRunner(ctx context.Context, svc *Service, opts ...Option) *Runner {
	r := &Runner{
		ctx:         ctx,
		svc:         svc,
		logger:      slog.Default(),
		eventBuffer: DefaultEventBuffer,
		busy:        make(map[model.JobKind]bool),
		states:      make(map[model.JobKind]*model.JobState),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.events = make(chan model.StatusEvent, r.eventBuffer)
	return r
}

// Events returns the channel the interface loop reads status events from
func (r *Runner) Events() <-chan model.StatusEvent {
	return r.events
}

// Busy reports whether a job of kind is running
func (r *Runner) Busy(kind model.JobKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy[kind]
}

// State returns a snapshot of the latest job of kind
func (r *Runner) State(kind model.JobKind) model.JobState {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[kind]
	if !ok {
		return model.NewIdleState(kind)
	}
	snapshot := *state
	if state.Progress != nil {
		progress := *state.Progress
		snapshot.Progress = &progress
	}
	return snapshot
}

// Wait blocks until every started job has finished
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Run starts a background job of kind for target. When a job of the same
// kind is already running, Run does nothing and reports started=false.
func (r *Runner) Run(kind model.JobKind, target model.DownloadTarget) (jobID string, started bool) {
	target.Kind = kind

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.busy[kind] {
		r.logger.Debug("job already running", "kind", kind)
		return "", false
	}

	lock, err := r.acquireLock(kind)
	if err != nil {
		r.logger.Warn("job lock unavailable", "kind", kind, "error", err)
		return "", false
	}

	jobID = generateJobID()
	r.busy[kind] = true
	r.states[kind] = &model.JobState{
		JobID:     jobID,
		Kind:      kind,
		Status:    model.JobStatusRunning,
		Message:   startMessage(kind),
		Target:    &target,
		StartedAt: time.Now(),
	}

	r.logger.Info("job started", "job_id", jobID, "kind", kind, "url", target.URL)

	r.wg.Add(1)
	go r.work(jobID, target, lock)

	return jobID, true
}

func startMessage(kind model.JobKind) string {
	return fmt.Sprintf("Starting %s download in background...", kind.Label())
}

func (r *Runner) acquireLock(kind model.JobKind) (*flock.Flock, error) {
	if r.lockDir == "" {
		return nil, nil
	}
	if err := platform.CreateDirectoryIfNotExists(r.lockDir); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(filepath.Join(r.lockDir, kind.String()+LockFileExtension))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s job is running in another process", kind)
	}
	return lock, nil
}

// jobResult is the terminal notification of one job
type jobResult struct {
	status   model.JobStatus
	path     string
	message  string
	title    string
	prompt   string
	severity model.Severity
}

func (r *Runner) work(jobID string, target model.DownloadTarget, lock *flock.Flock) {
	defer r.wg.Done()

	kind := target.Kind
	r.emit(model.StatusEvent{JobID: jobID, Kind: kind, Type: model.EventEnabled, Enabled: false})
	r.emit(model.StatusEvent{JobID: jobID, Kind: kind, Type: model.EventMessage, Message: startMessage(kind), Status: model.JobStatusRunning})

	ctx := r.ctx
	if r.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.jobTimeout)
		defer cancel()
	}

	reporter := &jobReporter{runner: r, jobID: jobID, kind: kind}

	var result jobResult
	switch kind {
	case model.KindPlaylist:
		outcome, err := r.svc.DownloadPlaylist(ctx, target, reporter)
		result = playlistResult(outcome, err)
	default:
		outcome, err := r.svc.DownloadSingle(ctx, target, reporter)
		result = singleResult(outcome, err)
	}

	r.finish(jobID, kind, result)

	if lock != nil {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release job lock", "kind", kind, "error", err)
		}
	}

	r.mu.Lock()
	r.busy[kind] = false
	r.mu.Unlock()

	r.emit(model.StatusEvent{JobID: jobID, Kind: kind, Type: model.EventEnabled, Enabled: true})
}

func (r *Runner) finish(jobID string, kind model.JobKind, result jobResult) {
	var duration time.Duration
	r.mu.Lock()
	if state, ok := r.states[kind]; ok {
		state.Status = result.status
		state.Message = result.message
		state.OutputPath = result.path
		state.FinishedAt = time.Now()
		duration = state.Duration()
	}
	r.mu.Unlock()

	if result.status == model.JobStatusFailed {
		r.logger.Error("job failed", "job_id", jobID, "kind", kind, "duration", duration, "message", result.prompt)
	} else {
		r.logger.Info("job finished", "job_id", jobID, "kind", kind, "duration", duration)
	}

	r.emit(model.StatusEvent{JobID: jobID, Kind: kind, Type: model.EventMessage, Message: result.message, Status: result.status})
	r.emit(model.StatusEvent{
		JobID:    jobID,
		Kind:     kind,
		Type:     model.EventPrompt,
		Title:    result.title,
		Message:  result.prompt,
		Severity: result.severity,
		Status:   result.status,
	})
	r.emit(model.StatusEvent{JobID: jobID, Kind: kind, Type: model.EventFinished, Status: result.status})
}

func (r *Runner) emit(ev model.StatusEvent) {
	ev.Time = time.Now()
	select {
	case r.events <- ev:
	case <-r.ctx.Done():
	}
}

func singleResult(outcome *SingleOutcome, err error) jobResult {
	switch {
	case errors.Is(err, ErrStreamNotFound):
		return jobResult{
			status:   model.JobStatusFailed,
			message:  "Error: Stream not found.",
			title:    PromptError,
			prompt:   "Could not find a suitable stream.",
			severity: model.SeverityError,
		}
	case err != nil:
		return jobResult{
			status:   model.JobStatusFailed,
			message:  "Download FAILED: " + Truncate(err.Error(), StatusMessageLimit) + "...",
			title:    PromptDownloadError,
			prompt:   "An error occurred: " + err.Error(),
			severity: model.SeverityError,
		}
	}
	return jobResult{
		status:   model.JobStatusSucceeded,
		path:     outcome.Path,
		message:  fmt.Sprintf("Success! %s saved as %s in:\n%s", outcome.Label, outcome.FileName, outcome.Dir),
		title:    PromptDownloadComplete,
		prompt:   fmt.Sprintf("%s downloaded successfully!", outcome.Label),
		severity: model.SeverityInfo,
	}
}

// PlaylistCompleteText is the prompt shown after a successful playlist job
const PlaylistCompleteText = "All tracks in the playlist were downloaded successfully as MP3s!"

func playlistResult(outcome *PlaylistOutcome, err error) jobResult {
	if err != nil {
		return jobResult{
			status:   model.JobStatusFailed,
			message:  "Playlist Download FAILED: " + Truncate(err.Error(), StatusMessageLimit) + "...",
			title:    PromptPlaylistError,
			prompt:   "An error occurred during playlist download: " + err.Error(),
			severity: model.SeverityError,
		}
	}
	return jobResult{
		status:   model.JobStatusSucceeded,
		path:     outcome.Folder,
		message:  fmt.Sprintf("Playlist Download Complete! Saved %d MP3s to:\n%s", outcome.Total, outcome.Folder),
		title:    PromptPlaylistComplete,
		prompt:   PlaylistCompleteText,
		severity: model.SeverityInfo,
	}
}

// jobReporter forwards service progress to the event channel
type jobReporter struct {
	runner *Runner
	jobID  string
	kind   model.JobKind
}

func (j *jobReporter) Message(msg string) {
	j.runner.mu.Lock()
	if state, ok := j.runner.states[j.kind]; ok {
		state.Message = msg
	}
	j.runner.mu.Unlock()

	j.runner.emit(model.StatusEvent{JobID: j.jobID, Kind: j.kind, Type: model.EventMessage, Message: msg, Status: model.JobStatusRunning})
}

func (j *jobReporter) Progress(current, total int, msg string) {
	progress := model.Progress{Current: current, Total: total}

	j.runner.mu.Lock()
	if state, ok := j.runner.states[j.kind]; ok {
		state.Message = msg
		p := progress
		state.Progress = &p
	}
	j.runner.mu.Unlock()

	j.runner.emit(model.StatusEvent{
		JobID:    j.jobID,
		Kind:     j.kind,
		Type:     model.EventProgress,
		Message:  msg,
		Progress: &progress,
		Status:   model.JobStatusRunning,
	})
}

// generateJobID generates a time-ordered job ID
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
