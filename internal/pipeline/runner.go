package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"wardwatch/internal/alerts"
	"wardwatch/internal/services/analysis"
)

var (
	// ErrBusy rejects a run while another run is still in flight.
	ErrBusy = errors.New("analysis run already in progress")
	// ErrNotVideo rejects files that are not video recordings. Checked
	// before any network work.
	ErrNotVideo = errors.New("not a video file")
)

// videoExtensions are the recording containers the backend accepts.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

// State names the phase a run is in.
type State string

const (
	StateIdle       State = "idle"
	StateUploading  State = "uploading"
	StateProcessing State = "processing"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Analyzer is the backend surface the pipeline drives.
type Analyzer interface {
	UploadVideo(ctx context.Context, path string) (string, error)
	ProcessVideo(ctx context.Context, filename string) (analysis.ProcessResult, error)
}

// MediaRegistry receives the per-room side effects of a run.
type MediaRegistry interface {
	AttachMedia(id int, ref string) error
	ApplyBatchStatus(id int, highSeverity bool) error
}

// BatchSink installs a processed batch wholesale.
type BatchSink interface {
	ReplaceAll(batch []alerts.Alert, summary *alerts.Summary)
}

// Progress reports phase transitions for display.
type Progress func(state State)

// Result is the outcome of one successful run.
type Result struct {
	RunID           string
	Filename        string
	Alerts          []alerts.Alert
	Summary         alerts.Summary
	TotalFrames     int
	ProcessedFrames int
	// HighSeverity reports whether the batch contained a HIGH alert. The
	// batch escalation rule keys on HIGH alone, unlike the live stream.
	HighSeverity bool
}

// Runner executes analysis runs one at a time.
type Runner struct {
	analyzer Analyzer
	registry MediaRegistry
	sink     BatchSink
	logger   *slog.Logger

	mu    sync.Mutex
	state State
	busy  bool
}

// NewRunner builds a runner. All dependencies are required.
func NewRunner(analyzer Analyzer, registry MediaRegistry, sink BatchSink, logger *slog.Logger) *Runner {
	return &Runner{
		analyzer: analyzer,
		registry: registry,
		sink:     sink,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns the phase of the current or most recent run.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Run uploads path and processes the result for the given room. It returns
// ErrBusy when a run is already in flight and ErrNotVideo before any network
// work for unsupported files. Room state and the alert log are only
// touched once both stages have succeeded.
func (r *Runner) Run(ctx context.Context, path string, roomID int, progress Progress) (Result, error) {
	if err := ValidateVideoPath(path); err != nil {
		return Result{}, err
	}

	if !r.acquire() {
		return Result{}, ErrBusy
	}
	defer r.release()

	runID := uuid.NewString()
	logger := r.logger.With(slog.String("run_id", runID), slog.Int("room", roomID))

	r.transition(StateUploading, progress)
	logger.Info("uploading recording", slog.String("path", filepath.Base(path)))

	filename, err := r.analyzer.UploadVideo(ctx, path)
	if err != nil {
		r.transition(StateFailed, progress)
		logger.Error("upload failed", slog.Any("error", err))
		return Result{}, err
	}
	logger.Info("recording uploaded", slog.String("filename", filename))

	r.transition(StateProcessing, progress)

	processed, err := r.analyzer.ProcessVideo(ctx, filename)
	if err != nil {
		// Room state and the alert log stay exactly as they were.
		r.transition(StateFailed, progress)
		logger.Error("processing failed", slog.Any("error", err))
		return Result{}, err
	}

	summary := alerts.SummaryFor(processed.Alerts)
	if processed.Summary != nil {
		summary = *processed.Summary
	}
	high := containsHigh(processed.Alerts)

	// Side effects only once both stages have succeeded. Attach before the
	// log swap so an unknown room leaves the log untouched too.
	if err := r.registry.AttachMedia(roomID, filename); err != nil {
		r.transition(StateFailed, progress)
		return Result{}, fmt.Errorf("attach recording to room: %w", err)
	}
	r.sink.ReplaceAll(processed.Alerts, processed.Summary)
	if err := r.registry.ApplyBatchStatus(roomID, high); err != nil {
		r.transition(StateFailed, progress)
		return Result{}, fmt.Errorf("apply batch status: %w", err)
	}

	r.transition(StateSucceeded, progress)
	logger.Info("processing complete",
		slog.Int("alerts", len(processed.Alerts)),
		slog.Bool("high_severity", high),
	)

	return Result{
		RunID:           runID,
		Filename:        filename,
		Alerts:          processed.Alerts,
		Summary:         summary,
		TotalFrames:     processed.TotalFrames,
		ProcessedFrames: processed.ProcessedFrames,
		HighSeverity:    high,
	}, nil
}

// ValidateVideoPath checks the extension against the supported containers.
func ValidateVideoPath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !videoExtensions[ext] {
		return fmt.Errorf("%w: %s", ErrNotVideo, filepath.Base(path))
	}
	return nil
}

func containsHigh(batch []alerts.Alert) bool {
	for _, alert := range batch {
		if alert.Severity == alerts.SeverityHigh {
			return true
		}
	}
	return false
}

func (r *Runner) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return false
	}
	r.busy = true
	return true
}

func (r *Runner) release() {
	r.mu.Lock()
	r.busy = false
	r.mu.Unlock()
}

func (r *Runner) transition(state State, progress Progress) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
	if progress != nil {
		progress(state)
	}
}
