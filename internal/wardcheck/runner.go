package wardcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wardwatch/internal/services/analysis"
)

// ErrNotImage rejects files that are not still images. Checked before any
// network work.
var ErrNotImage = errors.New("not an image file")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
}

// Comparer is the backend surface the workflow drives.
type Comparer interface {
	CompareWardImages(ctx context.Context, imageA, imageB string) (analysis.ComparisonResult, error)
}

// Report is one completed occupancy check.
type Report struct {
	RunID       string
	CompletedAt time.Time
	Result      analysis.ComparisonResult
}

// AllPresent reports whether the check found every bed occupied.
func (r Report) AllPresent() bool {
	return r.Result.TotalMissing == 0 && len(r.Result.MissingPatients) == 0
}

// Runner executes occupancy checks.
type Runner struct {
	comparer Comparer
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.RWMutex
	latest *Report
}

// NewRunner builds a runner around the comparison backend.
func NewRunner(comparer Comparer, logger *slog.Logger) *Runner {
	return &Runner{comparer: comparer, logger: logger, now: time.Now}
}

// Run submits both ward images and records the report. A failed run leaves
// the previous report in place.
func (r *Runner) Run(ctx context.Context, imageA, imageB string) (Report, error) {
	for _, path := range []string{imageA, imageB} {
		if err := ValidateImagePath(path); err != nil {
			return Report{}, err
		}
	}

	runID := uuid.NewString()
	logger := r.logger.With(slog.String("run_id", runID))
	logger.Info("comparing ward images",
		slog.String("image1", filepath.Base(imageA)),
		slog.String("image2", filepath.Base(imageB)),
	)

	result, err := r.comparer.CompareWardImages(ctx, imageA, imageB)
	if err != nil {
		logger.Error("comparison failed", slog.Any("error", err))
		return Report{}, err
	}

	report := Report{RunID: runID, CompletedAt: r.now(), Result: result}

	r.mu.Lock()
	r.latest = &report
	r.mu.Unlock()

	logger.Info("comparison complete", slog.Int("missing", result.TotalMissing))
	return report, nil
}

// Latest returns the most recently completed report, if any.
func (r *Runner) Latest() (Report, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.latest == nil {
		return Report{}, false
	}
	return *r.latest, true
}

// ValidateImagePath checks the extension against the supported image
// formats.
func ValidateImagePath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !imageExtensions[ext] {
		return fmt.Errorf("%w: %s", ErrNotImage, filepath.Base(path))
	}
	return nil
}
