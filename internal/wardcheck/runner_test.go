package wardcheck_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"wardwatch/internal/logging"
	"wardwatch/internal/services"
	"wardwatch/internal/services/analysis"
	"wardwatch/internal/wardcheck"
)

type fakeComparer struct {
	mu      sync.Mutex
	results []analysis.ComparisonResult
	errs    []error
	gates   []chan struct{}
	calls   int
}

func (f *fakeComparer) CompareWardImages(ctx context.Context, a, b string) (analysis.ComparisonResult, error) {
	f.mu.Lock()
	n := f.calls
	f.calls++
	var gate chan struct{}
	if n < len(f.gates) {
		gate = f.gates[n]
	}
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if n < len(f.errs) && f.errs[n] != nil {
		return analysis.ComparisonResult{}, f.errs[n]
	}
	if n < len(f.results) {
		return f.results[n], nil
	}
	return analysis.ComparisonResult{Summary: "All patients present"}, nil
}

func TestRunRejectsNonImageBeforeNetwork(t *testing.T) {
	comparer := &fakeComparer{}
	runner := wardcheck.NewRunner(comparer, logging.NewNop())

	_, err := runner.Run(context.Background(), "/tmp/before.mp4", "/tmp/after.jpg")
	if !errors.Is(err, wardcheck.ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	_, err = runner.Run(context.Background(), "/tmp/before.jpg", "/tmp/after.pdf")
	if !errors.Is(err, wardcheck.ErrNotImage) {
		t.Fatalf("expected ErrNotImage for second image, got %v", err)
	}
	if comparer.calls != 0 {
		t.Fatalf("comparison attempted for non-image: %d calls", comparer.calls)
	}
}

func TestRunRecordsLatestReport(t *testing.T) {
	comparer := &fakeComparer{results: []analysis.ComparisonResult{{
		Summary:      "1 bed empty",
		TotalMissing: 1,
		MissingPatients: []analysis.MissingPatient{
			{BedNumber: "Bed 2", Description: "Patient absent from bed"},
		},
	}}}
	runner := wardcheck.NewRunner(comparer, logging.NewNop())

	if _, ok := runner.Latest(); ok {
		t.Fatal("fresh runner must have no report")
	}

	report, err := runner.Run(context.Background(), "/tmp/before.jpg", "/tmp/after.png")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.AllPresent() {
		t.Fatal("report with a missing patient must not read as all present")
	}

	latest, ok := runner.Latest()
	if !ok || latest.Result.TotalMissing != 1 {
		t.Fatalf("latest report: got %+v, ok=%v", latest, ok)
	}
	if latest.CompletedAt.IsZero() {
		t.Fatal("completion time not recorded")
	}
}

func TestFailedRunKeepsPreviousReport(t *testing.T) {
	comparer := &fakeComparer{
		results: []analysis.ComparisonResult{{Summary: "All patients present"}},
		errs:    []error{nil, services.Wrap(services.ErrComparisonRejected, "analysis", "compare", "GEMINI_API_KEY not set", nil)},
	}
	runner := wardcheck.NewRunner(comparer, logging.NewNop())

	first, err := runner.Run(context.Background(), "/tmp/a.jpg", "/tmp/b.jpg")
	if err != nil {
		t.Fatalf("first run error: %v", err)
	}
	if !first.AllPresent() {
		t.Fatalf("expected all-present report: %+v", first)
	}

	_, err = runner.Run(context.Background(), "/tmp/a.jpg", "/tmp/b.jpg")
	if !errors.Is(err, services.ErrComparisonRejected) {
		t.Fatalf("expected ErrComparisonRejected, got %v", err)
	}

	latest, ok := runner.Latest()
	if !ok || latest.RunID != first.RunID {
		t.Fatalf("failed run displaced previous report: %+v", latest)
	}
}

func TestOverlappingRunsLastCompletionWins(t *testing.T) {
	firstGate := make(chan struct{})
	comparer := &fakeComparer{
		gates: []chan struct{}{firstGate, nil},
		results: []analysis.ComparisonResult{
			{Summary: "first", TotalMissing: 1, MissingPatients: []analysis.MissingPatient{{BedNumber: "Bed 1"}}},
			{Summary: "second"},
		},
	}
	runner := wardcheck.NewRunner(comparer, logging.NewNop())

	firstDone := make(chan wardcheck.Report, 1)
	go func() {
		report, err := runner.Run(context.Background(), "/tmp/a.jpg", "/tmp/b.jpg")
		if err != nil {
			t.Errorf("first run error: %v", err)
		}
		firstDone <- report
	}()

	// Wait until the first run is blocked inside the backend call.
	for {
		comparer.mu.Lock()
		started := comparer.calls >= 1
		comparer.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// The second run starts later but completes first.
	if _, err := runner.Run(context.Background(), "/tmp/a.jpg", "/tmp/b.jpg"); err != nil {
		t.Fatalf("second run error: %v", err)
	}

	close(firstGate)
	<-firstDone

	latest, ok := runner.Latest()
	if !ok || latest.Result.Summary != "first" {
		t.Fatalf("last completion must win: got %+v", latest)
	}
}
