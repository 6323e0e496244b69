package aggregate_test

import (
	"errors"
	"testing"

	"wardwatch/internal/aggregate"
	"wardwatch/internal/alerts"
	"wardwatch/internal/logging"
	"wardwatch/internal/rooms"
)

func newAggregator(t *testing.T) (*aggregate.Aggregator, *rooms.Registry) {
	t.Helper()
	registry, err := rooms.NewRegistry(rooms.DefaultDefinitions())
	if err != nil {
		t.Fatalf("NewRegistry error: %v", err)
	}
	return aggregate.New(registry, logging.NewNop()), registry
}

func makeAlert(typ alerts.Type, severity alerts.Severity, message string) alerts.Alert {
	return alerts.Alert{Type: typ, Severity: severity, Timestamp: alerts.OffsetTimestamp(1), Message: message}
}

func assertInvariant(t *testing.T, agg *aggregate.Aggregator) {
	t.Helper()
	log, stats := agg.Snapshot()
	if stats.Total != len(log) {
		t.Fatalf("invariant broken: total %d != log length %d", stats.Total, len(log))
	}
	if stats.Total != stats.Counts.Total() {
		t.Fatalf("invariant broken: total %d != counter sum %d", stats.Total, stats.Counts.Total())
	}
}

func TestIngestMaintainsInvariantAndOrder(t *testing.T) {
	agg, _ := newAggregator(t)

	a1 := makeAlert(alerts.TypeFall, alerts.SeverityHigh, "first")
	a2 := makeAlert(alerts.TypeRapidMovement, alerts.SeverityLow, "second")
	a3 := makeAlert(alerts.TypeSeizure, alerts.SeverityCritical, "third")

	for _, alert := range []alerts.Alert{a1, a2, a3} {
		if err := agg.Ingest(alert, 1); err != nil {
			t.Fatalf("Ingest error: %v", err)
		}
		assertInvariant(t, agg)
	}

	log, stats := agg.Snapshot()
	if len(log) != 3 {
		t.Fatalf("log length: got %d", len(log))
	}
	// Most recent first: [a3, a2, a1].
	if log[0].Message != "third" || log[1].Message != "second" || log[2].Message != "first" {
		t.Fatalf("unexpected order: %q, %q, %q", log[0].Message, log[1].Message, log[2].Message)
	}
	if stats.Counts.FallCount != 1 || stats.Counts.RapidMovementCount != 1 || stats.Counts.SeizureCount != 1 {
		t.Fatalf("unexpected counters: %+v", stats.Counts)
	}
}

func TestIngestUpdatesRoomAtomically(t *testing.T) {
	agg, registry := newAggregator(t)

	alert := makeAlert(alerts.TypeFall, alerts.SeverityHigh, "fall")
	if err := agg.Ingest(alert, 2); err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	room, _ := registry.Get(2)
	if room.Status != rooms.StatusAlert {
		t.Fatalf("room status: got %s", room.Status)
	}
	if room.LastAlert == nil || room.LastAlert.Message != "fall" {
		t.Fatal("last alert not recorded with ingest")
	}
}

func TestIngestUnknownRoomLeavesStateUntouched(t *testing.T) {
	agg, _ := newAggregator(t)

	err := agg.Ingest(makeAlert(alerts.TypeFall, alerts.SeverityHigh, "fall"), 99)
	if !errors.Is(err, rooms.ErrUnknownRoom) {
		t.Fatalf("expected ErrUnknownRoom, got %v", err)
	}

	log, stats := agg.Snapshot()
	if len(log) != 0 || stats.Total != 0 {
		t.Fatalf("failed ingest must not advance state: log=%d total=%d", len(log), stats.Total)
	}
}

func TestIngestRejectsInvalidAlert(t *testing.T) {
	agg, _ := newAggregator(t)
	err := agg.Ingest(alerts.Alert{Type: "BOGUS", Severity: alerts.SeverityLow, Message: "x"}, 1)
	if !errors.Is(err, alerts.ErrInvalidAlert) {
		t.Fatalf("expected ErrInvalidAlert, got %v", err)
	}
	assertInvariant(t, agg)
}

func TestClearThenIngestMatchesFreshAggregator(t *testing.T) {
	sequence := []alerts.Alert{
		makeAlert(alerts.TypeFall, alerts.SeverityHigh, "one"),
		makeAlert(alerts.TypeBedExit, alerts.SeverityMedium, "two"),
		makeAlert(alerts.TypeFall, alerts.SeverityLow, "three"),
		makeAlert(alerts.TypeAbnormalBreathing, alerts.SeverityCritical, "four"),
	}

	used, _ := newAggregator(t)
	for _, alert := range sequence {
		if err := used.Ingest(alert, 1); err != nil {
			t.Fatalf("Ingest error: %v", err)
		}
	}
	used.Clear()
	if _, stats := used.Snapshot(); stats.Total != 0 || stats.Counts.Total() != 0 {
		t.Fatalf("clear should zero everything: %+v", stats)
	}
	for _, alert := range sequence {
		if err := used.Ingest(alert, 1); err != nil {
			t.Fatalf("Ingest error: %v", err)
		}
	}

	fresh, _ := newAggregator(t)
	for _, alert := range sequence {
		if err := fresh.Ingest(alert, 1); err != nil {
			t.Fatalf("Ingest error: %v", err)
		}
	}

	usedLog, usedStats := used.Snapshot()
	freshLog, freshStats := fresh.Snapshot()
	if usedStats != freshStats {
		t.Fatalf("stats diverge: used %+v fresh %+v", usedStats, freshStats)
	}
	if len(usedLog) != len(freshLog) {
		t.Fatalf("log lengths diverge: %d vs %d", len(usedLog), len(freshLog))
	}
	for i := range usedLog {
		if usedLog[i].Message != freshLog[i].Message {
			t.Fatalf("log order diverges at %d: %q vs %q", i, usedLog[i].Message, freshLog[i].Message)
		}
	}
}

func TestClearLeavesRoomStatusUntouched(t *testing.T) {
	agg, registry := newAggregator(t)
	if err := agg.Ingest(makeAlert(alerts.TypeFall, alerts.SeverityHigh, "fall"), 2); err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	agg.Clear()
	room, _ := registry.Get(2)
	if room.Status != rooms.StatusAlert {
		t.Fatalf("clear must not reset room status, got %s", room.Status)
	}
}

func TestReplaceAllInstallsBatchWholesale(t *testing.T) {
	agg, _ := newAggregator(t)
	if err := agg.Ingest(makeAlert(alerts.TypeBedExit, alerts.SeverityLow, "live"), 1); err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	batch := []alerts.Alert{
		makeAlert(alerts.TypeFall, alerts.SeverityHigh, "batch fall"),
		makeAlert(alerts.TypeRapidMovement, alerts.SeverityLow, "batch movement"),
		makeAlert(alerts.TypeSeizure, alerts.SeverityCritical, "batch seizure"),
	}
	summary := alerts.SummaryFor(batch)
	agg.ReplaceAll(batch, &summary)

	log, stats := agg.Snapshot()
	if stats.Total != 3 {
		t.Fatalf("total: got %d", stats.Total)
	}
	if stats.Counts.FallCount != 1 {
		t.Fatalf("fall count: got %d", stats.Counts.FallCount)
	}
	if len(log) != 3 || log[0].Message != "batch fall" {
		t.Fatalf("batch should replace the log, not merge: %+v", log)
	}
	assertInvariant(t, agg)
}

func TestReplaceAllRecomputesInconsistentSummary(t *testing.T) {
	agg, _ := newAggregator(t)
	batch := []alerts.Alert{
		makeAlert(alerts.TypeFall, alerts.SeverityHigh, "one"),
		makeAlert(alerts.TypeFall, alerts.SeverityHigh, "two"),
	}
	wrong := alerts.Summary{FallCount: 9}
	agg.ReplaceAll(batch, &wrong)

	_, stats := agg.Snapshot()
	if stats.Counts.FallCount != 2 || stats.Total != 2 {
		t.Fatalf("inconsistent summary should be recomputed: %+v", stats)
	}
	assertInvariant(t, agg)
}

func TestReplaceAllWithNilSummary(t *testing.T) {
	agg, _ := newAggregator(t)
	batch := []alerts.Alert{makeAlert(alerts.TypeBedExit, alerts.SeverityMedium, "exit")}
	agg.ReplaceAll(batch, nil)

	_, stats := agg.Snapshot()
	if stats.Counts.BedExitCount != 1 || stats.Total != 1 {
		t.Fatalf("nil summary should be recomputed from batch: %+v", stats)
	}
}
