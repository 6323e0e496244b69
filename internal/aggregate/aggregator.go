package aggregate

import (
	"log/slog"
	"sync"

	"wardwatch/internal/alerts"
)

// StatusApplier is the narrow slice of the room registry the aggregator
// drives. The aggregator never mutates room state directly.
type StatusApplier interface {
	ApplyAlertStatus(id int, severity alerts.Severity, alert alerts.Alert) error
}

// Stats mirrors the alert log: a total plus per-type counts.
type Stats struct {
	Total  int
	Counts alerts.Summary
}

// Aggregator consumes alert events and maintains the session's alert log,
// most recent first.
type Aggregator struct {
	roomStatus StatusApplier
	logger     *slog.Logger

	mu    sync.RWMutex
	log   []alerts.Alert
	stats Stats
}

// New constructs an aggregator that reports room escalations through
// roomStatus.
func New(roomStatus StatusApplier, logger *slog.Logger) *Aggregator {
	return &Aggregator{roomStatus: roomStatus, logger: logger}
}

// Ingest records one live alert: prepend to the log, bump the counters, and
// escalate the target room, all in one critical section. When the room
// update fails nothing else is applied.
func (a *Aggregator) Ingest(alert alerts.Alert, targetRoomID int) error {
	if err := alert.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.roomStatus.ApplyAlertStatus(targetRoomID, alert.Severity, alert); err != nil {
		return err
	}

	a.log = append([]alerts.Alert{alert}, a.log...)
	a.stats.Total++
	a.stats.Counts.Add(alert.Type)

	a.logger.Debug("alert ingested",
		slog.String("type", string(alert.Type)),
		slog.String("severity", string(alert.Severity)),
		slog.Int("room", targetRoomID),
		slog.Int("total", a.stats.Total),
	)
	return nil
}

// ReplaceAll discards the current log and counters and installs a
// server-computed batch wholesale. A missing or inconsistent summary is
// recomputed from the batch so the stats invariant keeps holding.
func (a *Aggregator) ReplaceAll(batch []alerts.Alert, summary *alerts.Summary) {
	counts := alerts.SummaryFor(batch)
	if summary != nil && summary.Total() == len(batch) {
		counts = *summary
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.log = make([]alerts.Alert, len(batch))
	copy(a.log, batch)
	a.stats = Stats{Total: len(batch), Counts: counts}

	a.logger.Info("alert log replaced", slog.Int("alerts", len(batch)))
}

// Clear empties the log and zeroes the counters. Room status is left
// untouched.
func (a *Aggregator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log = nil
	a.stats = Stats{}
}

// Snapshot returns a copy of the log (most recent first) and the stats.
func (a *Aggregator) Snapshot() ([]alerts.Alert, Stats) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	log := make([]alerts.Alert, len(a.log))
	copy(log, a.log)
	return log, a.stats
}

// Stats returns the current counters without copying the log.
func (a *Aggregator) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}
