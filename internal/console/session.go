package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"wardwatch/internal/aggregate"
	"wardwatch/internal/alerts"
	"wardwatch/internal/config"
	"wardwatch/internal/notifications"
	"wardwatch/internal/rooms"
	"wardwatch/internal/stream"
)

// Session coordinates the live monitoring loop and enforces single-instance
// execution.
type Session struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *rooms.Registry
	agg      *aggregate.Aggregator
	notifier notifications.Service

	client *stream.Client
	sub    *stream.Subscription

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents session runtime information.
type Status struct {
	Running      bool
	Connection   stream.State
	Rooms        []rooms.Room
	SelectedRoom int
	Stats        aggregate.Stats
	LockFilePath string
}

// Options carries session construction parameters.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *rooms.Registry
	Agg      *aggregate.Aggregator
	Notifier notifications.Service
	// Dial overrides the push-channel dialer. Used by tests.
	Dial stream.DialFunc
	// OnAlert, when set, observes each ingested alert after room and log
	// updates have been applied.
	OnAlert func(alerts.Alert, rooms.Room)
	// OnStateChange observes connection-state transitions.
	OnStateChange func(stream.State)
}

// New constructs a session with initialized dependencies.
func New(opts Options) (*Session, error) {
	if opts.Config == nil || opts.Logger == nil || opts.Registry == nil || opts.Agg == nil {
		return nil, errors.New("session requires config, logger, registry, and aggregator")
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(opts.Config)
	}

	lockPath := filepath.Join(opts.Config.Paths.LogDir, "wardwatch.lock")
	s := &Session{
		cfg:      opts.Config,
		logger:   opts.Logger,
		registry: opts.Registry,
		agg:      opts.Agg,
		notifier: notifier,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	wsURL, err := opts.Config.WebSocketURL()
	if err != nil {
		return nil, fmt.Errorf("derive push-channel url: %w", err)
	}

	client, err := stream.New(stream.Options{
		URL:            wsURL,
		ReconnectDelay: opts.Config.ReconnectDelay(),
		Logger:         opts.Logger,
		Dial:           opts.Dial,
		OnStateChange:  opts.OnStateChange,
		OnAlert: func(alert alerts.Alert) {
			s.handleAlert(alert, opts.OnAlert)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build push-channel client: %w", err)
	}
	s.client = client
	return s, nil
}

// Start acquires the session lock and opens the push channel.
func (s *Session) Start(ctx context.Context) error {
	if s.running.Load() {
		return errors.New("session already running")
	}

	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another wardwatch console is already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	sub, err := s.client.Start(ctx)
	if err != nil {
		_ = s.lock.Unlock()
		cancel()
		return fmt.Errorf("start push channel: %w", err)
	}
	s.cancel = cancel
	s.sub = sub

	s.running.Store(true)
	s.logger.Info("wardwatch console started", slog.String("lock", s.lockPath))
	return nil
}

// Stop closes the push channel and releases the session lock.
func (s *Session) Stop() {
	if !s.running.Load() {
		return
	}

	if s.sub != nil {
		s.sub.Stop()
		s.sub = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("failed to release session lock", slog.Any("error", err))
	}
	s.running.Store(false)
	s.logger.Info("wardwatch console stopped")
}

// SelectRoom moves the selection pointer. Subsequent live alerts attach to
// the newly selected room.
func (s *Session) SelectRoom(id int) error {
	return s.registry.Select(id)
}

// ClearAlerts empties the alert log and counters. Room escalation is left
// as the stream last set it.
func (s *Session) ClearAlerts() {
	s.agg.Clear()
	s.logger.Info("alert log cleared")
}

// ConnectionState returns the push channel's current state.
func (s *Session) ConnectionState() stream.State {
	return s.client.State()
}

// Status returns the current session status.
func (s *Session) Status() Status {
	return Status{
		Running:      s.running.Load(),
		Connection:   s.client.State(),
		Rooms:        s.registry.Snapshot(),
		SelectedRoom: s.registry.Selected(),
		Stats:        s.agg.Stats(),
		LockFilePath: s.lockPath,
	}
}

// handleAlert attributes one live alert to the currently selected room,
// records it, and fires the escalation notification when warranted.
func (s *Session) handleAlert(alert alerts.Alert, observer func(alerts.Alert, rooms.Room)) {
	target := s.registry.Selected()
	if err := s.agg.Ingest(alert, target); err != nil {
		s.logger.Warn("dropping live alert",
			slog.String("type", string(alert.Type)),
			slog.Int("room", target),
			slog.Any("error", err),
		)
		return
	}

	room, _ := s.registry.Get(target)
	if alert.Severity.Escalates() {
		if err := s.notifier.NotifyAlert(context.Background(), room.Name, alert); err != nil {
			s.logger.Warn("alert notification failed", slog.Any("error", err))
		}
	}
	if observer != nil {
		observer(alert, room)
	}
}
