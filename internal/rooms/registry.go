package rooms

import (
	"errors"
	"fmt"
	"sync"

	"wardwatch/internal/alerts"
)

// ErrUnknownRoom marks operations that name a room outside the fixed set.
var ErrUnknownRoom = errors.New("unknown room")

// Status describes the monitoring condition of a room.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusMonitoring Status = "monitoring"
	StatusWarning    Status = "warning"
	StatusAlert      Status = "alert"
)

// Escalated reports whether the status represents an active severity state
// that must not be downgraded by media attachment.
func (s Status) Escalated() bool {
	return s == StatusWarning || s == StatusAlert
}

// Room is one monitored location. Copies returned by the registry are safe
// to retain.
type Room struct {
	ID        int
	Name      string
	Patient   string
	Status    Status
	Video     string
	LastAlert *alerts.Alert
}

// Definition seeds one room at construction time.
type Definition struct {
	ID         int
	Name       string
	Patient    string
	Monitoring bool
}

// DefaultDefinitions returns the reference four-room configuration.
func DefaultDefinitions() []Definition {
	return []Definition{
		{ID: 1, Name: "Room 101", Patient: "Patient A", Monitoring: true},
		{ID: 2, Name: "Room 102", Patient: "Patient B"},
		{ID: 3, Name: "Room 103", Patient: "Patient C"},
		{ID: 4, Name: "Room 104", Patient: "Patient D"},
	}
}

// Registry holds the room set. The set is fixed after construction; only
// status, video, and last-alert fields change.
type Registry struct {
	mu       sync.RWMutex
	order    []int
	rooms    map[int]*Room
	selected int
}

// NewRegistry builds a registry from definitions. The first room starts
// selected.
func NewRegistry(defs []Definition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, errors.New("registry requires at least one room")
	}
	r := &Registry{rooms: make(map[int]*Room, len(defs))}
	for _, def := range defs {
		if _, exists := r.rooms[def.ID]; exists {
			return nil, fmt.Errorf("duplicate room id %d", def.ID)
		}
		status := StatusNormal
		if def.Monitoring {
			status = StatusMonitoring
		}
		r.rooms[def.ID] = &Room{
			ID:      def.ID,
			Name:    def.Name,
			Patient: def.Patient,
			Status:  status,
		}
		r.order = append(r.order, def.ID)
	}
	r.selected = r.order[0]
	return r, nil
}

// Select moves the selection pointer. It changes no room state.
func (r *Registry) Select(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRoom, id)
	}
	r.selected = id
	return nil
}

// Selected returns the id of the currently selected room.
func (r *Registry) Selected() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selected
}

// Get returns a copy of the room with the given id.
func (r *Registry) Get(id int) (Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return Room{}, false
	}
	return *room, true
}

// Snapshot returns copies of every room in definition order.
func (r *Registry) Snapshot() []Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Room, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.rooms[id])
	}
	return out
}

// AttachMedia records a media reference and moves the room to monitoring.
// Rooms already in warning or alert keep their escalated status.
func (r *Registry) AttachMedia(id int, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRoom, id)
	}
	room.Video = ref
	if !room.Status.Escalated() {
		room.Status = StatusMonitoring
	}
	return nil
}

// ApplyAlertStatus escalates a room for one live alert: alert for HIGH or
// CRITICAL severity, warning otherwise, recording the alert as the room's
// most recent.
func (r *Registry) ApplyAlertStatus(id int, severity alerts.Severity, alert alerts.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRoom, id)
	}
	if severity.Escalates() {
		room.Status = StatusAlert
	} else {
		room.Status = StatusWarning
	}
	stored := alert
	room.LastAlert = &stored
	return nil
}

// ApplyBatchStatus records the outcome of a processed video batch. The
// escalation check keys on HIGH alone; the live-stream rule also escalates
// CRITICAL.
func (r *Registry) ApplyBatchStatus(id int, highSeverity bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRoom, id)
	}
	if highSeverity {
		room.Status = StatusAlert
	} else {
		room.Status = StatusWarning
	}
	return nil
}
