package alerts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidAlert marks payloads that parsed as JSON but do not describe a
// usable alert.
var ErrInvalidAlert = errors.New("invalid alert")

// Type identifies the kind of clinical activity an alert describes.
type Type string

const (
	TypeFall              Type = "FALL"
	TypeRapidMovement     Type = "RAPID_MOVEMENT"
	TypeSeizure           Type = "SEIZURE"
	TypeBedExit           Type = "BED_EXIT"
	TypeAbnormalPosture   Type = "ABNORMAL_POSTURE"
	TypeAbnormalBreathing Type = "ABNORMAL_BREATHING"
)

// Types returns every known alert type in a stable order.
func Types() []Type {
	return []Type{
		TypeFall,
		TypeRapidMovement,
		TypeSeizure,
		TypeBedExit,
		TypeAbnormalPosture,
		TypeAbnormalBreathing,
	}
}

// Valid reports whether t is one of the known alert types.
func (t Type) Valid() bool {
	switch t {
	case TypeFall, TypeRapidMovement, TypeSeizure, TypeBedExit, TypeAbnormalPosture, TypeAbnormalBreathing:
		return true
	}
	return false
}

// Severity ranks how urgently an alert needs operator attention.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Escalates reports whether the severity drives a room into the alert state
// and warrants an audible notification.
func (s Severity) Escalates() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// Timestamp holds either a video-relative offset or an absolute instant.
// The zero value is an offset of zero seconds.
type Timestamp struct {
	offset  time.Duration
	instant time.Time
}

// OffsetTimestamp builds a video-relative timestamp from elapsed seconds.
func OffsetTimestamp(seconds float64) Timestamp {
	return Timestamp{offset: time.Duration(seconds * float64(time.Second))}
}

// InstantTimestamp builds an absolute stream-relative timestamp.
func InstantTimestamp(t time.Time) Timestamp {
	return Timestamp{instant: t}
}

// IsOffset reports whether the timestamp is video-relative.
func (ts Timestamp) IsOffset() bool { return ts.instant.IsZero() }

// Offset returns the video-relative elapsed time. Only meaningful when
// IsOffset is true.
func (ts Timestamp) Offset() time.Duration { return ts.offset }

// Instant returns the absolute instant. Only meaningful when IsOffset is
// false.
func (ts Timestamp) Instant() time.Time { return ts.instant }

// Display renders the timestamp for operators: m:ss for video offsets,
// local clock time for absolute instants.
func (ts Timestamp) Display() string {
	if ts.IsOffset() {
		total := int(ts.offset / time.Second)
		return fmt.Sprintf("%d:%02d", total/60, total%60)
	}
	return ts.instant.Local().Format("15:04:05")
}

// UnmarshalJSON accepts a JSON number (elapsed seconds) or a JSON string
// (RFC 3339 instant, with or without a zone offset).
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*ts = Timestamp{}
		return nil
	}
	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse timestamp: %w", err)
		}
		parsed, err := parseInstant(raw)
		if err != nil {
			return err
		}
		*ts = Timestamp{instant: parsed}
		return nil
	}
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}
	*ts = OffsetTimestamp(seconds)
	return nil
}

// MarshalJSON preserves the wire representation: numbers for offsets,
// RFC 3339 strings for instants.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsOffset() {
		return json.Marshal(ts.offset.Seconds())
	}
	return json.Marshal(ts.instant.Format(time.RFC3339Nano))
}

func parseInstant(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: unsupported format", raw)
}

// Alert is one detected clinical event. Immutable once created; log
// ordering is insertion order, most recent first.
type Alert struct {
	Type      Type      `json:"type"`
	Severity  Severity  `json:"severity"`
	Timestamp Timestamp `json:"timestamp"`
	Message   string    `json:"message"`

	// Optional fields depending on Type.
	Frame         int     `json:"frame,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
	Speed         float64 `json:"speed,omitempty"`
	Distance      float64 `json:"distance,omitempty"`
	PostureType   string  `json:"posture_type,omitempty"`
	BreathingRate float64 `json:"breathing_rate,omitempty"`
	Status        string  `json:"status,omitempty"`
}

// Validate ensures the alert carries a known type, a known severity, and a
// message.
func (a Alert) Validate() error {
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAlert, string(a.Type))
	}
	if !a.Severity.Valid() {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidAlert, string(a.Severity))
	}
	if strings.TrimSpace(a.Message) == "" {
		return fmt.Errorf("%w: empty message", ErrInvalidAlert)
	}
	return nil
}

// Decode parses one inbound payload into a validated Alert. Unknown fields
// (the backend attaches timestamp_iso on broadcast) are ignored.
func Decode(data []byte) (Alert, error) {
	var alert Alert
	if err := json.Unmarshal(data, &alert); err != nil {
		return Alert{}, fmt.Errorf("parse alert: %w", err)
	}
	if err := alert.Validate(); err != nil {
		return Alert{}, err
	}
	return alert, nil
}
