package alerts_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"wardwatch/internal/alerts"
)

func TestDecodeVideoRelativeAlert(t *testing.T) {
	payload := []byte(`{
		"type": "FALL",
		"severity": "HIGH",
		"timestamp": 92.5,
		"frame": 463,
		"confidence": 0.87,
		"message": "Fall detected - Immediate attention required"
	}`)

	alert, err := alerts.Decode(payload)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if alert.Type != alerts.TypeFall {
		t.Fatalf("type: expected FALL, got %s", alert.Type)
	}
	if alert.Severity != alerts.SeverityHigh {
		t.Fatalf("severity: expected HIGH, got %s", alert.Severity)
	}
	if !alert.Timestamp.IsOffset() {
		t.Fatal("expected video-relative timestamp")
	}
	if got := alert.Timestamp.Offset(); got != 92*time.Second+500*time.Millisecond {
		t.Fatalf("offset: got %v", got)
	}
	if got := alert.Timestamp.Display(); got != "1:32" {
		t.Fatalf("display: expected 1:32, got %q", got)
	}
	if alert.Frame != 463 || alert.Confidence != 0.87 {
		t.Fatalf("optional fields not decoded: %+v", alert)
	}
}

func TestDecodeStreamAlertWithInstant(t *testing.T) {
	payload := []byte(`{
		"type": "BED_EXIT",
		"severity": "MEDIUM",
		"timestamp": "2026-03-14T09:26:53Z",
		"timestamp_iso": "2026-03-14T09:26:53.123456",
		"message": "Patient left the bed"
	}`)

	alert, err := alerts.Decode(payload)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if alert.Timestamp.IsOffset() {
		t.Fatal("expected absolute timestamp")
	}
	want := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	if !alert.Timestamp.Instant().Equal(want) {
		t.Fatalf("instant: got %v", alert.Timestamp.Instant())
	}
}

func TestDecodeRejectsMalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":         `{"type": "FALL"`,
		"unknown type":     `{"type": "LEVITATION", "severity": "HIGH", "timestamp": 1, "message": "x"}`,
		"unknown severity": `{"type": "FALL", "severity": "MAXIMAL", "timestamp": 1, "message": "x"}`,
		"missing message":  `{"type": "FALL", "severity": "HIGH", "timestamp": 1, "message": "  "}`,
	}
	for name, payload := range cases {
		if _, err := alerts.Decode([]byte(payload)); err == nil {
			t.Errorf("%s: expected decode error", name)
		}
	}

	_, err := alerts.Decode([]byte(`{"type": "FALL", "severity": "HIGH", "timestamp": 1, "message": ""}`))
	if !errors.Is(err, alerts.ErrInvalidAlert) {
		t.Fatalf("expected ErrInvalidAlert, got %v", err)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	offset := alerts.OffsetTimestamp(12.5)
	data, err := json.Marshal(offset)
	if err != nil {
		t.Fatalf("marshal offset: %v", err)
	}
	if string(data) != "12.5" {
		t.Fatalf("offset wire form: got %s", data)
	}

	instant := alerts.InstantTimestamp(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	data, err = json.Marshal(instant)
	if err != nil {
		t.Fatalf("marshal instant: %v", err)
	}
	var decoded alerts.Timestamp
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal instant: %v", err)
	}
	if decoded.IsOffset() || !decoded.Instant().Equal(instant.Instant()) {
		t.Fatalf("instant round trip: got %+v", decoded)
	}
}

func TestSeverityEscalates(t *testing.T) {
	escalating := map[alerts.Severity]bool{
		alerts.SeverityLow:      false,
		alerts.SeverityMedium:   false,
		alerts.SeverityHigh:     true,
		alerts.SeverityCritical: true,
	}
	for severity, want := range escalating {
		if got := severity.Escalates(); got != want {
			t.Errorf("%s: Escalates() = %v, want %v", severity, got, want)
		}
	}
}

func TestSummaryDefaultsMissingFieldsToZero(t *testing.T) {
	var summary alerts.Summary
	if err := json.Unmarshal([]byte(`{"fall_count": 2, "rapid_movement_count": 1}`), &summary); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if summary.FallCount != 2 || summary.RapidMovementCount != 1 {
		t.Fatalf("supplied counts lost: %+v", summary)
	}
	if summary.SeizureCount != 0 || summary.BedExitCount != 0 || summary.AbnormalPostureCount != 0 || summary.AbnormalBreathingCount != 0 {
		t.Fatalf("missing counts should default to zero: %+v", summary)
	}
	if summary.Total() != 3 {
		t.Fatalf("total: got %d", summary.Total())
	}
}

func TestSummaryForCountsEveryType(t *testing.T) {
	batch := []alerts.Alert{
		{Type: alerts.TypeFall},
		{Type: alerts.TypeFall},
		{Type: alerts.TypeSeizure},
		{Type: alerts.TypeAbnormalBreathing},
	}
	summary := alerts.SummaryFor(batch)
	if summary.FallCount != 2 || summary.SeizureCount != 1 || summary.AbnormalBreathingCount != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Total() != len(batch) {
		t.Fatalf("total %d != batch size %d", summary.Total(), len(batch))
	}
	for _, typ := range alerts.Types() {
		if summary.Count(typ) < 0 {
			t.Fatalf("negative count for %s", typ)
		}
	}
}
