package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"wardwatch/internal/alerts"
	"wardwatch/internal/services/analysis"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Connection", statusError, "Error", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Connection:", "[ERROR] Error")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Connection", statusOK, "Connected", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestAlertTypeLabel(t *testing.T) {
	tests := []struct {
		in   alerts.Type
		want string
	}{
		{alerts.TypeFall, "Fall"},
		{alerts.TypeRapidMovement, "Rapid Movement"},
		{alerts.TypeBedExit, "Bed Exit"},
		{alerts.TypeAbnormalBreathing, "Abnormal Breathing"},
	}
	for _, tc := range tests {
		if got := alertTypeLabel(tc.in); got != tc.want {
			t.Errorf("alertTypeLabel(%s): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderAlertLine(t *testing.T) {
	alert := alerts.Alert{
		Type:      alerts.TypeFall,
		Severity:  alerts.SeverityHigh,
		Timestamp: alerts.OffsetTimestamp(75),
		Message:   "Fall detected",
	}
	got := renderAlertLine(alert, false)
	want := "[1:15] HIGH Fall - Fall detected"
	if got != want {
		t.Fatalf("renderAlertLine mismatch\n got: %q\nwant: %q", got, want)
	}

	colored := renderAlertLine(alert, true)
	if !strings.HasPrefix(colored, ansiRed) {
		t.Fatalf("high severity must color red, got %q", colored)
	}
}

func TestRenderSummarySkipsZeroCounters(t *testing.T) {
	summary := alerts.Summary{FallCount: 2, SeizureCount: 1}
	lines := renderSummary(summary)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Fall:") || !strings.Contains(joined, "Seizure:") {
		t.Fatalf("expected non-zero counters, got %q", joined)
	}
	if strings.Contains(joined, "Bed Exit:") {
		t.Fatalf("zero counters must be skipped, got %q", joined)
	}
	if !strings.Contains(lines[len(lines)-1], "Total:") || !strings.Contains(lines[len(lines)-1], "3") {
		t.Fatalf("expected trailing total, got %q", lines[len(lines)-1])
	}
}

func TestRenderComparisonAllPresent(t *testing.T) {
	var buf strings.Builder
	renderComparison(&buf, analysis.ComparisonResult{Summary: "All patients present"}, false)
	out := buf.String()
	if !strings.Contains(out, "[OK] All patients present") {
		t.Fatalf("expected all-present status, got %q", out)
	}
	if strings.Contains(out, "Bed") {
		t.Fatalf("all-present report must not render a bed table, got %q", out)
	}
}

func TestRenderComparisonMissingPatients(t *testing.T) {
	var buf strings.Builder
	renderComparison(&buf, analysis.ComparisonResult{
		Summary:      "2 beds empty",
		TotalMissing: 2,
		MissingPatients: []analysis.MissingPatient{
			{BedNumber: "Bed 3", Description: "Patient absent from bed"},
			{BedNumber: "Bed 7", Description: "Bed stripped and empty"},
		},
	}, false)
	out := buf.String()
	if !strings.Contains(out, "[ERROR] 2 patient(s) missing") {
		t.Fatalf("expected missing status line, got %q", out)
	}
	if !strings.Contains(out, "2 beds empty") {
		t.Fatalf("expected server summary, got %q", out)
	}
	if !strings.Contains(out, "Bed 3") || !strings.Contains(out, "Bed stripped and empty") {
		t.Fatalf("expected bed rows, got %q", out)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestRenderTableInfersNumericAlignment(t *testing.T) {
	out := renderTable(
		[]string{"ID", "Room"},
		[][]string{{"1", "Room 101"}, {"10", "Room 110"}},
	)
	if !strings.Contains(out, "  1 │") || !strings.Contains(out, " 10 │") {
		t.Fatalf("integer column not right aligned:\n%s", out)
	}
	if !strings.Contains(out, "│ Room 101 │") {
		t.Fatalf("text column not left aligned:\n%s", out)
	}
}

func TestRenderTableExplicitAlignmentWins(t *testing.T) {
	out := renderTable(
		[]string{"Count"},
		[][]string{{"7"}},
		alignLeft,
	)
	if !strings.Contains(out, "│ 7     │") {
		t.Fatalf("explicit alignment ignored:\n%s", out)
	}
}
