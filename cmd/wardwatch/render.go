package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"wardwatch/internal/alerts"
	"wardwatch/internal/services/analysis"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

var titleCaser = cases.Title(language.English)

// alertTypeLabel renders a wire alert type for operators: FALL becomes Fall,
// RAPID_MOVEMENT becomes Rapid Movement.
func alertTypeLabel(t alerts.Type) string {
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(string(t), "_", " ")))
}

func severityKind(severity alerts.Severity) statusKind {
	switch severity {
	case alerts.SeverityCritical, alerts.SeverityHigh:
		return statusError
	case alerts.SeverityMedium:
		return statusWarn
	default:
		return statusInfo
	}
}

// renderAlertLine formats one alert for the live feed and the batch listing.
func renderAlertLine(alert alerts.Alert, colorize bool) string {
	line := fmt.Sprintf("[%s] %s %s - %s",
		alert.Timestamp.Display(),
		alert.Severity,
		alertTypeLabel(alert.Type),
		alert.Message,
	)
	if colorize {
		if color := statusKindColor(severityKind(alert.Severity)); color != "" {
			return color + line + ansiReset
		}
	}
	return line
}

// renderAlertRows builds table rows for an alert batch, most recent first.
func renderAlertRows(batch []alerts.Alert) [][]string {
	rows := make([][]string, 0, len(batch))
	for _, alert := range batch {
		rows = append(rows, []string{
			alert.Timestamp.Display(),
			alertTypeLabel(alert.Type),
			string(alert.Severity),
			alert.Message,
		})
	}
	return rows
}

// renderSummary lists the per-type counters that are non-zero, in a stable
// order, followed by the total.
func renderSummary(summary alerts.Summary) []string {
	var lines []string
	for _, t := range alerts.Types() {
		if count := summary.Count(t); count > 0 {
			lines = append(lines, fmt.Sprintf("%s%-20s %d", statusIndent, alertTypeLabel(t)+":", count))
		}
	}
	lines = append(lines, fmt.Sprintf("%s%-20s %d", statusIndent, "Total:", summary.Total()))
	return lines
}

// renderComparison formats a ward-check report. A report with no missing
// patients renders the all-present terminal state.
func renderComparison(w io.Writer, result analysis.ComparisonResult, colorize bool) {
	if result.TotalMissing == 0 && len(result.MissingPatients) == 0 {
		fmt.Fprintln(w, renderStatusLine("Ward check", statusOK, "All patients present", colorize))
		return
	}

	fmt.Fprintln(w, renderStatusLine("Ward check", statusError,
		fmt.Sprintf("%d patient(s) missing", result.TotalMissing), colorize))
	if summary := strings.TrimSpace(result.Summary); summary != "" {
		fmt.Fprintf(w, "%s%s\n", statusIndent, summary)
	}
	if len(result.MissingPatients) > 0 {
		rows := make([][]string, 0, len(result.MissingPatients))
		for _, missing := range result.MissingPatients {
			rows = append(rows, []string{missing.BedNumber, missing.Description})
		}
		fmt.Fprintln(w, renderTable(
			[]string{"Bed", "Observation"},
			rows,
			alignLeft, alignLeft,
		))
	}
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
