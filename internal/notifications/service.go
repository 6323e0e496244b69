package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wardwatch/internal/alerts"
	"wardwatch/internal/config"
	"wardwatch/internal/services/analysis"
)

const userAgent = "Wardwatch-Go/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyAlert(ctx context.Context, roomName string, alert alerts.Alert) error
	NotifyAnalysisComplete(ctx context.Context, filename string, summary alerts.Summary) error
	NotifyMissingPatients(ctx context.Context, result analysis.ComparisonResult) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyAlert(ctx context.Context, roomName string, alert alerts.Alert) error {
	roomName = strings.TrimSpace(roomName)
	if roomName == "" {
		roomName = "unknown room"
	}
	message := fmt.Sprintf("🚨 %s: %s [%s]", roomName, strings.TrimSpace(alert.Message), alert.Severity)
	data := payload{
		title:    "Wardwatch - Patient Alert",
		message:  message,
		tags:     []string{"wardwatch", "alert", strings.ToLower(string(alert.Type))},
		priority: "high",
	}
	if alert.Severity == alerts.SeverityCritical {
		data.priority = "urgent"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAnalysisComplete(ctx context.Context, filename string, summary alerts.Summary) error {
	filename = strings.TrimSpace(filename)
	message := fmt.Sprintf("🎞️ Analysis complete: %s\n%d events detected", filename, summary.Total())
	data := payload{
		title:   "Wardwatch - Analysis Complete",
		message: message,
		tags:    []string{"wardwatch", "analysis", "completed"},
	}
	if summary.Total() > 0 {
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyMissingPatients(ctx context.Context, result analysis.ComparisonResult) error {
	if result.TotalMissing == 0 && len(result.MissingPatients) == 0 {
		data := payload{
			title:   "Wardwatch - Ward Check",
			message: "✅ All patients present",
			tags:    []string{"wardwatch", "wardcheck", "clear"},
		}
		return n.send(ctx, data)
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "⚠️ %d patient(s) missing", result.TotalMissing)
	for _, missing := range result.MissingPatients {
		builder.WriteString("\n")
		builder.WriteString(missing.BedNumber)
		if desc := strings.TrimSpace(missing.Description); desc != "" {
			builder.WriteString(": ")
			builder.WriteString(desc)
		}
	}
	data := payload{
		title:    "Wardwatch - Missing Patients",
		message:  builder.String(),
		tags:     []string{"wardwatch", "wardcheck", "missing"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Wardwatch - Error",
		message:  builder.String(),
		tags:     []string{"wardwatch", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Wardwatch - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"wardwatch", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyAlert(context.Context, string, alerts.Alert) error              { return nil }
func (noopService) NotifyAnalysisComplete(context.Context, string, alerts.Summary) error { return nil }
func (noopService) NotifyMissingPatients(context.Context, analysis.ComparisonResult) error {
	return nil
}
func (noopService) NotifyError(context.Context, error, string) error { return nil }
func (noopService) TestNotification(context.Context) error           { return nil }
