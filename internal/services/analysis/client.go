package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wardwatch/internal/alerts"
	"wardwatch/internal/services"
)

const userAgent = "Wardwatch-Go/0.1.0"

// Config describes how to reach the analysis backend.
type Config struct {
	BaseURL     string
	UploadPath  string
	ProcessPath string
	ComparePath string
	HealthPath  string
	Timeout     time.Duration
}

// Client talks to the analysis backend. It is stateless; one Client can be
// shared by every workflow.
type Client struct {
	base        *url.URL
	uploadPath  string
	processPath string
	comparePath string
	healthPath  string
	http        *http.Client
}

// NewClient validates the base URL and builds a client.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must use http or https, got %q", base.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	return &Client{
		base:        base,
		uploadPath:  defaultPath(cfg.UploadPath, "/api/upload-video"),
		processPath: defaultPath(cfg.ProcessPath, "/api/process-video"),
		comparePath: defaultPath(cfg.ComparePath, "/api/compare-ward-images"),
		healthPath:  defaultPath(cfg.HealthPath, "/api/health"),
		http:        &http.Client{Timeout: timeout},
	}, nil
}

func defaultPath(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
	Error    string `json:"error"`
}

type processResponse struct {
	Success         bool            `json:"success"`
	TotalFrames     int             `json:"total_frames"`
	ProcessedFrames int             `json:"processed_frames"`
	Alerts          []alerts.Alert  `json:"alerts"`
	Summary         *alerts.Summary `json:"summary"`
	Error           string          `json:"error"`
}

// ProcessResult is the successful outcome of a process-video request.
type ProcessResult struct {
	Alerts          []alerts.Alert
	Summary         *alerts.Summary
	TotalFrames     int
	ProcessedFrames int
}

// MissingPatient names one unoccupied bed in a comparison report.
type MissingPatient struct {
	BedNumber   string `json:"bed_number"`
	Description string `json:"description"`
}

// ComparisonResult is the backend's missing-patient report.
type ComparisonResult struct {
	Summary         string           `json:"summary"`
	TotalMissing    int              `json:"total_missing"`
	MissingPatients []MissingPatient `json:"missing_patients"`
}

type compareResponse struct {
	Success          bool              `json:"success"`
	ComparisonResult *ComparisonResult `json:"comparison_result"`
	Error            string            `json:"error"`
}

// UploadVideo transmits the file under multipart field "file" and returns
// the server-assigned filename for the processing stage.
func (c *Client) UploadVideo(ctx context.Context, path string) (string, error) {
	body, contentType, err := multipartBody(map[string]string{"file": path})
	if err != nil {
		return "", services.Wrap(services.ErrUploadFailed, "analysis", "upload", "read video", err)
	}

	var payload uploadResponse
	if err := c.post(ctx, c.endpoint(c.uploadPath), body, contentType, &payload,
		services.ErrUploadFailed, "upload"); err != nil {
		return "", err
	}
	if !payload.Success {
		return "", services.Wrap(services.ErrUploadRejected, "analysis", "upload", serverMessage(payload.Error), nil)
	}
	if strings.TrimSpace(payload.Filename) == "" {
		return "", services.Wrap(services.ErrUploadRejected, "analysis", "upload", "response missing filename", nil)
	}
	return payload.Filename, nil
}

// ProcessVideo requests processing of a previously uploaded file and
// returns the resulting alert batch.
func (c *Client) ProcessVideo(ctx context.Context, filename string) (ProcessResult, error) {
	endpoint := c.endpoint(c.processPath + "/" + url.PathEscape(filename))

	var payload processResponse
	if err := c.post(ctx, endpoint, nil, "application/json", &payload,
		services.ErrProcessingFailed, "process"); err != nil {
		return ProcessResult{}, err
	}
	if !payload.Success {
		return ProcessResult{}, services.Wrap(services.ErrProcessingRejected, "analysis", "process", serverMessage(payload.Error), nil)
	}
	return ProcessResult{
		Alerts:          payload.Alerts,
		Summary:         payload.Summary,
		TotalFrames:     payload.TotalFrames,
		ProcessedFrames: payload.ProcessedFrames,
	}, nil
}

// CompareWardImages submits both ward images in one request and returns the
// missing-patient report.
func (c *Client) CompareWardImages(ctx context.Context, imageA, imageB string) (ComparisonResult, error) {
	body, contentType, err := multipartBody(map[string]string{
		"image1": imageA,
		"image2": imageB,
	})
	if err != nil {
		return ComparisonResult{}, services.Wrap(services.ErrComparisonFailed, "analysis", "compare", "read images", err)
	}

	var payload compareResponse
	if err := c.post(ctx, c.endpoint(c.comparePath), body, contentType, &payload,
		services.ErrComparisonFailed, "compare"); err != nil {
		return ComparisonResult{}, err
	}
	if !payload.Success {
		return ComparisonResult{}, services.Wrap(services.ErrComparisonRejected, "analysis", "compare", serverMessage(payload.Error), nil)
	}
	if payload.ComparisonResult == nil {
		return ComparisonResult{}, services.Wrap(services.ErrComparisonRejected, "analysis", "compare", "response missing comparison result", nil)
	}
	return *payload.ComparisonResult, nil
}

// Health probes the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(c.healthPath), nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health probe: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("health probe returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	ref := &url.URL{Path: path}
	return c.base.ResolveReference(ref).String()
}

// post issues the request and decodes the JSON envelope. Transport-level
// problems (request error, non-2xx status, undecodable body) map to the
// provided failure sentinel.
func (c *Client) post(ctx context.Context, endpoint string, body io.Reader, contentType string, out any, failure error, operation string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return services.Wrap(failure, "analysis", operation, "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return services.Wrap(failure, "analysis", operation, "send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail := fmt.Sprintf("status %d", resp.StatusCode)
		if msg := envelopeError(resp.Body); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		return services.Wrap(failure, "analysis", operation, detail, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(failure, "analysis", operation, "decode response", err)
	}
	return nil
}

// envelopeError best-effort extracts the server's error message from a
// failed response body.
func envelopeError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var envelope struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &envelope) == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Detail != "" {
			return envelope.Detail
		}
	}
	return ""
}

func serverMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "server declined without a message"
	}
	return msg
}

func multipartBody(fields map[string]string) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for field, path := range fields {
		file, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", field, err)
		}
		part, err := writer.CreateFormFile(field, filepath.Base(path))
		if err != nil {
			file.Close()
			return nil, "", fmt.Errorf("create form file %s: %w", field, err)
		}
		if _, err := io.Copy(part, file); err != nil {
			file.Close()
			return nil, "", fmt.Errorf("copy %s: %w", field, err)
		}
		file.Close()
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}
