package services_test

import (
	"errors"
	"strings"
	"testing"

	"wardwatch/internal/services"
)

func TestWrapTagsMarkerAndContext(t *testing.T) {
	cause := errors.New("connection refused")
	err := services.Wrap(services.ErrUploadFailed, "analysis", "upload", "POST /api/upload-video", cause)

	if !errors.Is(err, services.ErrUploadFailed) {
		t.Fatalf("marker lost: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
	for _, fragment := range []string{"analysis", "upload", "connection refused"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("error message missing %q: %v", fragment, err)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrComparisonRejected, "analysis", "compare", "GEMINI_API_KEY not set", nil)
	if !errors.Is(err, services.ErrComparisonRejected) {
		t.Fatalf("marker lost: %v", err)
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY not set") {
		t.Fatalf("server message lost: %v", err)
	}
}

func TestRejectedClassification(t *testing.T) {
	rejected := []error{
		services.Wrap(services.ErrUploadRejected, "analysis", "upload", "bad file", nil),
		services.Wrap(services.ErrProcessingRejected, "analysis", "process", "not found", nil),
		services.Wrap(services.ErrComparisonRejected, "analysis", "compare", "declined", nil),
	}
	for _, err := range rejected {
		if !services.Rejected(err) {
			t.Errorf("expected rejected classification: %v", err)
		}
	}

	transport := []error{
		services.Wrap(services.ErrUploadFailed, "analysis", "upload", "status 502", nil),
		services.Wrap(services.ErrProcessingFailed, "analysis", "process", "timeout", nil),
		services.Wrap(services.ErrComparisonFailed, "analysis", "compare", "refused", nil),
	}
	for _, err := range transport {
		if services.Rejected(err) {
			t.Errorf("transport fault misclassified as rejected: %v", err)
		}
	}
}
