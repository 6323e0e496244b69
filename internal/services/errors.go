package services

import (
	"errors"
	"fmt"
	"strings"
)

// Transport faults: the request never reached a server decision.
var (
	ErrUploadFailed     = errors.New("upload failed")
	ErrProcessingFailed = errors.New("processing failed")
	ErrComparisonFailed = errors.New("comparison failed")
)

// Application faults: the server answered and explicitly declined.
var (
	ErrUploadRejected     = errors.New("upload rejected")
	ErrProcessingRejected = errors.New("processing rejected")
	ErrComparisonRejected = errors.New("comparison rejected")
)

// Wrap builds an error that includes component and operation context while
// tagging it with the provided marker for later classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUploadFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Rejected reports whether err is a server-reported application fault
// rather than a transport fault.
func Rejected(err error) bool {
	return errors.Is(err, ErrUploadRejected) ||
		errors.Is(err, ErrProcessingRejected) ||
		errors.Is(err, ErrComparisonRejected)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
