package model

import (
	"errors"
	"fmt"
	"strings"
)

// Integration errors
var (
	ErrCRMNotConfigured = errors.New("CRM API credentials not configured")
	ErrContactNotFound  = errors.New("contact not found")
)

// FieldError is a validation problem on one input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports bad input shape
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add records a field problem
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field problem was recorded
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// MissingAnswerError reports an unanswered question (1-indexed)
type MissingAnswerError struct {
	QuestionIndex int
	QuestionID    string
}

func (e *MissingAnswerError) Error() string {
	return fmt.Sprintf("please answer all questions before submitting: question %d is unanswered", e.QuestionIndex)
}

// ScrapeKind classifies a website fetch failure
type ScrapeKind string

const (
	ScrapeUnreachable ScrapeKind = "unreachable"
	ScrapeBlocked     ScrapeKind = "blocked"
	ScrapeNotFound    ScrapeKind = "not_found"
	ScrapeFailed      ScrapeKind = "scrape_error"
)

// ScrapeError is a failed website fetch or parse
type ScrapeError struct {
	Kind    ScrapeKind
	URL     string
	Message string
	Err     error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.URL, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.URL)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// ClassificationError is a failed or malformed AI classification
type ClassificationError struct {
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("brand classification failed: %s: %v", e.Reason, e.Err)
	}
	return "brand classification failed: " + e.Reason
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// ReportGenerationError is a failed or malformed AI report
type ReportGenerationError struct {
	Reason string
	Err    error
}

func (e *ReportGenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("report generation failed: %s: %v", e.Reason, e.Err)
	}
	return "report generation failed: " + e.Reason
}

func (e *ReportGenerationError) Unwrap() error { return e.Err }

// IntegrationError is a failed CRM or email call
type IntegrationError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *IntegrationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *IntegrationError) Unwrap() error { return e.Err }
