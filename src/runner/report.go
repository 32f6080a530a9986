package runner

import (
	"time"

	"github.com/google/uuid"
	"github.com/masnyjimmy/campaign-validator/src/validation"
)

type Summary struct {
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Total   int `json:"total"`
}

type FileResult struct {
	Name       string                 `json:"name"`
	Valid      bool                   `json:"valid"`
	Message    string                 `json:"message,omitempty"`
	Violations []validation.Violation `json:"violations,omitempty"`
}

// Report is the outcome of one run. Fatal is set when a prerequisite failed
// and no file was validated.
type Report struct {
	RunID     uuid.UUID    `json:"runId"`
	StartedAt time.Time    `json:"startedAt"`
	Fatal     string       `json:"fatal,omitempty"`
	Files     []FileResult `json:"files"`
	Summary   Summary      `json:"summary"`
}

func (r *Report) add(name string, result validation.Result) {
	file := FileResult{
		Name:    name,
		Valid:   result.Valid(),
		Message: result.Message(),
	}

	if violationErr, ok := result.Err.(*validation.ViolationError); ok {
		file.Violations = violationErr.Violations
	}

	r.Files = append(r.Files, file)
	r.Summary.Total++

	if file.Valid {
		r.Summary.Valid++
	} else {
		r.Summary.Invalid++
	}
}
