// Package report assembles and persists the per-repository result documents.
package report

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status classifies the outcome of one tool run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Section is one tool's slot in the combined report. Findings pass through
// the underlying tool's JSON untouched.
type Section struct {
	Status   Status          `json:"status"`
	Findings json.RawMessage `json:"findings,omitempty"`
	Count    int             `json:"finding_count"`
	Error    string          `json:"error,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

// Success wraps a tool's findings.
func Success(findings json.RawMessage, count int) *Section {
	return &Section{Status: StatusSuccess, Findings: findings, Count: count}
}

// Failf records a tool failure. The message ends up in the report, so it
// should be readable on its own.
func Failf(format string, args ...any) *Section {
	return &Section{Status: StatusFailed, Error: fmt.Sprintf(format, args...)}
}

// Skipped records a legitimate non-run, such as a missing manifest.
func Skipped(reason string) *Section {
	return &Section{Status: StatusSkipped, Reason: reason}
}

// Report is the combined per-repository document. Exactly one is written
// per repository per run.
type Report struct {
	Repository     string    `json:"repository"`
	SourceURL      string    `json:"source_url"`
	GeneratedAt    time.Time `json:"generated_at"`
	FetchError     string    `json:"fetch_error,omitempty"`
	StaticAnalysis *Section  `json:"static_analysis,omitempty"`
	DependencyScan *Section  `json:"dependency_scan,omitempty"`
}
