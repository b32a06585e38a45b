// Package report renders the end-of-run summary and the optional JSON
// report file.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loykin/esrun/internal/executor"
)

// Report captures everything about one run: identity, statistics and the
// ordered list of execution records.
type Report struct {
	RunID       string            `json:"run_id"`
	Environment string            `json:"environment"`
	Timestamp   time.Time         `json:"timestamp"`
	Statistics  executor.Stats    `json:"statistics"`
	Results     []executor.Record `json:"results"`
}

// New assembles a report for the given environment and results.
func New(environment string, stats executor.Stats, records []executor.Record) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		Environment: environment,
		Timestamp:   time.Now(),
		Statistics:  stats,
		Results:     records,
	}
}

// SuccessRate returns the percentage of successful operations, 0 when the
// run had none.
func (r *Report) SuccessRate() float64 {
	if r.Statistics.Total == 0 {
		return 0
	}
	return float64(r.Statistics.Successful) / float64(r.Statistics.Total) * 100
}

// Summary renders the human-readable console summary, including per-failure
// details.
func (r *Report) Summary() string {
	var b strings.Builder
	line := strings.Repeat("=", 60)
	b.WriteString(line + "\n")
	b.WriteString("EXECUTION SUMMARY\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Environment:      %s\n", r.Environment)
	fmt.Fprintf(&b, "Run ID:           %s\n", r.RunID)
	fmt.Fprintf(&b, "Total operations: %d\n", r.Statistics.Total)
	fmt.Fprintf(&b, "Successful:       %d\n", r.Statistics.Successful)
	fmt.Fprintf(&b, "Failed:           %d\n", r.Statistics.Failed)
	fmt.Fprintf(&b, "Skipped:          %d\n", r.Statistics.Skipped)
	if r.Statistics.Total > 0 {
		fmt.Fprintf(&b, "Success rate:     %.1f%%\n", r.SuccessRate())
	}

	var failed []executor.Record
	for _, rec := range r.Results {
		if rec.Status == executor.StatusFailed {
			failed = append(failed, rec)
		}
	}
	if len(failed) > 0 {
		b.WriteString("\nFailed operations:\n")
		for _, rec := range failed {
			fmt.Fprintf(&b, "  - %s from %s\n", rec.Operation, rec.Source)
			fmt.Fprintf(&b, "    Error: %s\n", rec.Error)
		}
	}
	b.WriteString(line + "\n")
	return b.String()
}

// Write serializes the report as indented JSON, creating parent directories
// as needed.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write report file %s: %w", path, err)
	}
	return nil
}
