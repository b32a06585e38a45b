package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loykin/esrun/internal/executor"
)

func sampleRecords() ([]executor.Record, executor.Stats) {
	records := []executor.Record{
		{Operation: "create_index", Source: "001.properties", Status: executor.StatusSuccess},
		{Operation: "delete_index", Source: "002.properties", Status: executor.StatusFailed, Error: "connection refused"},
	}
	return records, executor.Stats{Total: 2, Successful: 1, Failed: 1}
}

func TestNewAssignsRunID(t *testing.T) {
	records, stats := sampleRecords()
	a := New("staging", stats, records)
	b := New("staging", stats, records)
	if a.RunID == "" || b.RunID == "" {
		t.Fatal("run id missing")
	}
	if a.RunID == b.RunID {
		t.Error("run ids should be unique per run")
	}
	if a.Environment != "staging" {
		t.Errorf("environment = %q", a.Environment)
	}
}

func TestSuccessRate(t *testing.T) {
	cases := []struct {
		stats executor.Stats
		want  float64
	}{
		{executor.Stats{}, 0},
		{executor.Stats{Total: 2, Successful: 1}, 50},
		{executor.Stats{Total: 4, Successful: 4}, 100},
	}
	for _, tc := range cases {
		r := &Report{Statistics: tc.stats}
		if got := r.SuccessRate(); got != tc.want {
			t.Errorf("SuccessRate(%+v) = %v, want %v", tc.stats, got, tc.want)
		}
	}
}

func TestSummaryIncludesFailures(t *testing.T) {
	records, stats := sampleRecords()
	out := New("staging", stats, records).Summary()

	for _, want := range []string{
		"EXECUTION SUMMARY",
		"Environment:      staging",
		"Total operations: 2",
		"Successful:       1",
		"Failed:           1",
		"Failed operations:",
		"delete_index from 002.properties",
		"connection refused",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryNoFailureSection(t *testing.T) {
	out := New("dev", executor.Stats{Total: 1, Successful: 1}, []executor.Record{
		{Operation: "create_index", Source: "a", Status: executor.StatusSuccess},
	}).Summary()
	if strings.Contains(out, "Failed operations:") {
		t.Errorf("clean run should not list failures:\n%s", out)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	records, stats := sampleRecords()
	rep := New("staging", stats, records)

	path := filepath.Join(t.TempDir(), "reports", "run.json")
	if err := rep.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if got.RunID != rep.RunID || got.Statistics.Failed != 1 {
		t.Errorf("round trip = %+v", got)
	}
	if len(got.Results) != 2 || got.Results[1].Error != "connection refused" {
		t.Errorf("results = %+v", got.Results)
	}
}
