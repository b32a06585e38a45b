package esrun

import (
	"context"

	"github.com/loykin/esrun/internal/common"
	"github.com/loykin/esrun/internal/config"
	"github.com/loykin/esrun/internal/esclient"
	"github.com/loykin/esrun/internal/executor"
	"github.com/loykin/esrun/internal/operation"
	"github.com/loykin/esrun/internal/report"
)

// Re-export commonly used types for public API

// Operation is a single declarative cluster operation.
type Operation = operation.Operation

// Kind identifies the type of an operation.
type Kind = operation.Kind

// Source pairs a parsed operation with the file it came from.
type Source = operation.Source

// Environment is the per-environment connection and execution settings.
type Environment = config.Environment

// Result is the outcome of one cluster call.
type Result = esclient.Result

// Record is the execution record of one operation.
type Record = executor.Record

// Stats aggregates execution counters for a run.
type Stats = executor.Stats

// Report is the serializable run report.
type Report = report.Report

// Logger is the structured logger used across the library.
type Logger = common.Logger

// SetDefaultLogger replaces the process-wide logger used by the library.
func SetDefaultLogger(l *Logger) { common.SetDefaultLogger(l) }

// LoadEnvironment reads the environment settings for name from configDir.
func LoadEnvironment(configDir, name string) (*Environment, error) {
	return config.Load(configDir, name)
}

// LoadPropertiesDir loads .properties operation files from the resolved
// version folder under versionsDir ("latest" picks the highest).
func LoadPropertiesDir(versionsDir, version string) ([]Source, error) {
	return operation.LoadPropertiesDir(versionsDir, version)
}

// LoadYAMLDir loads YAML operation files recursively from dir.
func LoadYAMLDir(dir string) ([]Source, error) {
	return operation.LoadYAMLDir(dir)
}

// Connect opens an Elasticsearch client for the environment and verifies the
// cluster is reachable.
func Connect(ctx context.Context, env *Environment) (*esclient.Client, error) {
	return esclient.New(ctx, env.ClientConfig())
}

// Run executes sources against the cluster behind client. A nil client is
// only valid together with dryRun.
func Run(ctx context.Context, client executor.ClusterClient, sources []Source, dryRun, stopOnError bool) ([]Record, Stats) {
	exec := executor.Executor{Client: client, DryRun: dryRun, StopOnError: stopOnError}
	return exec.Run(ctx, sources)
}

// NewReport builds a run report from execution records.
func NewReport(environment string, stats Stats, records []Record) *Report {
	return report.New(environment, stats, records)
}
