// Package executor dispatches canonical operations to the cluster client in
// file order, accumulating per-operation results and run statistics.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/loykin/esrun/internal/common"
	"github.com/loykin/esrun/internal/esclient"
	"github.com/loykin/esrun/internal/operation"
)

// Status of a single executed operation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Record is the outcome of one operation, appended in execution order.
type Record struct {
	Operation string           `json:"operation"`
	Source    string           `json:"source_file"`
	Status    Status           `json:"status"`
	Error     string           `json:"error,omitempty"`
	Result    *esclient.Result `json:"result,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Stats are the run counters. They only ever increase during a run.
type Stats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// ClusterClient is the set of remote operations the dispatcher needs. It is
// satisfied by *esclient.Client and mocked in tests.
type ClusterClient interface {
	CreateIndex(ctx context.Context, index string, settings, mappings map[string]interface{}) (*esclient.Result, error)
	DeleteIndex(ctx context.Context, index string) (*esclient.Result, error)
	UpdateIndexSettings(ctx context.Context, index string, settings map[string]interface{}) (*esclient.Result, error)
	CreateIndexTemplate(ctx context.Context, name string, body map[string]interface{}) (*esclient.Result, error)
	DeleteIndexTemplate(ctx context.Context, name string) (*esclient.Result, error)
	IndexDocument(ctx context.Context, index string, document map[string]interface{}, id string) (*esclient.Result, error)
	DeleteDocument(ctx context.Context, index, id string) (*esclient.Result, error)
}

// Executor runs an ordered list of operation sources against one client.
type Executor struct {
	Client ClusterClient
	// DryRun short-circuits every operation into a synthetic simulated
	// result; the client is never touched.
	DryRun bool
	// StopOnError halts remaining operations after the first failure.
	StopOnError bool
}

// Run executes the sources in order. Sources that failed to load and
// operations that fail validation or execution become failed records; the
// run only halts early when StopOnError is set.
func (e *Executor) Run(ctx context.Context, sources []operation.Source) ([]Record, Stats) {
	logger := common.GetLogger().WithComponent("executor")
	stats := Stats{Total: len(sources)}
	records := make([]Record, 0, len(sources))

	if e.DryRun {
		logger.Warn("dry-run mode: operations will be simulated, not executed")
	}

	for i, src := range sources {
		kind := "invalid"
		if src.Op != nil {
			kind = string(src.Op.Kind)
		}
		opLogger := logger.WithOperation(kind, src.Name)
		opLogger.Info("executing operation", "n", i+1, "of", len(sources))

		rec := e.runOne(ctx, src)
		records = append(records, rec)
		switch rec.Status {
		case StatusSuccess:
			stats.Successful++
		case StatusFailed:
			stats.Failed++
			opLogger.Error("operation failed", "error", rec.Error)
			if e.StopOnError {
				opLogger.Error("stopping execution due to error (stop_on_error=true)")
				return records, stats
			}
		case StatusSkipped:
			stats.Skipped++
		}
	}
	return records, stats
}

func (e *Executor) runOne(ctx context.Context, src operation.Source) Record {
	rec := Record{Source: src.Name, Timestamp: time.Now()}

	if src.Err != nil {
		rec.Operation = "invalid"
		rec.Status = StatusFailed
		rec.Error = src.Err.Error()
		return rec
	}
	op := src.Op
	rec.Operation = string(op.Kind)

	if e.DryRun {
		rec.Status = StatusSuccess
		rec.Result = &esclient.Result{Acknowledged: true, Status: "simulated"}
		return rec
	}

	if err := op.Validate(); err != nil {
		rec.Status = StatusFailed
		rec.Error = err.Error()
		return rec
	}

	res, err := e.dispatch(ctx, op)
	if err != nil {
		rec.Status = StatusFailed
		rec.Error = fmt.Sprintf("error executing %s: %v", op.Kind, err)
		return rec
	}
	rec.Status = StatusSuccess
	rec.Result = res
	return rec
}

func (e *Executor) dispatch(ctx context.Context, op *operation.Operation) (*esclient.Result, error) {
	switch op.Kind {
	case operation.KindCreateIndex:
		p := op.CreateIndex
		return e.Client.CreateIndex(ctx, p.Index, p.Settings, p.Mappings)
	case operation.KindDeleteIndex:
		return e.Client.DeleteIndex(ctx, op.DeleteIndex.Index)
	case operation.KindUpdateIndexSettings:
		p := op.UpdateIndexSettings
		return e.Client.UpdateIndexSettings(ctx, p.Index, p.Settings)
	case operation.KindCreateIndexTemplate:
		p := op.CreateTemplate
		return e.Client.CreateIndexTemplate(ctx, p.Template, p.Body)
	case operation.KindDeleteIndexTemplate:
		return e.Client.DeleteIndexTemplate(ctx, op.DeleteTemplate.Template)
	case operation.KindIndexDocument:
		p := op.IndexDocument
		return e.Client.IndexDocument(ctx, p.Index, p.Document, p.DocID)
	case operation.KindDeleteDocument:
		p := op.DeleteDocument
		return e.Client.DeleteDocument(ctx, p.Index, p.DocID)
	default:
		return nil, fmt.Errorf("unknown operation type: %s", op.Kind)
	}
}
