package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/loykin/esrun/internal/common"
	"github.com/loykin/esrun/internal/config"
	"github.com/loykin/esrun/internal/constants"
	"github.com/loykin/esrun/internal/esclient"
	"github.com/loykin/esrun/internal/executor"
	"github.com/loykin/esrun/internal/operation"
	"github.com/loykin/esrun/internal/report"
)

// AutomationRunner drives one run end to end: environment config, operation
// discovery, cluster connection, dispatch and report.
type AutomationRunner struct {
	ctx context.Context

	environment string
	configDir   string
	versionsDir string
	version     string
	dryRun      bool
	reportPath  string

	env    *config.Environment
	logger *common.Logger
}

// NewAutomationRunner creates a runner bound to the given context.
func NewAutomationRunner(ctx context.Context) *AutomationRunner {
	return &AutomationRunner{ctx: ctx}
}

// InitializeFromViper reads flags/environment variables and configures the
// process-wide logger exactly once.
func (r *AutomationRunner) InitializeFromViper() error {
	v := viper.GetViper()
	r.environment = strings.TrimSpace(v.GetString("environment"))
	r.configDir = v.GetString("config_dir")
	r.versionsDir = v.GetString("versions_dir")
	r.version = v.GetString("version")
	r.dryRun = v.GetBool("dry_run")
	r.reportPath = v.GetString("report")

	logger, err := buildLogger(v.GetString("log_level"), v.GetString("log_format"))
	if err != nil {
		return err
	}
	common.SetDefaultLogger(logger)

	if r.environment == "" {
		return fmt.Errorf("missing required flag --environment")
	}
	r.logger = logger.WithComponent("main").WithEnvironment(r.environment)
	r.logger.Info("starting esrun",
		"config_dir", r.configDir,
		"dry_run", r.dryRun)
	return nil
}

func buildLogger(level, format string) (*common.Logger, error) {
	var lvl common.LogLevel
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		lvl = common.LogLevelError
	case "warn", "warning":
		lvl = common.LogLevelWarn
	case "info", "":
		lvl = common.LogLevelInfo
	case "debug":
		lvl = common.LogLevelDebug
	default:
		return nil, fmt.Errorf("invalid log level: %s (valid: error, warn, info, debug)", level)
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return common.NewJSONLogger(lvl), nil
	case "text", "":
		return common.NewLogger(lvl), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s (valid: text, json)", format)
	}
}

// LoadEnvironment loads the per-environment connection settings. The
// out-of-band dry-run flag ORs with the config value.
func (r *AutomationRunner) LoadEnvironment() error {
	env, err := config.Load(r.configDir, r.environment)
	if err != nil {
		return err
	}
	r.env = env
	if env.DryRun {
		r.dryRun = true
	}
	if r.reportPath == "" {
		r.reportPath = env.ReportFile
	}
	return nil
}

// LoadSources discovers operation files: the YAML operations tree under the
// config directory when it exists, otherwise the versioned properties
// folders.
func (r *AutomationRunner) LoadSources() ([]operation.Source, error) {
	opsDir := filepath.Join(r.configDir, constants.OperationsSubdir)
	if info, err := os.Stat(opsDir); err == nil && info.IsDir() {
		return operation.LoadYAMLDir(opsDir)
	}
	return operation.LoadPropertiesDir(r.versionsDir, r.version)
}

// Connect waits for the cluster when configured, then opens the client.
// Dry-run never touches the network, so no client is built.
func (r *AutomationRunner) Connect() (*esclient.Client, error) {
	if r.dryRun {
		r.logger.Info("dry-run mode: skipping cluster connection")
		return nil, nil
	}
	if err := doWait(r.ctx, r.env); err != nil {
		return nil, fmt.Errorf("cluster availability check failed: %w", err)
	}
	return esclient.New(r.ctx, r.env.ClientConfig())
}

// Run executes the complete automation workflow.
func (r *AutomationRunner) Run() error {
	if err := r.InitializeFromViper(); err != nil {
		return err
	}
	if err := r.LoadEnvironment(); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}

	sources, err := r.LoadSources()
	if err != nil {
		return err
	}
	fmt.Print(operation.Summary(sources))

	client, err := r.Connect()
	if err != nil {
		return err
	}

	exec := executor.Executor{
		Client:      client,
		DryRun:      r.dryRun,
		StopOnError: r.env.StopOnError,
	}
	records, stats := exec.Run(r.ctx, sources)

	rep := report.New(r.environment, stats, records)
	fmt.Print(rep.Summary())
	if r.reportPath != "" {
		if err := rep.Write(r.reportPath); err != nil {
			return err
		}
		r.logger.Info("report written", "path", r.reportPath)
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d operations failed", stats.Failed, stats.Total)
	}
	r.logger.Info("all operations completed successfully", "total", stats.Total)
	return nil
}
