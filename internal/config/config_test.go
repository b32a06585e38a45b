package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeEnvFile(t *testing.T, configDir, name, content string) {
	t.Helper()
	dir := filepath.Join(configDir, "environments")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadYAMLEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, "staging.yaml", `
elasticsearch:
  host: es.staging.local
  port: 9200
  scheme: https
  username: admin
  password: secret
  verify_certs: false
  max_retries: 5
  retry_delay: 500ms
stop_on_error: true
report_file: out/report.json
wait:
  timeout: 30s
`)

	env, err := Load(dir, "staging")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if env.Name != "staging" {
		t.Errorf("name = %q", env.Name)
	}
	if env.Elasticsearch.Host != "es.staging.local" || env.Elasticsearch.Port != 9200 {
		t.Errorf("connection = %+v", env.Elasticsearch)
	}
	if !env.StopOnError {
		t.Error("stop_on_error not read")
	}
	if env.ReportFile != "out/report.json" {
		t.Errorf("report_file = %q", env.ReportFile)
	}
	if env.Wait.Timeout != "30s" {
		t.Errorf("wait.timeout = %q", env.Wait.Timeout)
	}
	if env.Elasticsearch.VerifyCerts == nil || *env.Elasticsearch.VerifyCerts {
		t.Error("verify_certs=false not read")
	}

	cc := env.ClientConfig()
	if cc.Retry.MaxAttempts != 5 {
		t.Errorf("retry attempts = %d, want 5", cc.Retry.MaxAttempts)
	}
	if cc.Retry.Delay != 500*time.Millisecond {
		t.Errorf("retry delay = %s, want 500ms", cc.Retry.Delay)
	}
	if got := env.URL(); got != "https://es.staging.local:9200" {
		t.Errorf("URL = %q", got)
	}
}

func TestLoadPropertiesEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, "prod.conf", `
ES_HOST=es.prod.local
ES_PORT=9243
ES_SCHEME=https
ES_USERNAME=deploy
ES_PASSWORD=hunter2
VERIFY_CERTS=true
STOP_ON_ERROR=yes
DRY_RUN=0
REPORT_FILE=report.json
`)

	env, err := Load(dir, "prod")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if env.Elasticsearch.Host != "es.prod.local" || env.Elasticsearch.Port != 9243 {
		t.Errorf("connection = %+v", env.Elasticsearch)
	}
	if env.Elasticsearch.Username != "deploy" {
		t.Errorf("username = %q", env.Elasticsearch.Username)
	}
	if !env.StopOnError {
		t.Error("STOP_ON_ERROR=yes should be true")
	}
	if env.DryRun {
		t.Error("DRY_RUN=0 should be false")
	}
	if env.Elasticsearch.VerifyCerts == nil || !*env.Elasticsearch.VerifyCerts {
		t.Error("VERIFY_CERTS=true not read")
	}

	cc := env.ClientConfig()
	if cc.Retry.MaxAttempts != 3 || cc.Retry.Delay != 2*time.Second {
		t.Errorf("retry should default: %+v", cc.Retry)
	}
}

func TestLoadPrefersYAMLOverConf(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, "dev.yaml", "elasticsearch:\n  host: from-yaml\n  port: 9200\n")
	writeEnvFile(t, dir, "dev.conf", "ES_HOST=from-conf\nES_PORT=9200\nES_SCHEME=http\n")

	env, err := Load(dir, "dev")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if env.Elasticsearch.Host != "from-yaml" {
		t.Errorf("host = %q, want from-yaml", env.Elasticsearch.Host)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		content string
		wantSub string
	}{
		{"missing host", "a.yaml", "elasticsearch:\n  port: 9200\n", "elasticsearch.host"},
		{"missing port", "b.yaml", "elasticsearch:\n  host: x\n", "elasticsearch.port"},
		{"invalid yaml", "c.yaml", "elasticsearch: [broken\n", "invalid"},
		{"conf missing fields", "d.conf", "ES_HOST=x\n", "ES_PORT, ES_SCHEME"},
		{"conf bad port", "e.conf", "ES_HOST=x\nES_PORT=nine\nES_SCHEME=http\n", "invalid ES_PORT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeEnvFile(t, dir, tc.file, tc.content)
			name := strings.TrimSuffix(tc.file, filepath.Ext(tc.file))
			_, err := Load(dir, name)
			if err == nil {
				t.Fatal("want error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error = %q, want substring %q", err, tc.wantSub)
			}
		})
	}
}

func TestLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir, "nowhere"); err == nil {
		t.Error("want error for unknown environment")
	}
}
