// Package config loads per-environment connection settings from the
// environments directory: structured <env>.yaml documents or flat <env>.conf
// properties files, both resolving to the same Environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"

	"github.com/loykin/esrun/internal/common"
	"github.com/loykin/esrun/internal/constants"
	"github.com/loykin/esrun/internal/esclient"
	"github.com/loykin/esrun/internal/retry"
)

// ElasticsearchConfig holds the cluster connection block.
type ElasticsearchConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Scheme      string `yaml:"scheme"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	APIKey      string `yaml:"api_key"`
	VerifyCerts *bool  `yaml:"verify_certs"`
	MaxRetries  int    `yaml:"max_retries"`
	RetryDelay  string `yaml:"retry_delay"`
}

// WaitConfig configures the optional pre-run availability probe. An empty
// URL defaults to the cluster root endpoint.
type WaitConfig struct {
	URL      string `yaml:"url"`
	Method   string `yaml:"method"`
	Status   int    `yaml:"status"`
	Timeout  string `yaml:"timeout"`
	Interval string `yaml:"interval"`
}

// Environment is the resolved configuration for one target environment.
type Environment struct {
	Name          string              `yaml:"-"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	StopOnError   bool                `yaml:"stop_on_error"`
	DryRun        bool                `yaml:"dry_run"`
	ReportFile    string              `yaml:"report_file"`
	Wait          WaitConfig          `yaml:"wait"`
}

// Load resolves the environment name against the environments subdirectory
// of configDir, trying <name>.yaml, <name>.yml, then <name>.conf. A missing
// file or missing connection fields is a fatal setup error.
func Load(configDir, name string) (*Environment, error) {
	logger := common.GetLogger().WithComponent("config")
	logger.Info("loading environment config", "environment", name)

	dir := filepath.Join(configDir, constants.EnvironmentsSubdir)
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return loadYAML(path, name)
		}
	}
	confPath := filepath.Join(dir, name+".conf")
	if _, err := os.Stat(confPath); err == nil {
		return loadProperties(confPath, name)
	}
	return nil, fmt.Errorf("environment config not found for %q in %s", name, dir)
}

func loadYAML(path, name string) (*Environment, error) {
	clean := filepath.Clean(path)
	// #nosec G304 -- config path is derived from the environment name chosen by the user
	f, err := os.Open(clean)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var env Environment
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("invalid environment config %s: %w", path, err)
	}
	env.Name = name
	if env.Elasticsearch.Host == "" {
		return nil, fmt.Errorf("missing required field 'elasticsearch.host' in %s", path)
	}
	if env.Elasticsearch.Port == 0 {
		return nil, fmt.Errorf("missing required field 'elasticsearch.port' in %s", path)
	}
	return &env, nil
}

// loadProperties reads the flat ES_HOST/ES_PORT style environment file.
func loadProperties(path, name string) (*Environment, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment config %s: %w", path, err)
	}

	required := []string{"ES_HOST", "ES_PORT", "ES_SCHEME"}
	var missing []string
	for _, field := range required {
		if _, ok := p.Get(field); !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required fields in %s: %s", path, strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(strings.TrimSpace(p.MustGet("ES_PORT")))
	if err != nil {
		return nil, fmt.Errorf("invalid ES_PORT in %s: %w", path, err)
	}

	env := &Environment{
		Name: name,
		Elasticsearch: ElasticsearchConfig{
			Host:     strings.TrimSpace(p.MustGet("ES_HOST")),
			Port:     port,
			Scheme:   strings.TrimSpace(p.MustGet("ES_SCHEME")),
			Username: p.GetString("ES_USERNAME", ""),
			Password: p.GetString("ES_PASSWORD", ""),
			APIKey:   p.GetString("ES_API_KEY", ""),
		},
		StopOnError: propsBool(p, "STOP_ON_ERROR"),
		DryRun:      propsBool(p, "DRY_RUN"),
		ReportFile:  p.GetString("REPORT_FILE", ""),
	}
	if v, ok := p.Get("VERIFY_CERTS"); ok {
		verify := strings.EqualFold(strings.TrimSpace(v), "true")
		env.Elasticsearch.VerifyCerts = &verify
	}
	return env, nil
}

func propsBool(p *properties.Properties, key string) bool {
	v, ok := p.Get(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// ClientConfig converts the environment into the client wrapper's config.
func (e *Environment) ClientConfig() esclient.Config {
	pol := retry.DefaultPolicy()
	if e.Elasticsearch.MaxRetries > 0 {
		pol.MaxAttempts = e.Elasticsearch.MaxRetries
	}
	if s := strings.TrimSpace(e.Elasticsearch.RetryDelay); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			pol.Delay = d
		}
	}
	return esclient.Config{
		Host:        e.Elasticsearch.Host,
		Port:        e.Elasticsearch.Port,
		Scheme:      e.Elasticsearch.Scheme,
		Username:    e.Elasticsearch.Username,
		Password:    e.Elasticsearch.Password,
		APIKey:      e.Elasticsearch.APIKey,
		VerifyCerts: e.Elasticsearch.VerifyCerts,
		Retry:       pol,
	}
}

// URL returns the cluster endpoint URL.
func (e *Environment) URL() string {
	return e.ClientConfig().URL()
}
