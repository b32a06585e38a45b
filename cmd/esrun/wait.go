package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/loykin/esrun/internal/common"
	"github.com/loykin/esrun/internal/config"
	"github.com/loykin/esrun/internal/constants"
	"github.com/loykin/esrun/internal/httpc"
)

// waitParams holds the parsed and normalized parameters for waiting
type waitParams struct {
	url      string
	method   string
	expected int
	timeout  time.Duration
	interval time.Duration
}

// parseWaitConfig normalizes the wait block with defaults. The probe URL
// defaults to the cluster root endpoint.
func parseWaitConfig(env *config.Environment) waitParams {
	wc := env.Wait

	url := strings.TrimSpace(wc.URL)
	if url == "" {
		url = env.URL()
	}

	method := strings.ToUpper(strings.TrimSpace(wc.Method))
	if method == "" {
		method = constants.DefaultWaitMethod
	}

	expected := wc.Status
	if expected == 0 {
		expected = constants.DefaultWaitStatus
	}

	timeout := constants.DefaultWaitTimeout
	if s := strings.TrimSpace(wc.Timeout); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			timeout = d
		}
	}

	interval := constants.DefaultWaitInterval
	if s := strings.TrimSpace(wc.Interval); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			interval = d
		}
	}

	return waitParams{url: url, method: method, expected: expected, timeout: timeout, interval: interval}
}

// waitConfigured reports whether the environment asks for a pre-run probe.
func waitConfigured(env *config.Environment) bool {
	wc := env.Wait
	return wc.URL != "" || wc.Method != "" || wc.Status != 0 || wc.Timeout != "" || wc.Interval != ""
}

// doWait polls the configured endpoint until it answers with the expected
// status or the timeout elapses.
func doWait(ctx context.Context, env *config.Environment) error {
	if !waitConfigured(env) {
		return nil
	}
	params := parseWaitConfig(env)
	logger := common.GetLogger().WithComponent("wait")
	logger.Info("waiting for cluster",
		"url", params.url, "expected_status", params.expected, "timeout", params.timeout)

	var tlsCfg *tls.Config
	if env.Elasticsearch.VerifyCerts != nil && !*env.Elasticsearch.VerifyCerts {
		// #nosec G402 -- verification is disabled only when the environment config asks for it
		tlsCfg = &tls.Config{InsecureSkipVerify: true}
	}
	hc := &httpc.Httpc{TLSConfig: tlsCfg, APIKey: env.Elasticsearch.APIKey}
	client := hc.Resty()
	if env.Elasticsearch.Username != "" && env.Elasticsearch.Password != "" {
		client.SetBasicAuth(env.Elasticsearch.Username, env.Elasticsearch.Password)
	}

	deadline := time.Now().Add(params.timeout)
	for {
		resp, err := client.R().SetContext(ctx).Execute(params.method, params.url)
		if err == nil && resp.StatusCode() == params.expected {
			logger.Info("cluster is available", "status", resp.StatusCode())
			return nil
		}
		if err != nil {
			logger.Debug("cluster not ready", "error", err)
		} else {
			logger.Debug("cluster not ready", "status", resp.StatusCode())
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out after %s waiting for %s", params.timeout, params.url)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(params.interval):
		}
	}
}
