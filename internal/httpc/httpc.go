package httpc

import (
	"crypto/tls"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Httpc builds the HTTP clients used to reach the cluster: a plain
// *http.Client handed to the Elasticsearch library and a resty client for
// the pre-run wait probe. Both share the same TLS and API key settings.
type Httpc struct {
	TLSConfig *tls.Config
	APIKey    string
}

// apiKeyTransport injects an ApiKey authorization header on every request.
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "ApiKey "+t.key)
	return t.base.RoundTrip(clone)
}

// Client returns an *http.Client configured according to the receiver.
// Defaults: MinVersion TLS1.2 when a TLS config is set without one.
func (h *Httpc) Client() *http.Client {
	transport := http.DefaultTransport
	if h.TLSConfig != nil {
		cfg := h.TLSConfig.Clone()
		if cfg.MinVersion == 0 {
			cfg.MinVersion = tls.VersionTLS12
		}
		transport = &http.Transport{TLSClientConfig: cfg}
	}
	if h.APIKey != "" {
		transport = &apiKeyTransport{key: h.APIKey, base: transport}
	}
	return &http.Client{Transport: transport}
}

// Resty returns a resty.Client with the same TLS settings, used for the
// availability wait probe.
func (h *Httpc) Resty() *resty.Client {
	c := resty.New()
	if h.TLSConfig != nil {
		cfg := h.TLSConfig.Clone()
		if cfg.MinVersion == 0 {
			cfg.MinVersion = tls.VersionTLS12
		}
		c.SetTLSClientConfig(cfg)
	}
	if h.APIKey != "" {
		c.SetHeader("Authorization", "ApiKey "+h.APIKey)
	}
	return c
}
