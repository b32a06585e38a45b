package httpc

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientInjectsAPIKey(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	h := &Httpc{APIKey: "secret-key"}
	resp, err := h.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()

	if got != "ApiKey secret-key" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestClientWithoutAPIKey(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	h := &Httpc{}
	resp, err := h.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()

	if got != "" {
		t.Errorf("unexpected Authorization header %q", got)
	}
}

func TestClientTLSMinVersion(t *testing.T) {
	h := &Httpc{TLSConfig: &tls.Config{}}
	c := h.Client()
	transport, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("transport type = %T", c.Transport)
	}
	if transport.TLSClientConfig.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %d, want TLS 1.2", transport.TLSClientConfig.MinVersion)
	}
}

func TestRestyAPIKeyHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	h := &Httpc{APIKey: "secret-key"}
	if _, err := h.Resty().R().Get(srv.URL); err != nil {
		t.Fatal(err)
	}
	if got != "ApiKey secret-key" {
		t.Errorf("Authorization = %q", got)
	}
}
