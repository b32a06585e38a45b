// Package esclient wraps the Elasticsearch client library with the small set
// of operations the runner dispatches, a connectivity probe at construction
// time, and a shared retry helper around every remote call.
package esclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	elastic "github.com/olivere/elastic/v7"

	"github.com/loykin/esrun/internal/common"
	"github.com/loykin/esrun/internal/constants"
	"github.com/loykin/esrun/internal/httpc"
	"github.com/loykin/esrun/internal/retry"
)

// Config carries the connection parameters for one cluster.
type Config struct {
	Host     string
	Port     int
	Scheme   string
	Username string
	Password string
	APIKey   string
	// VerifyCerts toggles TLS certificate verification. Nil means verify.
	VerifyCerts *bool

	Retry retry.Policy
}

// URL returns the single endpoint URL the client connects to.
func (c Config) URL() string {
	host := c.Host
	if host == "" {
		host = constants.DefaultHost
	}
	port := c.Port
	if port == 0 {
		port = constants.DefaultPort
	}
	scheme := c.Scheme
	if scheme == "" {
		scheme = constants.DefaultScheme
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, port)
}

// Result is the normalized outcome of one operation. Synthetic results are
// produced for idempotent deletes ("index_not_found", "template_not_found")
// and for dry-run simulation ("simulated").
type Result struct {
	Acknowledged bool   `json:"acknowledged"`
	Status       string `json:"status,omitempty"`
	ID           string `json:"id,omitempty"`
}

// Client owns one connection to one cluster for the process lifetime.
type Client struct {
	es     *elastic.Client
	url    string
	retry  retry.Policy
	logger *common.Logger
}

// New builds the client and probes connectivity. A failed probe is fatal:
// the whole run aborts before any operation executes.
func New(ctx context.Context, cfg Config) (*Client, error) {
	url := cfg.URL()
	logger := common.GetLogger().WithComponent("esclient")
	logger.Info("connecting to elasticsearch", "url", url)

	var tlsCfg *tls.Config
	if cfg.VerifyCerts != nil && !*cfg.VerifyCerts {
		// #nosec G402 -- verification is disabled only when the environment config asks for it
		tlsCfg = &tls.Config{InsecureSkipVerify: true}
	}
	hc := &httpc.Httpc{TLSConfig: tlsCfg, APIKey: cfg.APIKey}

	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(url),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
		elastic.SetHttpClient(hc.Client()),
	}
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts, elastic.SetBasicAuth(cfg.Username, cfg.Password))
	} else if cfg.APIKey == "" {
		logger.Warn("no authentication configured for elasticsearch")
	}

	es, err := elastic.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, constants.DefaultProbeTimeout)
	defer cancel()
	if _, code, err := es.Ping(url).Do(probeCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to elasticsearch at %s: %w", url, err)
	} else if code != http.StatusOK {
		return nil, fmt.Errorf("failed to connect to elasticsearch at %s: ping returned status %d", url, code)
	}

	pol := cfg.Retry
	if pol.MaxAttempts == 0 {
		pol = retry.DefaultPolicy()
	}
	logger.Info("successfully connected to elasticsearch")
	return &Client{es: es, url: url, retry: pol, logger: logger}, nil
}

// CreateIndex creates an index with optional settings and mappings.
func (c *Client) CreateIndex(ctx context.Context, index string, settings, mappings map[string]interface{}) (*Result, error) {
	c.logger.WithIndex(index).Info("creating index")

	body := map[string]interface{}{}
	if settings != nil {
		body["settings"] = settings
	}
	if mappings != nil {
		body["mappings"] = mappings
	}

	var resp *elastic.IndicesCreateResult
	err := c.retry.Do(ctx, "create_index", func() error {
		svc := c.es.CreateIndex(index)
		if len(body) > 0 {
			svc = svc.BodyJson(body)
		}
		var err error
		resp, err = svc.Do(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Result{Acknowledged: resp.Acknowledged, Status: "created"}, nil
}

// DeleteIndex deletes an index. A nonexistent index is not an error; a
// synthetic acknowledged result is returned instead.
func (c *Client) DeleteIndex(ctx context.Context, index string) (*Result, error) {
	logger := c.logger.WithIndex(index)
	logger.Warn("deleting index")

	exists, err := c.es.IndexExists(index).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check index existence: %w", err)
	}
	if !exists {
		logger.Warn("index does not exist, skipping deletion")
		return &Result{Acknowledged: true, Status: "index_not_found"}, nil
	}

	var resp *elastic.IndicesDeleteResponse
	err = c.retry.Do(ctx, "delete_index", func() error {
		var err error
		resp, err = c.es.DeleteIndex(index).Do(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Result{Acknowledged: resp.Acknowledged, Status: "deleted"}, nil
}

// UpdateIndexSettings applies new settings to an existing index.
func (c *Client) UpdateIndexSettings(ctx context.Context, index string, settings map[string]interface{}) (*Result, error) {
	c.logger.WithIndex(index).Info("updating index settings")

	var resp *elastic.IndicesPutSettingsResponse
	err := c.retry.Do(ctx, "update_index_settings", func() error {
		var err error
		resp, err = c.es.IndexPutSettings(index).BodyJson(settings).Do(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Result{Acknowledged: resp.Acknowledged, Status: "updated"}, nil
}

// CreateIndexTemplate creates or replaces a composable index template.
func (c *Client) CreateIndexTemplate(ctx context.Context, name string, body map[string]interface{}) (*Result, error) {
	c.logger.Info("creating index template", "template", name)

	var resp *elastic.IndicesPutIndexTemplateResponse
	err := c.retry.Do(ctx, "create_index_template", func() error {
		var err error
		resp, err = c.es.IndexPutIndexTemplate(name).BodyJson(body).Do(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Result{Acknowledged: resp.Acknowledged, Status: "created"}, nil
}

// DeleteIndexTemplate deletes a composable index template. A nonexistent
// template is not an error; a synthetic acknowledged result is returned
// instead.
func (c *Client) DeleteIndexTemplate(ctx context.Context, name string) (*Result, error) {
	c.logger.Warn("deleting index template", "template", name)

	if _, err := c.es.IndexGetIndexTemplate(name).Do(ctx); err != nil {
		if elastic.IsNotFound(err) {
			c.logger.Warn("template does not exist, skipping deletion", "template", name)
			return &Result{Acknowledged: true, Status: "template_not_found"}, nil
		}
		return nil, fmt.Errorf("failed to check template existence: %w", err)
	}

	var resp *elastic.IndicesDeleteIndexTemplateResponse
	err := c.retry.Do(ctx, "delete_index_template", func() error {
		var err error
		resp, err = c.es.IndexDeleteIndexTemplate(name).Do(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Result{Acknowledged: resp.Acknowledged, Status: "deleted"}, nil
}

// IndexDocument indexes a document. When id is empty the cluster assigns one.
func (c *Client) IndexDocument(ctx context.Context, index string, document map[string]interface{}, id string) (*Result, error) {
	logger := c.logger.WithIndex(index)
	logger.Info("indexing document")

	var resp *elastic.IndexResponse
	err := c.retry.Do(ctx, "index_document", func() error {
		svc := c.es.Index().Index(index).BodyJson(document)
		if id != "" {
			svc = svc.Id(id)
		}
		var err error
		resp, err = svc.Do(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("successfully indexed document", "id", resp.Id)
	return &Result{Acknowledged: true, Status: resp.Result, ID: resp.Id}, nil
}

// DeleteDocument deletes a document by ID.
func (c *Client) DeleteDocument(ctx context.Context, index, id string) (*Result, error) {
	c.logger.WithIndex(index).Info("deleting document", "id", id)

	var resp *elastic.DeleteResponse
	err := c.retry.Do(ctx, "delete_document", func() error {
		var err error
		resp, err = c.es.Delete().Index(index).Id(id).Do(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Result{Acknowledged: true, Status: resp.Result, ID: resp.Id}, nil
}
