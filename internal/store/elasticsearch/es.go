package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/goto/salt/log"
	"github.com/newrelic/go-agent/v3/integrations/nrelasticsearch-v7"
)

const defaultSortKeywordSuffix = ".keyword"

type Config struct {
	Brokers string `yaml:"brokers" mapstructure:"brokers" default:"http://localhost:9200"`
	// SortKeywordSuffix is appended to sort_by to reach the sortable
	// sub-field of a text field.
	SortKeywordSuffix string `yaml:"sort_keyword_suffix" mapstructure:"sort_keyword_suffix" default:".keyword"`
}

// Client talks to an Elasticsearch cluster. It implements
// search.IndexQueryClient and indexing.DocumentRepository.
type Client struct {
	client     *elasticsearch.Client
	logger     log.Logger
	sortSuffix string
}

func NewClient(logger log.Logger, config Config, opts ...ClientOption) (*Client, error) {
	if logger == nil {
		logger = log.NewNoop()
	}
	c := &Client{
		logger:     logger,
		sortSuffix: config.SortKeywordSuffix,
	}
	if c.sortSuffix == "" {
		c.sortSuffix = defaultSortKeywordSuffix
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client != nil {
		return c, nil
	}

	brokers := strings.Split(config.Brokers, ",")
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    brokers,
		Transport:    nrelasticsearch.NewRoundTripper(nil),
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	c.client = esClient

	return c, nil
}

// Init checks the cluster is reachable and describes it.
func (c *Client) Init(ctx context.Context) (string, error) {
	res, err := c.client.Info(c.client.Info.WithContext(ctx))
	if err != nil {
		return "", elasticSearchError(err)
	}
	defer drainBody(res)
	if res.IsError() {
		return "", fmt.Errorf("cluster info: %s", res.Status())
	}

	var info struct {
		ClusterName string `json:"cluster_name"`
		Version     struct {
			Number string `json:"number"`
		} `json:"version"`
	}
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode cluster info: %w", err)
	}

	return fmt.Sprintf("elasticsearch %q (server version %s)", info.ClusterName, info.Version.Number), nil
}

// Migrate creates every missing index in names with the document mapping.
// Existing indexes are left untouched.
func (c *Client) Migrate(ctx context.Context, names ...string) error {
	for _, name := range names {
		exists, err := c.IndexExists(ctx, name)
		if err != nil {
			return fmt.Errorf("check index %q: %w", name, err)
		}
		if exists {
			c.logger.Info("index already exists", "index", name)
			continue
		}
		if err := c.createIdx(ctx, name); err != nil {
			return err
		}
		c.logger.Info("index created", "index", name)
	}
	return nil
}

func (c *Client) createIdx(ctx context.Context, name string) error {
	res, err := c.client.Indices.Create(
		name,
		c.client.Indices.Create.WithBody(strings.NewReader(indexSettings)),
		c.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return elasticSearchError(err)
	}
	defer drainBody(res)
	if res.IsError() {
		code, reason := errorCodeAndReason(res)
		if code == "resource_already_exists_exception" {
			return nil
		}
		return fmt.Errorf("create index %q: %s", name, reason)
	}
	return nil
}

func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := c.client.Indices.Exists(
		[]string{name},
		c.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, elasticSearchError(err)
	}
	defer drainBody(res)

	switch res.StatusCode {
	case 200:
		return true, nil
	case 404:
		return false, nil
	}
	return false, fmt.Errorf("index exists %q: %s", name, res.Status())
}

func (c *Client) Close() error { return nil }
