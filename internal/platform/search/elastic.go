package search

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// Options configures the Elasticsearch connection.
type Options struct {
	URL        string
	Username   string
	Password   string
	CACertPath string
}

// Open builds an Elasticsearch client and verifies the cluster answers.
func Open(ctx context.Context, opts Options) (*elasticsearch.Client, error) {
	var caCert []byte
	if opts.CACertPath != "" {
		b, err := os.ReadFile(opts.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("open elasticsearch: read CA cert %q: %w", opts.CACertPath, err)
		}
		caCert = b
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{opts.URL},
		Username:  opts.Username,
		Password:  opts.Password,
		CACert:    caCert,
	})
	if err != nil {
		return nil, fmt.Errorf("open elasticsearch: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := client.Ping(client.Ping.WithContext(pingCtx))
	if err != nil {
		return nil, fmt.Errorf("open elasticsearch: ping %s: %w", opts.URL, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("open elasticsearch: ping %s: %s", opts.URL, res.Status())
	}

	return client, nil
}
