package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/embed-service/internal/bulk"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

// Loader sends documents to an index through the bulk API.
type Loader struct {
	client    *elasticsearch.TypedClient
	indexName string
}

type Stats struct {
	Successful int64
	Failed     int64
	Total      int
}

func NewLoader(config ClientConfig) (*Loader, error) {
	if config.IndexName == "" {
		return nil, fmt.Errorf("index name must not be empty")
	}

	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Loader{
		client:    client,
		indexName: config.IndexName,
	}, nil
}

// Load indexes every element of the JSON array read from r. Any rejected
// document makes Load fail after the remaining documents were sent.
func (l *Loader) Load(ctx context.Context, r io.Reader) (Stats, error) {
	exists, err := l.client.Indices.Exists(l.indexName).Do(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to check if index exists: %w", err)
	}
	if !exists {
		slog.Info("Index does not exist, it will be created on first write", "index", l.indexName)
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         l.indexName,
		Client:        l.client,
		NumWorkers:    4,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
		Refresh:       "wait_for",
	})
	if err != nil {
		return Stats{}, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64

	total, readErr := bulk.ForEach(r, func(doc json.RawMessage) error {
		return bi.Add(ctx, esutil.BulkIndexerItem{
			Action: "index",
			Body:   bytes.NewReader(doc),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason)
				}
			},
		})
	})

	// Close the indexer and wait for completion
	if err := bi.Close(ctx); err != nil {
		return Stats{}, fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	stats := Stats{
		Successful: successful.Load(),
		Failed:     failed.Load(),
		Total:      total,
	}

	slog.Info("Bulk indexing completed",
		"successful", stats.Successful,
		"failed", stats.Failed,
		"total", stats.Total,
		"index", l.indexName)

	if readErr != nil {
		return stats, fmt.Errorf("read documents: %w", readErr)
	}
	if stats.Failed > 0 {
		return stats, fmt.Errorf("failed to index %d out of %d documents", stats.Failed, stats.Total)
	}

	return stats, nil
}

// Count returns the number of documents currently searchable in the index.
func (l *Loader) Count(ctx context.Context) (int64, error) {
	res, err := l.client.Count().Index(l.indexName).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return res.Count, nil
}
