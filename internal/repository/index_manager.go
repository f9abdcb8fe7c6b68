package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/findora/search-api/pkg/log"
)

// IndexManager manages the product index lifecycle.
type IndexManager struct {
	client   *elasticsearch.Client
	index    string
	shards   int
	replicas int
}

// NewIndexManager creates an index manager for the configured product index.
func NewIndexManager(client *elasticsearch.Client, index string, shards, replicas int) *IndexManager {
	return &IndexManager{
		client:   client,
		index:    index,
		shards:   shards,
		replicas: replicas,
	}
}

// productIndexConfig returns mappings and settings for the product index.
// Name carries a keyword subfield so it can be sorted exactly.
func (m *IndexManager) productIndexConfig() map[string]interface{} {
	return map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"description": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
				},
				"price": map[string]interface{}{
					"type": "double",
				},
				"category": map[string]interface{}{
					"type": "keyword",
				},
			},
		},
		"settings": map[string]interface{}{
			"number_of_shards":   m.shards,
			"number_of_replicas": m.replicas,
		},
	}
}

// Exists reports whether the index exists.
func (m *IndexManager) Exists(ctx context.Context) (bool, error) {
	res, err := m.client.Indices.Exists(
		[]string{m.index},
		m.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	return res.StatusCode == http.StatusOK, nil
}

// Create creates the index with product mappings. Creating an index that
// already exists is an error; use EnsureIndex for idempotent startup.
func (m *IndexManager) Create(ctx context.Context) error {
	data, err := json.Marshal(m.productIndexConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal index config: %w", err)
	}

	res, err := m.client.Indices.Create(
		m.index,
		m.client.Indices.Create.WithBody(bytes.NewReader(data)),
		m.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, res.String())
	}
	return nil
}

// Delete removes the index. Missing index is not an error.
func (m *IndexManager) Delete(ctx context.Context) error {
	res, err := m.client.Indices.Delete(
		[]string{m.index},
		m.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, res.String())
	}
	return nil
}

// Refresh makes recent writes searchable.
func (m *IndexManager) Refresh(ctx context.Context) error {
	res, err := m.client.Indices.Refresh(
		m.client.Indices.Refresh.WithIndex(m.index),
		m.client.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, res.String())
	}
	return nil
}

// EnsureIndex creates the index if it does not exist yet.
func (m *IndexManager) EnsureIndex(ctx context.Context) error {
	exists, err := m.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return m.Create(ctx)
}

// ClusterHealth returns the cluster status string ("green", "yellow",
// "red") or "unavailable" with an error.
func (m *IndexManager) ClusterHealth(ctx context.Context) (string, error) {
	res, err := m.client.Cluster.Health(
		m.client.Cluster.Health.WithContext(ctx),
	)
	if err != nil {
		return "unavailable", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return "unavailable", fmt.Errorf("%w: %s", ErrBackendUnavailable, res.String())
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return "unavailable", fmt.Errorf("failed to decode health response: %w", err)
	}
	return health.Status, nil
}

// WaitForCluster pings Elasticsearch with exponential backoff until it
// answers or the attempts run out.
func WaitForCluster(ctx context.Context, client *elasticsearch.Client, maxRetries int, delay time.Duration) error {
	logger := log.L()
	currentDelay := delay

	for attempt := 1; attempt <= maxRetries; attempt++ {
		res, err := client.Ping(client.Ping.WithContext(ctx))
		if err == nil {
			ok := !res.IsError()
			res.Body.Close()
			if ok {
				logger.Info().Int("attempt", attempt).Msg("elasticsearch connected")
				return nil
			}
		}

		if attempt == maxRetries {
			break
		}
		logger.Warn().
			Int("attempt", attempt).
			Int("max_retries", maxRetries).
			Dur("next_delay", currentDelay).
			Msg("elasticsearch not reachable, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(currentDelay):
		}
		currentDelay *= 2
	}

	return fmt.Errorf("%w: no response after %d attempts", ErrBackendUnavailable, maxRetries)
}
