// Package indexer queries the indexing service: sync health from the
// index-node endpoint, price and ownership records from the subgraph
// endpoint, and a live record feed over a GraphQL websocket subscription.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	graphql "github.com/hasura/go-graphql-client"
)

// Client queries the indexing service's GraphQL endpoints.
type Client struct {
	status *graphql.Client // index-node status endpoint
	query  *graphql.Client // subgraph query endpoint
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// WithHTTPClient sets a custom HTTP client for both endpoints.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// NewClient creates a client for the given status and query endpoints.
func NewClient(statusURL, queryURL string, opts ...ClientOption) *Client {
	cfg := clientConfig{
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Client{
		status: graphql.NewClient(statusURL, cfg.httpClient),
		query:  graphql.NewClient(queryURL, cfg.httpClient),
		logger: cfg.logger,
	}
}

// Status fetches sync health for every subgraph the indexer tracks.
// Responses missing required fields fail with ErrDecode.
func (c *Client) Status(ctx context.Context) ([]SubgraphStatus, error) {
	var q struct {
		IndexingStatuses []struct {
			Subgraph   string
			Synced     bool
			Health     string
			FatalError *struct {
				Message string
			}
			Chains []struct {
				Network        string
				ChainHeadBlock *struct {
					Number string
				}
				LatestBlock *struct {
					Number string
				}
			}
		} `graphql:"indexingStatuses"`
	}

	if err := c.status.Query(ctx, &q, nil); err != nil {
		return nil, fmt.Errorf("query indexing statuses: %w", err)
	}
	c.logger.Debug("fetched indexing statuses", "count", len(q.IndexingStatuses))

	statuses := make([]SubgraphStatus, 0, len(q.IndexingStatuses))
	for _, raw := range q.IndexingStatuses {
		if raw.Subgraph == "" {
			return nil, fmt.Errorf("%w: indexing status missing subgraph id", ErrDecode)
		}

		status := SubgraphStatus{
			Subgraph: raw.Subgraph,
			Synced:   raw.Synced,
			Health:   raw.Health,
		}
		if raw.FatalError != nil {
			status.FatalError = raw.FatalError.Message
		}

		for _, chain := range raw.Chains {
			if chain.ChainHeadBlock == nil || chain.LatestBlock == nil {
				return nil, fmt.Errorf("%w: subgraph %s chain %q missing block positions",
					ErrDecode, raw.Subgraph, chain.Network)
			}
			head, err := parseBlockNumber(chain.ChainHeadBlock.Number)
			if err != nil {
				return nil, fmt.Errorf("%w: subgraph %s: %v", ErrDecode, raw.Subgraph, err)
			}
			latest, err := parseBlockNumber(chain.LatestBlock.Number)
			if err != nil {
				return nil, fmt.Errorf("%w: subgraph %s: %v", ErrDecode, raw.Subgraph, err)
			}
			status.Chains = append(status.Chains, ChainStatus{
				Network:     chain.Network,
				LatestBlock: latest,
				HeadBlock:   head,
			})
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

// PriceUpdates fetches indexed price records, newest first.
func (c *Client) PriceUpdates(ctx context.Context) ([]PriceRecord, error) {
	var q struct {
		PriceUpdates []priceUpdateWire `graphql:"priceUpdates(orderBy: timestamp, orderDirection: desc, first: 1000)"`
	}

	if err := c.query.Query(ctx, &q, nil); err != nil {
		return nil, fmt.Errorf("query price updates: %w", err)
	}

	records := make([]PriceRecord, 0, len(q.PriceUpdates))
	for _, raw := range q.PriceUpdates {
		record, err := raw.convert()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// OwnershipTransfers fetches indexed ownership records, newest first.
func (c *Client) OwnershipTransfers(ctx context.Context) ([]OwnershipRecord, error) {
	var q struct {
		OwnershipTransfers []ownershipWire `graphql:"ownershipTransfers(orderBy: timestamp, orderDirection: desc, first: 1000)"`
	}

	if err := c.query.Query(ctx, &q, nil); err != nil {
		return nil, fmt.Errorf("query ownership transfers: %w", err)
	}

	records := make([]OwnershipRecord, 0, len(q.OwnershipTransfers))
	for _, raw := range q.OwnershipTransfers {
		record, err := raw.convert()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
