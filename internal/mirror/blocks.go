package mirror

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Block is a point-in-time slice of chain metadata.
type Block struct {
	Number         int64     // block number
	ConsensusStart time.Time // first consensus timestamp in the block
	ConsensusEnd   time.Time // last consensus timestamp in the block
}

type blockResponse struct {
	Number    int64 `json:"number"`
	Timestamp struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"timestamp"`
}

type blocksResponse struct {
	Blocks []blockResponse `json:"blocks"`
}

// Block fetches a single block by number.
func (c *Client) Block(ctx context.Context, number int64) (*Block, error) {
	var resp blockResponse
	path := fmt.Sprintf("/api/v1/blocks/%d", number)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get block %d: %w", number, err)
	}
	return convertBlock(resp)
}

// BlockAt fetches the first block at or after the given consensus timestamp.
// The deploy tool uses it to derive the subgraph's start block from the
// contract creation time.
func (c *Client) BlockAt(ctx context.Context, ts time.Time) (*Block, error) {
	query := url.Values{}
	query.Set("timestamp", "gte:"+formatConsensus(ts))
	query.Set("order", "asc")
	query.Set("limit", "1")

	var resp blocksResponse
	if err := c.get(ctx, "/api/v1/blocks", query, &resp); err != nil {
		return nil, fmt.Errorf("get block at %s: %w", ts, err)
	}
	if len(resp.Blocks) == 0 {
		return nil, fmt.Errorf("no block at or after %s", ts)
	}
	return convertBlock(resp.Blocks[0])
}

func convertBlock(resp blockResponse) (*Block, error) {
	from, err := parseConsensus(resp.Timestamp.From)
	if err != nil {
		return nil, fmt.Errorf("block %d timestamp.from: %w", resp.Number, err)
	}
	to, err := parseConsensus(resp.Timestamp.To)
	if err != nil {
		return nil, fmt.Errorf("block %d timestamp.to: %w", resp.Number, err)
	}
	return &Block{
		Number:         resp.Number,
		ConsensusStart: from,
		ConsensusEnd:   to,
	}, nil
}

// parseConsensus parses a mirror node consensus timestamp
// ("1693526400.123456789", seconds.nanoseconds since epoch).
func parseConsensus(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty consensus timestamp")
	}

	secPart, nsecPart, _ := strings.Cut(s, ".")
	sec, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse consensus timestamp %q: %w", s, err)
	}

	var nsec int64
	if nsecPart != "" {
		// Right-pad to nanosecond precision.
		for len(nsecPart) < 9 {
			nsecPart += "0"
		}
		nsec, err = strconv.ParseInt(nsecPart[:9], 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse consensus timestamp %q: %w", s, err)
		}
	}

	return time.Unix(sec, nsec).UTC(), nil
}

// formatConsensus renders a time in the mirror node's seconds.nanoseconds
// form.
func formatConsensus(ts time.Time) string {
	return fmt.Sprintf("%d.%09d", ts.Unix(), ts.Nanosecond())
}
