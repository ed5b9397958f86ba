// Package report assembles and renders the query tool's output: indexer
// sync health with block positions resolved to timestamps, and the indexed
// price and ownership records grouped for display.
//
// The two indexer queries are primary: if either fails the report fails.
// Block-timestamp resolution is enrichment: a failed lookup degrades that
// single field to "Unknown" and the report continues.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avolkov/hedera-pricefeed/internal/indexer"
	"github.com/avolkov/hedera-pricefeed/internal/mirror"
)

// Unknown is rendered for any field whose enrichment lookup failed.
const Unknown = "Unknown"

// blockLookupConcurrency bounds parallel mirror requests.
const blockLookupConcurrency = 4

// Indexer is the slice of the indexing service the report consumes.
// *indexer.Client satisfies it.
type Indexer interface {
	Status(ctx context.Context) ([]indexer.SubgraphStatus, error)
	PriceUpdates(ctx context.Context) ([]indexer.PriceRecord, error)
	OwnershipTransfers(ctx context.Context) ([]indexer.OwnershipRecord, error)
}

// BlockSource resolves block numbers to blocks. *mirror.Client satisfies it.
type BlockSource interface {
	Block(ctx context.Context, number int64) (*mirror.Block, error)
}

// ChainRow is one chain's sync position with resolved timestamps.
type ChainRow struct {
	Network     string
	LatestBlock int64
	LatestTime  string // localized timestamp or Unknown
	HeadBlock   int64
	HeadTime    string // localized timestamp or Unknown
	Lag         int64
}

// StatusRow is one subgraph's health line.
type StatusRow struct {
	Subgraph   string
	Synced     bool
	Healthy    bool
	Health     string
	FatalError string
	Chains     []ChainRow
}

// AssetGroup holds one asset's records, newest first.
type AssetGroup struct {
	Name    string
	Records []indexer.PriceRecord
}

// Report is the assembled query output.
type Report struct {
	Statuses  []StatusRow
	Groups    []AssetGroup
	Transfers []indexer.OwnershipRecord
}

// Build runs the queries and assembles the report.
func Build(ctx context.Context, ix Indexer, blocks BlockSource, logger *slog.Logger) (*Report, error) {
	statuses, err := ix.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("query sync health: %w", err)
	}

	records, err := ix.PriceUpdates(ctx)
	if err != nil {
		return nil, fmt.Errorf("query price updates: %w", err)
	}

	// Ownership history is supplementary: degrade to an empty section.
	transfers, err := ix.OwnershipTransfers(ctx)
	if err != nil {
		logger.Warn("ownership transfer query failed", "error", err)
		transfers = nil
	}

	report := &Report{
		Statuses:  buildStatusRows(ctx, statuses, blocks, logger),
		Groups:    groupByAsset(records),
		Transfers: transfers,
	}
	return report, nil
}

// buildStatusRows resolves every block position to a timestamp. The lookups
// are independent, so they run in parallel; failures degrade per field.
func buildStatusRows(ctx context.Context, statuses []indexer.SubgraphStatus, blocks BlockSource, logger *slog.Logger) []StatusRow {
	rows := make([]StatusRow, len(statuses))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(blockLookupConcurrency)

	for i, status := range statuses {
		rows[i] = StatusRow{
			Subgraph:   status.Subgraph,
			Synced:     status.Synced,
			Healthy:    status.Healthy(),
			Health:     status.Health,
			FatalError: status.FatalError,
			Chains:     make([]ChainRow, len(status.Chains)),
		}

		for j, chain := range status.Chains {
			rows[i].Chains[j] = ChainRow{
				Network:     chain.Network,
				LatestBlock: chain.LatestBlock,
				HeadBlock:   chain.HeadBlock,
				Lag:         chain.Lag(),
			}

			// Each goroutine writes a distinct field of a distinct row.
			latest := &rows[i].Chains[j].LatestTime
			head := &rows[i].Chains[j].HeadTime
			latestNum, headNum := chain.LatestBlock, chain.HeadBlock

			g.Go(func() error {
				*latest = resolveBlockTime(ctx, blocks, latestNum, logger)
				return nil
			})
			g.Go(func() error {
				*head = resolveBlockTime(ctx, blocks, headNum, logger)
				return nil
			})
		}
	}

	g.Wait()
	return rows
}

// resolveBlockTime turns a block number into a localized timestamp,
// degrading to Unknown on any failure.
func resolveBlockTime(ctx context.Context, blocks BlockSource, number int64, logger *slog.Logger) string {
	block, err := blocks.Block(ctx, number)
	if err != nil {
		logger.Warn("block timestamp lookup degraded", "block", number, "error", err)
		return Unknown
	}
	return formatTime(block.ConsensusStart)
}

// groupByAsset groups records by decoded asset name, ordered by first
// appearance; records stay newest first within each group.
func groupByAsset(records []indexer.PriceRecord) []AssetGroup {
	var groups []AssetGroup
	index := make(map[string]int)

	for _, record := range records {
		i, ok := index[record.AssetName]
		if !ok {
			i = len(groups)
			index[record.AssetName] = i
			groups = append(groups, AssetGroup{Name: record.AssetName})
		}
		groups[i].Records = append(groups[i].Records, record)
	}
	return groups
}

// Render writes the report as text tables.
func (r *Report) Render(w io.Writer) error {
	fmt.Fprintln(w, "Indexer sync health")
	fmt.Fprintln(w, "-------------------")
	if len(r.Statuses) == 0 {
		fmt.Fprintln(w, "no subgraphs tracked")
	}
	for _, row := range r.Statuses {
		fmt.Fprintf(w, "%s  synced=%v  health=%s\n", row.Subgraph, row.Synced, row.Health)
		if row.FatalError != "" {
			fmt.Fprintf(w, "  fatal error: %s\n", row.FatalError)
		}

		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  CHAIN\tLATEST\tLATEST TIME\tHEAD\tHEAD TIME\tLAG")
		for _, chain := range row.Chains {
			fmt.Fprintf(tw, "  %s\t%d\t%s\t%d\t%s\t%d\n",
				chain.Network, chain.LatestBlock, chain.LatestTime,
				chain.HeadBlock, chain.HeadTime, chain.Lag)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Price updates")
	fmt.Fprintln(w, "-------------")
	if len(r.Groups) == 0 {
		fmt.Fprintln(w, "no records")
	}
	for _, group := range r.Groups {
		fmt.Fprintf(w, "%s\n", group.Name)
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  TIMESTAMP\tPRICE\tTRANSACTION")
		for _, record := range group.Records {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n",
				formatTime(record.Timestamp), record.Price.String(), record.TxHash)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(r.Transfers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Ownership transfers")
		fmt.Fprintln(w, "-------------------")
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  TIMESTAMP\tFROM\tTO\tTRANSACTION")
		for _, transfer := range r.Transfers {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				formatTime(transfer.Timestamp), transfer.PreviousOwner,
				transfer.NewOwner, transfer.TxHash)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return nil
}

func formatTime(ts time.Time) string {
	return ts.Local().Format("2006-01-02 15:04:05 MST")
}
