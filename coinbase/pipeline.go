package coinbase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"net/url"
	"time"

	"github.com/lattice-fi/lattice"
)

// maxCandles is the exchange's cap on candles per request.
const maxCandles = 300

// granularities accepted by the candles endpoint.
var granularities = map[time.Duration]bool{
	time.Minute:        true,
	5 * time.Minute:    true,
	15 * time.Minute:   true,
	time.Hour:          true,
	6 * time.Hour:      true,
	24 * time.Hour:     true,
}

// Span is one contiguous slice of a candle request.
type Span struct {
	Start, End time.Time
}

// Pipeline fetches historic rates for one product over a time range.
//
// Ranges longer than the exchange's per-request candle cap are split into
// partitions; longer ranges and smaller granularities increase the partition
// count.
type Pipeline struct {
	Product     string // e.g. "BTC-USD"
	Start, End  time.Time
	Granularity time.Duration

	client *Client
}

// NewPipeline creates a pipeline with the default API client.
func NewPipeline(product string, start, end time.Time, granularity time.Duration) (*Pipeline, error) {
	if !granularities[granularity] {
		return nil, fmt.Errorf("unsupported granularity %s", granularity)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("empty candle range %s..%s", start, end)
	}
	return &Pipeline{
		Product:     product,
		Start:       start,
		End:         end,
		Granularity: granularity,
		client:      NewClient(),
	}, nil
}

// RequestCount returns how many API calls the range needs.
func (p *Pipeline) RequestCount() int {
	candles := p.End.Sub(p.Start).Seconds() / p.Granularity.Seconds()
	return int(math.Ceil(candles / maxCandles))
}

// Partitions splits the range into spans of at most maxCandles candles each,
// newest first, matching the order the exchange returns candles in.
func (p *Pipeline) Partitions() []Span {
	interval := maxCandles * p.Granularity
	spans := make([]Span, 0, p.RequestCount())
	for start := p.Start; start.Before(p.End); start = start.Add(interval) {
		end := start.Add(interval)
		if end.After(p.End) {
			end = p.End
		}
		// prepend: newest span first.
		spans = append([]Span{{Start: start, End: end}}, spans...)
	}
	return spans
}

// Fetch collects all candles of the range, newest first.
//
// The exchange occasionally answers a valid request with an empty body; such
// a partition is requested once more before giving up on it.
func (p *Pipeline) Fetch(ctx context.Context) ([]Candle, error) {
	partitions := p.Partitions()
	log.Printf("fetching %s: %d candles per request, %d requests", p.Product, maxCandles, len(partitions))

	var candles []Candle
	for i, span := range partitions {
		batch, err := p.fetchSpan(ctx, span)
		if err != nil {
			return nil, fmt.Errorf("partition %d/%d of %s: %w", i+1, len(partitions), p.Product, err)
		}
		if len(batch) == 0 {
			// Inconsistent empty answer, try the partition once more.
			if batch, err = p.fetchSpan(ctx, span); err != nil {
				return nil, fmt.Errorf("partition %d/%d of %s: %w", i+1, len(partitions), p.Product, err)
			}
		}
		candles = append(candles, batch...)
	}
	return candles, nil
}

func (p *Pipeline) fetchSpan(ctx context.Context, span Span) ([]Candle, error) {
	query := url.Values{}
	query.Set("start", span.Start.UTC().Format(time.RFC3339))
	query.Set("end", span.End.UTC().Format(time.RFC3339))
	query.Set("granularity", fmt.Sprintf("%d", int(p.Granularity.Seconds())))

	var batch []Candle
	path := fmt.Sprintf("/products/%s/candles?%s", url.PathEscape(p.Product), query.Encode())
	if err := p.client.getJSON(ctx, path, &batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// WriteCSV fetches the range and writes the candles as flat CSV records.
func (p *Pipeline) WriteCSV(ctx context.Context, w io.Writer) error {
	candles, err := p.Fetch(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	for _, c := range candles {
		if err := cw.Write(c.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadMarketData feeds the close price of every candle into market data as
// the asset's price observation at the candle's bucket time.
func LoadMarketData(m *lattice.MarketData, asset lattice.AssetID, candles []Candle) {
	for _, c := range candles {
		m.Add(asset, c.Time, lattice.Q(c.Close))
	}
}
