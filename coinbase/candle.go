package coinbase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Candle is one OHLCV bucket for a product.
//
// The exchange returns candles as bare arrays of
// [time, low, high, open, close, volume] with time in unix seconds.
type Candle struct {
	Time   time.Time
	Low    float64
	High   float64
	Open   float64
	Close  float64
	Volume float64
}

// UnmarshalJSON implements the json.Unmarshaler interface for the exchange's
// array form.
func (c *Candle) UnmarshalJSON(b []byte) error {
	var fields [6]float64
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("malformed candle: %w", err)
	}
	c.Time = time.Unix(int64(fields[0]), 0).UTC()
	c.Low, c.High, c.Open, c.Close, c.Volume = fields[1], fields[2], fields[3], fields[4], fields[5]
	return nil
}

// Record returns the candle as one flat CSV record, mirroring the wire
// order.
func (c Candle) Record() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return []string{
		strconv.FormatInt(c.Time.Unix(), 10),
		f(c.Low), f(c.High), f(c.Open), f(c.Close), f(c.Volume),
	}
}

// ParseRecord rebuilds a candle from a CSV record written by Record.
func ParseRecord(record []string) (Candle, error) {
	if len(record) != 6 {
		return Candle{}, fmt.Errorf("candle record has %d fields, want 6", len(record))
	}
	sec, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return Candle{}, fmt.Errorf("bad candle time %q: %w", record[0], err)
	}
	var fields [5]float64
	for i, s := range record[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Candle{}, fmt.Errorf("bad candle field %q: %w", s, err)
		}
		fields[i] = v
	}
	return Candle{
		Time: time.Unix(sec, 0).UTC(),
		Low:  fields[0], High: fields[1], Open: fields[2], Close: fields[3], Volume: fields[4],
	}, nil
}
