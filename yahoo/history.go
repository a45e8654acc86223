package yahoo

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/fxtlabs/stockings/quote"
)

// Bar is one day of a historical price series.
type Bar struct {
	Date     quote.Date `json:"date"`
	Open     float64    `json:"open"`
	High     float64    `json:"high"`
	Low      float64    `json:"low"`
	Close    float64    `json:"close"`
	Volume   int64      `json:"volume"`
	AdjClose float64    `json:"adj_close"`
}

// History fetches the daily price series for symbol between from and to
// inclusive, oldest bar first. An unknown symbol yields ErrNotFound.
func (c *Client) History(ctx context.Context, symbol string, from, to quote.Date, opts ...ClientOption) ([]Bar, error) {
	return c.history(ctx, c.call(opts), symbol, from, to)
}

// Histories fetches several series with bounded fan-out, one slice per
// symbol in input order. The first failing symbol cancels the rest; use
// History per symbol when partial results matter.
func (c *Client) Histories(ctx context.Context, symbols []string, from, to quote.Date, opts ...ClientOption) ([][]Bar, error) {
	s := c.call(opts)
	series := make([][]Bar, len(symbols))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, symbol := range symbols {
		g.Go(func() error {
			bars, err := c.history(ctx, s, symbol, from, to)
			if err != nil {
				return fmt.Errorf("history %s: %w", symbol, err)
			}
			series[i] = bars
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return series, nil
}

func (c *Client) history(ctx context.Context, s settings, symbol string, from, to quote.Date) ([]Bar, error) {
	query := url.Values{}
	query.Set("s", symbol)
	// The chart endpoint counts months from zero.
	query.Set("a", strconv.Itoa(int(from.Month)-1))
	query.Set("b", strconv.Itoa(from.Day))
	query.Set("c", strconv.Itoa(from.Year))
	query.Set("d", strconv.Itoa(int(to.Month)-1))
	query.Set("e", strconv.Itoa(to.Day))
	query.Set("f", strconv.Itoa(to.Year))
	query.Set("g", "d")
	query.Set("ignore", ".csv")

	body, err := c.get(ctx, s, fmt.Sprintf("%s?%s", s.chartBaseURL, query.Encode()))
	if err != nil {
		return nil, err
	}
	return parseHistory(body)
}

// parseHistory decodes the chart CSV: a header row, then one row per
// trading day, newest first. Bars come back oldest first. Unlike quote
// fields, a malformed cell here is a hard error; the chart endpoint emits
// no in-band nulls.
func parseHistory(body []byte) ([]Bar, error) {
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = 7
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing history csv: %w", err)
	}
	if len(rows) == 0 || rows[0][0] != "Date" {
		return nil, fmt.Errorf("parsing history csv: missing header")
	}

	bars := make([]Bar, 0, len(rows)-1)
	for _, row := range rows[1:] {
		bar, err := parseBar(row)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	slices.SortFunc(bars, func(a, b Bar) int { return a.Date.Compare(b.Date) })
	return bars, nil
}

func parseBar(row []string) (Bar, error) {
	date, ok := quote.ParseDate(row[0])
	if !ok {
		return Bar{}, fmt.Errorf("parsing history csv: bad date %q", row[0])
	}
	open, err := floatCell(row[1], "open")
	if err != nil {
		return Bar{}, err
	}
	high, err := floatCell(row[2], "high")
	if err != nil {
		return Bar{}, err
	}
	low, err := floatCell(row[3], "low")
	if err != nil {
		return Bar{}, err
	}
	clse, err := floatCell(row[4], "close")
	if err != nil {
		return Bar{}, err
	}
	volume, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return Bar{}, fmt.Errorf("parsing history csv: bad volume %q", row[5])
	}
	adj, err := floatCell(row[6], "adj close")
	if err != nil {
		return Bar{}, err
	}
	return Bar{
		Date:     date,
		Open:     open,
		High:     high,
		Low:      low,
		Close:    clse,
		Volume:   volume,
		AdjClose: adj,
	}, nil
}

func floatCell(value, column string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing history csv: bad %s %q", column, value)
	}
	return v, nil
}
