package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fxtlabs/stockings/quote"
)

// StockQuote is the typed default view of one quote record. Pointer fields
// are nil when the service had no data for them.
type StockQuote struct {
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	Last          *float64   `json:"last"`
	Open          *float64   `json:"open"`
	PreviousClose *float64   `json:"previous_close"`
	High          *float64   `json:"high"`
	Low           *float64   `json:"low"`
	Volume        *int64     `json:"volume"`
	LastDateTime  *time.Time `json:"last_date_time"`
}

// RawQuotes fetches one raw record per symbol from the quotes table. The
// result is normalized to a uniform sequence in request order, sentinel
// records included; callers that want the filtering done should project the
// records or use Quotes.
func (c *Client) RawQuotes(ctx context.Context, symbols []string, opts ...ClientOption) (quote.RawRecords, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	s := c.call(opts)

	statement := fmt.Sprintf("select * from yahoo.finance.quotes where symbol in (%s)", yqlList(symbols))
	results, err := c.yqlJSON(ctx, s, statement)
	if err != nil {
		return nil, err
	}
	member, err := resultsMember(results, "quote")
	if err != nil {
		return nil, err
	}

	var recs quote.RawRecords
	if len(member) > 0 {
		if err := json.Unmarshal(member, &recs); err != nil {
			return nil, fmt.Errorf("decoding quotes: %w", err)
		}
	}
	if len(recs) != len(symbols) {
		return nil, fmt.Errorf("unexpected quote count: got %d, want %d", len(recs), len(symbols))
	}
	return recs, nil
}

// Quotes fetches current quotes for symbols. The result holds one entry per
// requested symbol in request order; an entry is nil when the service does
// not know that symbol.
func (c *Client) Quotes(ctx context.Context, symbols []string, opts ...ClientOption) ([]*StockQuote, error) {
	recs, err := c.RawQuotes(ctx, symbols, opts...)
	if err != nil {
		return nil, err
	}
	quotes := make([]*StockQuote, len(recs))
	for i, rec := range recs {
		if rec.SymbolError() {
			continue
		}
		quotes[i] = stockQuote(rec)
	}
	return quotes, nil
}

// Quote fetches the current quote for one symbol. An unknown symbol yields
// ErrNotFound.
func (c *Client) Quote(ctx context.Context, symbol string, opts ...ClientOption) (*StockQuote, error) {
	quotes, err := c.Quotes(ctx, []string{symbol}, opts...)
	if err != nil {
		return nil, err
	}
	if quotes[0] == nil {
		return nil, fmt.Errorf("symbol %q: %w", symbol, ErrNotFound)
	}
	return quotes[0], nil
}

// ValidSymbol reports whether the service knows symbol.
func (c *Client) ValidSymbol(ctx context.Context, symbol string, opts ...ClientOption) (bool, error) {
	recs, err := c.RawQuotes(ctx, []string{symbol}, opts...)
	if err != nil {
		return false, err
	}
	return !recs[0].SymbolError(), nil
}

// CustomQuotes fetches quotes shaped by the caller's projection instead of
// the built-in StockQuote view. The result holds one record per requested
// symbol in request order, nil for unknown symbols. It is a function rather
// than a method so the projection may use any key type.
func CustomQuotes[K comparable](ctx context.Context, c *Client, p *quote.Projection[K], symbols []string, opts ...ClientOption) ([]*quote.Record[K], error) {
	recs, err := c.RawQuotes(ctx, symbols, opts...)
	if err != nil {
		return nil, err
	}
	return p.ProjectBatch(recs), nil
}

// stockQuote builds the typed default view from one clean raw record.
func stockQuote(rec quote.RawRecord) *StockQuote {
	sq := &StockQuote{
		Symbol:        stringField(rec, "symbol"),
		Name:          stringField(rec, "Name"),
		Last:          floatField(rec, "LastTradePriceOnly"),
		Open:          floatField(rec, "Open"),
		PreviousClose: floatField(rec, "PreviousClose"),
		High:          floatField(rec, "DaysHigh"),
		Low:           floatField(rec, "DaysLow"),
		Volume:        intField(rec, "Volume"),
	}
	if d, okDate := dateField(rec, quote.FieldLastTradeDate); okDate {
		if t, okClock := clockField(rec, quote.FieldLastTradeTime); okClock {
			at := quote.ReconcileTradeTime(d, t)
			sq.LastDateTime = &at
		}
	}
	return sq
}

func stringField(rec quote.RawRecord, name string) string {
	v, _ := quote.Fields.Coerce(name, rawValue(rec, name)).(string)
	return v
}

func floatField(rec quote.RawRecord, name string) *float64 {
	if v, ok := quote.Fields.Coerce(name, rawValue(rec, name)).(float64); ok {
		return &v
	}
	return nil
}

func intField(rec quote.RawRecord, name string) *int64 {
	if v, ok := quote.Fields.Coerce(name, rawValue(rec, name)).(int64); ok {
		return &v
	}
	return nil
}

func dateField(rec quote.RawRecord, name string) (quote.Date, bool) {
	v, ok := quote.Fields.Coerce(name, rawValue(rec, name)).(quote.Date)
	return v, ok
}

func clockField(rec quote.RawRecord, name string) (quote.Clock, bool) {
	v, ok := quote.Fields.Coerce(name, rawValue(rec, name)).(quote.Clock)
	return v, ok
}

func rawValue(rec quote.RawRecord, name string) string {
	v, _ := rec.Get(name)
	return v
}
