package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fxtlabs/stockings/quote"
)

// FxRate is the current quote for one currency pair from the exchange
// table. Pointer fields are nil when the service had no data. UpdatedAt is
// the quoted Date and Time reconciled to a UTC instant.
type FxRate struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Rate      *float64     `json:"rate"`
	Ask       *float64     `json:"ask"`
	Bid       *float64     `json:"bid"`
	Date      *quote.Date  `json:"date"`
	Time      *quote.Clock `json:"time"`
	UpdatedAt *time.Time   `json:"updated_at"`
}

// ExchangeRates fetches current rates for currency pairs given as
// six-letter codes like "USDEUR", one result per pair in request order. A
// pair the service cannot price comes back with "N/A" content: an echoed ID
// and nil numbers.
func (c *Client) ExchangeRates(ctx context.Context, pairs []string, opts ...ClientOption) ([]FxRate, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	s := c.call(opts)

	statement := fmt.Sprintf("select * from yahoo.finance.xchange where pair in (%s)", yqlList(pairs))
	results, err := c.yqlJSON(ctx, s, statement)
	if err != nil {
		return nil, err
	}
	member, err := resultsMember(results, "rate")
	if err != nil {
		return nil, err
	}

	var recs quote.RawRecords
	if !isNull(member) {
		if err := json.Unmarshal(member, &recs); err != nil {
			return nil, fmt.Errorf("decoding rates: %w", err)
		}
	}
	if len(recs) != len(pairs) {
		return nil, fmt.Errorf("unexpected rate count: got %d, want %d", len(recs), len(pairs))
	}

	rates := make([]FxRate, len(recs))
	for i, rec := range recs {
		rates[i] = fxRate(rec)
	}
	return rates, nil
}

// ExchangeRate fetches the current rate for one pair. A pair the service
// cannot price yields ErrNotFound.
func (c *Client) ExchangeRate(ctx context.Context, pair string, opts ...ClientOption) (*FxRate, error) {
	rates, err := c.ExchangeRates(ctx, []string{pair}, opts...)
	if err != nil {
		return nil, err
	}
	if rates[0].Rate == nil {
		return nil, fmt.Errorf("pair %q: %w", pair, ErrNotFound)
	}
	return &rates[0], nil
}

// fxRate coerces one exchange record. The exchange table has its own small
// vocabulary, so the scalar parsers are used directly rather than through
// the quotes registry.
func fxRate(rec quote.RawRecord) FxRate {
	fx := FxRate{
		ID:   rawValue(rec, "id"),
		Name: rawValue(rec, "Name"),
	}
	if v, ok := quote.ParseFloat(rawValue(rec, "Rate")); ok {
		fx.Rate = &v
	}
	if v, ok := quote.ParseFloat(rawValue(rec, "Ask")); ok {
		fx.Ask = &v
	}
	if v, ok := quote.ParseFloat(rawValue(rec, "Bid")); ok {
		fx.Bid = &v
	}
	if v, ok := quote.ParseDate(rawValue(rec, "Date")); ok {
		fx.Date = &v
	}
	if v, ok := quote.ParseClock(rawValue(rec, "Time")); ok {
		fx.Time = &v
	}
	if fx.Date != nil && fx.Time != nil {
		at := quote.ReconcileTradeTime(*fx.Date, *fx.Time)
		fx.UpdatedAt = &at
	}
	return fx
}
