package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fxtlabs/stockings/quote"
)

// Company is descriptive metadata for one symbol from the stocks table.
type Company struct {
	Symbol            string      `json:"symbol"`
	Name              string      `json:"name"`
	Sector            string      `json:"sector"`
	Industry          string      `json:"industry"`
	Start             *quote.Date `json:"start"`
	End               *quote.Date `json:"end"`
	FullTimeEmployees *int64      `json:"full_time_employees"`
}

// CompanyInfo fetches company metadata for one symbol. An unknown symbol
// yields ErrNotFound.
func (c *Client) CompanyInfo(ctx context.Context, symbol string, opts ...ClientOption) (*Company, error) {
	s := c.call(opts)

	statement := fmt.Sprintf("select * from yahoo.finance.stocks where symbol = %s", strconv.Quote(symbol))
	results, err := c.yqlJSON(ctx, s, statement)
	if err != nil {
		return nil, err
	}
	member, err := resultsMember(results, "stock")
	if err != nil {
		return nil, err
	}
	if isNull(member) {
		return nil, fmt.Errorf("symbol %q: %w", symbol, ErrNotFound)
	}

	var rec quote.RawRecord
	if err := json.Unmarshal(member, &rec); err != nil {
		return nil, fmt.Errorf("decoding stock: %w", err)
	}
	// The stocks table answers unknown symbols with a bare echo record.
	if _, ok := rec.Get("CompanyName"); !ok {
		return nil, fmt.Errorf("symbol %q: %w", symbol, ErrNotFound)
	}

	info := &Company{
		Symbol:   rawValue(rec, "symbol"),
		Name:     rawValue(rec, "CompanyName"),
		Sector:   rawValue(rec, "Sector"),
		Industry: rawValue(rec, "Industry"),
	}
	if v, ok := quote.ParseDate(rawValue(rec, "start")); ok {
		info.Start = &v
	}
	if v, ok := quote.ParseDate(rawValue(rec, "end")); ok {
		info.End = &v
	}
	if v, ok := quote.ParseInt(rawValue(rec, "FullTimeEmployees")); ok {
		info.FullTimeEmployees = &v
	}
	return info, nil
}
