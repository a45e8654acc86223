package yahoo

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/fxtlabs/stockings/quote"
)

// csvTags lists the format tags requested from the legacy CSV quote
// endpoint, in column order, with the raw field each column carries.
var csvTags = []struct {
	tag   string
	field string
}{
	{"s", "Symbol"},
	{"n", "Name"},
	{"l1", "LastTradePriceOnly"},
	{"d1", quote.FieldLastTradeDate},
	{"t1", quote.FieldLastTradeTime},
	{"o", "Open"},
	{"p", "PreviousClose"},
	{"h", "DaysHigh"},
	{"g", "DaysLow"},
	{"v", "Volume"},
	{"x", "StockExchange"},
	{"c1", "Change"},
	{"j1", "MarketCapitalization"},
}

// QuotesCSV fetches quotes from the legacy CSV endpoint instead of YQL. It
// covers a fixed column set drawn from the same field vocabulary and
// answers in ISO-8859-1, which is transcoded to UTF-8 before parsing. One
// record per requested symbol, in request order. The endpoint knows no
// sentinel field; an unknown symbol comes back with "N/A" cells, kept
// verbatim, which coerce to nil like any other malformed value.
func (c *Client) QuotesCSV(ctx context.Context, symbols []string, opts ...ClientOption) (quote.RawRecords, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	s := c.call(opts)

	tags := make([]string, len(csvTags))
	for i, t := range csvTags {
		tags[i] = t.tag
	}
	query := url.Values{}
	query.Set("s", strings.Join(symbols, " ")) // encodes as s=YHOO+GOOG
	query.Set("f", strings.Join(tags, ""))
	query.Set("e", ".csv")

	body, err := c.get(ctx, s, fmt.Sprintf("%s?%s", s.csvBaseURL, query.Encode()))
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(body)))
	reader.FieldsPerRecord = len(csvTags)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing quotes csv: %w", err)
	}
	if len(rows) != len(symbols) {
		return nil, fmt.Errorf("unexpected quote count: got %d, want %d", len(rows), len(symbols))
	}

	recs := make(quote.RawRecords, len(rows))
	for i, row := range rows {
		for j, t := range csvTags {
			recs[i].Set(t.field, row[j])
		}
	}
	return recs, nil
}
