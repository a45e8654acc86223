package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Suggestion is one match from the symbol suggestion service.
type Suggestion struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchDisp"`
	Type     string `json:"typeDisp"`
}

type suggestEnvelope struct {
	ResultSet struct {
		Result []Suggestion `json:"Result"`
	} `json:"ResultSet"`
}

// suggestCallback is the JSONP wrapper name the suggestion service requires.
const suggestCallback = "YAHOO.Finance.SymbolSuggest.ssCallback"

// SuggestSymbols looks up ticker suggestions for a free-text query, which
// is how a company name is resolved to its symbol. The service only talks
// JSONP; the padding is stripped before decoding.
func (c *Client) SuggestSymbols(ctx context.Context, query string, opts ...ClientOption) ([]Suggestion, error) {
	s := c.call(opts)

	params := url.Values{}
	params.Set("query", query)
	params.Set("callback", suggestCallback)

	body, err := c.get(ctx, s, fmt.Sprintf("%s?%s", s.suggestBaseURL, params.Encode()))
	if err != nil {
		return nil, err
	}
	payload, err := stripJSONP(body)
	if err != nil {
		return nil, err
	}

	var env suggestEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decoding suggestions: %w", err)
	}
	return env.ResultSet.Result, nil
}

// stripJSONP unwraps callback(...) padding around a JSON payload.
func stripJSONP(body []byte) ([]byte, error) {
	start := bytes.IndexByte(body, '(')
	end := bytes.LastIndexByte(body, ')')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("stripping jsonp: no payload")
	}
	return body[start+1 : end], nil
}
