package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// The public YQL endpoint needs the community datatables environment before
// it will serve the yahoo.finance.* tables.
const yqlEnv = "store://datatables.org/alltableswithkeys"

// yqlEnvelope mirrors the outer YQL response document.
type yqlEnvelope struct {
	Query struct {
		Results json.RawMessage `json:"results"`
	} `json:"query"`
}

// yqlJSON runs one YQL statement with format=json and returns the inner
// results object, which is null when the query matched nothing.
func (c *Client) yqlJSON(ctx context.Context, s settings, statement string) (json.RawMessage, error) {
	body, err := c.get(ctx, s, yqlURL(s.yqlBaseURL, statement, "json"))
	if err != nil {
		return nil, err
	}
	var env yqlEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding yql envelope: %w", err)
	}
	return env.Query.Results, nil
}

// yqlXML runs one YQL statement with format=xml and returns the whole
// response document for the caller to unmarshal.
func (c *Client) yqlXML(ctx context.Context, s settings, statement string) ([]byte, error) {
	return c.get(ctx, s, yqlURL(s.yqlBaseURL, statement, "xml"))
}

func yqlURL(baseURL, statement, format string) string {
	query := url.Values{}
	query.Set("q", statement)
	query.Set("format", format)
	query.Set("env", yqlEnv)
	return fmt.Sprintf("%s?%s", baseURL, query.Encode())
}

// resultsMember pulls one named member out of a YQL results object. A null
// results document and an absent member both yield nil.
func resultsMember(results json.RawMessage, name string) (json.RawMessage, error) {
	if isNull(results) {
		return nil, nil
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(results, &members); err != nil {
		return nil, fmt.Errorf("decoding yql results: %w", err)
	}
	return members[name], nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// yqlList renders values as a YQL string list: "YHOO","GOOG".
func yqlList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, ",")
}
