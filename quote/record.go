package quote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// RawRecord is one upstream record: an ordered mapping from raw field name
// to raw string value, exactly as decoded from the wire. Absent fields and
// empty values both mean "no data".
type RawRecord struct {
	names  []string
	values map[string]string
}

// Set stores value under name, appending name to the record's field order on
// first use.
func (r *RawRecord) Set(name, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Get returns the raw value stored under name.
func (r RawRecord) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names lists the record's field names in wire order.
func (r RawRecord) Names() []string {
	return slices.Clone(r.names)
}

// Len reports the number of fields in the record.
func (r RawRecord) Len() int { return len(r.names) }

// SymbolError reports whether the record carries the upstream
// symbol-not-found marker. The service answers such lookups with HTTP 200
// and a record whose only meaningful content is this field, so the check
// must run before the record is projected.
func (r RawRecord) SymbolError() bool {
	return r.values[FieldErrorIndication] != ""
}

// UnmarshalJSON decodes a flat JSON object into the record, keeping the
// fields in wire order. Scalar values become their literal text, null
// becomes the empty string, and nested objects or arrays are rejected.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("quote: record must be a JSON object, got %v", tok)
	}
	*r = RawRecord{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("quote: record key %v is not a string", tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case string:
			r.Set(name, v)
		case json.Number:
			r.Set(name, v.String())
		case bool:
			r.Set(name, strconv.FormatBool(v))
		case nil:
			r.Set(name, "")
		default:
			return fmt.Errorf("quote: field %q holds nested JSON, want a scalar", name)
		}
	}
	_, err = dec.Token() // closing brace
	return err
}

// MarshalJSON renders the record as a JSON object in wire order.
func (r RawRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(name))
		buf.WriteByte(':')
		buf.WriteString(strconv.Quote(r.values[name]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RawRecords is a sequence of raw records. The upstream service answers a
// one-symbol request with a bare object and a multi-symbol request with an
// array; UnmarshalJSON accepts both shapes so callers always see a uniform
// slice, in response order.
type RawRecords []RawRecord

// UnmarshalJSON decodes either a single JSON object or an array of objects.
// JSON null decodes as an empty sequence.
func (rs *RawRecords) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var r RawRecord
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		*rs = RawRecords{r}
		return nil
	}
	var recs []RawRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return err
	}
	*rs = recs
	return nil
}

// Record is an ordered mapping from a caller-chosen key type to coerced
// values. A nil value means the source field was absent or failed to coerce.
// Values are one of string, int64, float64, Date, Clock, or time.Time.
type Record[K comparable] struct {
	keys   []K
	values map[K]any
}

// Set stores value under key, appending key to the record's order on first
// use.
func (r *Record[K]) Set(key K, value any) {
	if r.values == nil {
		r.values = make(map[K]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key and whether the key is present.
func (r Record[K]) Get(key K) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value stored under key, or nil when the key is absent.
func (r Record[K]) Value(key K) any { return r.values[key] }

// Keys lists the record's keys in insertion order.
func (r Record[K]) Keys() []K {
	return slices.Clone(r.keys)
}

// Len reports the number of keys in the record.
func (r Record[K]) Len() int { return len(r.keys) }

// MarshalJSON renders the record as a JSON object in key order. Non-string
// key types are formatted with fmt.Sprint.
func (r Record[K]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(fmt.Sprint(k)))
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
