package quote

import (
	"fmt"
	"slices"
)

// ProjectionEntry declares one output slot of a projection. Build entries
// with Bind or TradeTime; the set of entry kinds is closed.
type ProjectionEntry[K comparable] interface {
	key() K
}

type fieldEntry[K comparable] struct {
	k     K
	field string
}

func (e fieldEntry[K]) key() K { return e.k }

type tradeTimeEntry[K comparable] struct {
	k K
}

func (e tradeTimeEntry[K]) key() K { return e.k }

// Bind declares an output slot under key holding the coerced value of the
// named raw field.
func Bind[K comparable](key K, field string) ProjectionEntry[K] {
	return fieldEntry[K]{k: key, field: field}
}

// TradeTime declares an output slot under key holding the reconciled UTC
// last-trade instant built from the record's LastTradeDate and LastTradeTime
// fields. The slot is nil when either half is missing or malformed.
func TradeTime[K comparable](key K) ProjectionEntry[K] {
	return tradeTimeEntry[K]{k: key}
}

// Projection is an immutable recipe mapping caller-chosen output keys to raw
// fields. Build one with NewProjection and reuse it; Project is safe to call
// from any goroutine.
type Projection[K comparable] struct {
	fields  *FieldSet
	entries []ProjectionEntry[K]
}

// NewProjection builds a projection over the given registry, or over Fields
// when fields is nil. Duplicate output keys are rejected here rather than
// surfacing as surprises at projection time. Binding a raw field the
// registry does not know is allowed and projects nil, the same as an absent
// field.
func NewProjection[K comparable](fields *FieldSet, entries ...ProjectionEntry[K]) (*Projection[K], error) {
	if fields == nil {
		fields = Fields
	}
	seen := make(map[K]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.key()]; dup {
			return nil, fmt.Errorf("quote: duplicate projection key %v", e.key())
		}
		seen[e.key()] = struct{}{}
	}
	return &Projection[K]{fields: fields, entries: slices.Clone(entries)}, nil
}

func mustProjection[K comparable](p *Projection[K], err error) *Projection[K] {
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultProjection covers the quote summary most callers want: symbol,
// name, prices, day range, volume, and the reconciled last-trade instant
// under "last-date-time".
var DefaultProjection = mustProjection(NewProjection(Fields,
	Bind("symbol", "symbol"),
	Bind("name", "Name"),
	Bind("last", "LastTradePriceOnly"),
	Bind("open", "Open"),
	Bind("previous-close", "PreviousClose"),
	Bind("high", "DaysHigh"),
	Bind("low", "DaysLow"),
	Bind("volume", "Volume"),
	TradeTime("last-date-time"),
))

// Keys lists the projection's output keys in declaration order.
func (p *Projection[K]) Keys() []K {
	keys := make([]K, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.key()
	}
	return keys
}

// Project extracts the projection's fields from r into a typed record. The
// output contains exactly the projection's keys in declaration order, with
// nil for anything absent or malformed. Project does not filter sentinel
// records; check SymbolError first or use ProjectBatch.
func (p *Projection[K]) Project(r RawRecord) Record[K] {
	var out Record[K]
	for _, e := range p.entries {
		switch e := e.(type) {
		case fieldEntry[K]:
			raw, _ := r.Get(e.field)
			out.Set(e.k, p.fields.Coerce(e.field, raw))
		case tradeTimeEntry[K]:
			out.Set(e.k, tradeTime(r))
		}
	}
	return out
}

func tradeTime(r RawRecord) any {
	rawDate, _ := r.Get(FieldLastTradeDate)
	rawClock, _ := r.Get(FieldLastTradeTime)
	d, ok := ParseDate(rawDate)
	if !ok {
		return nil
	}
	c, ok := ParseClock(rawClock)
	if !ok {
		return nil
	}
	return ReconcileTradeTime(d, c)
}

// ProjectBatch applies the projection to each record with the sentinel
// filter in front: the slot for a record reporting an invalid symbol stays
// nil. Slot i always corresponds to recs[i], so callers can line results up
// with the symbols they asked for.
func (p *Projection[K]) ProjectBatch(recs []RawRecord) []*Record[K] {
	out := make([]*Record[K], len(recs))
	for i, r := range recs {
		if r.SymbolError() {
			continue
		}
		rec := p.Project(r)
		out[i] = &rec
	}
	return out
}
