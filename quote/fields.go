package quote

import "fmt"

// Field names referenced outside the registry table.
const (
	// FieldErrorIndication is the in-band marker the quote service sets on a
	// record when the requested symbol does not exist. The odd spelling is
	// the literal key emitted upstream.
	FieldErrorIndication = "ErrorIndicationreturnedforsymbolchangedinvalid"

	// FieldLastTradeDate and FieldLastTradeTime carry the two halves of the
	// last-trade timestamp. See ReconcileTradeTime for why they need each
	// other.
	FieldLastTradeDate = "LastTradeDate"
	FieldLastTradeTime = "LastTradeTime"
)

// FieldDef binds one raw field name to its coercion kind.
type FieldDef struct {
	Name string
	Kind Kind
}

// FieldSet is an immutable registry of field definitions with a stable
// enumeration order. The zero FieldSet is empty; use NewFieldSet.
type FieldSet struct {
	defs  []FieldDef
	kinds map[string]Kind
}

// NewFieldSet builds a registry from defs, preserving their order. It panics
// on a duplicate name, which can only be a mistake in a static table.
func NewFieldSet(defs ...FieldDef) *FieldSet {
	fs := &FieldSet{
		defs:  make([]FieldDef, len(defs)),
		kinds: make(map[string]Kind, len(defs)),
	}
	copy(fs.defs, defs)
	for _, d := range defs {
		if _, dup := fs.kinds[d.Name]; dup {
			panic(fmt.Sprintf("quote: duplicate field %q", d.Name))
		}
		fs.kinds[d.Name] = d.Kind
	}
	return fs
}

// Names enumerates every registered raw field name in registration order.
func (fs *FieldSet) Names() []string {
	names := make([]string, len(fs.defs))
	for i, d := range fs.defs {
		names[i] = d.Name
	}
	return names
}

// Len reports the number of registered fields.
func (fs *FieldSet) Len() int { return len(fs.defs) }

// Has reports whether name is registered.
func (fs *FieldSet) Has(name string) bool {
	_, ok := fs.kinds[name]
	return ok
}

// Kind looks up the coercion kind registered for name.
func (fs *FieldSet) Kind(name string) (Kind, bool) {
	k, ok := fs.kinds[name]
	return k, ok
}

// Coerce parses raw according to the kind registered for name. An
// unregistered name yields nil; this is the one place "field not recognized"
// is decided.
func (fs *FieldSet) Coerce(name, raw string) any {
	k, ok := fs.kinds[name]
	if !ok {
		return nil
	}
	return k.Coerce(raw)
}

// Fields is the registry of every raw field name the quote service emits.
// Names are verbatim upstream keys, misspellings included.
var Fields = NewFieldSet(
	FieldDef{"symbol", KindString}, // lowercase echo of the requested symbol
	FieldDef{"Ask", KindFloat},
	FieldDef{"AskRealtime", KindFloat},
	FieldDef{"AverageDailyVolume", KindInt},
	FieldDef{"Bid", KindFloat},
	FieldDef{"BidRealtime", KindFloat},
	FieldDef{"BookValue", KindFloat},
	FieldDef{"Change", KindFloat},
	FieldDef{"ChangeFromFiftydayMovingAverage", KindFloat},
	FieldDef{"ChangeFromTwoHundreddayMovingAverage", KindFloat},
	FieldDef{"ChangeFromYearHigh", KindFloat},
	FieldDef{"ChangeFromYearLow", KindFloat},
	FieldDef{"ChangeRealtime", KindFloat},
	FieldDef{"Currency", KindString},
	FieldDef{"DaysHigh", KindFloat},
	FieldDef{"DaysLow", KindFloat},
	FieldDef{"DividendPayDate", KindDate},
	FieldDef{"DividendShare", KindFloat},
	FieldDef{"DividendYield", KindFloat},
	FieldDef{"EBITDA", KindFloat},
	FieldDef{"EPSEstimateCurrentYear", KindFloat},
	FieldDef{"EPSEstimateNextQuarter", KindFloat},
	FieldDef{"EPSEstimateNextYear", KindFloat},
	FieldDef{"EarningsShare", KindFloat},
	FieldDef{FieldErrorIndication, KindString},
	FieldDef{"ExDividendDate", KindDate},
	FieldDef{"FiftydayMovingAverage", KindFloat},
	FieldDef{"HighLimit", KindFloat},
	FieldDef{FieldLastTradeDate, KindDate},
	FieldDef{"LastTradePriceOnly", KindFloat},
	FieldDef{FieldLastTradeTime, KindClock},
	FieldDef{"LowLimit", KindFloat},
	FieldDef{"MarketCapitalization", KindFloat},
	FieldDef{"Name", KindString},
	FieldDef{"OneyrTargetPrice", KindFloat},
	FieldDef{"Open", KindFloat},
	FieldDef{"PEGRatio", KindFloat},
	FieldDef{"PERatio", KindFloat},
	FieldDef{"PercebtChangeFromYearHigh", KindPercent}, // upstream typo, kept verbatim
	FieldDef{"PercentChange", KindPercent},
	FieldDef{"PercentChangeFromFiftydayMovingAverage", KindPercent},
	FieldDef{"PercentChangeFromTwoHundreddayMovingAverage", KindPercent},
	FieldDef{"PercentChangeFromYearLow", KindPercent},
	FieldDef{"PreviousClose", KindFloat},
	FieldDef{"PriceBook", KindFloat},
	FieldDef{"PriceEPSEstimateCurrentYear", KindFloat},
	FieldDef{"PriceEPSEstimateNextYear", KindFloat},
	FieldDef{"PriceSales", KindFloat},
	FieldDef{"ShortRatio", KindFloat},
	FieldDef{"StockExchange", KindString},
	FieldDef{"Symbol", KindString},
	FieldDef{"TwoHundreddayMovingAverage", KindFloat},
	FieldDef{"Volume", KindInt},
	FieldDef{"YearHigh", KindFloat},
	FieldDef{"YearLow", KindFloat},
)
