package quote

// Kind enumerates the coercion types a raw field can carry. The set is
// closed: adding a Kind means teaching Coerce about it.
type Kind int

const (
	// KindString passes the raw value through untouched.
	KindString Kind = iota
	// KindInt coerces a signed decimal integer.
	KindInt
	// KindFloat coerces a decimal number with an optional K/M/B suffix.
	KindFloat
	// KindPercent coerces "12.3%" into the fraction 0.123.
	KindPercent
	// KindDate coerces a calendar date.
	KindDate
	// KindClock coerces a 12-hour wall-clock time such as "4:00pm".
	KindClock
)

var kindNames = [...]string{
	KindString:  "string",
	KindInt:     "int",
	KindFloat:   "float",
	KindPercent: "percent",
	KindDate:    "date",
	KindClock:   "clock",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Coerce applies the kind's parser to a raw string. The result is one of
// string, int64, float64, Date, Clock, or nil when the value does not parse.
// KindString maps the empty string to nil so that absent and blank fields
// look the same to callers.
func (k Kind) Coerce(raw string) any {
	switch k {
	case KindString:
		if raw == "" {
			return nil
		}
		return raw
	case KindInt:
		if v, ok := ParseInt(raw); ok {
			return v
		}
	case KindFloat:
		if v, ok := ParseFloat(raw); ok {
			return v
		}
	case KindPercent:
		if v, ok := ParsePercent(raw); ok {
			return v
		}
	case KindDate:
		if v, ok := ParseDate(raw); ok {
			return v
		}
	case KindClock:
		if v, ok := ParseClock(raw); ok {
			return v
		}
	}
	return nil
}
