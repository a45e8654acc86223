package quote

import (
	"sync"
	"time"
)

// The quote service reports last-trade times as US East Coast wall clock.
// FixedZone keeps reconciliation working on hosts without tzdata, at the
// cost of ignoring daylight saving.
var easternZone = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
})

// ReconcileTradeTime merges the two halves of a last-trade timestamp into a
// single UTC instant. The service reports the trade date already in UTC but
// the trade time as East Coast wall clock, so neither field can be trusted
// alone: the pair is first interpreted as an East Coast civil datetime and
// converted to UTC, then the date portion is overwritten with the original
// date, which is authoritative. A late trade that crosses midnight in UTC
// therefore keeps the reported date, matching what the service itself
// publishes.
func ReconcileTradeTime(d Date, c Clock) time.Time {
	civil := time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, easternZone())
	utc := civil.UTC()
	return time.Date(d.Year, d.Month, d.Day, utc.Hour(), utc.Minute(), utc.Second(), 0, time.UTC)
}
