package quote

import (
	"testing"
	"time"
	_ "time/tzdata" // East Coast zone must resolve even on hosts without tzdata
)

func TestReconcileTradeTime_SummerOffset(t *testing.T) {
	// 2011-05-27 is under daylight saving: 4:00pm EDT is 20:00 UTC.
	got := ReconcileTradeTime(
		Date{Year: 2011, Month: time.May, Day: 27},
		Clock{Hour: 16, Minute: 0},
	)
	want := time.Date(2011, time.May, 27, 20, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v; want %v", got, want)
	}
}

func TestReconcileTradeTime_WinterOffset(t *testing.T) {
	// 2011-01-14 is standard time: 4:00pm EST is 21:00 UTC.
	got := ReconcileTradeTime(
		Date{Year: 2011, Month: time.January, Day: 14},
		Clock{Hour: 16, Minute: 0},
	)
	want := time.Date(2011, time.January, 14, 21, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v; want %v", got, want)
	}
}

func TestReconcileTradeTime_DateStaysAuthoritative(t *testing.T) {
	// 9:30pm EST converts to 02:30 UTC the NEXT day, but the reported date
	// is already UTC, so the date component must be forced back.
	got := ReconcileTradeTime(
		Date{Year: 2011, Month: time.January, Day: 14},
		Clock{Hour: 21, Minute: 30},
	)
	want := time.Date(2011, time.January, 14, 2, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v; want %v", got, want)
	}
}

func TestReconcileTradeTime_AlwaysUTC(t *testing.T) {
	got := ReconcileTradeTime(
		Date{Year: 2011, Month: time.May, Day: 27},
		Clock{Hour: 9, Minute: 30},
	)
	if got.Location() != time.UTC {
		t.Fatalf("location = %v; want UTC", got.Location())
	}
}
