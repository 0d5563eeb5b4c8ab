package recur

import (
	"errors"
	"testing"
	"time"

	"github.com/sdoconnell/nrrdtask/internal/task"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := task.ParseTimestamp(s)
	if err != nil {
		t.Fatalf("ParseTimestamp(%q): %v", s, err)
	}
	return ts.Time
}

func TestParseRejectsEmptyAndUnrecognized(t *testing.T) {
	for _, expr := range []string{"", "garbage", "nonsense;more"} {
		if _, err := Parse(expr); !errors.Is(err, ErrNoRule) {
			t.Fatalf("Parse(%q) err = %v, want ErrNoRule", expr, err)
		}
	}
	// Recognized keys but neither freq nor date still cannot recur.
	if _, err := Parse("count=5;interval=2"); !errors.Is(err, ErrNoRule) {
		t.Fatalf("Parse without freq or date err = %v, want ErrNoRule", err)
	}
}

func TestParseDropsInvalidValues(t *testing.T) {
	r, err := Parse("freq=daily;byhour=9,99,17;byminute=-5,30;bymonthday=0,15,32")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(r.ByHour) != 2 || r.ByHour[0] != 9 || r.ByHour[1] != 17 {
		t.Fatalf("ByHour = %v", r.ByHour)
	}
	if len(r.ByMinute) != 1 || r.ByMinute[0] != 30 {
		t.Fatalf("ByMinute = %v", r.ByMinute)
	}
	if len(r.ByMonthDay) != 1 || r.ByMonthDay[0] != 15 {
		t.Fatalf("ByMonthDay = %v", r.ByMonthDay)
	}
}

func TestParseWeekdayCodes(t *testing.T) {
	r, err := Parse("freq=weekly;byweekday=mo,we,xx,fr")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	if len(r.ByWeekday) != len(want) {
		t.Fatalf("ByWeekday = %v", r.ByWeekday)
	}
	for i, wd := range want {
		if r.ByWeekday[i] != wd {
			t.Fatalf("ByWeekday[%d] = %v, want %v", i, r.ByWeekday[i], wd)
		}
	}
}

func TestDailyNext(t *testing.T) {
	r, err := Parse("freq=daily")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	start := mustTime(t, "2026-09-01 09:00")
	next, ok := r.Next(start, 0)
	if !ok || !next.Equal(mustTime(t, "2026-09-02 09:00")) {
		t.Fatalf("Next = %v ok=%t", next, ok)
	}
}

func TestDailyInterval(t *testing.T) {
	r, _ := Parse("freq=daily;interval=3")
	start := mustTime(t, "2026-09-01 09:00")
	occ := r.Occurrences(start, 3)
	want := []string{"2026-09-01 09:00", "2026-09-04 09:00", "2026-09-07 09:00"}
	if len(occ) != len(want) {
		t.Fatalf("Occurrences = %v", occ)
	}
	for i, w := range want {
		if !occ[i].Equal(mustTime(t, w)) {
			t.Fatalf("occ[%d] = %v, want %s", i, occ[i], w)
		}
	}
}

func TestWeeklyByWeekday(t *testing.T) {
	r, _ := Parse("freq=weekly;byweekday=mo,we")
	// 2026-09-01 is a Tuesday.
	start := mustTime(t, "2026-09-01 09:00")
	occ := r.Occurrences(start, 4)
	want := []string{"2026-09-02 09:00", "2026-09-07 09:00", "2026-09-09 09:00", "2026-09-14 09:00"}
	if len(occ) != len(want) {
		t.Fatalf("Occurrences = %v", occ)
	}
	for i, w := range want {
		if !occ[i].Equal(mustTime(t, w)) {
			t.Fatalf("occ[%d] = %v, want %s", i, occ[i], w)
		}
	}
}

func TestMonthlyByMonthDay(t *testing.T) {
	r, _ := Parse("freq=monthly;bymonthday=15")
	start := mustTime(t, "2026-09-01 10:00")
	occ := r.Occurrences(start, 2)
	want := []string{"2026-09-15 10:00", "2026-10-15 10:00"}
	if len(occ) != len(want) {
		t.Fatalf("Occurrences = %v", occ)
	}
	for i, w := range want {
		if !occ[i].Equal(mustTime(t, w)) {
			t.Fatalf("occ[%d] = %v, want %s", i, occ[i], w)
		}
	}
}

func TestMonthlyDefaultsToStartDay(t *testing.T) {
	r, _ := Parse("freq=monthly")
	start := mustTime(t, "2026-09-14 08:00")
	next, ok := r.Next(start, 0)
	if !ok || !next.Equal(mustTime(t, "2026-10-14 08:00")) {
		t.Fatalf("Next = %v ok=%t", next, ok)
	}
}

func TestBySetPosLastFridayOfMonth(t *testing.T) {
	r, _ := Parse("freq=monthly;byweekday=fr;bysetpos=-1")
	start := mustTime(t, "2026-09-01 09:00")
	occ := r.Occurrences(start, 2)
	want := []string{"2026-09-25 09:00", "2026-10-30 09:00"}
	if len(occ) != len(want) {
		t.Fatalf("Occurrences = %v", occ)
	}
	for i, w := range want {
		if !occ[i].Equal(mustTime(t, w)) {
			t.Fatalf("occ[%d] = %v, want %s", i, occ[i], w)
		}
	}
}

func TestYearly(t *testing.T) {
	r, _ := Parse("freq=yearly")
	start := mustTime(t, "2026-03-17 00:00")
	next, ok := r.Next(start, 0)
	if !ok || !next.Equal(mustTime(t, "2027-03-17 00:00")) {
		t.Fatalf("Next = %v ok=%t", next, ok)
	}
}

func TestHourlyByMinute(t *testing.T) {
	r, _ := Parse("freq=hourly;byminute=0,30")
	start := mustTime(t, "2026-09-01 09:00")
	occ := r.Occurrences(start, 3)
	want := []string{"2026-09-01 09:00", "2026-09-01 09:30", "2026-09-01 10:00"}
	if len(occ) != len(want) {
		t.Fatalf("Occurrences = %v", occ)
	}
	for i, w := range want {
		if !occ[i].Equal(mustTime(t, w)) {
			t.Fatalf("occ[%d] = %v, want %s", i, occ[i], w)
		}
	}
}

func TestDailyByHourExpansion(t *testing.T) {
	r, _ := Parse("freq=daily;byhour=9,17")
	start := mustTime(t, "2026-09-01 08:30")
	occ := r.Occurrences(start, 3)
	want := []string{"2026-09-01 09:30", "2026-09-01 17:30", "2026-09-02 09:30"}
	if len(occ) != len(want) {
		t.Fatalf("Occurrences = %v", occ)
	}
	for i, w := range want {
		if !occ[i].Equal(mustTime(t, w)) {
			t.Fatalf("occ[%d] = %v, want %s", i, occ[i], w)
		}
	}
}

func TestCountExhaustsLineage(t *testing.T) {
	r, _ := Parse("freq=daily;count=1")
	start := mustTime(t, "2026-09-01 09:00")
	occ := r.Occurrences(start, 0)
	if len(occ) != 1 || !occ[0].Equal(start) {
		t.Fatalf("Occurrences = %v", occ)
	}
	if _, ok := r.Next(start, 0); ok {
		t.Fatal("count=1 should leave no next occurrence")
	}
}

func TestUntilBoundsOccurrences(t *testing.T) {
	r, _ := Parse("freq=daily;until=2026-09-03")
	start := mustTime(t, "2026-09-01 09:00")
	occ := r.Occurrences(start, 0)
	// Sep 3 09:00 is past the until instant (midnight), so two remain.
	if len(occ) != 2 {
		t.Fatalf("Occurrences = %v", occ)
	}
	next, ok := r.Next(start, 0)
	if !ok || !next.Equal(mustTime(t, "2026-09-02 09:00")) {
		t.Fatalf("Next = %v ok=%t", next, ok)
	}
	if _, ok := r.Next(next, 0); ok {
		t.Fatal("until should exhaust the lineage")
	}
}

func TestExceptStrikesWholeDay(t *testing.T) {
	r, _ := Parse("freq=daily;except=2026-09-02")
	start := mustTime(t, "2026-09-01 09:00")
	next, ok := r.Next(start, 0)
	if !ok || !next.Equal(mustTime(t, "2026-09-03 09:00")) {
		t.Fatalf("Next = %v ok=%t", next, ok)
	}
}

func TestExplicitDatesWithoutFreq(t *testing.T) {
	r, err := Parse("date=2026-09-05,2026-09-10")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	start := mustTime(t, "2026-09-01 09:00")
	next, ok := r.Next(start, 0)
	if !ok || !next.Equal(mustTime(t, "2026-09-05 00:00")) {
		t.Fatalf("Next = %v ok=%t", next, ok)
	}
	next, ok = r.Next(next, 0)
	if !ok || !next.Equal(mustTime(t, "2026-09-10 00:00")) {
		t.Fatalf("second Next = %v ok=%t", next, ok)
	}
	if _, ok := r.Next(next, 0); ok {
		t.Fatal("date list should exhaust")
	}
}

func TestDatesMergeWithFrequency(t *testing.T) {
	r, _ := Parse("freq=weekly;date=2026-09-03 14:00")
	// 2026-09-01 is a Tuesday; weekly recurrence lands on Tuesdays.
	start := mustTime(t, "2026-09-01 09:00")
	occ := r.Occurrences(start, 2)
	want := []string{"2026-09-01 09:00", "2026-09-03 14:00", "2026-09-08 09:00"}
	if len(occ) != len(want) {
		t.Fatalf("Occurrences = %v", occ)
	}
	for i, w := range want {
		if !occ[i].Equal(mustTime(t, w)) {
			t.Fatalf("occ[%d] = %v, want %s", i, occ[i], w)
		}
	}
}
