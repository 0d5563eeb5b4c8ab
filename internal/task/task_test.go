package task

import (
	"strings"
	"testing"
	"time"
)

func TestParseTimestampLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-09-01 14:30:15", "2026-09-01 14:30:15"},
		{"2026-09-01 14:30", "2026-09-01 14:30:00"},
		{"2026-09-01", "2026-09-01 00:00:00"},
	}
	for _, c := range cases {
		ts, err := ParseTimestamp(c.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", c.in, err)
		}
		if got := ts.String(); got != c.want {
			t.Fatalf("ParseTimestamp(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not-a-date", "due-1d", "start+2h"} {
		if _, err := ParseTimestamp(in); err == nil {
			t.Fatalf("ParseTimestamp(%q) succeeded, want error", in)
		}
	}
}

func TestDateOnlyAndEndOfDay(t *testing.T) {
	ts, _ := ParseTimestamp("2026-09-01")
	if !ts.DateOnly() {
		t.Fatal("bare date should be date-only")
	}
	eod := ts.EndOfDay()
	if eod.Hour() != 23 || eod.Minute() != 59 || eod.Second() != 59 {
		t.Fatalf("EndOfDay = %v", eod)
	}
	withTime, _ := ParseTimestamp("2026-09-01 08:00")
	if withTime.DateOnly() {
		t.Fatal("timestamp with clock time should not be date-only")
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"1d", 24 * time.Hour},
		{"2h30m", 2*time.Hour + 30*time.Minute},
		{"1d2h3m", 26*time.Hour + 3*time.Minute},
		{"15m", 15 * time.Minute},
		{"junk", 0},
	}
	for _, c := range cases {
		if got := ParseDuration(c.in); got != c.want {
			t.Fatalf("ParseDuration(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestReminderResolve(t *testing.T) {
	start, _ := ParseTimestamp("2026-09-01 09:00")
	due, _ := ParseTimestamp("2026-09-03 17:00")

	r := Reminder{Remind: "due-1d"}
	when, ok := r.Resolve(&start, &due, 0)
	if !ok || !when.Equal(due.Add(-24*time.Hour)) {
		t.Fatalf("due-1d resolved to %v ok=%t", when, ok)
	}

	r = Reminder{Remind: "start+2h"}
	when, ok = r.Resolve(&start, &due, 0)
	if !ok || !when.Equal(start.Add(2*time.Hour)) {
		t.Fatalf("start+2h resolved to %v ok=%t", when, ok)
	}

	r = Reminder{Remind: "2026-09-02 12:00"}
	when, ok = r.Resolve(&start, &due, 0)
	if !ok || when.Format("2006-01-02 15:04") != "2026-09-02 12:00" {
		t.Fatalf("absolute reminder resolved to %v ok=%t", when, ok)
	}

	// Missing anchor fails closed.
	r = Reminder{Remind: "due-1d"}
	if _, ok := r.Resolve(&start, nil, 0); ok {
		t.Fatal("due offset without due date should not resolve")
	}

	// Bare anchor-minus falls back to the default duration.
	r = Reminder{Remind: "start-"}
	when, ok = r.Resolve(&start, &due, 30*time.Minute)
	if !ok || !when.Equal(start.Add(-30*time.Minute)) {
		t.Fatalf("fallback duration resolved to %v ok=%t", when, ok)
	}
}

func TestReminderRelative(t *testing.T) {
	if !(Reminder{Remind: "due-1d"}).Relative() {
		t.Fatal("offset spec should be relative")
	}
	if (Reminder{Remind: "2026-09-02 12:00"}).Relative() {
		t.Fatal("absolute spec should not be relative")
	}
}

func TestPriorityTier(t *testing.T) {
	cases := []struct {
		priority int
		want     string
	}{
		{1, "high"}, {3, "high"}, {4, "medium"}, {6, "medium"},
		{7, "normal"}, {9, "normal"}, {10, "low"}, {100, "low"},
	}
	for _, c := range cases {
		tk := &Task{Priority: &c.priority}
		if got := tk.PriorityTier(3, 6, 9); got != c.want {
			t.Fatalf("PriorityTier(%d) = %q, want %q", c.priority, got, c.want)
		}
	}
	if got := (&Task{}).PriorityTier(3, 6, 9); got != "" {
		t.Fatalf("PriorityTier with no priority = %q, want empty", got)
	}
}

func TestRecurringNeedsStart(t *testing.T) {
	tk := &Task{RRule: "freq=daily"}
	if tk.Recurring() {
		t.Fatal("rrule without start should be inert")
	}
	start, _ := ParseTimestamp("2026-09-01")
	tk.Start = &start
	if !tk.Recurring() {
		t.Fatal("rrule with start should be recurring")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	start, _ := ParseTimestamp("2026-09-01 09:00")
	priority := 3
	tk := &Task{
		UID:         "01hxyzabc",
		Alias:       "w4rt",
		Description: "Do the thing",
		Status:      StatusTodo,
		Priority:    &priority,
		Tags:        []string{"home", "yard"},
		Start:       &start,
		Reminders:   []Reminder{{Remind: "start-1d", Notify: "email"}},
	}
	b, err := Encode(tk)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(string(b), "task:") {
		t.Fatalf("document should nest under a task key:\n%s", b)
	}
	got, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.UID != tk.UID || got.Alias != tk.Alias || got.Description != tk.Description {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Start == nil || got.Start.String() != "2026-09-01 09:00:00" {
		t.Fatalf("start round trip: %v", got.Start)
	}
	if len(got.Reminders) != 1 || got.Reminders[0].Remind != "start-1d" {
		t.Fatalf("reminders round trip: %+v", got.Reminders)
	}
}

func TestDecodePreservesUnknownKeys(t *testing.T) {
	doc := "task:\n  uid: abc\n  alias: wxyz\n  description: thing\n  status: todo\n  custom_field: kept\n"
	tk, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tk.Extra["custom_field"] != "kept" {
		t.Fatalf("unknown key not preserved: %#v", tk.Extra)
	}
	b, err := Encode(tk)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(b), "custom_field: kept") {
		t.Fatalf("unknown key not written back:\n%s", b)
	}
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	cases := []string{
		"not yaml: [",
		"other: {}\n",
		"task:\n  description: no identifiers\n",
	}
	for _, doc := range cases {
		if _, err := Decode([]byte(doc)); err == nil {
			t.Fatalf("Decode(%q) succeeded, want error", doc)
		}
	}
}

func TestNormalizeFoldsCase(t *testing.T) {
	tk := &Task{Alias: "W4RT", Status: "TODO", Project: "Home", Tags: []string{"Yard", "apple"}}
	tk.Normalize()
	if tk.Alias != "w4rt" || tk.Status != "todo" || tk.Project != "home" {
		t.Fatalf("normalize: %+v", tk)
	}
	if tk.Tags[0] != "apple" || tk.Tags[1] != "yard" {
		t.Fatalf("tags should be lowercased and sorted: %v", tk.Tags)
	}
}

func TestDueOffset(t *testing.T) {
	start, _ := ParseTimestamp("2026-09-01 09:00")
	due, _ := ParseTimestamp("2026-09-03 09:00")
	tk := &Task{Start: &start, Due: &due}
	off, ok := tk.DueOffset()
	if !ok || off != 48*time.Hour {
		t.Fatalf("DueOffset = %v ok=%t", off, ok)
	}
	if _, ok := (&Task{Start: &start}).DueOffset(); ok {
		t.Fatal("DueOffset without due should report false")
	}
}
