package recur

import (
	"sort"
	"time"
)

// DefaultLimit bounds occurrence generation for rules without a count.
const DefaultLimit = 100

// maxPeriods caps period iteration so a rule whose constraints can never
// be satisfied still terminates.
const maxPeriods = 5000

// Occurrences generates the rule's occurrence set from dtstart: the
// frequency expansion merged with explicit date entries, minus except
// entries, bounded by count/until and limit. The set begins at dtstart
// when dtstart itself satisfies the rule.
//
// Generation order within each interval period: candidate days are
// filtered conjunctively by the day-level constraints (bymonth,
// bymonthday, byyearday, byweekno, byweekday), then expanded by the
// time-level constraints (byhour, byminute, defaulting to dtstart's
// clock time), sorted, and only then indexed by bysetpos.
func (r *Rule) Occurrences(dtstart time.Time, limit int) []time.Time {
	if limit <= 0 {
		limit = DefaultLimit
	}
	max := limit
	if r.Count > 0 && r.Count < max {
		max = r.Count
	}

	var out []time.Time
	if r.Freq != FreqNone {
		out = r.generate(dtstart, max)
	}
	for _, d := range r.Dates {
		if !containsTime(out, d) {
			out = append(out, d)
		}
	}
	if len(r.Except) > 0 {
		kept := out[:0]
		for _, t := range out {
			if !r.excepted(t) {
				kept = append(kept, t)
			}
		}
		out = kept
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Next computes the first occurrence strictly after start, or ok=false
// when the rule's bounds leave no further occurrence (the lineage is
// exhausted).
func (r *Rule) Next(start time.Time, limit int) (time.Time, bool) {
	for _, t := range r.Occurrences(start, limit) {
		if t.After(start) {
			return t, true
		}
	}
	return time.Time{}, false
}

// excepted reports whether t is struck by an except entry. A date-only
// except entry excludes every occurrence on that calendar day; one with
// a clock time excludes only the exact instant.
func (r *Rule) excepted(t time.Time) bool {
	for _, e := range r.Except {
		if e.Hour() == 0 && e.Minute() == 0 && e.Second() == 0 {
			ey, em, ed := e.Date()
			ty, tm, td := t.Date()
			if ey == ty && em == tm && ed == td {
				return true
			}
		} else if e.Equal(t) {
			return true
		}
	}
	return false
}

func (r *Rule) generate(dtstart time.Time, max int) []time.Time {
	var out []time.Time
	for i := 0; i < maxPeriods && len(out) < max; i++ {
		periodStart, set := r.periodSet(dtstart, i)
		if r.Until != nil && periodStart.After(*r.Until) {
			break
		}
		for _, t := range r.applySetPos(set) {
			if t.Before(dtstart) {
				continue
			}
			if r.Until != nil && t.After(*r.Until) {
				continue
			}
			out = append(out, t)
			if len(out) == max {
				break
			}
		}
	}
	return out
}

// periodSet computes the sorted candidate instants for interval period i.
func (r *Rule) periodSet(dtstart time.Time, i int) (time.Time, []time.Time) {
	step := i * r.Interval
	switch r.Freq {
	case Minutely:
		t := dtstart.Add(time.Duration(step) * time.Minute)
		if r.instantMatches(t) {
			return t, []time.Time{t}
		}
		return t, nil
	case Hourly:
		base := dtstart.Add(time.Duration(step) * time.Hour)
		if len(r.ByHour) > 0 && !containsInt(r.ByHour, base.Hour()) {
			return base, nil
		}
		if !r.dayMatches(base, dtstart) {
			return base, nil
		}
		minutes := r.ByMinute
		if len(minutes) == 0 {
			minutes = []int{dtstart.Minute()}
		}
		var set []time.Time
		for _, m := range minutes {
			set = append(set, time.Date(base.Year(), base.Month(), base.Day(),
				base.Hour(), m, dtstart.Second(), 0, dtstart.Location()))
		}
		sortTimes(set)
		return base, set
	case Daily:
		day := dtstart.AddDate(0, 0, step)
		if !r.dayMatches(day, dtstart) {
			return day, nil
		}
		return day, r.expandTimes([]time.Time{day}, dtstart)
	case Weekly:
		anchor := dtstart.AddDate(0, 0, step*7)
		var days []time.Time
		for j := 0; j < 7; j++ {
			d := anchor.AddDate(0, 0, j)
			if r.weekdayWanted(d, dtstart) && r.dayMatches(d, dtstart) {
				days = append(days, d)
			}
		}
		return anchor, r.expandTimes(days, dtstart)
	case Monthly:
		first := time.Date(dtstart.Year(), dtstart.Month(), 1, 0, 0, 0, 0, dtstart.Location()).AddDate(0, step, 0)
		var days []time.Time
		for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
			if r.monthDayWanted(d, dtstart) && r.dayMatches(d, dtstart) {
				days = append(days, d)
			}
		}
		return first, r.expandTimes(days, dtstart)
	case Yearly:
		jan1 := time.Date(dtstart.Year()+step, time.January, 1, 0, 0, 0, 0, dtstart.Location())
		var days []time.Time
		for d := jan1; d.Year() == jan1.Year(); d = d.AddDate(0, 0, 1) {
			if r.yearDayWanted(d, dtstart) && r.dayMatches(d, dtstart) {
				days = append(days, d)
			}
		}
		return jan1, r.expandTimes(days, dtstart)
	}
	return dtstart, nil
}

// dayMatches applies the day-level constraints conjunctively.
func (r *Rule) dayMatches(d, dtstart time.Time) bool {
	if len(r.ByMonth) > 0 && !containsMonth(r.ByMonth, d.Month()) {
		return false
	}
	if len(r.ByMonthDay) > 0 && !containsInt(r.ByMonthDay, d.Day()) {
		return false
	}
	if len(r.ByYearDay) > 0 && !containsInt(r.ByYearDay, d.YearDay()) {
		return false
	}
	if len(r.ByWeekNo) > 0 {
		_, wk := d.ISOWeek()
		if !containsInt(r.ByWeekNo, wk) {
			return false
		}
	}
	if len(r.ByWeekday) > 0 && !containsWeekday(r.ByWeekday, d.Weekday()) {
		return false
	}
	return true
}

// weekdayWanted narrows a weekly period to dtstart's weekday when no
// byweekday constraint picks days itself.
func (r *Rule) weekdayWanted(d, dtstart time.Time) bool {
	if len(r.ByWeekday) > 0 {
		return true
	}
	return d.Weekday() == dtstart.Weekday()
}

// monthDayWanted narrows a monthly period to dtstart's day of month when
// no constraint selects days within the month.
func (r *Rule) monthDayWanted(d, dtstart time.Time) bool {
	if len(r.ByMonthDay) > 0 || len(r.ByWeekday) > 0 || len(r.ByYearDay) > 0 || len(r.ByWeekNo) > 0 {
		return true
	}
	return d.Day() == dtstart.Day()
}

// yearDayWanted narrows a yearly period to dtstart's month and day when
// no constraint selects days within the year; with only bymonth set, the
// day of month still comes from dtstart.
func (r *Rule) yearDayWanted(d, dtstart time.Time) bool {
	selecting := len(r.ByMonthDay) > 0 || len(r.ByWeekday) > 0 ||
		len(r.ByYearDay) > 0 || len(r.ByWeekNo) > 0
	if selecting {
		return true
	}
	if len(r.ByMonth) > 0 {
		return d.Day() == dtstart.Day()
	}
	return d.Month() == dtstart.Month() && d.Day() == dtstart.Day()
}

// instantMatches checks a minutely candidate against every constraint.
func (r *Rule) instantMatches(t time.Time) bool {
	if len(r.ByMinute) > 0 && !containsInt(r.ByMinute, t.Minute()) {
		return false
	}
	if len(r.ByHour) > 0 && !containsInt(r.ByHour, t.Hour()) {
		return false
	}
	return r.dayMatches(t, t)
}

// expandTimes crosses the candidate days with the time-level
// constraints, defaulting to dtstart's clock time.
func (r *Rule) expandTimes(days []time.Time, dtstart time.Time) []time.Time {
	hours := r.ByHour
	if len(hours) == 0 {
		hours = []int{dtstart.Hour()}
	}
	minutes := r.ByMinute
	if len(minutes) == 0 {
		minutes = []int{dtstart.Minute()}
	}
	var set []time.Time
	for _, d := range days {
		for _, h := range hours {
			for _, m := range minutes {
				set = append(set, time.Date(d.Year(), d.Month(), d.Day(),
					h, m, dtstart.Second(), 0, dtstart.Location()))
			}
		}
	}
	sortTimes(set)
	return set
}

// applySetPos indexes the period's sorted set by the signed bysetpos
// positions (1 = first, -1 = last).
func (r *Rule) applySetPos(set []time.Time) []time.Time {
	if len(r.BySetPos) == 0 || len(set) == 0 {
		return set
	}
	var out []time.Time
	for _, pos := range r.BySetPos {
		idx := pos - 1
		if pos < 0 {
			idx = len(set) + pos
		}
		if idx >= 0 && idx < len(set) && !containsTime(out, set[idx]) {
			out = append(out, set[idx])
		}
	}
	sortTimes(out)
	return out
}

func sortTimes(ts []time.Time) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
}

func containsTime(ts []time.Time, t time.Time) bool {
	for _, have := range ts {
		if have.Equal(t) {
			return true
		}
	}
	return false
}

func containsInt(ns []int, n int) bool {
	for _, have := range ns {
		if have == n {
			return true
		}
	}
	return false
}

func containsMonth(ms []time.Month, m time.Month) bool {
	for _, have := range ms {
		if have == m {
			return true
		}
	}
	return false
}

func containsWeekday(ws []time.Weekday, w time.Weekday) bool {
	for _, have := range ws {
		if have == w {
			return true
		}
	}
	return false
}
