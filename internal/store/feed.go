package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sdoconnell/nrrdtask/internal/task"
)

// ReminderEvent is one entry in the upcoming-reminders feed, shaped for
// JSON output so an external notifier can consume it directly.
type ReminderEvent struct {
	Datetime     string `json:"datetime"`
	Notification string `json:"notification"`
	Address      string `json:"address,omitempty"`
	Summary      string `json:"summary"`
	Body         string `json:"body"`
}

// UpcomingReminders resolves every reminder on every active record and
// returns the ones that fire between one minute ago and now+window,
// sorted by trigger time. A reminder with no resolvable trigger is
// skipped. Email notifications require a configured user address and
// otherwise degrade to display.
func (s *Store) UpcomingReminders(window time.Duration) []ReminderEvent {
	if window <= 0 {
		window = time.Hour
	}
	fallback := time.Duration(s.cfg.DefaultDuration) * time.Minute
	now := timeNow()
	lo := now.Add(-time.Minute)
	hi := now.Add(window)

	var out []ReminderEvent
	for _, t := range s.All() {
		if !t.Active() {
			continue
		}
		for _, r := range t.Reminders {
			when, ok := r.Resolve(t.Start, t.Due, fallback)
			if !ok || when.Before(lo) || when.After(hi) {
				continue
			}
			kind := r.Kind()
			addr := ""
			if kind == task.NotifyEmail {
				if s.cfg.UserEmail == "" {
					kind = task.NotifyDisplay
				} else {
					addr = s.cfg.UserEmail
				}
			}
			out = append(out, ReminderEvent{
				Datetime:     when.Format("2006-01-02 15:04:05"),
				Notification: kind,
				Address:      addr,
				Summary:      fmt.Sprintf("Task: %s", t.Description),
				Body:         reminderBody(t),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime < out[j].Datetime })
	return out
}

func reminderBody(t *task.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(%s) [%s] %s", t.Alias, strings.ToUpper(t.Status), t.Description)
	if t.Priority != nil {
		fmt.Fprintf(&b, " [priority: %d]", *t.Priority)
	}
	if t.Percent != nil {
		fmt.Fprintf(&b, " (%d%%)", *t.Percent)
	}
	if t.Start != nil {
		fmt.Fprintf(&b, "\nstart: %s", t.Start.String())
	}
	if t.Due != nil {
		fmt.Fprintf(&b, "\ndue: %s", t.Due.String())
	}
	return b.String()
}
