package filter

import (
	"testing"
	"time"

	"github.com/sdoconnell/nrrdtask/internal/task"
)

var viewNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.Local)

func viewPred(t *testing.T, name string) Predicate {
	t.Helper()
	p, err := ResolveView(name, viewNow, 1)
	if err != nil {
		t.Fatalf("ResolveView(%q): %v", name, err)
	}
	return p
}

func TestResolveViewUnknown(t *testing.T) {
	if _, err := ResolveView("bogus", viewNow, 1); err == nil {
		t.Fatal("unknown view should error")
	}
}

func TestOpenAndDoneViews(t *testing.T) {
	open := viewPred(t, "open")
	done := viewPred(t, "done")
	for _, status := range []string{"todo", "inprogress", "waiting", "onhold", "blocked", "cancelled"} {
		tk := mkTask("aaaa", status, "x")
		if !open(tk) || done(tk) {
			t.Fatalf("status %q should be open and not done", status)
		}
	}
	tk := mkTask("bbbb", "done", "x")
	if open(tk) || !done(tk) {
		t.Fatal("done task should only appear in the done view")
	}
}

func TestNosubsExcludesSubtasks(t *testing.T) {
	nosubs := viewPred(t, "nosubs")
	top := mkTask("aaaa", "todo", "x")
	sub := mkTask("bbbb", "todo", "x")
	sub.Parent = "aaaa"
	if !nosubs(top) || nosubs(sub) {
		t.Fatal("nosubs should keep top-level open tasks only")
	}
}

func TestLateView(t *testing.T) {
	late := viewPred(t, "late")

	overdue := withDue(mkTask("aaaa", "todo", "x"), "2026-08-30 09:00")
	if !late(overdue) {
		t.Fatal("past due task should be late")
	}
	doneTask := withDue(mkTask("bbbb", "done", "x"), "2026-08-30 09:00")
	if late(doneTask) {
		t.Fatal("done task should never be late")
	}
	// A date-only due today spans the whole day and is not yet late.
	today := withDue(mkTask("cccc", "todo", "x"), "2026-09-01")
	if late(today) {
		t.Fatal("date-only due today should not be late before day end")
	}
	// A past start date only matters while still todo.
	started := mkTask("dddd", "inprogress", "x")
	ts, _ := task.ParseTimestamp("2026-08-30 09:00")
	started.Start = &ts
	if late(started) {
		t.Fatal("passed start on an inprogress task should not be late")
	}
	started.Status = task.StatusTodo
	if !late(started) {
		t.Fatal("passed start on a todo task should be late")
	}
}

func TestSoonView(t *testing.T) {
	soon := viewPred(t, "soon")
	tomorrow := withDue(mkTask("aaaa", "todo", "x"), "2026-09-02 09:00")
	if !soon(tomorrow) {
		t.Fatal("due within the window should be soon")
	}
	nextWeek := withDue(mkTask("bbbb", "todo", "x"), "2026-09-08 09:00")
	if soon(nextWeek) {
		t.Fatal("due past the window should not be soon")
	}
	past := withDue(mkTask("cccc", "todo", "x"), "2026-08-30 09:00")
	if soon(past) {
		t.Fatal("overdue is late, not soon")
	}
}

func TestTodayView(t *testing.T) {
	today := viewPred(t, "today")
	if !today(withDue(mkTask("aaaa", "todo", "x"), "2026-09-01 17:00")) {
		t.Fatal("due today should match")
	}
	if today(withDue(mkTask("bbbb", "todo", "x"), "2026-09-02 17:00")) {
		t.Fatal("due tomorrow should not match")
	}
}

func TestWithProject(t *testing.T) {
	all := viewPred(t, "all")
	pred := WithProject(all, "Home")
	tk := mkTask("aaaa", "todo", "x")
	tk.Project = "home"
	if !pred(tk) {
		t.Fatal("project narrowing should fold case")
	}
	tk.Project = "homework"
	if pred(tk) {
		t.Fatal("project match is exact, not a prefix")
	}
}
