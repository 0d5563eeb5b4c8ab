package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sdoconnell/nrrdtask/internal/task"
)

// ErrCascade marks a partial failure while removing or archiving a
// subtree: the named record was handled but one or more descendants were
// not.
var ErrCascade = errors.New("cascade incomplete")

// CascadeError carries the aliases that could not be removed or archived.
// It satisfies errors.Is(err, ErrCascade).
type CascadeError struct {
	Op     string
	Failed []string
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("%s: failed for: %s", e.Op, strings.Join(e.Failed, ", "))
}

func (e *CascadeError) Is(target error) bool { return target == ErrCascade }

// Delete removes a record's file and drops it from the index. With
// cascade, the whole subtree under it goes too: the named record first,
// so a failure there leaves every descendant untouched; descendant
// failures are collected into a CascadeError but do not stop the sweep.
func (s *Store) Delete(alias string, cascade bool) error {
	return s.removeTree("delete", alias, cascade, func(t *task.Task) error {
		return os.Remove(s.files[t.UID])
	})
}

// Archive moves a record's file into the archive subdirectory, removing
// it from the active index. Archived records cannot be addressed again
// without moving the file back by hand. Cascade semantics match Delete.
func (s *Store) Archive(alias string, cascade bool) error {
	if err := os.MkdirAll(s.archiveDir(), 0o755); err != nil {
		return err
	}
	return s.removeTree("archive", alias, cascade, func(t *task.Task) error {
		src := s.files[t.UID]
		if err := os.Rename(src, filepath.Join(s.archiveDir(), filepath.Base(src))); err != nil {
			return err
		}
		s.reserved[t.Alias] = true
		return nil
	})
}

func (s *Store) removeTree(op, alias string, cascade bool, remove func(*task.Task) error) error {
	t, err := s.Get(alias)
	if err != nil {
		return err
	}
	var subtree []*task.Task
	if cascade {
		subtree = s.descendants(t.Alias)
	}
	if err := remove(t); err != nil {
		return fmt.Errorf("%s %s: %w", op, t.Alias, err)
	}
	s.forget(t)
	var failed []string
	for _, sub := range subtree {
		if err := remove(sub); err != nil {
			failed = append(failed, sub.Alias)
			continue
		}
		s.forget(sub)
	}
	if len(failed) > 0 {
		return &CascadeError{Op: op, Failed: failed}
	}
	return nil
}

// descendants walks the parent links breadth-first and returns the whole
// subtree below an alias, not including the record itself.
func (s *Store) descendants(alias string) []*task.Task {
	var out []*task.Task
	queue := []string{alias}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, child := range s.Subtasks(next) {
			out = append(out, child)
			queue = append(queue, child.Alias)
		}
	}
	return out
}

func (s *Store) forget(t *task.Task) {
	delete(s.tasks, t.UID)
	delete(s.files, t.UID)
	delete(s.aliases, t.Alias)
}
