// Package store owns the on-disk task records and the in-memory index
// over them. Every read and write goes through a Store; records are one
// YAML file per task, with archived records moved to a subdirectory that
// the active index never loads.
package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sdoconnell/nrrdtask/internal/config"
	"github.com/sdoconnell/nrrdtask/internal/task"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalid         = errors.New("invalid")
	ErrInvalidField    = errors.New("invalid field")
	ErrIndexOutOfRange = errors.New("index out of range")

	timeNow = func() time.Time { return time.Now() }
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

// Alias alphabet: lowercase plus digits, minus visually confusable
// characters (i, l, o, u, 0, 1).
const (
	aliasAlphabet = "abcdefghjkmnpqrstvwxyz23456789"
	aliasLength   = 4
)

const archiveDirName = "archive"

// Store is the authoritative index over the data directory.
type Store struct {
	DataDir string

	cfg     *config.Config
	tasks   map[string]*task.Task // uid -> record
	files   map[string]string     // uid -> path
	aliases map[string]string     // alias -> uid

	// Aliases of archived records. Not addressable, but never reused
	// while the archived file still holds them.
	reserved map[string]bool
}

// Open creates the data directory if needed and loads all records.
func Open(cfg *config.Config) (*Store, error) {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return nil, fmt.Errorf("%w: data directory is required", ErrInvalid)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	s := &Store{DataDir: cfg.DataDir, cfg: cfg}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads every record file in the data directory into memory. A file
// that cannot be parsed, lacks its identifiers, or collides with an
// already-loaded uid or alias is logged and skipped; it stays invisible
// until repaired externally. Archived records live in a subdirectory and
// are never loaded.
func (s *Store) Load() error {
	entries, err := os.ReadDir(s.DataDir)
	if err != nil {
		return err
	}
	tasks := map[string]*task.Task{}
	files := map[string]string{}
	aliases := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".yml") {
			continue
		}
		path := filepath.Join(s.DataDir, e.Name())
		b, err := os.ReadFile(path)
		if err != nil {
			log.Printf("failure reading %s - skipping: %v", path, err)
			continue
		}
		t, err := task.Decode(b)
		if err != nil {
			log.Printf("corrupt record %s - skipping: %v", path, err)
			continue
		}
		if dup, ok := files[t.UID]; ok {
			log.Printf("duplicate uid %s in %s (already loaded from %s) - skipping", t.UID, path, dup)
			continue
		}
		if dup, ok := aliases[t.Alias]; ok {
			log.Printf("duplicate alias %s in %s (already used by uid %s) - skipping", t.Alias, path, dup)
			continue
		}
		tasks[t.UID] = t
		files[t.UID] = path
		aliases[t.Alias] = t.UID
	}
	s.tasks = tasks
	s.files = files
	s.aliases = aliases
	s.reserved = s.loadReserved()
	return nil
}

// loadReserved collects the aliases held by archived records. Files that
// fail to parse reserve nothing.
func (s *Store) loadReserved() map[string]bool {
	reserved := map[string]bool{}
	entries, err := os.ReadDir(s.archiveDir())
	if err != nil {
		return reserved
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".yml") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(s.archiveDir(), e.Name()))
		if err != nil {
			continue
		}
		t, err := task.Decode(b)
		if err != nil {
			continue
		}
		reserved[t.Alias] = true
	}
	return reserved
}

// Refresh is a full reload; edits made outside this process are only
// picked up here.
func (s *Store) Refresh() error { return s.Load() }

// Len returns the number of addressable records.
func (s *Store) Len() int { return len(s.tasks) }

// Get resolves an alias, case-insensitively.
func (s *Store) Get(alias string) (*task.Task, error) {
	uid, ok := s.aliases[strings.ToLower(strings.TrimSpace(alias))]
	if !ok {
		return nil, fmt.Errorf("%w: alias %q", ErrNotFound, alias)
	}
	return s.tasks[uid], nil
}

// All returns every addressable record, sorted by priority (unset last),
// then creation time, then alias. This is the candidate set handed to
// filters and views.
func (s *Store) All() []*task.Task {
	out := make([]*task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := priorityOrHuge(out[i]), priorityOrHuge(out[j])
		if pi != pj {
			return pi < pj
		}
		ci, cj := createdOrZero(out[i]), createdOrZero(out[j])
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return out[i].Alias < out[j].Alias
	})
	return out
}

// Subtasks returns the records whose parent is the given alias. Dangling
// parent references on other records simply never show up here.
func (s *Store) Subtasks(alias string) []*task.Task {
	alias = strings.ToLower(strings.TrimSpace(alias))
	var out []*task.Task
	for _, t := range s.All() {
		if t.Parent == alias {
			out = append(out, t)
		}
	}
	return out
}

// Create validates, mints identifiers, stamps timestamps, and persists a
// new record. The returned record is the stored one.
func (s *Store) Create(t *task.Task) (*task.Task, error) {
	if strings.TrimSpace(t.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalid)
	}
	t.Normalize()
	if t.Status == "" {
		t.Status = task.StatusTodo
	}
	if t.Parent != "" {
		if _, ok := s.aliases[t.Parent]; !ok {
			log.Printf("parent %q not found - creating without parent", t.Parent)
			t.Parent = ""
		}
	}
	t.UID = newUID()
	t.Alias = s.genAlias()
	now := task.NewTimestamp(timeNow())
	t.Created = now
	t.Updated = now

	path := filepath.Join(s.DataDir, t.UID+".yml")
	if err := s.persist(t, path); err != nil {
		return nil, err
	}
	s.tasks[t.UID] = t
	s.files[t.UID] = path
	s.aliases[t.Alias] = t.UID
	return t, nil
}

func (s *Store) persist(t *task.Task, path string) error {
	b, err := task.Encode(t)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, b, 0o644)
}

func (s *Store) archiveDir() string {
	return filepath.Join(s.DataDir, archiveDirName)
}

// genAlias mints a short random alias, retrying on collision against the
// full index.
func (s *Store) genAlias() string {
	buf := make([]byte, aliasLength)
	for {
		if _, err := rand.Read(buf); err != nil {
			ts := fmt.Sprintf("%d", timeNow().UnixNano())
			copy(buf, ts[len(ts)-aliasLength:])
		}
		alias := make([]byte, aliasLength)
		for i, b := range buf {
			alias[i] = aliasAlphabet[int(b)%len(aliasAlphabet)]
		}
		if _, taken := s.aliases[string(alias)]; !taken && !s.reserved[string(alias)] {
			return string(alias)
		}
	}
}

func newUID() string {
	id, err := ulid.New(ulid.Timestamp(timeNow()), ulid.Monotonic(randReader{}, 0))
	if err != nil {
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return strings.ToLower(id.String())
}

func priorityOrHuge(t *task.Task) int {
	if t.Priority == nil {
		return 1 << 30
	}
	return *t.Priority
}

func createdOrZero(t *task.Task) time.Time {
	if t.Created == nil {
		return time.Time{}
	}
	return t.Created.Time
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", timeNow().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic within a filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
