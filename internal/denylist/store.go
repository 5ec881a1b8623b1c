package denylist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"lol-denylist/internal/domain"

	"github.com/rs/zerolog"
)

// Canonical column set of the persisted denylist. Column order in an
// existing file is not significant, but every column must be present.
var columns = []string{"stable_id", "display_name", "reason", "added_at", "tag"}

// Timestamps are written as RFC 3339. Files produced by older exports carry
// plain "2006-01-02 15:04:05[.000]" stamps, accepted on read.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Store owns the on-disk denylist. All mutations go through Add/Remove (or
// Import); the in-memory mirror is never handed out by reference.
type Store struct {
	mu      sync.RWMutex
	path    string
	entries []domain.DenylistEntry
	index   map[string]int
	logger  zerolog.Logger
}

// Open loads the denylist, creating an empty file with the canonical header
// when none exists. A malformed existing file is a fatal error: silently
// resetting it would be silent data loss.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		index:  make(map[string]int),
		logger: logger,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, &domain.PersistenceError{Op: "read", Path: path, Err: err}
		}
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		logger.Info().Str("path", path).Msg("created empty denylist")
		return s, nil
	}

	entries, err := parseCSV(strings.NewReader(string(raw)))
	if err != nil {
		return nil, &domain.PersistenceError{Op: "parse", Path: path, Err: err}
	}

	s.entries = entries
	for i, e := range entries {
		s.index[e.Puuid] = i
	}

	logger.Info().Int("entries", len(entries)).Str("path", path).Msg("denylist loaded")
	return s, nil
}

// List returns all entries in insertion order.
func (s *Store) List() []domain.DenylistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Contains reports whether the stable id has an entry.
func (s *Store) Contains(puuid string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[puuid]
	return ok
}

// Get returns the entry for a stable id.
func (s *Store) Get(puuid string) (domain.DenylistEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[puuid]
	if !ok {
		return domain.DenylistEntry{}, false
	}
	return s.entries[i], true
}

// Add appends an entry. It fails with ErrAlreadyDenylisted when the stable
// id is present, and succeeds only after the file is durably written; a
// persist failure rolls the in-memory mirror back.
func (s *Store) Add(entry domain.DenylistEntry) error {
	if entry.Puuid == "" {
		return &domain.ValidationError{Field: "stable_id", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[entry.Puuid]; ok {
		return domain.ErrAlreadyDenylisted
	}

	s.entries = append(s.entries, entry)
	s.index[entry.Puuid] = len(s.entries) - 1

	if err := s.persistLocked(); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		delete(s.index, entry.Puuid)
		return err
	}

	s.logger.Info().Str("puuid", entry.Puuid).Str("name", entry.DisplayName()).Msg("added to denylist")
	return nil
}

// Remove deletes the entry for a stable id, with the same
// rollback-on-persist-failure rule as Add.
func (s *Store) Remove(puuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[puuid]
	if !ok {
		return domain.ErrNotDenylisted
	}

	removed := s.entries[i]
	s.entries = slices.Delete(s.entries, i, i+1)
	s.reindexLocked()

	if err := s.persistLocked(); err != nil {
		s.entries = slices.Insert(s.entries, i, removed)
		s.reindexLocked()
		return err
	}

	s.logger.Info().Str("puuid", puuid).Msg("removed from denylist")
	return nil
}

// Export writes the denylist as CSV. The output re-imports losslessly.
func (s *Store) Export(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return writeCSV(w, s.entries)
}

// Import merges entries from a CSV export. Existing stable ids are skipped
// and reported, never overwritten. On a persist failure nothing is imported.
func (s *Store) Import(r io.Reader) (domain.ImportReport, error) {
	incoming, err := parseCSV(r)
	if err != nil {
		return domain.ImportReport{}, &domain.PersistenceError{Op: "parse import", Path: s.path, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var report domain.ImportReport
	before := len(s.entries)

	for _, entry := range incoming {
		if _, ok := s.index[entry.Puuid]; ok {
			report.Skipped++
			continue
		}
		s.entries = append(s.entries, entry)
		s.index[entry.Puuid] = len(s.entries) - 1
		report.Imported++
	}

	if report.Imported == 0 {
		return report, nil
	}

	if err := s.persistLocked(); err != nil {
		s.entries = s.entries[:before]
		s.reindexLocked()
		return domain.ImportReport{}, err
	}

	s.logger.Info().
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Msg("denylist import merged")
	return report, nil
}

func (s *Store) reindexLocked() {
	clear(s.index)
	for i, e := range s.entries {
		s.index[e.Puuid] = i
	}
}

func (s *Store) persistLocked() error {
	var sb strings.Builder
	if err := writeCSV(&sb, s.entries); err != nil {
		return &domain.PersistenceError{Op: "encode", Path: s.path, Err: err}
	}
	if err := os.WriteFile(s.path, []byte(sb.String()), 0o644); err != nil {
		return &domain.PersistenceError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

func writeCSV(w io.Writer, entries []domain.DenylistEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{e.Puuid, e.Name, e.Reason, e.AddedAt.Format(time.RFC3339), e.Tag}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseCSV(r io.Reader) ([]domain.DenylistEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(columns)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		return nil, err
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, want := range columns {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("missing column %q", want)
		}
	}

	var entries []domain.DenylistEntry
	seen := make(map[string]struct{})
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		id := record[col["stable_id"]]
		if id == "" {
			return nil, fmt.Errorf("record with empty stable_id")
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("duplicate stable_id %q", id)
		}
		seen[id] = struct{}{}
		addedAt, err := parseTime(record[col["added_at"]])
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", id, err)
		}

		entries = append(entries, domain.DenylistEntry{
			Puuid:   id,
			Name:    record[col["display_name"]],
			Tag:     record[col["tag"]],
			Reason:  record[col["reason"]],
			AddedAt: addedAt,
		})
	}
	return entries, nil
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable added_at %q", raw)
}
