// Package cache persists classified structure trees keyed by a content
// fingerprint, so a reload can skip the classification pipeline entirely.
// The cache is strictly an optimization: every fault degrades to a miss and
// the caller falls back to the full pipeline.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bookstruct/bookstruct/internal/book"
	"github.com/bookstruct/bookstruct/internal/profile"
)

// FormatVersion is bumped whenever the persisted tree shape changes. A
// version mismatch on load is a miss, never an error, so old caches are
// silently rebuilt.
const FormatVersion = 1

// Fingerprint derives the cache key from the source identity and the
// active profile. Any change to the profile's fields changes the
// fingerprint, invalidating stale entries without an explicit call.
func Fingerprint(sourceID string, p *profile.Profile) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s", sourceID, p.Name, p.Hash())
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Entry is the self-contained persisted record.
type Entry struct {
	Fingerprint   string         `json:"fingerprint"`
	FormatVersion int            `json:"format_version"`
	SavedAt       time.Time      `json:"saved_at"`
	Tree          *book.Node     `json:"tree"`
	Warnings      []book.Warning `json:"warnings,omitempty"`
}

// Store keeps one JSON file per fingerprint in a flat directory.
type Store struct {
	dir string
	log *slog.Logger
}

// NewStore creates the cache directory if needed.
func NewStore(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{dir: dir, log: log}, nil
}

func (s *Store) path(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+".json")
}

// Save writes an entry atomically: the JSON is written to a temp file in
// the cache directory and renamed into place, so a concurrent reader never
// observes a partial entry and a crash mid-write cannot corrupt a
// previously valid one.
func (s *Store) Save(fingerprint string, tree *book.Node, warnings []book.Warning) error {
	entry := Entry{
		Fingerprint:   fingerprint,
		FormatVersion: FormatVersion,
		SavedAt:       time.Now().UTC(),
		Tree:          tree,
		Warnings:      warnings,
	}

	tmp, err := os.CreateTemp(s.dir, fingerprint+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	tmpPath := tmp.Name()

	enc := json.NewEncoder(tmp)
	if err := enc.Encode(&entry); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close cache temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(fingerprint)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace cache entry: %w", err)
	}
	return nil
}

// Load returns the cached tree for a fingerprint, or ok=false on any kind
// of miss: absent, unreadable, corrupt, version or fingerprint mismatch.
// Faults are logged for diagnostics and never propagated.
func (s *Store) Load(fingerprint string) (*book.Node, []book.Warning, bool) {
	data, err := os.ReadFile(s.path(fingerprint))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("cache read failed", "fingerprint", short(fingerprint), "error", err)
		}
		return nil, nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.log.Warn("corrupt cache entry", "fingerprint", short(fingerprint), "error", err)
		return nil, nil, false
	}
	if entry.FormatVersion != FormatVersion {
		s.log.Info("cache format version mismatch",
			"fingerprint", short(fingerprint), "have", entry.FormatVersion, "want", FormatVersion)
		return nil, nil, false
	}
	if entry.Fingerprint != fingerprint || entry.Tree == nil {
		s.log.Warn("cache entry mismatch", "fingerprint", short(fingerprint))
		return nil, nil, false
	}
	return entry.Tree, entry.Warnings, true
}

// Remove deletes an entry. Removing an absent entry is a no-op.
func (s *Store) Remove(fingerprint string) error {
	err := os.Remove(s.path(fingerprint))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cache entry: %w", err)
	}
	return nil
}

// EntryInfo describes one cached entry for diagnostics.
type EntryInfo struct {
	Fingerprint string    `json:"fingerprint"`
	SizeBytes   int64     `json:"size_bytes"`
	Modified    time.Time `json:"modified"`
}

// List enumerates cached entries.
func (s *Store) List() ([]EntryInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read cache dir: %w", err)
	}
	var out []EntryInfo
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, EntryInfo{
			Fingerprint: strings.TrimSuffix(name, ".json"),
			SizeBytes:   info.Size(),
			Modified:    info.ModTime(),
		})
	}
	return out, nil
}

func short(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}
