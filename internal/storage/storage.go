package storage

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/hypo-search/internal/catalog"
)

// ErrNotFound is returned when no saved catalog has the requested id
var ErrNotFound = errors.New("saved catalog not found")

const filePrefix = "catalog_"

// savedAtLayout is fixed width so SavedAt strings sort chronologically
const savedAtLayout = "2006-01-02T15:04:05.000000000Z"

// Snapshot is a saved search result
type Snapshot struct {
	ID      string            `json:"id"`
	URL     string            `json:"url"`
	SavedAt string            `json:"saved_at"`
	Params  map[string]string `json:"params"`
	Catalog *catalog.Catalog  `json:"catalog"`
}

// Storage handles persistence of catalog snapshots
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating it if needed
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// GenerateID creates a deterministic id for a search URL.
// Every snapshot id of that search starts with it.
func GenerateID(url string) string {
	h := sha1.New()
	h.Write([]byte(url))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// snapshotID identifies one save of the search at url
func snapshotID(url string, at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("%s-%s%09dZ", GenerateID(url), at.Format("20060102T150405"), at.Nanosecond())
}

func (s *Storage) path(id string) string {
	return filepath.Join(s.dataDir, filePrefix+id+".json")
}

// Save writes a new snapshot of a catalog for the search at url.
// Earlier snapshots of the same search are kept.
func (s *Storage) Save(url string, params map[string]string, c *catalog.Catalog) (*Snapshot, error) {
	if c == nil {
		c = catalog.New()
	}

	now := time.Now().UTC()
	snapshot := &Snapshot{
		ID:      snapshotID(url, now),
		URL:     url,
		SavedAt: now.Format(savedAtLayout),
		Params:  params,
		Catalog: c,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	f, err := os.OpenFile(s.path(snapshot.ID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}

	return snapshot, nil
}

// Load reads the saved catalog with the given id
func (s *Storage) Load(id string) (*Snapshot, error) {
	if id == "" || strings.ContainsAny(id, `/\.`) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Catalog == nil {
		snapshot.Catalog = catalog.New()
	}

	return &snapshot, nil
}

// List returns every saved snapshot, oldest first
func (s *Storage) List() ([]*Snapshot, error) {
	matches, err := filepath.Glob(filepath.Join(s.dataDir, filePrefix+"*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	snapshots := make([]*Snapshot, 0, len(matches))
	for _, m := range matches {
		id := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), filePrefix), ".json")
		snapshot, err := s.Load(id)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].SavedAt < snapshots[j].SavedAt
	})
	return snapshots, nil
}

// Previous returns the snapshot of the same search saved just before id
func (s *Storage) Previous(id string) (*Snapshot, error) {
	current, err := s.Load(id)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.List()
	if err != nil {
		return nil, err
	}

	var previous *Snapshot
	for _, snapshot := range snapshots {
		if snapshot.URL == current.URL && snapshot.SavedAt < current.SavedAt {
			previous = snapshot
		}
	}
	if previous == nil {
		return nil, fmt.Errorf("%w: no earlier save of %s", ErrNotFound, id)
	}
	return previous, nil
}
