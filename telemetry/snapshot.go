package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state for resuming a run.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`

	Width     int     `json:"width"`
	Height    int     `json:"height"`
	DT        float32 `json:"dt"`
	StampMode string  `json:"stamp_mode"`

	Tick int32 `json:"tick"`

	// Row-major authoritative fields. Temps and occupancy are derived.
	U       []float32 `json:"u"`
	V       []float32 `json:"v"`
	Density []float32 `json:"density"`

	Emitters []EmitterState `json:"emitters"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// EmitterState holds one persistent ink source.
type EmitterState struct {
	X         int   `json:"x"`
	Y         int   `json:"y"`
	Interval  int32 `json:"interval"`
	Cooldown  int32 `json:"cooldown"`
	Remaining int32 `json:"remaining"`
}

// Validate checks that the field arrays match the recorded grid size.
func (s *Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	n := s.Width * s.Height
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("snapshot grid %dx%d", s.Width, s.Height)
	}
	if len(s.U) != n || len(s.V) != n || len(s.Density) != n {
		return fmt.Errorf("snapshot fields sized %d/%d/%d, want %d", len(s.U), len(s.V), len(s.Density), n)
	}
	return nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads and validates a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}

	return &snapshot, nil
}
