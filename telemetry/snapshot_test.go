package telemetry

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Version:   SnapshotVersion,
		Seed:      42,
		Width:     3,
		Height:    2,
		DT:        0.01,
		StampMode: "clamped",
		Tick:      1000,
		U:         []float32{0, 0.5, 0, 0, -1.25, 0},
		V:         []float32{0, 0, 20, 0, 0, 205},
		Density:   []float32{0, 1, 1, 0, 0.25, 1},
		Emitters: []EmitterState{
			{X: 1, Y: 1, Interval: 10, Cooldown: 3, Remaining: -1},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkFlooded,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	snapshot := testSnapshot()

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if !reflect.DeepEqual(loaded, snapshot) {
		t.Errorf("loaded snapshot differs:\n got %+v\nwant %+v", loaded, snapshot)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	withBookmark := testSnapshot()
	withBookmark.Tick = 5000
	withBookmark.Bookmark = &Bookmark{Type: BookmarkCFLExceeded, Tick: 5000}

	path, err := SaveSnapshot(withBookmark, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_5000_cfl_exceeded.json"); path != want {
		t.Errorf("Path mismatch: got %s, want %s", path, want)
	}

	plain := testSnapshot()
	plain.Tick = 3000
	plain.Bookmark = nil

	path, err = SaveSnapshot(plain, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_3000.json"); path != want {
		t.Errorf("Path mismatch: got %s, want %s", path, want)
	}
}

func TestLoadSnapshotRejectsMismatchedFields(t *testing.T) {
	tmpDir := t.TempDir()

	cases := map[string]func(s *Snapshot){
		"short density": func(s *Snapshot) { s.Density = s.Density[:4] },
		"wrong version": func(s *Snapshot) { s.Version = SnapshotVersion + 1 },
		"empty grid":    func(s *Snapshot) { s.Width = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := testSnapshot()
			s.Bookmark = nil
			mutate(s)

			path, err := SaveSnapshot(s, filepath.Join(tmpDir, name))
			if err != nil {
				t.Fatalf("SaveSnapshot failed: %v", err)
			}
			if _, err := LoadSnapshot(path); err == nil {
				t.Error("expected LoadSnapshot to reject the snapshot")
			}
		})
	}
}
