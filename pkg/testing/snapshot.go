package testing

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/elements/pkg/snapshot"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// UpdateSnapshotsEnv names the environment variable that makes MatchesFile
// rewrite golden files.
const UpdateSnapshotsEnv = "ELEMENTS_UPDATE_SNAPSHOTS"

// Snapshot is the serialized content of a document body, one top-level
// element per line.
type Snapshot struct {
	HTML string
}

// CaptureSnapshot serializes the body's children.
func (t *ElementTester) CaptureSnapshot() *Snapshot {
	return &Snapshot{HTML: snapshot.Capture(t.doc)}
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// ELEMENTS_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	expected := &Snapshot{HTML: strings.TrimSuffix(string(data), "\n")}
	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s.HTML+"\n"), 0o644)
}

// Diff returns a line diff from other to this snapshot. Returns empty string
// if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return snapshot.Diff(other.HTML, s.HTML)
}
