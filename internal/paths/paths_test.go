package paths

import (
	"path/filepath"
	"testing"
)

func TestNewInPlace(t *testing.T) {
	p := New("/data/stony_brook_buildings.geojson", "")
	if p.Output != p.Document {
		t.Fatalf("empty output should rewrite the document, got %q", p.Output)
	}
	want := filepath.Join("/data", ".stony_brook_buildings.geojson.lock")
	if p.LockPath != want {
		t.Fatalf("unexpected lock path: %q, want %q", p.LockPath, want)
	}
	if got := p.DefaultReport(); got != "/data/stony_brook_buildings.assignments.yaml" {
		t.Fatalf("unexpected report path: %q", got)
	}
}

func TestNewSeparateOutput(t *testing.T) {
	p := New("in/buildings.geojson", "out/buildings.geojson")
	out, err := filepath.Abs("out")
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	if !filepath.IsAbs(p.Document) {
		t.Fatalf("document should be absolute, got %q", p.Document)
	}
	if p.LockPath != filepath.Join(out, ".buildings.geojson.lock") {
		t.Fatalf("lock should guard the output, got %q", p.LockPath)
	}
}

func TestRemoteOutputHasNoLock(t *testing.T) {
	p := New("mem://localhost/buildings.geojson", "")
	if p.LockPath != "" {
		t.Fatalf("remote output should not be locked, got %q", p.LockPath)
	}
	if IsLocal(p.Output) {
		t.Fatalf("mem scheme should not be local")
	}
	if !IsLocal("relative/buildings.geojson") {
		t.Fatalf("plain paths should be local")
	}
}
