package importer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/PuzzleCut/internal/export"
	"github.com/piwi3910/PuzzleCut/internal/model"
)

func TestReadManifest_RoundTrip(t *testing.T) {
	tmpl := buildTemplate(t, 300, 200, 3, 2)
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := export.SaveManifest(path, tmpl, true); err != nil {
		t.Fatalf("SaveManifest: %v", err)
	}

	m, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m.Grid != tmpl.Grid || m.Width != 300 || m.Height != 200 {
		t.Errorf("unexpected layout %v %dx%d", m.Grid, m.Width, m.Height)
	}
	if len(m.Pieces) != 6 {
		t.Fatalf("expected 6 pieces, got %d", len(m.Pieces))
	}
	for i, p := range m.Pieces {
		want := &tmpl.Pieces[i]
		if p.CropX != want.CropX || p.CropW != want.CropWidth || p.CropY != want.CropY || p.CropH != want.CropHeight {
			t.Errorf("piece %d crop mismatch", i)
		}
		if p.Image != export.PieceFileName(i) {
			t.Errorf("piece %d image %q", i, p.Image)
		}
		if len(p.Outline) != len(want.Outline) {
			t.Errorf("piece %d outline has %d segments, want %d", i, len(p.Outline), len(want.Outline))
		}
	}
}

func writeManifest(t *testing.T, m model.Manifest) string {
	t.Helper()
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadManifest_Rejects(t *testing.T) {
	tmpl := buildTemplate(t, 200, 200, 2, 2)
	good := model.NewManifest(tmpl, nil)

	badVersion := good
	badVersion.Version = 99

	missing := good
	missing.Pieces = good.Pieces[:3]

	reordered := good
	reordered.Pieces = append([]model.ManifestPiece(nil), good.Pieces...)
	reordered.Pieces[0], reordered.Pieces[1] = reordered.Pieces[1], reordered.Pieces[0]

	tests := []struct {
		name string
		m    model.Manifest
		want string
	}{
		{"version", badVersion, "unsupported manifest version 99"},
		{"count", missing, "lists 3 pieces"},
		{"order", reordered, "has index 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadManifest(writeManifest(t, tt.m))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestReadManifest_NotJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadManifest(path); err == nil {
		t.Error("expected parse error")
	}
}
