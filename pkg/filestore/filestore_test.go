package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		typ, conn string
	}{
		{"telegram", "token@123"},
		{"s3", "missing-at"},
		{"s3", "key@bucket.region"},
		{"s3", "key:secret@bucket"},
		{"local", ""},
	}
	for _, tt := range tests {
		t.Run(tt.typ+"/"+tt.conn, func(t *testing.T) {
			if _, err := New(ctx, tt.typ, tt.conn, false); err == nil {
				t.Fatalf("New(%q, %q) err = nil; want error", tt.typ, tt.conn)
			}
		})
	}
}

func TestSetPNG(t *testing.T) {
	ctx := context.Background()
	src := filepath.Join(t.TempDir(), "song_art.png")
	if err := os.WriteFile(src, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
	root := t.TempDir()
	s, err := New(ctx, "local", root, false)
	if err != nil {
		t.Fatalf("New() err = %v; want nil", err)
	}
	u, err := s.SetPNG(ctx, src, "01HZX")
	if err != nil {
		t.Fatalf("SetPNG() err = %v; want nil", err)
	}
	if _, err := os.Stat(filepath.Join(root, "01HZX.png")); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}
	if filepath.Base(u) != "01HZX.png" {
		t.Fatalf("SetPNG() url = %q; want suffix 01HZX.png", u)
	}
}
