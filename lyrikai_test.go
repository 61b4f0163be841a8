package lyrikai

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/igolaizola/lyrikai/pkg/errkind"
)

type fakeLister struct {
	fails int
	calls int
}

func (f *fakeLister) Models(ctx context.Context) ([]string, error) {
	f.calls++
	if f.calls <= f.fails {
		return nil, errors.New("unreachable")
	}
	return []string{"gpt-3.5-turbo-instruct"}, nil
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name      string
		fails     int
		wantCalls int
		wantErr   bool
	}{
		{"first attempt", 0, 1, false},
		{"third attempt", 2, 3, false},
		{"exhausted", 3, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &fakeLister{fails: tt.fails}
			_, err := Probe(context.Background(), l, 3, time.Millisecond)
			if tt.wantErr != (err != nil) {
				t.Fatalf("Probe() err = %v; want error %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errkind.ErrUnavailable) {
				t.Fatalf("Probe() err = %v; want unavailable", err)
			}
			if l.calls != tt.wantCalls {
				t.Fatalf("Probe() calls = %d; want %d", l.calls, tt.wantCalls)
			}
		})
	}
}

func TestProbeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := &fakeLister{fails: 3}
	if _, err := Probe(ctx, l, 3, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("Probe() err = %v; want context canceled", err)
	}
}

func TestToken(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := &Config{}
	if got := cfg.Token(); got != PlaceholderKey {
		t.Fatalf("Token() = %q; want placeholder", got)
	}
	t.Setenv("OPENAI_API_KEY", "env-key")
	if got := cfg.Token(); got != "env-key" {
		t.Fatalf("Token() = %q; want env-key", got)
	}
	cfg.Key = "flag-key"
	if got := cfg.Token(); got != "flag-key" {
		t.Fatalf("Token() = %q; want flag-key", got)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	os.Unsetenv("OPENAI_API_KEY")

	dir := t.TempDir()
	if err := LoadEnv(filepath.Join(dir, ".env")); err != nil {
		t.Fatalf("LoadEnv() missing file err = %v; want nil", err)
	}
	if got := (&Config{}).Token(); got != PlaceholderKey {
		t.Fatalf("Token() = %q; want placeholder", got)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("OPENAI_API_KEY=sk-from-dotenv\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv() err = %v", err)
	}
	if got := (&Config{}).Token(); got != "sk-from-dotenv" {
		t.Fatalf("Token() = %q; want sk-from-dotenv", got)
	}

	// Variables already set win over the file
	t.Setenv("OPENAI_API_KEY", "env-key")
	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv() err = %v", err)
	}
	if got := (&Config{}).Token(); got != "env-key" {
		t.Fatalf("Token() = %q; want env-key", got)
	}
}

func TestLoadEnvInvalid(t *testing.T) {
	if err := LoadEnv(t.TempDir()); err == nil {
		t.Fatal("LoadEnv() on a directory err = nil; want error")
	}
}
