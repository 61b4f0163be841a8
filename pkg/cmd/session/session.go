package session

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/igolaizola/lyrikai"
	"github.com/igolaizola/lyrikai/pkg/artwork"
	"github.com/igolaizola/lyrikai/pkg/song"
)

type Config struct {
	AI  lyrikai.Config
	Art artwork.Config

	Lyrics      string
	Name        string
	Size        string
	Format      string
	RequireName bool

	ProbeAttempts int
	ProbeWait     time.Duration
}

// Run loads the song, checks the provider is reachable and starts the
// interactive menu on the standard input and output.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.AI.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if cfg.Lyrics == "" {
		return fmt.Errorf("session: missing lyrics file")
	}
	size, err := song.ParseSize(cfg.Size)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	format, err := song.ParseFormat(cfg.Format)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	gateway, err := lyrikai.NewGateway(&cfg.AI)
	if err != nil {
		return fmt.Errorf("session: couldn't create gateway: %w", err)
	}
	sink, err := artwork.New(ctx, &cfg.Art)
	if err != nil {
		return fmt.Errorf("session: couldn't create artwork sink: %w", err)
	}

	out := os.Stdout
	s, err := song.New(&song.Config{
		Lyrics:      cfg.Lyrics,
		Name:        cfg.Name,
		RequireName: cfg.RequireName,
		Gateway:     gateway,
		Sink:        sink,
		Progress: func(msg string) {
			fmt.Fprintln(out, msg)
		},
	})
	if err != nil {
		return fmt.Errorf("session: couldn't load song: %w", err)
	}
	if err := s.SetSize(string(size)); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := s.SetFormat(string(format)); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	attempts := cfg.ProbeAttempts
	if attempts == 0 {
		attempts = 3
	}
	if _, err := lyrikai.Probe(ctx, gateway, attempts, cfg.ProbeWait); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	log.Printf("session: successfully configured api")

	return newShell(s, os.Stdin, out).run(ctx)
}
