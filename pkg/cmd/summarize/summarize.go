package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/igolaizola/lyrikai"
	"github.com/igolaizola/lyrikai/pkg/artwork"
	"github.com/igolaizola/lyrikai/pkg/song"
)

type Config struct {
	AI     lyrikai.Config
	Lyrics string
	Size   string
	Scene  bool
}

// Run prints the themes of a lyrics file and, optionally, a visual scene
// based on them.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.AI.Debug {
		log.SetLevel(log.DebugLevel)
	}
	size, err := song.ParseSize(cfg.Size)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	gateway, err := lyrikai.NewGateway(&cfg.AI)
	if err != nil {
		return fmt.Errorf("summarize: couldn't create gateway: %w", err)
	}
	sink, err := artwork.New(ctx, &artwork.Config{Debug: cfg.AI.Debug})
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	s, err := song.New(&song.Config{
		Lyrics:  cfg.Lyrics,
		Gateway: gateway,
		Sink:    sink,
	})
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	themes, err := s.Summarize(ctx, size)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	themes = strings.TrimLeft(themes, "\n")
	fmt.Println(themes)
	if !cfg.Scene {
		return nil
	}
	scene, err := s.DescribeScene(ctx, themes)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	fmt.Println(scene)
	return nil
}
