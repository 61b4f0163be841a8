package art

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/igolaizola/lyrikai"
	"github.com/igolaizola/lyrikai/pkg/artwork"
	"github.com/igolaizola/lyrikai/pkg/song"
)

type Config struct {
	AI  lyrikai.Config
	Art artwork.Config

	Lyrics string
	Name   string
	Prompt string
	Size   string
	Format string
	Open   bool
}

// Run generates artwork once, from the prompt when given or from the lyrics
// themes otherwise.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.AI.Debug {
		log.SetLevel(log.DebugLevel)
	}
	size, err := song.ParseSize(cfg.Size)
	if err != nil {
		return fmt.Errorf("art: %w", err)
	}
	format, err := song.ParseFormat(cfg.Format)
	if err != nil {
		return fmt.Errorf("art: %w", err)
	}
	gateway, err := lyrikai.NewGateway(&cfg.AI)
	if err != nil {
		return fmt.Errorf("art: couldn't create gateway: %w", err)
	}
	sink, err := artwork.New(ctx, &cfg.Art)
	if err != nil {
		return fmt.Errorf("art: %w", err)
	}
	s, err := song.New(&song.Config{
		Lyrics:  cfg.Lyrics,
		Name:    cfg.Name,
		Gateway: gateway,
		Sink:    sink,
		Progress: func(msg string) {
			log.Printf("art: %s", msg)
		},
	})
	if err != nil {
		return fmt.Errorf("art: %w", err)
	}
	a, err := s.GenerateArtWith(ctx, cfg.Prompt, size, format)
	if err != nil {
		return fmt.Errorf("art: %w", err)
	}
	if a.Path != "" {
		fmt.Println(a.Path)
		return nil
	}
	fmt.Println(a.URL)
	if cfg.Open {
		if err := s.OpenArt(ctx); err != nil {
			return fmt.Errorf("art: %w", err)
		}
	}
	return nil
}
