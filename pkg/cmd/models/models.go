package models

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/igolaizola/lyrikai"
)

type Config struct {
	AI            lyrikai.Config
	ProbeAttempts int
	ProbeWait     time.Duration
}

// Run probes the provider and prints the available models.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.AI.Debug {
		log.SetLevel(log.DebugLevel)
	}
	gateway, err := lyrikai.NewGateway(&cfg.AI)
	if err != nil {
		return fmt.Errorf("models: couldn't create gateway: %w", err)
	}
	models, err := lyrikai.Probe(ctx, gateway, cfg.ProbeAttempts, cfg.ProbeWait)
	if err != nil {
		return fmt.Errorf("models: %w", err)
	}
	for _, m := range models {
		fmt.Println(m)
	}
	return nil
}
