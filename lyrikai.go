package lyrikai

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/igolaizola/lyrikai/pkg/errkind"
	"github.com/igolaizola/lyrikai/pkg/openai"
	"github.com/joho/godotenv"
)

// PlaceholderKey is used when no key is configured. The provider will
// reject it and the startup probe will fail.
const PlaceholderKey = "DEFAULT KEY"

// Config holds the AI provider settings shared by all commands.
type Config struct {
	Debug      bool
	Key        string
	BaseURL    string
	Model      string
	ImageModel string
	Timeout    time.Duration
	Proxy      string
}

// Token returns the configured key, falling back to OPENAI_API_KEY and then
// to the placeholder.
func (c *Config) Token() string {
	if c.Key != "" {
		return c.Key
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		return v
	}
	return PlaceholderKey
}

// LoadEnv loads environment variables from the given files, ".env" by
// default. Missing files are ignored and variables already set are kept.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("lyrikai: couldn't load %s: %w", f, err)
		}
		log.Debugf("lyrikai: loaded %s", f)
	}
	return nil
}

// NewGateway creates the openai gateway from the config.
func NewGateway(cfg *Config) (*openai.Client, error) {
	return openai.New(&openai.Config{
		Debug:      cfg.Debug,
		Token:      cfg.Token(),
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		ImageModel: cfg.ImageModel,
		Timeout:    cfg.Timeout,
		Proxy:      cfg.Proxy,
	})
}

type lister interface {
	Models(ctx context.Context) ([]string, error)
}

// Probe checks the provider is reachable listing its models up to attempts
// times, waiting between attempts.
func Probe(ctx context.Context, l lister, attempts int, wait time.Duration) ([]string, error) {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		log.Printf("api probe attempt no. %d", i+1)
		var models []string
		models, err = l.Models(ctx)
		if err == nil {
			log.Printf("api probe succeeded (%d models)", len(models))
			return models, nil
		}
		log.Debugf("api probe: %v", err)
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	if !errors.Is(err, errkind.ErrUnavailable) {
		err = fmt.Errorf("%w: %w", errkind.ErrUnavailable, err)
	}
	return nil, fmt.Errorf("unable to configure api after %d attempts: %w", attempts, err)
}
