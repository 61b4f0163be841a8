// Package song holds the song being worked on during a session: its lyrics,
// its artwork preferences, the cached lyric summary and the last generated
// artwork.
package song

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/igolaizola/lyrikai/pkg/errkind"
	"github.com/igolaizola/lyrikai/pkg/openai"
)

const DefaultName = "My Song"

// Gateway is the AI provider used by the song.
type Gateway interface {
	Summarize(ctx context.Context, lyrics, size string) (string, error)
	DescribeScene(ctx context.Context, themes string) (string, error)
	GenerateImage(ctx context.Context, prompt, size, format string) (*openai.Image, error)
}

// Sink renders artwork.
type Sink interface {
	Open(ctx context.Context, url string) error
	Save(ctx context.Context, title string, data []byte) (string, error)
}

type Config struct {
	// Lyrics is the path of the .txt file to load the lyrics from.
	Lyrics string
	Name   string
	// RequireName rejects empty names. Empty names are accepted by default.
	RequireName bool

	Gateway Gateway
	Sink    Sink
	// Progress receives progress messages, it may be nil.
	Progress func(string)
}

// Summary is a cached lyric summary tagged with the size it was requested
// with.
type Summary struct {
	Size   Size
	Themes string
}

// Art is the result of the last successful artwork generation. URL is set
// for url artwork and Path for embedded artwork saved to disk.
type Art struct {
	URL  string
	Path string
}

type Song struct {
	name        string
	lyrics      string
	size        Size
	format      Format
	summary     *Summary
	art         *Art
	requireName bool

	gateway  Gateway
	sink     Sink
	progress func(string)
}

// New creates a song loading the lyrics from cfg.Lyrics. The name is taken
// as given, callers wanting a default use DefaultName. Size defaults to small
// and format to url.
func New(cfg *Config) (*Song, error) {
	if cfg.Gateway == nil {
		return nil, errors.New("song: missing gateway")
	}
	if cfg.Sink == nil {
		return nil, errors.New("song: missing sink")
	}
	s := &Song{
		size:        Small,
		format:      URL,
		requireName: cfg.RequireName,
		gateway:     cfg.Gateway,
		sink:        cfg.Sink,
		progress:    cfg.Progress,
	}
	if err := s.Rename(cfg.Name); err != nil {
		return nil, err
	}
	if err := s.LoadLyrics(cfg.Lyrics); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Song) String() string {
	return fmt.Sprintf("Song(name=%s, size=%s, format=%s)", s.name, s.size, s.format)
}

func (s *Song) Name() string   { return s.name }
func (s *Song) Lyrics() string { return s.lyrics }
func (s *Song) Size() Size     { return s.size }
func (s *Song) Format() Format { return s.format }

// Summary returns a copy of the cached summary, if any.
func (s *Song) Summary() (Summary, bool) {
	if s.summary == nil {
		return Summary{}, false
	}
	return *s.summary, true
}

// Art returns a copy of the last generated artwork, if any.
func (s *Song) Art() (Art, bool) {
	if s.art == nil {
		return Art{}, false
	}
	return *s.art, true
}

func (s *Song) Rename(name string) error {
	if s.requireName && strings.TrimSpace(name) == "" {
		return fmt.Errorf("song: empty name: %w", errkind.ErrInvalidInput)
	}
	s.name = name
	return nil
}

// LoadLyrics replaces the lyrics with the contents of a .txt file.
func (s *Song) LoadLyrics(path string) error {
	if !strings.HasSuffix(path, ".txt") {
		return fmt.Errorf("song: lyrics file %q must end in .txt: %w", path, errkind.ErrInvalidInput)
	}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("song: couldn't read lyrics %q: %w: %w", path, errkind.ErrNotFound, err)
	case err != nil:
		return fmt.Errorf("song: couldn't read lyrics %q: %w: %w", path, errkind.ErrIO, err)
	case len(b) == 0:
		return fmt.Errorf("song: lyrics file %q is empty: %w", path, errkind.ErrInvalidInput)
	}
	s.lyrics = string(b)
	return nil
}

func (s *Song) SetSize(v string) error {
	size, err := ParseSize(v)
	if err != nil {
		return err
	}
	s.size = size
	return nil
}

func (s *Song) SetFormat(v string) error {
	format, err := ParseFormat(v)
	if err != nil {
		return err
	}
	s.format = format
	return nil
}

// Summarize asks the gateway for the themes of the lyrics and caches the
// result, replacing any previous summary.
func (s *Song) Summarize(ctx context.Context, size Size) (string, error) {
	if size != Small && size != Large {
		return "", fmt.Errorf("song: invalid summary size %q: %w", size, errkind.ErrInvalidInput)
	}
	sum, err := s.summarize(ctx, size)
	if err != nil {
		return "", err
	}
	s.summary = sum
	return sum.Themes, nil
}

func (s *Song) summarize(ctx context.Context, size Size) (*Summary, error) {
	themes, err := s.gateway.Summarize(ctx, s.lyrics, string(size))
	if err != nil {
		return nil, upstream("couldn't summarize lyrics", err)
	}
	if strings.TrimSpace(themes) == "" {
		return nil, fmt.Errorf("song: empty lyric summary: %w", errkind.ErrUpstream)
	}
	return &Summary{Size: size, Themes: themes}, nil
}

// DescribeScene returns a textual visual scene inspired by the themes.
func (s *Song) DescribeScene(ctx context.Context, themes string) (string, error) {
	if themes == "" {
		return "", fmt.Errorf("song: empty themes: %w", errkind.ErrInvalidInput)
	}
	scene, err := s.gateway.DescribeScene(ctx, themes)
	if err != nil {
		return "", upstream("couldn't describe scene", err)
	}
	if strings.TrimSpace(scene) == "" {
		return "", fmt.Errorf("song: empty scene description: %w", errkind.ErrUpstream)
	}
	return scene, nil
}

// Themes returns the themes of a small summary, reusing the cached one when
// it is small and summarizing again otherwise.
func (s *Song) Themes(ctx context.Context) (string, error) {
	sum, err := s.smallSummary(ctx)
	if err != nil {
		return "", err
	}
	s.summary = sum
	return strings.TrimLeft(sum.Themes, "\n"), nil
}

// smallSummary returns the cached small summary or a new one without
// caching it.
func (s *Song) smallSummary(ctx context.Context) (*Summary, error) {
	if s.summary != nil && s.summary.Size == Small {
		return s.summary, nil
	}
	s.report("Running the summarize method...")
	return s.summarize(ctx, Small)
}

// GenerateArt generates artwork with the song size and format.
func (s *Song) GenerateArt(ctx context.Context, prompt string) (Art, error) {
	return s.GenerateArtWith(ctx, prompt, s.size, s.format)
}

// GenerateArtWith generates artwork. If the prompt is empty a visual scene
// based on a small lyric summary is used instead.
//
// Url artwork is kept as the song artwork. Embedded artwork is decoded and
// handed to the sink, which writes it to disk, and only the path is kept.
// The artwork and any new summary are stored only if every step succeeds.
func (s *Song) GenerateArtWith(ctx context.Context, prompt string, size Size, format Format) (Art, error) {
	summary := s.summary
	if prompt == "" {
		s.report("No prompt supplied. Generating prompt based on lyric summary...")
		sum, err := s.smallSummary(ctx)
		if err != nil {
			return Art{}, err
		}
		summary = sum
		themes := strings.TrimLeft(sum.Themes, "\n")
		s.report(fmt.Sprintf("Themes are: %s", themes))
		scene, err := s.DescribeScene(ctx, themes)
		if err != nil {
			return Art{}, err
		}
		s.report(fmt.Sprintf("Scene is: %s", scene))
		prompt = scene
	}

	img, err := s.gateway.GenerateImage(ctx, prompt, string(size), string(format))
	if err != nil {
		return Art{}, upstream("couldn't generate image", err)
	}
	if img == nil {
		return Art{}, fmt.Errorf("song: empty image result: %w", errkind.ErrUpstream)
	}

	var art Art
	switch format {
	case URL:
		if img.URL == "" {
			return Art{}, fmt.Errorf("song: no url in image result: %w", errkind.ErrUpstream)
		}
		art.URL = img.URL
	case Embedded:
		if img.B64JSON == "" {
			return Art{}, fmt.Errorf("song: no b64_json in image result: %w", errkind.ErrUpstream)
		}
		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return Art{}, fmt.Errorf("song: couldn't decode binary image data: %w: %w", errkind.ErrDecode, err)
		}
		path, err := s.sink.Save(ctx, s.name, data)
		if err != nil {
			return Art{}, fmt.Errorf("song: couldn't save art: %w", err)
		}
		s.report("Song art saved to disk!")
		art.Path = path
	default:
		return Art{}, fmt.Errorf("song: invalid image format %q: %w", format, errkind.ErrInvalidInput)
	}
	s.summary = summary
	s.art = &art
	return art, nil
}

// OpenArt opens the last url artwork.
func (s *Song) OpenArt(ctx context.Context) error {
	if s.art == nil || s.art.URL == "" {
		return fmt.Errorf("song: no artwork url to open: %w", errkind.ErrInvalidState)
	}
	return s.sink.Open(ctx, s.art.URL)
}

func (s *Song) report(msg string) {
	if s.progress != nil {
		s.progress(msg)
	}
}

// upstream keeps input validation errors and reports anything else as an
// upstream failure.
func upstream(msg string, err error) error {
	if errors.Is(err, errkind.ErrInvalidInput) || errors.Is(err, errkind.ErrUpstream) {
		return fmt.Errorf("song: %s: %w", msg, err)
	}
	return fmt.Errorf("song: %s: %w: %w", msg, errkind.ErrUpstream, err)
}
