// Package artwork renders generated artwork: URLs are opened in the browser
// and embedded payloads are written to disk as png.
package artwork

import (
	"context"
	"fmt"
	goimage "image"

	"github.com/charmbracelet/log"
	"github.com/igolaizola/lyrikai/pkg/errkind"
	"github.com/igolaizola/lyrikai/pkg/filestore"
	"github.com/igolaizola/lyrikai/pkg/image"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/browser"
)

const DefaultOutput = "song_art.png"

type Config struct {
	Debug bool

	// Output is the png file written for embedded artwork.
	Output string
	// Stamp is the position of the song name on saved artwork. Empty means
	// no stamp.
	Stamp string
	// Font is a ttf/otf file for the stamp, defaults to the Go bold font.
	Font string
	// Overlay is an image drawn centered over saved artwork.
	Overlay string

	UploadType string
	UploadConn string
}

type Sink struct {
	cfg      *Config
	position image.Position
	overlay  goimage.Image
	store    *filestore.Store
	open     func(string) error
}

func New(ctx context.Context, cfg *Config) (*Sink, error) {
	s := &Sink{
		cfg:  cfg,
		open: browser.OpenURL,
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Stamp != "" {
		p, err := image.ParsePosition(cfg.Stamp)
		if err != nil {
			return nil, fmt.Errorf("artwork: %w", err)
		}
		s.position = p
	}
	if cfg.Overlay != "" {
		img, err := image.Load(cfg.Overlay)
		if err != nil {
			return nil, fmt.Errorf("artwork: couldn't load overlay: %w", err)
		}
		s.overlay = img
	}
	if cfg.UploadType != "" {
		store, err := filestore.New(ctx, cfg.UploadType, cfg.UploadConn, cfg.Debug)
		if err != nil {
			return nil, fmt.Errorf("artwork: couldn't create upload store: %w", err)
		}
		s.store = store
	}
	return s, nil
}

// Open opens the URL in the default browser.
func (s *Sink) Open(ctx context.Context, u string) error {
	if u == "" {
		return fmt.Errorf("artwork: empty url: %w", errkind.ErrInvalidInput)
	}
	if err := s.open(u); err != nil {
		return fmt.Errorf("artwork: couldn't open %s: %w: %w", u, errkind.ErrIO, err)
	}
	return nil
}

// Save decodes the image bytes and writes them as png to the configured
// output. The title is stamped when a stamp position is configured.
// It returns the path written.
func (s *Sink) Save(ctx context.Context, title string, data []byte) (string, error) {
	img, format, err := image.Decode(data)
	if err != nil {
		return "", fmt.Errorf("artwork: %w: %w", errkind.ErrDecode, err)
	}
	log.Debugf("artwork: decoded %s image %v", format, img.Bounds().Size())

	if s.overlay != nil {
		img = image.Overlay(img, s.overlay)
	}
	if s.cfg.Stamp != "" && title != "" {
		stamped, err := image.Stamp(img, title, s.position, s.cfg.Font)
		if err != nil {
			return "", fmt.Errorf("artwork: couldn't stamp title: %w: %w", errkind.ErrIO, err)
		}
		img = stamped
	}
	if err := image.SavePNG(img, s.cfg.Output); err != nil {
		return "", fmt.Errorf("artwork: %w: %w", errkind.ErrIO, err)
	}

	if s.store != nil {
		id := ulid.Make().String()
		u, err := s.store.SetPNG(ctx, s.cfg.Output, id)
		if err != nil {
			// Upload failures don't invalidate the saved file
			log.Printf("artwork: couldn't upload %s: %v", s.cfg.Output, err)
		} else {
			log.Printf("artwork: uploaded %s", u)
		}
	}
	return s.cfg.Output, nil
}
