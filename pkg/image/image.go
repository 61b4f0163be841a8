package image

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	// Formats accepted from the provider besides png.
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

// Decode decodes an in-memory image payload and returns the detected format.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("image: empty payload")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("image: couldn't decode payload: %w", err)
	}
	return img, format, nil
}

// SavePNG encodes the image as png into output. The output must have a .png
// extension.
func SavePNG(img image.Image, output string) error {
	if ext := strings.ToLower(filepath.Ext(output)); ext != ".png" {
		return fmt.Errorf("image: unsupported extension: %s", ext)
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("image: couldn't create folder %s: %w", dir, err)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("image: couldn't encode png: %w", err)
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("image: couldn't write %s: %w", output, err)
	}
	return nil
}

// Load reads and decodes an image file.
func Load(path string) (image.Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("image: couldn't read %s: %w", path, err)
	}
	img, _, err := Decode(b)
	if err != nil {
		return nil, err
	}
	return img, nil
}
