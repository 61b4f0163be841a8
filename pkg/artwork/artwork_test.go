package artwork

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/igolaizola/lyrikai/pkg/errkind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{200, 200, 200, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	upload := filepath.Join(dir, "uploads")
	output := filepath.Join(dir, "song_art.png")

	s, err := New(ctx, &Config{
		Output:     output,
		Stamp:      "bottom-center",
		UploadType: "local",
		UploadConn: upload,
	})
	require.NoError(t, err)

	path, err := s.Save(ctx, "Hello", pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, output, path)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	require.NoError(t, err)

	entries, err := os.ReadDir(upload)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".png", filepath.Ext(entries[0].Name()))
}

func TestSaveDecodeFailure(t *testing.T) {
	ctx := context.Background()
	output := filepath.Join(t.TempDir(), "song_art.png")
	s, err := New(ctx, &Config{Output: output})
	require.NoError(t, err)

	_, err = s.Save(ctx, "Hello", []byte("definitely not an image"))
	assert.ErrorIs(t, err, errkind.ErrDecode)
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no file must be written")
}

func TestSaveWriteFailure(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, &Config{Output: filepath.Join(t.TempDir(), "song_art.bmp")})
	require.NoError(t, err)

	_, err = s.Save(ctx, "Hello", pngBytes(t))
	assert.ErrorIs(t, err, errkind.ErrIO)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, &Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultOutput, s.cfg.Output)

	var opened string
	s.open = func(u string) error {
		opened = u
		return nil
	}
	require.NoError(t, s.Open(ctx, "https://example.com/art.png"))
	assert.Equal(t, "https://example.com/art.png", opened)

	s.open = func(string) error { return errors.New("no browser") }
	assert.ErrorIs(t, s.Open(ctx, "https://example.com/art.png"), errkind.ErrIO)
	assert.ErrorIs(t, s.Open(ctx, ""), errkind.ErrInvalidInput)
}

func TestNewInvalid(t *testing.T) {
	ctx := context.Background()
	_, err := New(ctx, &Config{Stamp: "middle"})
	assert.Error(t, err)
	_, err = New(ctx, &Config{UploadType: "ftp"})
	assert.Error(t, err)
	_, err = New(ctx, &Config{Overlay: filepath.Join(t.TempDir(), "missing.png")})
	assert.Error(t, err)
}
