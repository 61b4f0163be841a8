package song

import (
	"fmt"

	"github.com/igolaizola/lyrikai/pkg/errkind"
)

// Size is the artwork size. Summaries only accept Small and Large.
type Size string

const (
	Small  Size = "sm"
	Medium Size = "md"
	Large  Size = "lg"
)

// Format is how generated artwork is returned by the provider.
type Format string

const (
	URL      Format = "url"
	Embedded Format = "b64_json"
)

func ParseSize(v string) (Size, error) {
	switch s := Size(v); s {
	case Small, Medium, Large:
		return s, nil
	}
	return "", fmt.Errorf("song: invalid size %q (sm, md, lg): %w", v, errkind.ErrInvalidInput)
}

func ParseFormat(v string) (Format, error) {
	switch f := Format(v); f {
	case URL, Embedded:
		return f, nil
	}
	return "", fmt.Errorf("song: invalid format %q (url, b64_json): %w", v, errkind.ErrInvalidInput)
}
