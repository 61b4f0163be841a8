package filestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/igolaizola/lyrikai/pkg/filestore/local"
	"github.com/igolaizola/lyrikai/pkg/filestore/s3"
)

type fs interface {
	Upload(ctx context.Context, path, name string) error
	URL(ctx context.Context, name string) (string, error)
}

// Store keeps copies of the generated artwork.
type Store struct {
	fs fs
}

// SetPNG uploads the png at path with the given id and returns a URL to
// retrieve it.
func (s *Store) SetPNG(ctx context.Context, path, id string) (string, error) {
	name := PNG(id)
	if err := s.fs.Upload(ctx, path, name); err != nil {
		return "", err
	}
	u, err := s.fs.URL(ctx, name)
	if err != nil {
		return "", err
	}
	return u, nil
}

// New creates a store. Supported types are "local" (conn is a folder) and
// "s3" (conn is key:secret@bucket.region).
func New(ctx context.Context, typ, conn string, debug bool) (*Store, error) {
	var fs fs
	switch typ {
	case "s3":
		split := strings.Split(conn, "@")
		if len(split) != 2 {
			return nil, fmt.Errorf("filestore: invalid s3 connection string %q", conn)
		}
		auth := strings.Split(split[0], ":")
		if len(auth) != 2 {
			return nil, fmt.Errorf("filestore: invalid s3 auth string %q", conn)
		}
		loc := strings.Split(split[1], ".")
		if len(loc) != 2 {
			return nil, fmt.Errorf("filestore: invalid s3 location string %q", conn)
		}
		candidate, err := s3.New(ctx, auth[0], auth[1], loc[1], loc[0], debug)
		if err != nil {
			return nil, fmt.Errorf("filestore: %w", err)
		}
		fs = candidate
	case "local":
		candidate, err := local.New(conn, debug)
		if err != nil {
			return nil, fmt.Errorf("filestore: %w", err)
		}
		fs = candidate
	default:
		return nil, fmt.Errorf("filestore: unknown file storage type %q", typ)
	}
	return &Store{fs: fs}, nil
}

func PNG(id string) string {
	return id + ".png"
}
