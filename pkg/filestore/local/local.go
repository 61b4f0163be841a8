package local

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

type store struct {
	root  string
	debug bool
}

func New(root string, debug bool) (*store, error) {
	if root == "" {
		return nil, fmt.Errorf("local: missing root folder")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("local: couldn't create root folder %q: %w", root, err)
	}
	return &store{root: root, debug: debug}, nil
}

func (s *store) Upload(ctx context.Context, path, name string) error {
	dst := filepath.Join(s.root, name)
	if err := copyFile(path, dst); err != nil {
		return fmt.Errorf("local: couldn't copy file %q to %q: %w", path, dst, err)
	}
	if s.debug {
		log.Debugf("local: copied %s to %s", path, dst)
	}
	return nil
}

func (s *store) URL(ctx context.Context, name string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("local: couldn't resolve %q: %w", name, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	// Create or truncate the destination keeping the source permissions
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
