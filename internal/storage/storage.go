package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

var (
	ErrInvalidPath = errors.New("invalid object path")
	ErrForeignURL  = errors.New("url does not belong to this store")
)

// FileStore keeps uploaded objects on an afero filesystem and hands out
// public URLs under urlPrefix.
type FileStore struct {
	fs        afero.Fs
	urlPrefix string
}

func NewFileStore(fs afero.Fs, urlPrefix string) *FileStore {
	return &FileStore{
		fs:        fs,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}
}

// NewOSFileStore roots the store at dir on the local disk.
func NewOSFileStore(dir, urlPrefix string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll -> %w", err)
	}

	return NewFileStore(afero.NewBasePathFs(afero.NewOsFs(), dir), urlPrefix), nil
}

// Upload writes data at objectPath and returns its public URL. A cancelled
// ctx aborts before the write starts.
func (s *FileStore) Upload(ctx context.Context, objectPath string, data []byte) (string, error) {
	name, err := cleanPath(objectPath)
	if err != nil {
		return "", err
	}
	if err = ctx.Err(); err != nil {
		return "", err
	}

	if err = s.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("s.fs.MkdirAll -> %w", err)
	}
	if err = afero.WriteFile(s.fs, name, data, 0o644); err != nil {
		return "", fmt.Errorf("afero.WriteFile -> %w", err)
	}

	return s.urlPrefix + name, nil
}

// Owns reports whether url was handed out by this store.
func (s *FileStore) Owns(url string) bool {
	return strings.HasPrefix(url, s.urlPrefix+"/")
}

// Delete removes the object behind url. Deleting a missing object succeeds.
func (s *FileStore) Delete(ctx context.Context, url string) error {
	if !s.Owns(url) {
		return ErrForeignURL
	}

	name, err := cleanPath(strings.TrimPrefix(url, s.urlPrefix))
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	if err = s.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("s.fs.Remove -> %w", err)
	}

	return nil
}

// HTTPFileSystem exposes the stored objects for static serving.
func (s *FileStore) HTTPFileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs)
}

func cleanPath(p string) (string, error) {
	if p == "" {
		return "", ErrInvalidPath
	}
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return "", ErrInvalidPath
		}
	}

	cleaned := path.Clean("/" + p)
	if cleaned == "/" {
		return "", ErrInvalidPath
	}

	return cleaned, nil
}
