package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/metrics"
	"github.com/aisclub/clubevents/internal/storage"
)

var (
	ErrNoPhotos           = errors.New("no photos to upload")
	ErrInvalidPhotoUpload = errors.New("photo needs a file name and content")
	ErrUploadTimeout      = errors.New("photo upload timed out")
)

type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
	Owns(url string) bool
}

type PhotoService struct {
	store   ObjectStore
	timeout time.Duration
	now     func() time.Time
}

func NewPhotoService(store ObjectStore, timeout time.Duration) *PhotoService {
	return &PhotoService{
		store:   store,
		timeout: timeout,
		now:     time.Now,
	}
}

// UploadEventPhotos stores files in parallel under
// events/{eventID}/photos/{unix ms}_{index}_{name}. The index keeps files of
// one batch apart when they share a name. Each upload gets its own timeout.
// The first failure fails the whole batch; URLs come back in input order.
func (s *PhotoService) UploadEventPhotos(ctx context.Context, eventID string, files []domain.PhotoFile) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoPhotos
	}

	names := make([]string, len(files))
	for i, f := range files {
		name := fileName(f.Name)
		if name == "" || len(f.Data) == 0 {
			return nil, ErrInvalidPhotoUpload
		}
		names[i] = name
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	batch := s.now().UnixMilli()
	for i, f := range files {
		objectPath := fmt.Sprintf("events/%s/photos/%d_%d_%s", eventID, batch, i, names[i])
		g.Go(func() error {
			url, err := s.upload(gctx, objectPath, f.Data)
			if err != nil {
				return fmt.Errorf("upload %s -> %w", names[i], err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return urls, nil
}

// DeleteEventPhotos removes urls in parallel; the first failure wins. URLs
// hosted elsewhere are only linked, so they are skipped.
func (s *PhotoService) DeleteEventPhotos(ctx context.Context, urls []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, url := range urls {
		if !s.store.Owns(url) {
			continue
		}
		g.Go(func() error {
			if err := s.store.Delete(gctx, url); err != nil {
				return fmt.Errorf("s.store.Delete %s -> %w", url, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// upload races the store against the timeout. A store that ignores ctx is
// abandoned, not waited for.
func (s *PhotoService) upload(ctx context.Context, objectPath string, data []byte) (string, error) {
	started := s.now()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		url string
		err error
	}
	done := make(chan result, 1)
	go func() {
		url, err := s.store.Upload(ctx, objectPath, data)
		done <- result{url: url, err: err}
	}()

	var (
		url string
		err error
	)
	select {
	case r := <-done:
		url, err = r.url, r.err
	case <-ctx.Done():
		err = ctx.Err()
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		err = ErrUploadTimeout
	case errors.Is(err, storage.ErrInvalidPath):
		err = fmt.Errorf("%w: %w", ErrInvalidPhotoUpload, err)
	}

	metrics.PhotoUpload(started, err)

	return url, err
}

func fileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
