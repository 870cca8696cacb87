package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/storage"
)

func newPhotoService(objects *memObjects, timeout time.Duration) *PhotoService {
	s := NewPhotoService(objects, timeout)
	s.now = func() time.Time { return now }
	return s
}

func TestPhotoService_UploadEventPhotos(t *testing.T) {
	objects := newMemObjects()
	s := newPhotoService(objects, time.Second)

	urls, err := s.UploadEventPhotos(context.Background(), "e1", []domain.PhotoFile{
		{Name: "cover.jpg", Data: []byte("a")},
		{Name: `C:\Users\me\stage.png`, Data: []byte("b")},
		{Name: "../../etc/crowd.jpg", Data: []byte("c")},
	})
	require.NoError(t, err)

	ms := now.UnixMilli()
	assert.Equal(t, []string{
		"https://cdn.test/events/e1/photos/" + itoa(ms) + "_0_cover.jpg",
		"https://cdn.test/events/e1/photos/" + itoa(ms) + "_1_stage.png",
		"https://cdn.test/events/e1/photos/" + itoa(ms) + "_2_crowd.jpg",
	}, urls)
	assert.Len(t, objects.objects, 3)
}

func TestPhotoService_SameNameInOneBatch(t *testing.T) {
	objects := newMemObjects()
	s := newPhotoService(objects, time.Second)

	urls, err := s.UploadEventPhotos(context.Background(), "e1", []domain.PhotoFile{
		{Name: "IMG.jpg", Data: []byte("first")},
		{Name: "IMG.jpg", Data: []byte("second")},
	})
	require.NoError(t, err)

	require.Len(t, urls, 2)
	assert.NotEqual(t, urls[0], urls[1])
	assert.Equal(t, []byte("first"), objects.objects[urls[0]])
	assert.Equal(t, []byte("second"), objects.objects[urls[1]])
}

func TestPhotoService_DoubleDotFileName(t *testing.T) {
	store := storage.NewFileStore(afero.NewMemMapFs(), "https://files.test")
	s := NewPhotoService(store, time.Second)
	s.now = func() time.Time { return now }

	urls, err := s.UploadEventPhotos(context.Background(), "e1", []domain.PhotoFile{
		{Name: "party..night.jpg", Data: []byte("a")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://files.test/events/e1/photos/" + itoa(now.UnixMilli()) + "_0_party..night.jpg"}, urls)

	_, err = s.UploadEventPhotos(context.Background(), "..", []domain.PhotoFile{{Name: "a.jpg", Data: []byte("a")}})
	assert.ErrorIs(t, err, ErrInvalidPhotoUpload)
	assert.ErrorIs(t, err, storage.ErrInvalidPath)
}

func TestPhotoService_RejectsBadInput(t *testing.T) {
	s := newPhotoService(newMemObjects(), time.Second)
	ctx := context.Background()

	_, err := s.UploadEventPhotos(ctx, "e1", nil)
	assert.ErrorIs(t, err, ErrNoPhotos)

	_, err = s.UploadEventPhotos(ctx, "e1", []domain.PhotoFile{{Name: "a.jpg"}})
	assert.ErrorIs(t, err, ErrInvalidPhotoUpload)

	_, err = s.UploadEventPhotos(ctx, "e1", []domain.PhotoFile{{Name: "..", Data: []byte("x")}})
	assert.ErrorIs(t, err, ErrInvalidPhotoUpload)
}

func TestPhotoService_FailureFailsBatch(t *testing.T) {
	objects := newMemObjects()
	objects.uploadErr = errors.New("quota exceeded")
	s := newPhotoService(objects, time.Second)

	urls, err := s.UploadEventPhotos(context.Background(), "e1", []domain.PhotoFile{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.jpg", Data: []byte("b")},
	})
	assert.ErrorIs(t, err, objects.uploadErr)
	assert.Nil(t, urls)
}

func TestPhotoService_Timeout(t *testing.T) {
	objects := newMemObjects()
	objects.block = make(chan struct{})
	defer close(objects.block)
	s := newPhotoService(objects, 20*time.Millisecond)

	started := time.Now()
	_, err := s.UploadEventPhotos(context.Background(), "e1", []domain.PhotoFile{{Name: "a.jpg", Data: []byte("a")}})

	assert.ErrorIs(t, err, ErrUploadTimeout)
	assert.Less(t, time.Since(started), time.Second)
}

func TestPhotoService_DeleteEventPhotos(t *testing.T) {
	objects := newMemObjects()
	s := newPhotoService(objects, time.Second)
	ctx := context.Background()

	require.NoError(t, s.DeleteEventPhotos(ctx, []string{"https://cdn.test/a", "https://cdn.test/b"}))
	assert.ElementsMatch(t, []string{"https://cdn.test/a", "https://cdn.test/b"}, objects.deleted)

	require.NoError(t, s.DeleteEventPhotos(ctx, nil))

	require.NoError(t, s.DeleteEventPhotos(ctx, []string{"https://elsewhere.test/linked.jpg"}))
	assert.Len(t, objects.deleted, 2)

	objects.deleteErr = errors.New("unavailable")
	assert.ErrorIs(t, s.DeleteEventPhotos(ctx, []string{"https://cdn.test/c"}), objects.deleteErr)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
