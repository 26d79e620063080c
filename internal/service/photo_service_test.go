package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/dkl25/admin-api/internal/repository"
	"github.com/dkl25/admin-api/internal/service"
	"github.com/dkl25/admin-api/internal/testutil"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/storage"
	"github.com/dkl25/admin-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeMedia struct {
	mu         sync.Mutex
	uploads    int
	destroyed  []string
	destroyErr error
}

func (m *fakeMedia) Upload(ctx context.Context, r io.Reader, filename, folder string) (*storage.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	id := fmt.Sprintf("%s/%s-%d", folder, filename, m.uploads)
	return &storage.UploadResult{
		PublicID:     id,
		SecureURL:    "https://res.cloudinary.com/dkl/image/upload/" + id,
		ThumbnailURL: "https://res.cloudinary.com/dkl/image/upload/thumb/" + id,
	}, nil
}

func (m *fakeMedia) Destroy(ctx context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = append(m.destroyed, publicID)
	return m.destroyErr
}

type fakeArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (a *fakeArchive) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[key] = b
	return nil
}

func (a *fakeArchive) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.objects, key)
	return nil
}

// fileHeader builds a parsed multipart file the way fiber hands it to handlers.
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func newPhotoService(t *testing.T) (*service.PhotoService, *fakeMedia, *fakeArchive, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	media := &fakeMedia{}
	archive := &fakeArchive{objects: map[string][]byte{}}
	uploader := service.NewMediaService(media, archive, 1024, "dkl25", zap.NewNop())
	svc := service.NewPhotoService(repository.NewPhotoRepository(db), uploader, utils.NewValidator(), 2, zap.NewNop())
	return svc, media, archive, db
}

func TestPhotoUpload(t *testing.T) {
	ctx := context.Background()
	svc, media, archive, _ := newPhotoService(t)

	for name, testcase := range map[string]struct {
		file *multipart.FileHeader
		want error
	}{
		"unsupported type": {
			file: fileHeader(t, "notes.pdf", "application/pdf", []byte("%PDF")),
			want: utils.ErrUnsupportedMedia,
		},
		"too large": {
			file: fileHeader(t, "big.jpg", "image/jpeg", bytes.Repeat([]byte{1}, 2048)),
			want: utils.ErrInvalidInput,
		},
		"empty": {
			file: fileHeader(t, "empty.png", "image/png", nil),
			want: utils.ErrInvalidInput,
		},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upload(ctx, testcase.file, models.PhotoRequest{Title: "x"})
			assert.ErrorIs(t, err, testcase.want)
		})
	}
	assert.Zero(t, media.uploads)

	photo, err := svc.Upload(ctx, fileHeader(t, "Start Finish.JPG", "image/jpeg", []byte("jpeg")), models.PhotoRequest{Visible: true})
	require.NoError(t, err)
	assert.Equal(t, "Start Finish.JPG", photo.Title)
	assert.Equal(t, "dkl25/photos/start-finish.jpg-1", photo.PublicID)
	assert.Equal(t, 1, photo.OrderNumber)
	require.NotNil(t, photo.ThumbnailURL)
	assert.NotEmpty(t, photo.ArchiveKey)
	assert.Equal(t, []byte("jpeg"), archive.objects[photo.ArchiveKey])

	second, err := svc.Upload(ctx, fileHeader(t, "b.webp", "image/webp", []byte("webp")), models.PhotoRequest{Title: "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.OrderNumber)
	assert.False(t, second.Visible)

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, photo.ID, public[0].ID)
}

func TestPhotoBulkDeleteCleansUpAssets(t *testing.T) {
	ctx := context.Background()
	svc, media, archive, _ := newPhotoService(t)
	media.destroyErr = errors.New("cloudinary unavailable")

	var ids []string
	for i := 0; i < 3; i++ {
		p, err := svc.Upload(ctx, fileHeader(t, fmt.Sprintf("p%d.png", i), "image/png", []byte("png")), models.PhotoRequest{Title: "p"})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	_, err := svc.BulkDelete(ctx, nil)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = svc.BulkDelete(ctx, []string{ids[0], "missing"})
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.Empty(t, media.destroyed)

	// remote failures do not fail the delete
	res, err := svc.BulkDelete(ctx, ids[:2])
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Affected)
	assert.Len(t, media.destroyed, 2)
	assert.Len(t, archive.objects, 1)

	all, err := svc.ListAdmin(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, ids[2], all[0].ID)
}

func TestPhotoBulkVisibilityAndAlbums(t *testing.T) {
	ctx := context.Background()
	svc, _, _, db := newPhotoService(t)
	albums := service.NewAlbumService(repository.NewAlbumRepository(db), utils.NewValidator(), zap.NewNop())

	album, err := albums.Create(ctx, models.AlbumRequest{Title: "2024", Visible: true})
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 2; i++ {
		p, err := svc.Upload(ctx, fileHeader(t, "p.gif", "image/gif", []byte("gif")), models.PhotoRequest{Title: "p", Visible: true})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	res, err := svc.BulkSetVisibility(ctx, models.BulkVisibilityRequest{IDs: ids, Visible: false})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Affected)

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)

	res, err = svc.BulkAddToAlbum(ctx, models.BulkAlbumRequest{IDs: ids, AlbumID: album.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Affected)

	_, err = svc.BulkAddToAlbum(ctx, models.BulkAlbumRequest{IDs: ids})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	inAlbum, err := albums.Photos(ctx, album.ID, false)
	require.NoError(t, err)
	assert.Len(t, inAlbum, 2)

	require.NoError(t, albums.ReorderPhotos(ctx, album.ID, []models.OrderItem{{ID: ids[1], OrderNumber: 1}, {ID: ids[0], OrderNumber: 2}}))
	inAlbum, err = albums.Photos(ctx, album.ID, false)
	require.NoError(t, err)
	assert.Equal(t, ids[1], inAlbum[0].ID)

	err = albums.ReorderPhotos(ctx, album.ID, []models.OrderItem{{ID: ids[1], OrderNumber: 1}, {ID: ids[1], OrderNumber: 2}})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}
