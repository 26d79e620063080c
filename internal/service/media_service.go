package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/dkl25/admin-api/pkg/storage"
	"github.com/dkl25/admin-api/pkg/utils"
	"go.uber.org/zap"
)

var ErrMediaNotConfigured = errors.New("media uploads are not configured")

// UploadedImage is an image stored at the media host, optionally with its
// original archived in the bucket.
type UploadedImage struct {
	*storage.UploadResult
	ArchiveKey string `json:"-"`
}

// MediaService validates image uploads and sends them to the media host.
type MediaService struct {
	media   storage.MediaService
	archive storage.ObjectStore
	maxSize int64
	folder  string
	log     *zap.Logger
}

// NewMediaService builds the uploader. media and archive may be nil when
// the corresponding backend is not configured.
func NewMediaService(media storage.MediaService, archive storage.ObjectStore, maxSize int64, folder string, log *zap.Logger) *MediaService {
	return &MediaService{
		media:   media,
		archive: archive,
		maxSize: maxSize,
		folder:  folder,
		log:     log,
	}
}

// Validate checks type and size of an upload before anything is sent.
func (s *MediaService) Validate(file *multipart.FileHeader) error {
	if file == nil {
		return fmt.Errorf("%w: no file", utils.ErrInvalidInput)
	}
	contentType := file.Header.Get("Content-Type")
	if !utils.SupportedImageTypes[contentType] {
		return fmt.Errorf("%w: %q is not a supported image type", utils.ErrUnsupportedMedia, contentType)
	}
	if file.Size > s.maxSize {
		return fmt.Errorf("%w: file is %d bytes, limit is %d", utils.ErrInvalidInput, file.Size, s.maxSize)
	}
	if file.Size == 0 {
		return fmt.Errorf("%w: empty file", utils.ErrInvalidInput)
	}
	return nil
}

// Upload stores file under the given sub folder, e.g. "photos" or "sponsors".
func (s *MediaService) Upload(ctx context.Context, file *multipart.FileHeader, subfolder string) (*UploadedImage, error) {
	if err := s.Validate(file); err != nil {
		return nil, err
	}
	if s.media == nil {
		return nil, ErrMediaNotConfigured
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	folder := path.Join(s.folder, subfolder)
	res, err := s.media.Upload(ctx, src, utils.SafeFilename(file.Filename), folder)
	if err != nil {
		s.log.Error("image upload failed", zap.String("filename", file.Filename), zap.Error(err))
		return nil, err
	}

	img := &UploadedImage{UploadResult: res}
	if s.archive == nil {
		return img, nil
	}

	// The original is a courtesy copy; losing it does not fail the upload.
	key := path.Join("originals", subfolder, strings.ReplaceAll(res.PublicID, "/", "_")+"-"+utils.SafeFilename(file.Filename))
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		s.log.Warn("failed to rewind upload for archiving", zap.String("public_id", res.PublicID), zap.Error(err))
		return img, nil
	}
	if err := s.archive.Upload(ctx, key, src, file.Header.Get("Content-Type")); err != nil {
		s.log.Warn("failed to archive original", zap.String("key", key), zap.Error(err))
		return img, nil
	}
	img.ArchiveKey = key
	return img, nil
}

// Remove deletes the remote asset and its archived original. Failures are
// logged and returned.
func (s *MediaService) Remove(ctx context.Context, publicID, archiveKey string) error {
	var errs []error
	if s.media != nil && publicID != "" {
		if err := s.media.Destroy(ctx, publicID); err != nil {
			s.log.Warn("failed to destroy remote asset", zap.String("public_id", publicID), zap.Error(err))
			errs = append(errs, err)
		}
	}
	if s.archive != nil && archiveKey != "" {
		if err := s.archive.Delete(ctx, archiveKey); err != nil {
			s.log.Warn("failed to delete archived original", zap.String("key", archiveKey), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
