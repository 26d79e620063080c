package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/dkl25/admin-api/internal/config"
	"github.com/dkl25/admin-api/pkg/utils"
	"go.uber.org/zap"
)

// ThumbnailTransformation is inserted into delivery URLs to derive thumbnails.
const ThumbnailTransformation = "c_thumb,w_400,h_400,g_auto"

// CloudinaryUploader is the part of the cloudinary-go upload API this package uses.
type CloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type Cloudinary struct {
	uploader     CloudinaryUploader
	uploadPreset string
	log          *zap.Logger
}

func NewCloudinary(cfg config.CloudinaryConfig, log *zap.Logger) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return NewCloudinaryWithUploader(&cld.Upload, cfg.UploadPreset, log), nil
}

// NewCloudinaryWithUploader wraps an existing uploader, e.g. a fake in tests.
func NewCloudinaryWithUploader(up CloudinaryUploader, uploadPreset string, log *zap.Logger) *Cloudinary {
	return &Cloudinary{
		uploader:     up,
		uploadPreset: uploadPreset,
		log:          log,
	}
}

// Upload stores the file under folder. The public id is derived from the
// file name with a random suffix so re-uploads never overwrite.
func (c *Cloudinary) Upload(ctx context.Context, reader io.Reader, filename, folder string) (*UploadResult, error) {
	var buf bytes.Buffer
	size, err := io.Copy(&buf, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if size == 0 {
		return nil, errors.New("empty file, size is 0 bytes")
	}

	c.log.Debug("uploading to cloudinary", zap.String("filename", filename), zap.Int64("size", size))

	res, err := c.uploader.Upload(ctx, &buf, uploader.UploadParams{
		PublicID:     publicIDFor(filename),
		Folder:       folder,
		UploadPreset: c.uploadPreset,
		Overwrite:    api.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload failed: %s", res.Error.Message)
	}

	return &UploadResult{
		PublicID:     res.PublicID,
		SecureURL:    res.SecureURL,
		ThumbnailURL: ThumbnailURL(res.SecureURL),
		Width:        int(res.Width),
		Height:       int(res.Height),
		Format:       res.Format,
		Bytes:        int64(res.Bytes),
	}, nil
}

// Destroy removes an asset and invalidates cached copies.
func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	res, err := c.uploader.Destroy(ctx, uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy failed: %s", res.Error.Message)
	}
	// "not found" means it is already gone
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary destroy returned %q", res.Result)
	}
	return nil
}

func publicIDFor(filename string) string {
	name := utils.SafeFilename(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" {
		name = "upload"
	}
	return name + "_" + strings.ToLower(utils.GenerateRandomString(6))
}

// ThumbnailURL derives a thumbnail delivery URL from a secure_url.
func ThumbnailURL(secureURL string) string {
	const marker = "/upload/"
	i := strings.Index(secureURL, marker)
	if i < 0 {
		return secureURL
	}
	return secureURL[:i+len(marker)] + ThumbnailTransformation + "/" + secureURL[i+len(marker):]
}
