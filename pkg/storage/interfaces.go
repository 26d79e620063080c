package storage

import (
	"context"
	"io"
)

// UploadResult describes an asset stored at the media host.
type UploadResult struct {
	PublicID     string `json:"public_id"`
	SecureURL    string `json:"secure_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Format       string `json:"format"`
	Bytes        int64  `json:"bytes"`
}

type MediaService interface {
	Upload(ctx context.Context, reader io.Reader, filename, folder string) (*UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

type ObjectStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
}
