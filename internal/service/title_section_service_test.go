package service_test

import (
	"context"
	"testing"

	"github.com/dkl25/admin-api/internal/repository"
	"github.com/dkl25/admin-api/internal/service"
	"github.com/dkl25/admin-api/internal/testutil"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTitleSectionService(t *testing.T) {
	ctx := context.Background()
	media := service.NewMediaService(&fakeMedia{}, nil, 1024, "dkl25", zap.NewNop())
	svc := service.NewTitleSectionService(repository.NewTitleSectionRepository(testutil.NewDB(t)), media, utils.NewValidator())

	section, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TitleSectionID, section.ID)

	subtitle := "Samen lopen"
	updated, err := svc.Update(ctx, models.TitleSectionRequest{
		Title:        "De Koninklijke Loop 2025",
		Subtitle:     &subtitle,
		EventDetails: []models.EventDetail{{Icon: "calendar", Title: "17 mei"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "De Koninklijke Loop 2025", updated.Title)

	_, err = svc.Update(ctx, models.TitleSectionRequest{Title: "x", EventDetails: []models.EventDetail{{Icon: ""}}})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	withImage, err := svc.UploadImage(ctx, fileHeader(t, "hero.jpg", "image/jpeg", []byte("jpeg")))
	require.NoError(t, err)
	require.NotNil(t, withImage.ImageURL)
	assert.Contains(t, *withImage.ImageURL, "dkl25/title/hero.jpg")

	stored, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.EventDetail{{Icon: "calendar", Title: "17 mei"}}, stored.EventDetails)
	assert.Equal(t, withImage.ImageURL, stored.ImageURL)
}
