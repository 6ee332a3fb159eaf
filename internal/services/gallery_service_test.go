package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiostorm/server/internal/models"
)

func newTestGalleryService() (*GalleryService, *fakeGalleryRepo) {
	galleryRepo := newFakeGalleryRepo()
	return NewGalleryService(galleryRepo, newFakeGalleryLikeRepo(), newFakeUserRepo()), galleryRepo
}

func TestGalleryService_AddPhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a supplied id in canonical form", func(t *testing.T) {
		svc, galleryRepo := newTestGalleryService()
		gallery := seedGallery(t, galleryRepo)

		photo, err := svc.AddPhoto(ctx, gallery.ID, "007", "Cake", "", "/uploads/galleries/7.jpg")

		require.NoError(t, err)
		assert.Equal(t, "7", photo.ID)
	})

	t.Run("generates a numeric id when none is supplied", func(t *testing.T) {
		svc, galleryRepo := newTestGalleryService()
		gallery := seedGallery(t, galleryRepo)

		photo, err := svc.AddPhoto(ctx, gallery.ID, "", "Cake", "", "/uploads/galleries/cake.jpg")

		require.NoError(t, err)
		require.NotEmpty(t, photo.ID)
		_, parseErr := strconv.ParseInt(photo.ID, 10, 64)
		assert.NoError(t, parseErr)

		stored, err := galleryRepo.GetPhoto(ctx, gallery.Token, photo.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Cake", stored.Title)
	})

	t.Run("consecutive generated ids never collide", func(t *testing.T) {
		svc, galleryRepo := newTestGalleryService()
		gallery := seedGallery(t, galleryRepo)

		seen := make(map[string]bool)
		for i := 0; i < 5; i++ {
			photo, err := svc.AddPhoto(ctx, gallery.ID, "", "Shot", "", "/uploads/galleries/shot.jpg")
			require.NoError(t, err)
			assert.False(t, seen[photo.ID], "id %s assigned twice", photo.ID)
			seen[photo.ID] = true
		}
	})

	t.Run("unknown gallery", func(t *testing.T) {
		svc, _ := newTestGalleryService()

		_, err := svc.AddPhoto(ctx, "missing", "1", "Cake", "", "/uploads/x.jpg")
		assert.ErrorIs(t, err, models.ErrGalleryNotFound)
	})
}

func TestGeneratePhotoID(t *testing.T) {
	t.Run("uses the timestamp when free", func(t *testing.T) {
		gallery := &models.ClientGallery{}
		assert.Equal(t, "1700000000000", generatePhotoID(gallery, 1700000000000))
	})

	t.Run("bumps past taken ids", func(t *testing.T) {
		gallery := &models.ClientGallery{Photos: []models.GalleryPhoto{
			{ID: "1700000000000"},
			{ID: "1700000000001"},
		}}
		assert.Equal(t, "1700000000002", generatePhotoID(gallery, 1700000000000))
	})

	t.Run("matches taken ids canonically", func(t *testing.T) {
		gallery := &models.ClientGallery{Photos: []models.GalleryPhoto{
			{ID: "01700000000000"},
		}}
		assert.Equal(t, "1700000000001", generatePhotoID(gallery, 1700000000000))
	})
}
