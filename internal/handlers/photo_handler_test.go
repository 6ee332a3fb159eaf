package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/repository"
	"github.com/studiostorm/server/internal/services"
)

type stubPhotoRepo struct {
	repository.PhotoRepo
	photos map[int64]*models.Photo
}

func (s *stubPhotoRepo) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	p, ok := s.photos[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (s *stubPhotoRepo) AdjustLikes(ctx context.Context, id int64, delta int64) (bool, error) {
	p, ok := s.photos[id]
	if !ok {
		return false, nil
	}
	p.Likes += delta
	if p.Likes < 0 {
		p.Likes = 0
	}
	return true, nil
}

type stubLikeRepo struct {
	repository.LikeRepo
	liked map[string]bool
}

func (s *stubLikeRepo) key(photoID int64, visitor models.VisitorID) string {
	return strconv.FormatInt(photoID, 10) + "|" + string(visitor)
}

func (s *stubLikeRepo) Insert(ctx context.Context, photoID int64, visitor models.VisitorID, likedAt time.Time) (bool, error) {
	k := s.key(photoID, visitor)
	if s.liked[k] {
		return false, nil
	}
	s.liked[k] = true
	return true, nil
}

func (s *stubLikeRepo) Delete(ctx context.Context, photoID int64, visitor models.VisitorID) (bool, error) {
	k := s.key(photoID, visitor)
	if !s.liked[k] {
		return false, nil
	}
	delete(s.liked, k)
	return true, nil
}

func (s *stubLikeRepo) Exists(ctx context.Context, photoID int64, visitor models.VisitorID) (bool, error) {
	return s.liked[s.key(photoID, visitor)], nil
}

func newPhotoToggleRouter(photo *models.Photo) *chi.Mux {
	photoRepo := &stubPhotoRepo{photos: map[int64]*models.Photo{}}
	if photo != nil {
		photoRepo.photos[photo.ID] = photo
	}
	likeService := services.NewLikeService(photoRepo, nil, &stubLikeRepo{liked: map[string]bool{}}, nil)
	h := NewPhotoHandler(photoRepo, likeService, nil)

	router := chi.NewRouter()
	router.Patch("/api/photos/{id}/like", h.ToggleLike)
	return router
}

func TestPhotoHandler_ToggleLike(t *testing.T) {
	doPatch := func(router *chi.Mux, url string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, url, nil)
		req.RemoteAddr = "203.0.113.7:49152"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("toggle on then off", func(t *testing.T) {
		photo := &models.Photo{ID: 7, Title: "Golden Hour", ImageURL: "/uploads/2024/06/golden.jpg"}
		router := newPhotoToggleRouter(photo)

		rec := doPatch(router, "/api/photos/7/like")
		require.Equal(t, http.StatusOK, rec.Code)

		var result models.ToggleResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.IsLiked)
		assert.Equal(t, int64(1), result.Likes)
		assert.Equal(t, int64(7), result.PhotoID)

		rec = doPatch(router, "/api/photos/7/like")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.IsLiked)
		assert.Equal(t, int64(0), result.Likes)
	})

	t.Run("unknown photo is 404", func(t *testing.T) {
		router := newPhotoToggleRouter(nil)

		rec := doPatch(router, "/api/photos/999/like")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Photo not found", body.Error)
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		router := newPhotoToggleRouter(nil)

		rec := doPatch(router, "/api/photos/abc/like")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
