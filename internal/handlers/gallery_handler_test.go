package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/repository"
	"github.com/studiostorm/server/internal/services"
)

// stubGalleryRepo satisfies repository.GalleryRepo through the embedded
// interface; only the methods the public gallery surface touches are
// implemented. Anything else panics, which is what we want in a test.
type stubGalleryRepo struct {
	repository.GalleryRepo
	galleries []*models.ClientGallery
}

func (s *stubGalleryRepo) GetByToken(ctx context.Context, token string) (*models.ClientGallery, error) {
	for _, g := range s.galleries {
		if g.Token == token {
			return g, nil
		}
	}
	return nil, nil
}

func (s *stubGalleryRepo) findPhoto(token, photoID string) *models.GalleryPhoto {
	g, _ := s.GetByToken(context.Background(), token)
	if g == nil {
		return nil
	}
	canonical := models.CanonicalPhotoID(photoID)
	for i := range g.Photos {
		if models.CanonicalPhotoID(g.Photos[i].ID) == canonical || g.Photos[i].ID == photoID {
			return &g.Photos[i]
		}
	}
	return nil
}

func (s *stubGalleryRepo) PhotoInGallery(ctx context.Context, token, photoID string) (bool, error) {
	return s.findPhoto(token, photoID) != nil, nil
}

func (s *stubGalleryRepo) GetPhoto(ctx context.Context, token, photoID string) (*models.GalleryPhoto, error) {
	p := s.findPhoto(token, photoID)
	if p == nil {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (s *stubGalleryRepo) AdjustPhotoLikes(ctx context.Context, token, photoID string, delta int64) (bool, error) {
	p := s.findPhoto(token, photoID)
	if p == nil {
		return false, nil
	}
	p.Likes += delta
	if p.Likes < 0 {
		p.Likes = 0
	}
	return true, nil
}

type stubGalleryLikeRepo struct {
	repository.GalleryLikeRepo
	liked map[string]bool
}

func newStubGalleryLikeRepo() *stubGalleryLikeRepo {
	return &stubGalleryLikeRepo{liked: make(map[string]bool)}
}

func (s *stubGalleryLikeRepo) key(token, photoID string, visitor models.VisitorID) string {
	return token + "|" + models.CanonicalPhotoID(photoID) + "|" + string(visitor)
}

func (s *stubGalleryLikeRepo) Insert(ctx context.Context, token, photoID string, visitor models.VisitorID, likedAt time.Time) (bool, error) {
	k := s.key(token, photoID, visitor)
	if s.liked[k] {
		return false, nil
	}
	s.liked[k] = true
	return true, nil
}

func (s *stubGalleryLikeRepo) Delete(ctx context.Context, token, photoID string, visitor models.VisitorID) (bool, error) {
	k := s.key(token, photoID, visitor)
	if !s.liked[k] {
		return false, nil
	}
	delete(s.liked, k)
	return true, nil
}

func (s *stubGalleryLikeRepo) Exists(ctx context.Context, token, photoID string, visitor models.VisitorID) (bool, error) {
	return s.liked[s.key(token, photoID, visitor)], nil
}

type galleryFixture struct {
	router  *chi.Mux
	gallery *models.ClientGallery
	baseDir string
}

func newGalleryFixture(t *testing.T, mutate func(*models.ClientGallery)) *galleryFixture {
	t.Helper()

	gallery, err := models.NewClientGallery("Smith Wedding", "Full ceremony set")
	require.NoError(t, err)
	gallery.Photos = []models.GalleryPhoto{
		{ID: "101", Title: "First Dance", ImageURL: "/uploads/galleries/101.jpg"},
		{ID: "102", Title: "Cake", ImageURL: "/uploads/galleries/102.jpg"},
	}
	if mutate != nil {
		mutate(gallery)
	}

	galleryRepo := &stubGalleryRepo{galleries: []*models.ClientGallery{gallery}}
	likeRepo := newStubGalleryLikeRepo()

	baseDir, err := os.MkdirTemp("", "studiostorm-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(baseDir) })

	storageService, err := services.NewStorageService(baseDir, nil, 50)
	require.NoError(t, err)

	accessService := services.NewAccessService(galleryRepo)
	galleryService := services.NewGalleryService(galleryRepo, likeRepo, nil)
	likeService := services.NewLikeService(nil, galleryRepo, nil, likeRepo)

	h := NewGalleryHandler(accessService, galleryService, likeService, storageService, nil)

	router := chi.NewRouter()
	router.Get("/api/galleries/{token}", h.GetGallery)
	router.Post("/api/galleries/{token}/verify-password", h.VerifyPassword)
	router.Patch("/api/galleries/{token}/photos/{photoId}/like", h.ToggleLike)
	router.Get("/api/galleries/{token}/photos/{photoId}/download", h.DownloadPhoto)

	return &galleryFixture{router: router, gallery: gallery, baseDir: baseDir}
}

func (f *galleryFixture) do(method, url, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	req.RemoteAddr = "203.0.113.7:49152"
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestGalleryHandler_GetGallery(t *testing.T) {
	t.Run("open gallery returns content", func(t *testing.T) {
		f := newGalleryFixture(t, nil)

		rec := f.do(http.MethodGet, "/api/galleries/"+f.gallery.Token, "")

		assert.Equal(t, http.StatusOK, rec.Code)

		var got models.ClientGallery
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Smith Wedding", got.ClientName)
		assert.Len(t, got.Photos, 2)
	})

	t.Run("unknown token is 404", func(t *testing.T) {
		f := newGalleryFixture(t, nil)

		rec := f.do(http.MethodGet, "/api/galleries/deadbeef", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Gallery not found", body.Error)
	})

	t.Run("expired gallery is 410", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Hour)
		f := newGalleryFixture(t, func(g *models.ClientGallery) {
			g.ExpiresAt = &past
		})

		rec := f.do(http.MethodGet, "/api/galleries/"+f.gallery.Token, "")

		assert.Equal(t, http.StatusGone, rec.Code)
		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "This gallery has expired", body.Error)
	})

	t.Run("password gallery without password is 401 with requiresAuth", func(t *testing.T) {
		f := newGalleryFixture(t, func(g *models.ClientGallery) {
			require.NoError(t, g.SetPassword("sunset2024"))
		})

		rec := f.do(http.MethodGet, "/api/galleries/"+f.gallery.Token, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body models.PasswordRequiredResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Password required", body.Error)
		assert.True(t, body.RequiresAuth)
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		f := newGalleryFixture(t, func(g *models.ClientGallery) {
			require.NoError(t, g.SetPassword("sunset2024"))
		})

		rec := f.do(http.MethodGet, "/api/galleries/"+f.gallery.Token+"?password=wrong", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Incorrect password", body.Error)
	})

	t.Run("correct password unlocks the gallery", func(t *testing.T) {
		f := newGalleryFixture(t, func(g *models.ClientGallery) {
			require.NoError(t, g.SetPassword("sunset2024"))
		})

		rec := f.do(http.MethodGet, "/api/galleries/"+f.gallery.Token+"?password=sunset2024", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGalleryHandler_VerifyPassword(t *testing.T) {
	t.Run("right and wrong password", func(t *testing.T) {
		f := newGalleryFixture(t, func(g *models.ClientGallery) {
			require.NoError(t, g.SetPassword("sunset2024"))
		})
		url := "/api/galleries/" + f.gallery.Token + "/verify-password"

		rec := f.do(http.MethodPost, url, `{"password":"sunset2024"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		var body models.VerifyPasswordResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Valid)

		rec = f.do(http.MethodPost, url, `{"password":"nope"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Valid)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		f := newGalleryFixture(t, nil)

		rec := f.do(http.MethodPost, "/api/galleries/"+f.gallery.Token+"/verify-password", "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGalleryHandler_ToggleLike(t *testing.T) {
	t.Run("toggle on then off", func(t *testing.T) {
		f := newGalleryFixture(t, nil)
		url := "/api/galleries/" + f.gallery.Token + "/photos/101/like"

		rec := f.do(http.MethodPatch, url, "")
		require.Equal(t, http.StatusOK, rec.Code)

		// photoId must be a JSON number, same as the catalog toggle.
		assert.Contains(t, rec.Body.String(), `"photoId":101`)

		var result models.GalleryToggleResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.IsLiked)
		assert.Equal(t, int64(1), result.Likes)
		require.NotNil(t, result.PhotoID)
		assert.Equal(t, int64(101), *result.PhotoID)

		rec = f.do(http.MethodPatch, url, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.IsLiked)
		assert.Equal(t, int64(0), result.Likes)
	})

	t.Run("unknown gallery is 404", func(t *testing.T) {
		f := newGalleryFixture(t, nil)

		rec := f.do(http.MethodPatch, "/api/galleries/deadbeef/photos/101/like", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Gallery not found", body.Error)
	})

	t.Run("photo outside the gallery is 404", func(t *testing.T) {
		f := newGalleryFixture(t, nil)

		rec := f.do(http.MethodPatch, "/api/galleries/"+f.gallery.Token+"/photos/999/like", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Photo not found in this gallery", body.Error)
	})
}

func TestGalleryHandler_DownloadPhoto(t *testing.T) {
	t.Run("downloads disabled is 403", func(t *testing.T) {
		f := newGalleryFixture(t, nil)

		rec := f.do(http.MethodGet, "/api/galleries/"+f.gallery.Token+"/photos/101/download", "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("serves the stored file as an attachment", func(t *testing.T) {
		f := newGalleryFixture(t, func(g *models.ClientGallery) {
			g.AllowDownload = true
		})

		require.NoError(t, os.MkdirAll(filepath.Join(f.baseDir, "galleries"), 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(f.baseDir, "galleries", "101.jpg"),
			[]byte("jpeg bytes"), 0o644,
		))

		rec := f.do(http.MethodGet, "/api/galleries/"+f.gallery.Token+"/photos/101/download", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "101.jpg")
		assert.Equal(t, "jpeg bytes", rec.Body.String())
	})

	t.Run("missing file is 404", func(t *testing.T) {
		f := newGalleryFixture(t, func(g *models.ClientGallery) {
			g.AllowDownload = true
		})

		rec := f.do(http.MethodGet, "/api/galleries/"+f.gallery.Token+"/photos/102/download", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
