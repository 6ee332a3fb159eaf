package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/observability"
	"github.com/studiostorm/server/internal/repository"
	"github.com/studiostorm/server/internal/services"
)

// PhotoHandler handles public catalog photo endpoints
type PhotoHandler struct {
	photoRepo   repository.PhotoRepo
	likeService *services.LikeService
	likeMetrics *observability.LikeMetrics
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(photoRepo repository.PhotoRepo, likeService *services.LikeService, likeMetrics *observability.LikeMetrics) *PhotoHandler {
	return &PhotoHandler{
		photoRepo:   photoRepo,
		likeService: likeService,
		likeMetrics: likeMetrics,
	}
}

func photoIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// ListPhotos returns every catalog photo
// @Summary List photos
// @Produce json
// @Success 200 {array} models.Photo
// @Router /api/photos [get]
func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.photoRepo.GetAll(r.Context())
	if err != nil {
		observability.WithContext(r.Context()).Errorf("list photos: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch photos")
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// GetPhoto returns a single photo by ID
// @Summary Get photo
// @Produce json
// @Param id path int true "Photo ID"
// @Success 200 {object} models.Photo
// @Failure 404 {object} models.ErrorResponse
// @Router /api/photos/{id} [get]
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := photoIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photo ID")
		return
	}

	photo, err := h.photoRepo.GetByID(r.Context(), id)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("get photo %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch photo")
		return
	}
	if photo == nil {
		writeError(w, http.StatusNotFound, "Photo not found")
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// ListFeatured returns featured photos ordered by popularity
// @Summary List featured photos
// @Produce json
// @Success 200 {array} models.Photo
// @Router /api/photos/featured/list [get]
func (h *PhotoHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	photos, err := h.photoRepo.GetFeatured(r.Context())
	if err != nil {
		observability.WithContext(r.Context()).Errorf("list featured photos: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch photos")
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// ToggleLike flips the caller's like on a catalog photo
// @Summary Toggle photo like
// @Produce json
// @Param id path int true "Photo ID"
// @Success 200 {object} models.ToggleResult
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.RateLimitedResponse
// @Router /api/photos/{id}/like [patch]
func (h *PhotoHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := photoIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photo ID")
		return
	}

	visitor := models.VisitorFromAddr(r.RemoteAddr)

	result, err := h.likeService.TogglePhotoLike(r.Context(), id, visitor)
	if err != nil {
		if err == models.ErrPhotoNotFound {
			writeError(w, http.StatusNotFound, "Photo not found")
			return
		}
		observability.WithContext(r.Context()).Errorf("toggle like photo %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update photo likes")
		return
	}

	if h.likeMetrics != nil {
		h.likeMetrics.RecordToggle(r.Context(), "catalog", result.IsLiked)
	}
	writeJSON(w, http.StatusOK, result)
}
