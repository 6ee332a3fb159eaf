package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/studiostorm/server/internal/middleware"
	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/observability"
	"github.com/studiostorm/server/internal/services"
)

// GalleryHandler handles the public client gallery endpoints. Galleries are
// addressed only by their opaque token; every route goes through the access
// policy before any content is returned.
type GalleryHandler struct {
	accessService  *services.AccessService
	galleryService *services.GalleryService
	likeService    *services.LikeService
	storageService *services.StorageService
	likeMetrics    *observability.LikeMetrics
}

// NewGalleryHandler creates a new GalleryHandler
func NewGalleryHandler(
	accessService *services.AccessService,
	galleryService *services.GalleryService,
	likeService *services.LikeService,
	storageService *services.StorageService,
	likeMetrics *observability.LikeMetrics,
) *GalleryHandler {
	return &GalleryHandler{
		accessService:  accessService,
		galleryService: galleryService,
		likeService:    likeService,
		storageService: storageService,
		likeMetrics:    likeMetrics,
	}
}

// writeAccessError maps access policy errors onto the response surface.
// Returns false when err was nil.
func writeAccessError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch err {
	case nil:
		return false
	case models.ErrGalleryNotFound:
		writeError(w, http.StatusNotFound, "Gallery not found")
	case models.ErrGalleryExpired:
		writeError(w, http.StatusGone, "This gallery has expired")
	case models.ErrGalleryPasswordRequired:
		writeJSON(w, http.StatusUnauthorized, models.PasswordRequiredResponse{
			Error:        "Password required",
			RequiresAuth: true,
		})
	case models.ErrGalleryPasswordIncorrect:
		writeError(w, http.StatusUnauthorized, "Incorrect password")
	default:
		observability.WithContext(r.Context()).Errorf("gallery access: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch gallery")
	}
	return true
}

// GetGallery returns a client gallery by token
// @Summary Get client gallery
// @Produce json
// @Param token path string true "Gallery token"
// @Param password query string false "Gallery password"
// @Success 200 {object} models.ClientGallery
// @Failure 401 {object} models.PasswordRequiredResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 410 {object} models.ErrorResponse
// @Router /api/galleries/{token} [get]
func (h *GalleryHandler) GetGallery(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	password := r.URL.Query().Get("password")
	user := middleware.GetUserFromContext(r.Context())

	gallery, err := h.accessService.Evaluate(r.Context(), token, password, user)
	if writeAccessError(w, r, err) {
		return
	}

	writeJSON(w, http.StatusOK, gallery)
}

// VerifyPassword checks a gallery password without returning content
// @Summary Verify gallery password
// @Accept json
// @Produce json
// @Param token path string true "Gallery token"
// @Success 200 {object} models.VerifyPasswordResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/galleries/{token}/verify-password [post]
func (h *GalleryHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req models.VerifyPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	valid, err := h.accessService.VerifyPassword(r.Context(), token, req.Password)
	if writeAccessError(w, r, err) {
		return
	}

	writeJSON(w, http.StatusOK, models.VerifyPasswordResponse{Valid: valid})
}

// ToggleLike flips the caller's like on a photo inside a gallery
// @Summary Toggle gallery photo like
// @Produce json
// @Param token path string true "Gallery token"
// @Param photoId path string true "Photo ID"
// @Success 200 {object} models.GalleryToggleResult
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.RateLimitedResponse
// @Router /api/galleries/{token}/photos/{photoId}/like [patch]
func (h *GalleryHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	photoID := chi.URLParam(r, "photoId")
	visitor := models.VisitorFromAddr(r.RemoteAddr)

	result, err := h.likeService.ToggleGalleryPhotoLike(r.Context(), token, photoID, visitor)
	if err != nil {
		switch err {
		case models.ErrGalleryNotFound:
			writeError(w, http.StatusNotFound, "Gallery not found")
		case models.ErrGalleryPhotoNotFound:
			writeError(w, http.StatusNotFound, "Photo not found in this gallery")
		default:
			observability.WithContext(r.Context()).Errorf("toggle gallery like %s/%s: %v", token, photoID, err)
			writeError(w, http.StatusInternalServerError, "Failed to update photo likes")
		}
		return
	}

	if h.likeMetrics != nil {
		h.likeMetrics.RecordToggle(r.Context(), "gallery", result.IsLiked)
	}
	writeJSON(w, http.StatusOK, result)
}

// DownloadPhoto serves a gallery photo as an attachment. The access policy
// applies, and the gallery must have downloads enabled.
func (h *GalleryHandler) DownloadPhoto(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	photoID := chi.URLParam(r, "photoId")
	password := r.URL.Query().Get("password")
	user := middleware.GetUserFromContext(r.Context())

	gallery, err := h.accessService.Evaluate(r.Context(), token, password, user)
	if writeAccessError(w, r, err) {
		return
	}

	if !gallery.AllowDownload {
		writeError(w, http.StatusForbidden, "Downloads are not enabled for this gallery")
		return
	}

	canonical := models.CanonicalPhotoID(photoID)
	var photo *models.GalleryPhoto
	for i := range gallery.Photos {
		if models.CanonicalPhotoID(gallery.Photos[i].ID) == canonical || gallery.Photos[i].ID == photoID {
			photo = &gallery.Photos[i]
			break
		}
	}
	if photo == nil {
		writeError(w, http.StatusNotFound, "Photo not found in this gallery")
		return
	}

	storedPath := strings.TrimPrefix(photo.ImageURL, "/uploads/")
	fullPath, err := h.storageService.Resolve(storedPath)
	if err != nil || !h.storageService.Exists(storedPath) {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(storedPath)))
	http.ServeFile(w, r, fullPath)
}

// ListClientGalleries returns the live galleries assigned to the
// authenticated account
func (h *GalleryHandler) ListClientGalleries(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	galleries, err := h.galleryService.GetAssignedToUser(r.Context(), user.ID)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("list galleries for user %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch galleries")
		return
	}
	writeJSON(w, http.StatusOK, galleries)
}
