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

// AlbumHandler handles public album endpoints
type AlbumHandler struct {
	albumService *services.AlbumService
	albumRepo    repository.AlbumRepo
	photoRepo    repository.PhotoRepo
}

// NewAlbumHandler creates a new AlbumHandler
func NewAlbumHandler(albumService *services.AlbumService, albumRepo repository.AlbumRepo, photoRepo repository.PhotoRepo) *AlbumHandler {
	return &AlbumHandler{
		albumService: albumService,
		albumRepo:    albumRepo,
		photoRepo:    photoRepo,
	}
}

func albumIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// albumView is an album with its photos and sub-albums inlined, matching
// what the album page renders in one request
type albumView struct {
	*models.Album
	Photos    []*models.Photo `json:"photos"`
	SubAlbums []*models.Album `json:"subAlbums"`
}

// ListAlbums returns every album
func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albumService.GetAll(r.Context())
	if err != nil {
		observability.WithContext(r.Context()).Errorf("list albums: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch albums")
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// ListMainAlbums returns top-level albums only
func (h *AlbumHandler) ListMainAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albumService.GetTopLevel(r.Context())
	if err != nil {
		observability.WithContext(r.Context()).Errorf("list main albums: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch albums")
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// GetAlbum returns one album by numeric ID
func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := albumIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid album ID")
		return
	}

	album, err := h.albumService.GetByID(r.Context(), id)
	if err != nil {
		if err == models.ErrAlbumNotFound {
			writeError(w, http.StatusNotFound, "Album not found")
			return
		}
		observability.WithContext(r.Context()).Errorf("get album %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch album")
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// GetAlbumBySlug resolves a possibly nested slug ("parent/child") to an
// album with its photos and sub-albums
func (h *AlbumHandler) GetAlbumBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "*")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "Album slug required")
		return
	}

	album, photos, children, err := h.albumService.GetBySlug(r.Context(), slug)
	if err != nil {
		if err == models.ErrAlbumNotFound {
			writeError(w, http.StatusNotFound, "Album not found")
			return
		}
		observability.WithContext(r.Context()).Errorf("get album by slug %q: %v", slug, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch album")
		return
	}

	writeJSON(w, http.StatusOK, albumView{Album: album, Photos: photos, SubAlbums: children})
}

// ListSubAlbums returns the children of an album
func (h *AlbumHandler) ListSubAlbums(w http.ResponseWriter, r *http.Request) {
	id, ok := albumIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid album ID")
		return
	}

	children, err := h.albumRepo.GetChildren(r.Context(), id)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("list sub-albums of %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch albums")
		return
	}
	writeJSON(w, http.StatusOK, children)
}

// ListAlbumPhotos returns the photos in an album
func (h *AlbumHandler) ListAlbumPhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := albumIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid album ID")
		return
	}

	photos, err := h.photoRepo.GetByAlbum(r.Context(), id)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("list photos of album %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch photos")
		return
	}
	writeJSON(w, http.StatusOK, photos)
}
