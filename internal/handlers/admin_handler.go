package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/observability"
	"github.com/studiostorm/server/internal/repository"
	"github.com/studiostorm/server/internal/services"
)

// AdminHandler handles the authenticated studio management endpoints:
// photo uploads, albums and client gallery administration.
type AdminHandler struct {
	photoRepo        repository.PhotoRepo
	albumService     *services.AlbumService
	galleryService   *services.GalleryService
	authService      *services.AuthService
	storageService   *services.StorageService
	exifService      *services.ExifService
	thumbnailService *services.ThumbnailService
	maxUploadBytes   int64
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	photoRepo repository.PhotoRepo,
	albumService *services.AlbumService,
	galleryService *services.GalleryService,
	authService *services.AuthService,
	storageService *services.StorageService,
	exifService *services.ExifService,
	thumbnailService *services.ThumbnailService,
	maxUploadMB int64,
) *AdminHandler {
	return &AdminHandler{
		photoRepo:        photoRepo,
		albumService:     albumService,
		galleryService:   galleryService,
		authService:      authService,
		storageService:   storageService,
		exifService:      exifService,
		thumbnailService: thumbnailService,
		maxUploadBytes:   maxUploadMB * 1024 * 1024,
	}
}

// readUpload pulls the "image" part out of a multipart form and returns its
// bytes and original filename
func (h *AdminHandler) readUpload(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, "", err
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		return nil, "", models.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, "", models.ErrFileTooLarge
	}
	return data, header.Filename, nil
}

func writeUploadError(w http.ResponseWriter, err error) {
	switch err {
	case models.ErrFileTooLarge:
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case models.ErrInvalidExtension, models.ErrPathTraversal:
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusBadRequest, "Invalid upload")
	}
}

// UploadPhoto accepts a multipart photo upload, extracts EXIF metadata,
// generates thumbnails and creates the catalog record
// @Summary Upload photo
// @Accept mpfd
// @Produce json
// @Success 201 {object} models.Photo
// @Failure 400 {object} models.ErrorResponse
// @Router /api/admin/photos [post]
func (h *AdminHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.readUpload(r)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	exifData := h.exifService.Extract(data)

	takenAt := time.Now().UTC()
	if exifData.DateTaken != nil {
		takenAt = *exifData.DateTaken
	}

	storedPath, err := h.storageService.Save(bytes.NewReader(data), filename, takenAt, int64(len(data)))
	if err != nil {
		writeUploadError(w, err)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	photo, err := models.NewPhoto(title, "/uploads/"+storedPath)
	if err != nil {
		h.storageService.Delete(storedPath)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	photo.Description = r.FormValue("description")
	photo.Location = r.FormValue("location")
	if albumID, err := strconv.ParseInt(r.FormValue("albumId"), 10, 64); err == nil {
		photo.AlbumID = &albumID
	}
	photo.IsFeatured = r.FormValue("isFeatured") == "true"
	exifData.ApplyTo(photo)

	if thumbs, err := h.thumbnailService.Generate(data, uuid.New().String(), storedPath, exifData.Orientation); err == nil {
		photo.Width = thumbs.Width
		photo.Height = thumbs.Height
	} else {
		observability.WithContext(r.Context()).Warnf("thumbnail generation for %s: %v", storedPath, err)
	}

	if err := h.photoRepo.Add(r.Context(), photo); err != nil {
		h.storageService.Delete(storedPath)
		observability.WithContext(r.Context()).Errorf("add photo: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save photo")
		return
	}

	if photo.AlbumID != nil {
		h.refreshAlbumCount(r, *photo.AlbumID)
	}

	writeJSON(w, http.StatusCreated, photo)
}

func (h *AdminHandler) refreshAlbumCount(r *http.Request, albumID int64) {
	if err := h.albumService.RefreshPhotoCount(r.Context(), albumID); err != nil {
		observability.WithContext(r.Context()).Warnf("refresh album %d photo count: %v", albumID, err)
	}
}

// UpdatePhoto patches photo metadata
func (h *AdminHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := photoIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid photo ID")
		return
	}

	var req models.UpdatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
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

	previousAlbum := photo.AlbumID

	if req.Title != nil {
		photo.Title = *req.Title
	}
	if req.Description != nil {
		photo.Description = *req.Description
	}
	if req.Location != nil {
		photo.Location = *req.Location
	}
	if req.AlbumID != nil {
		photo.AlbumID = req.AlbumID
	}
	if req.IsFeatured != nil {
		photo.IsFeatured = *req.IsFeatured
	}

	if err := h.photoRepo.Update(r.Context(), photo); err != nil {
		observability.WithContext(r.Context()).Errorf("update photo %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update photo")
		return
	}

	if previousAlbum != nil {
		h.refreshAlbumCount(r, *previousAlbum)
	}
	if photo.AlbumID != nil && (previousAlbum == nil || *photo.AlbumID != *previousAlbum) {
		h.refreshAlbumCount(r, *photo.AlbumID)
	}

	writeJSON(w, http.StatusOK, photo)
}

// DeletePhoto removes a photo and its stored file
func (h *AdminHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := h.photoRepo.Delete(r.Context(), id)
	if err != nil || !deleted {
		observability.WithContext(r.Context()).Errorf("delete photo %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete photo")
		return
	}

	h.storageService.Delete(strings.TrimPrefix(photo.ImageURL, "/uploads/"))

	if photo.AlbumID != nil {
		h.refreshAlbumCount(r, *photo.AlbumID)
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateAlbum creates an album (optionally nested under a parent)
func (h *AdminHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	album, err := h.albumService.Create(r.Context(), req)
	if err != nil {
		switch err {
		case models.ErrAlbumNameRequired, models.ErrAlbumParentMissing:
			writeError(w, http.StatusBadRequest, err.Error())
		case models.ErrAlbumSlugExists:
			writeError(w, http.StatusConflict, err.Error())
		default:
			observability.WithContext(r.Context()).Errorf("create album: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to create album")
		}
		return
	}

	writeJSON(w, http.StatusCreated, album)
}

// UpdateAlbum patches album metadata
func (h *AdminHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := albumIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid album ID")
		return
	}

	var req models.UpdateAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	album, err := h.albumService.Update(r.Context(), id, req)
	if err != nil {
		switch err {
		case models.ErrAlbumNotFound:
			writeError(w, http.StatusNotFound, "Album not found")
		case models.ErrAlbumNameRequired:
			writeError(w, http.StatusBadRequest, err.Error())
		case models.ErrAlbumSlugExists:
			writeError(w, http.StatusConflict, err.Error())
		default:
			observability.WithContext(r.Context()).Errorf("update album %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to update album")
		}
		return
	}

	writeJSON(w, http.StatusOK, album)
}

// DeleteAlbum removes an album
func (h *AdminHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := albumIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid album ID")
		return
	}

	if err := h.albumService.Delete(r.Context(), id); err != nil {
		if err == models.ErrAlbumNotFound {
			writeError(w, http.StatusNotFound, "Album not found")
			return
		}
		observability.WithContext(r.Context()).Errorf("delete album %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete album")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateGallery creates a client gallery with a fresh share token
func (h *AdminHandler) CreateGallery(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGalleryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	gallery, err := h.galleryService.Create(r.Context(), req)
	if err != nil {
		if err == models.ErrGalleryClientRequired {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		observability.WithContext(r.Context()).Errorf("create gallery: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create gallery")
		return
	}

	writeJSON(w, http.StatusCreated, gallery)
}

// ListGalleries returns every client gallery for the admin dashboard
func (h *AdminHandler) ListGalleries(w http.ResponseWriter, r *http.Request) {
	galleries, err := h.galleryService.GetAll(r.Context())
	if err != nil {
		observability.WithContext(r.Context()).Errorf("list galleries: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch galleries")
		return
	}
	writeJSON(w, http.StatusOK, galleries)
}

// GetGallery returns one client gallery by internal ID
func (h *AdminHandler) GetGallery(w http.ResponseWriter, r *http.Request) {
	gallery, err := h.galleryService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == models.ErrGalleryNotFound {
			writeError(w, http.StatusNotFound, "Gallery not found")
			return
		}
		observability.WithContext(r.Context()).Errorf("get gallery: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch gallery")
		return
	}
	writeJSON(w, http.StatusOK, gallery)
}

// UpdateGallery patches client gallery settings
func (h *AdminHandler) UpdateGallery(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateGalleryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	gallery, err := h.galleryService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		switch err {
		case models.ErrGalleryNotFound:
			writeError(w, http.StatusNotFound, "Gallery not found")
		case models.ErrGalleryPasswordTooShort:
			writeError(w, http.StatusBadRequest, err.Error())
		case models.ErrUserNotFound:
			writeError(w, http.StatusBadRequest, "Assigned user does not exist")
		default:
			observability.WithContext(r.Context()).Errorf("update gallery: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to update gallery")
		}
		return
	}

	writeJSON(w, http.StatusOK, gallery)
}

// DeleteGallery removes a client gallery
func (h *AdminHandler) DeleteGallery(w http.ResponseWriter, r *http.Request) {
	if err := h.galleryService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if err == models.ErrGalleryNotFound {
			writeError(w, http.StatusNotFound, "Gallery not found")
			return
		}
		observability.WithContext(r.Context()).Errorf("delete gallery: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete gallery")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadGalleryPhoto uploads an image straight into a client gallery
func (h *AdminHandler) UploadGalleryPhoto(w http.ResponseWriter, r *http.Request) {
	galleryID := chi.URLParam(r, "id")

	data, filename, err := h.readUpload(r)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	storedPath, err := h.storageService.Save(bytes.NewReader(data), filename, time.Now().UTC(), int64(len(data)))
	if err != nil {
		writeUploadError(w, err)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	photo, err := h.galleryService.AddPhoto(
		r.Context(),
		galleryID,
		r.FormValue("photoId"),
		title,
		r.FormValue("description"),
		"/uploads/"+storedPath,
	)
	if err != nil {
		h.storageService.Delete(storedPath)
		if err == models.ErrGalleryNotFound {
			writeError(w, http.StatusNotFound, "Gallery not found")
			return
		}
		observability.WithContext(r.Context()).Errorf("add gallery photo: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add photo")
		return
	}

	writeJSON(w, http.StatusCreated, photo)
}

// RecountGalleryLikes rebuilds a gallery's like counters from the ledger
func (h *AdminHandler) RecountGalleryLikes(w http.ResponseWriter, r *http.Request) {
	gallery, err := h.galleryService.RecountLikes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == models.ErrGalleryNotFound {
			writeError(w, http.StatusNotFound, "Gallery not found")
			return
		}
		observability.WithContext(r.Context()).Errorf("recount gallery likes: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to recount likes")
		return
	}
	writeJSON(w, http.StatusOK, gallery)
}

// CreateClientAccount registers a client login that galleries can be
// assigned to
func (h *AdminHandler) CreateClientAccount(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.CreateClient(r.Context(), req.Username, req.Password)
	if err != nil {
		switch err {
		case models.ErrUsernameExists:
			writeError(w, http.StatusConflict, err.Error())
		case models.ErrEmptyUsername, models.ErrPasswordTooShort:
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			observability.WithContext(r.Context()).Errorf("create client account: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to create account")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user.ToView())
}
