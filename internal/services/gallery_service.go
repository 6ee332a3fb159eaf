package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/observability"
	"github.com/studiostorm/server/internal/repository"
)

// GalleryService manages client delivery galleries
type GalleryService struct {
	galleryRepo     repository.GalleryRepo
	galleryLikeRepo repository.GalleryLikeRepo
	userRepo        repository.UserRepo
}

// NewGalleryService creates a new GalleryService
func NewGalleryService(
	galleryRepo repository.GalleryRepo,
	galleryLikeRepo repository.GalleryLikeRepo,
	userRepo repository.UserRepo,
) *GalleryService {
	return &GalleryService{
		galleryRepo:     galleryRepo,
		galleryLikeRepo: galleryLikeRepo,
		userRepo:        userRepo,
	}
}

// Create builds a gallery with a fresh token and persists it
func (s *GalleryService) Create(ctx context.Context, req models.CreateGalleryRequest) (*models.ClientGallery, error) {
	gallery, err := models.NewClientGallery(req.ClientName, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.galleryRepo.Add(ctx, gallery); err != nil {
		return nil, err
	}
	return gallery, nil
}

// GetAll returns every gallery, newest first
func (s *GalleryService) GetAll(ctx context.Context) ([]*models.ClientGallery, error) {
	return s.galleryRepo.GetAll(ctx)
}

// GetByID returns one gallery or ErrGalleryNotFound
func (s *GalleryService) GetByID(ctx context.Context, id string) (*models.ClientGallery, error) {
	gallery, err := s.galleryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gallery == nil {
		return nil, models.ErrGalleryNotFound
	}
	return gallery, nil
}

// GetAssignedToUser returns the live (non-expired) galleries assigned to a
// client account, for the client portal listing.
func (s *GalleryService) GetAssignedToUser(ctx context.Context, userID string) ([]*models.ClientGallery, error) {
	galleries, err := s.galleryRepo.GetAssignedToUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	live := []*models.ClientGallery{}
	for _, gallery := range galleries {
		if !gallery.IsExpired() {
			live = append(live, gallery)
		}
	}
	return live, nil
}

// Update applies an admin gallery update. The token never changes.
func (s *GalleryService) Update(ctx context.Context, id string, req models.UpdateGalleryRequest) (*models.ClientGallery, error) {
	gallery, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClientName != nil {
		gallery.ClientName = *req.ClientName
	}
	if req.Description != nil {
		gallery.Description = *req.Description
	}

	if req.ClearExpiry {
		gallery.ExpiresAt = nil
	} else if req.ExpiresAt != nil {
		t := req.ExpiresAt.UTC()
		gallery.ExpiresAt = &t
	}

	if req.Password != nil {
		if *req.Password == "" {
			gallery.ClearPassword()
		} else if err := gallery.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	if req.ClearAssignee {
		gallery.AssignedUserID = nil
	} else if req.AssignedUserID != nil {
		user, err := s.userRepo.GetByID(ctx, *req.AssignedUserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, models.ErrUserNotFound
		}
		gallery.AssignedUserID = req.AssignedUserID
	}

	if req.AllowDownload != nil {
		gallery.AllowDownload = *req.AllowDownload
	}

	if err := s.galleryRepo.Update(ctx, gallery); err != nil {
		return nil, err
	}
	return gallery, nil
}

// Delete removes a gallery and its like ledger
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	deleted, err := s.galleryRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.ErrGalleryNotFound
	}
	return nil
}

// AddPhoto appends a photo to a gallery. The id is stored in canonical
// numeric form so new records never depend on the lookup fallback. When the
// caller supplies no id one is generated from the upload timestamp.
func (s *GalleryService) AddPhoto(ctx context.Context, galleryID, photoID, title, description, imageURL string) (*models.GalleryPhoto, error) {
	gallery, err := s.GetByID(ctx, galleryID)
	if err != nil {
		return nil, err
	}

	id := models.CanonicalPhotoID(photoID)
	if strings.TrimSpace(id) == "" {
		id = generatePhotoID(gallery, time.Now().UnixMilli())
	}

	photo := &models.GalleryPhoto{
		ID:          id,
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		UploadedAt:  time.Now().UTC(),
		Likes:       0,
	}

	if err := s.galleryRepo.AppendPhoto(ctx, gallery.ID, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// generatePhotoID produces an epoch-millisecond id, bumped past any id the
// gallery already holds so rapid consecutive uploads cannot collide
func generatePhotoID(gallery *models.ClientGallery, millis int64) string {
	taken := make(map[string]bool, len(gallery.Photos))
	for i := range gallery.Photos {
		taken[models.CanonicalPhotoID(gallery.Photos[i].ID)] = true
	}

	id := millis
	for taken[strconv.FormatInt(id, 10)] {
		id++
	}
	return strconv.FormatInt(id, 10)
}

// RecountLikes rebuilds every embedded photo counter in a gallery from the
// like ledger. Maintenance operation for counters that drifted under
// partial failures.
func (s *GalleryService) RecountLikes(ctx context.Context, id string) (*models.ClientGallery, error) {
	ctx, span := observability.StartServiceSpan(ctx, "gallery", "recount_likes")
	defer span.End()
	span.SetAttributes(observability.GalleryID(id), observability.Operation("recount"))

	gallery, err := s.recountLikes(ctx, id)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	observability.SetSuccess(span)
	return gallery, nil
}

func (s *GalleryService) recountLikes(ctx context.Context, id string) (*models.ClientGallery, error) {
	gallery, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range gallery.Photos {
		count, err := s.galleryLikeRepo.CountForPhoto(ctx, gallery.Token, gallery.Photos[i].ID)
		if err != nil {
			return nil, err
		}
		if err := s.galleryRepo.SetPhotoLikes(ctx, gallery.Token, gallery.Photos[i].ID, count); err != nil {
			return nil, err
		}
		gallery.Photos[i].Likes = count
	}
	return gallery, nil
}
