package services

import (
	"context"

	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/observability"
	"github.com/studiostorm/server/internal/repository"
)

// AccessService decides whether a request may open a client gallery.
//
// The checks run in a fixed order: existence, expiry, then credentials.
// Expiry is checked before any credential so an expired gallery reveals the
// same thing to everyone, including the assigned client.
type AccessService struct {
	galleryRepo repository.GalleryRepo
}

// NewAccessService creates a new AccessService
func NewAccessService(galleryRepo repository.GalleryRepo) *AccessService {
	return &AccessService{galleryRepo: galleryRepo}
}

// Evaluate resolves a gallery token against the supplied credentials and
// returns the gallery when access is granted. user is the authenticated
// account, if any; password is the ?password query value, possibly empty.
//
// Errors map onto the endpoint's status codes: ErrGalleryNotFound,
// ErrGalleryExpired, ErrGalleryPasswordRequired, ErrGalleryPasswordIncorrect.
func (s *AccessService) Evaluate(ctx context.Context, token, password string, user *models.User) (*models.ClientGallery, error) {
	ctx, span := observability.StartServiceSpan(ctx, "access", "evaluate")
	defer span.End()

	gallery, err := s.evaluate(ctx, token, password, user)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(observability.GalleryID(gallery.ID))
	observability.SetSuccess(span)
	return gallery, nil
}

func (s *AccessService) evaluate(ctx context.Context, token, password string, user *models.User) (*models.ClientGallery, error) {
	gallery, err := s.galleryRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if gallery == nil {
		return nil, models.ErrGalleryNotFound
	}

	if gallery.IsExpired() {
		return nil, models.ErrGalleryExpired
	}

	if !gallery.HasPassword() {
		return gallery, nil
	}

	// The assigned client account bypasses the password.
	if user != nil && gallery.IsAssignedTo(user.ID) {
		return gallery, nil
	}

	if password == "" {
		return nil, models.ErrGalleryPasswordRequired
	}
	if !gallery.VerifyPassword(password) {
		return nil, models.ErrGalleryPasswordIncorrect
	}

	return gallery, nil
}

// VerifyPassword checks a password against a live gallery without granting
// anything. Not-found and expired are reported the same way as Evaluate;
// a wrong password is a plain false, not an error.
func (s *AccessService) VerifyPassword(ctx context.Context, token, password string) (bool, error) {
	gallery, err := s.galleryRepo.GetByToken(ctx, token)
	if err != nil {
		return false, err
	}
	if gallery == nil {
		return false, models.ErrGalleryNotFound
	}

	if gallery.IsExpired() {
		return false, models.ErrGalleryExpired
	}

	if !gallery.HasPassword() {
		return true, nil
	}

	return gallery.VerifyPassword(password), nil
}
