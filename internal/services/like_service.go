package services

import (
	"context"
	"time"

	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/observability"
	"github.com/studiostorm/server/internal/repository"
)

// LikeService orchestrates the idempotent like toggles. The ledger is the
// source of truth; the per-photo counter is a derived cache that only moves
// when the ledger reports an actual mutation. Under concurrent toggles for
// the same (photo, visitor) pair the store resolves the race, so the counter
// moves at most once per ledger change and repeating a toggle that already
// happened is a no-op for the count.
type LikeService struct {
	photoRepo       repository.PhotoRepo
	galleryRepo     repository.GalleryRepo
	likeRepo        repository.LikeRepo
	galleryLikeRepo repository.GalleryLikeRepo
}

// NewLikeService creates a new LikeService
func NewLikeService(
	photoRepo repository.PhotoRepo,
	galleryRepo repository.GalleryRepo,
	likeRepo repository.LikeRepo,
	galleryLikeRepo repository.GalleryLikeRepo,
) *LikeService {
	return &LikeService{
		photoRepo:       photoRepo,
		galleryRepo:     galleryRepo,
		likeRepo:        likeRepo,
		galleryLikeRepo: galleryLikeRepo,
	}
}

// TogglePhotoLike flips the visitor's like on a catalog photo and returns
// the resulting state read back from the store.
func (s *LikeService) TogglePhotoLike(ctx context.Context, photoID int64, visitor models.VisitorID) (*models.ToggleResult, error) {
	ctx, span := observability.StartServiceSpan(ctx, "like", "toggle_photo")
	defer span.End()
	span.SetAttributes(observability.PhotoID(photoID))

	result, err := s.togglePhotoLike(ctx, photoID, visitor)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	observability.SetSuccess(span)
	return result, nil
}

func (s *LikeService) togglePhotoLike(ctx context.Context, photoID int64, visitor models.VisitorID) (*models.ToggleResult, error) {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, models.ErrPhotoNotFound
	}

	liked, err := s.likeRepo.Exists(ctx, photoID, visitor)
	if err != nil {
		return nil, err
	}

	var isLiked bool
	if liked {
		changed, err := s.likeRepo.Delete(ctx, photoID, visitor)
		if err != nil {
			return nil, err
		}
		if changed {
			observability.AddEvent(ctx, "like.ledger_removed")
			if _, err := s.photoRepo.AdjustLikes(ctx, photoID, -1); err != nil {
				return nil, err
			}
		}
		isLiked = false
	} else {
		changed, err := s.likeRepo.Insert(ctx, photoID, visitor, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		if changed {
			observability.AddEvent(ctx, "like.ledger_recorded")
			if _, err := s.photoRepo.AdjustLikes(ctx, photoID, 1); err != nil {
				return nil, err
			}
		}
		isLiked = true
	}

	// Read back rather than compute: concurrent toggles may have moved the
	// counter since this request started.
	photo, err = s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, models.ErrPhotoNotFound
	}

	likes := photo.Likes
	if likes < 0 {
		likes = 0
	}

	return &models.ToggleResult{
		Likes:   likes,
		IsLiked: isLiked,
		PhotoID: photoID,
	}, nil
}

// ToggleGalleryPhotoLike flips the visitor's like on a photo inside a client
// gallery. The gallery is addressed by token and the photo must be a member
// of that gallery. Counters are scoped per gallery token.
func (s *LikeService) ToggleGalleryPhotoLike(ctx context.Context, token, photoID string, visitor models.VisitorID) (*models.GalleryToggleResult, error) {
	ctx, span := observability.StartServiceSpan(ctx, "like", "toggle_gallery_photo")
	defer span.End()
	span.SetAttributes(observability.GalleryPhotoID(photoID))

	result, err := s.toggleGalleryPhotoLike(ctx, token, photoID, visitor)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	observability.SetSuccess(span)
	return result, nil
}

func (s *LikeService) toggleGalleryPhotoLike(ctx context.Context, token, photoID string, visitor models.VisitorID) (*models.GalleryToggleResult, error) {
	gallery, err := s.galleryRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if gallery == nil {
		return nil, models.ErrGalleryNotFound
	}

	inGallery, err := s.galleryRepo.PhotoInGallery(ctx, token, photoID)
	if err != nil {
		return nil, err
	}
	if !inGallery {
		return nil, models.ErrGalleryPhotoNotFound
	}

	liked, err := s.galleryLikeRepo.Exists(ctx, token, photoID, visitor)
	if err != nil {
		return nil, err
	}

	var isLiked bool
	if liked {
		changed, err := s.galleryLikeRepo.Delete(ctx, token, photoID, visitor)
		if err != nil {
			return nil, err
		}
		if changed {
			observability.AddEvent(ctx, "like.ledger_removed")
			matched, err := s.galleryRepo.AdjustPhotoLikes(ctx, token, photoID, -1)
			if err != nil {
				return nil, err
			}
			if !matched {
				return nil, models.ErrGalleryPhotoUpdate
			}
		}
		isLiked = false
	} else {
		changed, err := s.galleryLikeRepo.Insert(ctx, token, photoID, visitor, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		if changed {
			observability.AddEvent(ctx, "like.ledger_recorded")
			matched, err := s.galleryRepo.AdjustPhotoLikes(ctx, token, photoID, 1)
			if err != nil {
				return nil, err
			}
			if !matched {
				return nil, models.ErrGalleryPhotoUpdate
			}
		}
		isLiked = true
	}

	photo, err := s.galleryRepo.GetPhoto(ctx, token, photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, models.ErrGalleryPhotoNotFound
	}

	likes := photo.Likes
	if likes < 0 {
		likes = 0
	}

	return &models.GalleryToggleResult{
		Likes:   likes,
		IsLiked: isLiked,
		PhotoID: models.NumericPhotoID(photoID),
	}, nil
}

// IsLiked reports the visitor's current like state for a catalog photo
func (s *LikeService) IsLiked(ctx context.Context, photoID int64, visitor models.VisitorID) (bool, error) {
	return s.likeRepo.Exists(ctx, photoID, visitor)
}

// IsGalleryPhotoLiked reports the visitor's current like state for a gallery photo
func (s *LikeService) IsGalleryPhotoLiked(ctx context.Context, token, photoID string, visitor models.VisitorID) (bool, error) {
	return s.galleryLikeRepo.Exists(ctx, token, photoID, visitor)
}
