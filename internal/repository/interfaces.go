package repository

import (
	"context"
	"time"

	"github.com/studiostorm/server/internal/models"
)

// PhotoRepo defines persistence operations for catalog photos
type PhotoRepo interface {
	GetByID(ctx context.Context, id int64) (*models.Photo, error)
	GetAll(ctx context.Context) ([]*models.Photo, error)
	GetFeatured(ctx context.Context) ([]*models.Photo, error)
	GetByAlbum(ctx context.Context, albumID int64) ([]*models.Photo, error)
	Add(ctx context.Context, photo *models.Photo) error
	Update(ctx context.Context, photo *models.Photo) error
	Delete(ctx context.Context, id int64) (bool, error)
	// AdjustLikes moves the derived likes counter by delta, clamped at 0.
	// Returns false if the photo does not exist.
	AdjustLikes(ctx context.Context, id int64, delta int64) (bool, error)
	SetLikes(ctx context.Context, id int64, likes int64) error
}

// AlbumRepo defines persistence operations for albums
type AlbumRepo interface {
	GetByID(ctx context.Context, id int64) (*models.Album, error)
	GetBySlug(ctx context.Context, slug string) (*models.Album, error)
	GetAll(ctx context.Context) ([]*models.Album, error)
	GetTopLevel(ctx context.Context) ([]*models.Album, error)
	GetChildren(ctx context.Context, parentID int64) ([]*models.Album, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Add(ctx context.Context, album *models.Album) error
	Update(ctx context.Context, album *models.Album) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// GalleryRepo defines persistence operations for client galleries and their
// embedded photos
type GalleryRepo interface {
	Add(ctx context.Context, gallery *models.ClientGallery) error
	GetByID(ctx context.Context, id string) (*models.ClientGallery, error)
	GetByToken(ctx context.Context, token string) (*models.ClientGallery, error)
	GetAll(ctx context.Context) ([]*models.ClientGallery, error)
	GetAssignedToUser(ctx context.Context, userID string) ([]*models.ClientGallery, error)
	Update(ctx context.Context, gallery *models.ClientGallery) error
	Delete(ctx context.Context, id string) (bool, error)
	AppendPhoto(ctx context.Context, galleryID string, photo *models.GalleryPhoto) error
	// AdjustPhotoLikes is the positional update: it mutates exactly the one
	// embedded photo matching (token, photoID), clamped at 0. The match is
	// attempted with the canonical numeric id first and retried with the raw
	// string form. Returns false when neither matched a row.
	AdjustPhotoLikes(ctx context.Context, token, photoID string, delta int64) (bool, error)
	GetPhoto(ctx context.Context, token, photoID string) (*models.GalleryPhoto, error)
	PhotoInGallery(ctx context.Context, token, photoID string) (bool, error)
	SetPhotoLikes(ctx context.Context, token, photoID string, likes int64) error
}

// LikeRepo is the like ledger for catalog photos. Uniqueness per
// (photo, visitor) is enforced by the store, not the application.
type LikeRepo interface {
	// Insert records a like. Returns false when the pair already exists
	// (including when a concurrent insert won the race).
	Insert(ctx context.Context, photoID int64, visitor models.VisitorID, likedAt time.Time) (bool, error)
	// Delete removes a like. Returns false when no record existed.
	Delete(ctx context.Context, photoID int64, visitor models.VisitorID) (bool, error)
	Exists(ctx context.Context, photoID int64, visitor models.VisitorID) (bool, error)
	CountForPhoto(ctx context.Context, photoID int64) (int64, error)
}

// GalleryLikeRepo is the like ledger for gallery photos, keyed per gallery
// token so counters in different galleries stay independent
type GalleryLikeRepo interface {
	Insert(ctx context.Context, token, photoID string, visitor models.VisitorID, likedAt time.Time) (bool, error)
	Delete(ctx context.Context, token, photoID string, visitor models.VisitorID) (bool, error)
	Exists(ctx context.Context, token, photoID string, visitor models.VisitorID) (bool, error)
	CountForPhoto(ctx context.Context, token, photoID string) (int64, error)
}

// OrganizationRepo defines persistence operations for partner organizations
type OrganizationRepo interface {
	GetAll(ctx context.Context) ([]*models.Organization, error)
}

// UserRepo defines persistence operations for accounts
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
	CountAdmins(ctx context.Context) (int, error)
}
