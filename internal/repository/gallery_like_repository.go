package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/studiostorm/server/internal/models"
)

// GalleryLikeRepository is the like ledger for gallery photos, keyed by
// gallery token so the same photo delivered in two galleries keeps two
// independent sets of likes.
type GalleryLikeRepository struct {
	db *sql.DB
}

// NewGalleryLikeRepository creates a new GalleryLikeRepository
func NewGalleryLikeRepository(db *sql.DB) *GalleryLikeRepository {
	return &GalleryLikeRepository{db: db}
}

// Insert records a like. Returns false when the pair already existed,
// including when a concurrent insert won the race.
func (r *GalleryLikeRepository) Insert(ctx context.Context, token, photoID string, visitor models.VisitorID, likedAt time.Time) (bool, error) {
	query := `
		INSERT INTO gallery_photo_likes (gallery_token, photo_id, visitor, liked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (gallery_token, photo_id, visitor) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, token, models.CanonicalPhotoID(photoID), string(visitor), likedAt)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes a like. Returns false when no record existed.
func (r *GalleryLikeRepository) Delete(ctx context.Context, token, photoID string, visitor models.VisitorID) (bool, error) {
	query := `DELETE FROM gallery_photo_likes WHERE gallery_token = $1 AND photo_id = $2 AND visitor = $3`
	result, err := r.db.ExecContext(ctx, query, token, models.CanonicalPhotoID(photoID), string(visitor))
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Exists reports whether the visitor currently likes the photo in this gallery
func (r *GalleryLikeRepository) Exists(ctx context.Context, token, photoID string, visitor models.VisitorID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM gallery_photo_likes WHERE gallery_token = $1 AND photo_id = $2 AND visitor = $3)`
	err := r.db.QueryRowContext(ctx, query, token, models.CanonicalPhotoID(photoID), string(visitor)).Scan(&exists)
	return exists, err
}

// CountForPhoto counts ledger rows for one photo in one gallery
func (r *GalleryLikeRepository) CountForPhoto(ctx context.Context, token, photoID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM gallery_photo_likes WHERE gallery_token = $1 AND photo_id = $2`
	err := r.db.QueryRowContext(ctx, query, token, models.CanonicalPhotoID(photoID)).Scan(&count)
	return count, err
}
