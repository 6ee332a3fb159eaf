package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/studiostorm/server/internal/models"
)

// LikeRepository is the like ledger for catalog photos. All uniqueness
// guarantees come from the (photo_id, visitor) primary key; two concurrent
// inserts for the same pair resolve in the store and exactly one caller
// sees changed=true.
type LikeRepository struct {
	db *sql.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *sql.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Insert records a like. Returns false when the pair already existed,
// including when a concurrent insert won the race.
func (r *LikeRepository) Insert(ctx context.Context, photoID int64, visitor models.VisitorID, likedAt time.Time) (bool, error) {
	query := `
		INSERT INTO photo_likes (photo_id, visitor, liked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (photo_id, visitor) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, photoID, string(visitor), likedAt)
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
func (r *LikeRepository) Delete(ctx context.Context, photoID int64, visitor models.VisitorID) (bool, error) {
	query := `DELETE FROM photo_likes WHERE photo_id = $1 AND visitor = $2`
	result, err := r.db.ExecContext(ctx, query, photoID, string(visitor))
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Exists reports whether the visitor currently likes the photo
func (r *LikeRepository) Exists(ctx context.Context, photoID int64, visitor models.VisitorID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM photo_likes WHERE photo_id = $1 AND visitor = $2)`
	err := r.db.QueryRowContext(ctx, query, photoID, string(visitor)).Scan(&exists)
	return exists, err
}

// CountForPhoto counts ledger rows for a photo. This is the authoritative
// value the derived counter is reconciled against.
func (r *LikeRepository) CountForPhoto(ctx context.Context, photoID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM photo_likes WHERE photo_id = $1`
	err := r.db.QueryRowContext(ctx, query, photoID).Scan(&count)
	return count, err
}
