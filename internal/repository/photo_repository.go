package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/studiostorm/server/internal/models"
)

const photoColumns = `id, title, description, image_url, date_taken, location,
	camera_make, camera_model, lens, iso, aperture, shutter_speed, focal_length,
	album_id, width, height, is_featured, likes, created_at`

// PhotoRepository handles catalog photo persistence
type PhotoRepository struct {
	db *sql.DB
}

// NewPhotoRepository creates a new PhotoRepository
func NewPhotoRepository(db *sql.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func scanPhoto(scanner interface{ Scan(dest ...any) error }) (*models.Photo, error) {
	var photo models.Photo
	var albumID sql.NullInt64
	err := scanner.Scan(
		&photo.ID,
		&photo.Title,
		&photo.Description,
		&photo.ImageURL,
		&photo.DateTaken,
		&photo.Location,
		&photo.CameraMake,
		&photo.CameraModel,
		&photo.Lens,
		&photo.ISO,
		&photo.Aperture,
		&photo.ShutterSpeed,
		&photo.FocalLength,
		&albumID,
		&photo.Width,
		&photo.Height,
		&photo.IsFeatured,
		&photo.Likes,
		&photo.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if albumID.Valid {
		photo.AlbumID = &albumID.Int64
	}
	return &photo, nil
}

// GetByID retrieves a photo by its numeric ID
func (r *PhotoRepository) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`

	photo, err := scanPhoto(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return photo, nil
}

// GetAll retrieves all catalog photos
func (r *PhotoRepository) GetAll(ctx context.Context) ([]*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos ORDER BY id ASC`
	return r.queryPhotos(ctx, query)
}

// GetFeatured retrieves featured photos, most liked first
func (r *PhotoRepository) GetFeatured(ctx context.Context) ([]*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE is_featured = TRUE ORDER BY likes DESC`
	return r.queryPhotos(ctx, query)
}

// GetByAlbum retrieves photos belonging to an album
func (r *PhotoRepository) GetByAlbum(ctx context.Context, albumID int64) ([]*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE album_id = $1 ORDER BY id ASC`
	return r.queryPhotos(ctx, query, albumID)
}

func (r *PhotoRepository) queryPhotos(ctx context.Context, query string, args ...any) ([]*models.Photo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := []*models.Photo{}
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

// Add inserts a new photo, assigning the next monotonic numeric ID
func (r *PhotoRepository) Add(ctx context.Context, photo *models.Photo) error {
	// The id is computed and inserted in a single statement so two
	// concurrent uploads cannot read the same MAX(id). A loser of that
	// race hits the primary key and retries with a fresh id.
	query := `
		INSERT INTO photos (id, title, description, image_url, date_taken, location,
			camera_make, camera_model, lens, iso, aperture, shutter_speed, focal_length,
			album_id, width, height, is_featured, likes, created_at)
		VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM photos),
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		var id int64
		err = r.db.QueryRowContext(ctx, query,
			photo.Title,
			photo.Description,
			photo.ImageURL,
			photo.DateTaken,
			photo.Location,
			photo.CameraMake,
			photo.CameraModel,
			photo.Lens,
			photo.ISO,
			photo.Aperture,
			photo.ShutterSpeed,
			photo.FocalLength,
			photo.AlbumID,
			photo.Width,
			photo.Height,
			photo.IsFeatured,
			photo.Likes,
			photo.CreatedAt,
		).Scan(&id)
		if err == nil {
			photo.ID = id
			return nil
		}
		if !isDuplicateKey(err) {
			return err
		}
	}
	return err
}

// isDuplicateKey matches the primary key violation text of both backends
func isDuplicateKey(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// Update persists mutable photo fields
func (r *PhotoRepository) Update(ctx context.Context, photo *models.Photo) error {
	query := `
		UPDATE photos SET title = $1, description = $2, location = $3,
			album_id = $4, is_featured = $5, date_taken = $6
		WHERE id = $7
	`
	_, err := r.db.ExecContext(ctx, query,
		photo.Title,
		photo.Description,
		photo.Location,
		photo.AlbumID,
		photo.IsFeatured,
		photo.DateTaken,
		photo.ID,
	)
	return err
}

// Delete removes a photo by ID
func (r *PhotoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// AdjustLikes moves the likes counter by delta, never letting it drop below
// zero. Returns false when the photo does not exist so callers can surface
// NotFound instead of a fabricated zero result.
func (r *PhotoRepository) AdjustLikes(ctx context.Context, id int64, delta int64) (bool, error) {
	query := `
		UPDATE photos
		SET likes = CASE WHEN likes + $1 < 0 THEN 0 ELSE likes + $1 END
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, delta, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SetLikes overwrites the counter, used by ledger reconciliation
func (r *PhotoRepository) SetLikes(ctx context.Context, id int64, likes int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE photos SET likes = $1 WHERE id = $2`, likes, id)
	return err
}
