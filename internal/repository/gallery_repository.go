package repository

import (
	"context"
	"database/sql"

	"github.com/studiostorm/server/internal/models"
)

const galleryColumns = `id, client_name, description, token, created_at, expires_at, password_hash, assigned_user_id, allow_download`

// GalleryRepository handles client gallery persistence. A gallery row and
// its gallery_photos rows together form one delivery document; loading a
// gallery always loads its photos in position order.
type GalleryRepository struct {
	db *sql.DB
}

// NewGalleryRepository creates a new GalleryRepository
func NewGalleryRepository(db *sql.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

func scanGallery(scanner interface{ Scan(dest ...any) error }) (*models.ClientGallery, error) {
	var gallery models.ClientGallery
	var expiresAt sql.NullTime
	var assignedUserID sql.NullString
	err := scanner.Scan(
		&gallery.ID,
		&gallery.ClientName,
		&gallery.Description,
		&gallery.Token,
		&gallery.CreatedAt,
		&expiresAt,
		&gallery.PasswordHash,
		&assignedUserID,
		&gallery.AllowDownload,
	)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		gallery.ExpiresAt = &t
	}
	if assignedUserID.Valid {
		s := assignedUserID.String
		gallery.AssignedUserID = &s
	}
	gallery.Photos = []models.GalleryPhoto{}
	return &gallery, nil
}

// Add inserts a new gallery together with any photos it already carries
func (r *GalleryRepository) Add(ctx context.Context, gallery *models.ClientGallery) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO client_galleries (` + galleryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.ExecContext(ctx, query,
		gallery.ID,
		gallery.ClientName,
		gallery.Description,
		gallery.Token,
		gallery.CreatedAt,
		gallery.ExpiresAt,
		gallery.PasswordHash,
		gallery.AssignedUserID,
		gallery.AllowDownload,
	)
	if err != nil {
		return err
	}

	for i := range gallery.Photos {
		if err := insertGalleryPhoto(ctx, tx, gallery.ID, &gallery.Photos[i], i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertGalleryPhoto(ctx context.Context, tx *sql.Tx, galleryID string, photo *models.GalleryPhoto, position int) error {
	query := `
		INSERT INTO gallery_photos (gallery_id, photo_id, title, description, image_url, uploaded_at, likes, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		galleryID,
		photo.ID,
		photo.Title,
		photo.Description,
		photo.ImageURL,
		photo.UploadedAt,
		photo.Likes,
		position,
	)
	return err
}

// GetByID retrieves a gallery (with its photos) by its internal ID
func (r *GalleryRepository) GetByID(ctx context.Context, id string) (*models.ClientGallery, error) {
	query := `SELECT ` + galleryColumns + ` FROM client_galleries WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByToken retrieves a gallery (with its photos) by its shareable token
func (r *GalleryRepository) GetByToken(ctx context.Context, token string) (*models.ClientGallery, error) {
	query := `SELECT ` + galleryColumns + ` FROM client_galleries WHERE token = $1`
	return r.getOne(ctx, query, token)
}

func (r *GalleryRepository) getOne(ctx context.Context, query string, arg any) (*models.ClientGallery, error) {
	gallery, err := scanGallery(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadPhotos(ctx, gallery); err != nil {
		return nil, err
	}
	return gallery, nil
}

func (r *GalleryRepository) loadPhotos(ctx context.Context, gallery *models.ClientGallery) error {
	query := `
		SELECT photo_id, title, description, image_url, uploaded_at, likes
		FROM gallery_photos WHERE gallery_id = $1 ORDER BY position ASC
	`
	rows, err := r.db.QueryContext(ctx, query, gallery.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var photo models.GalleryPhoto
		err := rows.Scan(
			&photo.ID,
			&photo.Title,
			&photo.Description,
			&photo.ImageURL,
			&photo.UploadedAt,
			&photo.Likes,
		)
		if err != nil {
			return err
		}
		gallery.Photos = append(gallery.Photos, photo)
	}
	return rows.Err()
}

// GetAll retrieves every gallery, newest first
func (r *GalleryRepository) GetAll(ctx context.Context) ([]*models.ClientGallery, error) {
	query := `SELECT ` + galleryColumns + ` FROM client_galleries ORDER BY created_at DESC`
	return r.queryGalleries(ctx, query)
}

// GetAssignedToUser retrieves the galleries assigned to a client account
func (r *GalleryRepository) GetAssignedToUser(ctx context.Context, userID string) ([]*models.ClientGallery, error) {
	query := `SELECT ` + galleryColumns + ` FROM client_galleries WHERE assigned_user_id = $1 ORDER BY created_at DESC`
	return r.queryGalleries(ctx, query, userID)
}

func (r *GalleryRepository) queryGalleries(ctx context.Context, query string, args ...any) ([]*models.ClientGallery, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	galleries := []*models.ClientGallery{}
	for rows.Next() {
		gallery, err := scanGallery(rows)
		if err != nil {
			return nil, err
		}
		galleries = append(galleries, gallery)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, gallery := range galleries {
		if err := r.loadPhotos(ctx, gallery); err != nil {
			return nil, err
		}
	}
	return galleries, nil
}

// Update persists gallery metadata. The token is immutable and embedded
// photos are managed through AppendPhoto and the likes operations.
func (r *GalleryRepository) Update(ctx context.Context, gallery *models.ClientGallery) error {
	query := `
		UPDATE client_galleries SET client_name = $1, description = $2,
			expires_at = $3, password_hash = $4, assigned_user_id = $5,
			allow_download = $6
		WHERE id = $7
	`
	_, err := r.db.ExecContext(ctx, query,
		gallery.ClientName,
		gallery.Description,
		gallery.ExpiresAt,
		gallery.PasswordHash,
		gallery.AssignedUserID,
		gallery.AllowDownload,
		gallery.ID,
	)
	return err
}

// Delete removes a gallery; its photos and ledger rows go with it
func (r *GalleryRepository) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var token string
	err = tx.QueryRowContext(ctx, `SELECT token FROM client_galleries WHERE id = $1`, id).Scan(&token)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM gallery_photo_likes WHERE gallery_token = $1`, token); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM client_galleries WHERE id = $1`, id); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// AppendPhoto adds a photo at the end of the gallery
func (r *GalleryRepository) AppendPhoto(ctx context.Context, galleryID string, photo *models.GalleryPhoto) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var position int
	query := `SELECT COALESCE(MAX(position), -1) + 1 FROM gallery_photos WHERE gallery_id = $1`
	if err := tx.QueryRowContext(ctx, query, galleryID).Scan(&position); err != nil {
		return err
	}

	if err := insertGalleryPhoto(ctx, tx, galleryID, photo, position); err != nil {
		return err
	}
	return tx.Commit()
}

// AdjustPhotoLikes moves one embedded photo's counter by delta, clamped at 0.
// The row is matched by the canonical numeric id first; if that misses, the
// raw string form is tried, so records written before id normalization still
// update. Returns false when neither form matched.
func (r *GalleryRepository) AdjustPhotoLikes(ctx context.Context, token, photoID string, delta int64) (bool, error) {
	canonical := models.CanonicalPhotoID(photoID)

	matched, err := r.adjustPhotoLikesExact(ctx, token, canonical, delta)
	if err != nil || matched {
		return matched, err
	}
	if canonical == photoID {
		return false, nil
	}
	return r.adjustPhotoLikesExact(ctx, token, photoID, delta)
}

func (r *GalleryRepository) adjustPhotoLikesExact(ctx context.Context, token, photoID string, delta int64) (bool, error) {
	query := `
		UPDATE gallery_photos
		SET likes = CASE WHEN likes + $1 < 0 THEN 0 ELSE likes + $1 END
		WHERE gallery_id = (SELECT id FROM client_galleries WHERE token = $2)
			AND photo_id = $3
	`
	result, err := r.db.ExecContext(ctx, query, delta, token, photoID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetPhoto reads one embedded photo, matching canonical then raw id.
// Returns nil when the photo is not in the gallery.
func (r *GalleryRepository) GetPhoto(ctx context.Context, token, photoID string) (*models.GalleryPhoto, error) {
	canonical := models.CanonicalPhotoID(photoID)

	photo, err := r.getPhotoExact(ctx, token, canonical)
	if err != nil || photo != nil {
		return photo, err
	}
	if canonical == photoID {
		return nil, nil
	}
	return r.getPhotoExact(ctx, token, photoID)
}

func (r *GalleryRepository) getPhotoExact(ctx context.Context, token, photoID string) (*models.GalleryPhoto, error) {
	query := `
		SELECT photo_id, title, description, image_url, uploaded_at, likes
		FROM gallery_photos
		WHERE gallery_id = (SELECT id FROM client_galleries WHERE token = $1)
			AND photo_id = $2
	`
	var photo models.GalleryPhoto
	err := r.db.QueryRowContext(ctx, query, token, photoID).Scan(
		&photo.ID,
		&photo.Title,
		&photo.Description,
		&photo.ImageURL,
		&photo.UploadedAt,
		&photo.Likes,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// PhotoInGallery reports membership, matching canonical then raw id
func (r *GalleryRepository) PhotoInGallery(ctx context.Context, token, photoID string) (bool, error) {
	photo, err := r.GetPhoto(ctx, token, photoID)
	if err != nil {
		return false, err
	}
	return photo != nil, nil
}

// SetPhotoLikes overwrites one embedded photo's counter. Used by the
// reconciliation pass that rebuilds counters from the ledger.
func (r *GalleryRepository) SetPhotoLikes(ctx context.Context, token, photoID string, likes int64) error {
	canonical := models.CanonicalPhotoID(photoID)

	query := `
		UPDATE gallery_photos SET likes = $1
		WHERE gallery_id = (SELECT id FROM client_galleries WHERE token = $2)
			AND photo_id = $3
	`
	result, err := r.db.ExecContext(ctx, query, likes, token, canonical)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		return nil
	}
	if canonical == photoID {
		return nil
	}
	_, err = r.db.ExecContext(ctx, query, likes, token, photoID)
	return err
}
