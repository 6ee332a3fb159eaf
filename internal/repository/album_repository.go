package repository

import (
	"context"
	"database/sql"

	"github.com/studiostorm/server/internal/models"
)

const albumColumns = `id, name, slug, description, cover_photo_id, photo_count, parent_id`

// AlbumRepository handles album persistence
type AlbumRepository struct {
	db *sql.DB
}

// NewAlbumRepository creates a new AlbumRepository
func NewAlbumRepository(db *sql.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

func scanAlbum(scanner interface{ Scan(dest ...any) error }) (*models.Album, error) {
	var album models.Album
	var coverPhotoID, parentID sql.NullInt64
	err := scanner.Scan(
		&album.ID,
		&album.Name,
		&album.Slug,
		&album.Description,
		&coverPhotoID,
		&album.PhotoCount,
		&parentID,
	)
	if err != nil {
		return nil, err
	}
	if coverPhotoID.Valid {
		album.CoverPhotoID = &coverPhotoID.Int64
	}
	if parentID.Valid {
		album.ParentID = &parentID.Int64
	}
	return &album, nil
}

// GetByID retrieves an album by its numeric ID
func (r *AlbumRepository) GetByID(ctx context.Context, id int64) (*models.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE id = $1`

	album, err := scanAlbum(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return album, nil
}

// GetBySlug retrieves an album by its slug. Nested slugs like
// "atletiek/bk-veldlopen-2025" are looked up verbatim.
func (r *AlbumRepository) GetBySlug(ctx context.Context, slug string) (*models.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE slug = $1`

	album, err := scanAlbum(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return album, nil
}

// GetAll retrieves every album
func (r *AlbumRepository) GetAll(ctx context.Context) ([]*models.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums ORDER BY id ASC`
	return r.queryAlbums(ctx, query)
}

// GetTopLevel retrieves albums without a parent
func (r *AlbumRepository) GetTopLevel(ctx context.Context) ([]*models.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE parent_id IS NULL ORDER BY id ASC`
	return r.queryAlbums(ctx, query)
}

// GetChildren retrieves the sub-albums of a parent
func (r *AlbumRepository) GetChildren(ctx context.Context, parentID int64) ([]*models.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE parent_id = $1 ORDER BY id ASC`
	return r.queryAlbums(ctx, query, parentID)
}

func (r *AlbumRepository) queryAlbums(ctx context.Context, query string, args ...any) ([]*models.Album, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	albums := []*models.Album{}
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}

// SlugExists checks whether a slug is already taken by another album
func (r *AlbumRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM albums WHERE slug = $1 AND id != $2)`
	err := r.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists)
	return exists, err
}

// Add inserts a new album, assigning the next numeric ID
func (r *AlbumRepository) Add(ctx context.Context, album *models.Album) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var nextID int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM albums`).Scan(&nextID); err != nil {
		return err
	}

	query := `
		INSERT INTO albums (id, name, slug, description, cover_photo_id, photo_count, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, query,
		nextID,
		album.Name,
		album.Slug,
		album.Description,
		album.CoverPhotoID,
		album.PhotoCount,
		album.ParentID,
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	album.ID = nextID
	return nil
}

// Update persists mutable album fields. Parent references are fixed at
// creation, so re-parenting is deliberately not supported here.
func (r *AlbumRepository) Update(ctx context.Context, album *models.Album) error {
	query := `
		UPDATE albums SET name = $1, slug = $2, description = $3,
			cover_photo_id = $4, photo_count = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query,
		album.Name,
		album.Slug,
		album.Description,
		album.CoverPhotoID,
		album.PhotoCount,
		album.ID,
	)
	return err
}

// Delete removes an album by ID. Photos in the album are left untouched.
func (r *AlbumRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
