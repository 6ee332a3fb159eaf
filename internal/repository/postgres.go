package repository

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// NewPostgresDB creates and initializes a PostgreSQL database connection
func NewPostgresDB(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Create tables
	if err := createPostgresTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createPostgresTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'client',
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);

	CREATE TABLE IF NOT EXISTS photos (
		id BIGINT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL,
		date_taken TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		camera_make TEXT NOT NULL DEFAULT '',
		camera_model TEXT NOT NULL DEFAULT '',
		lens TEXT NOT NULL DEFAULT '',
		iso INTEGER NOT NULL DEFAULT 0,
		aperture TEXT NOT NULL DEFAULT '',
		shutter_speed TEXT NOT NULL DEFAULT '',
		focal_length TEXT NOT NULL DEFAULT '',
		album_id BIGINT,
		width INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		is_featured BOOLEAN NOT NULL DEFAULT FALSE,
		likes BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_photos_album_id ON photos(album_id);
	CREATE INDEX IF NOT EXISTS idx_photos_featured ON photos(is_featured);

	CREATE TABLE IF NOT EXISTS albums (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		cover_photo_id BIGINT,
		photo_count INTEGER NOT NULL DEFAULT 0,
		parent_id BIGINT
	);

	CREATE INDEX IF NOT EXISTS idx_albums_slug ON albums(slug);
	CREATE INDEX IF NOT EXISTS idx_albums_parent_id ON albums(parent_id);

	CREATE TABLE IF NOT EXISTS organizations (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		website TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS client_galleries (
		id TEXT PRIMARY KEY,
		client_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		token TEXT UNIQUE NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMP,
		password_hash TEXT NOT NULL DEFAULT '',
		assigned_user_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		allow_download BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_client_galleries_token ON client_galleries(token);
	CREATE INDEX IF NOT EXISTS idx_client_galleries_assigned ON client_galleries(assigned_user_id);

	CREATE TABLE IF NOT EXISTS gallery_photos (
		gallery_id TEXT NOT NULL REFERENCES client_galleries(id) ON DELETE CASCADE,
		photo_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL,
		uploaded_at TIMESTAMP NOT NULL DEFAULT NOW(),
		likes BIGINT NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (gallery_id, photo_id)
	);

	CREATE INDEX IF NOT EXISTS idx_gallery_photos_gallery_id ON gallery_photos(gallery_id);

	CREATE TABLE IF NOT EXISTS photo_likes (
		photo_id BIGINT NOT NULL,
		visitor TEXT NOT NULL,
		liked_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (photo_id, visitor)
	);

	CREATE TABLE IF NOT EXISTS gallery_photo_likes (
		gallery_token TEXT NOT NULL,
		photo_id TEXT NOT NULL,
		visitor TEXT NOT NULL,
		liked_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (gallery_token, photo_id, visitor)
	);
	`

	_, err := db.Exec(schema)
	return err
}
