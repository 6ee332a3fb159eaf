package repository

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteDB creates and initializes a SQLite database
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Create tables
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	schema := `
	-- Accounts: studio admins and clients that galleries can be assigned to
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'client',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);

	-- Public catalog photos
	CREATE TABLE IF NOT EXISTS photos (
		id INTEGER PRIMARY KEY,
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
		album_id INTEGER,
		width INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		is_featured INTEGER NOT NULL DEFAULT 0,
		likes INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_photos_album_id ON photos(album_id);
	CREATE INDEX IF NOT EXISTS idx_photos_featured ON photos(is_featured);

	-- Albums (sub-albums reference their parent; slug is globally unique)
	CREATE TABLE IF NOT EXISTS albums (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		cover_photo_id INTEGER,
		photo_count INTEGER NOT NULL DEFAULT 0,
		parent_id INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_albums_slug ON albums(slug);
	CREATE INDEX IF NOT EXISTS idx_albums_parent_id ON albums(parent_id);

	-- Partner organizations listed on the public site
	CREATE TABLE IF NOT EXISTS organizations (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		website TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	);

	-- Client delivery galleries, addressed publicly by token
	CREATE TABLE IF NOT EXISTS client_galleries (
		id TEXT PRIMARY KEY,
		client_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		token TEXT UNIQUE NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at DATETIME,
		password_hash TEXT NOT NULL DEFAULT '',
		assigned_user_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		allow_download INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_client_galleries_token ON client_galleries(token);
	CREATE INDEX IF NOT EXISTS idx_client_galleries_assigned ON client_galleries(assigned_user_id);

	-- Photos embedded in a client gallery. photo_id is TEXT: historical
	-- records carry mixed numeric/stringified ids.
	CREATE TABLE IF NOT EXISTS gallery_photos (
		gallery_id TEXT NOT NULL REFERENCES client_galleries(id) ON DELETE CASCADE,
		photo_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL,
		uploaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		likes INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (gallery_id, photo_id)
	);

	CREATE INDEX IF NOT EXISTS idx_gallery_photos_gallery_id ON gallery_photos(gallery_id);

	-- Like ledger for catalog photos. The primary key is the correctness
	-- mechanism: one row per (photo, visitor), enforced by the store.
	CREATE TABLE IF NOT EXISTS photo_likes (
		photo_id INTEGER NOT NULL,
		visitor TEXT NOT NULL,
		liked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (photo_id, visitor)
	);

	-- Like ledger for gallery photos, scoped per gallery token
	CREATE TABLE IF NOT EXISTS gallery_photo_likes (
		gallery_token TEXT NOT NULL,
		photo_id TEXT NOT NULL,
		visitor TEXT NOT NULL,
		liked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (gallery_token, photo_id, visitor)
	);
	`

	_, err := db.Exec(schema)
	return err
}
