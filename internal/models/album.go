package models

import (
	"regexp"
	"strings"
)

// Album represents a catalog album. Sub-albums reference their parent and
// carry a slug prefixed by the parent's slug by convention
// (e.g. "atletiek/bk-veldlopen-2025").
type Album struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	CoverPhotoID *int64 `json:"coverPhotoId,omitempty"`
	PhotoCount   int    `json:"photoCount"`
	ParentID     *int64 `json:"parentId,omitempty"`
}

// NewAlbum creates a new album with validation
func NewAlbum(name, slug string) (*Album, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrAlbumNameRequired
	}
	if slug == "" {
		slug = SanitizeSlug(name)
	}

	return &Album{
		Name: strings.TrimSpace(name),
		Slug: slug,
	}, nil
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeSlug converts a name into a URL-friendly slug segment
func SanitizeSlug(s string) string {
	s = strings.ToLower(s)
	s = slugInvalidChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > 100 {
		s = s[:100]
	}

	return s
}

// ChildSlug builds the slug for a sub-album under a parent
func ChildSlug(parentSlug, name string) string {
	return parentSlug + "/" + SanitizeSlug(name)
}

// Album errors
type AlbumError struct {
	Message string
}

func (e AlbumError) Error() string {
	return e.Message
}

var (
	ErrAlbumNameRequired  = AlbumError{"album name is required"}
	ErrAlbumNotFound      = AlbumError{"album not found"}
	ErrAlbumSlugExists    = AlbumError{"album slug already exists"}
	ErrAlbumParentMissing = AlbumError{"parent album does not exist"}
)
