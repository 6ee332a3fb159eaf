package models

import (
	"strings"
	"time"
)

// Photo represents a photo in the public catalog
type Photo struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	DateTaken    string    `json:"dateTaken"`
	Location     string    `json:"location"`
	CameraMake   string    `json:"cameraMake,omitempty"`
	CameraModel  string    `json:"cameraModel,omitempty"`
	Lens         string    `json:"lens,omitempty"`
	ISO          int       `json:"iso,omitempty"`
	Aperture     string    `json:"aperture,omitempty"`
	ShutterSpeed string    `json:"shutterSpeed,omitempty"`
	FocalLength  string    `json:"focalLength,omitempty"`
	AlbumID      *int64    `json:"albumId,omitempty"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	IsFeatured   bool      `json:"isFeatured"`
	Likes        int64     `json:"likes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewPhoto creates a new catalog photo with validation. The numeric ID is
// assigned by the repository at insert time.
func NewPhoto(title, imageURL string) (*Photo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrPhotoTitleRequired
	}
	if strings.TrimSpace(imageURL) == "" {
		return nil, ErrPhotoImageRequired
	}

	return &Photo{
		Title:     strings.TrimSpace(title),
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Photo errors
type PhotoError struct {
	Message string
}

func (e PhotoError) Error() string {
	return e.Message
}

var (
	ErrPhotoTitleRequired = PhotoError{"title is required"}
	ErrPhotoImageRequired = PhotoError{"image is required"}
	ErrPhotoNotFound      = PhotoError{"photo not found"}
	ErrInvalidExtension   = PhotoError{"file extension not allowed"}
	ErrFileTooLarge       = PhotoError{"file size exceeds maximum allowed"}
	ErrPathTraversal      = PhotoError{"invalid path - path traversal detected"}
)
