package models

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ClientGallery is a private delivery gallery shared with a single client.
// It is addressed publicly by its opaque token, never by its internal ID.
type ClientGallery struct {
	ID             string         `json:"id"`
	ClientName     string         `json:"clientName"`
	Description    string         `json:"description"`
	Token          string         `json:"token"`
	Photos         []GalleryPhoto `json:"photos"`
	CreatedAt      time.Time      `json:"createdAt"`
	ExpiresAt      *time.Time     `json:"expiresAt,omitempty"`
	PasswordHash   string         `json:"-"` // never serialized
	AssignedUserID *string        `json:"assignedUserId,omitempty"`
	AllowDownload  bool           `json:"allowDownload"`
}

// GalleryPhoto is a photo embedded in a client gallery. Its likes counter is
// tracked per gallery: the same image delivered in two galleries has two
// independent counters.
//
// The ID is kept as a string because historical records carry a mix of
// numeric and stringified ids. New photos are always written with the
// canonical numeric form (see CanonicalPhotoID).
type GalleryPhoto struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Likes       int64     `json:"likes"`
}

// NewClientGallery creates a gallery with a freshly generated token
func NewClientGallery(clientName, description string) (*ClientGallery, error) {
	if strings.TrimSpace(clientName) == "" {
		return nil, ErrGalleryClientRequired
	}

	return &ClientGallery{
		ID:          uuid.New().String(),
		ClientName:  strings.TrimSpace(clientName),
		Description: description,
		Token:       GenerateGalleryToken(),
		Photos:      []GalleryPhoto{},
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// GenerateGalleryToken creates the opaque unguessable token used in shareable
// gallery URLs. Failure of the entropy source is unrecoverable.
func GenerateGalleryToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic("gallery token: entropy source exhausted: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}

// CanonicalPhotoID normalizes a gallery photo id to its canonical numeric
// form. Non-numeric ids are returned unchanged.
func CanonicalPhotoID(id string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return id
	}
	return strconv.FormatInt(n, 10)
}

// IsExpired reports whether the gallery is past its expiration timestamp.
// A gallery with no expiration never expires.
func (g *ClientGallery) IsExpired() bool {
	return g.ExpiresAt != nil && g.ExpiresAt.Before(time.Now().UTC())
}

// HasPassword reports whether access requires a password
func (g *ClientGallery) HasPassword() bool {
	return g.PasswordHash != ""
}

// SetPassword hashes and sets the gallery password using bcrypt (cost 12)
func (g *ClientGallery) SetPassword(password string) error {
	if len(password) < 4 {
		return ErrGalleryPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	g.PasswordHash = string(hash)
	return nil
}

// ClearPassword removes the password requirement
func (g *ClientGallery) ClearPassword() {
	g.PasswordHash = ""
}

// VerifyPassword checks a supplied password against the stored hash
// (constant-time via bcrypt)
func (g *ClientGallery) VerifyPassword(password string) bool {
	if g.PasswordHash == "" {
		return false
	}

	err := bcrypt.CompareHashAndPassword([]byte(g.PasswordHash), []byte(password))
	return err == nil
}

// IsAssignedTo reports whether the gallery is assigned to the given account
func (g *ClientGallery) IsAssignedTo(userID string) bool {
	return g.AssignedUserID != nil && userID != "" && *g.AssignedUserID == userID
}

// Gallery errors
type GalleryError struct {
	Message string
}

func (e GalleryError) Error() string {
	return e.Message
}

var (
	ErrGalleryNotFound          = GalleryError{"gallery not found"}
	ErrGalleryExpired           = GalleryError{"gallery has expired"}
	ErrGalleryPasswordRequired  = GalleryError{"password required"}
	ErrGalleryPasswordIncorrect = GalleryError{"incorrect password"}
	ErrGalleryClientRequired    = GalleryError{"client name is required"}
	ErrGalleryPasswordTooShort  = GalleryError{"gallery password must be at least 4 characters"}
	ErrGalleryPhotoNotFound     = GalleryError{"photo not found in this gallery"}
	ErrGalleryPhotoUpdate       = GalleryError{"failed to update photo likes"}
	ErrGalleryDownloadDenied    = GalleryError{"downloads are not enabled for this gallery"}
)
