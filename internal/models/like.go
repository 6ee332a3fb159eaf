package models

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// VisitorID is the anonymous fingerprint used to deduplicate likes without
// requiring an account. It is currently derived from the request's source
// address; the type is opaque so a stronger fingerprint (signed cookie,
// device token) can be substituted without touching the ledger or the
// toggle contracts.
type VisitorID string

// VisitorFromAddr derives a VisitorID from an http RemoteAddr. Collisions
// behind shared NAT/proxy addresses are an accepted trade-off.
func VisitorFromAddr(remoteAddr string) VisitorID {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return VisitorID(host)
	}
	if remoteAddr == "" {
		return VisitorID("unknown")
	}
	return VisitorID(remoteAddr)
}

// LikeRecord marks that a visitor currently likes a catalog photo.
// Existence of the record is the source of truth; the photo's likes counter
// is a derived cache.
type LikeRecord struct {
	PhotoID int64     `json:"photoId"`
	Visitor VisitorID `json:"visitor"`
	LikedAt time.Time `json:"likedAt"`
}

// GalleryLikeRecord marks that a visitor currently likes a photo inside a
// specific client gallery. Scoped per gallery token.
type GalleryLikeRecord struct {
	GalleryToken string    `json:"galleryToken"`
	PhotoID      string    `json:"photoId"`
	Visitor      VisitorID `json:"visitor"`
	LikedAt      time.Time `json:"likedAt"`
}

// ToggleResult is the response shape of the catalog like toggle
type ToggleResult struct {
	Likes   int64 `json:"likes"`
	IsLiked bool  `json:"isLiked"`
	PhotoID int64 `json:"photoId"`
}

// GalleryToggleResult is the response shape of the gallery like toggle. The
// photo id is echoed back as a number; a legacy non-numeric id serializes
// as null.
type GalleryToggleResult struct {
	Likes   int64  `json:"likes"`
	IsLiked bool   `json:"isLiked"`
	PhotoID *int64 `json:"photoId"`
}

// NumericPhotoID parses a gallery photo id into its numeric response form.
// Returns nil for non-numeric legacy ids.
func NumericPhotoID(id string) *int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
