package models

import "time"

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// PasswordRequiredResponse is returned when a protected gallery is fetched
// without a password, so clients can show a password prompt rather than a
// generic error
type PasswordRequiredResponse struct {
	Error        string `json:"error"`
	RequiresAuth bool   `json:"requiresAuth"`
}

// RateLimitedResponse is returned when the like rate limit is exceeded
type RateLimitedResponse struct {
	Error      string `json:"error"`
	RetryAfter string `json:"retryAfter"`
}

// VerifyPasswordRequest is the body of the gallery password check
type VerifyPasswordRequest struct {
	Password string `json:"password"`
}

// VerifyPasswordResponse only reports validity, never gallery content
type VerifyPasswordResponse struct {
	Valid bool `json:"valid"`
}

// LoginRequest is the body of the login endpoint
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the safe user view
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// UserView is the safe response format (no password hash)
type UserView struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// ToView converts a User to its safe API form
func (u *User) ToView() UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

// CreateAlbumRequest is the admin album creation body
type CreateAlbumRequest struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	CoverPhotoID *int64 `json:"coverPhotoId"`
	ParentID     *int64 `json:"parentId"`
}

// UpdateAlbumRequest is the admin album update body (nil = unchanged)
type UpdateAlbumRequest struct {
	Name         *string `json:"name"`
	Slug         *string `json:"slug"`
	Description  *string `json:"description"`
	CoverPhotoID *int64  `json:"coverPhotoId"`
}

// UpdatePhotoRequest is the admin photo update body (nil = unchanged)
type UpdatePhotoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	AlbumID     *int64  `json:"albumId"`
	IsFeatured  *bool   `json:"isFeatured"`
}

// CreateGalleryRequest is the admin client-gallery creation body
type CreateGalleryRequest struct {
	ClientName  string `json:"clientName"`
	Description string `json:"description"`
}

// UpdateGalleryRequest is the admin client-gallery update body.
// Password semantics: nil = unchanged, "" = remove requirement,
// anything else = set.
type UpdateGalleryRequest struct {
	ClientName     *string    `json:"clientName"`
	Description    *string    `json:"description"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	ClearExpiry    bool       `json:"clearExpiry"`
	Password       *string    `json:"password"`
	AssignedUserID *string    `json:"assignedUserId"`
	ClearAssignee  bool       `json:"clearAssignee"`
	AllowDownload  *bool      `json:"allowDownload"`
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
