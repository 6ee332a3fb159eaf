package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/observability"
	"github.com/studiostorm/server/internal/repository"
)

// Claims is the JWT claims structure for issued sessions
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles login and stateless JWT sessions
type AuthService struct {
	userRepo      repository.UserRepo
	secret        []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepo, secret string, tokenDurationHours int) *AuthService {
	if tokenDurationHours <= 0 {
		tokenDurationHours = 24
	}
	return &AuthService{
		userRepo:      userRepo,
		secret:        []byte(secret),
		tokenDuration: time.Duration(tokenDurationHours) * time.Hour,
	}
}

// Login verifies credentials and issues a signed token. Unknown usernames
// and wrong passwords report the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	ctx, span := observability.StartServiceSpan(ctx, "auth", "login")
	defer span.End()

	resp, err := s.login(ctx, username, password)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(observability.UserID(resp.User.ID))
	observability.SetSuccess(span)
	return resp, nil
}

func (s *AuthService) login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.VerifyPassword(password) {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token: token,
		User:  user.ToView(),
	}, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a token string
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// GetUser loads the account behind validated claims. Returns nil when the
// account no longer exists.
func (s *AuthService) GetUser(ctx context.Context, claims *Claims) (*models.User, error) {
	return s.userRepo.GetByID(ctx, claims.UserID)
}

// EnsureAdmin creates the bootstrap admin account when no admin exists yet.
// Returns true when an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	count, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	admin, err := models.NewUser(username, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := admin.SetPassword(password); err != nil {
		return false, err
	}

	if err := s.userRepo.Add(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}

// CreateClient registers a client account that galleries can be assigned to
func (s *AuthService) CreateClient(ctx context.Context, username, password string) (*models.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrUsernameExists
	}

	user, err := models.NewUser(username, models.RoleClient)
	if err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Add(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
