// Package core implements the protocol-agnostic business logic. Every
// service accepts a context, validates input, enforces ownership and
// returns models.AppError values the boundary can map to statuses.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"vidhub/internal/repository"
	"vidhub/pkg/blob"
	"vidhub/pkg/config"
	"vidhub/pkg/logger"
	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// AuthService handles account lifecycle and the access/refresh token
// pair. Exactly one refresh token is valid per user at any time.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest, avatarPath, coverPath string) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	// Refresh rotates the refresh token. Presenting a previously
	// rotated token fails and is treated as reuse.
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	// Logout revokes the stored refresh token. Idempotent.
	Logout(ctx context.Context, userID string) error
	// Authenticate resolves an access token to its user.
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)

	GetCurrentUser(ctx context.Context, userID string) (*models.User, error)
	ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error
	UpdateAccount(ctx context.Context, userID string, req models.UpdateAccountRequest) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarPath string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID, coverPath string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	blobs    blob.Store
	cfg      config.JWTConfig
}

// NewAuthService creates the authentication service.
func NewAuthService(userRepo repository.UserRepository, blobs blob.Store, cfg config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		blobs:    blobs,
		cfg:      cfg,
	}
}

type accessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest, avatarPath, coverPath string) (*models.User, error) {
	username := utils.NormalizeUsername(req.Username)
	email := utils.NormalizeEmail(req.Email)

	if err := utils.ValidateUsername(username); err != nil {
		return nil, models.NewInvalidInput("username must be 3-50 characters: lowercase letters, digits, underscore")
	}
	if err := utils.ValidateEmail(email); err != nil {
		return nil, models.NewInvalidInput("invalid email address")
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, models.NewInvalidInput("password must be at least 8 characters")
	}

	exists, err := s.userRepo.Exists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflict("user with email or username already exists", models.ErrUserExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternal("hash password", err)
	}

	user := &models.User{
		Username:      username,
		Email:         email,
		FullName:      req.FullName,
		PasswordHash:  string(hash),
		Notifications: models.DefaultNotificationSettings(),
	}

	var uploaded []models.MediaRef
	if avatarPath != "" {
		avatar, err := s.blobs.Upload(ctx, avatarPath, "avatars", "")
		if err != nil {
			return nil, models.NewInternal("upload avatar", err)
		}
		user.Avatar = avatar
		uploaded = append(uploaded, avatar)
	}
	if coverPath != "" {
		cover, err := s.blobs.Upload(ctx, coverPath, "covers", "")
		if err != nil {
			s.cleanupBlobs(uploaded)
			return nil, models.NewInternal("upload cover image", err)
		}
		user.CoverImage = cover
		uploaded = append(uploaded, cover)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.cleanupBlobs(uploaded)
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// cleanupBlobs compensates for a failed registration or upload. Errors
// are logged, not returned; the primary failure already surfaced.
func (s *authService) cleanupBlobs(refs []models.MediaRef) {
	ctx, cancel := utils.WithTimeout(context.Background())
	defer cancel()
	for _, ref := range refs {
		if ref.ID == "" {
			continue
		}
		if err := s.blobs.Delete(ctx, ref.ID); err != nil {
			logger.Warnf("orphaned blob %s: %v", ref.ID, err)
		}
	}
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case req.Username != "":
		user, err = s.userRepo.GetByUsername(ctx, utils.NormalizeUsername(req.Username))
	case req.Email != "":
		user, err = s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(req.Email))
	default:
		return nil, models.NewInvalidInput("username or email is required")
	}
	if err != nil {
		return nil, models.NewUnauthorized("invalid username or password", models.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.NewUnauthorized("invalid username or password", models.ErrInvalidCredentials)
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	user.RefreshToken = ""
	return &models.LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims := &refreshClaims{}
	if err := s.parseToken(refreshToken, claims, s.cfg.RefreshSecret); err != nil {
		return nil, models.NewUnauthorized("invalid or expired refresh token", models.ErrInvalidToken)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, models.NewUnauthorized("invalid or expired refresh token", models.ErrInvalidToken)
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	// The swap succeeds for exactly one caller holding this token.
	if err := s.userRepo.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	err := s.userRepo.SetRefreshToken(ctx, userID, "")
	if err != nil && models.StatusOf(err) == 404 {
		return nil
	}
	return err
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims := &accessClaims{}
	if err := s.parseToken(accessToken, claims, s.cfg.AccessSecret); err != nil {
		return nil, models.NewUnauthorized("invalid or expired token", models.ErrInvalidToken)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, models.NewUnauthorized("invalid or expired token", models.ErrInvalidToken)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	user.RefreshToken = ""
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return models.NewInvalidInput("invalid old password")
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return models.NewInvalidInput("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternal("hash password", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}

func (s *authService) UpdateAccount(ctx context.Context, userID string, req models.UpdateAccountRequest) (*models.User, error) {
	if req.FullName == nil && req.Email == nil {
		return nil, models.NewInvalidInput("nothing to update")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		email := utils.NormalizeEmail(*req.Email)
		if err := utils.ValidateEmail(email); err != nil {
			return nil, models.NewInvalidInput("invalid email address")
		}
		user.Email = email
	}

	if err := s.userRepo.UpdateAccount(ctx, user); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	user.RefreshToken = ""
	return user, nil
}

func (s *authService) UpdateAvatar(ctx context.Context, userID, avatarPath string) (*models.User, error) {
	if avatarPath == "" {
		return nil, models.NewInvalidInput("avatar file is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	avatar, err := s.blobs.Upload(ctx, avatarPath, "avatars", "")
	if err != nil {
		return nil, models.NewInternal("upload avatar", err)
	}

	old := user.Avatar
	if err := s.userRepo.UpdateAvatar(ctx, userID, avatar); err != nil {
		s.cleanupBlobs([]models.MediaRef{avatar})
		return nil, err
	}
	s.cleanupBlobs([]models.MediaRef{old})

	user.Avatar = avatar
	user.PasswordHash = ""
	user.RefreshToken = ""
	return user, nil
}

func (s *authService) UpdateCoverImage(ctx context.Context, userID, coverPath string) (*models.User, error) {
	if coverPath == "" {
		return nil, models.NewInvalidInput("cover image file is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cover, err := s.blobs.Upload(ctx, coverPath, "covers", "")
	if err != nil {
		return nil, models.NewInternal("upload cover image", err)
	}

	old := user.CoverImage
	if err := s.userRepo.UpdateCoverImage(ctx, userID, cover); err != nil {
		s.cleanupBlobs([]models.MediaRef{cover})
		return nil, err
	}
	s.cleanupBlobs([]models.MediaRef{old})

	user.CoverImage = cover
	user.PasswordHash = ""
	user.RefreshToken = ""
	return user, nil
}

func (s *authService) issueTokens(user *models.User) (*models.TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, &accessClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
		},
	})
	accessToken, err := access.SignedString([]byte(s.cfg.AccessSecret))
	if err != nil {
		return nil, models.NewInternal("sign access token", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, &refreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			ID:        utils.NewID("rt"),
		},
	})
	refreshToken, err := refresh.SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return nil, models.NewInternal("sign refresh token", err)
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *authService) parseToken(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return models.ErrInvalidToken
	}
	return nil
}
