package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/videotube/account-service/internal/domain"
	"github.com/videotube/account-service/internal/util"
	"github.com/videotube/account-service/pkg/jwt"
	"github.com/videotube/account-service/pkg/logger"
)

// accountService implements domain.AccountService using a UserRepository,
// an AssetStore and a TokenManager.
type accountService struct {
	repo         domain.UserRepository
	assets       domain.AssetStore
	TokenManager jwt.TokenManager
	accessTTL    time.Duration
	refreshTTL   time.Duration
	log          *logger.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo domain.UserRepository, assets domain.AssetStore, tokenManager jwt.TokenManager, accessTTL, refreshTTL time.Duration, log *logger.Logger) domain.AccountService {
	return &accountService{
		repo:         repo,
		assets:       assets,
		TokenManager: tokenManager,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		log:          log,
	}
}

// Register creates a new user account. The avatar upload must succeed; a
// failed cover image upload is tolerated and stored as empty.
func (s *accountService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if fullName == "" || email == "" || username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, domain.NewValidationError("all fields are required")
	}
	if req.AvatarLocalPath == "" {
		return nil, domain.NewValidationError("avatar file is required")
	}

	// Friendlier conflict message up front; the unique indexes on create are
	// the authoritative check.
	if existing, err := s.repo.GetByUsernameOrEmail(username, email); err == nil && existing != nil {
		return nil, domain.NewConflictError("user with email or username already exists")
	}

	avatar, err := s.assets.Upload(ctx, req.AvatarLocalPath)
	if err != nil || avatar == nil {
		return nil, domain.NewUploadError("failed to upload avatar")
	}
	coverURL := ""
	if cover, err := s.assets.Upload(ctx, req.CoverImageLocalPath); err == nil && cover != nil {
		coverURL = cover.URL
	}

	hashed, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}
	user := &domain.User{
		FullName:   fullName,
		Email:      email,
		Username:   username,
		Password:   hashed,
		Avatar:     avatar.URL,
		CoverImage: coverURL,
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.NewConflictError("user with email or username already exists")
		}
		return nil, domain.NewInternalError("something went wrong while registering user", err)
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Login authenticates a user by username or email and issues a token pair.
func (s *accountService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, domain.NewValidationError("username or email is required")
	}
	user, err := s.repo.GetByUsernameOrEmail(username, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewNotFoundError("user does not exist")
		}
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if err := util.CheckPassword(user.Password, req.Password); err != nil {
		return nil, domain.NewUnauthorizedError("invalid user credentials")
	}

	access, refresh, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &domain.LoginResponse{User: sanitized, AccessToken: access, RefreshToken: refresh}, nil
}

// Logout clears the stored refresh token. Logging out an already logged-out
// user succeeds silently.
func (s *accountService) Logout(userID uint) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return domain.NewInternalError("failed to look up user", err)
	}
	if user.RefreshToken != "" {
		_ = s.TokenManager.RevokeRefreshToken(user.RefreshToken)
	}
	if err := s.repo.UpdateRefreshToken(userID, ""); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return domain.NewInternalError("failed to clear session", err)
	}
	return nil
}

// Refresh exchanges a valid refresh token for a new token pair, rotating the
// stored token. Every failure surfaces uniformly as Unauthorized so callers
// cannot distinguish signature, expiry and reuse cases.
func (s *accountService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.NewUnauthorizedError("unauthorized request")
	}
	claims, err := s.TokenManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.NewUnauthorizedError("invalid refresh token")
	}
	user, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		return nil, domain.NewUnauthorizedError("invalid refresh token")
	}
	if refreshToken != user.RefreshToken {
		// Cryptographically valid but superseded: reuse of a rotated token.
		return nil, domain.NewUnauthorizedError("refresh token is expired or used")
	}

	access, refresh, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}
	_ = s.TokenManager.RevokeRefreshToken(refreshToken)
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ChangePassword verifies the old password and persists a new hash.
func (s *accountService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return domain.NewInternalError("failed to look up user", err)
	}
	if err := util.CheckPassword(user.Password, oldPassword); err != nil {
		return domain.NewUnauthorizedError("invalid old password")
	}
	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		return domain.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(userID, hashed); err != nil {
		return domain.NewInternalError("failed to update password", err)
	}
	return nil
}

// GetUserByID retrieves a sanitized user by ID.
func (s *accountService) GetUserByID(id uint) (*domain.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewNotFoundError("user does not exist")
		}
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// UpdateAccount updates fullName and email.
func (s *accountService) UpdateAccount(userID uint, req domain.UpdateAccountRequest) (*domain.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" {
		return nil, domain.NewValidationError("all fields are required")
	}
	if err := s.repo.UpdateAccount(userID, fullName, email); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.NewConflictError("email already in use")
		}
		return nil, domain.NewInternalError("failed to update account details", err)
	}
	return s.GetUserByID(userID)
}

// UpdateAvatar replaces the user's avatar: the new asset is uploaded and
// persisted first, then the previous one is deleted best-effort.
func (s *accountService) UpdateAvatar(ctx context.Context, userID uint, localPath string) (*domain.User, error) {
	return s.replaceImage(ctx, userID, localPath, "avatar")
}

// UpdateCoverImage replaces the user's cover image with the same ordering as
// UpdateAvatar.
func (s *accountService) UpdateCoverImage(ctx context.Context, userID uint, localPath string) (*domain.User, error) {
	return s.replaceImage(ctx, userID, localPath, "cover image")
}

func (s *accountService) replaceImage(ctx context.Context, userID uint, localPath, kind string) (*domain.User, error) {
	if localPath == "" {
		return nil, domain.NewValidationError(kind + " file is missing")
	}
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	oldURL := user.Avatar
	if kind == "cover image" {
		oldURL = user.CoverImage
	}

	ref, err := s.assets.Upload(ctx, localPath)
	if err != nil || ref == nil || ref.URL == "" {
		return nil, domain.NewUploadError("error while uploading " + kind)
	}
	if kind == "cover image" {
		err = s.repo.UpdateCoverImage(userID, ref.URL)
		user.CoverImage = ref.URL
	} else {
		err = s.repo.UpdateAvatar(userID, ref.URL)
		user.Avatar = ref.URL
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to update "+kind, err)
	}

	// Delete the replaced asset only after the new one is confirmed stored.
	if oldURL != "" {
		if err := s.assets.Delete(ctx, oldURL); err != nil {
			s.log.Warn("failed to delete old " + kind + ": " + err.Error())
		}
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// GetChannelProfile returns the public channel view of a user.
func (s *accountService) GetChannelProfile(username string) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, domain.NewValidationError("username is required")
	}
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewNotFoundError("channel does not exist")
		}
		return nil, domain.NewInternalError("failed to look up channel", err)
	}
	return &domain.ChannelProfile{
		Username:   user.Username,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
	}, nil
}

// GetWatchHistory returns the user's ordered watch history.
func (s *accountService) GetWatchHistory(userID uint) (domain.WatchHistory, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewNotFoundError("user does not exist")
		}
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if user.WatchHistory == nil {
		return domain.WatchHistory{}, nil
	}
	return user.WatchHistory, nil
}

// issueTokenPair mints both tokens and persists the refresh token on the
// user record, overwriting any previous session token.
func (s *accountService) issueTokenPair(user *domain.User) (string, string, error) {
	access, err := s.TokenManager.GenerateAccessToken(jwt.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
	}, s.accessTTL)
	if err != nil {
		return "", "", domain.NewInternalError("something went wrong while generating tokens", err)
	}
	refresh, err := s.TokenManager.GenerateRefreshToken(user.ID, s.refreshTTL)
	if err != nil {
		return "", "", domain.NewInternalError("something went wrong while generating tokens", err)
	}
	if err := s.repo.UpdateRefreshToken(user.ID, refresh); err != nil {
		return "", "", domain.NewInternalError("something went wrong while generating tokens", err)
	}
	user.RefreshToken = refresh
	return access, refresh, nil
}
