package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// User is the persisted account record. Password and RefreshToken are never
// serialized; every user that leaves the API is sanitized by construction.
type User struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Username     string       `json:"username" gorm:"uniqueIndex;not null"`
	Email        string       `json:"email" gorm:"uniqueIndex;not null"`
	FullName     string       `json:"fullName" gorm:"index;not null"`
	Password     string       `json:"-" gorm:"not null"`
	Avatar       string       `json:"avatar" gorm:"not null"`
	CoverImage   string       `json:"coverImage"`
	RefreshToken string       `json:"-"`
	WatchHistory WatchHistory `json:"watchHistory" gorm:"type:jsonb"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Sanitized returns a copy with credential fields blanked, safe to attach to
// a request context or echo back to the client.
func (u User) Sanitized() User {
	u.Password = ""
	u.RefreshToken = ""
	return u
}

// WatchHistory is an ordered list of watched video ids, stored as jsonb.
type WatchHistory []uint

func (h WatchHistory) Value() (driver.Value, error) {
	if h == nil {
		h = WatchHistory{}
	}
	return json.Marshal(h)
}

func (h *WatchHistory) Scan(value interface{}) error {
	if value == nil {
		*h = WatchHistory{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported watch history column type")
	}
	return json.Unmarshal(raw, h)
}

// RegisterRequest carries the multipart text fields plus the staged local
// file paths collected by the handler.
type RegisterRequest struct {
	FullName            string
	Email               string
	Username            string
	Password            string
	AvatarLocalPath     string
	CoverImageLocalPath string
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// ChannelProfile is the public subset of a user shown on a channel page.
type ChannelProfile struct {
	Username   string `json:"username"`
	FullName   string `json:"fullName"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"coverImage"`
}

// AssetRef identifies an object in the remote asset store. PublicID is the
// store-internal name and must be derivable from URL alone so that a stored
// URL is enough to delete the asset later.
type AssetRef struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// UserRepository is the credential store. Create enforces username/email
// uniqueness atomically via database constraints. The UpdateXxx methods are
// single-purpose column writes with no cross-field validation, mirroring the
// controller operations that must not re-validate unrelated fields.
type UserRepository interface {
	Create(user *User) error
	GetByID(id uint) (*User, error)
	GetByUsername(username string) (*User, error)
	GetByUsernameOrEmail(username, email string) (*User, error)
	UpdateRefreshToken(userID uint, token string) error
	UpdatePassword(userID uint, passwordHash string) error
	UpdateAccount(userID uint, fullName, email string) error
	UpdateAvatar(userID uint, url string) error
	UpdateCoverImage(userID uint, url string) error
}

// AssetStore uploads local files to the remote object store and deletes
// stored objects by URL. Upload removes the local file whether or not the
// transfer succeeds, and returns (nil, nil) for an empty path.
type AssetStore interface {
	Upload(ctx context.Context, localPath string) (*AssetRef, error)
	Delete(ctx context.Context, url string) error
}

// AccountService orchestrates the session and profile lifecycle.
type AccountService interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(userID uint) error
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(userID uint, oldPassword, newPassword string) error
	GetUserByID(id uint) (*User, error)
	UpdateAccount(userID uint, req UpdateAccountRequest) (*User, error)
	UpdateAvatar(ctx context.Context, userID uint, localPath string) (*User, error)
	UpdateCoverImage(ctx context.Context, userID uint, localPath string) (*User, error)
	GetChannelProfile(username string) (*ChannelProfile, error)
	GetWatchHistory(userID uint) (WatchHistory, error)
}
