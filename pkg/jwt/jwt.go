package jwt

import (
	"context"
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTokenExpired is returned when a token has expired.
var ErrTokenExpired = errors.New("token is expired")

// ErrInvalidToken is returned for malformed or badly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// ErrTokenRevoked is returned when a refresh token is on the denylist.
var ErrTokenRevoked = errors.New("refresh token is revoked")

// Identity is the user data carried by an access token.
type Identity struct {
	UserID   uint
	Email    string
	Username string
	FullName string
}

// AccessClaims is the access-token payload: enough user data that request
// handling does not need a database round trip to render the caller.
type AccessClaims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	jwtlib.RegisteredClaims
}

// RefreshClaims carries only the user id; a refresh token never embeds
// profile data that could go stale over its long lifetime.
type RefreshClaims struct {
	UserID uint `json:"user_id"`
	jwtlib.RegisteredClaims
}

// TokenManager provides methods for generating, validating, and revoking
// the two JWT classes. Access and refresh tokens are signed with distinct
// secrets, so a leaked access token cannot be exchanged for a new session.
type TokenManager interface {
	GenerateAccessToken(id Identity, exp time.Duration) (string, error)
	GenerateRefreshToken(userID uint, exp time.Duration) (string, error)
	ValidateAccessToken(tokenString string) (*AccessClaims, error)
	ValidateRefreshToken(tokenString string) (*RefreshClaims, error)
	RevokeRefreshToken(tokenString string) error
	IsRefreshTokenRevoked(tokenString string) (bool, error)
}

// NewTokenManager creates a TokenManager with the given secrets and Redis
// client. The Redis denylist records superseded refresh tokens.
func NewTokenManager(accessSecret, refreshSecret string, redisClient *redis.Client) TokenManager {
	return &tokenManager{accessSecret: accessSecret, refreshSecret: refreshSecret, redis: redisClient}
}

// NewTokenManagerWithoutRedis creates a TokenManager with no denylist
// (useful for tests and deployments without Redis).
func NewTokenManagerWithoutRedis(accessSecret, refreshSecret string) TokenManager {
	return &tokenManager{accessSecret: accessSecret, refreshSecret: refreshSecret}
}

type tokenManager struct {
	accessSecret  string
	refreshSecret string
	redis         *redis.Client
}

// GenerateAccessToken creates a short-lived signed token for the identity.
func (j *tokenManager) GenerateAccessToken(id Identity, exp time.Duration) (string, error) {
	claims := AccessClaims{
		UserID:   id.UserID,
		Email:    id.Email,
		Username: id.Username,
		FullName: id.FullName,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(exp)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.accessSecret))
}

// GenerateRefreshToken creates a long-lived signed token carrying only the
// user id.
func (j *tokenManager) GenerateRefreshToken(userID uint, exp time.Duration) (string, error) {
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			// jti keeps successive rotations distinct even when minted
			// within the same second.
			ID:        uuid.New().String(),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(exp)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.refreshSecret))
}

// ValidateAccessToken parses and validates an access token.
func (j *tokenManager) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwtlib.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwtlib.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(j.accessSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateRefreshToken parses and validates a refresh token, rejecting
// denylisted tokens when Redis is configured.
func (j *tokenManager) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	if j.redis != nil {
		isRevoked, err := j.IsRefreshTokenRevoked(tokenString)
		if err != nil {
			return nil, err
		}
		if isRevoked {
			return nil, ErrTokenRevoked
		}
	}
	token, err := jwtlib.ParseWithClaims(tokenString, &RefreshClaims{}, func(token *jwtlib.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(j.refreshSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RevokeRefreshToken denylists a superseded refresh token in Redis until it
// would naturally expire. No-op without Redis; the stored per-user token
// remains the authoritative rotation state either way.
func (j *tokenManager) RevokeRefreshToken(tokenString string) error {
	if j.redis == nil {
		return nil
	}
	claims, err := j.ValidateRefreshToken(tokenString)
	if err != nil {
		return nil // already invalid, nothing to denylist
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	ctx := context.Background()
	return j.redis.Set(ctx, j.redisKey(tokenString), "revoked", ttl).Err()
}

// IsRefreshTokenRevoked checks the Redis denylist.
func (j *tokenManager) IsRefreshTokenRevoked(tokenString string) (bool, error) {
	if j.redis == nil {
		return false, nil
	}
	ctx := context.Background()
	res, err := j.redis.Exists(ctx, j.redisKey(tokenString)).Result()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (j *tokenManager) redisKey(tokenString string) string {
	return "jwt:denylist:" + tokenString
}
