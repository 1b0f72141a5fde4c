package jwt

import (
	"testing"
	"time"
)

func newTestManager() TokenManager {
	return NewTokenManagerWithoutRedis("access-secret", "refresh-secret")
}

func TestGenerateAccessToken(t *testing.T) {
	tm := newTestManager()
	token, err := tm.GenerateAccessToken(Identity{UserID: 42, Email: "a@x.com", Username: "alice", FullName: "Alice A"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateAccessToken() returned empty string")
	}
}

func TestValidateAccessTokenValid(t *testing.T) {
	tm := newTestManager()
	token, err := tm.GenerateAccessToken(Identity{UserID: 42, Email: "a@x.com", Username: "alice", FullName: "Alice A"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken() unexpected error: %v", err)
	}

	claims, err := tm.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("ValidateAccessToken() UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("ValidateAccessToken() Username = %q, want %q", claims.Username, "alice")
	}
	if claims.Email != "a@x.com" {
		t.Errorf("ValidateAccessToken() Email = %q, want %q", claims.Email, "a@x.com")
	}
	if claims.FullName != "Alice A" {
		t.Errorf("ValidateAccessToken() FullName = %q, want %q", claims.FullName, "Alice A")
	}
}

func TestValidateRefreshTokenValid(t *testing.T) {
	tm := newTestManager()
	token, err := tm.GenerateRefreshToken(42, time.Hour)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() unexpected error: %v", err)
	}

	claims, err := tm.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken() unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("ValidateRefreshToken() UserID = %d, want 42", claims.UserID)
	}
}

func TestValidateAccessTokenInvalid(t *testing.T) {
	tm := newTestManager()
	if _, err := tm.ValidateAccessToken("not-a-valid-token"); err == nil {
		t.Error("ValidateAccessToken() expected error for invalid token")
	}
}

func TestTokenClassesUseDistinctSecrets(t *testing.T) {
	tm := newTestManager()
	refresh, err := tm.GenerateRefreshToken(42, time.Hour)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() unexpected error: %v", err)
	}

	// A refresh token must not validate as an access token.
	if _, err := tm.ValidateAccessToken(refresh); err == nil {
		t.Error("ValidateAccessToken() accepted a refresh token")
	}

	access, err := tm.GenerateAccessToken(Identity{UserID: 42}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken() unexpected error: %v", err)
	}
	if _, err := tm.ValidateRefreshToken(access); err == nil {
		t.Error("ValidateRefreshToken() accepted an access token")
	}
}

func TestValidateAccessTokenExpired(t *testing.T) {
	tm := newTestManager()
	token, err := tm.GenerateAccessToken(Identity{UserID: 42}, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken() unexpected error: %v", err)
	}

	if _, err := tm.ValidateAccessToken(token); err != ErrTokenExpired {
		t.Errorf("ValidateAccessToken() error = %v, want ErrTokenExpired", err)
	}
}

func TestValidateRefreshTokenWrongSecret(t *testing.T) {
	tm := newTestManager()
	other := NewTokenManagerWithoutRedis("access-secret", "different-refresh-secret")

	token, err := tm.GenerateRefreshToken(42, time.Hour)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() unexpected error: %v", err)
	}
	if _, err := other.ValidateRefreshToken(token); err == nil {
		t.Error("ValidateRefreshToken() expected error for wrong secret")
	}
}

func TestRevokeRefreshTokenWithoutRedis(t *testing.T) {
	tm := newTestManager()
	token, err := tm.GenerateRefreshToken(42, time.Hour)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() unexpected error: %v", err)
	}
	if err := tm.RevokeRefreshToken(token); err != nil {
		t.Errorf("RevokeRefreshToken() without redis should be a no-op, got %v", err)
	}
	revoked, err := tm.IsRefreshTokenRevoked(token)
	if err != nil {
		t.Fatalf("IsRefreshTokenRevoked() unexpected error: %v", err)
	}
	if revoked {
		t.Error("IsRefreshTokenRevoked() = true without redis")
	}
}
