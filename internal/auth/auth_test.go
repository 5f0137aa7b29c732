package auth

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash format: %q", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-hash", "anything")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("malformed hash accepted")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
	if _, err := HashPassword(strings.Repeat("a", maxPasswordLength+1)); err == nil {
		t.Error("expected error for oversized password")
	}
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	keyHex := strings.Repeat("ab", 32)
	svc, err := NewTokenService(keyHex, 15*time.Minute, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	user := &domain.User{ID: "user-abc", Username: "reader"}
	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != "user-abc" {
		t.Errorf("UserID: got %q", claims.UserID)
	}
	if claims.Username != "reader" {
		t.Errorf("Username: got %q", claims.Username)
	}
	if claims.Subject != "user-abc" {
		t.Errorf("Subject: got %q", claims.Subject)
	}
}

func TestVerifyAccessTokenWrongKey(t *testing.T) {
	svc := newTestTokenService(t)
	token, err := svc.GenerateAccessToken(&domain.User{ID: "user-abc", Username: "reader"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	other, err := NewTokenService(strings.Repeat("cd", 32), time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	if _, err := other.VerifyAccessToken(token); err == nil {
		t.Error("token verified under a different key")
	}
}

func TestExpiredAccessToken(t *testing.T) {
	keyHex := strings.Repeat("ab", 32)
	svc, err := NewTokenService(keyHex, -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := svc.GenerateAccessToken(&domain.User{ID: "user-abc", Username: "reader"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := svc.VerifyAccessToken(token); err == nil {
		t.Error("expired token verified")
	}
}

func TestRefreshTokenHashDeterministic(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if token == "" {
		t.Fatal("empty refresh token")
	}

	h1 := HashRefreshToken(token)
	h2 := HashRefreshToken(token)
	if h1 != h2 {
		t.Error("hash not deterministic")
	}
	if h1 == token {
		t.Error("hash equals token")
	}
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey: %v", err)
	}
	if _, err := hex.DecodeString(key1); err != nil {
		t.Fatalf("key is not hex: %v", err)
	}
	if len(key1) != keyHexSize {
		t.Errorf("key length: got %d, want %d", len(key1), keyHexSize)
	}

	// Second call loads the same key.
	key2, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey reload: %v", err)
	}
	if key1 != key2 {
		t.Error("key changed between loads")
	}
}
