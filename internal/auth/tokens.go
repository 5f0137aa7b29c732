package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json/v2"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
	"github.com/pagemarkapp/pagemark-server/internal/id"
)

const (
	tokenIssuer   = "pagemark-server"
	tokenAudience = "pagemark-client"

	// PASETO v4.local keys are 256-bit, carried around as hex.
	keyBytesSize = 32
	keyHexSize   = keyBytesSize * 2

	refreshTokenEntropy = 32
)

// TokenService issues and verifies PASETO v4.local access tokens and opaque
// refresh tokens.
type TokenService struct {
	key             paseto.V4SymmetricKey
	accessLifetime  time.Duration
	refreshLifetime time.Duration
}

func NewTokenService(keyHex string, accessLifetime, refreshLifetime time.Duration) (*TokenService, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("token key must be %d hex characters, got %d", keyHexSize, len(keyHex))
	}
	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("token key is not valid hex: %w", err)
	}
	key, err := paseto.V4SymmetricKeyFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("constructing symmetric key: %w", err)
	}

	return &TokenService{
		key:             key,
		accessLifetime:  accessLifetime,
		refreshLifetime: refreshLifetime,
	}, nil
}

// GenerateAccessToken issues an encrypted access token for the user.
func (s *TokenService) GenerateAccessToken(user *domain.User) (string, error) {
	jti, err := id.Generate("token")
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}

	now := time.Now()
	tok := paseto.NewToken()
	tok.SetIssuer(tokenIssuer)
	tok.SetAudience(tokenAudience)
	tok.SetSubject(user.ID)
	tok.SetJti(jti)
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(now.Add(s.accessLifetime))

	// Set only fails for unserializable values.
	_ = tok.Set("user_id", user.ID)
	_ = tok.Set("username", user.Username)

	return tok.V4Encrypt(s.key, nil), nil
}

// VerifyAccessToken decrypts and validates an access token, returning its
// claims. Expired or tampered tokens fail here.
func (s *TokenService) VerifyAccessToken(raw string) (*AccessClaims, error) {
	parser := paseto.NewParser()
	for _, rule := range []paseto.Rule{
		paseto.IssuedBy(tokenIssuer),
		paseto.ForAudience(tokenAudience),
		paseto.NotExpired(),
		paseto.ValidAt(time.Now()),
	} {
		parser.AddRule(rule)
	}

	tok, err := parser.ParseV4Local(s.key, raw, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(tok.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	return &claims, nil
}

// GenerateRefreshToken returns a random opaque token. It is not a PASETO
// token; the sessions table decides whether it is still good.
func (s *TokenService) GenerateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenEntropy)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// HashRefreshToken is the SHA-256 digest stored in place of the raw token,
// so a database leak doesn't hand out live sessions.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *TokenService) AccessTokenDuration() time.Duration  { return s.accessLifetime }
func (s *TokenService) RefreshTokenDuration() time.Duration { return s.refreshLifetime }
