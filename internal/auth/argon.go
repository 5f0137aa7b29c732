package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Fixed Argon2id parameters. A single-tenant server has no reason to make
// these tunable.
var defaultHashParams = hashParams{
	memory:      64 * 1024,
	iterations:  3,
	parallelism: 4,
	saltLen:     16,
	keyLen:      32,
}

// Cap password length so a huge input can't burn CPU and memory during
// hashing.
const maxPasswordLength = 1024

type hashParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLen     int
	keyLen      uint32
}

func (p hashParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.iterations, p.memory, p.parallelism, p.keyLen)
}

// HashPassword returns an Argon2id hash of password in PHC string format
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash).
func HashPassword(password string) (string, error) {
	switch {
	case password == "":
		return "", errors.New("password cannot be empty")
	case len(password) > maxPasswordLength:
		return "", errors.New("password exceeds maximum length")
	}

	p := defaultHashParams
	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := p.derive(password, salt)
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.iterations, p.parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifyPassword checks password against a stored PHC-encoded hash using
// the parameters embedded in the hash. A malformed stored value reports
// false rather than an error so nothing about it leaks to callers.
func VerifyPassword(encoded, password string) (bool, error) {
	if len(password) > maxPasswordLength {
		return false, nil
	}

	p, salt, key, err := parseHash(encoded)
	if err != nil {
		return false, nil
	}

	candidate := p.derive(password, salt)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func parseHash(encoded string) (p hashParams, salt, key []byte, err error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[1] != "argon2id" {
		return p, nil, nil, errors.New("not an argon2id hash")
	}

	var version int
	if _, err = fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errors.New("unsupported argon2 version")
	}
	if _, err = fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return p, nil, nil, errors.New("malformed argon2 parameters")
	}

	if salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return p, nil, nil, errors.New("malformed salt")
	}
	if key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil {
		return p, nil, nil, errors.New("malformed hash")
	}
	p.keyLen = uint32(len(key))

	return p, salt, key, nil
}
