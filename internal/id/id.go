// Package id generates prefixed NanoID identifiers such as
// "shelf-V1StGXR8_Z5jdHi6B-myT". The prefix makes IDs self-describing in
// logs and API payloads.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate returns "<prefix>-<nanoid>" with the default 21-character
// URL-safe alphabet. It fails only when the system entropy source does.
func Generate(prefix string) (string, error) {
	suffix, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + suffix, nil
}
