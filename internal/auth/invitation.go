package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidInvitation is returned when an invitation token does not match.
var ErrInvalidInvitation = errors.New("invalid invitation token")

// invitationTokenBytes is the entropy of an invitation token.
const invitationTokenBytes = 32

// NewInvitationToken returns a random URL-safe token and its bcrypt hash.
// Only the hash is stored; the token is handed to the inviter once.
func NewInvitationToken() (token, hash string, err error) {
	buf := make([]byte, invitationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate token: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash token: %w", err)
	}
	return token, string(hashed), nil
}

// VerifyInvitationToken checks token against a hash made by NewInvitationToken.
func VerifyInvitationToken(hash, token string) error {
	if token == "" {
		return ErrInvalidInvitation
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		return ErrInvalidInvitation
	}
	return nil
}
