package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tablekit/staff-auth/internal/core/domain"
)

// bcrypt ignores everything past 72 bytes; longer passwords are refused.
const maxPasswordBytes = 72

// BcryptHasher hashes passwords with bcrypt. Each hash embeds its own random salt.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) ([]byte, error) {
	if len(plaintext) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password longer than %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Verify compares in constant time. Malformed hashes fail verification.
func (h *BcryptHasher) Verify(plaintext string, hash []byte) bool {
	if len(hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}
