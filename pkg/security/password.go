package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/clinigo/agenda-api/pkg/errors"
)

// MinPasswordLength is enforced before any hashing work is done.
const MinPasswordLength = 8

// Hasher applies the clinic's password policy on top of bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher at the given bcrypt cost. Costs outside the
// valid bcrypt range fall back to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", apperrors.BadRequest("password too short", nil)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare returns nil when password matches the stored hash.
func (h *Hasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
