package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/clinigo/agenda-api/pkg/errors"
)

func TestHashAndCompare(t *testing.T) {
	h := NewHasher(4) // minimum bcrypt cost keeps the test fast

	hashed, err := h.Hash("correcthorse")
	require.NoError(t, err)
	assert.NotEqual(t, "correcthorse", hashed)

	assert.NoError(t, h.Compare(hashed, "correcthorse"))
	assert.Error(t, h.Compare(hashed, "wronghorse"))
}

func TestHashRejectsShortPassword(t *testing.T) {
	h := NewHasher(4)

	_, err := h.Hash("1234567")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestNewHasherClampsInvalidCost(t *testing.T) {
	for _, cost := range []int{-1, 0, 100} {
		h := NewHasher(cost)
		hashed, err := h.Hash("correcthorse")
		require.NoErrorf(t, err, "cost=%d", cost)
		assert.NoError(t, h.Compare(hashed, "correcthorse"))
	}
}
