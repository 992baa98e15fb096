package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinigo/agenda-api/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the caller identity through the token: role, display name
// and, for clinical users, the linked practitioner id.
type Claims struct {
	UserID         uuid.UUID  `json:"uid"`
	Name           string     `json:"name"`
	Role           model.Role `json:"role"`
	PractitionerID *uuid.UUID `json:"practitioner_id,omitempty"`
	jwt.RegisteredClaims
}

// Caller converts the claims into the per-request caller identity.
func (c *Claims) Caller() model.Caller {
	return model.Caller{
		Role:           c.Role,
		Name:           c.Name,
		PractitionerID: c.PractitionerID,
	}
}

type JWTService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiryHours int) *JWTService {
	if expiryHours <= 0 {
		expiryHours = 12
	}
	return &JWTService{
		secret: []byte(secret),
		expiry: time.Duration(expiryHours) * time.Hour,
	}
}

func (s *JWTService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:         user.ID,
		Name:           user.Name,
		Role:           user.Role,
		PractitionerID: user.PractitionerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
