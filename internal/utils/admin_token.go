package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewAdminToken builds and signs an HS256 JWT carrying the ADMIN role,
// valid for ttl.  Admin tokens are issued out-of-band (deployment scripts,
// operator shell) and presented to the inventory administration endpoints.
func NewAdminToken(secret string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"role": "ADMIN",
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
