// Package authtoken implements ceeifyd's single-admin bearer-token auth:
// verify a submitted key against a bcrypt hash, then issue/validate a JWT
// bearer token scoped to the one "admin" subject.
//
// Grounded on server/token.go's generateJWT/validateAndLookupJWTUser/
// getJWT (HS512 signing, "Bearer " header parsing, issuer + leeway
// validation options) and golang.org/x/crypto/bcrypt for key hashing —
// simplified from the teacher's per-user signing-key derivation (secret +
// password hash + last-logout timestamp) since ceeifyd has exactly one
// admin principal, not a user table to invalidate sessions against.
package authtoken

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "ceeifyd"
const subject = "admin"

// HashKey bcrypt-hashes an admin key for storage in config.Ceeifyd's
// AdminKeyHash field, grounded on server/dao/sqlite's password hashing at
// user-creation time.
func HashKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("authtoken: %w", err)
	}
	return string(hash), nil
}

// Issuer issues and validates bearer tokens against one admin key hash.
type Issuer struct {
	secret       []byte
	adminKeyHash string
	ttl          time.Duration
}

// New returns an Issuer. secret signs issued tokens; adminKeyHash is the
// bcrypt hash CheckAdminKey compares a submitted key against.
func New(secret []byte, adminKeyHash string, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, adminKeyHash: adminKeyHash, ttl: ttl}
}

// CheckAdminKey reports whether key matches the configured admin key hash.
func (iss *Issuer) CheckAdminKey(key string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(iss.adminKeyHash), []byte(key))
	return err == nil
}

// Issue mints a signed bearer token for the admin subject, mirroring
// generateJWT's MapClaims shape minus the per-user signing-key salt.
func (iss *Issuer) Issue() (string, error) {
	claims := jwt.MapClaims{
		"iss": issuer,
		"sub": subject,
		"exp": time.Now().Add(iss.ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := tok.SignedString(iss.secret)
	if err != nil {
		return "", fmt.Errorf("authtoken: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies tok, mirroring validateAndLookupJWTUser's
// validation options (HS512 only, matching issuer, a minute of leeway).
func (iss *Issuer) Validate(tok string) error {
	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return iss.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))
	return err
}

// FromHeader extracts the bearer token from req's Authorization header,
// mirroring getJWT.
func FromHeader(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("authtoken: no authorization header present")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("authtoken: authorization header not in Bearer format")
	}
	if !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("authtoken: authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}
