package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only verification error this package exposes.
// Malformed tokens, bad signatures, wrong algorithms and expired tokens
// all collapse into it so callers cannot probe token structure.
var ErrInvalidToken = errors.New("jwtx: invalid token")

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Signer issues and verifies HS256 tokens for a single secret. Access and
// refresh tokens each get their own Signer so a refresh token can never
// pass access-token verification (and vice versa).
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSigner creates an HS256 signer. The secret must be non-empty; the
// issuer is stamped into and required on every token.
func NewSigner(secret []byte, issuer string, ttl time.Duration) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty signing secret")
	}
	if ttl <= 0 {
		return nil, errors.New("jwtx: non-positive token ttl")
	}
	return &Signer{secret: secret, issuer: issuer, ttl: ttl}, nil
}

// TTL reports the lifetime this signer stamps into tokens.
func (s *Signer) TTL() time.Duration { return s.ttl }

// Issue signs a token for the given employee identity.
func (s *Signer) Issue(employeeID int64, email, role string, orgID int64) (string, error) {
	claims := NewClaims(employeeID, email, role, orgID, s.issuer, s.ttl, time.Now().UTC())
	return s.Sign(claims)
}

// Sign turns claims into a signed compact JWT string.
func (s *Signer) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify decodes a compact token, checks signature, issuer and expiry.
// Every failure mode returns ErrInvalidToken.
func (s *Signer) Verify(raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
