package kling

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTTL       = 30 * time.Minute
	tokenNotBefore = 5 * time.Second
)

// Token is a signed HS256 JWT split into its three base64url segments.
type Token struct {
	Header    string
	Payload   string
	Signature string
}

func (t Token) String() string {
	return t.Header + "." + t.Payload + "." + t.Signature
}

// Signer issues the short-lived bearer tokens the service expects:
// iss = access key, exp = now+30m, nbf = now-5s. A token is minted per call
// and never reused.
type Signer struct {
	accessKey string
	secretKey []byte
	now       func() time.Time
}

func NewSigner(accessKey, secretKey string) *Signer {
	return &Signer{accessKey: accessKey, secretKey: []byte(secretKey), now: time.Now}
}

func (s *Signer) Sign() (Token, error) {
	if s.accessKey == "" || len(s.secretKey) == 0 {
		return Token{}, errors.New("kling credentials are not configured")
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    s.accessKey,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		NotBefore: jwt.NewNumericDate(now.Add(-tokenNotBefore)),
	})

	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return Token{}, err
	}

	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		return Token{}, errors.New("malformed token")
	}

	return Token{Header: parts[0], Payload: parts[1], Signature: parts[2]}, nil
}
