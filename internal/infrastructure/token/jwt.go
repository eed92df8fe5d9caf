// Package token signs and verifies HS256 bearer credentials.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/snipbox/snippet-api/internal/core/domain"
)

const defaultLifespan = 24 * time.Hour

type accountClaim struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleName string `json:"roleName"`
}

type claims struct {
	Account accountClaim `json:"account"`
	jwt.RegisteredClaims
}

// Issuer implements ports.TokenIssuer and ports.TokenVerifier.
type Issuer struct {
	secret   []byte
	lifespan time.Duration
	now      func() time.Time
}

// NewIssuer returns an Issuer signing with secret. A non-positive lifespan
// falls back to 24h.
func NewIssuer(secret string, lifespan time.Duration) *Issuer {
	if lifespan <= 0 {
		lifespan = defaultLifespan
	}
	return &Issuer{secret: []byte(secret), lifespan: lifespan, now: time.Now}
}

// Issue signs a credential for p. RefreshAfter marks the middle of the
// lifespan, after which clients should call refresh.
func (i *Issuer) Issue(p domain.Principal) (domain.Credential, error) {
	issuedAt := i.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.lifespan)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Account: accountClaim{
			ID:       p.ID,
			Username: p.Username,
			Email:    p.Email,
			RoleName: p.RoleName,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := t.SignedString(i.secret)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("sign token: %w", err)
	}

	return domain.Credential{
		Token:        signed,
		IssuedAt:     issuedAt,
		ExpiresAt:    expiresAt,
		RefreshAfter: issuedAt.Add(i.lifespan / 2),
	}, nil
}

// Verify decodes a token. A correctly signed token past its expiry yields
// domain.ErrTokenExpired; every other failure yields domain.ErrTokenInvalid.
func (i *Issuer) Verify(token string) (domain.Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, domain.ErrTokenExpired
		}
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	return domain.Principal{
		ID:       c.Account.ID,
		Username: c.Account.Username,
		Email:    c.Account.Email,
		RoleName: c.Account.RoleName,
	}, nil
}
