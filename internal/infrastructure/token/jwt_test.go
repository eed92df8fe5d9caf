package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipbox/snippet-api/internal/core/domain"
)

var alice = domain.Principal{ID: 7, Username: "alice", Email: "alice@example.com", RoleName: "User"}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	cred, err := iss.Issue(alice)
	require.NoError(t, err)

	got, err := iss.Verify(cred.Token)
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestIssuer_NoPasswordInPayload(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	cred, err := iss.Issue(alice)
	require.NoError(t, err)

	c := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(cred.Token, c)
	require.NoError(t, err)

	account, ok := c["account"].(map[string]any)
	require.True(t, ok, "account claim missing")
	assert.ElementsMatch(t, []string{"id", "username", "email", "roleName"}, keys(account))
}

func TestIssuer_CredentialWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	iss := NewIssuer("secret", 24*time.Hour)
	iss.now = fixedClock(now)

	cred, err := iss.Issue(alice)
	require.NoError(t, err)

	assert.Equal(t, now, cred.IssuedAt)
	assert.Equal(t, now.Add(24*time.Hour), cred.ExpiresAt)
	assert.Equal(t, now.Add(12*time.Hour), cred.RefreshAfter)
}

func TestIssuer_DefaultLifespan(t *testing.T) {
	iss := NewIssuer("secret", 0)
	assert.Equal(t, 24*time.Hour, iss.lifespan)
}

func TestIssuer_Expired(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	iss.now = fixedClock(time.Now().Add(-2 * time.Hour))
	cred, err := iss.Issue(alice)
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.Verify(cred.Token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestIssuer_Invalid(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)

	cred, err := other.Issue(alice)
	require.NoError(t, err)

	cases := map[string]string{
		"wrong signature": cred.Token,
		"garbage":         "not.a.jwt",
		"empty":           "",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := iss.Verify(tok)
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
			assert.NotErrorIs(t, err, domain.ErrTokenExpired)
		})
	}
}

func TestIssuer_ExpiredWithBadSignatureIsInvalid(t *testing.T) {
	other := NewIssuer("other-secret", time.Hour)
	other.now = fixedClock(time.Now().Add(-2 * time.Hour))
	cred, err := other.Issue(alice)
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Verify(cred.Token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		Account: accountClaim{ID: 1, RoleName: "Admin"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
