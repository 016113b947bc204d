package cartsession

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bookshop-backend/pkg/config"
)

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "secret",
		Issuer:     "bookshop",
		TTL:        time.Hour,
		CookieName: "cart_session",
	}
}

func TestMintAndParse(t *testing.T) {
	issuer, err := NewIssuer(testConfig())
	require.NoError(t, err)

	token, sessionID, err := issuer.Mint()
	require.NoError(t, err)
	_, err = uuid.Parse(sessionID)
	require.NoError(t, err, "session id should be a uuid")

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID())
	assert.Equal(t, "bookshop", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.False(t, issuer.NeedsRefresh(claims))
}

func TestParseRejectsTamperedAndForeignTokens(t *testing.T) {
	issuer, err := NewIssuer(testConfig())
	require.NoError(t, err)
	token, _, err := issuer.Mint()
	require.NoError(t, err)

	other := testConfig()
	other.Secret = "another-secret"
	foreign, err := NewIssuer(other)
	require.NoError(t, err)
	_, err = foreign.Parse(token)
	require.True(t, errors.Is(err, ErrInvalidToken))

	wrongIssuer := testConfig()
	wrongIssuer.Issuer = "elsewhere"
	elsewhere, err := NewIssuer(wrongIssuer)
	require.NoError(t, err)
	_, err = elsewhere.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "x", Issuer: "bookshop"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Parse(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredTokens(t *testing.T) {
	issuer, err := NewIssuer(testConfig())
	require.NoError(t, err)

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return start }
	token, err := issuer.MintFor("sess-1")
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(40 * time.Minute) }
	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.True(t, issuer.NeedsRefresh(claims))

	issuer.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = issuer.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuerValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Secret = ""
	_, err := NewIssuer(cfg)
	require.Error(t, err)

	cfg = testConfig()
	cfg.TTL = 0
	_, err = NewIssuer(cfg)
	require.Error(t, err)

	issuer, err := NewIssuer(testConfig())
	require.NoError(t, err)
	_, err = issuer.MintFor("  ")
	require.Error(t, err)
}
