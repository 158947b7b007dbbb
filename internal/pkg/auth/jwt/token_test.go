package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken("user-1", testSecret, time.Minute)
	require.NoError(t, err)

	payload, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.ID)
	assert.Equal(t, TokenIssuer, payload.Issuer)
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := GenerateToken("user-1", testSecret, -time.Minute)
	require.NoError(t, err)

	wrongKey, err := GenerateToken("user-1", "other-secret", time.Minute)
	require.NoError(t, err)

	noneAlg := gojwt.NewWithClaims(gojwt.SigningMethodNone, &Payload{ID: "user-1"})
	unsigned, err := noneAlg.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"expired":   expired,
		"wrong key": wrongKey,
		"alg none":  unsigned,
		"garbage":   "not-a-token",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(token, testSecret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = ParseToken("", testSecret)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerifier(t *testing.T) {
	v := NewVerifier(testSecret)
	token, err := GenerateToken("user-9", testSecret, time.Minute)
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", id)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = v.Verify(ctx, token)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws?token=from-query", nil)
	assert.Equal(t, "from-query", ExtractToken(r))

	r.Header.Set("Authorization", "Bearer from-bearer")
	assert.Equal(t, "from-bearer", ExtractToken(r))

	r.Header.Set(HandshakeHeader, "from-handshake")
	assert.Equal(t, "from-handshake", ExtractToken(r))

	empty := httptest.NewRequest(http.MethodGet, "/ws", nil)
	empty.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, ExtractToken(empty))
}

func TestIdentityExtractorMiddleware(t *testing.T) {
	token, err := GenerateToken("user-3", testSecret, time.Minute)
	require.NoError(t, err)

	var seen *Payload
	h := IdentityExtractorMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetPayloadFromContext(r)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.NotNil(t, seen)
	assert.Equal(t, "user-3", seen.ID)

	seen = nil
	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.Header.Set("Authorization", "Bearer broken")
	h.ServeHTTP(httptest.NewRecorder(), bad)
	assert.Nil(t, seen)
}
