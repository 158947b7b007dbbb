package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// UserIdentityExpiration is the lifetime of an issued token.
	UserIdentityExpiration = 2 * time.Hour

	// TokenIssuer identifies the issuer of the token.
	TokenIssuer = "Teslo-Shop"
)

var (
	// ErrMissingToken is returned when no token was presented.
	ErrMissingToken = errors.New("missing token")

	// ErrInvalidToken covers malformed, expired and badly signed tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// GenerateToken signs a token for userID valid for duration.
func GenerateToken(userID string, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	payload := &Payload{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(duration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    TokenIssuer,
			Subject:   userID,
		},
		ID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	return token.SignedString([]byte(secretKey))
}

// ParseToken validates signature, algorithm and expiry and returns the claims.
// Every failure is reported as ErrInvalidToken wrapping the parser's reason.
func ParseToken(tokenString string, secretKey string) (*Payload, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Payload{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Verifier checks tokens against a fixed HMAC secret.
type Verifier struct {
	secretKey string
}

// NewVerifier returns a Verifier for secretKey.
func NewVerifier(secretKey string) *Verifier {
	return &Verifier{secretKey: secretKey}
}

// Verify returns the token's subject user id. It fails fast when ctx is already done.
func (v *Verifier) Verify(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload, err := ParseToken(token, v.secretKey)
	if err != nil {
		return "", err
	}

	return payload.ID, nil
}
