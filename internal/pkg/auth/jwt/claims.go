package jwt

import "github.com/golang-jwt/jwt"

// Payload is the claim set of every Teslo token.
// Only the user id is carried; roles and active status are read from the database on each
// request so revocations apply without waiting for token expiry.
type Payload struct {
	jwt.StandardClaims

	// ID is the subject user's UUID.
	ID string `json:"id"`
}
