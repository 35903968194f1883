// Package jwtinspect reads claims out of upstream-issued access tokens.
// The signing secret lives on the mall API, so tokens are parsed without
// verification; the upstream re-checks every token it is handed, so nothing
// here is trusted for authorization.
package jwtinspect

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnreadableToken = errors.New("unreadable token")

var parser = jwt.NewParser(jwt.WithoutClaimsValidation())

// ExpiresAt returns the exp claim of the token. The second return is false
// when the token is not a JWT or carries no exp claim; callers must then fall
// back to server-signalled expiry.
func ExpiresAt(tokenString string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	_, _, err := parser.ParseUnverified(tokenString, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Subject returns the sub claim (the member email on mall API tokens).
func Subject(tokenString string) (string, error) {
	claims := jwt.RegisteredClaims{}
	_, _, err := parser.ParseUnverified(tokenString, &claims)
	if err != nil {
		return "", ErrUnreadableToken
	}
	return claims.Subject, nil
}
