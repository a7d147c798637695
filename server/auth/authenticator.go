package auth

import (
	"strings"
	"time"
)

// Authenticator resolves the caller of a request from its bearer token.
type Authenticator struct {
	secret []byte
	alg    string
}

func NewAuthenticator(secret, alg string) *Authenticator {
	return &Authenticator{secret: []byte(secret), alg: alg}
}

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>" header.
func ExtractBearerToken(authHeader string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate returns the user id carried by the Authorization header.
func (a *Authenticator) Authenticate(authHeader string) (int32, error) {
	token := ExtractBearerToken(authHeader)
	if token == "" {
		return 0, ErrInvalidToken
	}
	return ParseAccessToken(token, a.secret, a.alg)
}

// IssueToken creates an access token for userID.
func (a *Authenticator) IssueToken(userID int32, ttl time.Duration) (string, error) {
	return GenerateAccessToken(userID, a.secret, a.alg, ttl)
}
