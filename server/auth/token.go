package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
)

const (
	// Issuer is the issuer of the jwt token.
	Issuer = "todoai"
	// AccessTokenAudienceName is the audience name of the access token.
	AccessTokenAudienceName = "user.access-token"
)

// ErrInvalidToken is returned for every token failure: bad signature,
// malformed token, wrong algorithm, expired token or a bad subject.
var ErrInvalidToken = errors.New("invalid token")

// ClaimsMessage is the payload of an access token.
type ClaimsMessage struct {
	jwt.RegisteredClaims
}

func signingMethod(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, errors.Errorf("unsupported signing algorithm %q", alg)
	}
}

// GenerateAccessToken generates an access token whose subject is the user id.
func GenerateAccessToken(userID int32, secret []byte, alg string, ttl time.Duration) (string, error) {
	method, err := signingMethod(alg)
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := &ClaimsMessage{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{AccessTokenAudienceName},
			Subject:   strconv.FormatInt(int64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        shortuuid.New(),
		},
	}
	token := jwt.NewWithClaims(method, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}
	return tokenString, nil
}

// ParseAccessToken verifies the token and returns its subject user id.
func ParseAccessToken(tokenString string, secret []byte, alg string) (int32, error) {
	method, err := signingMethod(alg)
	if err != nil {
		return 0, ErrInvalidToken
	}
	claims := &ClaimsMessage{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(AccessTokenAudienceName),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 32)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return int32(userID), nil
}
