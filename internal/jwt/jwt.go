package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/imtaco/meet-embed/internal/errors"
)

// NewAuth creates a new JWT authenticator with HS256 algorithm (default)
func NewAuth(secret string) Auth {
	return NewAuthWithAlgorithm(secret, jwt.SigningMethodHS256)
}

// NewAuthWithAlgorithm accepts HS256, HS384 or HS512.
func NewAuthWithAlgorithm(secret string, method jwt.SigningMethod) Auth {
	return &jwtAuthImpl{
		secret:        []byte(secret),
		signingMethod: method,
		now:           time.Now,
	}
}

type jwtAuthImpl struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	now           func() time.Time
}

// Sign issues a token for hostID; ttl <= 0 means no expiry.
func (j *jwtAuthImpl) Sign(hostID string, scope Scope, ttl time.Duration) (string, error) {
	if hostID == "" {
		return "", errors.New(ErrInvalidRequest, "hostID is required")
	}
	if !scope.Valid() {
		return "", errors.Newf(ErrInvalidRequest, "unknown scope %q", scope)
	}

	now := j.now()
	claims := &Payload{
		HostID: hostID,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(j.signingMethod, claims)
	return token.SignedString(j.secret)
}

// Verify rejects any token not signed with the configured algorithm.
func (j *jwtAuthImpl) Verify(tokenString string) (*Payload, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Payload{}, func(token *jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err, "parse token")
	}

	claims, ok := token.Claims.(*Payload)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.HostID == "" || !claims.Scope.Valid() {
		return nil, errors.New(ErrInvalidToken, "missing required fields in token")
	}
	return claims, nil
}
