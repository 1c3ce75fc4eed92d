package jwt

import "github.com/imtaco/meet-embed/internal/errors"

const (
	ErrInvalidRequest errors.Code = "invalid request"
	ErrInvalidToken   errors.Code = "invalid token"
	ErrNoToken        errors.Code = "no token"
	ErrForbidden      errors.Code = "insufficient scope"
)
