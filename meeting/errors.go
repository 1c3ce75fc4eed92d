package meeting

import "github.com/imtaco/meet-embed/internal/errors"

const (
	ErrEngineNotReady   errors.Code = "engine not ready"
	ErrInvalidHostProps errors.Code = "invalid host props"
	ErrUnknownPlatform  errors.Code = "unknown platform"
	ErrAlreadyMounted   errors.Code = "already mounted"
	ErrShellClosed      errors.Code = "shell closed"
	ErrPersistFailed    errors.Code = "persist failed"
)
