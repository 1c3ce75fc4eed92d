package log

import "go.uber.org/zap"

// Field is zap.Field; the constructors below keep zap out of callers' imports.
type Field = zap.Field

var (
	Bool     = zap.Bool
	Int      = zap.Int
	Int64    = zap.Int64
	Float64  = zap.Float64
	String   = zap.String
	Strings  = zap.Strings
	Stringer = zap.Stringer
	Error    = zap.Error
	Any      = zap.Any
	Duration = zap.Duration
	Time     = zap.Time
)
