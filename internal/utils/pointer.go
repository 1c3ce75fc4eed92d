package utils

// Ptr returns a pointer to the passed value.
func Ptr[T any](t T) *T {
	return &t
}

// Get dereferences t, returning the zero value for nil.
func Get[T any](t *T) T {
	if t == nil {
		var v T
		return v
	}
	return *t
}

// Or dereferences t, returning def for nil.
func Or[T any](t *T, def T) T {
	if t == nil {
		return def
	}
	return *t
}

// Clone returns a new pointer holding a copy of *t, or nil.
func Clone[T any](t *T) *T {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
