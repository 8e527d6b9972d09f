package ptr

func Of[T any](v T) *T {
	return &v
}

// Coalesce returns the value pointed to by p if it's not nil, otherwise returns fallback
func Coalesce[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}

// NonZero returns nil for the zero value of T.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
