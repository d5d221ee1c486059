package util

// Ptr returns a pointer to the value.
func Ptr[T any](v T) *T {
	return &v
}

// Clamp constrains a value to a range.
func Clamp(value, lo, hi int) int {
	return min(max(value, lo), hi)
}

// Wrap returns idx moved by delta inside [0, n), wrapping at both ends.
func Wrap(idx, delta, n int) int {
	if n <= 0 {
		return 0
	}
	idx = (idx + delta) % n
	if idx < 0 {
		idx += n
	}
	return idx
}
