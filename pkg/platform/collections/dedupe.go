// Package collections provides small slice utilities shared across services.
package collections

// Dedupe removes duplicates from a slice, preserving first-occurrence order.
//
// Example:
//
//	Dedupe([]string{"foo", "bar", "foo"})
//	// Returns: []string{"foo", "bar"}
func Dedupe[T comparable](values []T) []T {
	if len(values) == 0 {
		return values
	}

	seen := make(map[T]struct{}, len(values))
	result := make([]T, 0, len(values))

	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}

	return result
}
