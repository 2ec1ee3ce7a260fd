package utils

import twmerge "github.com/Oudwins/tailwind-merge-go"

// TwMerge joins Tailwind classes. Later classes win over conflicting
// earlier ones, so callers can override component defaults.
func TwMerge(classes ...string) string {
	return twmerge.Merge(classes...)
}

// If returns value when condition holds and the zero value otherwise.
func If[T any](condition bool, value T) T {
	var empty T
	if condition {
		return value
	}
	return empty
}
