// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice adds the generic Map and Unique the standard slices
// package lacks.
package slice

// Map applies transform to every element. A nil input stays nil.
func Map[T, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}
	output := make([]U, 0, len(input))
	for _, item := range input {
		output = append(output, transform(item))
	}
	return output
}

// Unique drops repeated elements, keeping the first occurrence. The result
// is never nil.
func Unique[T comparable](input []T) []T {
	seen := make(map[T]struct{}, len(input))
	output := make([]T, 0, len(input))
	for _, item := range input {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		output = append(output, item)
	}
	return output
}
