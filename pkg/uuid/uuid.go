// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid issues the primary keys of every table. Keys are UUIDv7 so
// new rows land at the end of the B-tree index.
package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a UUIDv7 in canonical form. It panics only if the system
// entropy source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// IsValid reports whether s is a UUID in canonical 8-4-4-4-12 form. Services
// use it to answer NOT_FOUND for malformed path ids before querying.
func IsValid(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

// Normalize trims and lowercases an id taken from user input.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
