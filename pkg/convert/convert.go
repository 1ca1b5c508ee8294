// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses query string values leniently: a missing or
malformed value becomes a default instead of an error.

Use strconv directly where a bad value must be reported to the client.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD parses s as a base-10 int, or returns def.
func ToIntD(s string, def int) int {
	value, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return value
}

// ToBool accepts the strconv.ParseBool spellings; anything else is false.
func ToBool(s string) bool {
	value, _ := strconv.ParseBool(strings.TrimSpace(s))
	return value
}

// ToFloat64 parses s as a float64, or returns 0.
func ToFloat64(s string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return value
}
