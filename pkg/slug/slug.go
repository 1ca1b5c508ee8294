// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns titles into ASCII URL segments such as
// "culto-de-jovenes".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// From lowercases s, strips accents (NFD then drop combining marks) and
// joins the remaining [a-z0-9] runs with single hyphens. Input with no
// ASCII letters or digits yields "".
func From(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))), s)
	if err != nil {
		folded = s
	}

	var builder strings.Builder
	builder.Grow(len(folded))

	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}

	return builder.String()
}
