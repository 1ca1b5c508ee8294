// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses multi-value URL query parameters such as
// "?folder=actas,boletines".
package query

import "strings"

// StringSlice splits a comma-separated value, trimming items and dropping
// empty ones. "" yields nil.
func StringSlice(val string) []string {
	var items []string
	for item := range strings.SplitSeq(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
