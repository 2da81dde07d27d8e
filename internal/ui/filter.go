// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"strings"

	"smctl/internal/wizard"

	"github.com/sahilm/fuzzy"
)

type itemSource []wizard.Item

func (s itemSource) String(i int) string {
	if s[i].Description == "" {
		return s[i].Label
	}
	return s[i].Label + " " + s[i].Description
}

func (s itemSource) Len() int { return len(s) }

// filterItems returns the indexes of items matching pattern, best match
// first. An empty pattern keeps every item in its original order.
func filterItems(items []wizard.Item, pattern string) []int {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		idx := make([]int, len(items))
		for i := range items {
			idx[i] = i
		}
		return idx
	}
	matches := fuzzy.FindFrom(pattern, itemSource(items))
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	return idx
}
