// Package model defines the core data structures for the cooccur application.
package model

import (
	"sort"
	"strconv"
	"strings"
)

// Item is an atomic categorical fact: one feature observed in one category.
// The (Feature, Label) pair is the identity; no joined string form is used
// inside the mining pipeline.
type Item struct {
	Feature string `json:"feature"`
	Label   string `json:"label"`
}

// Less reports whether i sorts before other in the canonical item order
// (feature name first, then label).
func (i Item) Less(other Item) bool {
	if i.Feature != other.Feature {
		return i.Feature < other.Feature
	}
	return i.Label < other.Label
}

// Key returns an unambiguous string identity for the item. Both parts are
// quoted, so a label containing a separator cannot collide with another item.
func (i Item) Key() string {
	return strconv.Quote(i.Feature) + ":" + strconv.Quote(i.Label)
}

// SortItems sorts items into canonical order in place.
func SortItems(items []Item) {
	sort.Slice(items, func(a, b int) bool { return items[a].Less(items[b]) })
}

// ItemsKey returns the identity of a set of items. The items must already be
// in canonical order.
func ItemsKey(items []Item) string {
	var b strings.Builder
	for idx, item := range items {
		if idx > 0 {
			b.WriteByte(',')
		}
		b.WriteString(item.Key())
	}
	return b.String()
}

// CloneItems returns a copy of items so callers cannot alias internal slices.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
