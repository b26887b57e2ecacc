package model

// Itemset is a frequent itemset with its support. Items are in canonical
// order; Count is the number of transactions containing every item and
// Support is Count divided by the transaction total.
type Itemset struct {
	Items   []Item  `json:"items"`
	Count   int     `json:"count"`
	Support float64 `json:"support"`
}

// Size returns the number of items in the set.
func (s Itemset) Size() int {
	return len(s.Items)
}

// Key returns the set identity used for lookups.
func (s Itemset) Key() string {
	return ItemsKey(s.Items)
}
