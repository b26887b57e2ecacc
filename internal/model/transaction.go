package model

// Transaction is the set of items satisfied by one observation row.
// Items are in canonical order and never repeat.
type Transaction struct {
	Items []Item
	Row   int
}

// NewTransaction builds a transaction from items, sorting them canonically
// and dropping duplicates.
func NewTransaction(row int, items []Item) Transaction {
	sorted := CloneItems(items)
	SortItems(sorted)

	out := sorted[:0]
	for idx, item := range sorted {
		if idx > 0 && item == sorted[idx-1] {
			continue
		}
		out = append(out, item)
	}

	return Transaction{Row: row, Items: out}
}

// Empty reports whether the row produced no item.
func (t Transaction) Empty() bool {
	return len(t.Items) == 0
}

// Contains reports whether every item of set appears in the transaction.
// Both sides must be in canonical order.
func (t Transaction) Contains(set []Item) bool {
	if len(set) > len(t.Items) {
		return false
	}
	i := 0
	for _, want := range set {
		for i < len(t.Items) && t.Items[i].Less(want) {
			i++
		}
		if i == len(t.Items) || t.Items[i] != want {
			return false
		}
		i++
	}
	return true
}
