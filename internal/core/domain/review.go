package domain

// Batch is a slice of items presented together.
type Batch struct {
	// Index is the zero-based batch number.
	Index int

	// Start and End delimit the batch within the full list (End exclusive).
	Start int
	End   int

	// Total is the length of the full list.
	Total int

	Items []Item
}

// Number returns the one-based batch number.
func (b Batch) Number() int {
	return b.Index + 1
}

// IsLast reports whether no items follow this batch.
func (b Batch) IsLast() bool {
	return b.End >= b.Total
}

// BatchIterator walks a list of items in fixed-size batches.
// The caller decides when to advance.
type BatchIterator struct {
	items []Item
	size  int
	next  int
	index int
}

// NewBatchIterator creates an iterator over items. A size below one
// yields the whole list as a single batch.
func NewBatchIterator(items []Item, size int) *BatchIterator {
	if size < 1 {
		size = len(items)
	}
	return &BatchIterator{items: items, size: size}
}

// Next returns the next batch and true, or false when exhausted.
func (it *BatchIterator) Next() (Batch, bool) {
	if it.next >= len(it.items) {
		return Batch{}, false
	}
	end := min(it.next+it.size, len(it.items))
	b := Batch{
		Index: it.index,
		Start: it.next,
		End:   end,
		Total: len(it.items),
		Items: it.items[it.next:end],
	}
	it.next = end
	it.index++
	return b, true
}

// Peek returns the bounds of the batch Next would return, without advancing.
func (it *BatchIterator) Peek() (start, end int, ok bool) {
	if it.next >= len(it.items) {
		return 0, 0, false
	}
	return it.next, min(it.next+it.size, len(it.items)), true
}

// Batches returns the total number of batches.
func (it *BatchIterator) Batches() int {
	if it.size < 1 {
		return 0
	}
	return (len(it.items) + it.size - 1) / it.size
}

// Remaining returns the number of items not yet returned.
func (it *BatchIterator) Remaining() int {
	return len(it.items) - it.next
}

// OpenSummary counts the outcome of opening a batch.
type OpenSummary struct {
	Opened int
	Failed int
}
