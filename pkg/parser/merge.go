package parser

import (
	"container/heap"
	"sort"
	"time"
)

// MergeStats counts the rows dropped while merging tables.
type MergeStats struct {
	NullTimestamps      int
	DuplicateTimestamps int
}

// MergeTables combines tables into a single table ordered by timestamp.
// Rows with a null timestamp are dropped. Of rows sharing a timestamp the
// first one in input order is kept, so the order of tables matters.
// Columns are the union of all table columns in first-seen order; fields
// missing from a table are empty.
func MergeTables(tables []*Table) (*Table, MergeStats) {
	var stats MergeStats
	merged := &Table{}

	colIdx := make(map[string]int)
	remap := make([][]int, len(tables))
	for i, t := range tables {
		remap[i] = make([]int, len(t.Columns))
		for j, c := range t.Columns {
			idx, ok := colIdx[c]
			if !ok {
				idx = len(merged.Columns)
				colIdx[c] = idx
				merged.Columns = append(merged.Columns, c)
			}
			remap[i][j] = idx
		}
	}

	// Per-table row order, stable so that equal timestamps keep file order.
	orders := make([][]int, len(tables))
	h := &rowHeap{}
	heap.Init(h)
	for i, t := range tables {
		order := make([]int, 0, t.Len())
		for r, ts := range t.Index {
			if ts.IsZero() {
				stats.NullTimestamps++
				continue
			}
			order = append(order, r)
		}
		sort.SliceStable(order, func(a, b int) bool {
			return t.Index[order[a]].Before(t.Index[order[b]])
		})
		orders[i] = order
		if len(order) > 0 {
			heap.Push(h, &rowItem{ts: t.Index[order[0]], table: i})
		}
	}

	var last time.Time
	for h.Len() > 0 {
		item := heap.Pop(h).(*rowItem)
		t := tables[item.table]
		r := orders[item.table][item.pos]

		if len(merged.Index) > 0 && item.ts.Equal(last) {
			stats.DuplicateTimestamps++
		} else {
			row := make([]string, len(merged.Columns))
			for j, v := range t.Rows[r] {
				row[remap[item.table][j]] = v
			}
			merged.Index = append(merged.Index, item.ts)
			merged.Rows = append(merged.Rows, row)
			last = item.ts
		}

		// Refill from the same table
		if next := item.pos + 1; next < len(orders[item.table]) {
			heap.Push(h, &rowItem{
				ts:    t.Index[orders[item.table][next]],
				table: item.table,
				pos:   next,
			})
		}
	}

	return merged, stats
}

// rowItem is the next pending row of one table.
type rowItem struct {
	ts    time.Time
	table int
	pos   int
}

// rowHeap implements heap.Interface ordered by timestamp, then table index.
type rowHeap []*rowItem

func (h rowHeap) Len() int { return len(h) }

func (h rowHeap) Less(i, j int) bool {
	if h[i].ts.Equal(h[j].ts) {
		return h[i].table < h[j].table
	}
	return h[i].ts.Before(h[j].ts)
}

func (h rowHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rowHeap) Push(x interface{}) {
	*h = append(*h, x.(*rowItem))
}

func (h *rowHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}
