// Package report pivots stored trial results into a depth by context length
// score grid and renders it.
package report

import (
	"slices"

	"github.com/sells-group/needlebench/internal/results"
)

// Filter narrows the records that go into a Table. Zero fields match all.
type Filter struct {
	Model   string
	Version int
}

func (f Filter) match(r results.Record) bool {
	if f.Model != "" && r.Model != f.Model {
		return false
	}
	if f.Version != 0 && r.Version != f.Version {
		return false
	}
	return true
}

type point struct {
	depth  int
	length int
}

type stat struct {
	sum float64
	n   int
}

// Table is a score grid: rows are depth percents, columns context lengths.
type Table struct {
	Filter         Filter
	DepthPercents  []int
	ContextLengths []int
	Records        int

	cells map[point]stat
}

// Pivot groups records matching f by (depth, length). Several records in one
// cell, from different models or versions when f leaves them open, are
// averaged.
func Pivot(records []results.Record, f Filter) *Table {
	t := &Table{Filter: f, cells: make(map[point]stat)}
	for _, r := range records {
		if !f.match(r) {
			continue
		}
		t.Records++
		p := point{depth: r.DepthPercent, length: r.ContextLength}
		s := t.cells[p]
		s.sum += float64(r.Score)
		s.n++
		t.cells[p] = s

		if !slices.Contains(t.DepthPercents, r.DepthPercent) {
			t.DepthPercents = append(t.DepthPercents, r.DepthPercent)
		}
		if !slices.Contains(t.ContextLengths, r.ContextLength) {
			t.ContextLengths = append(t.ContextLengths, r.ContextLength)
		}
	}
	slices.Sort(t.DepthPercents)
	slices.Sort(t.ContextLengths)
	return t
}

// Value returns the mean score at (depth, length) and whether any record
// landed there.
func (t *Table) Value(depth, length int) (float64, bool) {
	s, ok := t.cells[point{depth: depth, length: length}]
	if !ok {
		return 0, false
	}
	return s.sum / float64(s.n), true
}

// Row returns the scores for one depth across ContextLengths; missing cells
// are nil.
func (t *Table) Row(depth int) []*float64 {
	out := make([]*float64, len(t.ContextLengths))
	for i, length := range t.ContextLengths {
		if v, ok := t.Value(depth, length); ok {
			out[i] = &v
		}
	}
	return out
}

// Mean returns the mean score over every matching record.
func (t *Table) Mean() (float64, bool) {
	var sum float64
	var n int
	for _, s := range t.cells {
		sum += s.sum
		n += s.n
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Empty reports whether no record matched.
func (t *Table) Empty() bool { return t.Records == 0 }
