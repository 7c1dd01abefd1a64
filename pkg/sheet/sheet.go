// Package sheet lays catalog records out onto fixed-capacity page grids.
//
// Pagination is the deterministic core of a run: records are first sorted
// into canonical order (artist, title, id; case-insensitive) and then
// consumed row-major into pages. The last page of a set is padded with
// empty tiles after the final real tile, never before or between real
// tiles. Concatenating all pages' record tiles in order reproduces the
// input set exactly.
package sheet

import (
	"math"
	"sort"
	"strings"

	"github.com/spinside/adsheet/pkg/catalog"
)

// Shape is a page grid shape. The zero value means auto: the shape is
// chosen from the record count when paginating.
type Shape struct {
	Rows int
	Cols int
}

// Fixed returns a fixed rows×cols shape.
func Fixed(rows, cols int) Shape {
	return Shape{Rows: rows, Cols: cols}
}

// Auto is the shape placeholder that lets Paginate pick a near-square
// grid sized to the record count.
var Auto = Shape{}

// IsAuto reports whether the shape is the auto placeholder.
func (s Shape) IsAuto() bool {
	return s.Rows == 0 && s.Cols == 0
}

// Capacity is the number of cells on one page.
func (s Shape) Capacity() int {
	return s.Rows * s.Cols
}

// autoFor picks the near-square shape for n records: cols = ceil(sqrt(n)),
// rows = ceil(n/cols). Columns never fall below rows, and no row is fully
// empty.
func autoFor(n int) Shape {
	if n <= 0 {
		return Shape{}
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	return Shape{Rows: rows, Cols: cols}
}

// Cell is one grid position: a record tile or padding.
type Cell struct {
	// Record is nil for padding cells.
	Record *catalog.Record
}

// Padding reports whether the cell is an empty tile.
func (c Cell) Padding() bool {
	return c.Record == nil
}

// Page is one full grid of cells destined for one rendered file.
type Page struct {
	// Index is the canonical page number within its set, starting at 0.
	Index int
	Shape Shape
	Cells []Cell
}

// Records counts the real (non-padding) tiles on the page.
func (p Page) Records() int {
	n := 0
	for _, c := range p.Cells {
		if !c.Padding() {
			n++
		}
	}
	return n
}

// PageSet is the ordered page sequence covering one record set.
type PageSet struct {
	// Label names the set: a bucket label, or "all" for non-bucketed runs.
	Label string
	Pages []Page
}

// Canonical returns a sorted copy of records in canonical tile order:
// ascending (artist, title), case-insensitive, with the catalog ID as a
// final tie-break so repeated runs are byte-identical.
func Canonical(records []catalog.Record) []catalog.Record {
	out := make([]catalog.Record, len(records))
	copy(out, records)
	sort.Slice(out, func(i, j int) bool {
		if c := compareFold(out[i].Artist, out[j].Artist); c != 0 {
			return c < 0
		}
		if c := compareFold(out[i].Title, out[j].Title); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Paginate lays records out into pages of the given shape.
//
// Records are consumed in canonical order, filling each page left to
// right, top to bottom. With an auto shape all records land on a single
// near-square page. Zero records produce zero pages, never a page of all
// padding.
func Paginate(records []catalog.Record, shape Shape) []Page {
	ordered := Canonical(records)
	if len(ordered) == 0 {
		return nil
	}
	if shape.IsAuto() {
		shape = autoFor(len(ordered))
	}

	capacity := shape.Capacity()
	var pages []Page
	for start := 0; start < len(ordered); start += capacity {
		end := start + capacity
		if end > len(ordered) {
			end = len(ordered)
		}

		cells := make([]Cell, capacity)
		for i := start; i < end; i++ {
			r := ordered[i]
			cells[i-start] = Cell{Record: &r}
		}

		pages = append(pages, Page{
			Index: len(pages),
			Shape: shape,
			Cells: cells,
		})
	}
	return pages
}
