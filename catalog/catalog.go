// Public domain.

// Package catalog defines the source catalog data model shared by the
// xmatch packages and commands.
//
// A catalog is an ordered collection of records, all sharing one column
// schema.  Cell values are either float64 or string.  Sky positions live
// in two designated columns, "ra" and "dec", holding decimal degrees on
// a shared celestial reference frame.  Catalogs are treated as read-only
// once built.
package catalog

import (
	"fmt"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
)

// Designated position column names.  Values are decimal degrees.
const (
	RACol  = "ra"
	DecCol = "dec"
)

// A Value is a single table cell, holding either a float64 or a string.
type Value interface{}

// Num returns the numeric value of a cell, with ok false for string cells.
func Num(v Value) (f float64, ok bool) {
	f, ok = v.(float64)
	return
}

// A Record is one catalog row.  Values are parallel to the catalog Cols.
type Record []Value

// A Catalog is an ordered sequence of records sharing a column schema.
type Catalog struct {
	Cols []string
	Recs []Record
}

// Col returns the index of the named column, or -1 if the catalog has
// no such column.
func (c *Catalog) Col(name string) int {
	for i, n := range c.Cols {
		if n == name {
			return i
		}
	}
	return -1
}

// Position returns the sky position of record i.
//
// An error means the catalog lacks the designated position columns or
// the record holds something non-numeric in them.
func (c *Catalog) Position(i int) (coord.Equa, error) {
	rx := c.Col(RACol)
	dx := c.Col(DecCol)
	if rx < 0 || dx < 0 {
		return coord.Equa{},
			fmt.Errorf("catalog: no %s/%s columns", RACol, DecCol)
	}
	r := c.Recs[i]
	ra, rok := Num(r[rx])
	dec, dok := Num(r[dx])
	if !rok || !dok {
		return coord.Equa{},
			fmt.Errorf("catalog: record %d has no numeric position", i)
	}
	return coord.Equa{
		RA:  unit.RAFromDeg(ra),
		Dec: unit.AngleFromDeg(dec),
	}, nil
}

// Floats extracts the named column as a float64 slice.
//
// An error means the column is missing or some cell in it is not numeric.
func (c *Catalog) Floats(name string) ([]float64, error) {
	x := c.Col(name)
	if x < 0 {
		return nil, fmt.Errorf("catalog: no column %s", name)
	}
	fs := make([]float64, len(c.Recs))
	for i, r := range c.Recs {
		f, ok := Num(r[x])
		if !ok {
			return nil,
				fmt.Errorf("catalog: column %s record %d not numeric", name, i)
		}
		fs[i] = f
	}
	return fs, nil
}
