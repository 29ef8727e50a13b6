// Public domain.

// Package xmatch cross-matches two source catalogs by sky position.
//
// For every record of a left catalog the matcher finds the nearest
// record of a right catalog by great circle separation.  When two left
// records select the same right record, only the closer pair survives;
// the losing left record is dropped from the result entirely, it is not
// reassigned to its second nearest neighbor.  This is deliberately not
// a full assignment solver.  Which records survive is part of the
// contract and callers depend on it.
package xmatch

import (
	"fmt"
	"sort"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/angle"
	"github.com/soniakeys/unit"

	"github.com/vilardellsalles/xmatch/catalog"
)

// Suffixes applied to colliding column names when a Matcher does not
// specify its own.
const (
	DefaultLeftSuffix  = "_left"
	DefaultRightSuffix = "_right"
)

// InvalidAngleError indicates a non-positive match tolerance.
type InvalidAngleError struct {
	MaxSep unit.Angle
}

func (e InvalidAngleError) Error() string {
	return fmt.Sprintf("xmatch: max separation must be positive, have %g arcsec",
		e.MaxSep.Sec())
}

// SchemaMismatchError indicates a catalog without usable positions,
// either missing the designated position columns or holding a
// non-numeric cell in them.
type SchemaMismatchError struct {
	Side string // "left" or "right"
	Rec  int    // offending record, or -1 when columns are missing
}

func (e SchemaMismatchError) Error() string {
	if e.Rec < 0 {
		return fmt.Sprintf("xmatch: %s catalog lacks %s/%s columns",
			e.Side, catalog.RACol, catalog.DecCol)
	}
	return fmt.Sprintf("xmatch: %s catalog record %d has no numeric position",
		e.Side, e.Rec)
}

// A Pair is an accepted match: indexes into the left and right catalogs
// and the great circle separation of the two positions.
type Pair struct {
	Left, Right int
	Sep         unit.Angle
}

// A Matcher holds cross-match parameters.
//
// MaxSep is the largest separation accepted as a match and must be
// positive.  There is no default: every caller decides its own
// tolerance.  Empty suffixes fall back to DefaultLeftSuffix and
// DefaultRightSuffix, so a Matcher with only MaxSep set is usable.
//
// Matcher methods are pure functions of the Matcher value and their
// arguments.  Distinct calls may run concurrently.
type Matcher struct {
	MaxSep      unit.Angle
	LeftSuffix  string
	RightSuffix string
}

// Sep returns the great circle separation of two sky positions,
// computed with the haversine function.  Sep is symmetric in its
// arguments.
func Sep(p1, p2 coord.Equa) unit.Angle {
	return angle.SepHav(unit.Angle(p1.RA), p1.Dec, unit.Angle(p2.RA), p2.Dec)
}

// Pairs computes the accepted matches of left against right without
// building a merged catalog.
//
// Every left record nominates its nearest right record, with exact ties
// broken to the lowest right index.  Nominations sharing a right record
// are resolved in favor of the smallest separation and losers dropped,
// so no right index appears twice in the result.  Nominations farther
// apart than MaxSep are dropped last.  An empty catalog on either side
// yields no pairs and no error.
func (m *Matcher) Pairs(left, right *catalog.Catalog) ([]Pair, error) {
	if m.MaxSep <= 0 {
		return nil, InvalidAngleError{m.MaxSep}
	}
	lp, err := positions(left, "left")
	if err != nil {
		return nil, err
	}
	rp, err := positions(right, "right")
	if err != nil {
		return nil, err
	}
	if len(lp) == 0 || len(rp) == 0 {
		return nil, nil
	}

	// one candidate per left record: its nearest right neighbor.
	// strict < keeps the lowest right index on exact ties.
	cand := make([]Pair, len(lp))
	for i, p := range lp {
		best := Pair{Left: i, Right: 0, Sep: Sep(p, rp[0])}
		for j := 1; j < len(rp); j++ {
			if s := Sep(p, rp[j]); s < best.Sep {
				best.Right, best.Sep = j, s
			}
		}
		cand[i] = best
	}

	// group candidates by right index, closest first within a group.
	// cand starts in left order, so the stable sort makes the outcome
	// deterministic even for equal separations.
	sort.SliceStable(cand, func(i, j int) bool {
		if cand[i].Right != cand[j].Right {
			return cand[i].Right < cand[j].Right
		}
		return cand[i].Sep < cand[j].Sep
	})

	// first of each group wins its right record, then the tolerance cut.
	keep := cand[:0]
	last := -1
	for _, c := range cand {
		if c.Right == last {
			continue
		}
		last = c.Right
		if c.Sep <= m.MaxSep {
			keep = append(keep, c)
		}
	}
	return keep, nil
}

// Match cross-matches left against right and merges the accepted pairs
// into a new catalog.
//
// A merged record holds all left fields followed by all right fields.
// Column names present on both sides get the Matcher suffixes, except
// the designated position columns: the left position is authoritative
// for a merged row, so left ra/dec keep their plain names and only the
// right ones are suffixed.
//
// The record order is deterministic but otherwise unspecified; callers
// needing a particular order must sort the result.
func (m *Matcher) Match(left, right *catalog.Catalog) (*catalog.Catalog, error) {
	pairs, err := m.Pairs(left, right)
	if err != nil {
		return nil, err
	}
	ls, rs := m.LeftSuffix, m.RightSuffix
	if ls == "" {
		ls = DefaultLeftSuffix
	}
	if rs == "" {
		rs = DefaultRightSuffix
	}
	merged := &catalog.Catalog{Cols: mergeCols(left.Cols, right.Cols, ls, rs)}
	for _, p := range pairs {
		rec := make(catalog.Record, 0, len(left.Cols)+len(right.Cols))
		rec = append(rec, left.Recs[p.Left]...)
		rec = append(rec, right.Recs[p.Right]...)
		merged.Recs = append(merged.Recs, rec)
	}
	return merged, nil
}

// positions resolves the designated position columns of a catalog.
// An empty catalog resolves to nothing, whatever its schema: emptiness
// is valid input, not a schema violation.
func positions(c *catalog.Catalog, side string) ([]coord.Equa, error) {
	if len(c.Recs) == 0 {
		return nil, nil
	}
	rx := c.Col(catalog.RACol)
	dx := c.Col(catalog.DecCol)
	if rx < 0 || dx < 0 {
		return nil, SchemaMismatchError{Side: side, Rec: -1}
	}
	ps := make([]coord.Equa, len(c.Recs))
	for i, r := range c.Recs {
		ra, rok := catalog.Num(r[rx])
		dec, dok := catalog.Num(r[dx])
		if !rok || !dok {
			return nil, SchemaMismatchError{Side: side, Rec: i}
		}
		ps[i] = coord.Equa{
			RA:  unit.RAFromDeg(ra),
			Dec: unit.AngleFromDeg(dec),
		}
	}
	return ps, nil
}

func mergeCols(lc, rc []string, ls, rs string) []string {
	inLeft := make(map[string]bool, len(lc))
	for _, n := range lc {
		inLeft[n] = true
	}
	inRight := make(map[string]bool, len(rc))
	for _, n := range rc {
		inRight[n] = true
	}
	cols := make([]string, 0, len(lc)+len(rc))
	for _, n := range lc {
		switch {
		case !inRight[n]:
			cols = append(cols, n)
		case n == catalog.RACol || n == catalog.DecCol:
			cols = append(cols, n) // left position is authoritative
		default:
			cols = append(cols, n+ls)
		}
	}
	for _, n := range rc {
		if inLeft[n] {
			cols = append(cols, n+rs)
		} else {
			cols = append(cols, n)
		}
	}
	return cols
}
