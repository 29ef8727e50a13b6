// Public domain.

package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	sexa "github.com/soniakeys/sexagesimal"
)

// Read parses a catalog from a whitespace delimited text table.
//
// The first data line is a header of column names.  Empty lines and
// lines beginning with # are ignored.  Cells that parse as floating
// point numbers become float64 values, anything else is kept as a
// string.  Cells cannot themselves contain white space.
func Read(r io.Reader) (*Catalog, error) {
	c := &Catalog{}
	ln := 0
	for br := bufio.NewReader(r); ; {
		l, isPre, err := br.ReadLine()
		switch {
		case err == io.EOF:
			return c, nil
		case err != nil:
			return nil, err
		case isPre:
			return nil, fmt.Errorf("catalog: line %d too long", ln+1)
		}
		ln++
		f := strings.Fields(string(l))
		switch {
		case len(f) == 0 || f[0][0] == '#':
			continue
		case c.Cols == nil:
			c.Cols = f
			continue
		case len(f) != len(c.Cols):
			return nil, fmt.Errorf(
				"catalog: line %d has %d fields, header has %d",
				ln, len(f), len(c.Cols))
		}
		rec := make(Record, len(f))
		for i, s := range f {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				rec[i] = v
			} else {
				rec[i] = s
			}
		}
		c.Recs = append(c.Recs, rec)
	}
}

// Write renders a catalog as a fixed width text table readable by Read.
//
// Columns are padded to the widest cell and right aligned, with two
// spaces between columns.
func Write(w io.Writer, c *Catalog) error {
	return write(w, c, cell)
}

// WriteSexa is Write with the designated position columns rendered in
// sexagesimal notation.  The result is for human eyes: Read will take
// the positions back as strings, not numbers.
func WriteSexa(w io.Writer, c *Catalog) error {
	rx := c.Col(RACol)
	dx := c.Col(DecCol)
	return write(w, c, func(cl *Catalog, i, j int) string {
		if j == rx || j == dx {
			if p, err := cl.Position(i); err == nil {
				if j == rx {
					return fmt.Sprintf("%s", sexa.FmtRA(p.RA))
				}
				return fmt.Sprintf("%s", sexa.FmtAngle(p.Dec))
			}
		}
		return cell(cl, i, j)
	})
}

// cell renders one table cell.  Numbers keep full precision so that
// Write then Read reproduces the catalog.
func cell(c *Catalog, i, j int) string {
	switch v := c.Recs[i][j].(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	}
	return fmt.Sprint(c.Recs[i][j])
}

func write(w io.Writer, c *Catalog, cell func(*Catalog, int, int) string) error {
	widths := make([]int, len(c.Cols))
	for j, n := range c.Cols {
		widths[j] = len(n)
	}
	cells := make([][]string, len(c.Recs))
	for i := range c.Recs {
		cells[i] = make([]string, len(c.Cols))
		for j := range c.Cols {
			s := cell(c, i, j)
			cells[i][j] = s
			if len(s) > widths[j] {
				widths[j] = len(s)
			}
		}
	}
	line := make([]string, len(c.Cols))
	put := func(row []string) error {
		for j, s := range row {
			line[j] = fmt.Sprintf("%*s", widths[j], s)
		}
		_, err := fmt.Fprintln(w, strings.Join(line, "  "))
		return err
	}
	if err := put(c.Cols); err != nil {
		return err
	}
	for _, row := range cells {
		if err := put(row); err != nil {
			return err
		}
	}
	return nil
}
