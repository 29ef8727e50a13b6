// Public domain.

package catalog_test

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/soniakeys/observation"

	"github.com/vilardellsalles/xmatch/catalog"
)

func TestRead(t *testing.T) {
	in := `
# detections, field 1
id       ra     dec    mag
S1  10.0000  41.000  12.31
S2  10.0042  41.003  13.05
`
	c, err := catalog.Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"id", "ra", "dec", "mag"}
	if !reflect.DeepEqual(c.Cols, want) {
		t.Fatalf("cols %v, want %v", c.Cols, want)
	}
	if len(c.Recs) != 2 {
		t.Fatalf("%d records, want 2", len(c.Recs))
	}
	if id, ok := c.Recs[0][0].(string); !ok || id != "S1" {
		t.Fatalf("record 0 id = %v, want string S1", c.Recs[0][0])
	}
	if mag, ok := catalog.Num(c.Recs[1][3]); !ok || mag != 13.05 {
		t.Fatalf("record 1 mag = %v, want 13.05", c.Recs[1][3])
	}
}

func TestReadBadLine(t *testing.T) {
	in := `id  ra  dec
S1  10  41  12.3
`
	if _, err := catalog.Read(strings.NewReader(in)); err == nil {
		t.Fatal("no error for wrong field count")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	c := &catalog.Catalog{
		Cols: []string{"id", "ra", "dec", "mag"},
		Recs: []catalog.Record{
			{"S1", 10.000125, 41.0, 12.31},
			{"S2", 10.0042, -41.003, 13.05},
		},
	}
	var b bytes.Buffer
	if err := catalog.Write(&b, c); err != nil {
		t.Fatal(err)
	}
	r, err := catalog.Read(&b)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r, c) {
		t.Fatalf("round trip\n%+v\nwant\n%+v", r, c)
	}
}

func TestPosition(t *testing.T) {
	c := &catalog.Catalog{
		Cols: []string{"id", "ra", "dec"},
		Recs: []catalog.Record{
			{"S1", 243.298208, 20.87325},
			{"S2", "bad", 20.0},
		},
	}
	p, err := c.Position(0)
	if err != nil {
		t.Fatal(err)
	}
	// conversions through the unit types must preserve degrees
	if d := p.Dec.Deg(); math.Abs(d-20.87325) > 1e-12 {
		t.Fatalf("dec %g, want 20.87325", d)
	}
	if _, err = c.Position(1); err == nil {
		t.Fatal("no error for non-numeric position")
	}
	noPos := &catalog.Catalog{
		Cols: []string{"id"},
		Recs: []catalog.Record{{"S1"}},
	}
	if _, err = noPos.Position(0); err == nil {
		t.Fatal("no error for missing position columns")
	}
}

func TestFloats(t *testing.T) {
	c := &catalog.Catalog{
		Cols: []string{"id", "mag"},
		Recs: []catalog.Record{{"S1", 12.5}, {"S2", 13.0}},
	}
	fs, err := c.Floats("mag")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fs, []float64{12.5, 13}) {
		t.Fatalf("mag = %v", fs)
	}
	if _, err = c.Floats("id"); err == nil {
		t.Fatal("no error for string column")
	}
	if _, err = c.Floats("flux"); err == nil {
		t.Fatal("no error for missing column")
	}
}

// observations of known NEOs, made up designations
const obs80 = `     NE00030  C2004 09 16.15206 16 13 11.57 +20 52 23.7          21.1 Vd     291
     NE00030  C2004 09 16.15621 16 13 11.34 +20 52 16.8          20.8 Vd     291
     NE00030  C2004 09 16.16017 16 13 11.13 +20 52 09.6          20.7 Vd     291
     NE00199  C2007 02 09.24234 06 08 06.06 +43 13 26.2          20.1  c     704
     NE00199  C2007 02 09.25415 06 08 05.51 +43 13 01.7          20.1  c     704
     NE00199  C2007 02 09.26683 06 08 04.80 +43 12 37.5          19.9  c     704
`

func TestReadMPC80(t *testing.T) {
	ocd := observation.ParallaxMap{
		"291": &observation.ParallaxConst{},
		"704": &observation.ParallaxConst{},
	}
	c, err := catalog.ReadMPC80(strings.NewReader(obs80), ocd)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Recs) != 6 {
		t.Fatalf("%d records, want 6", len(c.Recs))
	}
	r := c.Recs[0]
	if d, _ := r[0].(string); d != "NE00030" {
		t.Fatalf("desig %v, want NE00030", r[0])
	}
	// 16 13 11.57 = 243.2982083 degrees
	if ra, _ := catalog.Num(r[1]); math.Abs(ra-243.2982083) > 1e-6 {
		t.Fatalf("ra %v, want 243.2982083", r[1])
	}
	// +20 52 23.7 = 20.8732500 degrees
	if dec, _ := catalog.Num(r[2]); math.Abs(dec-20.87325) > 1e-6 {
		t.Fatalf("dec %v, want 20.87325", r[2])
	}
	if v, _ := catalog.Num(r[4]); v != 21.1 {
		t.Fatalf("vmag %v, want 21.1", r[4])
	}
	if s, _ := r[5].(string); s != "291" {
		t.Fatalf("site %v, want 291", r[5])
	}
	x := c.Col("desig")
	last, _ := c.Recs[5][x].(string)
	if last != "NE00199" {
		t.Fatalf("last desig %s, want NE00199", last)
	}
}
