// Public domain.

/*
Command mkcat generates synthetic star field catalogs for exercising the
xmatch pipeline.

Usage:

   mkcat [options]                  generate a random star field
   mkcat [options] -from <catfile>  perturb an existing catalog
   mkcat -v                         display version and copyright

Without -from, mkcat writes a catalog of -n stars placed uniformly in a
square window of -w degrees centered on (-ra, -dec), with magnitudes
drawn from a normal distribution.  With -from, it reads an existing
catalog and writes a copy with positions perturbed by -jitter arc
seconds of Gaussian noise, emulating a second epoch or instrument of
the same field.

Generation is repeatable: the same -seed produces the same catalog.
*/
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/soniakeys/exit"
	xrand "golang.org/x/exp/rand"

	"github.com/vilardellsalles/xmatch/catalog"
)

const versionString = "mkcat version 1.0 Go source."
const copyrightString = "Public domain."

func main() {
	defer exit.Handler()

	n := flag.Int("n", 100, "number of stars")
	ra0 := flag.Float64("ra", 10, "window center RA, degrees")
	dec0 := flag.Float64("dec", 41, "window center declination, degrees")
	w := flag.Float64("w", .5, "window width, degrees")
	mag0 := flag.Float64("mag", 14, "mean magnitude")
	spread := flag.Float64("spread", 1.5, "magnitude standard deviation")
	magcol := flag.String("magcol", "mag", "magnitude column name")
	from := flag.String("from", "", "catalog to perturb instead of generating")
	jitter := flag.Float64("jitter", .3, "position jitter with -from, arc seconds")
	seed := flag.Uint64("seed", 1, "random seed")
	out := flag.String("o", "", "output file, default stdout")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(1)
	}

	rnd := xrand.New(&xrand.PCGSource{})
	rnd.Seed(*seed)

	var c *catalog.Catalog
	if *from != "" {
		c = perturb(*from, *jitter, rnd)
	} else {
		c = generate(*n, *ra0, *dec0, *w, *mag0, *spread, *magcol, rnd)
	}

	f := os.Stdout
	if *out != "" {
		var err error
		f, err = os.Create(*out)
		if err != nil {
			exit.Log(err)
		}
		defer f.Close()
	}
	if err := catalog.Write(f, c); err != nil {
		exit.Log(err)
	}
}

func generate(n int, ra0, dec0, w, mag0, spread float64,
	magcol string, rnd *xrand.Rand) *catalog.Catalog {
	c := &catalog.Catalog{
		Cols: []string{"id", catalog.RACol, catalog.DecCol, magcol},
	}
	for i := 0; i < n; i++ {
		ra := ra0 + w*(rnd.Float64()-.5)
		dec := dec0 + w*(rnd.Float64()-.5)
		mag := mag0 + spread*rnd.NormFloat64()
		c.Recs = append(c.Recs, catalog.Record{
			fmt.Sprintf("S%04d", i+1),
			round6(ra),
			round6(dec),
			round3(mag),
		})
	}
	return c
}

// perturb copies a catalog, moving each position by Gaussian noise of
// the given scale in arc seconds.  The RA offset is inflated by
// 1/cos(dec) so the jitter is isotropic on the sky.
func perturb(fn string, jitter float64, rnd *xrand.Rand) *catalog.Catalog {
	f, err := os.Open(fn)
	if err != nil {
		exit.Log(err)
	}
	defer f.Close()
	c, err := catalog.Read(f)
	if err != nil {
		exit.Log(fmt.Errorf("%s: %v", fn, err))
	}
	rx := c.Col(catalog.RACol)
	dx := c.Col(catalog.DecCol)
	if rx < 0 || dx < 0 {
		exit.Log(fmt.Errorf("%s: no %s/%s columns",
			fn, catalog.RACol, catalog.DecCol))
	}
	jdeg := jitter / 3600
	p := &catalog.Catalog{Cols: c.Cols}
	for i, r := range c.Recs {
		ra, rok := catalog.Num(r[rx])
		dec, dok := catalog.Num(r[dx])
		if !rok || !dok {
			exit.Log(fmt.Errorf("%s: record %d has no numeric position", fn, i))
		}
		pr := append(catalog.Record{}, r...)
		cd := math.Cos(dec * math.Pi / 180)
		pr[rx] = round6(ra + jdeg*rnd.NormFloat64()/cd)
		pr[dx] = round6(dec + jdeg*rnd.NormFloat64())
		p.Recs = append(p.Recs, pr)
	}
	return p
}

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
func round3(v float64) float64 { return math.Round(v*1e3) / 1e3 }
