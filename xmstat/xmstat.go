// Public domain.

/*
Command xmstat reports cross-match statistics for a pair of catalogs.

Usage:

   xmstat -t <arcsec> <left-catalog> <right-catalog>
   xmstat -v

The two catalogs are cross-matched with the given tolerance and a small
report is printed: how many records matched, the completeness (matched
fraction of the left catalog) and the median and rms of the accepted
separations.  This is a quick check that a detection run and a reference
catalog actually line up before feeding them to xmatch, and a way to
judge whether a tolerance is too tight or too loose.
*/
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/soniakeys/exit"
	"github.com/soniakeys/unit"

	"github.com/vilardellsalles/xmatch/catalog"
	"github.com/vilardellsalles/xmatch/xmatch"
)

const versionString = "xmstat version 1.0 Go source."
const copyrightString = "Public domain."

func main() {
	defer exit.Handler()

	tol := flag.Float64("t", 0, "match tolerance, arc seconds")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Usage = func() {
		os.Stderr.WriteString(`
Usage: xmstat -t <arcsec> <left-catalog> <right-catalog>
       xmstat -v

For full documentation:
   go doc github.com/vilardellsalles/xmatch/xmstat
`)
	}
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	left := readCat(flag.Arg(0))
	right := readCat(flag.Arg(1))

	m := &xmatch.Matcher{MaxSep: unit.AngleFromSec(*tol)}
	pairs, err := m.Pairs(left, right)
	if err != nil {
		exit.Log(err)
	}

	// report statistics
	fmt.Println("\nLeft catalog:      ", flag.Arg(0))
	fmt.Println("Right catalog:     ", flag.Arg(1))
	fmt.Println("Left records:      ", len(left.Recs))
	fmt.Println("Right records:     ", len(right.Recs))
	fmt.Println("Matched:           ", len(pairs))
	if len(left.Recs) > 0 {
		fmt.Printf("Completeness:       %.1f%%\n",
			100*float64(len(pairs))/float64(len(left.Recs)))
	}
	if len(pairs) > 0 {
		med, rms := sepStats(pairs)
		fmt.Printf("Median separation:  %.3f arcsec\n", med)
		fmt.Printf("RMS separation:     %.3f arcsec\n", rms)
	}
}

func readCat(fn string) *catalog.Catalog {
	f, err := os.Open(fn)
	if err != nil {
		exit.Log(err)
	}
	defer f.Close()
	c, err := catalog.Read(f)
	if err != nil {
		exit.Log(fmt.Errorf("%s: %v", fn, err))
	}
	return c
}

func sepStats(pairs []xmatch.Pair) (median, rms float64) {
	s := make([]float64, len(pairs))
	var ss float64
	for i, p := range pairs {
		s[i] = p.Sep.Sec()
		ss += s[i] * s[i]
	}
	sort.Float64s(s)
	median = s[len(s)/2]
	if len(s)%2 == 0 {
		median = (s[len(s)/2-1] + s[len(s)/2]) / 2
	}
	return median, math.Sqrt(ss / float64(len(s)))
}
