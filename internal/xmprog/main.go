// Public domain.

// Package xmprog is the main program of the xmatch command.
package xmprog

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/soniakeys/exit"
	"github.com/soniakeys/mpcformat"
	"github.com/soniakeys/observation"
	"github.com/soniakeys/unit"

	"github.com/vilardellsalles/xmatch/catalog"
	"github.com/vilardellsalles/xmatch/photcal"
	"github.com/vilardellsalles/xmatch/xmatch"
)

const versionString = "xmatch version 1.0 Go source."
const copyrightString = "Public domain."

// residual clipping applied to -f photometric fits
const (
	fitClipSigmas = 3
	fitMaxIter    = 10
)

func Main() {
	defer exit.Handler()

	cl := parseCommandLine()
	cfg := readConfig(cl)

	// command line tolerance wins over the config file.  there is no
	// default: callers must decide their own tolerance.
	tolSec := cfg.tolSec
	if cl.tolSec != 0 {
		tolSec = cl.tolSec
	}
	if tolSec <= 0 {
		exit.Log("A positive match tolerance is required (-t or config tol=).")
	}

	ref := readReference(cl)
	matcher := &xmatch.Matcher{
		MaxSep:      unit.AngleFromSec(tolSec),
		LeftSuffix:  cfg.left,
		RightSuffix: cfg.right,
	}

	// remainder of main constructs and starts the concurrent parts of
	// the program.  each input catalog is matched against the reference
	// by a worker; a buffered channel of result channels keeps printed
	// output in submission order however workers finish.
	maxWorkers := runtime.GOMAXPROCS(0)
	prCh := make(chan chan string, maxWorkers*2)
	jobCh := make(chan *jobSeq)
	errCh := make(chan error)

	// dispatcher.  for each input file attach a return channel that
	// works like a ticket for picking up the result, queue the job for
	// a worker and the ticket for printing.
	go func() {
		for _, fn := range cl.fns {
			rch := make(chan string, 1)
			jobCh <- &jobSeq{fn, rch}
			prCh <- rch
		}
		close(prCh)
	}()

	// start workers only as the dispatcher calls for them.  we may have
	// more cores than input files.
	go func() {
		for n := 0; n < maxWorkers; n++ {
			j, ok := <-jobCh
			if !ok {
				return
			}
			go work(matcher, ref, cl, cfg, j, jobCh, errCh)
		}
	}()

	if cfg.headings {
		fmt.Println(versionString)
		fmt.Printf("Reference %s, %d records, tolerance %g arcsec.\n",
			cl.ref, len(ref.Recs), tolSec)
	}

	// wait for results and print them as they become available, in
	// submission order.
	for {
		select {
		case err := <-errCh:
			exit.Log(err)
		case rch, ok := <-prCh:
			if !ok {
				return // normal return
			}
			select {
			case err := <-errCh:
				exit.Log(err)
			case r := <-rch:
				fmt.Print(r)
			}
		}
	}
}

type jobSeq struct {
	fn  string
	rch chan string
}

// worker process.  the first job is waiting in j, more are requested
// from jobCh.  errors are fatal to the whole run: partial output for a
// file is never printed.
func work(m *xmatch.Matcher, ref *catalog.Catalog, cl *commandLine,
	cfg *config, j *jobSeq, jobCh chan *jobSeq, errCh chan error) {
	for ; ; j = <-jobCh {
		s, err := matchFile(m, ref, cl, cfg, j.fn)
		if err != nil {
			errCh <- err
			return
		}
		j.rch <- s // buffered.  just drop off the result and continue
	}
}

// matchFile reads one detection catalog, matches it against the
// reference and renders the merged table, plus the photometric fit
// when -f is given.
func matchFile(m *xmatch.Matcher, ref *catalog.Catalog, cl *commandLine,
	cfg *config, fn string) (string, error) {
	var f *os.File
	if fn == "-" {
		f = os.Stdin
		fn = "input stream"
	} else {
		var err error
		f, err = os.Open(fn)
		if err != nil {
			return "", err
		}
		defer f.Close()
	}
	c, err := catalog.Read(f)
	if err != nil {
		return "", fmt.Errorf("%s: %v", fn, err)
	}
	merged, err := m.Match(c, ref)
	if err != nil {
		return "", fmt.Errorf("%s: %v", fn, err)
	}
	var b strings.Builder
	if cfg.headings {
		fmt.Fprintf(&b, "\n%s: %d of %d detections matched\n",
			fn, len(merged.Recs), len(c.Recs))
	}
	if cfg.sexa {
		err = catalog.WriteSexa(&b, merged)
	} else {
		err = catalog.Write(&b, merged)
	}
	if err != nil {
		return "", err
	}
	if cl.fit != "" {
		if err := appendFit(&b, merged, cl.fit); err != nil {
			return "", fmt.Errorf("%s: %v", fn, err)
		}
	}
	return b.String(), nil
}

func appendFit(b *strings.Builder, m *catalog.Catalog, spec string) error {
	cols := strings.Split(spec, ",")
	if len(cols) != 3 {
		return errors.New("-f wants three comma separated column names")
	}
	inst, err := m.Floats(strings.TrimSpace(cols[0]))
	if err != nil {
		return err
	}
	std, err := m.Floats(strings.TrimSpace(cols[1]))
	if err != nil {
		return err
	}
	color, err := m.Floats(strings.TrimSpace(cols[2]))
	if err != nil {
		return err
	}
	fit, err := photcal.FitPhotometric(inst, std, color,
		fitClipSigmas, fitMaxIter)
	if err != nil {
		return err
	}
	fmt.Fprintf(b,
		"zero point %8.4f  color term %7.4f  rms %6.4f  stars %d\n",
		fit.ZeroPoint, fit.ColorTerm, fit.RMS, fit.N)
	return nil
}

type commandLine struct {
	ref    string  // -r, reference catalog
	tolSec float64 // -t, tolerance in arc seconds
	dc     string  // -c, config file
	do     string  // -o, obscode file
	dp     string  // -p, common path for aux files
	mpc    bool    // -m, reference is MPC 80 column
	fit    string  // -f, photometric fit columns
	fns    []string
}

func parseCommandLine() *commandLine {
	var cl commandLine
	dh := flag.Bool("h", false, "")
	dv := flag.Bool("v", false, "")
	flag.StringVar(&cl.ref, "r", "", "")
	flag.Float64Var(&cl.tolSec, "t", 0, "")
	flag.StringVar(&cl.dc, "c", "", "")
	flag.StringVar(&cl.do, "o", "", "")
	flag.StringVar(&cl.dp, "p", "", "")
	flag.BoolVar(&cl.mpc, "m", false, "")
	flag.StringVar(&cl.fit, "f", "", "")
	flag.Usage = func() {
		os.Stderr.WriteString(`
Usage: xmatch [options] <catfile>...  cross-match catalogs against a reference
       xmatch [options] -            cross-match a catalog read from stdin
       xmatch -h                     display help and quick reference
       xmatch -v                     display version and copyright

Options:
       -r <reference-catalog>   required
       -t <arcsec>              match tolerance, required unless set by config
       -m                       reference file is MPC 80 column observations
       -f <inst,std,color>      fit a photometric solution from these columns
       -c <config-file>
       -o <obscode-file>
       -p <path>
`)
	}
	flag.Parse()
	switch {
	case *dh:
		printHelp()
		os.Exit(0)
	case *dv:
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	case flag.NArg() == 0 || cl.ref == "":
		flag.Usage()
		os.Exit(1)
	}
	cl.fns = flag.Args()
	stdin := 0
	for _, fn := range cl.fns {
		if fn == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		exit.Log("Stdin can be read only once.")
	}
	return &cl
}

func printHelp() {
	fmt.Println(`
Xmatch cross-matches source catalogs against a reference catalog by sky
position.  For every detection the nearest reference record within the
tolerance is found; when two detections claim the same reference record
only the closer one keeps it.  Merged records are printed as fixed
width tables, one per input catalog.

Config file keywords:
   headings
   noheadings
   sexagesimal
   decimal
   tol=<arcsec>
   left=<suffix>
   right=<suffix>

For full documentation:
   go doc github.com/vilardellsalles/xmatch`)
}

// readReference loads the reference catalog, through the MPC 80 column
// reader when -m is given, as a plain table otherwise.
func readReference(cl *commandLine) *catalog.Catalog {
	f, err := os.Open(cl.ref)
	if err != nil {
		exit.Log(err)
	}
	defer f.Close()
	var c *catalog.Catalog
	if cl.mpc {
		c, err = catalog.ReadMPC80(f, readOcd(cl))
	} else {
		c, err = catalog.Read(f)
	}
	if err != nil {
		exit.Log(fmt.Errorf("%s: %v", cl.ref, err))
	}
	return c
}

// readOcd loads the observatory code file, fetching a fresh copy from
// the MPC when it cannot be read.
func readOcd(cl *commandLine) observation.ParallaxMap {
	ocdFile := cl.fixupCP(cl.do, "xmatch.obscodes")
	ocdMap, readErr := mpcformat.ReadObscodeDatFile(ocdFile)
	if readErr == nil {
		return ocdMap
	}
	// that didn't work.  try getting a fresh copy.
	if err := mpcformat.FetchObscodeDat(ocdFile); err != nil {
		log.Println(readErr) // show error from read attempt,
		exit.Log(err)        // and error from download attempt
	}
	// retry with downloaded file.  see if this copy works better
	if ocdMap, readErr = mpcformat.ReadObscodeDatFile(ocdFile); readErr != nil {
		exit.Log(readErr)
	}
	return ocdMap
}

func (cl *commandLine) fixupCP(fnSpec, fnDefault string) string {
	if fnSpec > "" {
		return fnSpec
	}
	return filepath.Join(cl.dp, fnDefault)
}

type config struct {
	headings    bool
	sexa        bool
	tolSec      float64 // 0 means not configured
	left, right string  // collision suffixes, empty for library defaults
}

func defaultConfig() *config {
	return &config{headings: true}
}

// readConfig loads the optional configuration file.  A config file is
// required to be present only if -c was used.
func readConfig(cl *commandLine) *config {
	f, err := os.Open(cl.fixupCP(cl.dc, "xmatch.config"))
	if err != nil {
		if cl.dc == "" {
			return defaultConfig()
		}
		exit.Log(err)
	}
	defer f.Close()
	cfg, err := parseConfig(f)
	if err != nil {
		exit.Log(err)
	}
	return cfg
}

var rxKeyVal = regexp.MustCompile(`^[ \t]*([a-z]+)[ \t]*=[ \t]*(.+?)[ \t]*$`)

func parseConfig(r io.Reader) (*config, error) {
	cfg := defaultConfig()
	for lr := bufio.NewReader(r); ; {
		l, isPre, err := lr.ReadLine()
		switch {
		case err == io.EOF:
			return cfg, nil
		case err != nil:
			return nil, err
		case isPre:
			return nil, errors.New("unexpected long line in config file")
		case len(l) == 0:
			continue
		case l[0] == '#':
			continue
		}
		ls := string(l)
		switch strings.TrimSpace(ls) {
		case "headings":
			cfg.headings = true
			continue
		case "noheadings":
			cfg.headings = false
			continue
		case "sexagesimal":
			cfg.sexa = true
			continue
		case "decimal":
			cfg.sexa = false
			continue
		}
		ss := rxKeyVal.FindStringSubmatch(ls)
		if ss == nil {
			return nil, errors.New("unrecognized line in config file: " + ls)
		}
		switch ss[1] {
		case "tol":
			v, err := strconv.ParseFloat(ss[2], 64)
			if err != nil {
				return nil, fmt.Errorf("config tol: %v", err)
			}
			if v <= 0 {
				return nil, errors.New("config tol must be positive")
			}
			cfg.tolSec = v
		case "left":
			cfg.left = ss[2]
		case "right":
			cfg.right = ss[2]
		default:
			return nil, errors.New("unrecognized line in config file: " + ls)
		}
	}
}
