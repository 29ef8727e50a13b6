// Public domain.

package xmprog

import (
	"strings"
	"testing"
)

func TestParseConfig(t *testing.T) {
	in := `
# calibration run
noheadings
sexagesimal
tol = 3
left=_g
right = _r
`
	cfg, err := parseConfig(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.headings {
		t.Fatal("headings still on")
	}
	if !cfg.sexa {
		t.Fatal("sexagesimal not set")
	}
	if cfg.tolSec != 3 {
		t.Fatalf("tol %g, want 3", cfg.tolSec)
	}
	if cfg.left != "_g" || cfg.right != "_r" {
		t.Fatalf("suffixes %q %q, want _g _r", cfg.left, cfg.right)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.headings || cfg.sexa || cfg.tolSec != 0 ||
		cfg.left != "" || cfg.right != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	for _, in := range []string{
		"wibble",
		"tol=0",
		"tol=-1",
		"tol=three",
		"suffix=_x",
	} {
		if _, err := parseConfig(strings.NewReader(in)); err == nil {
			t.Fatalf("no error for config line %q", in)
		}
	}
}
