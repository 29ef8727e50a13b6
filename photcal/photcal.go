// Public domain.

// Package photcal reduces instrumental photometry to a standard system.
//
// The reduction is a linear fit of the difference between standard and
// instrumental magnitudes against a standard color index,
//
//	std - inst = ZeroPoint + ColorTerm*color
//
// solved by least squares with iterative sigma clipping of residuals,
// the usual all sky calibration against a reference star catalog.
package photcal

import (
	"fmt"
	"math"
)

// InstrMag converts a background subtracted flux and an exposure time
// to an instrumental magnitude, -2.5 log10(flux/exptime).
func InstrMag(flux, exptime float64) (float64, error) {
	if flux <= 0 {
		return 0, fmt.Errorf("photcal: flux must be positive, have %g", flux)
	}
	if exptime <= 0 {
		return 0, fmt.Errorf("photcal: exposure time must be positive, have %g",
			exptime)
	}
	return -2.5 * math.Log10(flux/exptime), nil
}

// MeanStdDev returns the mean and the population standard deviation of x.
// Both are zero for empty x.
func MeanStdDev(x []float64) (mean, std float64) {
	if len(x) == 0 {
		return
	}
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	for _, v := range x {
		d := v - mean
		std += d * d
	}
	return mean, math.Sqrt(std / float64(len(x)))
}

// SigmaClip iteratively rejects values more than sigmas standard
// deviations from the mean of the surviving values, recomputing mean
// and deviation after each pass, for at most maxIter passes or until a
// pass rejects nothing.
//
// Returned are the final mean and standard deviation and a mask, kept,
// parallel to x, true for survivors.
func SigmaClip(x []float64, sigmas float64, maxIter int) (mean, std float64, kept []bool) {
	kept = make([]bool, len(x))
	for i := range kept {
		kept[i] = true
	}
	s := make([]float64, 0, len(x))
	for it := 0; it < maxIter; it++ {
		s = s[:0]
		for i, v := range x {
			if kept[i] {
				s = append(s, v)
			}
		}
		mean, std = MeanStdDev(s)
		clipped := false
		for i, v := range x {
			if kept[i] && math.Abs(v-mean) > sigmas*std {
				kept[i] = false
				clipped = true
			}
		}
		if !clipped {
			break
		}
	}
	return mean, std, kept
}

// Fit holds a photometric solution, std = inst + ZeroPoint + ColorTerm*color.
type Fit struct {
	ZeroPoint float64
	ColorTerm float64
	RMS       float64 // of residuals over surviving points
	N         int     // points surviving the clipping
}

// FitPhotometric solves zero point and color term from matched
// instrumental and standard magnitudes.
//
// Slices inst, std and color are parallel, one entry per matched star.
// After each least squares pass, points with residuals more than
// clipSigmas standard deviations from zero are removed and the fit
// repeated, for at most maxIter passes or until no point is removed.
//
// It is an error to call with fewer than two points, with mismatched
// slice lengths, or when the surviving color values are all equal, which
// leaves the color term unconstrained.
func FitPhotometric(inst, std, color []float64, clipSigmas float64, maxIter int) (Fit, error) {
	if len(std) != len(inst) || len(color) != len(inst) {
		return Fit{}, fmt.Errorf(
			"photcal: mismatched slice lengths %d, %d, %d",
			len(inst), len(std), len(color))
	}
	if maxIter < 1 {
		maxIter = 1
	}
	kept := make([]bool, len(inst))
	for i := range kept {
		kept[i] = true
	}
	var f Fit
	for it := 0; it < maxIter; it++ {
		var err error
		f, err = lsq(inst, std, color, kept)
		if err != nil {
			return Fit{}, err
		}
		clipped := false
		for i := range inst {
			if !kept[i] {
				continue
			}
			r := std[i] - inst[i] - f.ZeroPoint - f.ColorTerm*color[i]
			if math.Abs(r) > clipSigmas*f.RMS {
				kept[i] = false
				clipped = true
			}
		}
		if !clipped {
			break
		}
	}
	return f, nil
}

// lsq is a single unclipped pass, ordinary least squares of
// y = std-inst on color over the surviving points.
func lsq(inst, std, color []float64, kept []bool) (Fit, error) {
	var n float64
	var sx, sy, sxx, sxy float64
	for i := range inst {
		if !kept[i] {
			continue
		}
		x := color[i]
		y := std[i] - inst[i]
		n++
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	if n < 2 {
		return Fit{}, fmt.Errorf("photcal: %d points, need at least 2", int(n))
	}
	d := n*sxx - sx*sx
	if d == 0 {
		return Fit{}, fmt.Errorf("photcal: color range degenerate")
	}
	ct := (n*sxy - sx*sy) / d
	zp := (sy - ct*sx) / n
	var ss float64
	for i := range inst {
		if !kept[i] {
			continue
		}
		r := std[i] - inst[i] - zp - ct*color[i]
		ss += r * r
	}
	return Fit{
		ZeroPoint: zp,
		ColorTerm: ct,
		RMS:       math.Sqrt(ss / n),
		N:         int(n),
	}, nil
}
