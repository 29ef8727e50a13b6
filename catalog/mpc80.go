// Public domain.

package catalog

import (
	"io"

	"github.com/soniakeys/mpcformat"
	"github.com/soniakeys/observation"
	"github.com/soniakeys/unit"
)

// ReadMPC80 builds a catalog from observations in the MPC 80 column
// format, one record per observation.
//
// Columns are desig, ra, dec, mjd, vmag and site, with positions in
// decimal degrees.  Lines that do not parse, including lines with
// observatory codes missing from ocd, are quietly dropped, matching
// how the observation stream is consumed elsewhere.  Read errors are
// fatal to the call.
func ReadMPC80(r io.Reader, ocd observation.ParallaxMap) (*Catalog, error) {
	c := &Catalog{
		Cols: []string{"desig", RACol, DecCol, "mjd", "vmag", "site"},
	}
	for s := mpcformat.ArcSplitter(r, ocd); ; {
		a, err := s()
		if err == nil {
			for _, o := range a.Obs {
				m := o.Meas()
				c.Recs = append(c.Recs, Record{
					a.Desig,
					unit.Angle(m.RA).Deg(),
					unit.Angle(m.Dec).Deg(),
					float64(m.MJD),
					float64(m.VMag),
					m.Qual,
				})
			}
			continue
		}
		if err == io.EOF {
			break
		}
		if _, ok := err.(mpcformat.ArcError); ok {
			continue
		}
		return nil, err
	}
	return c, nil
}
