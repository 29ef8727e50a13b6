/*
Command xmatch cross-matches astronomical source catalogs by sky position.

Contents

Version 1.0

  Program overview
  Command line usage
  Configuring file locations
  File formats
  Algorithm outline

Program overview

Input is one or more catalogs of detected sources, each a text table with
positions and measured attributes, plus a reference catalog.  Output is,
for each input catalog, a merged table pairing every detection with the
nearest reference record within a caller supplied angular tolerance.

A typical use is photometric calibration: detections from two CCD frames
of the same field are merged into two band instrumental photometry, and
that in turn is matched against a standard star catalog.  With the -f
option xmatch also fits the photometric solution, a zero point and color
term, from the matched stars.

Sample run:

Here is a small detection catalog, field1.cat,

  id       ra     dec    mag
  S1  10.0000  41.000  12.31
  S2  10.0042  41.003  13.05

and a reference catalog, std.cat, with the same two stars plus others.
Typing "xmatch -r std.cat -t 3 field1.cat" matches each detection to the
nearest standard within 3 arc seconds and prints the merged table.  A
detection with no standard within tolerance is dropped from the output,
as is the farther of two detections claiming the same standard.

Command line usage

The main executable is xmatch.  Invoking the program without command
line arguments (or with invalid arguments) shows this usage prompt.

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

The tolerance has no default.  Different call sites of a matching
pipeline legitimately want different tolerances, so every run states its
own, either with -t or with the tol keyword in the config file.  -t wins
when both are given.

Configuring file locations

xmatch reads detection catalogs named on the command line or from stdin,
and a reference catalog named with -r.  Two auxiliary files may also be
read: an optional configuration file, default name xmatch.config, and,
only when -m is used, an observatory code file, default name
xmatch.obscodes.  If the obscode file is missing, xmatch downloads a
copy from the Minor Planet Center web site.

The -p option specifies a common path for the auxiliary files.  A path
given with -c or -o takes precedence; that is, the path specified with
-p is not joined with a file name specified with -c or -o.  A
configuration file is required to be present if -c is used.

File formats

Catalogs are whitespace delimited text tables.  The first data line is
a header of column names; empty lines and lines beginning with # are
ignored.  Cells that parse as numbers are numbers, anything else is a
string.  Two column names are special: ra and dec hold the source
position in decimal degrees on a shared celestial reference frame.
Output tables are in the same format, fixed width and right aligned, so
an output catalog feeds straight back in as an input.

With -m the reference file instead holds observations in the MPC 80
column format, which are converted to catalog records with columns
desig, ra, dec, mjd, vmag and site.

The configuration file is a text file with a simple format.  Empty
lines and lines beginning with # are ignored.  Other lines contain a
keyword:

   headings
   noheadings
   sexagesimal
   decimal
   tol=<arcsec>
   left=<suffix>
   right=<suffix>

Headings can be turned off for output to be consumed by another
program.  The keyword sexagesimal renders output positions in
sexagesimal notation rather than decimal degrees.  The left and right
keywords set the suffixes appended to column names present in both
catalogs of a merge, default _left and _right.

Algorithm outline

1.  For every record of an input catalog, the program finds the nearest
reference record by great circle separation on the sphere, computed
with the haversine formula.  Ties are broken toward the earlier
reference record, deterministically.

2.  When several input records nominate the same reference record, the
nomination with the smallest separation survives and the others are
dropped entirely.  A dropped record is not reassigned to its second
nearest neighbor: the merge is one to one by construction, not an
assignment problem solution.

3.  Surviving pairs farther apart than the tolerance are dropped.

4.  Each surviving pair becomes one merged record, all input fields
followed by all reference fields.  Column names appearing on both sides
get distinguishing suffixes, except the position columns: the input
position is authoritative, so input ra/dec keep their names and only
the reference ones are suffixed.

5.  With -f, the named instrumental magnitude, standard magnitude and
color columns of the merged table are fed to a least squares fit of
standard minus instrumental magnitude against color, with iterative 3
sigma clipping of residuals.  The fitted zero point and color term are
printed after the table.

The companion commands mkcat and xmstat generate synthetic star field
catalogs and report match statistics for a pair of catalogs.

-------------
Public domain.
*/
package main
