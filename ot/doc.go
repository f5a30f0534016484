/*
Package ot provides access to the container structure of OpenType font files.
Intended audience for this package are:

▪︎ name table editors, which need to swap out a font's 'name' or 'CFF ' table
and write the font back with correct checksums

▪︎ style inspectors, which need a handful of fields from 'head', 'OS/2' and 'post'

Package `ot` will not interpret the naming table itself. It exposes every table of
a font as a binary segment, offers typed views for the few tables whose fields
drive the naming of a font (weight and width classes, style bits, italic angle),
and re-assembles a font from (possibly replaced) table data.
Decoding and encoding of name records lives in package `names`, the compact
string table of CFF fonts in package `cff`.

OpenType fonts frequently infringe upon the OT specification in small ways.
Package `ot` collects such findings as errors and warnings instead of failing,
as long as the tables needed for naming are intact.

# Status

No font collections (*.ttc, *.otc) are supported. Variable fonts are handled
like static fonts, i.e. 'fvar' and 'STAT' are carried over unchanged.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}
