/*
Package batch recalculates the names of a set of font files.

A batch is a table with one row per font file. A row holds the family name
and the style attributes of a font, together with the style words and the
names derived from them. Rows are initialized from the fonts, saved to and
loaded from a CSV file, edited, and recalculated from a source: the file
name, one or more name records, or a field of the CFF table. Finally they
are applied to the fonts through a Persister.

Files are processed one after the other. A failure in one file is recorded
in the run's Report and does not stop the batch.

Operations which discard rows or manual edits (Init, Reset) require a
confirmation from the caller.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package batch

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otname.batch'
func tracer() tracing.Trace {
	return tracing.Select("otname.batch")
}
