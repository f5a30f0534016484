/*
Package otname edits the naming metadata of OpenType fonts.

A Font bundles the parsed container of a font file with its decoded 'name'
table and, for fonts with PostScript outlines, its 'CFF ' table. Names and
style attributes are changed in memory and written to a new font file with
Save, which re-assembles the container and recalculates all checksums.

Names derived from style attributes are synthesized by package style; a
whole directory of fonts is renamed with package batch, using a Persister
from this package to write the results.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

Naming table:
https://learn.microsoft.com/en-us/typography/opentype/spec/name

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otname

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otname.font'
func tracer() tracing.Trace {
	return tracing.Select("otname.font")
}
