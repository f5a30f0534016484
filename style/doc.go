/*
Package style derives the style attributes of a font and the names which
follow from them.

Style attributes (bold, italic, oblique, weight class, width class) are
resolved from a font's OS/2 and head bits, with explicit overrides taking
precedence. From a family name, the attributes and a word dictionary,
Synthesize derives the RIBBI names (legacy family and subfamily, name IDs
1 and 2), the typographic names (IDs 16 and 17) for styles outside of the
four RIBBI buckets, the full name (ID 4) and the PostScript name (ID 6).

The package also contains the tokenizer used to recover style attributes
from strings such as file names ("Lato-SemiBoldItalic.ttf") or existing
name records ("Lato SemiBold Italic").

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package style

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otname.style'
func tracer() tracing.Trace {
	return tracing.Select("otname.style")
}
