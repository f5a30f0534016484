/*
Package otquery answers read-only questions about a font: its name records,
the style fields of tables head and OS/2, and a general summary.

Queries never fail. Missing or truncated tables yield zero values and a
false flag.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otname.font'
func tracer() tracing.Trace {
	return tracing.Select("otname.font")
}
