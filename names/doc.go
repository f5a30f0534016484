/*
Package names holds the name records of an OpenType font and operates on them.

A name record is keyed by a (platform, encoding, language, name ID) tuple.
Table is a mapping of such keys to strings: setting a record at an existing
key overwrites it. Operations which target "a name" without further detail
(Set, Delete, Copy) keep the Windows and the Macintosh platform in sync,
i.e. they act on the Windows record (3, 1, LCID) and on the Macintosh record
(1, 0, Mac language code) for the same language.

Records in encodings we cannot decode (CJK Macintosh encodings, legacy
Windows code pages) are carried along as opaque bytes and written back
unchanged.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package names

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otname.names'
func tracer() tracing.Trace {
	return tracing.Select("otname.names")
}
