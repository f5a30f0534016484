package names

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/otname/ot"
	"golang.org/x/image/font/sfnt"
)

// Key identifies a name record in OpenType table 'name'.
// The key follows the OpenType NameRecord fields directly.
type Key struct {
	Platform PlatformID
	Encoding EncodingID
	Language uint16
	Name     sfnt.NameID // see https://pkg.go.dev/golang.org/x/image/font/sfnt#NameID
}

func (k Key) String() string {
	return fmt.Sprintf("(%d,%d,%#x,%d)", k.Platform, k.Encoding, k.Language, k.Name)
}

func (k Key) less(o Key) bool {
	if k.Platform != o.Platform {
		return k.Platform < o.Platform
	}
	if k.Encoding != o.Encoding {
		return k.Encoding < o.Encoding
	}
	if k.Language != o.Language {
		return k.Language < o.Language
	}
	return k.Name < o.Name
}

// WindowsKey returns the key of the English Windows record for a name ID.
func WindowsKey(id sfnt.NameID) Key {
	return Key{PlatformWindows, EncodingWindowsBMP, LanguageWindowsEnglish, id}
}

// MacKey returns the key of the English Macintosh record for a name ID.
func MacKey(id sfnt.NameID) Key {
	return Key{PlatformMacintosh, EncodingMacRoman, LanguageMacEnglish, id}
}

// Record is a decoded name record.
type Record struct {
	Key
	Value string
}

// Table is the set of name records of a font. At most one record exists per key.
//
// A Table is not safe for concurrent modification.
type Table struct {
	records  map[Key]string
	opaque   map[Key][]byte // undecodable records, written back unchanged
	langTags []string       // format 1 language-tag records
}

// NewTable creates an empty name table.
func NewTable() *Table {
	return &Table{
		records: make(map[Key]string),
		opaque:  make(map[Key][]byte),
	}
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := NewTable()
	for k, v := range t.records {
		c.records[k] = v
	}
	for k, v := range t.opaque {
		c.opaque[k] = append([]byte(nil), v...)
	}
	c.langTags = append(c.langTags, t.langTags...)
	return c
}

// Len returns the number of records, including undecodable ones.
func (t *Table) Len() int {
	return len(t.records) + len(t.opaque)
}

// Lookup returns the value of the record at key.
func (t *Table) Lookup(key Key) ot.Option[string] {
	v, ok := t.records[key]
	return ot.Maybe(v, ok)
}

// Name returns the value of the English record for a name ID on a platform.
// For the Unicode platform, the record (0, 3, 0) is looked up.
func (t *Table) Name(id sfnt.NameID, platform PlatformID) ot.Option[string] {
	switch platform {
	case PlatformWindows:
		return t.Lookup(WindowsKey(id))
	case PlatformMacintosh:
		return t.Lookup(MacKey(id))
	case PlatformUnicode:
		return t.Lookup(Key{PlatformUnicode, EncodingUnicodeBMP, 0, id})
	}
	return ot.None[string]()
}

// Records returns the decoded records in table order.
func (t *Table) Records() []Record {
	recs := make([]Record, 0, len(t.records))
	for k, v := range t.records {
		recs = append(recs, Record{k, v})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Key.less(recs[j].Key) })
	return recs
}

// LanguageTag returns the BCP 47 tag of a language-tag record referenced
// by a language ID ≥ 0x8000.
func (t *Table) LanguageTag(langID uint16) ot.Option[string] {
	if langID < langTagBase || int(langID-langTagBase) >= len(t.langTags) {
		return ot.None[string]()
	}
	return ot.Some(t.langTags[langID-langTagBase])
}

// setRecord writes a decoded record and drops an undecodable one at the same key.
func (t *Table) setRecord(key Key, value string) {
	delete(t.opaque, key)
	t.records[key] = value
}

func (t *Table) deleteRecord(key Key) bool {
	_, ok1 := t.records[key]
	_, ok2 := t.opaque[key]
	delete(t.records, key)
	delete(t.opaque, key)
	return ok1 || ok2
}

// --- Operations ------------------------------------------------------------

// Set writes value into the record for name ID id and language lang on the
// selected platforms. An existing record at the same key is overwritten.
//
// The language is a BCP 47 tag, with the empty string meaning English.
// If a language has no Macintosh Roman representation, the Macintosh record
// is skipped when writing to both platforms, and an error of kind
// ot.ErrInvalidArgument is returned if the Macintosh platform is the only
// target.
func (t *Table) Set(id sfnt.NameID, value string, lang string, platforms Platforms) error {
	if platforms&BothPlatforms == 0 {
		return ot.Errorf(ot.ErrInvalidArgument, "no platform selected")
	}
	l, err := LookupLanguage(lang)
	if err != nil {
		return err
	}
	if platforms.Has(PlatformMacintosh) && !l.MacRoman && !platforms.Has(PlatformWindows) {
		return ot.Errorf(ot.ErrInvalidArgument, "language %s cannot be written to Macintosh records", l.Tag)
	}
	if platforms.Has(PlatformWindows) {
		t.setRecord(Key{PlatformWindows, EncodingWindowsBMP, l.WindowsID, id}, value)
	}
	if platforms.Has(PlatformMacintosh) {
		if l.MacRoman {
			if !MacRomanSafe(value) {
				tracer().Infof("name %d: %q is not representable in Mac Roman", id, value)
			}
			t.setRecord(Key{PlatformMacintosh, EncodingMacRoman, l.MacID, id}, value)
		} else {
			tracer().Infof("name %d: no Macintosh record for language %s", id, l.Tag)
		}
	}
	return nil
}

// AllLanguages is the language wildcard for Delete.
const AllLanguages = "ALL"

// Delete removes the records for name ID id and language lang on the selected
// platforms. With lang set to AllLanguages, records in every language are
// removed. Deleting records which do not exist is not an error.
// It returns the number of records removed.
func (t *Table) Delete(id sfnt.NameID, lang string, platforms Platforms) (int, error) {
	all := strings.EqualFold(lang, AllLanguages)
	var l Language
	if !all {
		var err error
		if l, err = LookupLanguage(lang); err != nil {
			return 0, err
		}
	}
	match := func(k Key) bool {
		if k.Name != id || !platforms.Has(k.Platform) {
			return false
		}
		if all {
			return true
		}
		if k.Platform == PlatformWindows {
			return k.Language == l.WindowsID
		}
		return l.MacRoman && k.Language == l.MacID
	}
	n := 0
	for _, k := range t.keys() {
		if match(k) && t.deleteRecord(k) {
			n++
		}
	}
	tracer().Debugf("deleted %d records for name ID %d", n, id)
	return n, nil
}

// NameRef references a name on a platform, e.g. Windows name ID 6.
type NameRef struct {
	Platform PlatformID
	Name     sfnt.NameID
}

func (r NameRef) String() string {
	return fmt.Sprintf("%s:%d", r.Platform, r.Name)
}

// ParseNameRef reads a name reference as given on a command line, e.g.
// "win:6" or "1:4".
func ParseNameRef(s string) (NameRef, error) {
	plat, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return NameRef{}, ot.Errorf(ot.ErrInvalidArgument, "name reference %q must be <platform>:<name ID>", s)
	}
	p, err := ParsePlatforms(plat)
	if err != nil || p == BothPlatforms {
		return NameRef{}, ot.Errorf(ot.ErrInvalidArgument, "name reference %q: platform must be 'win' or 'mac'", s)
	}
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 || n > 32767 {
		return NameRef{}, ot.Errorf(ot.ErrInvalidArgument, "name reference %q: bad name ID", s)
	}
	ref := NameRef{Platform: PlatformWindows, Name: sfnt.NameID(n)}
	if p == Macintosh {
		ref.Platform = PlatformMacintosh
	}
	return ref, nil
}

// Copy reads the English record for src and writes its value to dst.
// It fails with ot.ErrInvalidArgument if src and dst are identical, and
// with ot.ErrNotFound if no record exists for src.
func (t *Table) Copy(src, dst NameRef) error {
	if src == dst {
		return ot.Errorf(ot.ErrInvalidArgument, "cannot copy name %s onto itself", src)
	}
	dstPlatforms, err := PlatformsFor(dst.Platform)
	if err != nil {
		return err
	}
	if _, err := PlatformsFor(src.Platform); err != nil {
		return err
	}
	v, ok := t.Name(src.Name, src.Platform).Unwrap()
	if !ok {
		return ot.Errorf(ot.ErrNotFound, "no record for name %s", src)
	}
	return t.Set(dst.Name, v, "", dstPlatforms)
}

// Filter narrows the records FindReplace operates on.
type Filter struct {
	Name     ot.Option[sfnt.NameID]
	Platform ot.Option[PlatformID]
}

func (f Filter) matches(k Key) bool {
	if id, ok := f.Name.Unwrap(); ok && k.Name != id {
		return false
	}
	if p, ok := f.Platform.Unwrap(); ok && k.Platform != p {
		return false
	}
	return true
}

// CompactStrings is a secondary table of a font's strings, like the Top DICT
// of a CFF font. Fields are addressed by name.
type CompactStrings interface {
	FieldNames() []string
	ReplaceInField(field, old, new string) (bool, error)
}

// FindReplace replaces every occurrence of old with new in all records
// matching filter. new may be empty. If compact is non-nil, the replacement
// is applied to each of its fields as well; a failing field is traced and
// skipped.
//
// It returns the number of records and fields changed.
func (t *Table) FindReplace(old, new string, filter Filter, compact CompactStrings) (int, error) {
	if old == "" {
		return 0, ot.Errorf(ot.ErrInvalidArgument, "search string must not be empty")
	}
	n := 0
	for _, k := range t.keys() {
		v, ok := t.records[k]
		if !ok || !filter.matches(k) || !strings.Contains(v, old) {
			continue
		}
		t.records[k] = strings.ReplaceAll(v, old, new)
		n++
	}
	if compact != nil {
		for _, field := range compact.FieldNames() {
			changed, err := compact.ReplaceInField(field, old, new)
			if err != nil {
				tracer().Errorf("compact string %s: %v", field, err)
				continue
			}
			if changed {
				n++
			}
		}
	}
	tracer().Debugf("find/replace %q → %q changed %d entries", old, new, n)
	return n, nil
}

// CopyWindowsToMac creates a Macintosh record for every Windows record which
// does not have one yet. Existing Macintosh records are never overwritten.
// Windows records in languages without a Mac Roman representation are skipped.
// It returns the number of records created.
func (t *Table) CopyWindowsToMac() int {
	n := 0
	for _, k := range t.keys() {
		if k.Platform != PlatformWindows {
			continue
		}
		v, ok := t.records[k]
		if !ok {
			continue
		}
		l, ok := languageForWindowsID(k.Language)
		if !ok || !l.MacRoman {
			continue
		}
		mk := Key{PlatformMacintosh, EncodingMacRoman, l.MacID, k.Name}
		if _, exists := t.records[mk]; exists {
			continue
		}
		if _, exists := t.opaque[mk]; exists {
			continue
		}
		t.records[mk] = v
		n++
	}
	return n
}

// DeleteMacRecords removes every Macintosh record whose name ID is not in
// exclude. It returns the number of records removed.
func (t *Table) DeleteMacRecords(exclude ...sfnt.NameID) int {
	keep := make(map[sfnt.NameID]bool, len(exclude))
	for _, id := range exclude {
		keep[id] = true
	}
	n := 0
	for _, k := range t.keys() {
		if k.Platform == PlatformMacintosh && !keep[k.Name] && t.deleteRecord(k) {
			n++
		}
	}
	return n
}

// keys returns all keys, decoded and opaque, in table order.
func (t *Table) keys() []Key {
	keys := make([]Key, 0, t.Len())
	for k := range t.records {
		keys = append(keys, k)
	}
	for k := range t.opaque {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}
