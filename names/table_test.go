package names

import (
	"errors"
	"testing"

	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/sfnt"
)

// --- Test Suite Preparation ------------------------------------------------

type TableTestEnviron struct {
	suite.Suite
	table *Table
}

// listen for 'go test' command --> run test methods
func TestTableOperations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.names")
	defer teardown()
	suite.Run(t, new(TableTestEnviron))
}

// run before each test: a family with Windows and Mac records for IDs 1, 2, 4, 6
func (env *TableTestEnviron) SetupTest() {
	env.table = NewTable()
	for _, id := range []sfnt.NameID{1, 2, 4, 6} {
		v := map[sfnt.NameID]string{1: "Lato", 2: "Regular", 4: "Lato Regular", 6: "Lato-Regular"}[id]
		env.Require().NoError(env.table.Set(id, v, "", BothPlatforms))
	}
}

// --- Tests -----------------------------------------------------------------

func (env *TableTestEnviron) TestSetBothPlatforms() {
	env.Equal(8, env.table.Len())
	env.Equal("Lato", env.table.Name(sfnt.NameIDFamily, PlatformWindows).Or(""))
	env.Equal("Lato", env.table.Name(sfnt.NameIDFamily, PlatformMacintosh).Or(""))
	env.Require().NoError(env.table.Set(sfnt.NameIDFamily, "Lato Pro", "", BothPlatforms))
	env.Equal(8, env.table.Len(), "expected Set to overwrite existing records")
	env.Equal("Lato Pro", env.table.Lookup(WindowsKey(sfnt.NameIDFamily)).Or(""))
}

func (env *TableTestEnviron) TestSetLanguage() {
	env.Require().NoError(env.table.Set(sfnt.NameIDSubfamily, "Standard", "de", BothPlatforms))
	env.Equal("Standard", env.table.Lookup(Key{3, 1, 0x407, 2}).Or(""))
	env.Equal("Standard", env.table.Lookup(Key{1, 0, 2, 2}).Or(""))
	// non-Roman language: Mac record skipped for both, rejected for Mac only
	env.Require().NoError(env.table.Set(sfnt.NameIDSubfamily, "Обычный", "ru", BothPlatforms))
	env.True(env.table.Lookup(Key{3, 1, 0x419, 2}).IsSome())
	env.True(env.table.Lookup(Key{1, 0, 32, 2}).IsNone())
	err := env.table.Set(sfnt.NameIDSubfamily, "Обычный", "ru", Macintosh)
	env.True(errors.Is(err, ot.ErrInvalidArgument), "expected invalid argument, have %v", err)
	err = env.table.Set(sfnt.NameIDSubfamily, "x", "xx-unknown", Windows)
	env.True(errors.Is(err, ot.ErrInvalidArgument), "expected invalid argument, have %v", err)
}

func (env *TableTestEnviron) TestDelete() {
	env.Require().NoError(env.table.Set(sfnt.NameIDFamily, "Lato", "fr", Windows))
	n, err := env.table.Delete(sfnt.NameIDFamily, "", Windows)
	env.Require().NoError(err)
	env.Equal(1, n)
	env.True(env.table.Lookup(Key{3, 1, 0x40C, 1}).IsSome(), "expected French record to survive")
	n, err = env.table.Delete(sfnt.NameIDFamily, AllLanguages, BothPlatforms)
	env.Require().NoError(err)
	env.Equal(2, n)
	n, err = env.table.Delete(sfnt.NameIDFamily, AllLanguages, BothPlatforms)
	env.Require().NoError(err, "expected deleting missing records to be a no-op")
	env.Equal(0, n)
}

func (env *TableTestEnviron) TestCopy() {
	err := env.table.Copy(NameRef{PlatformWindows, 6}, NameRef{PlatformWindows, 20})
	env.Require().NoError(err)
	env.Equal("Lato-Regular", env.table.Lookup(WindowsKey(20)).Or(""))
	env.True(env.table.Lookup(MacKey(20)).IsNone(), "expected copy to target Windows only")
	err = env.table.Copy(NameRef{PlatformMacintosh, 3}, NameRef{PlatformWindows, 3})
	env.True(errors.Is(err, ot.ErrNotFound), "expected not found, have %v", err)
}

func (env *TableTestEnviron) TestCopyOntoItself() {
	src := NameRef{PlatformWindows, 6}
	err := env.table.Copy(src, src)
	env.True(errors.Is(err, ot.ErrInvalidArgument))
	err = NewTable().Copy(src, src)
	env.True(errors.Is(err, ot.ErrInvalidArgument), "expected identical refs to fail on any table")
}

func (env *TableTestEnviron) TestFindReplace() {
	before := env.table.Clone()
	n, err := env.table.FindReplace("Lato", "Pato", Filter{}, nil)
	env.Require().NoError(err)
	env.Equal(6, n) // IDs 1, 4, 6 on both platforms
	n, err = env.table.FindReplace("Pato", "Lato", Filter{}, nil)
	env.Require().NoError(err)
	env.Equal(6, n)
	env.Equal(before.Records(), env.table.Records(), "expected round trip to restore values")
	n, err = env.table.FindReplace("Regular", "", Filter{
		Name:     ot.Some(sfnt.NameIDFull),
		Platform: ot.Some(PlatformWindows),
	}, nil)
	env.Require().NoError(err)
	env.Equal(1, n)
	env.Equal("Lato ", env.table.Lookup(WindowsKey(sfnt.NameIDFull)).Or(""))
	n, _ = env.table.FindReplace("Nonexistent", "X", Filter{}, nil)
	env.Equal(0, n)
}

type failingStrings struct {
	replaced []string
}

func (fs *failingStrings) FieldNames() []string { return []string{"FullName", "Weight"} }

func (fs *failingStrings) ReplaceInField(field, old, new string) (bool, error) {
	if field == "FullName" {
		return false, errors.New("broken field")
	}
	fs.replaced = append(fs.replaced, field)
	return true, nil
}

func (env *TableTestEnviron) TestFindReplaceCompact() {
	fs := &failingStrings{}
	n, err := env.table.FindReplace("Regular", "Book", Filter{Name: ot.Some(sfnt.NameIDSubfamily)}, fs)
	env.Require().NoError(err, "expected failing compact field to be tolerated")
	env.Equal(3, n)
	env.Equal([]string{"Weight"}, fs.replaced)
}

func (env *TableTestEnviron) TestCopyWindowsToMac() {
	env.table.DeleteMacRecords()
	env.Require().NoError(env.table.Set(sfnt.NameIDFamily, "Lato", "de", Windows))
	env.Require().NoError(env.table.Set(sfnt.NameIDFamily, "Лато", "ru", Windows))
	env.Require().NoError(env.table.Set(sfnt.NameIDFamily, "Lato Mac", "", Macintosh))
	n := env.table.CopyWindowsToMac()
	env.Equal(4, n) // 2, 4, 6 in English plus German family
	env.Equal("Lato Mac", env.table.Lookup(MacKey(1)).Or(""), "expected existing Mac record to be kept")
	once := env.table.Clone()
	env.Equal(0, env.table.CopyWindowsToMac())
	env.Equal(once.Records(), env.table.Records(), "expected CopyWindowsToMac to be idempotent")
}

func (env *TableTestEnviron) TestDeleteMacRecords() {
	n := env.table.DeleteMacRecords(1, 6)
	env.Equal(2, n)
	env.True(env.table.Lookup(MacKey(1)).IsSome())
	env.True(env.table.Lookup(MacKey(2)).IsNone())
	env.Equal(6, env.table.Len())
}

// ---------------------------------------------------------------------------

func TestParsePlatforms(t *testing.T) {
	for in, out := range map[string]Platforms{"": BothPlatforms, "win": Windows, "MAC": Macintosh, "3": Windows} {
		p, err := ParsePlatforms(in)
		if err != nil || p != out {
			t.Errorf("expected %q to parse to %v, have %v (%v)", in, out, p, err)
		}
	}
	if _, err := ParsePlatforms("amiga"); !errors.Is(err, ot.ErrInvalidArgument) {
		t.Errorf("expected malformed platform to be an invalid argument")
	}
}

func TestLookupLanguage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.names")
	defer teardown()
	//
	for tag, lcid := range map[string]uint16{"": 0x409, "en": 0x409, "EN": 0x409, "de": 0x407,
		"fr": 0x40C, "pt-PT": 0x816, "ja": 0x411} {
		l, err := LookupLanguage(tag)
		if err != nil || l.WindowsID != lcid {
			t.Errorf("expected language %q to have LCID %#x, have %#x (%v)", tag, lcid, l.WindowsID, err)
		}
	}
	if _, err := LookupLanguage("not a tag!"); !errors.Is(err, ot.ErrInvalidArgument) {
		t.Errorf("expected malformed tag to be rejected")
	}
}

func TestNameIDDescription(t *testing.T) {
	if NameIDDescription(6) != "PostScript name" {
		t.Errorf("unexpected description %q", NameIDDescription(6))
	}
	if NameIDDescription(300) != "Font-specific name" {
		t.Errorf("unexpected description %q", NameIDDescription(300))
	}
	if PlatformWindows.String() != "Windows" {
		t.Errorf("unexpected platform name %q", PlatformWindows.String())
	}
}

func TestLanguageOf(t *testing.T) {
	if l := LanguageOf(WindowsKey(1)); l.MustUnwrap().Tag != "en" {
		t.Errorf("expected Windows key to be English, is %v", l)
	}
	if l := LanguageOf(Key{PlatformMacintosh, EncodingMacRoman, 2, 1}); l.MustUnwrap().Tag != "de" {
		t.Errorf("expected Mac language 2 to be German")
	}
	if LanguageOf(Key{PlatformWindows, EncodingWindowsBMP, 0x8000, 1}).IsSome() {
		t.Errorf("expected language-tag record to have no table language")
	}
	if LanguageOf(Key{PlatformUnicode, EncodingUnicodeBMP, 0, 1}).IsSome() {
		t.Errorf("expected Unicode record to have no language")
	}
}

func TestParseNameRef(t *testing.T) {
	ref, err := ParseNameRef("win:6")
	if err != nil || ref != (NameRef{PlatformWindows, 6}) {
		t.Errorf("expected win:6, have %v (%v)", ref, err)
	}
	ref, err = ParseNameRef(" 1:16")
	if err != nil || ref != (NameRef{PlatformMacintosh, 16}) {
		t.Errorf("expected mac:16, have %v (%v)", ref, err)
	}
	for _, bad := range []string{"6", "both:6", ":6", "win:x", "mac:-1"} {
		if _, err := ParseNameRef(bad); !errors.Is(err, ot.ErrInvalidArgument) {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}
