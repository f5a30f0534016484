package otquery

import (
	"testing"

	"github.com/npillmayer/otname/internal/fonttest"
	"github.com/npillmayer/otname/names"
	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type InfoTestEnviron struct {
	suite.Suite
	otf   *ot.Font
	names *names.Table
}

// listen for 'go test' command --> run test methods
func TestInfoFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.font")
	defer teardown()
	suite.Run(t, new(InfoTestEnviron))
}

// run once, before test suite methods
func (env *InfoTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	recs := fonttest.Family("Lato", "Italic", "Lato-LightItalic")
	recs = append(recs,
		fonttest.Record{Platform: 3, Encoding: 1, Language: 0x409, NameID: 16, Value: "Lato Light"},
		fonttest.Record{Platform: 3, Encoding: 1, Language: 0x407, NameID: 2, Value: "Kursiv"},
		fonttest.Record{Platform: 3, Encoding: 1, Language: 0x409, NameID: 0, Value: "Copyright Lato"},
	)
	st := fonttest.Style{OS2Version: 4, WeightClass: 300, WidthClass: 5,
		FsSelection: ot.FsSelectionItalic, MacStyle: ot.MacStyleItalic, ItalicAngle: -12}
	var err error
	env.otf, err = ot.Parse(fonttest.Build(fonttest.Params{Records: recs, Style: st}))
	env.Require().NoError(err)
	env.names, err = names.Decode(env.otf.Table(ot.T("name")).Binary())
	env.Require().NoError(err)
}

// --- Tests -----------------------------------------------------------------

func (env *InfoTestEnviron) TestFontTypeInfo() {
	fti := FontType(env.otf)
	env.Equal("TrueType", fti, "expected font type of test font to be TrueType")
}

func (env *InfoTestEnviron) TestGeneralInfo() {
	info := NameInfo(env.names)
	env.T().Logf("info = %v", info)
	fam, ok := info["family"]
	env.Require().True(ok, "font familiy identifier not found in font info")
	env.Equal("Lato", fam, "expected font family name 'Lato'")
	env.Equal("Copyright Lato", info["copyright"])
	env.Equal("Lato Light", info["typographic-family"])
	_, ok = info["designer"]
	env.False(ok, "expected absent name to have no entry")
}

func (env *InfoTestEnviron) TestFamilyName() {
	fam, sub := FamilyName(env.names)
	env.Equal("Lato Light", fam, "expected typographic family to be preferred")
	env.Equal("Italic", sub, "expected legacy subfamily without a typographic one")
}

func (env *InfoTestEnviron) TestNameEntries() {
	entries := NameEntries(env.names)
	env.Len(entries, 11)
	var german *NameEntry
	for i, e := range entries {
		if e.LanguageID == 0x407 {
			german = &entries[i]
		}
	}
	env.Require().NotNil(german)
	env.Equal("de", german.Language)
	env.Equal("Kursiv", german.Value)
	env.Equal("Subfamily name", german.Description)
	env.Equal(names.PlatformMacintosh, entries[0].Platform, "expected Macintosh records first")
	env.Equal("en", entries[0].Language)
}

func (env *InfoTestEnviron) TestHeadInfo() {
	h, ok := HeadInfo(env.otf)
	env.Require().True(ok, "expected to decode table 'head'")
	env.Equal(env.otf.Head.UnitsPerEm, h.UnitsPerEm, "expected matching UnitsPerEm")
	env.Equal(uint16(1000), h.UnitsPerEm)
	env.Equal(1.0, h.FontRevision)
	env.Equal(ot.FromLongDateTime(3600000000), h.Modified)
	env.Equal([]string{"ITALIC"}, MacStyleFlags(h.MacStyle))
}

func (env *InfoTestEnviron) TestOS2Info() {
	os2, ok := OS2Info(env.otf)
	env.Require().True(ok, "expected to find table 'OS/2'")
	env.Equal(uint16(300), os2.WeightClass)
	env.Equal("TEST", os2.VendorID)
	env.Equal([]string{"ITALIC"}, FsSelectionFlags(os2.FsSelection))
	env.Equal("Installable", Embedding(os2.FsType))
	env.Equal([]string{"BOLD", "REGULAR", "OBLIQUE"}, FsSelectionFlags(1<<5|1<<6|1<<9))
}

func (env *InfoTestEnviron) TestInfo() {
	info := Info(env.otf, env.names)
	env.Equal("TrueType", info.Flavor)
	env.Equal([]string{"OS/2", "head", "maxp", "name", "post"}, info.Tables)
	env.Equal(3, info.NumGlyphs)
	env.Equal(-12.0, info.ItalicAngle)
	env.True(info.HasOS2)
	env.Equal("Lato Italic", info.FullName)
	env.Equal(11, info.NameRecords)
}

func TestQueriesOnMissingTables(t *testing.T) {
	otf, err := ot.Parse(fonttest.Build(fonttest.Params{
		Records: fonttest.Family("T", "Regular", "T-Regular"),
		NoOS2:   true,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := OS2Info(otf); ok {
		t.Errorf("expected font without OS/2 table to have no OS/2 info")
	}
	if _, ok := HeadInfo(nil); ok {
		t.Errorf("expected nil font to have no head info")
	}
	if fam, sub := FamilyName(nil); fam != "" || sub != "" {
		t.Errorf("expected nil table to have no family")
	}
	if n := len(NameInfo(names.NewTable())); n != 0 {
		t.Errorf("expected empty table to have no names, have %d", n)
	}
}
