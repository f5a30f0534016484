package otname

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/otname/batch"
	"github.com/npillmayer/otname/cff"
	"github.com/npillmayer/otname/internal/fontload"
	"github.com/npillmayer/otname/internal/fonttest"
	"github.com/npillmayer/otname/names"
	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/otname/style"
	"github.com/npillmayer/otname/wordlist"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/sfnt"
)

func latoParams() fonttest.Params {
	return fonttest.Params{
		Records: fonttest.Family("Lato", "Regular", "Lato-Regular"),
		Style:   fonttest.Regular,
	}
}

func parse(t *testing.T, params fonttest.Params) *Font {
	f, err := Parse(fonttest.Build(params))
	require.NoError(t, err)
	return f
}

func reparse(t *testing.T, f *Font) *Font {
	data, err := f.Bytes()
	require.NoError(t, err)
	g, err := Parse(data)
	require.NoError(t, err)
	return g
}

func TestParseFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.font")
	defer teardown()
	//
	f := parse(t, latoParams())
	assert.Equal(t, "Lato", f.Name(sfnt.NameIDFamily, names.PlatformWindows).Or(""))
	assert.Equal(t, "Lato-Regular", f.Name(sfnt.NameIDPostScript, names.PlatformMacintosh).Or(""))
	assert.Nil(t, f.CFF)
	assert.Nil(t, f.Compact(), "expected TrueType font to have no compact strings")
	assert.True(t, f.CFFField(cff.FullName).IsNone())
	assert.Equal(t, style.StyleBits{OS2Version: 4, FsSelection: ot.FsSelectionRegular,
		WeightClass: 400, WidthClass: 5}, f.StyleBits())
	//
	_, err := Parse([]byte("no font"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.True(t, errors.Is(err, ot.ErrIO))
}

func TestStyleBitsWithoutOS2(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.font")
	defer teardown()
	//
	params := latoParams()
	params.NoOS2 = true
	params.Style.MacStyle = ot.MacStyleBold
	f := parse(t, params)
	bits := f.StyleBits()
	assert.Equal(t, 400, bits.WeightClass)
	assert.Equal(t, 5, bits.WidthClass)
	assert.Equal(t, ot.MacStyleBold, bits.MacStyle)
	require.NoError(t, f.ApplyStyle(style.Attributes{IsItalic: true, WeightClass: 400, WidthClass: 5}))
	assert.Equal(t, ot.MacStyleItalic, reparse(t, f).OT.Head.MacStyle)
}

func TestApplyRIBBINames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.font")
	defer teardown()
	//
	f := parse(t, latoParams())
	require.NoError(t, f.Names.Set(sfnt.NameIDTypographicFamily, "Lato", "", names.BothPlatforms))
	require.NoError(t, f.Names.Set(sfnt.NameIDTypographicFamily, "Lato", "de", names.Windows))
	a := style.Attributes{IsBold: true, IsItalic: true, WeightClass: 700, WidthClass: 5}
	n, err := style.Synthesize("Lato", a, wordlist.Default())
	require.NoError(t, err)
	require.NoError(t, f.ApplyNames(n))
	require.NoError(t, f.ApplyStyle(a))
	//
	g := reparse(t, f)
	for _, p := range []names.PlatformID{names.PlatformWindows, names.PlatformMacintosh} {
		assert.Equal(t, "Lato", g.Name(sfnt.NameIDFamily, p).Or(""))
		assert.Equal(t, "Bold Italic", g.Name(sfnt.NameIDSubfamily, p).Or(""))
		assert.Equal(t, n.FullName, g.Name(sfnt.NameIDFull, p).Or(""))
		assert.Equal(t, n.PostScriptName, g.Name(sfnt.NameIDPostScript, p).Or(""))
		assert.True(t, g.Name(sfnt.NameIDTypographicFamily, p).IsNone(),
			"expected typographic family to be removed for a RIBBI style")
	}
	for _, r := range g.Names.Records() {
		assert.NotEqual(t, sfnt.NameIDTypographicFamily, r.Key.Name,
			"expected typographic family to be removed in all languages")
	}
	require.NotNil(t, g.OT.OS2)
	assert.Equal(t, uint16(700), g.OT.OS2.WeightClass)
	assert.Equal(t, ot.FsSelectionBold|ot.FsSelectionItalic, g.OT.OS2.FsSelection)
	assert.Equal(t, ot.MacStyleBold|ot.MacStyleItalic, g.OT.Head.MacStyle)
}

func TestApplyNamesReplacesOtherLanguages(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.font")
	defer teardown()
	//
	params := latoParams()
	params.Records = append(params.Records,
		fonttest.Record{Platform: 3, Encoding: 1, Language: 0x407, NameID: 2, Value: "Normal"},
		fonttest.Record{Platform: 3, Encoding: 1, Language: 0x407, NameID: 4, Value: "Lato Normal"},
		fonttest.Record{Platform: 1, Encoding: 0, Language: 2, NameID: 4, Value: "Lato Normal"},
	)
	f := parse(t, params)
	a := style.Attributes{IsBold: true, WeightClass: 700, WidthClass: 5}
	n, err := style.Synthesize("Lato", a, wordlist.Default())
	require.NoError(t, err)
	require.NoError(t, f.ApplyNames(n))
	//
	g := reparse(t, f)
	assert.Equal(t, "Lato Bold", g.Name(sfnt.NameIDFull, names.PlatformWindows).Or(""))
	deFull := names.Key{Platform: names.PlatformWindows, Encoding: names.EncodingWindowsBMP, Language: 0x407, Name: sfnt.NameIDFull}
	assert.True(t, g.Names.Lookup(deFull).IsNone(), "expected German full name to be replaced")
	for _, r := range g.Names.Records() {
		switch r.Key.Name {
		case sfnt.NameIDSubfamily:
			assert.Equal(t, "Bold", r.Value, "stale subfamily in %s", r.Key)
		case sfnt.NameIDFull:
			assert.Equal(t, "Lato Bold", r.Value, "stale full name in %s", r.Key)
		}
	}
	assert.Equal(t, 8, g.Names.Len(), "expected IDs 1, 2, 4 and 6 on two platforms")
}

func TestApplyTypographicNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.font")
	defer teardown()
	//
	f := parse(t, latoParams())
	a := style.Attributes{IsItalic: true, WeightClass: 300, WidthClass: 5}
	n, err := style.Synthesize("Lato", a, wordlist.Default())
	require.NoError(t, err)
	require.True(t, n.HasTypographicNames())
	require.NoError(t, f.ApplyNames(n))
	//
	g := reparse(t, f)
	assert.Equal(t, n.TypographicFamily.Or("?"), g.Name(sfnt.NameIDTypographicFamily, names.PlatformWindows).Or(""))
	assert.Equal(t, n.TypographicSubfamily.Or("?"), g.Name(sfnt.NameIDTypographicSubfamily, names.PlatformMacintosh).Or(""))
	assert.Equal(t, n.LegacyFamily, g.Name(sfnt.NameIDFamily, names.PlatformWindows).Or(""))
	assert.Equal(t, "Italic", g.Name(sfnt.NameIDSubfamily, names.PlatformWindows).Or(""))
}

func TestApplyCFFNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.font")
	defer teardown()
	//
	params := latoParams()
	params.CFF = &fonttest.CFFNames{
		FontName:   "Lato-Regular",
		FullName:   "Lato Regular",
		FamilyName: "Lato",
		Weight:     "Regular",
	}
	f := parse(t, params)
	require.NotNil(t, f.CFF)
	assert.NotNil(t, f.Compact())
	assert.Equal(t, "Lato Regular", f.CFFField(cff.FullName).Or(""))
	a := style.Attributes{WeightClass: 900, WidthClass: 5}
	n, err := style.Synthesize("Lato Pro", a, wordlist.Default())
	require.NoError(t, err)
	require.NoError(t, f.ApplyNames(n))
	require.NoError(t, f.SetCFFField(cff.Weight, "Black"))
	//
	g := reparse(t, f)
	require.NotNil(t, g.CFF)
	assert.Equal(t, "PostScript", g.OT.Flavor())
	assert.Equal(t, n.PostScriptName, g.CFFField(cff.FontName).Or(""))
	assert.Equal(t, n.FullName, g.CFFField(cff.FullName).Or(""))
	assert.Equal(t, n.TypographicFamily.Or(n.LegacyFamily), g.CFFField(cff.FamilyName).Or(""))
	assert.Equal(t, "Black", g.CFFField(cff.Weight).Or(""))
}

func TestSetCFFFieldOnTrueType(t *testing.T) {
	f := parse(t, latoParams())
	err := f.SetCFFField(cff.Weight, "Bold")
	assert.True(t, errors.Is(err, ot.ErrNotFound))
}

func TestFindReplaceWithCFF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.font")
	defer teardown()
	//
	params := latoParams()
	params.CFF = &fonttest.CFFNames{FontName: "Lato-Regular", FullName: "Lato Regular", FamilyName: "Lato"}
	f := parse(t, params)
	n, err := f.Names.FindReplace("Lato", "Carlito", names.Filter{}, f.Compact())
	require.NoError(t, err)
	assert.Equal(t, 6+3, n) // IDs 1, 4, 6 on both platforms, FontName, FullName, FamilyName
	g := reparse(t, f)
	assert.Equal(t, "Carlito Regular", g.CFFField(cff.FullName).Or(""))
	assert.Equal(t, "Carlito-Regular", g.Name(sfnt.NameIDPostScript, names.PlatformWindows).Or(""))
}

func TestPersister(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.font")
	defer teardown()
	//
	dir := t.TempDir()
	in := filepath.Join(dir, "Lato-Regular.ttf")
	require.NoError(t, os.WriteFile(in, fonttest.Build(latoParams()), 0o644))
	a := style.Attributes{IsBold: true, WeightClass: 700, WidthClass: 5}
	n, err := style.Synthesize("Lato", a, wordlist.Default())
	require.NoError(t, err)
	row := batch.Row{FileName: "Lato-Regular.ttf", FamilyName: "Lato", Style: a, Names: n, Weight: "Bold"}
	//
	p := Persister{}
	require.NoError(t, p.Persist(context.Background(), in, row))
	out := filepath.Join(dir, "Lato-Regular#1.ttf")
	g, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, "Bold", g.Name(sfnt.NameIDSubfamily, names.PlatformWindows).Or(""))
	orig, err := Load(in)
	require.NoError(t, err)
	assert.Equal(t, "Regular", orig.Name(sfnt.NameIDSubfamily, names.PlatformWindows).Or(""),
		"expected input file to be left alone")
	//
	p = Persister{OutputDir: filepath.Join(dir, "out"), Overwrite: true}
	require.NoError(t, p.Persist(context.Background(), in, row))
	_, err = os.Stat(filepath.Join(dir, "out", "Lato-Regular.ttf"))
	assert.NoError(t, err)
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, p.Persist(ctx, in, row))
}

func TestBatchRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.font")
	defer teardown()
	//
	dir := t.TempDir()
	for _, fname := range []string{"Lato-Regular.ttf", "Lato-BoldItalic.ttf", "Lato-Light.ttf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fname), fonttest.Build(latoParams()), 0o644))
	}
	files, err := fontload.List(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	engine := batch.NewEngine(dir, nil, Open)
	report, err := engine.Init(context.Background(), files, ot.Confirmed)
	require.NoError(t, err)
	require.True(t, report.OK())
	report, dups := engine.Recalc(context.Background(), batch.FilenameSource{})
	require.True(t, report.OK())
	assert.Empty(t, dups)
	out := filepath.Join(dir, "out")
	report = engine.Apply(context.Background(), Persister{OutputDir: out})
	require.True(t, report.OK(), report.Err())
	//
	g, err := Load(filepath.Join(out, "Lato-BoldItalic.ttf"))
	require.NoError(t, err)
	assert.Equal(t, "Lato", g.Name(sfnt.NameIDFamily, names.PlatformWindows).Or(""))
	assert.Equal(t, "Bold Italic", g.Name(sfnt.NameIDSubfamily, names.PlatformWindows).Or(""))
	assert.Equal(t, uint16(700), g.OT.OS2.WeightClass)
	g, err = Load(filepath.Join(out, "Lato-Light.ttf"))
	require.NoError(t, err)
	assert.Equal(t, uint16(300), g.OT.OS2.WeightClass)
	assert.Equal(t, "Lato Light", g.Name(sfnt.NameIDTypographicFamily, names.PlatformWindows).Or(""))
}
