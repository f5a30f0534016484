package batch

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/otname/cff"
	"github.com/npillmayer/otname/names"
	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/otname/style"
	"github.com/npillmayer/otname/wordlist"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/sfnt"
)

// --- Test fonts -------------------------------------------------------------

type fakeFont struct {
	table *names.Table
	cff   map[string]string
	bits  style.StyleBits
}

func (f *fakeFont) Name(id sfnt.NameID, platform names.PlatformID) ot.Option[string] {
	return f.table.Name(id, platform)
}

func (f *fakeFont) CFFField(field string) ot.Option[string] {
	v, ok := f.cff[field]
	return ot.Maybe(v, ok)
}

func (f *fakeFont) StyleBits() style.StyleBits {
	return f.bits
}

func newFakeFont(family, subfamily string, bits style.StyleBits) *fakeFont {
	t := names.NewTable()
	_ = t.Set(sfnt.NameIDFamily, family, "", names.BothPlatforms)
	_ = t.Set(sfnt.NameIDSubfamily, subfamily, "", names.BothPlatforms)
	return &fakeFont{table: t, cff: map[string]string{}, bits: bits}
}

type fakePersister struct {
	persisted map[string]Row
	fail      string
}

func (p *fakePersister) Persist(_ context.Context, path string, row Row) error {
	if filepath.Base(path) == p.fail {
		return ot.Errorf(ot.ErrIO, "disk full")
	}
	p.persisted[path] = row
	return nil
}

// --- Test Suite Preparation ------------------------------------------------

type EngineTestEnviron struct {
	suite.Suite
	fonts  map[string]*fakeFont
	engine *Engine
}

// listen for 'go test' command --> run test methods
func TestEngine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.batch")
	defer teardown()
	suite.Run(t, new(EngineTestEnviron))
}

// run before each test: three fonts of family 'Lato', one of them broken
func (env *EngineTestEnviron) SetupTest() {
	regular := style.StyleBits{FsSelection: ot.FsSelectionRegular, WeightClass: 400, WidthClass: 5}
	bold := style.StyleBits{FsSelection: ot.FsSelectionBold, MacStyle: ot.MacStyleBold, WeightClass: 700, WidthClass: 5}
	light := style.StyleBits{FsSelection: ot.FsSelectionItalic, WeightClass: 300, WidthClass: 5}
	env.fonts = map[string]*fakeFont{
		"/fonts/Lato-Regular.ttf":     newFakeFont("Lato", "Regular", regular),
		"/fonts/Lato-Bold.ttf":        newFakeFont("Lato", "Bold", bold),
		"/fonts/Lato-LightItalic.ttf": newFakeFont("Lato Light", "Italic", light),
	}
	env.fonts["/fonts/Lato-LightItalic.ttf"].cff[cff.FullName] = "Lato Light Italic"
	open := func(path string) (Font, error) {
		if f, ok := env.fonts[path]; ok {
			return f, nil
		}
		return nil, ot.Errorf(ot.ErrIO, "cannot open %s", path)
	}
	env.engine = NewEngine("/fonts", wordlist.Default(), open)
	report, err := env.engine.Init(context.Background(), []string{
		"/fonts/Lato-Regular.ttf", "/fonts/Lato-Bold.ttf",
		"/fonts/Lato-LightItalic.ttf", "/fonts/Broken.ttf",
	}, ot.Confirmed)
	env.Require().NoError(err)
	env.Require().Len(report.Failed, 1)
	env.Require().Equal("/fonts/Broken.ttf", report.Failed[0].Path)
}

// --- Tests -----------------------------------------------------------------

func (env *EngineTestEnviron) TestInit() {
	env.Equal(3, env.engine.Len())
	r, err := env.engine.Row(2)
	env.Require().NoError(err)
	env.Equal("Lato-LightItalic.ttf", r.FileName)
	env.Equal("Lato", r.FamilyName, "expected style words to be trimmed from family")
	env.Equal(style.Attributes{IsItalic: true, WeightClass: 300, WidthClass: 5}, r.Style)
	env.Equal("Lt", r.Wgt)
	env.Equal("Italic", r.Slope)
	env.Equal("LatoLight-Italic", r.Names.PostScriptName)
	env.Equal(Raw, r.State)
	_, err = env.engine.Init(context.Background(), nil, ot.Unconfirmed)
	env.True(errors.Is(err, ot.ErrInvalidArgument))
	env.Equal(3, env.engine.Len(), "expected unconfirmed init to keep rows")
}

func (env *EngineTestEnviron) TestReset() {
	env.True(errors.Is(env.engine.Reset(ot.Unconfirmed), ot.ErrInvalidArgument))
	env.Equal(3, env.engine.Len())
	env.NoError(env.engine.Reset(ot.Confirmed))
	env.Equal(0, env.engine.Len())
}

func (env *EngineTestEnviron) TestEditRow() {
	err := env.engine.EditRow(0, Edit{Style: style.Overrides{
		WidthClass: ot.Some(3),
		Oblique:    ot.Some(true),
	}})
	env.Require().NoError(err)
	r, _ := env.engine.Row(0)
	env.Equal(Edited, r.State)
	env.Equal("Condensed", r.Width)
	env.Equal("Obl", r.Slp)
	env.Equal("Lato Condensed", r.Names.TypographicFamily.Or(""))
	env.Equal("Oblique", r.Names.TypographicSubfamily.Or(""))
	env.Equal("Italic", r.Names.LegacySubfamily)
	//
	err = env.engine.EditRow(0, Edit{Style: style.Overrides{WeightClass: ot.Some(1001)}})
	env.True(errors.Is(err, ot.ErrValidation))
	r, _ = env.engine.Row(0)
	env.Equal(3, r.Style.WidthClass, "expected invalid edit to leave row unchanged")
	err = env.engine.EditRow(3, Edit{FamilyName: ot.Some("X")})
	env.True(errors.Is(err, ot.ErrNotFound))
	err = env.engine.EditRow(-1, Edit{})
	env.True(errors.Is(err, ot.ErrNotFound))
}

func (env *EngineTestEnviron) TestSetFamilyName() {
	env.Require().NoError(env.engine.SetFamilyName("Carlito"))
	for _, r := range env.engine.Rows() {
		env.Equal("Carlito", r.FamilyName)
		env.True(strings.HasPrefix(r.Names.PostScriptName, "Carlito"))
		env.Equal(Edited, r.State)
	}
	env.True(errors.Is(env.engine.SetFamilyName(" "), ot.ErrInvalidArgument))
}

func (env *EngineTestEnviron) TestRecalcFromFilename() {
	// make row 0 deviate, recalculation from file name restores it
	env.Require().NoError(env.engine.EditRow(0, Edit{Style: style.Overrides{Bold: ot.Some(true), WeightClass: ot.Some(700)}}))
	report, dups := env.engine.Recalc(context.Background(), FilenameSource{})
	env.True(report.OK())
	env.Empty(dups)
	r, _ := env.engine.Row(0)
	env.Equal(style.Regular, r.Style)
	env.Equal(Recalculated, r.State)
	r, _ = env.engine.Row(2)
	env.Equal(300, r.Style.WeightClass)
	env.True(r.Style.IsItalic)
}

func (env *EngineTestEnviron) TestRecalcKeepsOblique() {
	env.Require().NoError(env.engine.EditRow(1, Edit{Style: style.Overrides{Oblique: ot.Some(true)}}))
	_, _ = env.engine.Recalc(context.Background(), FilenameSource{})
	r, _ := env.engine.Row(1)
	env.True(r.Style.IsOblique, "expected oblique to be carried over")
	env.True(r.Style.IsBold)
	env.Equal("Lato-BoldOblique", r.Names.PostScriptName)
}

func (env *EngineTestEnviron) TestRecalcFromSources() {
	src, err := ParseSource("cff_1")
	env.Require().NoError(err)
	report, _ := env.engine.Recalc(context.Background(), src)
	env.Len(report.Succeeded, 1, "expected only the font with a CFF table to succeed")
	env.Len(report.Failed, 2)
	env.True(errors.Is(report.Failed[0].Err, ot.ErrNotFound))
	//
	bold := env.fonts["/fonts/Lato-Bold.ttf"].table
	env.Require().NoError(bold.Set(sfnt.NameIDSubfamily, "ExtraBold", "", names.Windows))
	src, err = ParseSource("3_1_2")
	env.Require().NoError(err)
	report, _ = env.engine.Recalc(context.Background(), src)
	env.True(report.OK())
	r, _ := env.engine.Row(1)
	env.Equal(800, r.Style.WeightClass)
	env.False(r.Style.IsBold)
	env.Equal("Lato ExtraBold", r.Names.TypographicFamily.Or(""))
}

func (env *EngineTestEnviron) TestCollisions() {
	env.Require().NoError(env.engine.EditRow(2, Edit{Style: style.Overrides{
		WeightClass: ot.Some(700), Bold: ot.Some(true), Italic: ot.Some(false),
	}}))
	dups := env.engine.Collisions()
	env.Require().Len(dups, 1)
	env.Equal("Lato-Bold", dups[0].PostScriptName)
	env.Equal([]string{"Lato-Bold.ttf", "Lato-LightItalic.ttf"}, dups[0].Files)
	for _, r := range env.engine.Rows() {
		env.NoError(r.Style.Validate(), "expected colliding rows to stay valid")
	}
}

func (env *EngineTestEnviron) TestApply() {
	p := &fakePersister{persisted: map[string]Row{}, fail: "Lato-Bold.ttf"}
	report := env.engine.Apply(context.Background(), p)
	env.Len(report.Succeeded, 2)
	env.Len(report.Failed, 1)
	env.Error(report.Err())
	env.Equal("Lato-Regular", p.persisted["/fonts/Lato-Regular.ttf"].Names.PostScriptName)
	r, _ := env.engine.Row(0)
	env.Equal(Persisted, r.State)
	r, _ = env.engine.Row(1)
	env.Equal(Raw, r.State, "expected failed row to keep its state")
}

func (env *EngineTestEnviron) TestCSVRoundTrip() {
	env.Require().NoError(env.engine.EditRow(1, Edit{Style: style.Overrides{Oblique: ot.Some(true)}}))
	var buf bytes.Buffer
	env.Require().NoError(WriteCSV(&buf, env.engine.Rows()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	env.Equal(strings.Join(Columns, ","), lines[0])
	env.Equal("Lato-Bold.ttf,Lato,1,0,1,5,Nor,Normal,700,Bd,Bold,Obl,Oblique", lines[2])
	rows, err := ReadCSV(&buf)
	env.Require().NoError(err)
	e := NewEngine("/fonts", nil, nil)
	env.Require().NoError(e.SetRows(rows))
	for i, r := range e.Rows() {
		orig, _ := env.engine.Row(i)
		env.Equal(orig.Style, r.Style)
		env.Equal(orig.Names, r.Names)
	}
}

func (env *EngineTestEnviron) TestEditRowWords() {
	lite := style.Words{Weight: wordlist.Pair{Long: "Lite"}}
	env.Require().NoError(env.engine.EditRow(2, Edit{Words: lite}))
	r, _ := env.engine.Row(2)
	env.Equal("Lt", r.Wgt, "expected empty short word to be kept")
	env.Equal("Lite", r.Weight)
	env.Equal("Italic", r.Slope)
	env.Equal("Lato Lite", r.Names.TypographicFamily.Or(""))
	env.Equal("LatoLite-Italic", r.Names.PostScriptName)
	// the family name does not touch the words
	env.Require().NoError(env.engine.SetFamilyName("Carlito"))
	r, _ = env.engine.Row(2)
	env.Equal("CarlitoLite-Italic", r.Names.PostScriptName)
	// a new weight class brings its own word
	env.Require().NoError(env.engine.EditRow(2, Edit{Style: style.Overrides{WeightClass: ot.Some(200)}}))
	r, _ = env.engine.Row(2)
	env.Equal("ExtraLight", r.Weight)
	env.Equal("Italic", r.Slope)
	env.Equal("CarlitoExtraLight-Italic", r.Names.PostScriptName)
}

func TestSetRowsKeepsWords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.batch")
	defer teardown()
	//
	csv := strings.Join(Columns, ",") + "\n" +
		"Lato-Light.ttf,Lato,0,0,0,5,Nor,Normal,300,Lite,Lite,,\n" +
		"Lato-Bold.ttf,Lato,1,0,0,5,,,700,,,Obl,Oblique\n"
	rows, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	e := NewEngine("/fonts", nil, nil)
	require.NoError(t, e.SetRows(rows))
	r, _ := e.Row(0)
	assert.Equal(t, "Lite", r.Wgt)
	assert.Equal(t, "Lite", r.Weight)
	assert.Equal(t, "Lato Lite", r.Names.TypographicFamily.Or(""))
	assert.Equal(t, "LatoLite-Regular", r.Names.PostScriptName)
	r, _ = e.Row(1)
	assert.Equal(t, "Bd", r.Wgt, "expected empty words to be filled from the dictionary")
	assert.Equal(t, "Normal", r.Width)
	assert.Empty(t, r.Slope, "expected upright row to lose its slope word")
	assert.Equal(t, "Lato-Bold", r.Names.PostScriptName)
	// recalculation derives the words anew
	report, _ := e.Recalc(context.Background(), FilenameSource{})
	require.True(t, report.OK())
	r, _ = e.Row(0)
	assert.Equal(t, "Light", r.Weight)
	assert.Equal(t, "LatoLight-Regular", r.Names.PostScriptName)
	// so does a new dictionary
	dict := wordlist.Default()
	require.NoError(t, dict.SetWeight(300, "Lt", "Lite"))
	require.NoError(t, e.SetDictionary(dict))
	r, _ = e.Row(0)
	assert.Equal(t, "Lite", r.Weight)
	assert.Equal(t, Recalculated, r.State)
	assert.Same(t, dict, e.Dictionary())
	assert.True(t, errors.Is(e.SetDictionary(nil), ot.ErrInvalidArgument))
}

func TestSetRowsRejectsSharedFiles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.batch")
	defer teardown()
	//
	e := NewEngine("", nil, nil)
	rows := []Row{
		{FileName: "a.ttf", FamilyName: "A", Style: style.Regular},
		{FileName: "b.ttf", FamilyName: "B", Style: style.Regular},
	}
	require.NoError(t, e.SetRows(rows))
	dup := append(rows, Row{FileName: "./a.ttf", FamilyName: "A", Style: style.Attributes{IsBold: true, WeightClass: 700, WidthClass: 5}})
	err := e.SetRows(dup)
	assert.True(t, errors.Is(err, ot.ErrInvalidArgument))
	assert.Equal(t, 2, e.Len(), "expected rejected rows to leave the batch unchanged")
	r, _ := e.Row(0)
	assert.Equal(t, style.Regular, r.Style)
}

func TestReadCSVErrors(t *testing.T) {
	header := strings.Join(Columns, ",") + "\n"
	_, err := ReadCSV(strings.NewReader(header + "a.ttf,A,1,0,0,5,Nor,Normal,bold,Bd,Bold,,\n"))
	if !errors.Is(err, ot.ErrInvalidArgument) {
		t.Errorf("expected malformed class to be an invalid argument, have %v", err)
	}
	_, err = ReadCSV(strings.NewReader(header + "a.ttf,A,2,0,0,5,Nor,Normal,700,Bd,Bold,,\n"))
	if !errors.Is(err, ot.ErrInvalidArgument) {
		t.Errorf("expected malformed flag to be an invalid argument, have %v", err)
	}
	_, err = ReadCSV(strings.NewReader(header + "a.ttf,A,1,0,0,12,Nor,Normal,700,Bd,Bold,,\n"))
	if !errors.Is(err, ot.ErrValidation) {
		t.Errorf("expected width class 12 to be a validation error, have %v", err)
	}
	_, err = ReadCSV(strings.NewReader("file_name,family_name\na.ttf,A\n"))
	if !errors.Is(err, ot.ErrValidation) {
		t.Errorf("expected missing columns to be a validation error, have %v", err)
	}
	rows, err := ReadCSV(strings.NewReader(""))
	if err != nil || len(rows) != 0 {
		t.Errorf("expected empty CSV to yield no rows")
	}
}

func TestParseSource(t *testing.T) {
	for _, name := range SourceNames {
		src, err := ParseSource(name)
		if err != nil {
			t.Fatalf("source %s: %v", name, err)
		}
		if src.String() != name {
			t.Errorf("source %s prints as %s", name, src)
		}
	}
	for _, bad := range []string{"2_1", "3", "3_x", "cff_9"} {
		if _, err := ParseSource(bad); !errors.Is(err, ot.ErrInvalidArgument) {
			t.Errorf("expected source %q to be rejected", bad)
		}
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.batch")
	defer teardown()
	//
	var visited []string
	report := Run(context.Background(), []string{"a", "b", "c"}, func(_ context.Context, path string) error {
		visited = append(visited, path)
		switch path {
		case "a":
			panic("boom")
		case "b":
			return ot.Errorf(ot.ErrIO, "cannot write")
		}
		return nil
	})
	if len(visited) != 3 {
		t.Errorf("expected all files to be visited, have %v", visited)
	}
	if len(report.Failed) != 2 || len(report.Succeeded) != 1 {
		t.Errorf("expected 2 failures and 1 success, have %+v", report)
	}
	if !errors.Is(report.Failed[1], ot.ErrIO) {
		t.Errorf("expected failure to wrap the error kind")
	}
	//
	ctx, cancel := context.WithCancel(context.Background())
	report = Run(ctx, []string{"a", "b", "c"}, func(_ context.Context, path string) error {
		if path == "a" {
			cancel()
		}
		return nil
	})
	if len(report.Succeeded) != 1 || len(report.Skipped) != 2 || report.OK() {
		t.Errorf("expected remaining files to be skipped after cancel, have %+v", report)
	}
}
