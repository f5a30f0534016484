package cff

import (
	"errors"
	"testing"

	"github.com/npillmayer/otname/internal/fonttest"
	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNames = fonttest.CFFNames{
	FontName:   "Minion-Bold",
	FullName:   "Minion Bold",
	FamilyName: "Minion",
	Weight:     "Bold",
	Notice:     "Minion is a trademark",
}

func TestStandardStrings(t *testing.T) {
	assert.Equal(t, 391, len(standardStrings))
	assert.Equal(t, "fi", standardStrings[109])
	assert.Equal(t, "copyright", standardStrings[170])
	assert.Equal(t, "Bold", standardStrings[384])
	assert.Equal(t, "Semibold", standardStrings[390])
}

func TestParseFields(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.cff")
	defer teardown()
	//
	f, err := Parse(fonttest.CFF(testNames))
	require.NoError(t, err)
	assert.False(t, f.IsCIDKeyed())
	assert.Equal(t, "Minion-Bold", f.Field(FontName).Or(""))
	assert.Equal(t, "Minion Bold", f.Field(FullName).Or(""))
	assert.Equal(t, "Minion", f.Field(FamilyName).Or(""))
	assert.Equal(t, "Bold", f.Field(Weight).Or(""))
	assert.True(t, f.Field(Copyright).IsNone(), "expected absent field to be None")
	assert.True(t, f.Field("Bogus").IsNone())
	assert.Equal(t, []string{FontName, Notice, FullName, FamilyName, Weight}, f.FieldNames())
}

func TestUnchangedBytes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.cff")
	defer teardown()
	//
	data := fonttest.CFF(testNames)
	f, err := Parse(data)
	require.NoError(t, err)
	b, err := f.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, b)
}

func TestRewriteKeepsOffsets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.cff")
	defer teardown()
	//
	f, err := Parse(fonttest.CFF(testNames))
	require.NoError(t, err)
	require.NoError(t, f.SetField(FontName, "MinionPro-BoldCondensed"))
	require.NoError(t, f.SetField(FullName, "Minion Pro Bold Condensed"))
	require.NoError(t, f.SetField(Copyright, "Copyright 2024"))
	require.NoError(t, f.SetField(Weight, "Regular")) // a standard string
	b, err := f.Bytes()
	require.NoError(t, err)
	//
	g, err := Parse(b)
	require.NoError(t, err)
	assert.Equal(t, "MinionPro-BoldCondensed", g.Field(FontName).Or(""))
	assert.Equal(t, "Minion Pro Bold Condensed", g.Field(FullName).Or(""))
	assert.Equal(t, "Minion", g.Field(FamilyName).Or(""))
	assert.Equal(t, "Copyright 2024", g.Field(Copyright).Or(""))
	assert.Equal(t, "Regular", g.Field(Weight).Or(""))
	// CharStrings and Private must still point at their data
	i, ok := g.entry(opCharStrings)
	require.True(t, ok)
	cs, _, err := readIndex(b, int(g.topDict[i].operands[0].value))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{14}}, cs)
	i, ok = g.entry(opPrivate)
	require.True(t, ok)
	size, off := int(g.topDict[i].operands[0].value), int(g.topDict[i].operands[1].value)
	assert.Equal(t, []byte{0x8b, 20}, b[off:off+size])
}

func TestReplaceInField(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.cff")
	defer teardown()
	//
	f, err := Parse(fonttest.CFF(testNames))
	require.NoError(t, err)
	changed, err := f.ReplaceInField(FullName, "Minion", "Garamond")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Garamond Bold", f.Field(FullName).Or(""))
	changed, err = f.ReplaceInField(Copyright, "Minion", "Garamond")
	require.NoError(t, err)
	assert.False(t, changed, "expected absent field to be left alone")
	assert.Equal(t, "Minion", f.SID(len(standardStrings)+2).Or(""),
		"expected existing strings to remain unchanged")
}

func TestCIDKeyedIsReadOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.cff")
	defer teardown()
	//
	f, err := Parse(fonttest.CFF(testNames))
	require.NoError(t, err)
	f.cidKeyed = true
	err = f.SetField(FullName, "X")
	assert.True(t, errors.Is(err, ot.ErrInvalidArgument))
}

func TestParseMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.cff")
	defer teardown()
	//
	_, err := Parse([]byte{2, 0, 5, 4, 0})
	assert.True(t, errors.Is(err, ot.ErrValidation), "expected CFF2 to be rejected")
	data := fonttest.CFF(testNames)
	_, err = Parse(data[:12])
	assert.Error(t, err, "expected truncated data to be rejected")
}

func TestDictNumbers(t *testing.T) {
	for _, v := range []int{0, 107, -107, 108, 1131, -108, -1131, 1132, -32768, 32767, 40000, -70000} {
		entries, err := parseDict(append(encodeInt(v), opWeight))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, float64(v), entries[0].operands[0].value, "value %d", v)
	}
	entries, err := parseDict([]byte{30, 0x2a, 0x5f, opWeight}) // 2.5
	require.NoError(t, err)
	assert.Equal(t, 2.5, entries[0].operands[0].value)
}
