package fontload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/otname/internal/fonttest"
	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otname.font")
	defer teardown()
	//
	dir := t.TempDir()
	font := fonttest.Build(fonttest.Params{Records: fonttest.Family("T", "Regular", "T-Regular"), Style: fonttest.Regular})
	writeFile(t, filepath.Join(dir, "B.ttf"), font)
	writeFile(t, filepath.Join(dir, "A.OTF"), font)
	writeFile(t, filepath.Join(dir, "readme.txt"), []byte("hello"))
	writeFile(t, filepath.Join(dir, "fake.ttf"), []byte("hello, world"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.ttf"), 0o755))
	//
	fonts, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "A.OTF"), filepath.Join(dir, "B.ttf")}, fonts)
	fonts, err = List(filepath.Join(dir, "B.ttf"))
	require.NoError(t, err)
	assert.Len(t, fonts, 1)
	_, err = List(filepath.Join(dir, "readme.txt"))
	assert.True(t, errors.Is(err, ot.ErrInvalidArgument))
	_, err = List(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, ot.ErrIO))
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "Lato-Bold.ttf")
	out, err := OutputPath(in, "", true)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	out, err = OutputPath(in, "", false)
	require.NoError(t, err)
	assert.Equal(t, in, out, "expected non-existing file to be used as is")
	writeFile(t, in, []byte{0})
	out, err = OutputPath(in, "", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Lato-Bold#1.ttf"), out)
	writeFile(t, out, []byte{0})
	out, err = OutputPath(in, "", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Lato-Bold#2.ttf"), out)
	//
	outDir := filepath.Join(dir, "out")
	out, err = OutputPath(in, outDir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "Lato-Bold.ttf"), out)
	info, err := os.Stat(outDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
