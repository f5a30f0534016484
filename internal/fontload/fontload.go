/*
Package fontload finds font files and decides where modified fonts are
written to.
*/
package fontload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'otname.font'
func tracer() tracing.Trace {
	return tracing.Select("otname.font")
}

// Extensions are the file extensions of font files, in lower case.
var Extensions = []string{".ttf", ".otf"}

var magics = [][]byte{
	{0x00, 0x01, 0x00, 0x00}, // TrueType
	[]byte("OTTO"),
	[]byte("true"),
}

// IsFontFile checks a file's extension and its first four bytes.
func IsFontFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	known := false
	for _, e := range Extensions {
		known = known || e == ext
	}
	if !known {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	head := make([]byte, 4)
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	for _, m := range magics {
		if bytes.Equal(head, m) {
			return true
		}
	}
	return false
}

// List returns the font files for an input path. If path is a file, it must
// be a font file. If path is a directory, its font files are returned, in
// lexical order; sub-directories are not searched.
func List(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ot.Errorf(ot.ErrIO, "%v", err)
	}
	if !info.IsDir() {
		if !IsFontFile(path) {
			return nil, ot.Errorf(ot.ErrInvalidArgument, "%s is not a font file", path)
		}
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, ot.Errorf(ot.ErrIO, "%v", err)
	}
	var fonts []string
	for _, e := range entries {
		p := filepath.Join(path, e.Name())
		if !e.IsDir() && IsFontFile(p) {
			fonts = append(fonts, p)
		}
	}
	sort.Strings(fonts)
	tracer().Debugf("found %d font files in %s", len(fonts), path)
	return fonts, nil
}

// OutputPath returns the path to write a modified font to. Fonts go to
// outputDir, or next to the input file if outputDir is empty. outputDir is
// created if necessary. Unless overwrite is set, existing files are not
// replaced: a numbered suffix is appended to the file name instead, as in
// "Lato-Bold#1.ttf".
func OutputPath(input, outputDir string, overwrite bool) (string, error) {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(input)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ot.Errorf(ot.ErrIO, "creating output directory: %v", err)
	}
	base := filepath.Base(input)
	out := filepath.Join(dir, base)
	if overwrite {
		return out, nil
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 1; exists(out); n++ {
		out = filepath.Join(dir, fmt.Sprintf("%s#%d%s", stem, n, ext))
	}
	return out, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Validate parses a font with the standard SFNT reader and returns its full
// name. We use it as a cross-check for fonts we have written.
func Validate(data []byte) (*sfnt.Font, string, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, "", err
	}
	name, err := f.Name(nil, sfnt.NameIDFull)
	if err != nil {
		tracer().Debugf("SFNT has no full name: %v", err)
	}
	return f, name, nil
}
