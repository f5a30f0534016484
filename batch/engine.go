package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/npillmayer/otname/names"
	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/otname/style"
	"github.com/npillmayer/otname/wordlist"
	"golang.org/x/image/font/sfnt"
)

// Persister writes the names and style attributes of a row back to its font
// file.
type Persister interface {
	Persist(ctx context.Context, path string, row Row) error
}

// DuplicateNameWarning flags rows sharing a PostScript name. It is not an
// error: duplicate static instances may well live in different directories.
type DuplicateNameWarning struct {
	PostScriptName string
	Files          []string
}

func (w DuplicateNameWarning) String() string {
	return fmt.Sprintf("PostScript name %q used by %s", w.PostScriptName, strings.Join(w.Files, ", "))
}

// Engine holds the rows of a batch of font files, all located relative to
// a directory.
type Engine struct {
	Dir  string
	dict *wordlist.Dictionary
	open Opener
	rows []Row
}

// NewEngine creates an engine without rows. open is used to read fonts
// when initializing rows and when recalculating from name records or CFF
// fields.
func NewEngine(dir string, dict *wordlist.Dictionary, open Opener) *Engine {
	if dict == nil {
		dict = wordlist.Default()
	}
	return &Engine{Dir: dir, dict: dict, open: open}
}

// Dictionary returns the word dictionary of the engine.
func (e *Engine) Dictionary() *wordlist.Dictionary {
	return e.dict
}

// Len returns the number of rows.
func (e *Engine) Len() int {
	return len(e.rows)
}

// Rows returns a copy of the rows.
func (e *Engine) Rows() []Row {
	rows := make([]Row, len(e.rows))
	copy(rows, e.rows)
	return rows
}

// Row returns row i (0-based). An index out of range is an error of kind
// ErrNotFound.
func (e *Engine) Row(i int) (Row, error) {
	if i < 0 || i >= len(e.rows) {
		return Row{}, ot.Errorf(ot.ErrNotFound, "no row %d, have %d rows", i+1, len(e.rows))
	}
	return e.rows[i], nil
}

// Path returns the path of a row's font file.
func (e *Engine) Path(r Row) string {
	if filepath.IsAbs(r.FileName) {
		return r.FileName
	}
	return filepath.Join(e.Dir, r.FileName)
}

// SetRows replaces all rows, e.g. by rows read from a CSV file. Word
// columns of the rows are kept, empty ones are filled from the dictionary.
// The names are recomputed. Rows sharing a font file are an error of kind
// ErrInvalidArgument.
func (e *Engine) SetRows(rows []Row) error {
	fresh := make([]Row, len(rows))
	seen := make(map[string]int, len(rows))
	for i, r := range rows {
		path := filepath.Clean(e.Path(r))
		if j, ok := seen[path]; ok {
			return ot.Errorf(ot.ErrInvalidArgument, "rows %d and %d share file %s", j+1, i+1, r.FileName)
		}
		seen[path] = i
		if err := r.synthesize(e.dict); err != nil {
			return fmt.Errorf("row %d (%s): %w", i+1, r.FileName, err)
		}
		r.State = Raw
		fresh[i] = r
	}
	e.rows = fresh
	return nil
}

// SetDictionary replaces the word dictionary. The word columns and names
// of all rows are derived anew; edited words are lost. If a row fails,
// the engine is left unchanged.
func (e *Engine) SetDictionary(dict *wordlist.Dictionary) error {
	if dict == nil {
		return ot.Errorf(ot.ErrInvalidArgument, "dictionary must not be nil")
	}
	fresh := e.Rows()
	for i := range fresh {
		if err := fresh[i].refresh(dict); err != nil {
			return fmt.Errorf("row %d (%s): %w", i+1, fresh[i].FileName, err)
		}
		fresh[i].State = Recalculated
	}
	e.dict, e.rows = dict, fresh
	tracer().Debugf("dictionary replaced, %d rows recalculated", len(fresh))
	return nil
}

// LoadCSV reads the rows from a CSV file.
func (e *Engine) LoadCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return ot.Errorf(ot.ErrIO, "opening CSV: %v", err)
	}
	defer f.Close()
	rows, err := ReadCSV(f)
	if err != nil {
		return err
	}
	return e.SetRows(rows)
}

// SaveCSV writes the rows to a CSV file.
func (e *Engine) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return ot.Errorf(ot.ErrIO, "creating CSV: %v", err)
	}
	if err = WriteCSV(f, e.rows); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return ot.Errorf(ot.ErrIO, "closing CSV: %v", err)
	}
	return nil
}

// --- Destructive operations -------------------------------------------------

// Init replaces all rows by rows read from a list of font files. Manual
// edits are lost, therefore the caller has to confirm the operation.
// Files which cannot be read are reported as failures and get no row.
func (e *Engine) Init(ctx context.Context, files []string, c ot.Confirmation) (Report, error) {
	if err := c.Require("initializing the batch"); err != nil {
		return Report{}, err
	}
	if e.open == nil {
		return Report{}, ot.Errorf(ot.ErrInvalidArgument, "batch has no font opener")
	}
	e.rows = nil
	matcher := style.NewMatcher(e.dict)
	seen := make(map[string]bool, len(files))
	var unique []string
	for _, f := range files {
		if c := filepath.Clean(f); !seen[c] {
			seen[c] = true
			unique = append(unique, f)
		}
	}
	report := Run(ctx, unique, func(ctx context.Context, path string) error {
		font, err := e.open(path)
		if err != nil {
			return err
		}
		row, err := e.rowFromFont(path, font, matcher)
		if err != nil {
			return err
		}
		e.rows = append(e.rows, row)
		return nil
	})
	tracer().Infof("initialized %d rows from %d files", len(e.rows), len(unique))
	return report, nil
}

func (e *Engine) rowFromFont(path string, font Font, matcher *style.Matcher) (Row, error) {
	attrs, err := style.Resolve(font.StyleBits(), style.Overrides{})
	if err != nil {
		return Row{}, err
	}
	row := Row{
		FileName:   e.relative(path),
		FamilyName: familyName(path, font, matcher),
		Style:      attrs,
		State:      Raw,
	}
	if err = row.refresh(e.dict); err != nil {
		return Row{}, err
	}
	return row, nil
}

// familyName finds the family of a font, preferring the typographic family
// over the legacy one, and Windows names over Macintosh names. Trailing
// style words are removed. If the font has no family name, it is derived
// from the file name.
func familyName(path string, font Font, matcher *style.Matcher) string {
	for _, platform := range []names.PlatformID{names.PlatformWindows, names.PlatformMacintosh} {
		for _, id := range []sfnt.NameID{sfnt.NameIDTypographicFamily, sfnt.NameIDFamily} {
			if fam, ok := font.Name(id, platform).Unwrap(); ok && strings.TrimSpace(fam) != "" {
				return matcher.TrimStyleWords(fam)
			}
		}
	}
	text, _ := FilenameSource{}.Text(path, nil)
	if rest := matcher.Match(style.Tokenize(text)).Rest; len(rest) > 0 {
		return strings.Join(rest, " ")
	}
	return text
}

func (e *Engine) relative(path string) string {
	if e.Dir == "" {
		return path
	}
	if rel, err := filepath.Rel(e.Dir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// Reset removes all rows. The caller has to confirm the operation.
func (e *Engine) Reset(c ot.Confirmation) error {
	if err := c.Require("deleting all rows"); err != nil {
		return err
	}
	e.rows = nil
	return nil
}

// --- Editing ----------------------------------------------------------------

// SetFamilyName sets the family name of all rows. Word columns are kept.
func (e *Engine) SetFamilyName(family string) error {
	if strings.TrimSpace(family) == "" {
		return ot.Errorf(ot.ErrInvalidArgument, "family name must not be empty")
	}
	for i := range e.rows {
		r := e.rows[i]
		r.FamilyName = family
		if err := r.synthesize(e.dict); err != nil {
			return fmt.Errorf("row %d (%s): %w", i+1, r.FileName, err)
		}
		r.State = Edited
		e.rows[i] = r
	}
	return nil
}

// EditRow changes row i (0-based) manually. Word columns belonging to a
// changed width class, weight class or slope are derived anew, unless the
// edit sets them. The row is left unchanged if the edit is invalid.
func (e *Engine) EditRow(i int, edit Edit) error {
	r, err := e.Row(i)
	if err != nil {
		return err
	}
	if fam, ok := edit.FamilyName.Unwrap(); ok {
		if strings.TrimSpace(fam) == "" {
			return ot.Errorf(ot.ErrInvalidArgument, "family name must not be empty")
		}
		r.FamilyName = fam
	}
	old, words := r.Style, r.Words()
	if r.Style, err = style.Resolve(style.StyleBits{}, edit.Style.WithDefaults(r.Style)); err != nil {
		return err
	}
	if r.Style.WidthClass != old.WidthClass {
		words.Width = wordlist.Pair{}
	}
	if r.Style.WeightClass != old.WeightClass {
		words.Weight = wordlist.Pair{}
	}
	if r.Style.IsItalic != old.IsItalic || r.Style.IsOblique != old.IsOblique {
		words.Slope = wordlist.Pair{}
	}
	r.setWords(edit.Words.Or(words))
	if err = r.synthesize(e.dict); err != nil {
		return err
	}
	r.State = Edited
	e.rows[i] = r
	return nil
}

// --- Recalculation ----------------------------------------------------------

// Recalc recomputes the style attributes of every row from a source, then
// the words and names which depend on them. The family name is kept.
// Oblique is taken over from the row unless the source names it. Rows
// failing to recalculate are reported and left unchanged. After the run,
// the batch is scanned for duplicate PostScript names.
func (e *Engine) Recalc(ctx context.Context, src Source) (Report, []DuplicateNameWarning) {
	matcher := style.NewMatcher(e.dict)
	index := e.pathIndex()
	report := Run(ctx, e.paths(), func(ctx context.Context, path string) error {
		i := index[path]
		var font FontStrings
		if src.NeedsFont() {
			if e.open == nil {
				return ot.Errorf(ot.ErrInvalidArgument, "batch has no font opener")
			}
			f, err := e.open(path)
			if err != nil {
				return err
			}
			font = f
		}
		text, err := src.Text(path, font)
		if err != nil {
			return err
		}
		r := e.rows[i]
		detected := matcher.Match(style.Tokenize(text))
		ov := detected.Overrides().WithDefaults(r.Style)
		if r.Style, err = style.Resolve(style.StyleBits{}, ov); err != nil {
			return err
		}
		if err = r.refresh(e.dict); err != nil {
			return err
		}
		r.State = Recalculated
		e.rows[i] = r
		tracer().Debugf("recalculated %s from %s %q", r.FileName, src, text)
		return nil
	})
	return report, e.Collisions()
}

// Collisions finds rows sharing the same PostScript name, ordered by name.
func (e *Engine) Collisions() []DuplicateNameWarning {
	files := make(map[string][]string)
	for _, r := range e.rows {
		ps := r.Names.PostScriptName
		files[ps] = append(files[ps], r.FileName)
	}
	var warnings []DuplicateNameWarning
	for ps, f := range files {
		if len(f) > 1 {
			sort.Strings(f)
			warnings = append(warnings, DuplicateNameWarning{PostScriptName: ps, Files: f})
		}
	}
	sort.Slice(warnings, func(i, j int) bool {
		return warnings[i].PostScriptName < warnings[j].PostScriptName
	})
	for _, w := range warnings {
		tracer().Infof("duplicate name: %s", w)
	}
	return warnings
}

// Apply writes every row back to its font file. Files failing to persist
// are reported; their rows keep their state.
func (e *Engine) Apply(ctx context.Context, p Persister) Report {
	index := e.pathIndex()
	return Run(ctx, e.paths(), func(ctx context.Context, path string) error {
		i := index[path]
		if err := p.Persist(ctx, path, e.rows[i]); err != nil {
			return err
		}
		e.rows[i].State = Persisted
		return nil
	})
}

func (e *Engine) paths() []string {
	paths := make([]string, len(e.rows))
	for i, r := range e.rows {
		paths[i] = e.Path(r)
	}
	return paths
}

// pathIndex maps file paths to row indices. Paths are unique, see SetRows
// and Init.
func (e *Engine) pathIndex() map[string]int {
	index := make(map[string]int, len(e.rows))
	for i, r := range e.rows {
		index[e.Path(r)] = i
	}
	return index
}
