package otname

import (
	"context"

	"github.com/npillmayer/otname/batch"
	"github.com/npillmayer/otname/cff"
	"github.com/npillmayer/otname/internal/fontload"
	"github.com/npillmayer/otname/ot"
)

// Open opens a font file for a batch.
func Open(path string) (batch.Font, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

var _ batch.Opener = Open

// Persister writes batch rows to font files.
type Persister struct {
	OutputDir       string // empty for writing next to the input file
	Overwrite       bool   // replace existing files instead of numbering them
	RecalcTimestamp bool   // set head.modified to the current time
}

var _ batch.Persister = Persister{}

// Persist loads the font at path, sets the names and style attributes of
// row, and saves it.
func (p Persister) Persist(ctx context.Context, path string, row batch.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := Load(path)
	if err != nil {
		return err
	}
	if err = f.ApplyNames(row.Names); err != nil {
		return err
	}
	if err = f.ApplyStyle(row.Style); err != nil {
		return err
	}
	if f.Compact() != nil && row.Weight != "" {
		if err = f.SetCFFField(cff.Weight, row.Weight); err != nil {
			return err
		}
	}
	out, err := fontload.OutputPath(path, p.OutputDir, p.Overwrite)
	if err != nil {
		return err
	}
	return f.Save(out, ot.RecalcTimestamp(p.RecalcTimestamp))
}
