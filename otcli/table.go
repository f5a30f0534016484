package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/otname"
	"github.com/npillmayer/otname/batch"
	"github.com/npillmayer/otname/internal/fontload"
	"github.com/npillmayer/otname/ot"
	"github.com/pterm/pterm"
)

// Operations on the rows of the batch table.

var errCancelled = errors.New("cancelled")

func openOp(intp *Intp, op *Op) (error, bool) {
	if err := op.needArgs(1, "<dir>"); err != nil {
		return err, false
	}
	if intp.dirty && !bool(intp.confirm("Discard unsaved changes?")) {
		return errCancelled, false
	}
	return intp.openBatch(op.args[0]), false
}

func initOp(intp *Intp, op *Op) (error, bool) {
	c := ot.Confirmed
	if intp.engine.Len() > 0 {
		c = intp.confirm("Replace all rows, including manual edits, by rows read from the fonts?")
	}
	if !c {
		return errCancelled, false
	}
	files, err := fontload.List(intp.engine.Dir)
	if err != nil {
		return err, false
	}
	report, err := intp.engine.Init(context.Background(), files, c)
	if err != nil {
		return err, false
	}
	intp.dirty = true
	printReport(report)
	printRows(intp.engine.Rows())
	return nil, false
}

func rowsOp(intp *Intp, op *Op) (error, bool) {
	rows := intp.engine.Rows()
	if len(rows) == 0 {
		pterm.Info.Println("no rows, use 'init' to read the fonts")
		return nil, false
	}
	printRows(rows)
	return nil, false
}

func namesOp(intp *Intp, op *Op) (error, bool) {
	if err := op.needArgs(1, "<row>"); err != nil {
		return err, false
	}
	i, err := rowIndex(op.args[0], intp.engine.Len())
	if err != nil {
		return err, false
	}
	row, err := intp.engine.Row(i)
	if err != nil {
		return err, false
	}
	printNames(row)
	return nil, false
}

func recalcOp(intp *Intp, op *Op) (error, bool) {
	s, _ := op.arg(0)
	src, err := batch.ParseSource(s)
	if err != nil {
		return fmt.Errorf("%w; sources are %s", err, strings.Join(batch.SourceNames, ", ")), false
	}
	report, dups := intp.engine.Recalc(context.Background(), src)
	intp.dirty = true
	printReport(report)
	printRows(intp.engine.Rows())
	printCollisions(dups)
	return nil, false
}

func familyOp(intp *Intp, op *Op) (error, bool) {
	if err := op.needArgs(1, "<family name>"); err != nil {
		return err, false
	}
	if err := intp.engine.SetFamilyName(strings.Join(op.args, " ")); err != nil {
		return err, false
	}
	intp.dirty = true
	printRows(intp.engine.Rows())
	return nil, false
}

func editOp(intp *Intp, op *Op) (error, bool) {
	if err := op.needArgs(2, "<row> key=value …"); err != nil {
		return err, false
	}
	i, err := rowIndex(op.args[0], intp.engine.Len())
	if err != nil {
		return err, false
	}
	edit, err := parseEdit(op.args[1:])
	if err != nil {
		return err, false
	}
	if err = intp.engine.EditRow(i, edit); err != nil {
		return err, false
	}
	intp.dirty = true
	row, _ := intp.engine.Row(i)
	printNames(row)
	return nil, false
}

func saveOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.engine.SaveCSV(intp.csvPath); err != nil {
		return err, false
	}
	intp.dirty = false
	pterm.Success.Printf("%d rows saved to %s\n", intp.engine.Len(), intp.csvPath)
	return nil, false
}

func applyOp(intp *Intp, op *Op) (error, bool) {
	outDir, _ := op.arg(0)
	question := "Write names to the fonts in " + intp.engine.Dir + "?"
	if outDir != "" {
		question = "Write fonts to " + outDir + "?"
	}
	if !intp.confirm(question) {
		return errCancelled, false
	}
	printCollisions(intp.engine.Collisions())
	p := otname.Persister{OutputDir: outDir, Overwrite: true}
	report := intp.engine.Apply(context.Background(), p)
	printReport(report)
	return nil, false
}

func resetOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.engine.Reset(intp.confirm("Delete all rows?")); err != nil {
		return err, false
	}
	intp.dirty = true
	return nil, false
}

func collisionsOp(intp *Intp, op *Op) (error, bool) {
	dups := intp.engine.Collisions()
	if len(dups) == 0 {
		pterm.Info.Println("all PostScript names are unique")
	}
	printCollisions(dups)
	return nil, false
}

// rowIndex converts a 1-based row number to an index.
func rowIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("row must be a number in 1 … %d, is %q", n, s)
	}
	return i - 1, nil
}

// parseEdit reads key=value pairs. Keys are family, bold, italic, oblique,
// weight and width for the style, and wdt, widthword, wgt, weightword, slp
// and slopeword for the short and long words.
func parseEdit(args []string) (batch.Edit, error) {
	var edit batch.Edit
	if len(args) == 0 {
		return edit, errors.New("nothing to edit")
	}
	for _, a := range args {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			return edit, fmt.Errorf("expected key=value, have %q", a)
		}
		switch key = strings.ToLower(key); key {
		case "family":
			edit.FamilyName = ot.Some(value)
		case "bold", "italic", "oblique":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return edit, fmt.Errorf("%s must be true or false, is %q", key, value)
			}
			switch key {
			case "bold":
				edit.Style.Bold = ot.Some(b)
			case "italic":
				edit.Style.Italic = ot.Some(b)
			default:
				edit.Style.Oblique = ot.Some(b)
			}
		case "weight", "width":
			n, err := strconv.Atoi(value)
			if err != nil {
				return edit, fmt.Errorf("%s must be a number, is %q", key, value)
			}
			if key == "weight" {
				edit.Style.WeightClass = ot.Some(n)
			} else {
				edit.Style.WidthClass = ot.Some(n)
			}
		case "wdt":
			edit.Words.Width.Short = value
		case "widthword":
			edit.Words.Width.Long = value
		case "wgt":
			edit.Words.Weight.Short = value
		case "weightword":
			edit.Words.Weight.Long = value
		case "slp":
			edit.Words.Slope.Short = value
		case "slopeword":
			edit.Words.Slope.Long = value
		default:
			return edit, fmt.Errorf("unknown key %q", key)
		}
	}
	return edit, nil
}
