package main

import (
	"strings"

	"github.com/npillmayer/otname/batch"
	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	topic, _ := op.arg(0)
	help(topic)
	return nil, false
}

func help(topic string) {
	tracer().Debugf("help %v", topic)
	switch strings.ToLower(topic) {
	case "rows", "row", "csv", "table":
		pterm.Info.Println("Rows")
		pterm.Println(`
	Every font file of the directory is a row of the table. A row holds
	the family name and the style attributes of a font:
	+--------+------+--------+---------+--------+-------+
	| family | bold | italic | oblique | weight | width |
	+--------+------+--------+---------+--------+-------+
	From these, the style words and the names are derived. Rows are
	stored in ` + csvFileName + ` in the font directory.

	  init                   read rows from the fonts (confirm)
	  rows                   list the rows
	  names <row>            show the names of a row
	  family <name>          set the family name of all rows
	  edit <row> key=value   keys: family, bold, italic, oblique, weight, width,
	                         wdt, widthword, wgt, weightword, slp, slopeword
	  save                   write the rows to ` + csvFileName + `
	  reset                  delete all rows (confirm)
	`)
	case "recalc", "source", "sources":
		pterm.Info.Println("Recalculation")
		pterm.Println(`
	recalc <source> derives family name and style attributes of every row
	from a string, read from the source:
	  fname        the file name (default)
	  1_<id>…      Macintosh name records, e.g. 1_16_17
	  3_<id>…      Windows name records, e.g. 3_1_2
	  cff_1        the CFF FullName
	  cff_2        the CFF FamilyName
	  cff_3        the CFF Weight
	Known sources: ` + strings.Join(batch.SourceNames, ", ") + `
	`)
	case "dict", "dictionary", "words":
		pterm.Info.Println("Word dictionary")
		pterm.Println(`
	The dictionary maps weight classes (1 … 1000) and width classes (1 … 9)
	to a short and a long word. The short one is used in PostScript names.
	  dict                          list the dictionary
	  weight <class> <w1> <w2>      set the words of a weight class
	  width <class> <w1> <w2>       set the words of a width class
	  italic <w1> <w2>              set the italic words
	  oblique <w1> <w2>             set the oblique words
	  delweight <class>             delete a weight class
	  delwidth <class>              delete a width class
	  dictreset                     restore the defaults (confirm)
	  dictsave [file]               save as YAML or JSON
	  dictload <file>               load from YAML or JSON
	`)
	case "apply", "fonts":
		pterm.Info.Println("Applying rows")
		pterm.Println(`
	apply [outdir] writes the names of every row to its font. Without an
	output directory, fonts are replaced in place (confirm).
	collisions lists PostScript names used by more than one font.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	open <dir>   open a font directory
	quit         leave (or <ctrl>D)
	help <topic> topics are: rows, recalc, dict, apply
	`)
	}
}
