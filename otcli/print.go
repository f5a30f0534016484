package main

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/otname/batch"
	"github.com/npillmayer/otname/wordlist"
	"github.com/pterm/pterm"
)

func printRows(rows []batch.Row) {
	data := [][]string{
		{"#", "File", "Family", "B", "I", "O", "Wght", "Wdth", "Words", "State"},
	}
	for i, r := range rows {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.FileName,
			r.FamilyName,
			mark(r.Style.IsBold),
			mark(r.Style.IsItalic),
			mark(r.Style.IsOblique),
			strconv.Itoa(r.Style.WeightClass),
			strconv.Itoa(r.Style.WidthClass),
			fmt.Sprintf("%s %s %s", r.Width, r.Weight, r.Slope),
			r.State.String(),
		})
	}
	render(data)
}

func printNames(row batch.Row) {
	n := row.Names
	data := [][]string{
		{"ID", "Name", "Value"},
		{"1", "Family", n.LegacyFamily},
		{"2", "Subfamily", n.LegacySubfamily},
		{"4", "Full name", n.FullName},
		{"6", "PostScript name", n.PostScriptName},
		{"16", "Typographic family", n.TypographicFamily.Or("–")},
		{"17", "Typographic subfamily", n.TypographicSubfamily.Or("–")},
	}
	pterm.Printf("%s\n", row)
	render(data)
}

func printDictionary(d *wordlist.Dictionary) {
	data := [][]string{{"Kind", "Class", "Short", "Long"}}
	for _, c := range d.WeightClasses() {
		p := d.Weights[c]
		data = append(data, []string{"weight", strconv.Itoa(c), p.Short, p.Long})
	}
	for _, c := range d.WidthClasses() {
		p := d.Widths[c]
		data = append(data, []string{"width", strconv.Itoa(c), p.Short, p.Long})
	}
	data = append(data,
		[]string{"italic", "", d.Italic.Short, d.Italic.Long},
		[]string{"oblique", "", d.Oblique.Short, d.Oblique.Long},
	)
	render(data)
}

func printReport(report batch.Report) {
	for _, f := range report.Failed {
		pterm.Error.Println(f.Error())
	}
	for _, s := range report.Skipped {
		pterm.Warning.Printf("skipped %s\n", s)
	}
	if len(report.Succeeded) > 0 {
		pterm.Success.Printf("%d files processed\n", len(report.Succeeded))
	}
}

func printCollisions(dups []batch.DuplicateNameWarning) {
	for _, d := range dups {
		pterm.Warning.Println(d.String())
	}
}

func render(data [][]string) {
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf("cannot render table: %v", err)
	}
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return ""
}
