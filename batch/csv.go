package batch

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/npillmayer/otname/ot"
)

// Columns of the tabular batch format, in order.
var Columns = []string{
	"file_name", "family_name", "is_bold", "is_italic", "is_oblique",
	"uswidthclass", "wdt", "width", "usweightclass", "wgt", "weight", "slp", "slope",
}

// WriteCSV writes rows in tabular format, with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return ot.Errorf(ot.ErrIO, "writing CSV header: %v", err)
	}
	for _, r := range rows {
		rec := []string{
			r.FileName, r.FamilyName,
			flag(r.Style.IsBold), flag(r.Style.IsItalic), flag(r.Style.IsOblique),
			strconv.Itoa(r.Style.WidthClass), r.Wdt, r.Width,
			strconv.Itoa(r.Style.WeightClass), r.Wgt, r.Weight,
			r.Slp, r.Slope,
		}
		if err := cw.Write(rec); err != nil {
			return ot.Errorf(ot.ErrIO, "writing CSV row for %s: %v", r.FileName, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return ot.Errorf(ot.ErrIO, "writing CSV: %v", err)
	}
	return nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ReadCSV reads rows in tabular format. The header line is required;
// columns are identified by name, so their order does not matter.
// Malformed flags or class values yield an error of kind
// ErrInvalidArgument, classes out of range one of kind ErrValidation.
// Rows are returned in state Raw, without names.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, ot.Errorf(ot.ErrIO, "reading CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	col := make(map[string]int, len(Columns))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range Columns {
		if _, ok := col[name]; !ok {
			return nil, ot.Errorf(ot.ErrValidation, "CSV lacks column %q", name)
		}
	}
	rows := make([]Row, 0, len(records)-1)
	for n, rec := range records[1:] {
		line := n + 2
		field := func(name string) string { return rec[col[name]] }
		row := Row{
			FileName:   field("file_name"),
			FamilyName: field("family_name"),
			Wdt:        field("wdt"),
			Width:      field("width"),
			Wgt:        field("wgt"),
			Weight:     field("weight"),
			Slp:        field("slp"),
			Slope:      field("slope"),
		}
		var err error
		if row.Style.IsBold, err = parseFlag(field("is_bold"), "is_bold", line); err != nil {
			return nil, err
		}
		if row.Style.IsItalic, err = parseFlag(field("is_italic"), "is_italic", line); err != nil {
			return nil, err
		}
		if row.Style.IsOblique, err = parseFlag(field("is_oblique"), "is_oblique", line); err != nil {
			return nil, err
		}
		if row.Style.WidthClass, err = parseClass(field("uswidthclass"), "uswidthclass", line); err != nil {
			return nil, err
		}
		if row.Style.WeightClass, err = parseClass(field("usweightclass"), "usweightclass", line); err != nil {
			return nil, err
		}
		if err = row.Style.Validate(); err != nil {
			return nil, ot.Errorf(ot.ErrValidation, "CSV line %d: %v", line, err)
		}
		rows = append(rows, row)
	}
	tracer().Debugf("read %d rows from CSV", len(rows))
	return rows, nil
}

func parseFlag(s, column string, line int) (bool, error) {
	switch s {
	case "1", "true", "True":
		return true, nil
	case "0", "false", "False", "":
		return false, nil
	}
	return false, ot.Errorf(ot.ErrInvalidArgument, "CSV line %d: %s is %q, need 0 or 1", line, column, s)
}

func parseClass(s, column string, line int) (int, error) {
	c, err := strconv.Atoi(s)
	if err != nil {
		return 0, ot.Errorf(ot.ErrInvalidArgument, "CSV line %d: %s is %q, need a number", line, column, s)
	}
	return c, nil
}
