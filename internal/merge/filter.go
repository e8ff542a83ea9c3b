package merge

import "mastermerge/internal/excel"

const (
	MarkerAdded   = "_added"
	MarkerNothing = "_nothing"
)

// Columns names the two reviewer columns that gate a row's transfer.
type Columns struct {
	Qualified       int // zero-based offset
	Notes           int // zero-based offset
	QualifiedHeader string
	NotesHeader     string
}

// Qualifies reports whether a data row carries a reviewer annotation.
// Repeated header rows never qualify.
func Qualifies(row excel.Row, cols Columns) bool {
	qualified := row.At(cols.Qualified).Text()
	notes := row.At(cols.Notes).Text()

	if isHeader(qualified, cols.QualifiedHeader) || isHeader(notes, cols.NotesHeader) {
		return false
	}
	return qualified != "" || notes != ""
}

func isHeader(value, label string) bool {
	return label != "" && value == label
}

// FilterRows drops the header row and returns the qualifying rows in order.
func FilterRows(rows []excel.Row, cols Columns) []excel.Row {
	if len(rows) <= 1 {
		return nil
	}

	var out []excel.Row
	for _, row := range rows[1:] {
		if Qualifies(row, cols) {
			out = append(out, row)
		}
	}
	return out
}

// Marker returns the processed marker for a file that contributed n rows.
func Marker(n int) string {
	if n > 0 {
		return MarkerAdded
	}
	return MarkerNothing
}
