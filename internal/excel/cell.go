package excel

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Kind classifies how a cell value is written back.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindBool
	KindRichText
	KindFormula
)

// Cell is the raw, unevaluated content of one worksheet cell.
type Cell struct {
	Kind     Kind
	Value    string // raw value, no number formatting applied
	Formula  string // without the leading "="
	RichText []excelize.RichTextRun
}

// Text returns the cell as typed into the sheet: "=" plus the formula for
// formula cells, the raw value otherwise.
func (c Cell) Text() string {
	if c.Formula != "" {
		return "=" + c.Formula
	}
	return c.Value
}

func (c Cell) IsEmpty() bool {
	return c.Text() == ""
}

// Row is an ordered sequence of cells starting at column A.
type Row []Cell

// At returns the cell at a zero-based column offset; offsets past the
// end of the row read as empty.
func (r Row) At(col int) Cell {
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// Texts returns the raw text of every cell in the row.
func (r Row) Texts() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Text()
	}
	return out
}

// trimRow drops trailing empty cells.
func trimRow(r Row) Row {
	end := len(r)
	for end > 0 && r[end-1].IsEmpty() {
		end--
	}
	return r[:end]
}

func classify(cellType excelize.CellType, raw string) Kind {
	if raw == "" {
		return KindEmpty
	}
	switch cellType {
	case excelize.CellTypeBool:
		return KindBool
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return KindNumber
		}
	}
	return KindString
}
