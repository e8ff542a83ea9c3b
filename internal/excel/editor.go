package excel

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrNoSheets      = errors.New("workbook has no sheets")
)

type Editor struct {
	file     *excelize.File
	filepath string
	styles   map[string]int
}

// OpenFile opens an existing Excel file
func OpenFile(filepath string) (*Editor, error) {
	file, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filepath, err)
	}
	return &Editor{
		file:     file,
		filepath: filepath,
		styles:   make(map[string]int),
	}, nil
}

// Path returns the path the editor was opened from or last saved to.
func (e *Editor) Path() string {
	return e.filepath
}

// GetSheetNames returns all sheet names in the workbook
func (e *Editor) GetSheetNames() []string {
	return e.file.GetSheetList()
}

// FirstSheet returns the name of the first sheet in workbook order.
func (e *Editor) FirstSheet() (string, error) {
	sheets := e.file.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("%s: %w", e.filepath, ErrNoSheets)
	}
	return sheets[0], nil
}

// FindSheet returns the first sheet whose name matches pattern,
// case-insensitively.
func (e *Editor) FindSheet(pattern string) (string, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return "", fmt.Errorf("invalid sheet pattern %q: %w", pattern, err)
	}
	for _, name := range e.file.GetSheetList() {
		if re.MatchString(name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("no sheet matching %q in %s: %w", pattern, e.filepath, ErrSheetNotFound)
}

// GetColumnHeaders returns all column headers (first row)
func (e *Editor) GetColumnHeaders(sheet string) ([]string, error) {
	rows, err := e.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get first row: %w", err)
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return rows[0], nil
}

// Extent returns the last used row and column (1-based) of a sheet. It
// takes the larger of the stored dimension and the rows holding values,
// so appends never land on an occupied row.
func (e *Editor) Extent(sheet string) (lastRow, lastCol int, err error) {
	rows, err := e.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get rows of %s: %w", sheet, err)
	}
	lastRow = len(rows)
	for _, row := range rows {
		if len(row) > lastCol {
			lastCol = len(row)
		}
	}

	dimRow, dimCol := e.dimension(sheet)
	if dimRow > lastRow {
		lastRow = dimRow
	}
	if dimCol > lastCol {
		lastCol = dimCol
	}
	return lastRow, lastCol, nil
}

// dimension parses the sheet's stored <dimension> ref; zero when absent.
func (e *Editor) dimension(sheet string) (int, int) {
	ref, err := e.file.GetSheetDimension(sheet)
	if err != nil || ref == "" {
		return 0, 0
	}
	last := ref
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		last = ref[i+1:]
	}
	col, row, err := excelize.CellNameToCoordinates(last)
	if err != nil {
		return 0, 0
	}
	// A bare "A1" is what empty sheets report.
	if !strings.Contains(ref, ":") && row == 1 && col == 1 {
		return 0, 0
	}
	return row, col
}

// ReadRows returns every row of a sheet as raw cells, formulas and rich
// text included. Trailing empty cells are dropped from each row.
func (e *Editor) ReadRows(sheet string) ([]Row, error) {
	lastRow, lastCol, err := e.Extent(sheet)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, lastRow)
	for r := 1; r <= lastRow; r++ {
		row := make(Row, lastCol)
		for c := 1; c <= lastCol; c++ {
			cell, err := e.ReadCell(sheet, c, r)
			if err != nil {
				return nil, err
			}
			row[c-1] = cell
		}
		rows = append(rows, trimRow(row))
	}
	return rows, nil
}

// ReadCell reads one cell by 1-based coordinates.
func (e *Editor) ReadCell(sheet string, col, row int) (Cell, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Cell{}, err
	}

	formula, err := e.file.GetCellFormula(sheet, name)
	if err != nil {
		return Cell{}, fmt.Errorf("failed to get formula for %s: %w", name, err)
	}
	if formula != "" {
		return Cell{Kind: KindFormula, Formula: strings.TrimPrefix(formula, "=")}, nil
	}

	raw, err := e.file.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Cell{}, fmt.Errorf("failed to get value for %s: %w", name, err)
	}
	cellType, err := e.file.GetCellType(sheet, name)
	if err != nil {
		return Cell{}, fmt.Errorf("failed to get type for %s: %w", name, err)
	}

	cell := Cell{Kind: classify(cellType, raw), Value: raw}
	if cellType == excelize.CellTypeSharedString || cellType == excelize.CellTypeInlineString {
		runs, err := e.file.GetCellRichText(sheet, name)
		if err != nil {
			return Cell{}, fmt.Errorf("failed to get rich text for %s: %w", name, err)
		}
		if isRich(runs) {
			cell.Kind = KindRichText
			cell.RichText = runs
		}
	}
	return cell, nil
}

func isRich(runs []excelize.RichTextRun) bool {
	if len(runs) > 1 {
		return true
	}
	return len(runs) == 1 && runs[0].Font != nil
}

// WriteRow writes cells into a 1-based row starting at column A, keeping
// each cell's kind: numbers stay numbers, formulas stay formulas.
func (e *Editor) WriteRow(sheet string, rowNum int, row Row) error {
	for i, cell := range row {
		name, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := e.writeCell(sheet, name, cell); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, name, err)
		}
	}
	return nil
}

func (e *Editor) writeCell(sheet, name string, cell Cell) error {
	switch cell.Kind {
	case KindEmpty:
		return nil
	case KindFormula:
		return e.file.SetCellFormula(sheet, name, cell.Formula)
	case KindNumber:
		f, err := strconv.ParseFloat(cell.Value, 64)
		if err != nil {
			return e.file.SetCellStr(sheet, name, cell.Value)
		}
		return e.file.SetCellFloat(sheet, name, f, -1, 64)
	case KindBool:
		return e.file.SetCellBool(sheet, name, cell.Value == "1" || strings.EqualFold(cell.Value, "true"))
	case KindRichText:
		return e.file.SetCellRichText(sheet, name, cell.RichText)
	default:
		return e.file.SetCellStr(sheet, name, cell.Value)
	}
}

// CellText returns the raw text of a cell by name.
func (e *Editor) CellText(sheet, name string) (string, error) {
	col, row, err := excelize.CellNameToCoordinates(name)
	if err != nil {
		return "", err
	}
	cell, err := e.ReadCell(sheet, col, row)
	if err != nil {
		return "", err
	}
	return cell.Text(), nil
}

// Save saves the Excel file to the original filepath
func (e *Editor) Save() error {
	if e.filepath == "" {
		return fmt.Errorf("no filepath specified, use SaveAs instead")
	}
	return e.file.SaveAs(e.filepath)
}

// SaveAs saves the Excel file with a new name
func (e *Editor) SaveAs(filepath string) error {
	e.filepath = filepath
	return e.file.SaveAs(filepath)
}

// Close closes the Excel file
func (e *Editor) Close() error {
	return e.file.Close()
}
