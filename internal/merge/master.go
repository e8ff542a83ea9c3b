package merge

import (
	"fmt"

	"mastermerge/internal/excel"
	"mastermerge/internal/logger"
)

// Master is the run's accumulator: the master workbook held open while
// every input file appends to it.
type Master struct {
	editor    *excel.Editor
	sheet     string
	lastRow   int
	lastCol   int
	fillColor string
}

// OpenMaster locates the master file in dir and its target sheet.
func OpenMaster(dir, ext, filePattern, sheetPattern, fillColor string) (*Master, error) {
	path, err := excel.FindMasterFile(dir, ext, filePattern)
	if err != nil {
		return nil, err
	}

	editor, err := excel.OpenFile(path)
	if err != nil {
		return nil, err
	}

	sheet, err := editor.FindSheet(sheetPattern)
	if err != nil {
		editor.Close()
		return nil, err
	}

	lastRow, lastCol, err := editor.Extent(sheet)
	if err != nil {
		editor.Close()
		return nil, err
	}

	logger.Info("Opened master workbook", "file", path, "sheet", sheet, "rows", lastRow)
	return &Master{
		editor:    editor,
		sheet:     sheet,
		lastRow:   lastRow,
		lastCol:   lastCol,
		fillColor: fillColor,
	}, nil
}

func (m *Master) Path() string  { return m.editor.Path() }
func (m *Master) Sheet() string { return m.sheet }
func (m *Master) Rows() int     { return m.lastRow }

// Append writes rows after the current last row and returns the first
// row number written.
func (m *Master) Append(rows []excel.Row) (int, error) {
	start := m.lastRow + 1
	for _, row := range rows {
		if err := m.editor.WriteRow(m.sheet, m.lastRow+1, row); err != nil {
			return start, err
		}
		m.lastRow++
		if len(row) > m.lastCol {
			m.lastCol = len(row)
		}
	}
	return start, nil
}

// Style highlights every row from startRow to the end of the sheet.
func (m *Master) Style(startRow int) (excel.HighlightResult, error) {
	return m.editor.HighlightRows(m.sheet, startRow, m.lastRow, m.lastCol, m.fillColor)
}

func (m *Master) Save() error {
	if err := m.editor.Save(); err != nil {
		return fmt.Errorf("failed to save master %s: %w", m.editor.Path(), err)
	}
	return nil
}

func (m *Master) Close() error {
	return m.editor.Close()
}
