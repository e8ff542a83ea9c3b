package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	hyperlinkPrefix = "=HY"
	percentSuffix   = "%"

	// Font of Excel's built-in "Hyperlink" cell style.
	hyperlinkColor = "0563C1"
)

// HighlightResult counts the cells styled by HighlightRows.
type HighlightResult struct {
	Hyperlinks int
	Percents   int
}

// HighlightRows styles cells in rows startRow..endRow, columns 1..maxCol:
// cells holding a "=HY..." formula get the hyperlink look, other cells
// whose text ends in "%" get a solid fill of fillColor.
func (e *Editor) HighlightRows(sheet string, startRow, endRow, maxCol int, fillColor string) (HighlightResult, error) {
	var res HighlightResult

	for r := startRow; r <= endRow; r++ {
		for c := 1; c <= maxCol; c++ {
			cell, err := e.ReadCell(sheet, c, r)
			if err != nil {
				return res, err
			}
			text := cell.Text()

			var styleID int
			switch {
			case strings.HasPrefix(text, hyperlinkPrefix):
				styleID, err = e.hyperlinkStyle()
				res.Hyperlinks++
			case strings.HasSuffix(text, percentSuffix):
				styleID, err = e.fillStyle(fillColor)
				res.Percents++
			default:
				continue
			}
			if err != nil {
				return res, err
			}

			name, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return res, err
			}
			if err := e.file.SetCellStyle(sheet, name, name, styleID); err != nil {
				return res, fmt.Errorf("failed to style %s!%s: %w", sheet, name, err)
			}
		}
	}
	return res, nil
}

func (e *Editor) hyperlinkStyle() (int, error) {
	return e.style("hyperlink", &excelize.Style{
		Font: &excelize.Font{Color: hyperlinkColor, Underline: "single"},
	})
}

func (e *Editor) fillStyle(color string) (int, error) {
	color = strings.TrimPrefix(color, "#")
	return e.style("fill:"+strings.ToLower(color), &excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
	})
}

// style creates a workbook style once and reuses its ID afterwards.
func (e *Editor) style(key string, s *excelize.Style) (int, error) {
	if id, ok := e.styles[key]; ok {
		return id, nil
	}
	id, err := e.file.NewStyle(s)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s style: %w", key, err)
	}
	e.styles[key] = id
	return id, nil
}
