package merge

import (
	"fmt"
	"os"
	"strings"

	"mastermerge/internal/excel"
)

// MarkedPath inserts marker in front of the trailing extension.
func MarkedPath(path, ext, marker string) string {
	return strings.TrimSuffix(path, ext) + marker + ext
}

// Finalize writes the input workbook to its marked path and removes the
// original. The marked copy is written first so a failed save never
// loses the input.
func Finalize(editor *excel.Editor, marked, original string) error {
	if err := editor.SaveAs(marked); err != nil {
		return fmt.Errorf("failed to save %s: %w", marked, err)
	}
	if err := os.Remove(original); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", original, err)
	}
	return nil
}
