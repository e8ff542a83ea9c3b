package excel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mastermerge/internal/logger"
)

var (
	ErrInputDirUnreadable = errors.New("input directory unreadable")
	ErrMasterNotFound     = errors.New("master file not found")
)

// ListInputFiles returns the files in dir ending with ext whose names carry
// none of the processed markers. Office lock files and subdirectories are
// skipped.
// Paths come back sorted by file name.
func ListInputFiles(dir, ext string, markers []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputDirUnreadable, dir, err)
	}

	// ReadDir returns entries sorted by filename
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ext) || isLockFile(name) {
			continue
		}
		if hasMarker(name, markers) {
			logger.Debug("Skipping processed file", "file", name)
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}

// isLockFile reports whether name is a lock file left by Excel (~$) or
// LibreOffice (.~lock) while a workbook is open.
func isLockFile(name string) bool {
	return strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".~")
}

func hasMarker(name string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// FindMasterFile returns the first file in dir, by name, that ends with ext
// and matches pattern case-insensitively.
func FindMasterFile(dir, ext, pattern string) (string, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return "", fmt.Errorf("invalid master pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: cannot read %s: %v", ErrMasterNotFound, dir, err)
	}

	found := ""
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ext) || !re.MatchString(name) {
			continue
		}
		if found != "" {
			logger.Debug("Ignoring additional master candidate", "file", name, "using", filepath.Base(found))
			continue
		}
		found = filepath.Join(dir, name)
	}

	if found == "" {
		return "", fmt.Errorf("%w in %s", ErrMasterNotFound, dir)
	}
	return found, nil
}

// FileReport describes a pending input file for the scan command.
type FileReport struct {
	Path    string
	Sheet   string
	Rows    int
	Headers []string
	Missing []string // expected header labels not found at their columns
}

// DescribeFile opens an input file and checks that its first sheet carries
// the expected header labels at the given zero-based columns.
func DescribeFile(path string, expected map[int]string) (*FileReport, error) {
	editor, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	sheet, err := editor.FirstSheet()
	if err != nil {
		return nil, err
	}

	headers, err := editor.GetColumnHeaders(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read headers from sheet %s: %w", sheet, err)
	}

	lastRow, _, err := editor.Extent(sheet)
	if err != nil {
		return nil, err
	}

	report := &FileReport{Path: path, Sheet: sheet, Rows: lastRow, Headers: headers}
	for col := 0; col <= maxKey(expected); col++ {
		label, ok := expected[col]
		if !ok {
			continue
		}
		if col >= len(headers) || strings.TrimSpace(headers[col]) != label {
			report.Missing = append(report.Missing, label)
		}
	}
	return report, nil
}

func maxKey(m map[int]string) int {
	hi := -1
	for k := range m {
		if k > hi {
			hi = k
		}
	}
	return hi
}
