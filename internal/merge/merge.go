package merge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"mastermerge/internal/config"
	"mastermerge/internal/excel"
	"mastermerge/internal/logger"
)

// ErrMasterWrite aborts a run: the master no longer matches what is on
// disk, so later files must not build on it.
var ErrMasterWrite = errors.New("master workbook write failed")

// FileError is a failure confined to one input file.
type FileError struct {
	Path  string
	Stage string // "open", "read", "finalize"
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", filepath.Base(e.Path), e.Stage, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// FileResult is the outcome of merging one input file.
type FileResult struct {
	Path     string
	Renamed  string
	Appended int
	Marker   string
	Styled   excel.HighlightResult
	Err      error
}

// Summary describes a completed (or aborted) run.
type Summary struct {
	Master string
	Sheet  string
	DryRun bool
	Files  []FileResult
}

// Appended returns the number of rows added to the master.
func (s *Summary) Appended() int {
	total := 0
	for _, f := range s.Files {
		total += f.Appended
	}
	return total
}

// Failed returns the number of input files that could not be merged.
func (s *Summary) Failed() int {
	n := 0
	for _, f := range s.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Observer is told about each input file as the run progresses.
type Observer interface {
	FileStarted(index, total int, path string)
	FileFinished(result FileResult)
}

type nopObserver struct{}

func (nopObserver) FileStarted(int, int, string) {}
func (nopObserver) FileFinished(FileResult)      {}

type Options struct {
	DryRun   bool
	Observer Observer
}

type Merger struct {
	cfg  *config.Config
	cols Columns
	opts Options
}

func New(cfg *config.Config, opts Options) *Merger {
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return &Merger{
		cfg: cfg,
		cols: Columns{
			Qualified:       cfg.Merge.QualifiedColumn,
			Notes:           cfg.Merge.NotesColumn,
			QualifiedHeader: cfg.Merge.QualifiedHeader,
			NotesHeader:     cfg.Merge.NotesHeader,
		},
		opts: opts,
	}
}

// Run merges every pending input file into the master. Discovery and master
// failures are returned as errors; per-file failures are recorded in the
// summary and the run moves on.
func (m *Merger) Run(ctx context.Context) (*Summary, error) {
	logger.Info("Merge run started", "input_directory", m.cfg.Paths.InputDirectory, "dry_run", m.opts.DryRun)

	files, err := m.inputFiles()
	if err != nil {
		return nil, err
	}

	master, err := m.openMaster()
	if err != nil {
		return nil, err
	}
	defer master.Close()

	summary := &Summary{Master: master.Path(), Sheet: master.Sheet(), DryRun: m.opts.DryRun}

	logger.Info("Processing input files...")
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		m.opts.Observer.FileStarted(i, len(files), path)
		logger.Info("Processing file", "file", path, "progress", fmt.Sprintf("%d/%d", i+1, len(files)))

		result, err := m.processFile(master, path)
		if err != nil {
			result.Err = err
			logger.Error("Failed to process file", "file", path, "error", err)
		}
		summary.Files = append(summary.Files, result)
		m.opts.Observer.FileFinished(result)

		if errors.Is(err, ErrMasterWrite) {
			return summary, err
		}
	}

	logger.Info("Done.", "files", len(summary.Files), "rows_added", summary.Appended(), "failed", summary.Failed())
	return summary, nil
}

func (m *Merger) inputFiles() ([]string, error) {
	logger.Info("Reading the input path...")

	files, err := excel.ListInputFiles(m.cfg.Paths.InputDirectory, m.cfg.Merge.Extension, m.cfg.Merge.ProcessedMarkers)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		logger.Warn("No files found in the input path!", "directory", m.cfg.Paths.InputDirectory)
	} else {
		logger.Info("Input files found", "count", len(files))
	}
	return files, nil
}

func (m *Merger) openMaster() (*Master, error) {
	logger.Info("Reading the master file path...")

	return OpenMaster(
		m.cfg.Paths.MasterDirectory,
		m.cfg.Merge.Extension,
		m.cfg.Merge.MasterPattern,
		m.cfg.Merge.SheetPattern,
		m.cfg.Merge.HighlightColor,
	)
}

func (m *Merger) processFile(master *Master, path string) (FileResult, error) {
	result := FileResult{Path: path}

	editor, err := excel.OpenFile(path)
	if err != nil {
		return result, &FileError{Path: path, Stage: "open", Err: err}
	}
	defer editor.Close()

	sheet, err := editor.FirstSheet()
	if err != nil {
		return result, &FileError{Path: path, Stage: "read", Err: err}
	}
	rows, err := editor.ReadRows(sheet)
	if err != nil {
		return result, &FileError{Path: path, Stage: "read", Err: err}
	}

	qualifying := FilterRows(rows, m.cols)
	result.Appended = len(qualifying)
	result.Marker = Marker(len(qualifying))
	result.Renamed = MarkedPath(path, m.cfg.Merge.Extension, result.Marker)

	if m.opts.DryRun {
		logger.Info("Dry run, leaving files untouched", "file", path, "rows", result.Appended, "marker", result.Marker)
		return result, nil
	}

	if len(qualifying) > 0 {
		start, err := master.Append(qualifying)
		if err != nil {
			return result, fmt.Errorf("%w: %w", ErrMasterWrite, err)
		}

		result.Styled, err = master.Style(start)
		if err != nil {
			return result, fmt.Errorf("%w: %w", ErrMasterWrite, err)
		}

		logger.Info("Rows added to master", "rows", result.Appended, "start_row", start,
			"hyperlinks", result.Styled.Hyperlinks, "percents", result.Styled.Percents)

		if err := master.Save(); err != nil {
			return result, fmt.Errorf("%w: %w", ErrMasterWrite, err)
		}
	}

	if err := Finalize(editor, result.Renamed, path); err != nil {
		return result, &FileError{Path: path, Stage: "finalize", Err: err}
	}

	logger.Info("Input file finalized", "file", filepath.Base(path), "renamed", filepath.Base(result.Renamed))
	return result, nil
}

// Plan is what a run would work on, without touching any file.
type Plan struct {
	Inputs  []string
	Master  string
	Sheet   string
	Reports []*excel.FileReport
	Errors  map[string]error
}

// Plan resolves the input files, the master workbook and its target sheet,
// and checks each input's header labels.
func (m *Merger) Plan() (*Plan, error) {
	files, err := m.inputFiles()
	if err != nil {
		return nil, err
	}

	master, err := m.openMaster()
	if err != nil {
		return nil, err
	}
	defer master.Close()

	plan := &Plan{
		Inputs: files,
		Master: master.Path(),
		Sheet:  master.Sheet(),
		Errors: make(map[string]error),
	}

	expected := map[int]string{
		m.cols.Qualified: m.cols.QualifiedHeader,
		m.cols.Notes:     m.cols.NotesHeader,
	}
	for _, path := range files {
		report, err := excel.DescribeFile(path, expected)
		if err != nil {
			plan.Errors[path] = err
			continue
		}
		plan.Reports = append(plan.Reports, report)
	}
	return plan, nil
}
