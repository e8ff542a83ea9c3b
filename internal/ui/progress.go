package ui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"mastermerge/internal/merge"
)

// RunFunc performs a merge run reporting to the given observer.
type RunFunc func(ctx context.Context, obs merge.Observer) (*merge.Summary, error)

type fileStartedMsg struct {
	index int
	total int
	path  string
}

type fileFinishedMsg struct {
	result merge.FileResult
}

type runDoneMsg struct{}

// progressModel renders a live view of a merge run
type progressModel struct {
	total   int
	current string
	results []merge.FileResult
	done    bool
	cancel  context.CancelFunc
}

func newProgressModel(cancel context.CancelFunc) progressModel {
	return progressModel{cancel: cancel}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fileStartedMsg:
		m.total = msg.total
		m.current = msg.path
	case fileFinishedMsg:
		m.results = append(m.results, msg.result)
		m.current = ""
	case runDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// The run stops before its next file
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Merging unreviewed products") + "\n\n")
	for _, r := range m.results {
		b.WriteString(fileLine(r) + "\n")
	}
	if m.current != "" {
		b.WriteString(fmt.Sprintf("… %s\n", filepath.Base(m.current)))
	}

	bar := progressBar(len(m.results), m.total, 30)
	b.WriteString(fmt.Sprintf("\n%s %d/%d\n", bar, len(m.results), m.total))
	if !m.done {
		b.WriteString(nothingStyle.Render("q: stop after current file") + "\n")
	}
	return b.String()
}

func progressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	return addedStyle.Render(strings.Repeat("█", filled)) + nothingStyle.Render(strings.Repeat("░", width-filled))
}

// programObserver forwards merge events to the bubbletea program.
type programObserver struct {
	p *tea.Program
}

func (o programObserver) FileStarted(index, total int, path string) {
	o.p.Send(fileStartedMsg{index: index, total: total, path: path})
}

func (o programObserver) FileFinished(result merge.FileResult) {
	o.p.Send(fileFinishedMsg{result: result})
}

// RunWithProgress executes run while rendering its progress to out.
func RunWithProgress(ctx context.Context, out io.Writer, run RunFunc, opts ...tea.ProgramOption) (*merge.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithOutput(out)}, opts...)
	p := tea.NewProgram(newProgressModel(cancel), opts...)

	var (
		summary *merge.Summary
		runErr  error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		summary, runErr = run(ctx, programObserver{p: p})
		p.Send(runDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-finished
		return summary, fmt.Errorf("error running progress view: %w", err)
	}

	<-finished
	return summary, runErr
}
