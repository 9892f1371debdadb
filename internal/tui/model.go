// Package tui provides the Bubbletea progress display for cmd/loudnorm.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FileStatus is the processing state of a single file.
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusAnalyzing
	StatusEncoding
	StatusComplete
	StatusError
)

// FileProgress tracks progress for a single file in the queue.
type FileProgress struct {
	InputPath string
	Status    FileStatus

	Progress  float64 // 0.0 to 1.0
	StartTime time.Time

	GainDB     float64
	TruePeakDB float64

	Error error
}

// ProgressMsg reports a fraction-complete update for the file currently
// at index: one message once analysis is done, then the encode stage's
// progress callback.
type ProgressMsg struct {
	FileIndex int
	Stage     string // "analyze" or "encode"
	Progress  float64
}

// FileStartMsg signals that processing has begun for the file at index.
type FileStartMsg struct {
	FileIndex int
	Path      string
}

// FileCompleteMsg reports the outcome for the file at index.
type FileCompleteMsg struct {
	FileIndex  int
	GainDB     float64
	TruePeakDB float64
	Error      error
}

// AllCompleteMsg signals that every file in the queue has finished.
type AllCompleteMsg struct{}

// Model is the Bubbletea model driving the processing view.
type Model struct {
	Files        []FileProgress
	CurrentIndex int
	Completed    int
	Failed       int
	Done         bool

	ProgressChan chan tea.Msg

	Width int
}

// NewModel creates a queued Model for the given input paths.
func NewModel(paths []string) Model {
	files := make([]FileProgress, len(paths))
	for i, p := range paths {
		files[i] = FileProgress{InputPath: p, Status: StatusQueued}
	}

	return Model{
		Files:        files,
		CurrentIndex: -1,
		ProgressChan: make(chan tea.Msg, 100),
	}
}

func (m Model) Init() tea.Cmd {
	return waitForProgress(m.ProgressChan)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width

	case FileStartMsg:
		m.CurrentIndex = msg.FileIndex
		m.Files[m.CurrentIndex].Status = StatusAnalyzing
		m.Files[m.CurrentIndex].StartTime = time.Now()
		return m, waitForProgress(m.ProgressChan)

	case ProgressMsg:
		if msg.FileIndex >= 0 && msg.FileIndex < len(m.Files) {
			fp := &m.Files[msg.FileIndex]
			fp.Progress = msg.Progress
			if msg.Stage == "encode" {
				fp.Status = StatusEncoding
			}
		}
		return m, waitForProgress(m.ProgressChan)

	case FileCompleteMsg:
		if msg.FileIndex >= 0 && msg.FileIndex < len(m.Files) {
			fp := &m.Files[msg.FileIndex]
			fp.GainDB = msg.GainDB
			fp.TruePeakDB = msg.TruePeakDB
			fp.Error = msg.Error
			if msg.Error != nil {
				fp.Status = StatusError
				m.Failed++
			} else {
				fp.Status = StatusComplete
				m.Completed++
			}
		}
		return m, waitForProgress(m.ProgressChan)

	case AllCompleteMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	if m.Done {
		return renderSummary(m)
	}
	return renderQueue(m)
}

func waitForProgress(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

var (
	queuedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2FA4E7")).Bold(true)
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2FA84A"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D7462F")).Bold(true)
)

func renderQueue(m Model) string {
	var b strings.Builder
	b.WriteString("loudnorm\n\n")

	for _, f := range m.Files {
		switch f.Status {
		case StatusQueued:
			b.WriteString(queuedStyle.Render(fmt.Sprintf("  %s  queued\n", f.InputPath)))
		case StatusAnalyzing, StatusEncoding:
			b.WriteString(activeStyle.Render(fmt.Sprintf("  %s  %.0f%%\n", f.InputPath, f.Progress*100)))
		case StatusComplete:
			b.WriteString(completeStyle.Render(fmt.Sprintf("  %s  done (gain %.2f dB)\n", f.InputPath, f.GainDB)))
		case StatusError:
			b.WriteString(errorStyle.Render(fmt.Sprintf("  %s  error: %v\n", f.InputPath, f.Error)))
		}
	}

	b.WriteString("\n(q to quit)\n")
	return b.String()
}

func renderSummary(m Model) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Done: %d succeeded, %d failed\n", m.Completed, m.Failed))
	for _, f := range m.Files {
		if f.Status == StatusError {
			b.WriteString(errorStyle.Render(fmt.Sprintf("  %s: %v\n", f.InputPath, f.Error)))
		}
	}
	return b.String()
}
