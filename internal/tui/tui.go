// Package tui provides a Bubble Tea terminal user interface for hls-downloader.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/hls-downloader/internal/config"
	"github.com/handiism/hls-downloader/internal/download"
	"github.com/handiism/hls-downloader/internal/manifest"
	"github.com/handiism/hls-downloader/internal/model"
)

// errCancelled is shown when the user aborts a running download.
var errCancelled = errors.New("cancelled by user")

// Palette
var (
	accent = lipgloss.Color("#7AA2F7")
	muted  = lipgloss.Color("#565F89")
	green  = lipgloss.Color("#9ECE6A")
	red    = lipgloss.Color("#F7768E")
	yellow = lipgloss.Color("#E0AF68")
	cyan   = lipgloss.Color("#7DCFFF")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	headingStyle  = lipgloss.NewStyle().Foreground(cyan)
	dimStyle      = lipgloss.NewStyle().Foreground(muted)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(yellow)
	resultStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2)
)

// levelMarks maps progress levels to a log prefix and its style.
var levelMarks = map[download.ProgressLevel]struct {
	prefix string
	style  lipgloss.Style
}{
	download.LevelVerbose: {"·", dimStyle},
	download.LevelInfo:    {"›", lipgloss.NewStyle().Foreground(cyan)},
	download.LevelWarning: {"!", lipgloss.NewStyle().Foreground(yellow)},
	download.LevelError:   {"✗", lipgloss.NewStyle().Foreground(red)},
	download.LevelSuccess: {"✓", lipgloss.NewStyle().Foreground(green)},
}

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateChoosing
	StateDownloading
	StateComplete
	StateError
)

// maxLogs is how many progress lines stay on screen.
const maxLogs = 10

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// events carries messages produced by the download goroutines.
	events chan tea.Msg

	// Download manager reference
	manager *download.Manager

	// Variant chooser
	variants []model.Variant
	cursor   int
	reply    chan<- int

	// Download progress
	totalSegments      int32
	downloadedSegments int32
	failedSegments     int32
	receivedBytes      int64
	summary            *model.Summary

	// run numbers the download started from the input screen. Messages
	// from an older run are dropped.
	run int

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model. A nil settings uses the defaults.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "https://cdn.example.com/master.m3u8"
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan tea.Msg, 256),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForEvent(m.events))
}

// Message types
type (
	// ProgressMsg is sent when download progress updates.
	ProgressMsg struct {
		Run   int
		Event download.ProgressEvent
	}

	// VariantPromptMsg asks the user to pick a variant. The chosen index
	// is sent on Reply.
	VariantPromptMsg struct {
		Run      int
		Variants []model.Variant
		Reply    chan<- int
	}

	// InitDoneMsg is sent when initialization completes.
	InitDoneMsg struct {
		Run     int
		Manager *download.Manager
		Err     error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Run     int
		Summary *model.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			switch m.state {
			case StateInput:
				return m, tea.Quit
			case StateInitializing, StateChoosing, StateDownloading:
				m.cancel()
				m.reply = nil
				m.state = StateError
				m.err = errCancelled
			}

		case "enter":
			switch m.state {
			case StateInput:
				if strings.TrimSpace(m.textInput.Value()) != "" {
					m.run++
					m.state = StateInitializing
					return m, tea.Batch(m.initializeDownload(), m.spinner.Tick)
				}
			case StateChoosing:
				if m.reply == nil {
					break
				}
				m.reply <- m.cursor
				m.reply = nil
				m.variants = nil
				m.state = StateInitializing
				return m, m.spinner.Tick
			}

		case "up", "k":
			if m.state == StateChoosing && m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.state == StateChoosing && m.cursor < len(m.variants)-1 {
				m.cursor++
			}

		case "tab":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.reset()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, waitForEvent(m.events))
		if msg.Run != m.run {
			break
		}
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case VariantPromptMsg:
		cmds = append(cmds, waitForEvent(m.events))
		if msg.Run != m.run || m.state != StateInitializing {
			break
		}
		m.variants = msg.Variants
		m.reply = msg.Reply
		m.cursor = bestVariant(msg.Variants)
		m.state = StateChoosing

	case InitDoneMsg:
		if msg.Run != m.run || (m.state != StateInitializing && m.state != StateChoosing) {
			break
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.manager = msg.Manager
		m.state = StateDownloading
		cmds = append(cmds, m.startDownload(), m.tickProgress())

	case DownloadDoneMsg:
		if msg.Run != m.run || m.state != StateDownloading {
			break
		}
		m.summary = msg.Summary
		if m.manager != nil {
			m.receivedBytes, m.downloadedSegments, m.failedSegments, m.totalSegments = m.manager.GetProgress()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateDownloading {
			m.receivedBytes, m.downloadedSegments, m.failedSegments, m.totalSegments = m.manager.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// reset prepares the model for a new download.
func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.manager = nil
	m.variants = nil
	m.reply = nil
	m.cursor = 0
	m.summary = nil
	m.downloadedSegments = 0
	m.failedSegments = 0
	m.totalSegments = 0
	m.receivedBytes = 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.SetValue("")
	m.textInput.Focus()
}

func (m Model) percent() float64 {
	if m.totalSegments == 0 {
		return 0
	}
	return float64(m.downloadedSegments+m.failedSegments) / float64(m.totalSegments)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next message from the download goroutines.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// bestVariant returns the index the chooser starts on.
func bestVariant(variants []model.Variant) int {
	i, err := manifest.HighestBandwidth(context.Background(), variants)
	if err != nil {
		return 0
	}
	return i
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("HLS Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download and merge HLS streams"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateChoosing:
		b.WriteString(m.viewChoosing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Enter playlist URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(levelMarks[download.LevelInfo].style.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Verbose output (tab)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s | Concurrency: %d | Retries: %d",
		m.settings.OutputDir, m.settings.MaxConcurrentSegments, m.settings.DownloadMaxRetries)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(headingStyle.Render("Resolving playlist..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewChoosing() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render(fmt.Sprintf("Found %d variants, choose one:", len(m.variants))))
	b.WriteString("\n\n")
	for i, v := range m.variants {
		line := fmt.Sprintf("  %d. %s", i+1, v.Label())
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if pl := m.manager.Playlist(); pl != nil && pl.Variant != nil {
		b.WriteString(selectedStyle.Render("Variant: " + pl.Variant.Label()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	b.WriteString(levelMarks[download.LevelInfo].style.Render(fmt.Sprintf(
		"Segments: %d/%d | Failed: %d | Downloaded: %.2f MB",
		m.downloadedSegments,
		m.totalSegments,
		m.failedSegments,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	s := m.summary
	if s == nil {
		s = &model.Summary{}
	}

	if !s.Merged {
		return resultStyle.Render(levelMarks[download.LevelWarning].style.Render(fmt.Sprintf(
			"Nothing to merge\n\nSegments failed: %d/%d", len(s.Failed), s.Total)))
	}

	title := "Download Complete!"
	if !s.Complete() {
		title = "Download finished with missing segments"
	}

	body := fmt.Sprintf(
		"%s\n\n"+
			"Output: %s\n"+
			"Segments: %d/%d\n"+
			"Size: %.2f MB",
		title,
		s.OutputPath,
		s.Downloaded,
		s.Total,
		float64(s.Bytes)/1024/1024,
	)
	if len(s.Failed) > 0 {
		body += fmt.Sprintf("\nSkipped: %s", formatIndices(s.Failed))
	}

	return resultStyle.Render(body)
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(levelMarks[download.LevelError].style.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder
	for _, entry := range m.logs {
		mark := levelMarks[entry.Level]
		b.WriteString(mark.style.Render(mark.prefix + " " + entry.Message))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: verbose • esc: quit"
	case StateChoosing:
		return "↑/↓: move • enter: select • esc: cancel"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// formatIndices renders at most 10 indices.
func formatIndices(indices []int) string {
	parts := make([]string, 0, len(indices))
	for i, idx := range indices {
		if i == 10 {
			parts = append(parts, fmt.Sprintf("... (%d more)", len(indices)-10))
			break
		}
		parts = append(parts, fmt.Sprint(idx))
	}
	return strings.Join(parts, ", ")
}

// chooser returns a Selector that hands the variants to the UI and waits
// for the user's pick.
func (m Model) chooser() manifest.Selector {
	events, run := m.events, m.run
	return func(ctx context.Context, variants []model.Variant) (int, error) {
		reply := make(chan int, 1)
		select {
		case events <- VariantPromptMsg{Run: run, Variants: variants, Reply: reply}:
		case <-ctx.Done():
			return 0, ctx.Err()
		}

		select {
		case i := <-reply:
			return i, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// forwarder passes progress events of the current run to the UI. Events
// are dropped when the buffer is full so a slow terminal never stalls the
// downloads.
func (m Model) forwarder() func(download.ProgressEvent) {
	events, run := m.events, m.run
	return func(event download.ProgressEvent) {
		select {
		case events <- ProgressMsg{Run: run, Event: event}:
		default:
		}
	}
}

// initializeDownload resolves the playlist and creates the manager.
func (m Model) initializeDownload() tea.Cmd {
	ctx := m.ctx
	url := strings.TrimSpace(m.textInput.Value())
	settings := m.settings
	choose := m.chooser()
	forward := m.forwarder()
	run := m.run

	return func() tea.Msg {
		manager := download.NewManager(settings, forward)
		if err := manager.Initialize(ctx, url, choose); err != nil {
			return InitDoneMsg{Run: run, Err: err}
		}
		return InitDoneMsg{Run: run, Manager: manager}
	}
}

// startDownload starts the actual download in background.
func (m Model) startDownload() tea.Cmd {
	ctx := m.ctx
	manager := m.manager
	run := m.run

	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Run: run, Err: fmt.Errorf("no manager")}
		}
		summary, err := manager.StartDownloads(ctx, "")
		return DownloadDoneMsg{Run: run, Summary: summary, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
