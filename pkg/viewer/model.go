package viewer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/examresult/pkg/domain/interfaces"
	"github.com/m-mizutani/examresult/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const promptText = "Enter a roll number and select a semester to view results."

// FetchDoneMsg carries the response of one fetch back into the event loop
type FetchDoneMsg struct {
	Generation uint64
	Artifact   *model.PdfArtifact
	Err        error
}

// DownloadDoneMsg reports the outcome of saving the current artifact
type DownloadDoneMsg struct {
	Path string
	Err  error
}

// Option configures the viewer
type Option func(*Model)

// WithDownloadDir sets where the download action writes PDFs
func WithDownloadDir(dir string) Option {
	return func(m *Model) {
		m.downloadDir = dir
	}
}

// WithFetchTimeout bounds each call to the proxy. Zero means no timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(m *Model) {
		m.timeout = d
	}
}

// Model is the bubbletea model of the results viewer
type Model struct {
	ctx     context.Context
	fetcher interfaces.ResultFetcher
	session *Session

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	downloadDir string
	timeout     time.Duration
	cancel      context.CancelFunc

	notice    string
	noticeErr bool
	width     int
}

// New creates the viewer. ctx carries the logger and bounds every fetch.
func New(ctx context.Context, fetcher interfaces.ResultFetcher, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter Roll Number"
	ti.CharLimit = 64
	ti.Prompt = "Roll number: "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleSpinner

	m := Model{
		ctx:         ctx,
		fetcher:     fetcher,
		session:     NewSession(),
		input:       ti,
		spinner:     sp,
		help:        help.New(),
		keys:        defaultKeys(),
		downloadDir: ".",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Session exposes the underlying state
func (m Model) Session() *Session {
	return m.session
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case FetchDoneMsg:
		return m.handleFetchDone(msg), nil

	case DownloadDoneMsg:
		if msg.Err != nil {
			ctxlog.From(m.ctx).Error("Failed to save result", "error", msg.Err)
			m.setNotice("Download failed: "+msg.Err.Error(), true)
		} else {
			m.setNotice("Saved "+msg.Path, false)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.session.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		m.stopFetch()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		m.session.SetRollNumber(m.rollNumber())
		return m.startFetch(m.session.Submit())

	case key.Matches(msg, m.keys.Focus):
		if m.input.Focused() {
			m.input.Blur()
			return m, nil
		}
		return m, m.input.Focus()

	case msg.String() == "tab" || msg.String() == "shift+tab":
		return m.moveSemester(msg.String() == "tab")
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.session.SetRollNumber(m.rollNumber())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopFetch()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		return m.moveSemester(true)

	case key.Matches(msg, m.keys.Prev):
		return m.moveSemester(false)

	case key.Matches(msg, m.keys.Jump):
		list := model.Semesters()
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(list) {
			return m.selectSemester(list[idx].ID)
		}

	case key.Matches(msg, m.keys.Download):
		artifact := m.session.Artifact()
		if artifact == nil {
			return m, nil
		}
		return m, saveArtifact(m.downloadDir, artifact)
	}

	return m, nil
}

func (m Model) rollNumber() string {
	return strings.TrimSpace(m.input.Value())
}

func (m Model) moveSemester(forward bool) (tea.Model, tea.Cmd) {
	list := model.Semesters()
	idx := model.SemesterIndex(m.session.Semester().ID)
	if forward {
		idx = (idx + 1) % len(list)
	} else {
		idx = (idx - 1 + len(list)) % len(list)
	}
	return m.selectSemester(list[idx].ID)
}

func (m Model) selectSemester(id string) (tea.Model, tea.Cmd) {
	req, err := m.session.SelectSemester(id)
	if err != nil {
		ctxlog.From(m.ctx).Warn("Ignoring semester selection", "error", err)
		return m, nil
	}
	return m.startFetch(req)
}

// startFetch cancels the fetch in flight, if any, and runs req
func (m Model) startFetch(req *Request) (tea.Model, tea.Cmd) {
	if req == nil {
		return m, nil
	}
	m.stopFetch()
	m.notice = ""

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if m.timeout > 0 {
		ctx, cancel = context.WithTimeout(m.ctx, m.timeout)
	} else {
		ctx, cancel = context.WithCancel(m.ctx)
	}
	m.cancel = cancel

	fetcher := m.fetcher
	fetch := func() tea.Msg {
		defer cancel()
		artifact, err := fetcher.FetchPdf(ctx, req.Query)
		return FetchDoneMsg{Generation: req.Generation, Artifact: artifact, Err: err}
	}

	return m, tea.Batch(fetch, m.spinner.Tick)
}

func (m *Model) stopFetch() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m Model) handleFetchDone(msg FetchDoneMsg) Model {
	logger := ctxlog.From(m.ctx)

	if !m.session.Complete(msg.Generation, msg.Artifact, msg.Err) {
		logger.Debug("Dropped response of superseded fetch", "generation", msg.Generation)
		return m
	}
	m.cancel = nil

	if msg.Err != nil {
		logger.Error("Error fetching PDF", "error", msg.Err)
		m.setNotice("Could not fetch the result. Check the roll number and try again.", true)
	}
	return m
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func saveArtifact(dir string, artifact *model.PdfArtifact) tea.Cmd {
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return DownloadDoneMsg{Err: goerr.Wrap(err, "failed to create download directory", goerr.V("dir", dir))}
		}
		path := filepath.Join(dir, artifact.Filename())
		if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
			return DownloadDoneMsg{Path: path, Err: goerr.Wrap(err, "failed to write PDF", goerr.V("path", path))}
		}
		return DownloadDoneMsg{Path: path}
	}
}

// --- View ---

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Exam Results Viewer"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n")
	b.WriteString(stylePane.Render(m.viewBody()))
	b.WriteString("\n")

	if m.notice != "" {
		if m.noticeErr {
			b.WriteString(styleFailure.Render(m.notice))
		} else {
			b.WriteString(styleSuccess.Render(m.notice))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewTabs() string {
	active := m.session.Semester().ID
	var tabs []string
	for _, s := range model.Semesters() {
		if s.ID == active {
			tabs = append(tabs, styleTabActive.Render(s.Label))
		} else {
			tabs = append(tabs, styleTab.Render(s.Label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewBody() string {
	if st, ok := m.session.State().(Loading); ok {
		label := st.Query.ExamID
		if s, found := model.SemesterByExamID(st.Query.ExamID); found {
			label = s.Label
		}
		return fmt.Sprintf("%s Fetching %s...", m.spinner.View(), label)
	}

	artifact := m.session.Artifact()
	if artifact == nil {
		return styleMuted.Render(promptText)
	}
	return viewArtifact(artifact)
}

func viewArtifact(a *model.PdfArtifact) string {
	row := func(label, value string) string {
		return styleLabel.Render(label) + value
	}

	semester := a.ExamID
	if s, ok := model.SemesterByExamID(a.ExamID); ok {
		semester = fmt.Sprintf("%s (%s)", s.Label, a.ExamID)
	}

	version := a.PDFVersion()
	if version == "" {
		version = "unknown"
	}

	pages := "unknown"
	if n := a.PageCount(); n > 0 {
		pages = fmt.Sprintf("%d", n)
	}

	lines := []string{
		row("Result", semester),
		row("File", a.Filename()),
		row("Size", humanize.Bytes(uint64(a.Size()))),
		row("PDF", version),
		row("Pages", pages),
		"",
		styleMuted.Render("Page 1 is ready. Press d to save the PDF and open it in a PDF reader."),
	}
	return strings.Join(lines, "\n")
}
