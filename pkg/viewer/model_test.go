package viewer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/examresult/pkg/domain/model"
	"github.com/m-mizutani/examresult/pkg/viewer"
	"github.com/m-mizutani/gt"
)

// MockResultFetcher is a mock implementation of ResultFetcher
type MockResultFetcher struct {
	fetchPdfFunc func(ctx context.Context, query model.ResultQuery) (*model.PdfArtifact, error)

	mu    sync.Mutex
	calls []model.ResultQuery
}

func (m *MockResultFetcher) FetchPdf(ctx context.Context, query model.ResultQuery) (*model.PdfArtifact, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.mu.Unlock()
	if m.fetchPdfFunc != nil {
		return m.fetchPdfFunc(ctx, query)
	}
	return nil, errors.New("mock not configured")
}

func pdfFetcher() *MockResultFetcher {
	return &MockResultFetcher{
		fetchPdfFunc: func(ctx context.Context, query model.ResultQuery) (*model.PdfArtifact, error) {
			return model.NewPdfArtifact(query.ExamID, []byte("%PDF-1.4 "+query.ExamID)), nil
		},
	}
}

func update(t *testing.T, m viewer.Model, msg tea.Msg) (viewer.Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	vm, ok := next.(viewer.Model)
	if !ok {
		t.Fatalf("Update returned %T, want viewer.Model", next)
	}
	return vm, cmd
}

// fetchMsgs runs cmd and returns the FetchDoneMsgs it produced, skipping
// spinner ticks
func fetchMsgs(cmd tea.Cmd) []viewer.FetchDoneMsg {
	if cmd == nil {
		return nil
	}
	var out []viewer.FetchDoneMsg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, fetchMsgs(c)...)
		}
	case viewer.FetchDoneMsg:
		out = append(out, msg)
	}
	return out
}

func typeText(t *testing.T, m viewer.Model, text string) viewer.Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_InitialView(t *testing.T) {
	m := viewer.New(context.Background(), pdfFetcher())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	gt.String(t, view).Contains("Exam Results Viewer")
	gt.String(t, view).Contains("Semester 1")
	gt.String(t, view).Contains("Semester 6")
	gt.String(t, view).Contains("Enter a roll number and select a semester")
}

func TestModel_SelectSemesterFetchesOnce(t *testing.T) {
	fetcher := pdfFetcher()
	m := viewer.New(context.Background(), fetcher)

	m = typeText(t, m, "12345")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	gt.A(t, fetchMsgs(cmd)).Length(0)

	// "Semester 3"
	m, cmd = update(t, m, keyRune('3'))
	gt.True(t, m.Session().Loading())
	gt.String(t, m.View()).Contains("Fetching Semester 3")

	msgs := fetchMsgs(cmd)
	gt.A(t, msgs).Length(1)
	gt.A(t, fetcher.calls).Length(1)
	gt.Equal(t, fetcher.calls[0], model.ResultQuery{RollNumber: "12345", ExamID: "H21A02"})

	m, _ = update(t, m, msgs[0])
	gt.False(t, m.Session().Loading())
	gt.Value(t, m.Session().Artifact()).NotNil()
	gt.Equal(t, m.Session().Artifact().ExamID, "H21A02")
	gt.String(t, m.View()).Contains("exam_result_H21A02.pdf")
}

func TestModel_SubmitWithEnter(t *testing.T) {
	fetcher := pdfFetcher()
	m := viewer.New(context.Background(), fetcher)

	// No roll number: nothing happens
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	gt.A(t, fetchMsgs(cmd)).Length(0)

	m = typeText(t, m, " 12345 ")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	msgs := fetchMsgs(cmd)
	gt.A(t, msgs).Length(1)
	gt.Equal(t, fetcher.calls[0], model.ResultQuery{RollNumber: "12345", ExamID: "E20A39"})

	m, _ = update(t, m, msgs[0])

	// Submitting again refetches the same semester
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	gt.A(t, fetchMsgs(cmd)).Length(1)
	gt.A(t, fetcher.calls).Length(2)
	gt.Equal(t, fetcher.calls[1], fetcher.calls[0])
}

func TestModel_TabCyclesSemesters(t *testing.T) {
	fetcher := pdfFetcher()
	m := viewer.New(context.Background(), fetcher)

	// Without a roll number, tab only moves the selection
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	gt.A(t, fetchMsgs(cmd)).Length(0)
	gt.Equal(t, m.Session().Semester().ID, "sem2")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	gt.Equal(t, m.Session().Semester().ID, "sem6")

	m = typeText(t, m, "777")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	gt.Equal(t, m.Session().Semester().ID, "sem1")
	gt.A(t, fetchMsgs(cmd)).Length(1)
	gt.Equal(t, fetcher.calls[0].ExamID, "E20A39")
}

// Both selections are made before either response arrives. The response of
// the first selection is delivered last and must be dropped.
func TestModel_RapidSelectionLatestWins(t *testing.T) {
	fetcher := pdfFetcher()
	m := viewer.New(context.Background(), fetcher)

	m = typeText(t, m, "12345")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, cmdSem2 := update(t, m, keyRune('2'))
	m, cmdSem5 := update(t, m, keyRune('5'))

	sem5 := fetchMsgs(cmdSem5)
	sem2 := fetchMsgs(cmdSem2)
	gt.A(t, sem2).Length(1)
	gt.A(t, sem5).Length(1)

	m, _ = update(t, m, sem5[0])
	m, _ = update(t, m, sem2[0])

	gt.False(t, m.Session().Loading())
	gt.Equal(t, m.Session().Artifact().ExamID, "K22A02")
	gt.Equal(t, m.Session().Semester().ID, "sem5")
}

func TestModel_NewSelectionCancelsInFlightFetch(t *testing.T) {
	var canceled []string
	var mu sync.Mutex
	fetcher := &MockResultFetcher{
		fetchPdfFunc: func(ctx context.Context, query model.ResultQuery) (*model.PdfArtifact, error) {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				canceled = append(canceled, query.ExamID)
				mu.Unlock()
				return nil, err
			}
			return model.NewPdfArtifact(query.ExamID, []byte("%PDF-1.4")), nil
		},
	}

	m := viewer.New(context.Background(), fetcher)
	m = typeText(t, m, "12345")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, cmdFirst := update(t, m, keyRune('2'))
	m, cmdSecond := update(t, m, keyRune('3'))

	// The first fetch runs after the second selection and sees a canceled context
	first := fetchMsgs(cmdFirst)
	second := fetchMsgs(cmdSecond)
	gt.A(t, canceled).Length(1)
	gt.Equal(t, canceled[0], "F21A41")

	m, _ = update(t, m, second[0])
	m, _ = update(t, m, first[0])
	gt.Equal(t, m.Session().Artifact().ExamID, "H21A02")
	_, loaded := m.Session().State().(viewer.Loaded)
	gt.True(t, loaded)
}

func TestModel_FailureKeepsPreviousDocument(t *testing.T) {
	fail := false
	fetcher := &MockResultFetcher{
		fetchPdfFunc: func(ctx context.Context, query model.ResultQuery) (*model.PdfArtifact, error) {
			if fail {
				return nil, errors.New("proxy returned an error")
			}
			return model.NewPdfArtifact(query.ExamID, []byte("%PDF-1.4")), nil
		},
	}

	m := viewer.New(context.Background(), fetcher)
	m = typeText(t, m, "12345")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, fetchMsgs(cmd)[0])
	gt.Equal(t, m.Session().Artifact().ExamID, "E20A39")

	fail = true
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, fetchMsgs(cmd)[0])

	gt.False(t, m.Session().Loading())
	gt.Equal(t, m.Session().Artifact().ExamID, "E20A39")
	view := m.View()
	gt.String(t, view).Contains("Could not fetch the result")
	gt.String(t, view).Contains("exam_result_E20A39.pdf")
}

func TestModel_Download(t *testing.T) {
	dir := t.TempDir()
	fetcher := pdfFetcher()
	m := viewer.New(context.Background(), fetcher, viewer.WithDownloadDir(filepath.Join(dir, "out")))

	// Nothing to download yet
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd := update(t, m, keyRune('d'))
	gt.Value(t, cmd).Nil()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = typeText(t, m, "12345")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, fetchMsgs(cmd)[0])

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, cmd = update(t, m, keyRune('d'))
	gt.Value(t, cmd).NotNil()

	msg, ok := cmd().(viewer.DownloadDoneMsg)
	gt.True(t, ok)
	gt.NoError(t, msg.Err)
	gt.Equal(t, msg.Path, filepath.Join(dir, "out", "exam_result_E20A39.pdf"))

	data, err := os.ReadFile(msg.Path)
	gt.NoError(t, err)
	gt.Equal(t, string(data), "%PDF-1.4 E20A39")

	m, _ = update(t, m, msg)
	gt.String(t, m.View()).Contains("Saved")
}

func TestModel_QuitKeys(t *testing.T) {
	m := viewer.New(context.Background(), pdfFetcher())

	// q is text while the input is focused
	m, _ = update(t, m, keyRune('q'))
	gt.Equal(t, m.Session().RollNumber(), "q")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd := update(t, m, keyRune('q'))
	gt.True(t, isQuit(cmd))

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	gt.True(t, isQuit(cmd))
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}
