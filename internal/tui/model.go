// ABOUTME: Bubble Tea chat UI for one concierge session
// ABOUTME: Questions run asynchronously; shows the counter, answers, optional draft and excerpts
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harper/book-concierge/internal/core"
	"github.com/harper/book-concierge/internal/models"
)

// Asker is the TUI-facing subset of the concierge
type Asker interface {
	Ask(ctx context.Context, s *core.Session, question string, opts ...core.AskOption) (*models.AnswerResult, error)
}

type answerMsg struct {
	result *models.AnswerResult
	err    error
}

type exchange struct {
	number int
	result *models.AnswerResult
}

// Model is the Bubble Tea model for a chat session
type Model struct {
	ctx     context.Context
	asker   Asker
	session *core.Session
	title   string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	exchanges    []exchange
	pending      string
	refine       bool
	showExcerpts bool
	busy         bool
	closed       bool
	ready        bool
	status       string
	width        int
}

// New creates the chat model for session s
func New(ctx context.Context, asker Asker, session *core.Session, title string, refine bool) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the book (in any language)"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		asker:    asker,
		session:  session,
		title:    title,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		refine:   refine,
		status:   "Waiting for your question…",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, spinner and answer events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, fh := transcriptStyle.GetFrameSize()
		_, qh := inputStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header+counter, status, input box, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-fh)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case answerMsg:
		return m.handleAnswer(msg), nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			return m.submit()
		case "ctrl+e":
			m.showExcerpts = !m.showExcerpts
			m.refresh()
			return m, nil
		case "ctrl+r":
			m.refine = !m.refine
			m.status = fmt.Sprintf("Refinement %s", onOff(m.refine))
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	if m.closed || m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy || m.closed {
		return m, nil
	}
	q := strings.TrimSpace(m.input.Value())
	if q == "" {
		return m, nil
	}

	m.busy = true
	m.pending = q
	m.input.Reset()
	m.status = fmt.Sprintf("Question %d of %d. Looking through the book…",
		m.session.QuestionCount()+1, m.session.MaxQuestions())
	m.refresh()

	return m, tea.Batch(m.spinner.Tick, m.ask(q, m.refine))
}

func (m Model) ask(q string, refine bool) tea.Cmd {
	ctx, asker, session := m.ctx, m.asker, m.session
	return func() tea.Msg {
		res, err := asker.Ask(ctx, session, q, core.WithRefinement(refine))
		return answerMsg{result: res, err: err}
	}
}

func (m Model) handleAnswer(msg answerMsg) Model {
	m.busy = false
	m.pending = ""

	switch {
	case msg.err != nil:
		m.status = "Error: " + describe(msg.err)
	case msg.result.QuotaExceeded:
		m.closed = true
		m.input.Blur()
		m.status = msg.result.Notice
	default:
		m.exchanges = append(m.exchanges, exchange{number: msg.result.QuestionCount, result: msg.result})
		m.status = fmt.Sprintf("%d of %d questions left. ctrl+e: excerpts  ctrl+r: refine  esc: quit",
			msg.result.Remaining(), msg.result.MaxQuestions)
		if msg.result.Notice != "" {
			m.closed = true
			m.input.Blur()
			m.status = msg.result.Notice
		}
	}

	m.refresh()
	m.viewport.GotoBottom()
	return m
}

// describe turns pipeline failures into a message for the reader
func describe(err error) string {
	switch {
	case errors.Is(err, core.ErrRetrieval):
		return "could not search the book right now, please try again. (" + err.Error() + ")"
	case errors.Is(err, core.ErrGeneration):
		return "could not generate an answer right now, please try again. (" + err.Error() + ")"
	default:
		return err.Error()
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
}

// View renders the TUI layout
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Book Concierge: " + m.title)
	counter := mutedStyle.Render(fmt.Sprintf("Questions asked: %d of %d   refine: %s",
		m.session.QuestionCount(), m.session.MaxQuestions(), onOff(m.refine)))

	status := statusStyle.Render(m.status)
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	if m.closed {
		status = noticeStyle.Render(m.status)
	}

	return header + "\n" + counter + "\n" +
		transcriptStyle.Render(m.viewport.View()) + "\n" +
		inputStyle.Render(m.input.View()) + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.exchanges) == 0 && m.pending == "" {
		return mutedStyle.Render("Ask anything about the book: what's covered, who it's for, or how it might help you.")
	}

	var b strings.Builder
	for i, ex := range m.exchanges {
		last := i == len(m.exchanges)-1
		fmt.Fprintf(&b, "%s\n", questionStyle.Render(fmt.Sprintf("Question %d of %d: %s",
			ex.number, ex.result.MaxQuestions, ex.result.Question)))
		b.WriteString(m.renderAnswer(ex.result))
		b.WriteString("\n")
		if last && m.showExcerpts {
			b.WriteString(renderExcerpts(ex.result.Matches))
		}
		b.WriteString("\n")
	}
	if m.pending != "" {
		fmt.Fprintf(&b, "%s\n", questionStyle.Render(fmt.Sprintf("Question %d of %d: %s",
			m.session.QuestionCount()+1, m.session.MaxQuestions(), m.pending)))
	}
	return b.String()
}

func (m Model) renderAnswer(res *models.AnswerResult) string {
	if !res.Refined || res.Draft == "" {
		return res.Answer
	}
	colWidth := max(20, (m.viewport.Width-4)/2)
	col := lipgloss.NewStyle().Width(colWidth).PaddingRight(2)
	left := col.Render(labelStyle.Render("Original Answer") + "\n" + res.Draft)
	right := col.Render(labelStyle.Render("Refined Answer") + "\n" + res.Answer)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func renderExcerpts(matches []models.RetrievalMatch) string {
	if len(matches) == 0 {
		return mutedStyle.Render("No book excerpts were used for this answer.") + "\n"
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render("Book excerpts used to answer your question") + "\n")
	for _, match := range matches {
		fmt.Fprintf(&b, "%s\n%s\n", labelStyle.Render(fmt.Sprintf("Page %d", match.Passage.Page)), match.Passage.Text)
	}
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	questionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	labelStyle      = lipgloss.NewStyle().Underline(true)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
