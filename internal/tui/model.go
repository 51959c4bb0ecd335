package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"legal-assistant/internal/models"
)

// API is the client surface the TUI needs.
type API interface {
	ProcessQuery(query string) (models.LegalResponse, error)
}

// Model is the Bubble Tea model for the assistant client.
type Model struct {
	api      API
	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	status   string
	waiting  bool
	ready    bool
}

// New creates a new TUI model instance.
func New(api API) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a legal question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		api:      api,
		input:    ti,
		viewport: viewport.New(0, 0),
		spin:     sp,
		status:   "Ready. Type your question.",
	}
}

type resultMsg struct {
	query string
	resp  models.LegalResponse
}

type errMsg struct{ err error }

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, input box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vh
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.waiting = true
				m.status = "Searching legal documents..."
				return m, tea.Batch(m.spin.Tick, m.queryCmd(q))
			}
		}

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case resultMsg:
		m.waiting = false
		m.status = fmt.Sprintf("Answer for %q", msg.query)
		m.viewport.SetContent(renderResponse(msg.resp))
		m.viewport.GotoTop()
		return m, nil

	case errMsg:
		m.waiting = false
		m.status = "Error: " + msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) queryCmd(query string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.api.ProcessQuery(query)
		if err != nil {
			return errMsg{err}
		}
		return resultMsg{query: query, resp: resp}
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Legal Assistant")
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	if m.waiting {
		status = m.spin.View() + " " + status
	}
	return header + "\n" + m.viewport.View() + "\n" + input + "\n" + status
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	queryBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderResponse(resp models.LegalResponse) string {
	var b strings.Builder

	if resp.SimpleExplanation != "" {
		b.WriteString(sectionStyle.Render("Summary"))
		b.WriteString("\n" + resp.SimpleExplanation + "\n\n")
	}

	if len(resp.KeyPoints) > 0 {
		b.WriteString(sectionStyle.Render("Key Points"))
		b.WriteString("\n")
		for _, p := range resp.KeyPoints {
			b.WriteString("  • " + p + "\n")
		}
		b.WriteString("\n")
	}

	if len(resp.ImportantTerms) > 0 {
		b.WriteString(sectionStyle.Render("Important Terms"))
		b.WriteString("\n")
		for _, t := range resp.ImportantTerms {
			b.WriteString("  • " + t + "\n")
		}
		b.WriteString("\n")
	}

	if len(resp.WarningsAndDeadlines) > 0 {
		b.WriteString(sectionStyle.Render("Warnings & Deadlines"))
		b.WriteString("\n")
		for _, wd := range resp.WarningsAndDeadlines {
			b.WriteString(warningStyle.Render("  ! "+wd) + "\n")
		}
		b.WriteString("\n")
	}

	if len(resp.StepByStepGuide) > 0 {
		b.WriteString(sectionStyle.Render("Step-by-Step Guide"))
		b.WriteString("\n")
		for i, step := range resp.StepByStepGuide {
			title := step.Title
			if title == "" {
				title = fmt.Sprintf("Step %d", i+1)
			}
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, title))
			if step.Description != "" {
				b.WriteString("     " + step.Description + "\n")
			}
			for _, req := range step.Requirements {
				b.WriteString("     - " + req + "\n")
			}
		}
		b.WriteString("\n")
	}

	if len(resp.Sources) > 0 {
		b.WriteString(sectionStyle.Render("Sources"))
		b.WriteString("\n")
		for _, src := range resp.Sources {
			line := fmt.Sprintf("  %s (%s)", src.Document, src.Relevance)
			b.WriteString(sourceStyle.Render(line) + "\n")
		}
	}

	if b.Len() == 0 {
		return "No answer."
	}
	return b.String()
}
