package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sahaza2shakya/PDFchat-app/internal/client"
)

type (
	refreshedMsg  struct{}
	uploadDoneMsg struct{ err error }
	answerMsg     struct{}
	deleteDoneMsg struct{}
	tickMsg       time.Time
)

// pendingDelete holds a delete command until the user confirms it.
type pendingDelete struct {
	pdfID string
	name  string
}

// Model is the Bubble Tea shell around the client state controller. All
// network work runs inside tea.Cmds so keystrokes stay responsive.
type Model struct {
	ctrl     *client.Controller
	input    textinput.Model
	viewport viewport.Model
	confirm  *pendingDelete
	alert    string
	ready    bool
}

func New(ctrl *client.Controller) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, or /help for commands"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{ctrl: ctrl, input: ti, viewport: vp}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refreshCmd(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.RefreshDocuments(context.Background())
		return refreshedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := threadBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 4 + ih + fh // header, docs line, banner, status
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderThread())
		return m, nil

	case tickMsg:
		m.viewport.SetContent(m.renderThread())
		return m, tick()

	case refreshedMsg, answerMsg, deleteDoneMsg:
		m.viewport.SetContent(m.renderThread())
		m.viewport.GotoBottom()
		return m, nil

	case uploadDoneMsg:
		m.viewport.SetContent(m.renderThread())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		if msg.String() == "enter" {
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateConfirm handles the y/n prompt of a pending delete.
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		pdfID := m.confirm.pdfID
		m.confirm = nil
		return m, func() tea.Msg {
			_ = m.ctrl.DeleteDocument(context.Background(), pdfID)
			return deleteDoneMsg{}
		}
	case "n", "esc":
		m.confirm = nil
		m.alert = "Delete cancelled"
		return m, nil
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	m.input.SetValue("")
	m.alert = ""

	if strings.HasPrefix(line, "/") {
		return m.runCommand(line)
	}

	question, ok := m.ctrl.BeginSend(line)
	if !ok {
		if m.ctrl.SelectedID() == "" {
			m.alert = "Select or upload a document first"
		}
		return m, nil
	}
	m.viewport.SetContent(m.renderThread())
	m.viewport.GotoBottom()
	return m, func() tea.Msg {
		m.ctrl.CompleteSend(context.Background(), question)
		return answerMsg{}
	}
}

func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
	}

	switch fields[0] {
	case "/quit", "/q":
		return m, tea.Quit
	case "/help":
		m.alert = "/docs  /upload <path>  /select <n>  /delete <n>  /quit"
		return m, nil
	case "/docs":
		return m, m.refreshCmd()
	case "/upload":
		return m.startUpload(arg)
	case "/select":
		if doc, ok := m.docByOrdinal(arg); ok {
			m.ctrl.SelectDocument(doc.PDFID)
			m.viewport.SetContent(m.renderThread())
		} else {
			m.alert = "Unknown document number"
		}
		return m, nil
	case "/delete":
		if doc, ok := m.docByOrdinal(arg); ok {
			m.confirm = &pendingDelete{pdfID: doc.PDFID, name: doc.Name}
		} else {
			m.alert = "Unknown document number"
		}
		return m, nil
	}
	m.alert = "Unknown command, try /help"
	return m, nil
}

func (m Model) startUpload(path string) (tea.Model, tea.Cmd) {
	if path == "" {
		m.alert = "Usage: /upload <path>"
		return m, nil
	}
	f, err := os.Open(path)
	if err != nil {
		m.alert = "Cannot open file: " + err.Error()
		return m, nil
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		m.alert = "Cannot stat file: " + err.Error()
		return m, nil
	}

	name := filepath.Base(path)
	if err := m.ctrl.BeginUpload(name, info.Size()); err != nil {
		f.Close()
		if errors.Is(err, client.ErrValidation) {
			m.alert = err.Error()
		} else {
			m.alert = "Upload failed: " + err.Error()
		}
		return m, nil
	}

	return m, func() tea.Msg {
		defer f.Close()
		err := m.ctrl.CompleteUpload(context.Background(), name, info.Size(), f)
		return uploadDoneMsg{err: err}
	}
}

func (m Model) docByOrdinal(arg string) (client.Document, bool) {
	n, err := strconv.Atoi(arg)
	docs := m.ctrl.Documents()
	if err != nil || n < 1 || n > len(docs) {
		return client.Document{}, false
	}
	return docs[n-1], true
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("PDF Chat")

	var docsLine string
	docs := m.ctrl.Documents()
	if len(docs) == 0 {
		docsLine = dimStyle.Render("No documents yet. /upload <path> to add one.")
	} else {
		parts := make([]string, len(docs))
		selected := m.ctrl.SelectedID()
		for i, d := range docs {
			label := fmt.Sprintf("%d:%s(%d)", i+1, d.Name, d.TotalChunks)
			if d.PDFID == selected {
				label = "[" + label + "]"
			}
			parts[i] = label
		}
		docsLine = dimStyle.Render(strings.Join(parts, "  "))
	}

	banner := m.renderBanner()
	thread := threadBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := m.renderStatus()

	return header + "\n" + docsLine + "\n" + banner + "\n" + thread + "\n" + input + "\n" + status
}

func (m Model) renderBanner() string {
	if b := m.ctrl.Banner(); b != nil {
		if b.Level == client.BannerError {
			return errorStyle.Render(b.Text)
		}
		return successStyle.Render(b.Text)
	}
	if m.alert != "" {
		return errorStyle.Render(m.alert)
	}
	return ""
}

func (m Model) renderStatus() string {
	if m.confirm != nil {
		return errorStyle.Render(fmt.Sprintf("Delete %s? (y/n)", m.confirm.name))
	}
	if m.ctrl.IsUploading() {
		return statusStyle.Render(fmt.Sprintf("Uploading... %d%%", m.ctrl.UploadProgress()))
	}
	if m.ctrl.IsAwaitingAnswer() {
		return statusStyle.Render("Assistant is typing...")
	}
	if name := m.ctrl.SelectedName(); name != "" {
		return statusStyle.Render("Chatting with " + name)
	}
	return dimStyle.Render("No document selected")
}

func (m Model) renderThread() string {
	messages := m.ctrl.Messages()
	if len(messages) == 0 {
		return dimStyle.Render("The conversation will appear here.")
	}

	var sb strings.Builder
	for _, msg := range messages {
		switch msg.Kind {
		case client.MessageUser:
			sb.WriteString(userStyle.Render("You: ") + msg.Content)
		case client.MessageAssistant:
			sb.WriteString(assistantStyle.Render("Assistant: ") + msg.Content)
			if len(msg.Sources) > 0 {
				labels := make([]string, len(msg.Sources))
				for i, src := range msg.Sources {
					labels[i] = src.Label()
				}
				sb.WriteString("\n" + citationStyle.Render("Sources: "+strings.Join(labels, ", ")))
			}
		case client.MessageSystem:
			sb.WriteString(systemStyle.Render(msg.Content))
		case client.MessageError:
			sb.WriteString(errMsgStyle.Render("Error: " + msg.Content))
		}
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
