package chat

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"research-assistant/internal/adapter/tui/components"
	"research-assistant/internal/adapter/tui/theme"
	"research-assistant/internal/adapter/tui/uxerror"
	"research-assistant/internal/domain"
)

// DefaultTitle is the window and header title.
const DefaultTitle = "RAG Research Assistant"

// Status line texts.
const (
	StatusReady      = "Ready to assist you"
	StatusProcessing = "Processing your query..."
	StatusConfig     = "Configuration error"
)

// Conversation is the part of the conversation manager the chat UI drives.
type Conversation interface {
	ProcessQuery(ctx context.Context, query string) (string, map[domain.ProviderKey]domain.ToolResult, error)
	Transcript() []domain.TranscriptEntry
}

// ChatModelDeps are dependencies injected into the chat model.
type ChatModelDeps struct {
	Conversation  Conversation         // nil only together with ConfigErr
	Models        domain.ModelSelector // nil disables model selection
	ProviderName  string               // search tool name; empty when search is off
	ConfigErr     error                // blocking configuration problem, locks input
	OnModelChange func(model, previous string)
	Logger        *slog.Logger
	Title         string
	StreamSpeed   StreamSpeed
}

// ChatModel is the root Bubble Tea model for the chat TUI.
type ChatModel struct {
	deps ChatModelDeps

	// Sub-models
	chatView  components.ChatViewModel
	input     components.InputAreaModel
	statusBar components.StatusBarModel
	spinner   spinner.Model

	// State
	waiting   bool   // true while a turn is running or its answer is streaming
	streaming bool   // true during simulated streaming
	streamBuf []rune // full response to stream (runes for Unicode safety)
	streamPos int    // current rune position in streamBuf
	width     int
	height    int
	quitting  bool

	streamCfg StreamConfig

	// synced counts transcript entries already mirrored into the chat view.
	synced int
}

// NewChatModel creates the root chat model.
func NewChatModel(deps ChatModelDeps) ChatModel {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Title == "" {
		deps.Title = DefaultTitle
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorInfo)

	sb := components.NewStatusBar()
	sb.Provider = deps.ProviderName
	if deps.Models != nil {
		sb.ModelName = deps.Models.Model()
	}
	sb.Hints = defaultHints()
	sb.Status = StatusReady

	chatView := components.NewChatView()
	chatView.SetLimit(1000)

	var modelIDs []string
	if deps.Models != nil {
		modelIDs = deps.Models.Models()
	}

	inputArea := components.NewInputArea()
	inputArea.Autocomplete = components.NewAutocomplete([]components.CommandDef{
		{Name: "/help", Description: "Show available commands"},
		{Name: "/model", Usage: "/model <id>", Description: "Switch the language model", Args: modelIDs},
		{Name: "/models", Description: "List available models"},
		{Name: "/speed", Usage: "/speed [mode]", Description: "Set or cycle answer streaming speed",
			Args: []string{StreamNormal.String(), StreamFast.String(), StreamInstant.String()}},
		{Name: "/clear", Description: "Clear the screen"},
		{Name: "/quit", Description: "Exit the assistant"},
	})

	m := ChatModel{
		deps:      deps,
		chatView:  chatView,
		input:     inputArea,
		statusBar: sb,
		spinner:   s,
		streamCfg: StreamConfigForSpeed(deps.StreamSpeed),
	}

	if deps.ConfigErr != nil || deps.Conversation == nil {
		err := deps.ConfigErr
		if err == nil {
			err = domain.NewDomainError("chat.NewChatModel", domain.ErrConfigMissing, "no conversation configured")
		}
		m.chatView.AddMessage(components.ChatMessage{
			Role:    components.RoleError,
			Content: uxerror.Humanize(err).Render(),
		})
		m.input.Lock("Input disabled until the configuration is fixed. Press Ctrl+C to quit.")
		m.statusBar.Status = StatusConfig
		m.statusBar.IsError = true
	}

	return m
}

// Init starts the spinner and sets the terminal window title.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tea.SetWindowTitle(m.deps.Title),
	)
}

// Update handles all incoming messages.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.InputSubmitMsg:
		return m.handleSubmit(msg.Value)

	case TurnDoneMsg:
		return m.handleTurnDone(msg)

	case StreamTickMsg:
		return m.handleStreamTick()

	case ToolStartedMsg:
		if m.waiting && !m.streaming {
			m.setStatus("Searching via "+msg.Tool+"...", false)
		}
		return m, nil

	case ToolCompletedMsg:
		if m.waiting && !m.streaming {
			m.setStatus(StatusProcessing, false)
		}
		return m, nil

	case QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.waiting {
		if _, isMouse := msg.(tea.MouseMsg); !isMouse {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.chatView, cmd = m.chatView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the entire chat UI.
func (m ChatModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 {
		return "  Initializing..."
	}

	header := theme.BotLabel.Render(m.deps.Title)

	inputView := m.input.View()
	if m.waiting {
		inputView = lipgloss.NewStyle().Faint(true).Render("> waiting for response...") +
			"\n" + m.spinner.View() + " " + m.statusBar.Status
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.chatView.View(),
		components.Divider(m.width),
		inputView,
		m.statusBar.View(),
	)
}

// layout recalculates sizes for all sub-models.
func (m *ChatModel) layout() {
	headerH := 1
	inputH := 3
	statusH := 1
	dividerH := 1
	contentH := m.height - headerH - inputH - statusH - dividerH
	if contentH < 5 {
		contentH = 5
	}

	m.statusBar.SetWidth(m.width)
	m.chatView.SetSize(m.width, contentH)
	m.input.SetWidth(m.width)
}

// isMouseEscapeLeak detects mouse escape sequences that leaked through as key
// input instead of tea.MouseMsg. Covers the SGR, X11 and URXVT encodings that
// show up during rapid trackpad scrolling.
func isMouseEscapeLeak(s string) bool {
	digitsOnly := func(body string) bool {
		for _, r := range body {
			if r != ';' && (r < '0' || r > '9') {
				return false
			}
		}
		return true
	}
	switch {
	case len(s) >= 5 && s[0] == '<' && (s[len(s)-1] == 'M' || s[len(s)-1] == 'm'):
		return digitsOnly(s[1 : len(s)-1])
	case len(s) >= 2 && s[0] == '[' && (s[1] == 'M' || s[1] == 'm'):
		return true
	case len(s) >= 5 && s[0] == '[' && s[len(s)-1] == 'M':
		return digitsOnly(s[1 : len(s)-1])
	}
	return false
}

// handleKey processes keyboard input.
func (m ChatModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isMouseEscapeLeak(msg.String()) {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyCtrlT:
		return m.cycleModel()

	case tea.KeyCtrlL:
		return m.handleSlashCommand("/clear", nil)

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}

	if m.waiting {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit processes user input submission.
func (m ChatModel) handleSubmit(value string) (tea.Model, tea.Cmd) {
	if cmd, args, ok := components.ParseSlashCommand(value); ok {
		return m.handleSlashCommand(cmd, args)
	}
	if m.waiting || m.deps.Conversation == nil || m.input.Locked != "" {
		return m, nil
	}

	m.chatView.AddMessage(components.ChatMessage{
		Role:    components.RoleUser,
		Content: value,
	})

	m.waiting = true
	m.streaming = false
	m.input.SetEnabled(false)
	m.setStatus(StatusProcessing, false)

	return m, processQueryCmd(m.deps.Conversation, value)
}

// handleTurnDone mirrors the new transcript entries and starts streaming the answer.
func (m ChatModel) handleTurnDone(msg TurnDoneMsg) (tea.Model, tea.Cmd) {
	answer, hasAnswer := m.syncTranscript()

	if msg.Err != nil {
		if hasAnswer {
			m.chatView.UpdateLastMessage(answer)
		}
		m.deps.Logger.Error("turn failed", "error", msg.Err, "code", domain.ErrorCodeOf(msg.Err))
		m.chatView.AddMessage(components.ChatMessage{
			Role:    components.RoleError,
			Content: uxerror.Humanize(msg.Err).Render(),
		})
		m.finishTurn()
		m.setStatus("Error processing query: "+msg.Err.Error(), true)
		return m, nil
	}

	m.deps.Logger.Debug("turn rendered", "results", len(msg.Results), "response_length", len(msg.Response))

	if !hasAnswer || m.streamCfg.Speed == StreamInstant {
		if hasAnswer {
			m.chatView.UpdateLastMessage(answer)
		}
		m.finishTurn()
		m.setStatus(StatusReady, false)
		return m, nil
	}

	m.streamBuf = []rune(answer)
	m.streamPos = 0
	m.streaming = true
	return m, streamTickCmd(m.streamCfg.TickRate)
}

// syncTranscript appends transcript entries recorded since the last sync to
// the chat view. User messages already shown on submit are linked instead of
// duplicated. When the newest entry is an assistant message it is added with
// empty content and its text is returned for streaming.
func (m *ChatModel) syncTranscript() (answer string, ok bool) {
	if m.deps.Conversation == nil {
		return "", false
	}
	entries := m.deps.Conversation.Transcript()
	if m.synced > len(entries) {
		m.synced = len(entries)
	}

	for i, entry := range entries[m.synced:] {
		last := m.synced+i == len(entries)-1
		switch e := entry.(type) {
		case domain.UserMessage:
			if !m.chatView.ClaimPending(components.RoleUser, e.Content, e.ID) {
				m.chatView.AddMessage(components.ChatMessage{
					Role: components.RoleUser, Content: e.Content, Timestamp: e.Timestamp, EntryID: e.ID,
				})
			}
		case domain.ToolInvocation:
			m.chatView.AddMessage(components.ChatMessage{
				Role: components.RoleTool, Content: components.RenderToolBlock(e), Timestamp: e.Timestamp, EntryID: e.ID,
			})
		case domain.AssistantMessage:
			content := e.Content
			if last {
				answer, ok = e.Content, true
				content = ""
			}
			m.chatView.AddMessage(components.ChatMessage{
				Role: components.RoleAssistant, Content: content, Timestamp: e.Timestamp, EntryID: e.ID,
			})
		}
	}
	m.synced = len(entries)
	return answer, ok
}

// handleStreamTick progressively renders the response.
func (m ChatModel) handleStreamTick() (tea.Model, tea.Cmd) {
	if !m.streaming {
		return m, nil
	}

	// Advance by a chunk of runes (not bytes) for Unicode safety.
	end := m.streamPos + m.streamCfg.ChunkSize
	if end >= len(m.streamBuf) || m.streamCfg.ChunkSize <= 0 {
		end = len(m.streamBuf)
	}

	m.streamPos = end
	m.chatView.UpdateLastMessage(string(m.streamBuf[:m.streamPos]))

	if m.streamPos >= len(m.streamBuf) {
		m.finishTurn()
		m.setStatus(StatusReady, false)
		return m, nil
	}

	return m, streamTickCmd(m.streamCfg.TickRate)
}

// finishTurn leaves the busy state and re-enables input.
func (m *ChatModel) finishTurn() {
	m.streaming = false
	m.streamBuf = nil
	m.streamPos = 0
	m.waiting = false
	m.input.SetEnabled(true)
}

func (m *ChatModel) setStatus(status string, isError bool) {
	m.statusBar.Status = status
	m.statusBar.IsError = isError
}

// cycleModel switches to the model after the current one in the closed set.
func (m ChatModel) cycleModel() (tea.Model, tea.Cmd) {
	if m.deps.Models == nil {
		return m, nil
	}
	models := m.deps.Models.Models()
	if len(models) == 0 {
		return m, nil
	}
	next := models[0]
	if i := slices.Index(models, m.deps.Models.Model()); i >= 0 {
		next = models[(i+1)%len(models)]
	}
	return m.switchModel(next)
}

// switchModel applies a model change and reports it in the status bar.
func (m ChatModel) switchModel(id string) (tea.Model, tea.Cmd) {
	previous := m.deps.Models.Model()
	if err := m.deps.Models.SetModel(id); err != nil {
		m.chatView.AddMessage(components.ChatMessage{
			Role:    components.RoleError,
			Content: uxerror.Humanize(err).Render(),
		})
		return m, nil
	}

	current := m.deps.Models.Model()
	m.statusBar.ModelName = current
	m.setStatus("Model changed to: "+current, false)
	m.deps.Logger.Info("model changed", "model", current, "previous", previous)
	if m.deps.OnModelChange != nil && current != previous {
		m.deps.OnModelChange(current, previous)
	}
	return m, nil
}

// handleSlashCommand processes a slash command.
func (m ChatModel) handleSlashCommand(cmd string, args []string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "/help":
		m.addSystem(`Available commands:
  /help         - Show this help
  /model <id>   - Switch the language model
  /models       - List available models
  /speed [mode] - Set streaming speed (normal/fast/instant) or cycle it
  /clear        - Clear the screen (the transcript is kept)
  /quit         - Exit the assistant

Keybindings:
  Enter         - Send query
  Alt+Enter     - New line
  Ctrl+T        - Next model
  Ctrl+L        - Clear the screen
  PgUp/PgDn     - Scroll
  Ctrl+C        - Quit`)
		return m, nil

	case "/quit", "/exit":
		m.quitting = true
		return m, tea.Quit

	case "/clear":
		m.chatView.Clear()
		m.addSystem(theme.SymbolSuccess + " Screen cleared.")
		return m, nil

	case "/models":
		if m.deps.Models == nil {
			m.addSystem("Model selection is unavailable.")
			return m, nil
		}
		current := m.deps.Models.Model()
		var sb strings.Builder
		sb.WriteString("Available models:")
		for _, id := range m.deps.Models.Models() {
			marker := "  "
			if id == current {
				marker = theme.SymbolArrowR + " "
			}
			sb.WriteString("\n  " + marker + id)
		}
		m.addSystem(sb.String())
		return m, nil

	case "/model":
		if m.deps.Models == nil {
			m.addSystem("Model selection is unavailable.")
			return m, nil
		}
		if len(args) == 0 {
			m.addSystem(fmt.Sprintf("Current model: %s. Usage: /model <id>", m.deps.Models.Model()))
			return m, nil
		}
		return m.switchModel(args[0])

	case "/speed":
		newSpeed := CycleStreamSpeed(m.streamCfg.Speed)
		if len(args) > 0 {
			parsed, ok := ParseStreamSpeed(args[0])
			if !ok {
				m.addSystem(fmt.Sprintf("Unknown speed %q. Use normal, fast or instant.", args[0]))
				return m, nil
			}
			newSpeed = parsed
		}
		m.streamCfg = StreamConfigForSpeed(newSpeed)
		m.addSystem(fmt.Sprintf("Streaming speed: %s", newSpeed))
		return m, nil

	default:
		m.addSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
		return m, nil
	}
}

func (m *ChatModel) addSystem(content string) {
	m.chatView.AddMessage(components.ChatMessage{
		Role:    components.RoleSystem,
		Content: content,
	})
}

func defaultHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "Enter", Desc: "Send"},
		{Key: "Alt+Enter", Desc: "Newline"},
		{Key: "Ctrl+T", Desc: "Model"},
		{Key: "?", Desc: "/help"},
		{Key: "Ctrl+C", Desc: "Quit"},
	}
}
