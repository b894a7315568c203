package chat

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"research-assistant/internal/domain"
)

// TUIChannel runs the chat model as a full-screen Bubble Tea program.
type TUIChannel struct {
	logger  *slog.Logger
	deps    ChatModelDeps
	program *tea.Program
	bus     domain.EventBus // optional, nil = no event forwarding
	opts    []tea.ProgramOption
}

// NewTUIChannel creates a TUI channel for the given chat dependencies.
func NewTUIChannel(deps ChatModelDeps, logger *slog.Logger) *TUIChannel {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}
	return &TUIChannel{
		logger: logger,
		deps:   deps,
		opts:   []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()},
	}
}

// SetEventBus enables forwarding search events into the TUI and publishing
// model changes onto the bus.
func (c *TUIChannel) SetEventBus(bus domain.EventBus) {
	c.bus = bus
}

// SetProgramOptions replaces the Bubble Tea program options.
func (c *TUIChannel) SetProgramOptions(opts ...tea.ProgramOption) {
	c.opts = opts
}

// Start creates the Bubble Tea program and blocks until it exits.
func (c *TUIChannel) Start(ctx context.Context) error {
	deps := c.deps
	if c.bus != nil {
		onChange := deps.OnModelChange
		deps.OnModelChange = func(model, previous string) {
			c.publishModelChanged(ctx, model, previous)
			if onChange != nil {
				onChange(model, previous)
			}
		}
	}

	c.program = tea.NewProgram(NewChatModel(deps), c.opts...)

	if c.bus != nil {
		unsub := c.bus.Subscribe(c.forwardToolEvent,
			domain.EventToolCallStarted, domain.EventToolCallCompleted)
		defer unsub()
	}

	go func() {
		<-ctx.Done()
		c.program.Send(QuitMsg{})
	}()

	_, err := c.program.Run()
	return err
}

// Stop signals the Bubble Tea program to quit.
func (c *TUIChannel) Stop(_ context.Context) error {
	if c.program != nil {
		c.program.Send(QuitMsg{})
	}
	return nil
}

// forwardToolEvent translates tool.call.* events into program messages.
func (c *TUIChannel) forwardToolEvent(_ context.Context, event domain.Event) {
	msg, ok := toolEventMsg(event)
	if !ok {
		c.logger.Debug("dropping malformed tool event", "type", event.Type)
		return
	}
	c.program.Send(msg)
}

func (c *TUIChannel) publishModelChanged(ctx context.Context, model, previous string) {
	payload := domain.ModelEventPayload{Model: model, Previous: previous}
	c.bus.Publish(ctx, domain.NewEvent(ctx, domain.EventModelChanged, payload))
}

// toolEventMsg decodes a tool event payload into the matching tea.Msg.
func toolEventMsg(event domain.Event) (tea.Msg, bool) {
	var p domain.ToolEventPayload
	if event.Decode(&p) != nil {
		return nil, false
	}
	tool := p.Tool
	if tool == "" {
		tool = string(p.Provider)
	}
	switch event.Type {
	case domain.EventToolCallStarted:
		return ToolStartedMsg{Tool: tool, Query: p.Query}, true
	case domain.EventToolCallCompleted:
		return ToolCompletedMsg{Tool: tool, Items: p.Items, Err: p.Error}, true
	default:
		return nil, false
	}
}
