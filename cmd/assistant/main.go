package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"research-assistant/internal/adapter/tui/chat"
	"research-assistant/internal/adapter/tui/theme"
	"research-assistant/internal/domain"
	"research-assistant/internal/infra/config"
	"research-assistant/internal/infra/logger"
	"research-assistant/internal/infra/tracer"
	"research-assistant/internal/usecase/conversation"
	"research-assistant/internal/usecase/eventbus"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
		return
	}

	switch os.Args[1] {
	case "doctor":
		if err := runDoctor(context.Background(), os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "doctor: %v\n", err)
			os.Exit(1)
		}
	case "encrypt":
		if err := runEncrypt(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "encrypt: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'research-assistant --help' for usage information.\n", os.Args[1])
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`research-assistant - terminal research assistant backed by web, movie and trailer search

USAGE:
    research-assistant [COMMAND] [FLAGS]

COMMANDS:
    doctor      Run health checks on your setup
    encrypt     Encrypt a credential for config.yaml (reads RESEARCH_CONFIG_KEY)

    (no command) - Start the chat interface

FLAGS:
    -h, --help         Show this help message
    --config PATH      Config file path (default: ./config.yaml)
    --model ID         Groq model to start with (e.g. llama3-70b-8192)
    --search NAME      Search provider: web, movie, trailer or none

CONFIGURATION:
    Config file: ./config.yaml (optional)
    Credentials: GROQ_API_KEY, OMDB_API_KEY, YOUTUBE_API_KEY
    Environment: RESEARCH_* variables override config

KEYS:
    Enter      Send the query
    Ctrl+T     Cycle the language model
    Ctrl+L     Clear the view
    Ctrl+C     Quit

EXAMPLES:
    research-assistant                         # Web search with the default model
    research-assistant --search movie          # Answer from OMDb movie data
    research-assistant doctor                  # Check credentials and connectivity
    research-assistant encrypt gsk_...         # Produce an enc: value for config.yaml`)
}

// cliFlags holds the optional command line overrides.
type cliFlags struct {
	Config string
	Model  string
	Search string
}

// parseFlags extracts --config, --model and --search from args.
// Both "--flag value" and "--flag=value" forms are accepted.
func parseFlags(args []string) cliFlags {
	var flags cliFlags
	targets := map[string]*string{
		"--config": &flags.Config,
		"--model":  &flags.Model,
		"--search": &flags.Search,
	}
	for i := 0; i < len(args); i++ {
		name, value, hasValue := strings.Cut(args[i], "=")
		dst, ok := targets[name]
		if !ok {
			continue
		}
		if hasValue {
			*dst = value
			continue
		}
		if i+1 < len(args) {
			*dst = args[i+1]
			i++
		}
	}
	return flags
}

// configPath resolves the config file: --config, then RESEARCH_CONFIG, then ./config.yaml.
func configPath(flags cliFlags) string {
	if flags.Config != "" {
		return flags.Config
	}
	if p := os.Getenv("RESEARCH_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

// applyFlags layers command line overrides on top of the loaded config.
func applyFlags(cfg *config.Config, flags cliFlags) error {
	if flags.Model != "" {
		for i := range cfg.LLM.Providers {
			if cfg.LLM.Providers[i].Name == cfg.LLM.DefaultProvider {
				cfg.LLM.Providers[i].Model = flags.Model
			}
		}
	}
	if flags.Search != "" {
		cfg.Search.Default = flags.Search
	}
	return config.Validate(cfg)
}

func run() error {
	// 1. Config
	flags := parseFlags(os.Args[1:])
	cfg, err := config.Load(configPath(flags))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := applyFlags(cfg, flags); err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	// 2. Logger & Tracer
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx := context.Background()
	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(ctx)

	if cfg.UI.ASCII {
		theme.ForceASCII()
	}

	// 3. Event bus
	bus := eventbus.New(logger.Component(log, "eventbus"))
	defer bus.Close()

	// 4. LLM client and search provider. Missing credentials do not abort
	// startup: the chat view opens with the problem shown and input locked.
	client, llmErr := initLLM(cfg, log)
	provider, searchErr := initSearch(cfg, log)
	configErr := errors.Join(llmErr, searchErr)
	if configErr != nil && !domain.IsConfigError(configErr) {
		return configErr
	}

	speed, ok := chat.ParseStreamSpeed(cfg.UI.StreamSpeed)
	if !ok {
		log.Warn("unknown stream speed, using normal", "stream_speed", cfg.UI.StreamSpeed)
	}

	deps := chat.ChatModelDeps{
		ConfigErr:   configErr,
		Logger:      logger.Component(log, "tui"),
		Title:       cfg.UI.Title,
		StreamSpeed: speed,
	}

	// 5. Conversation
	if configErr == nil {
		manager := conversation.NewManager(conversation.Deps{
			Provider: provider,
			LLM:      client,
			Models:   client,
			Bus:      bus,
			Logger:   logger.Component(log, "conversation"),
		})
		deps.Conversation = manager
		deps.Models = client
		if provider != nil {
			deps.ProviderName = provider.Name()
		}
		log.Info("research-assistant starting",
			"conversation", manager.ID(),
			"model", client.Model(),
			"search", cfg.Search.Default,
		)
	} else {
		log.Error("configuration incomplete", "error", configErr)
	}

	// 6. Graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 7. Start
	ch := chat.NewTUIChannel(deps, logger.Component(log, "channel"))
	ch.SetEventBus(bus)
	return ch.Start(ctx)
}
