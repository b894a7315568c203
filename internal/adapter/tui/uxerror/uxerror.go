// Package uxerror turns errors into short explanations with recovery hints.
package uxerror

import (
	"errors"
	"strings"

	"research-assistant/internal/adapter/tui/theme"
	"research-assistant/internal/domain"
)

// FriendlyError is what the transcript pane shows for a failure.
type FriendlyError struct {
	Title   string
	Message string
	Hints   []string
	Raw     string // original error text
}

func (fe FriendlyError) Render() string {
	lines := []string{fe.Title}
	if fe.Message != "" {
		lines = append(lines, "  "+fe.Message)
	}
	if len(fe.Hints) > 0 {
		lines = append(lines, "  Suggestions:")
		for _, h := range fe.Hints {
			lines = append(lines, "    "+theme.SymbolBullet+" "+h)
		}
	}
	return strings.Join(lines, "\n")
}

// advice describes one class of failure. An empty message shows the error's
// own detail instead.
type advice struct {
	title   string
	message string
	hints   []string
}

var (
	configAdvice = advice{
		title: "Configuration Required",
		hints: []string{
			"Set GROQ_API_KEY (and OMDB_API_KEY or YOUTUBE_API_KEY for those providers)",
			"Run 'research-assistant doctor' to check your setup",
			"Restart the assistant after fixing the configuration",
		},
	}
	timeoutAdvice = advice{
		title:   "Request Timed Out",
		message: "The request took too long to complete.",
		hints:   []string{"Try again in a moment", "Check your network connection", "Increase search.timeout or the provider timeouts in config"},
	}
	authAdvice = advice{
		title:   "Authentication Failed",
		message: "The API key or credentials were rejected.",
		hints:   []string{"Check your API key environment variable", "Verify the key hasn't expired"},
	}
	rateAdvice = advice{
		title:   "Rate Limited",
		message: "Too many requests sent to the provider.",
		hints:   []string{"Wait a moment before retrying", "Switch to another model with /model"},
	}
)

// byCode covers errors classified by domain.ErrorCodeOf.
var byCode = map[domain.ErrorCode]advice{
	domain.CodeConfigMissing: configAdvice,
	domain.CodeConfigLoad:    configAdvice,
	domain.CodeDecryption:    configAdvice,
	domain.CodeTurnInFlight: {
		title:   "Still Working",
		message: "A query is already being processed.",
		hints:   []string{"Wait for the current answer before asking again"},
	},
	domain.CodeUnknownModel: {
		title: "Unknown Model",
		hints: []string{"Type /models to list the available models", "Press Ctrl+T to cycle models"},
	},
	domain.CodeCircuitOpen: {
		title:   "Model Temporarily Unavailable",
		message: "Recent requests to the language model kept failing.",
		hints:   []string{"Wait a few seconds and try again", "Run 'research-assistant doctor' to check connectivity"},
	},
	domain.CodeInvalidInput: {
		title: "Invalid Request",
		hints: []string{"Rephrase the question and try again"},
	},
	domain.CodeContextOverflow: {
		title:   "Too Much Context",
		message: "The question and search results exceed the model's context window.",
		hints:   []string{"Ask a narrower question", "Switch to a model with a larger window"},
	},
	domain.CodeTimeout:       timeoutAdvice,
	domain.CodeSearchTimeout: timeoutAdvice,
	domain.CodeLLMTimeout:    timeoutAdvice,
	domain.CodeAuthInvalid:   authAdvice,
	domain.CodeRateLimit:     rateAdvice,
}

// byText matches errors from outside the domain by their message.
var byText = []struct {
	needles []string
	advice  advice
}{
	{[]string{"connection refused", "dial tcp", "no such host"}, advice{
		title:   "Connection Failed",
		message: "Could not reach the remote service.",
		hints:   []string{"Check your internet connection", "Verify the service URL in config", "Check if a firewall is blocking the connection"},
	}},
	{[]string{"deadline exceeded", "timeout", "timed out"}, timeoutAdvice},
	{[]string{"401", "unauthorized", "invalid api key"}, authAdvice},
	{[]string{"429", "rate limit", "too many requests"}, rateAdvice},
}

// Humanize explains err for the user.
func Humanize(err error) FriendlyError {
	if err == nil {
		return FriendlyError{Title: "Unknown Error", Raw: "nil"}
	}
	if a, ok := byCode[domain.ErrorCodeOf(err)]; ok {
		return a.explain(err)
	}
	lower := strings.ToLower(err.Error())
	for _, t := range byText {
		for _, n := range t.needles {
			if strings.Contains(lower, n) {
				return t.advice.explain(err)
			}
		}
	}
	return advice{
		title: "Unexpected Error",
		hints: []string{"Try again", "Set logger.level to debug for more details"},
	}.explain(err)
}

func (a advice) explain(err error) FriendlyError {
	msg := a.message
	if msg == "" {
		msg = detailOf(err)
	}
	return FriendlyError{Title: a.title, Message: msg, Hints: a.hints, Raw: err.Error()}
}

// detailOf prefers a DomainError's Detail over the whole chain.
func detailOf(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) && de.Detail != "" {
		return de.Detail
	}
	return err.Error()
}
