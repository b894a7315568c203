package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"research-assistant/internal/domain"
)

// maxResponseBody bounds how much of a provider response is read.
const maxResponseBody = 10 << 20

// postJSON sends in as a JSON POST with bearer auth and decodes a 2xx reply
// into out. Other statuses become an *apiError.
func postJSON(ctx context.Context, client *http.Client, url, apiKey string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, resp.Header, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// apiError is an unsuccessful reply from an OpenAI-compatible API. It unwraps
// to the matching domain sentinel so the breaker and the UI can classify it.
type apiError struct {
	Status     int
	Message    string
	RetryAfter time.Duration
	kind       error
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("API error %d: %s", e.Status, e.Message)
	if e.kind != nil {
		msg = e.kind.Error() + ": " + msg
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	return msg
}

func (e *apiError) Unwrap() error { return e.kind }

var statusKinds = map[int]error{
	http.StatusBadRequest:            domain.ErrInvalidInput,
	http.StatusUnauthorized:          domain.ErrAuthInvalid,
	http.StatusForbidden:             domain.ErrAuthInvalid,
	http.StatusRequestEntityTooLarge: domain.ErrContextOverflow,
	http.StatusTooManyRequests:       domain.ErrRateLimit,
}

func newAPIError(status int, header http.Header, body []byte) *apiError {
	e := &apiError{Status: status, Message: string(body), kind: statusKinds[status]}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
		e.Message = envelope.Error.Message
	}

	switch {
	case status == http.StatusNotFound && len(body) > 0:
		// Groq answers 404 for decommissioned or unknown models.
		e.kind = domain.ErrUnknownModel
	case status >= 500:
		e.kind = domain.ErrProviderError
	}

	if secs, err := strconv.Atoi(header.Get("Retry-After")); err == nil && secs > 0 {
		e.RetryAfter = time.Duration(secs) * time.Second
	}
	return e
}
