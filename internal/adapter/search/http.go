package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"research-assistant/internal/domain"
)

const (
	maxSearchBodySize    = 512 * 1024 // 512KB
	defaultTimeout       = 15 * time.Second
	maxErrorDetailLength = 200
	userAgent            = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// doRequest sends req and returns the response body. Transport failures and
// non-200 statuses are mapped onto domain sentinels.
func doRequest(client *http.Client, req *http.Request, op string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		if isTimeoutErr(err) {
			return nil, domain.NewSubSystemError("search", op, domain.ErrTimeout, err.Error())
		}
		return nil, fmt.Errorf("%s: request: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(op, resp.StatusCode, body)
	}
	return body, nil
}

// getJSON issues a GET and decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, url, op string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := doRequest(client, req, op)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: parse response: %w", op, err)
	}
	return nil
}

func statusError(op string, status int, body []byte) error {
	detail := fmt.Sprintf("HTTP %d", status)
	if msg := errorMessage(body); msg != "" {
		detail += ": " + msg
	}

	switch {
	// DuckDuckGo answers 202 with an empty page when throttling.
	case status == http.StatusTooManyRequests || status == http.StatusAccepted:
		return domain.NewSubSystemError("search", op, domain.ErrRateLimit, detail)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewSubSystemError("search", op, domain.ErrAuthInvalid, detail)
	case status >= 500:
		return domain.NewSubSystemError("search", op, domain.ErrProviderError, detail)
	default:
		return domain.NewSubSystemError("search", op, domain.ErrSearchFailed, detail)
	}
}

// errorMessage pulls a readable message out of an error body. It understands
// Google's {"error":{"message"}} and OMDb's {"Error"} envelopes and falls back
// to the truncated raw body.
func errorMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
		OMDb  string          `json:"Error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.OMDb != "" {
			return envelope.OMDb
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorDetailLength {
		msg = msg[:maxErrorDetailLength] + "..."
	}
	return msg
}

func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
