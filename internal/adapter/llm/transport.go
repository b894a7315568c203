package llm

import (
	"net"
	"net/http"
	"time"

	"research-assistant/internal/infra/config"
)

// Groq answers most completions within a few seconds; the response timeout
// covers long generations on the larger models.
const (
	defaultConnTimeout = 30 * time.Second
	defaultRespTimeout = 120 * time.Second
)

// NewHTTPClient builds the client used for chat completions. Dial and
// response-header waits are bounded separately; the overall deadline is
// their sum.
func NewHTTPClient(cfg config.ProviderConfig) *http.Client {
	conn, resp := cfg.ConnTimeout, cfg.RespTimeout
	if conn <= 0 {
		conn = defaultConnTimeout
	}
	if resp <= 0 {
		resp = defaultRespTimeout
	}

	dialer := &net.Dialer{Timeout: conn, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: resp,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: conn + resp}
}
