package domain

import (
	"errors"
	"fmt"
)

// Category sentinels. NewSubSystemError refines their codes per subsystem.
var (
	ErrTimeout       = errors.New("operation timed out")
	ErrInvalidInput  = errors.New("invalid input")
	ErrProviderError = errors.New("provider error")
)

var (
	ErrProviderNotFound = errors.New("llm provider not found")
	ErrConfigLoad       = errors.New("failed to load configuration")
	ErrConfigMissing    = errors.New("required configuration missing")
	ErrDecryption       = errors.New("decryption failed")
	ErrTurnInFlight     = errors.New("a query is already being processed")
	ErrUnknownModel     = errors.New("unknown model")
	ErrSearchFailed     = errors.New("search failed")

	ErrContextOverflow = errors.New("context window exceeded")
	ErrRateLimit       = errors.New("rate limit exceeded")
	ErrAuthInvalid     = errors.New("authentication failed")
	ErrCircuitOpen     = errors.New("circuit open")
)

// DomainError annotates a sentinel with the failing operation.
type DomainError struct {
	Op        string // e.g. "Manager.ProcessQuery"
	Err       error
	Detail    string
	SubSystem string // "search", "llm"; refines Code
}

func (e *DomainError) Error() string {
	if e.Detail == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// NewSubSystemError is NewDomainError tagged with the subsystem it came from.
func NewSubSystemError(subsystem, op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail, SubSystem: subsystem}
}

// IsConfigError reports whether err stems from missing or unloadable configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing) || errors.Is(err, ErrConfigLoad)
}

// ErrorCode is a stable error category for logs and traces.
type ErrorCode string

const (
	CodeUnknown          ErrorCode = "UNKNOWN"
	CodeTimeout          ErrorCode = "TIMEOUT"
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"
	CodeProviderError    ErrorCode = "PROVIDER_ERROR"
	CodeProviderNotFound ErrorCode = "PROVIDER_NOT_FOUND"
	CodeConfigLoad       ErrorCode = "CONFIG_LOAD"
	CodeConfigMissing    ErrorCode = "CONFIG_MISSING"
	CodeDecryption       ErrorCode = "DECRYPTION"
	CodeTurnInFlight     ErrorCode = "TURN_IN_FLIGHT"
	CodeUnknownModel     ErrorCode = "UNKNOWN_MODEL"
	CodeSearchFailed     ErrorCode = "SEARCH_FAILED"
	CodeContextOverflow  ErrorCode = "CONTEXT_OVERFLOW"
	CodeRateLimit        ErrorCode = "RATE_LIMIT"
	CodeAuthInvalid      ErrorCode = "AUTH_INVALID"
	CodeCircuitOpen      ErrorCode = "CIRCUIT_OPEN"

	CodeSearchTimeout  ErrorCode = "SEARCH_TIMEOUT"
	CodeLLMTimeout     ErrorCode = "LLM_TIMEOUT"
	CodeSearchProvider ErrorCode = "SEARCH_PROVIDER"
	CodeLLMProvider    ErrorCode = "LLM_PROVIDER"
)

// sentinelCodes is checked in order, so specific failures win over the
// broad categories at the end when a chain matches several.
var sentinelCodes = []struct {
	err  error
	code ErrorCode
}{
	{ErrCircuitOpen, CodeCircuitOpen},
	{ErrRateLimit, CodeRateLimit},
	{ErrAuthInvalid, CodeAuthInvalid},
	{ErrContextOverflow, CodeContextOverflow},
	{ErrUnknownModel, CodeUnknownModel},
	{ErrTurnInFlight, CodeTurnInFlight},
	{ErrConfigMissing, CodeConfigMissing},
	{ErrConfigLoad, CodeConfigLoad},
	{ErrDecryption, CodeDecryption},
	{ErrProviderNotFound, CodeProviderNotFound},
	{ErrSearchFailed, CodeSearchFailed},
	{ErrTimeout, CodeTimeout},
	{ErrInvalidInput, CodeInvalidInput},
	{ErrProviderError, CodeProviderError},
}

var subsystemCodes = []struct {
	err       error
	subsystem string
	code      ErrorCode
}{
	{ErrTimeout, "search", CodeSearchTimeout},
	{ErrTimeout, "llm", CodeLLMTimeout},
	{ErrProviderError, "search", CodeSearchProvider},
	{ErrProviderError, "llm", CodeLLMProvider},
}

// ErrorCodeOf classifies err. The outermost DomainError with a known code
// decides; otherwise the first matching sentinel does.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}
	var de *DomainError
	if errors.As(err, &de) {
		if code := de.Code(); code != CodeUnknown {
			return code
		}
	}
	return sentinelCode(err)
}

func sentinelCode(err error) ErrorCode {
	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			return sc.code
		}
	}
	return CodeUnknown
}

// Code classifies the wrapped error, refined by SubSystem when set.
func (e *DomainError) Code() ErrorCode {
	for _, sc := range subsystemCodes {
		if sc.subsystem == e.SubSystem && errors.Is(e.Err, sc.err) {
			return sc.code
		}
	}
	return sentinelCode(e.Err)
}
