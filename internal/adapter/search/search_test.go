package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"research-assistant/internal/domain"
)

func TestKeyForName(t *testing.T) {
	tests := []struct {
		name   string
		want   domain.ProviderKey
		wantOK bool
	}{
		{"web", domain.ProviderWeb, true},
		{"search", domain.ProviderWeb, true},
		{"movie", domain.ProviderMovie, true},
		{"trailer", domain.ProviderTrailer, true},
		{"none", "", false},
		{"bing", "", false},
	}
	for _, tt := range tests {
		got, ok := KeyForName(tt.name)
		assert.Equal(t, tt.want, got, tt.name)
		assert.Equal(t, tt.wantOK, ok, tt.name)
	}
}

func TestNewWebBackends(t *testing.T) {
	cfg := testSearchConfig()
	p, err := New(domain.ProviderWeb, cfg, newTestLogger())
	require.NoError(t, err)
	assert.IsType(t, &DuckDuckGo{}, p)

	cfg.WebBackend = "searxng"
	cfg.SearXNGURL = "http://localhost:8888"
	p, err = New(domain.ProviderWeb, cfg, newTestLogger())
	require.NoError(t, err)
	assert.IsType(t, &SearXNG{}, p)
	assert.Equal(t, domain.ProviderWeb, p.Key())
}

func TestNewCredentialedProviders(t *testing.T) {
	cfg := testSearchConfig()

	_, err := New(domain.ProviderMovie, cfg, newTestLogger())
	assert.ErrorIs(t, err, domain.ErrConfigMissing)
	_, err = New(domain.ProviderTrailer, cfg, newTestLogger())
	assert.ErrorIs(t, err, domain.ErrConfigMissing)

	cfg.OMDbAPIKey = "k"
	cfg.YouTubeAPIKey = "k"
	p, err := New(domain.ProviderMovie, cfg, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, "OMDb Movie Search", p.Name())

	p, err = New(domain.ProviderTrailer, cfg, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderTrailer, p.Key())
}

func TestNewUnknownKey(t *testing.T) {
	_, err := New("images", testSearchConfig(), newTestLogger())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewDefaultNone(t *testing.T) {
	cfg := testSearchConfig()
	cfg.Default = "none"
	p, err := NewDefault(cfg, newTestLogger())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNewDefaultWeb(t *testing.T) {
	p, err := NewDefault(testSearchConfig(), newTestLogger())
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "DuckDuckGo Search", p.Name())
}

func TestRunConvertsErrors(t *testing.T) {
	res := run(context.Background(), domain.ProviderWeb, "Test Search", "q", newTestLogger(),
		func(context.Context, trace.Span) ([]domain.ResultItem, error) {
			return nil, errors.New("boom")
		})

	assert.Equal(t, domain.ToolResult{ToolName: "Test Search", Query: "q", Error: "boom"}, res)
}

func TestRunRecoversPanic(t *testing.T) {
	var res domain.ToolResult
	require.NotPanics(t, func() {
		res = run(context.Background(), domain.ProviderWeb, "Test Search", "q", newTestLogger(),
			func(context.Context, trace.Span) ([]domain.ResultItem, error) {
				panic("parser exploded")
			})
	})
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "parser exploded")
}

func TestRunRejectsBlankQuery(t *testing.T) {
	called := false
	res := run(context.Background(), domain.ProviderWeb, "Test Search", "   ", newTestLogger(),
		func(context.Context, trace.Span) ([]domain.ResultItem, error) {
			called = true
			return nil, nil
		})

	assert.False(t, called)
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "query must not be empty")
}

func TestIsTransient(t *testing.T) {
	assert.False(t, isTransient(nil))
	assert.True(t, isTransient(domain.NewSubSystemError("search", "op", domain.ErrTimeout, "")))
	assert.True(t, isTransient(errors.New("dial tcp: connection refused")))
	assert.False(t, isTransient(domain.NewSubSystemError("search", "op", domain.ErrAuthInvalid, "")))
}
