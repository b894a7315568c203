package domain

import "context"

// ProviderKey identifies a search provider variant in a turn's result map.
type ProviderKey string

const (
	ProviderWeb     ProviderKey = "search"
	ProviderMovie   ProviderKey = "movie"
	ProviderTrailer ProviderKey = "trailer"
)

// ProviderKeys lists every known key in display order.
var ProviderKeys = []ProviderKey{ProviderWeb, ProviderMovie, ProviderTrailer}

// Valid reports whether k is a known provider key.
func (k ProviderKey) Valid() bool {
	for _, known := range ProviderKeys {
		if k == known {
			return true
		}
	}
	return false
}

// SearchProvider maps a query to a ToolResult.
//
// Search never returns an error. Network, parsing and auth failures are
// reported through ToolResult.Error with no items.
type SearchProvider interface {
	Name() string
	Key() ProviderKey
	Search(ctx context.Context, query string) ToolResult
}
