package llm

import (
	"slices"

	"research-assistant/internal/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "llama3-70b-8192"

// supportedModels is the closed set of selectable model identifiers, in
// presentation order.
var supportedModels = []string{
	"llama3-70b-8192",
	"llama3-8b-8192",
	"mixtral-8x7b-32768",
	"gemma-7b-it",
}

// SupportedModels returns a copy of the selectable model identifiers.
func SupportedModels() []string {
	return slices.Clone(supportedModels)
}

// IsSupportedModel reports whether id belongs to the closed model set.
func IsSupportedModel(id string) bool {
	return slices.Contains(supportedModels, id)
}

// NextModel returns the model after current in the closed set, wrapping
// around. Unknown values map to the first model.
func NextModel(current string) string {
	i := slices.Index(supportedModels, current)
	return supportedModels[(i+1)%len(supportedModels)]
}

func validateModel(op, id string) error {
	if !IsSupportedModel(id) {
		return domain.NewSubSystemError("llm", op, domain.ErrUnknownModel, id)
	}
	return nil
}
