// Package catalog defines the static model catalog, the category routing
// table, and the query classifier used for automatic model selection.
package catalog

// Category is the classifier output label used to pick a default model
// under automatic routing.
type Category string

const (
	CategoryFast     Category = "fast"
	CategoryGeneral  Category = "general"
	CategoryCode     Category = "code"
	CategoryCreative Category = "creative"
)

// ModelConfig describes one model in the catalog. Instances are immutable
// after process start and shared read-only by the classifier and router.
type ModelConfig struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxTokens   int    `json:"max_tokens"`
	BestFor     string `json:"best_for"`
}

// DefaultModel is the model used when an explicit request names an unknown id.
const DefaultModel = "gemini-2.5-flash"

// modelOrder fixes the registration order of the catalog. Fallback candidate
// lists follow this order, so it must stay deterministic.
var modelOrder = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemma-3-4b",
	"gemma-3-1b",
}

var models = map[string]ModelConfig{
	"gemini-2.5-flash": {
		ID:          "gemini-2.5-flash",
		Name:        "Gemini 2.5 Flash",
		Description: "Balanced speed and quality",
		MaxTokens:   8192,
		BestFor:     "general",
	},
	"gemini-2.5-flash-lite": {
		ID:          "gemini-2.5-flash-lite",
		Name:        "Gemini 2.5 Flash Lite",
		Description: "Fastest responses, good for simple queries",
		MaxTokens:   4096,
		BestFor:     "fast",
	},
	"gemma-3-4b": {
		ID:          "gemma-3-4b",
		Name:        "Gemma 3 4B",
		Description: "Lightweight model for quick responses",
		MaxTokens:   4096,
		BestFor:     "fast",
	},
	"gemma-3-1b": {
		ID:          "gemma-3-1b",
		Name:        "Gemma 3 1B",
		Description: "Ultra-lightweight, fastest option",
		MaxTokens:   2048,
		BestFor:     "fast",
	},
}

// routing maps a classifier category to its default model id.
// The "creative" entry is currently unreachable: Classify never produces
// that category. It stays in the table so an explicit routing change does
// not need a schema change.
var routing = map[Category]string{
	CategoryFast:     "gemini-2.5-flash-lite",
	CategoryGeneral:  "gemini-2.5-flash",
	CategoryCode:     "gemini-2.5-flash",
	CategoryCreative: "gemini-2.5-flash",
}

// Get returns the config for a model id, or false if not cataloged.
func Get(id string) (ModelConfig, bool) {
	m, ok := models[id]
	return m, ok
}

// IDs returns all catalog model ids in registration order.
func IDs() []string {
	out := make([]string, len(modelOrder))
	copy(out, modelOrder)
	return out
}

// All returns all catalog entries in registration order.
func All() []ModelConfig {
	out := make([]ModelConfig, 0, len(modelOrder))
	for _, id := range modelOrder {
		out = append(out, models[id])
	}
	return out
}

// ModelFor resolves a category to its default model id via the routing table.
// Unknown categories fall back to DefaultModel.
func ModelFor(c Category) string {
	if id, ok := routing[c]; ok {
		return id
	}
	return DefaultModel
}
