package llm

import "resumeline/constants"

// BuildEnrichmentJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the model as a structured output constraint and
// also use it locally to validate what came back.
func BuildEnrichmentJSONSchema() map[string]any {
	story := map[string]any{"type": "string", "minLength": 1}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"role_description": map[string]any{"type": "string", "minLength": 1},
			"star_stories": map[string]any{
				"type":     "array",
				"items":    story,
				"maxItems": constants.MaxStarStories,
			},
			"metrics": map[string]any{
				"type":     "array",
				"items":    story,
				"maxItems": constants.MaxMetrics,
			},
		},
	}
}
