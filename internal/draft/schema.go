package draft

import "github.com/abhisek/nepaligpa/internal/llm"

// WordBatchSchema is the response shape for one batch of drafted words.
var WordBatchSchema = &llm.Schema{
	Name:        "word-batch",
	Description: "Nepali translations for a batch of English words",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"words": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"english": map[string]any{
							"type":        "string",
							"description": "The English word exactly as given",
						},
						"nepali": map[string]any{
							"type":        "string",
							"minLength":   1,
							"description": "The everyday Nepali word in Devanagari script",
						},
						"romanized": map[string]any{
							"type":        "string",
							"description": "Simple Latin-letter spelling of the Nepali word, lowercase, no diacritics",
						},
					},
					"required":             []any{"english", "nepali", "romanized"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"words"},
		"additionalProperties": false,
	},
}
