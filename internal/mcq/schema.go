package mcq

// BuildQuestionSetSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing a well-formed question set. We use it locally to
// validate backend output before accepting a run as successful.
func BuildQuestionSetSchema() map[string]any {
	question := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"question": map[string]any{"type": "string", "minLength": 10},
			"options": map[string]any{
				"type":     "array",
				"minItems": 4,
				"maxItems": 4,
				"items":    map[string]any{"type": "string", "minLength": 3},
			},
			"correct_answer": map[string]any{
				"type": "string",
				"enum": []string{"A", "B", "C", "D"},
			},
			"explanation": map[string]any{"type": "string", "minLength": 10},
		},
		"required": []string{"question", "options", "correct_answer", "explanation"},
	}

	return map[string]any{
		"type":     "array",
		"minItems": 1,
		"items":    question,
	}
}
