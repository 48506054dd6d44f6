package analyzer

// responseSchema constrains the model output to the persisted shape.
// Field names here are the wire names; keep them in sync with the
// report model types.
func responseSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"metadata": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"id":       map[string]any{"type": "STRING"},
					"title":    map[string]any{"type": "STRING"},
					"category": map[string]any{"type": "STRING"},
					"date":     map[string]any{"type": "STRING"},
					"author":   map[string]any{"type": "STRING"},
				},
				"required": []string{"id", "title"},
			},
			"extracted_data": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"report_date": map[string]any{"type": "STRING"},
					"total_bags":  map[string]any{"type": "NUMBER"},
					"warehouses": map[string]any{
						"type": "ARRAY",
						"items": map[string]any{
							"type": "OBJECT",
							"properties": map[string]any{
								"name": map[string]any{"type": "STRING"},
								"bags": map[string]any{"type": "NUMBER"},
							},
							"required": []string{"name", "bags"},
						},
					},
					"grading": map[string]any{
						"type": "OBJECT",
						"properties": map[string]any{
							"passed":       map[string]any{"type": "NUMBER"},
							"failed":       map[string]any{"type": "NUMBER"},
							"total_graded": map[string]any{"type": "NUMBER"},
							"pending":      map[string]any{"type": "NUMBER"},
						},
					},
					"executive_summary": map[string]any{
						"type": "OBJECT",
						"properties": map[string]any{
							"sentiment": map[string]any{
								"type": "STRING",
								"enum": []string{"Bullish", "Bearish", "Neutral"},
							},
							"bullish_bearish_score": map[string]any{"type": "NUMBER"},
							"headline":              map[string]any{"type": "STRING"},
							"text":                  map[string]any{"type": "STRING"},
						},
					},
					"key_metrics": map[string]any{
						"type": "OBJECT",
						"properties": map[string]any{
							"fresh_vs_transition_ratio": map[string]any{"type": "STRING"},
							"change_from_previous":      map[string]any{"type": "STRING"},
						},
					},
					"deep_dive_analysis": map[string]any{
						"type": "OBJECT",
						"properties": map[string]any{
							"geo_logistics_risk":    map[string]any{"type": "STRING"},
							"supply_demand_insight": map[string]any{"type": "STRING"},
						},
					},
					"engineering_suggestions": map[string]any{
						"type":  "ARRAY",
						"items": map[string]any{"type": "STRING"},
					},
					"summary": map[string]any{"type": "STRING"},
					"key_points": map[string]any{
						"type":  "ARRAY",
						"items": map[string]any{"type": "STRING"},
					},
				},
				"required": []string{"summary", "key_points"},
			},
			"evaluation": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"score": map[string]any{"type": "NUMBER"},
					"status": map[string]any{
						"type": "STRING",
						"enum": []string{"positive", "neutral", "negative", "warning"},
					},
					"details": map[string]any{"type": "STRING"},
					"tags": map[string]any{
						"type":  "ARRAY",
						"items": map[string]any{"type": "STRING"},
					},
				},
				"required": []string{"score", "status", "details", "tags"},
			},
		},
		"required": []string{"metadata", "extracted_data", "evaluation"},
	}
}
