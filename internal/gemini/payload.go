package gemini

// GenParams are the generation parameters carried into every payload shape.
type GenParams struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Fallback values for generation parameters a payload shape cannot map.
const (
	defaultMaxTokens = 1024
	defaultTopP      = 0.9
	defaultTopK      = 40
)

func generationConfig(p GenParams) map[string]any {
	maxTokens := p.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	return map[string]any{
		"temperature":     p.Temperature,
		"maxOutputTokens": maxTokens,
		"topP":            defaultTopP,
		"topK":            defaultTopK,
	}
}

// primaryPayload builds the request body for the given API version. The v1
// API requires an explicit role on each content block; v1beta rejects it on
// some models, so the role is the only difference between the two shapes.
func primaryPayload(text string, p GenParams, version string) map[string]any {
	content := map[string]any{
		"parts": []any{map[string]any{"text": text}},
	}
	if version == versionV1 {
		content["role"] = "user"
	}
	return map[string]any{
		"contents":         []any{content},
		"generationConfig": generationConfig(p),
	}
}

// payloadBuilder produces one alternate request-body shape from the same
// prompt text. Builders are pure; every attempt sends a fresh payload.
type payloadBuilder struct {
	name  string
	build func(text string, p GenParams) map[string]any
}

// alternatePayloads is the ordered ladder of request shapes tried after both
// endpoint versions have failed with the primary shape.
var alternatePayloads = []payloadBuilder{
	{
		name: "role",
		build: func(text string, p GenParams) map[string]any {
			return map[string]any{
				"contents": []any{map[string]any{
					"role":  "user",
					"parts": []any{map[string]any{"text": text}},
				}},
				"generationConfig": generationConfig(p),
			}
		},
	},
	{
		name: "prompt",
		build: func(text string, p GenParams) map[string]any {
			return map[string]any{
				"prompt":           map[string]any{"text": text},
				"generationConfig": generationConfig(p),
			}
		},
	},
	{
		name: "input",
		build: func(text string, p GenParams) map[string]any {
			return map[string]any{
				"input":            map[string]any{"text": text},
				"generationConfig": generationConfig(p),
			}
		},
	},
}
