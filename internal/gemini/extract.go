package gemini

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Finish reasons that mean the provider refused the content outright.
var blockedFinishReasons = map[string]bool{
	"SAFETY":             true,
	"RECITATION":         true,
	"PROHIBITED_CONTENT": true,
}

// textExtractor pulls summary text out of one known candidate shape. The
// provider's response schema varies by model family and API version, so
// extraction is an ordered table rather than a single decode: the first
// extractor yielding non-empty text wins, and adding a newly observed shape
// is a table edit.
type textExtractor struct {
	name string
	fn   func(candidate gjson.Result) string
}

var textExtractors = []textExtractor{
	{"content.parts", func(c gjson.Result) string { return combineParts(c.Get("content.parts")) }},
	{"parts", func(c gjson.Result) string { return combineParts(c.Get("parts")) }},
	{"text", func(c gjson.Result) string { return stringField(c.Get("text")) }},
	{"output", func(c gjson.Result) string { return stringField(c.Get("output")) }},
	{"message.content", func(c gjson.Result) string { return stringField(c.Get("message.content")) }},
	{"content.text", func(c gjson.Result) string { return stringField(c.Get("content.text")) }},
	{"content", func(c gjson.Result) string { return stringField(c.Get("content")) }},
	{"response", func(c gjson.Result) string {
		for _, field := range []string{"response", "generated_text", "completion", "answer"} {
			if v := stringField(c.Get(field)); v != "" {
				return v
			}
		}
		return ""
	}},
}

// parseResponse extracts summary text from a successful (HTTP 200) body.
// It returns the name of the shape that matched for observability, or a
// SummaryError whose kind decides whether the fallback ladder continues.
func parseResponse(body []byte) (text, shape string, serr *SummaryError) {
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return "", "", &SummaryError{KindNoText, "response body is not a JSON object"}
	}

	if errObj := root.Get("error"); errObj.Exists() {
		msg := errObj.Get("message").String()
		if msg == "" {
			msg = "unknown API error"
		}
		return "", "", &SummaryError{KindAPIError, "Gemini API error: " + msg}
	}

	candidates := root.Get("candidates").Array()
	if len(candidates) == 0 {
		return "", "", &SummaryError{KindNoText, "no candidates in API response"}
	}
	candidate := candidates[0]

	finishReason := candidate.Get("finishReason").String()
	if blockedFinishReasons[finishReason] {
		return "", "", &SummaryError{KindContentBlocked, "content was blocked by safety filters"}
	}
	if finishReason == "MAX_TOKENS" {
		// Truncated output may still be partially usable, so extraction
		// continues — unless the candidate carries a role but no parts,
		// which means the token budget was spent before any content.
		if candidate.Get("content.role").String() == "model" && !candidate.Get("content.parts").Exists() {
			return "", "", &SummaryError{
				KindNoText,
				"token limit reached before any content was produced; the request format may not fit this model",
			}
		}
	}

	for _, ex := range textExtractors {
		if t := strings.TrimSpace(ex.fn(candidate)); t != "" {
			return t, ex.name, nil
		}
	}

	if reason := root.Get("promptFeedback.blockReason").String(); reason != "" {
		return "", "", &SummaryError{KindContentBlocked, "prompt was blocked: " + reason}
	}

	return "", "", &SummaryError{KindNoText, fmt.Sprintf(
		"no extractable text in response (candidates=%d, finishReason=%q, candidateKeys=%v, shapesTried=%v)",
		len(candidates), finishReason, candidateKeys(candidate), shapeNames(),
	)}
}

// combineParts joins the text of every text-bearing part with single spaces.
// Parts may be plain strings or objects carrying text or content fields.
func combineParts(parts gjson.Result) string {
	if !parts.IsArray() {
		return ""
	}
	var texts []string
	parts.ForEach(func(_, part gjson.Result) bool {
		var t string
		switch {
		case part.Type == gjson.String:
			t = part.String()
		case part.Get("text").Type == gjson.String:
			t = part.Get("text").String()
		case part.Get("content").Type == gjson.String:
			t = part.Get("content").String()
		}
		if t = strings.TrimSpace(t); t != "" {
			texts = append(texts, t)
		}
		return true
	})
	return strings.Join(texts, " ")
}

func stringField(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	return ""
}

func candidateKeys(candidate gjson.Result) []string {
	var keys []string
	candidate.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	sort.Strings(keys)
	return keys
}

func shapeNames() []string {
	names := make([]string, len(textExtractors))
	for i, ex := range textExtractors {
		names[i] = ex.name
	}
	return names
}
