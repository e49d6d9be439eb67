package gemini

import (
	"strings"
	"testing"
)

func TestParseResponseShapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantText  string
		wantShape string
	}{
		{
			name:      "content parts",
			body:      `{"candidates":[{"content":{"parts":[{"text":"A summary."}]}}]}`,
			wantText:  "A summary.",
			wantShape: "content.parts",
		},
		{
			name:      "content parts joined",
			body:      `{"candidates":[{"content":{"parts":[{"text":"First."},{"text":"Second."}]}}]}`,
			wantText:  "First. Second.",
			wantShape: "content.parts",
		},
		{
			name:      "parts as plain strings",
			body:      `{"candidates":[{"parts":["One","Two"]}]}`,
			wantText:  "One Two",
			wantShape: "parts",
		},
		{
			name:      "parts with content field",
			body:      `{"candidates":[{"parts":[{"content":"Inner"}]}]}`,
			wantText:  "Inner",
			wantShape: "parts",
		},
		{
			name:      "candidate text",
			body:      `{"candidates":[{"text":"Direct text"}]}`,
			wantText:  "Direct text",
			wantShape: "text",
		},
		{
			name:      "candidate output",
			body:      `{"candidates":[{"output":"Output text"}]}`,
			wantText:  "Output text",
			wantShape: "output",
		},
		{
			name:      "message content",
			body:      `{"candidates":[{"message":{"content":"Msg text"}}]}`,
			wantText:  "Msg text",
			wantShape: "message.content",
		},
		{
			name:      "content text",
			body:      `{"candidates":[{"content":{"text":"CT text"}}]}`,
			wantText:  "CT text",
			wantShape: "content.text",
		},
		{
			name:      "content as string",
			body:      `{"candidates":[{"content":"Bare content"}]}`,
			wantText:  "Bare content",
			wantShape: "content",
		},
		{
			name:      "generated text field",
			body:      `{"candidates":[{"generated_text":"Gen text"}]}`,
			wantText:  "Gen text",
			wantShape: "response",
		},
		{
			name:      "completion field",
			body:      `{"candidates":[{"completion":"Completion text"}]}`,
			wantText:  "Completion text",
			wantShape: "response",
		},
		{
			name:      "surrounding whitespace trimmed",
			body:      `{"candidates":[{"text":"  padded  "}]}`,
			wantText:  "padded",
			wantShape: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, shape, serr := parseResponse([]byte(tt.body))
			if serr != nil {
				t.Fatalf("parseResponse error: %v", serr)
			}
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if shape != tt.wantShape {
				t.Errorf("shape = %q, want %q", shape, tt.wantShape)
			}
		})
	}
}

func TestParseResponseErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind ErrorKind
		wantMsg  string
	}{
		{
			name:     "not an object",
			body:     `[]`,
			wantKind: KindNoText,
			wantMsg:  "not a JSON object",
		},
		{
			name:     "structured error",
			body:     `{"error":{"code":400,"message":"API key not valid"}}`,
			wantKind: KindAPIError,
			wantMsg:  "API key not valid",
		},
		{
			name:     "error without message",
			body:     `{"error":{}}`,
			wantKind: KindAPIError,
			wantMsg:  "unknown API error",
		},
		{
			name:     "no candidates",
			body:     `{"candidates":[]}`,
			wantKind: KindNoText,
			wantMsg:  "no candidates",
		},
		{
			name:     "safety block",
			body:     `{"candidates":[{"finishReason":"SAFETY"}]}`,
			wantKind: KindContentBlocked,
			wantMsg:  "blocked by safety filters",
		},
		{
			name:     "recitation block",
			body:     `{"candidates":[{"finishReason":"RECITATION"}]}`,
			wantKind: KindContentBlocked,
			wantMsg:  "blocked by safety filters",
		},
		{
			name:     "prohibited content block",
			body:     `{"candidates":[{"finishReason":"PROHIBITED_CONTENT"}]}`,
			wantKind: KindContentBlocked,
			wantMsg:  "blocked by safety filters",
		},
		{
			name:     "token budget spent before content",
			body:     `{"candidates":[{"finishReason":"MAX_TOKENS","content":{"role":"model"}}]}`,
			wantKind: KindNoText,
			wantMsg:  "token limit reached",
		},
		{
			name:     "prompt feedback block",
			body:     `{"candidates":[{"index":0}],"promptFeedback":{"blockReason":"OTHER"}}`,
			wantKind: KindContentBlocked,
			wantMsg:  "prompt was blocked: OTHER",
		},
		{
			name:     "unrecognized shape",
			body:     `{"candidates":[{"novel":"thing","finishReason":"STOP"}]}`,
			wantKind: KindNoText,
			wantMsg:  "no extractable text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, serr := parseResponse([]byte(tt.body))
			if serr == nil {
				t.Fatal("expected an error")
			}
			if serr.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", serr.Kind, tt.wantKind)
			}
			if !strings.Contains(serr.Message, tt.wantMsg) {
				t.Errorf("message %q does not contain %q", serr.Message, tt.wantMsg)
			}
		})
	}
}

func TestParseResponseMaxTokensWithPartialText(t *testing.T) {
	body := `{"candidates":[{"finishReason":"MAX_TOKENS","content":{"role":"model","parts":[{"text":"Truncated but usable"}]}}]}`
	text, _, serr := parseResponse([]byte(body))
	if serr != nil {
		t.Fatalf("parseResponse error: %v", serr)
	}
	if text != "Truncated but usable" {
		t.Errorf("text = %q, want %q", text, "Truncated but usable")
	}
}

func TestParseResponseDiagnostics(t *testing.T) {
	body := `{"candidates":[{"zeta":1,"alpha":2,"finishReason":"STOP"}]}`
	_, _, serr := parseResponse([]byte(body))
	if serr == nil {
		t.Fatal("expected an error")
	}
	// Keys are sorted so diagnostics are stable across runs.
	if !strings.Contains(serr.Message, "alpha finishReason zeta") {
		t.Errorf("message %q missing sorted candidate keys", serr.Message)
	}
	if !strings.Contains(serr.Message, `finishReason="STOP"`) {
		t.Errorf("message %q missing finish reason", serr.Message)
	}
}
