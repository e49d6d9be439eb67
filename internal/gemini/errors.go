package gemini

// ErrorKind classifies a summarize failure for the response envelope.
type ErrorKind string

const (
	// KindConfigMissing means no API key or model is configured; nothing
	// was sent over the network.
	KindConfigMissing ErrorKind = "config_missing"
	// KindTransport is a connection-level failure. It is terminal so that
	// real outages are not masked behind format-fallback noise.
	KindTransport ErrorKind = "transport"
	// KindAPIError is a structured error returned by the provider. An
	// explicit server error is authoritative and stops the ladder.
	KindAPIError ErrorKind = "api_error"
	// KindContentBlocked means a safety, recitation or policy finish
	// reason. Blocking is not a format problem and is never retried.
	KindContentBlocked ErrorKind = "content_blocked"
	// KindNoText means a successful response carried no extractable text.
	// This is the only retryable kind; it advances the fallback ladder.
	KindNoText ErrorKind = "no_text"
	// KindExhausted means every endpoint version and payload shape was
	// tried without yielding text.
	KindExhausted ErrorKind = "format_exhausted"
)

// SummaryError is the typed failure produced by the negotiator.
type SummaryError struct {
	Kind    ErrorKind
	Message string
}

func (e *SummaryError) Error() string {
	return e.Message
}

// Terminal reports whether the failure should stop the fallback ladder.
func (e *SummaryError) Terminal() bool {
	return e.Kind != KindNoText
}
