package models

// SessionContext is the conversation state kept per session between turns.
type SessionContext struct {
	Label      string            `json:"label,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Lifespan   int               `json:"lifespan"`
}

// Active reports whether the stored label is still valid.
func (s *SessionContext) Active() bool {
	return s != nil && s.Label != "" && s.Lifespan > 0
}

// ChatEnvelope is the frame exchanged over the chat WebSocket.
type ChatEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// ChatError is the payload of an "error" envelope.
type ChatError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// VoiceChatResponse is returned by the voice chat endpoint.
type VoiceChatResponse struct {
	SessionID     string `json:"session_id"`
	Transcription string `json:"transcription"`
	Response      string `json:"response"`
}

// Classification is the intent and entities an NLU classifier extracted from
// one utterance.
type Classification struct {
	Intent     string         `json:"intent"`
	Parameters map[string]any `json:"parameters"`
}
