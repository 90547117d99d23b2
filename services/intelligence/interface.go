package intelligence

import (
	"context"

	"flightbot/models"
)

// Responder turns a free-text user message into the bot's reply.
type Responder interface {
	Respond(ctx context.Context, sessionID, text string) (string, error)
}

// Classifier extracts the intent and entities of one utterance. stateLabel is
// the label the conversation is waiting on, or "" outside a booking.
type Classifier interface {
	Classify(ctx context.Context, text, stateLabel string) (*models.Classification, error)
}

// Transcriber converts LINEAR16 audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, sampleRate int32, languageCode string) (string, error)
}

// textGenerator is the slice of an LLM client the classifier needs.
type textGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
