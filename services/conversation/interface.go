package conversation

import (
	"context"

	"flightbot/models"
)

// ContextStore persists the conversation state of each session.
type ContextStore interface {
	// Get returns the stored context, or an empty one when the session is unknown.
	Get(ctx context.Context, sessionID string) (*models.SessionContext, error)
	Set(ctx context.Context, sessionID string, sc *models.SessionContext) error
	Clear(ctx context.Context, sessionID string) error
}

// Age consumes one turn of the context's lifespan without rewriting its label.
// It returns nil once the lifespan is exhausted, meaning the context expired.
func Age(sc *models.SessionContext) *models.SessionContext {
	if !sc.Active() {
		return nil
	}
	aged := *sc
	aged.Lifespan--
	if aged.Lifespan <= 0 {
		return nil
	}
	return &aged
}

// ActiveParameters returns the parameters of a live context, or nil when the
// context is missing or expired.
func ActiveParameters(sc *models.SessionContext) map[string]string {
	if !sc.Active() {
		return nil
	}
	return sc.Parameters
}
