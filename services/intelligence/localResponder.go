package intelligence

import (
	"context"
	"fmt"

	"flightbot/services/conversation"
	"flightbot/services/fulfillment"

	"go.uber.org/zap"
)

// LocalResponder runs the dialogue in-process: it classifies each message,
// merges the extracted entities into the parameters stored for the session
// and fulfills the turn itself.
type LocalResponder struct {
	classifier  Classifier
	fulfillment fulfillment.FulfillmentService
	store       conversation.ContextStore
	logger      *zap.Logger
}

func NewLocalResponder(classifier Classifier, svc fulfillment.FulfillmentService, store conversation.ContextStore, logger *zap.Logger) *LocalResponder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalResponder{classifier: classifier, fulfillment: svc, store: store, logger: logger}
}

func (r *LocalResponder) Respond(ctx context.Context, sessionID, text string) (string, error) {
	// 1) Load the session context
	sc, err := r.store.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load context: %w", err)
	}
	var label string
	if sc.Active() {
		label = sc.Label
	}

	// 2) Classify the message against the state being waited on
	classification, err := r.classifier.Classify(ctx, text, label)
	if err != nil {
		return "", err
	}

	// 3) Entities from this turn override what was collected before
	params := make(map[string]any)
	for k, v := range conversation.ActiveParameters(sc) {
		params[k] = v
	}
	for k, v := range fulfillment.NormalizeParameters(classification.Parameters) {
		if v != "" {
			params[k] = v
		}
	}

	// 4) Fulfill and persist
	res, err := r.fulfillment.Fulfill(ctx, sessionID, fulfillment.Turn{
		Intent:     classification.Intent,
		Parameters: params,
	})
	if err != nil {
		if res == nil {
			return "", err
		}
		// The reply is already decided; only the bookkeeping behind it failed.
		r.logger.Warn("Turn fulfilled with errors", zap.String("session", sessionID), zap.Error(err))
	}
	return res.Text, nil
}
