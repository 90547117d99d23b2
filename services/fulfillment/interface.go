package fulfillment

import (
	"context"

	"flightbot/models"
	"flightbot/services/booking"
	"flightbot/services/conversation"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Result is the reply produced for one fulfilled turn.
type Result struct {
	Text       string
	Outcome    string
	StateLabel string
	Parameters booking.Parameters
}

// FulfillmentService routes a classified turn to the dialogue policy.
type FulfillmentService interface {
	// Fulfill always returns a result. A non-nil error means the reply was
	// computed but the session context could not be persisted or the
	// confirmed booking could not be handed off.
	Fulfill(ctx context.Context, sessionID string, turn Turn) (*Result, error)
}

// Turn is a classified utterance with its raw NLU parameters.
type Turn struct {
	Intent     string
	Parameters map[string]any
}

// BookingPublisher receives bookings the user confirmed.
type BookingPublisher interface {
	Publish(ctx context.Context, b models.ConfirmedBooking) error
}

// DefaultFulfillmentService implements FulfillmentService.
type DefaultFulfillmentService struct {
	Store    conversation.ContextStore
	Lifespan int
	Bookings BookingPublisher // optional
	Turns    *prometheus.CounterVec
	Logger   *zap.Logger
}
