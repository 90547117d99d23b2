package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightbot/models"
	"flightbot/services/booking"
	"flightbot/services/conversation"

	"go.uber.org/zap"
)

func (s *DefaultFulfillmentService) Fulfill(ctx context.Context, sessionID string, turn Turn) (*Result, error) {
	var (
		res *Result
		err error
	)

	switch {
	case turn.Intent == IntentWelcome:
		res = &Result{Text: WelcomeText, Outcome: OutcomeWelcome}
		err = s.age(ctx, sessionID)

	case IsBookingIntent(turn.Intent):
		params := NormalizeParameters(turn.Parameters)
		out := booking.Decide(params)
		res = &Result{
			Text:       out.Text,
			Outcome:    out.Kind.String(),
			StateLabel: out.StateLabel,
			Parameters: params,
		}
		err = s.Store.Set(ctx, sessionID, &models.SessionContext{
			Label:      out.StateLabel,
			Parameters: params,
			Lifespan:   s.Lifespan,
		})

	case turn.Intent == IntentConfirmation:
		confirmed := ParseConfirmation(turn.Parameters["confirmation"])
		out := booking.ResolveConfirmation(confirmed)
		res = &Result{Text: out.Text, Outcome: out.Kind.String()}
		if confirmed {
			err = s.handOff(ctx, sessionID, NormalizeParameters(turn.Parameters))
		}
		err = errors.Join(err, s.Store.Clear(ctx, sessionID))

	default:
		res = &Result{Text: FallbackText, Outcome: OutcomeFallback}
		err = s.age(ctx, sessionID)
	}

	if s.Turns != nil {
		s.Turns.WithLabelValues(metricIntent(turn.Intent), res.Outcome).Inc()
	}
	if s.Logger != nil {
		s.Logger.Debug("Turn fulfilled",
			zap.String("session", sessionID),
			zap.String("intent", turn.Intent),
			zap.String("outcome", res.Outcome),
			zap.String("state", res.StateLabel),
		)
	}
	if err != nil {
		return res, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return res, nil
}

// handOff publishes the confirmed itinerary. Slots the confirmation turn does
// not carry are taken from the stored context.
func (s *DefaultFulfillmentService) handOff(ctx context.Context, sessionID string, turnParams booking.Parameters) error {
	if s.Bookings == nil {
		return nil
	}
	sc, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	params := booking.Parameters{}
	for k, v := range sc.Parameters {
		params[k] = v
	}
	for k, v := range turnParams {
		if v != "" {
			params[k] = v
		}
	}
	if _, missing := booking.NextMissingSlot(params); missing {
		if s.Logger != nil {
			s.Logger.Warn("Confirmed booking is incomplete, not handing off", zap.String("session", sessionID))
		}
		return nil
	}

	b := models.ConfirmedBooking{
		SessionID:   sessionID,
		Origin:      params.Get(booking.SlotOrigin),
		Destination: params.Get(booking.SlotDestination),
		Passengers:  params.Get(booking.SlotPassengers),
		Class:       params.Get(booking.SlotClass),
		ConfirmedAt: time.Now().UTC(),
	}
	if err := s.Bookings.Publish(ctx, b); err != nil {
		return fmt.Errorf("hand off booking: %w", err)
	}
	return nil
}

// age consumes one turn of lifespan from a context that this turn did not refresh.
func (s *DefaultFulfillmentService) age(ctx context.Context, sessionID string) error {
	sc, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !sc.Active() {
		return nil
	}
	if aged := conversation.Age(sc); aged != nil {
		return s.Store.Set(ctx, sessionID, aged)
	}
	return s.Store.Clear(ctx, sessionID)
}

// metricIntent keeps the intent label cardinality bounded.
func metricIntent(intent string) string {
	for _, known := range KnownIntents() {
		if intent == known {
			return intent
		}
	}
	return "other"
}
