package fulfillment

import (
	"context"
	"errors"
	"testing"

	"flightbot/models"
	"flightbot/services/booking"
	"flightbot/services/conversation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*DefaultFulfillmentService, *conversation.MemoryContextStore, *prometheus.CounterVec) {
	store := conversation.NewMemoryContextStore()
	turns := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_turns"}, []string{"intent", "outcome"})
	return &DefaultFulfillmentService{Store: store, Lifespan: 5, Turns: turns}, store, turns
}

func TestFulfill_Welcome(t *testing.T) {
	svc, _, turns := newTestService()

	res, err := svc.Fulfill(context.Background(), "s1", Turn{Intent: IntentWelcome})
	require.NoError(t, err)
	assert.Equal(t, "Welcome! Would you like to book a flight?", res.Text)
	assert.Empty(t, res.StateLabel)
	assert.Equal(t, float64(1), testutil.ToFloat64(turns.WithLabelValues(IntentWelcome, OutcomeWelcome)))
}

func TestFulfill_BookingIntentsShareThePolicy(t *testing.T) {
	for _, intent := range []string{IntentBookFlight, IntentPassenger, IntentClass, IntentOrigin, IntentDestination, IntentBookingStep} {
		t.Run(intent, func(t *testing.T) {
			svc, store, _ := newTestService()
			raw := map[string]any{"origin": "NYC", "destination": "", "passengers": nil}

			res, err := svc.Fulfill(context.Background(), "s1", Turn{Intent: intent, Parameters: raw})
			require.NoError(t, err)
			assert.Equal(t, "Where is your destination?", res.Text)
			assert.Equal(t, "awaiting_destination", res.StateLabel)
			assert.Equal(t, "prompt", res.Outcome)

			sc, err := store.Get(context.Background(), "s1")
			require.NoError(t, err)
			assert.Equal(t, "awaiting_destination", sc.Label)
			assert.Equal(t, 5, sc.Lifespan)
			assert.Equal(t, "NYC", sc.Parameters["origin"])
		})
	}
}

func TestFulfill_ConfirmationQuestion(t *testing.T) {
	svc, _, turns := newTestService()
	raw := map[string]any{"origin": "NYC", "destination": "LON", "passengers": float64(2), "class": "Economy"}

	res, err := svc.Fulfill(context.Background(), "s1", Turn{Intent: IntentBookingStep, Parameters: raw})
	require.NoError(t, err)
	assert.Equal(t, "Confirm: NYC → LON, 2 passengers, Economy class. Correct?", res.Text)
	assert.Equal(t, booking.AwaitingConfirmation, res.StateLabel)
	assert.Equal(t, float64(1), testutil.ToFloat64(turns.WithLabelValues(IntentBookingStep, "confirmation")))
}

func TestFulfill_ConfirmationClearsContext(t *testing.T) {
	testCases := []struct {
		name     string
		signal   any
		expected string
	}{
		{"string true", "true", "Booking confirmed! 🎉"},
		{"json true", true, "Booking confirmed! 🎉"},
		{"capitalized", "True", "Booking canceled."},
		{"one", "1", "Booking canceled."},
		{"false", "false", "Booking canceled."},
		{"absent", nil, "Booking canceled."},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, _ := newTestService()
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "s1", &models.SessionContext{Label: booking.AwaitingConfirmation, Lifespan: 5}))

			res, err := svc.Fulfill(ctx, "s1", Turn{Intent: IntentConfirmation, Parameters: map[string]any{"confirmation": tc.signal}})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, res.Text)
			assert.Equal(t, "terminal", res.Outcome)
			assert.Empty(t, res.StateLabel)

			sc, err := store.Get(ctx, "s1")
			require.NoError(t, err)
			assert.False(t, sc.Active())
		})
	}
}

func TestFulfill_FallbackAgesContext(t *testing.T) {
	svc, store, turns := newTestService()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "s1", &models.SessionContext{Label: "awaiting_class", Lifespan: 2}))

	res, err := svc.Fulfill(ctx, "s1", Turn{Intent: "SmallTalk"})
	require.NoError(t, err)
	assert.Equal(t, "I didn’t understand that.", res.Text)

	sc, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, sc.Lifespan)

	_, err = svc.Fulfill(ctx, "s1", Turn{Intent: "SmallTalk"})
	require.NoError(t, err)
	sc, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, sc.Active())

	assert.Equal(t, float64(2), testutil.ToFloat64(turns.WithLabelValues("other", OutcomeFallback)))
}

type failingStore struct{ conversation.MemoryContextStore }

func (*failingStore) Set(context.Context, string, *models.SessionContext) error {
	return errors.New("redis down")
}

func TestFulfill_StoreErrorStillReturnsReply(t *testing.T) {
	svc := &DefaultFulfillmentService{Store: &failingStore{}, Lifespan: 5}

	res, err := svc.Fulfill(context.Background(), "s1", Turn{Intent: IntentBookFlight})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "awaiting_origin", res.StateLabel)
}

func TestNormalizeParameters(t *testing.T) {
	params := NormalizeParameters(map[string]any{
		"origin":      "NYC",
		"destination": []any{"", "LON"},
		"passengers":  map[string]any{"amount": float64(3)},
		"class":       false,
		"zero":        float64(0),
		"flag":        true,
		"null":        nil,
	})
	assert.Equal(t, booking.Parameters{
		"origin":      "NYC",
		"destination": "LON",
		"passengers":  "3",
		"class":       "",
		"zero":        "",
		"flag":        "true",
		"null":        "",
	}, params)

	assert.Empty(t, NormalizeParameters(nil))
}

type recordingPublisher struct {
	published []models.ConfirmedBooking
	err       error
}

func (r *recordingPublisher) Publish(_ context.Context, b models.ConfirmedBooking) error {
	r.published = append(r.published, b)
	return r.err
}

func TestFulfill_ConfirmedBookingIsHandedOff(t *testing.T) {
	svc, store, _ := newTestService()
	pub := &recordingPublisher{}
	svc.Bookings = pub
	ctx := context.Background()

	_, err := svc.Fulfill(ctx, "s1", Turn{Intent: IntentBookingStep, Parameters: map[string]any{
		"origin": "NYC", "destination": "LON", "passengers": float64(2), "class": "Economy",
	}})
	require.NoError(t, err)

	_, err = svc.Fulfill(ctx, "s1", Turn{Intent: IntentConfirmation, Parameters: map[string]any{"confirmation": true}})
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	b := pub.published[0]
	assert.Equal(t, "s1", b.SessionID)
	assert.Equal(t, "NYC", b.Origin)
	assert.Equal(t, "LON", b.Destination)
	assert.Equal(t, "2", b.Passengers)
	assert.Equal(t, "Economy", b.Class)
	assert.False(t, b.ConfirmedAt.IsZero())

	sc, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, sc.Active())
}

func TestFulfill_HandOffSkipsCanceledAndIncomplete(t *testing.T) {
	svc, store, _ := newTestService()
	pub := &recordingPublisher{}
	svc.Bookings = pub
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "s1", &models.SessionContext{
		Label: booking.AwaitingConfirmation, Lifespan: 5,
		Parameters: map[string]string{"origin": "NYC", "destination": "LON", "passengers": "2", "class": "Economy"},
	}))
	_, err := svc.Fulfill(ctx, "s1", Turn{Intent: IntentConfirmation, Parameters: map[string]any{"confirmation": "false"}})
	require.NoError(t, err)

	_, err = svc.Fulfill(ctx, "s2", Turn{Intent: IntentConfirmation, Parameters: map[string]any{"confirmation": "true"}})
	require.NoError(t, err)

	assert.Empty(t, pub.published)
}

func TestFulfill_HandOffErrorStillClearsContext(t *testing.T) {
	svc, store, _ := newTestService()
	svc.Bookings = &recordingPublisher{err: errors.New("queue down")}
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "s1", &models.SessionContext{
		Label: booking.AwaitingConfirmation, Lifespan: 5,
		Parameters: map[string]string{"origin": "NYC", "destination": "LON", "passengers": "2", "class": "Economy"},
	}))

	res, err := svc.Fulfill(ctx, "s1", Turn{Intent: IntentConfirmation, Parameters: map[string]any{"confirmation": "true"}})
	require.Error(t, err)
	assert.Equal(t, "Booking confirmed! 🎉", res.Text)

	sc, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, sc.Active())
}
