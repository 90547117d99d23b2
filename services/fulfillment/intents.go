package fulfillment

// Intent display names configured on the NLU agent.
const (
	IntentWelcome      = "Default Welcome Intent"
	IntentBookFlight   = "BookFlight"
	IntentPassenger    = "PassengerIntent"
	IntentClass        = "ClassIntent"
	IntentOrigin       = "OriginIntent"
	IntentDestination  = "DestinationIntent"
	IntentBookingStep  = "BookingStep"
	IntentConfirmation = "Confirmation"
)

const (
	WelcomeText  = "Welcome! Would you like to book a flight?"
	FallbackText = "I didn’t understand that."
)

// Outcome labels reported in results and metrics.
const (
	OutcomeWelcome  = "welcome"
	OutcomeFallback = "fallback"
)

var bookingIntents = map[string]bool{
	IntentBookFlight:  true,
	IntentPassenger:   true,
	IntentClass:       true,
	IntentOrigin:      true,
	IntentDestination: true,
	IntentBookingStep: true,
}

// IsBookingIntent reports whether the intent advances the slot-filling flow.
func IsBookingIntent(intent string) bool {
	return bookingIntents[intent]
}

// KnownIntents lists every intent the fulfillment routes, in a stable order.
func KnownIntents() []string {
	return []string{
		IntentWelcome,
		IntentBookFlight,
		IntentOrigin,
		IntentDestination,
		IntentPassenger,
		IntentClass,
		IntentBookingStep,
		IntentConfirmation,
	}
}
