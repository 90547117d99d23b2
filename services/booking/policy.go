package booking

import "fmt"

// AwaitingConfirmation is the state label attached once every slot is filled.
const AwaitingConfirmation = "awaiting_confirmation"

const (
	confirmedText = "Booking confirmed! 🎉"
	canceledText  = "Booking canceled."
)

// OutcomeKind tells the caller what a turn resolved to.
type OutcomeKind int

const (
	// OutcomePrompt asks the user for the next missing slot.
	OutcomePrompt OutcomeKind = iota
	// OutcomeConfirmation asks the user to confirm the collected booking.
	OutcomeConfirmation
	// OutcomeTerminal closes the conversation; it carries no state label.
	OutcomeTerminal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePrompt:
		return "prompt"
	case OutcomeConfirmation:
		return "confirmation"
	case OutcomeTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Outcome is the reply the dialogue produces for one turn.
type Outcome struct {
	Kind       OutcomeKind
	Text       string
	StateLabel string
}

// prompts holds the question asked for each missing slot.
//
// The origin prompt asks for origin and destination in one sentence. The NLU
// agent is expected to fill both entities from a single reply; when it only
// fills origin the next turn asks for the destination separately.
var prompts = map[Slot]string{
	SlotOrigin:      "Where are you flying from and where would you like to go?",
	SlotDestination: "Where is your destination?",
	SlotPassengers:  "How many passengers are traveling and in which class would you prefer?",
	SlotClass:       "Which class? (Economy/Business)",
}

// Prompt returns the question asked when the slot is missing.
func Prompt(s Slot) string {
	return prompts[s]
}

// Decide picks the reply for a turn carrying the given parameters: a prompt for
// the next missing slot, or a confirmation question once all slots are filled.
// A nil map is treated as empty, so the first slot is requested.
func Decide(p Parameters) Outcome {
	if slot, missing := NextMissingSlot(p); missing {
		return Outcome{
			Kind:       OutcomePrompt,
			Text:       Prompt(slot),
			StateLabel: slot.StateLabel(),
		}
	}
	return Outcome{
		Kind: OutcomeConfirmation,
		Text: fmt.Sprintf("Confirm: %s → %s, %s passengers, %s class. Correct?",
			p.Get(SlotOrigin), p.Get(SlotDestination), p.Get(SlotPassengers), p.Get(SlotClass)),
		StateLabel: AwaitingConfirmation,
	}
}

// ResolveConfirmation closes the conversation after the user answered the
// confirmation question.
func ResolveConfirmation(confirmed bool) Outcome {
	if confirmed {
		return Outcome{Kind: OutcomeTerminal, Text: confirmedText}
	}
	return Outcome{Kind: OutcomeTerminal, Text: canceledText}
}
