package booking

// Slot identifies one booking parameter the dialogue must collect.
type Slot int

const (
	SlotOrigin Slot = iota
	SlotDestination
	SlotPassengers
	SlotClass
)

// slotOrder is the fixed priority in which missing slots are requested.
var slotOrder = [...]Slot{SlotOrigin, SlotDestination, SlotPassengers, SlotClass}

var slotNames = map[Slot]string{
	SlotOrigin:      "origin",
	SlotDestination: "destination",
	SlotPassengers:  "passengers",
	SlotClass:       "class",
}

// String returns the parameter key of the slot.
func (s Slot) String() string {
	if name, ok := slotNames[s]; ok {
		return name
	}
	return "unknown"
}

// StateLabel returns the conversation-state label used while the slot is being asked for.
func (s Slot) StateLabel() string {
	return "awaiting_" + s.String()
}

// Slots returns the recognized slots in priority order.
func Slots() []Slot {
	return slotOrder[:]
}

// ParseSlot maps a parameter key to its slot.
func ParseSlot(name string) (Slot, bool) {
	for _, s := range slotOrder {
		if slotNames[s] == name {
			return s, true
		}
	}
	return 0, false
}

// Parameters is the accumulated set of booking values keyed by slot name.
// An absent key and an empty value both mean the slot has not been provided.
type Parameters map[string]string

// Get returns the value stored for the slot, or "" when it is missing.
// Reading a nil Parameters is safe and behaves like an empty map.
func (p Parameters) Get(s Slot) string {
	return p[s.String()]
}

// NextMissingSlot returns the first unfilled slot in priority order.
// The boolean is false once every slot holds a value. Keys that do not name
// a slot are ignored, and a nil map is treated as empty.
func NextMissingSlot(p Parameters) (Slot, bool) {
	for _, s := range slotOrder {
		if p.Get(s) == "" {
			return s, true
		}
	}
	return 0, false
}
