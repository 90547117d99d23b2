package fulfillment

import (
	"fmt"
	"math"
	"strconv"

	"flightbot/services/booking"
)

// NormalizeParameters converts raw NLU parameter values into booking
// parameters. Values that carry no information (null, "", 0, false, empty
// lists) become empty strings, which the dialogue treats as missing.
// A nil map yields an empty Parameters.
func NormalizeParameters(raw map[string]any) booking.Parameters {
	params := make(booking.Parameters, len(raw))
	for k, v := range raw {
		params[k] = stringify(v)
	}
	return params
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return ""
	case float64:
		if val == 0 || math.IsNaN(val) {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		if val == 0 {
			return ""
		}
		return strconv.Itoa(val)
	case []any:
		// List entities: the first non-empty value wins.
		for _, item := range val {
			if s := stringify(item); s != "" {
				return s
			}
		}
		return ""
	case map[string]any:
		// Composite numbers such as {"amount": 2, "unit": "..."}.
		if amount, ok := val["amount"]; ok {
			return stringify(amount)
		}
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// ParseConfirmation normalizes the raw confirmation signal. Only a JSON true or
// the exact string "true" confirm; every other value, including "True" and
// "1", cancels the booking.
func ParseConfirmation(raw any) bool {
	switch val := raw.(type) {
	case bool:
		return val
	case string:
		return val == "true"
	default:
		return false
	}
}
