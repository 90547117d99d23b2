package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"flightbot/models"
	"flightbot/services/booking"
	"flightbot/services/fulfillment"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"
)

// LLMClassifier classifies utterances by prompting a generative model for a
// JSON object {"intent": ..., "parameters": {...}}.
type LLMClassifier struct {
	gen      textGenerator
	requests *prometheus.CounterVec
}

func NewLLMClassifier(gen textGenerator, requests *prometheus.CounterVec) *LLMClassifier {
	return &LLMClassifier{gen: gen, requests: requests}
}

func buildClassifierPrompt(text, stateLabel string) string {
	var slotKeys []string
	for _, s := range booking.Slots() {
		slotKeys = append(slotKeys, s.String())
	}

	var sb strings.Builder
	sb.WriteString("You classify messages sent to a flight booking assistant.\n")
	sb.WriteString("Reply with a single JSON object: {\"intent\": string, \"parameters\": object}.\n\n")
	sb.WriteString("Intents:\n")
	fmt.Fprintf(&sb, "- %q: a greeting or a conversation opener.\n", fulfillment.IntentWelcome)
	fmt.Fprintf(&sb, "- %q: the user wants to book a flight or supplies booking details.\n", fulfillment.IntentBookFlight)
	fmt.Fprintf(&sb, "- %q: the user answers the confirmation question; set parameters.confirmation to \"true\" for yes and \"false\" for no.\n", fulfillment.IntentConfirmation)
	sb.WriteString("- \"Fallback\": anything else.\n\n")
	fmt.Fprintf(&sb, "Parameter keys for booking details: %s. Use the city or airport name as written, the passenger count as digits and the class as Economy or Business. Omit keys the message does not mention.\n", strings.Join(slotKeys, ", "))
	if stateLabel != "" {
		fmt.Fprintf(&sb, "The assistant is currently %s.\n", strings.ReplaceAll(stateLabel, "_", " "))
		if stateLabel == booking.AwaitingConfirmation {
			sb.WriteString("A yes/no style answer is a Confirmation.\n")
		} else {
			sb.WriteString("A bare value answers the question being asked and is a BookFlight.\n")
		}
	}
	fmt.Fprintf(&sb, "\nMessage: %q\n", text)
	return sb.String()
}

// parseClassification reads the first JSON object in an LLM reply.
func parseClassification(reply string) (*models.Classification, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return nil, errors.New("classifier reply contains no JSON object")
	}
	raw := reply[start : end+1]
	if !gjson.Valid(raw) {
		return nil, errors.New("classifier reply is not valid JSON")
	}

	result := gjson.Parse(raw)
	c := &models.Classification{
		Intent:     strings.TrimSpace(result.Get("intent").String()),
		Parameters: map[string]any{},
	}
	result.Get("parameters").ForEach(func(key, value gjson.Result) bool {
		c.Parameters[key.String()] = value.Value()
		return true
	})
	return c, nil
}

func (c *LLMClassifier) Classify(ctx context.Context, text, stateLabel string) (*models.Classification, error) {
	reply, err := c.gen.GenerateContent(ctx, buildClassifierPrompt(text, stateLabel))
	if err != nil {
		c.observe("error")
		return nil, fmt.Errorf("classify message: %w", err)
	}
	classification, err := parseClassification(reply)
	if err != nil {
		c.observe("invalid")
		return nil, err
	}
	c.observe("ok")
	return classification, nil
}

func (c *LLMClassifier) observe(status string) {
	if c.requests != nil {
		c.requests.WithLabelValues("gemini", status).Inc()
	}
}
