package models

// Intent is the classified intent attached to a query result.
type Intent struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName"`
}

// OutputContext is a Dialogflow context carried between turns.
type OutputContext struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// QueryResult is the NLU result Dialogflow forwards to the webhook.
type QueryResult struct {
	QueryText      string          `json:"queryText"`
	Parameters     map[string]any  `json:"parameters"`
	Intent         Intent          `json:"intent"`
	OutputContexts []OutputContext `json:"outputContexts,omitempty"`
	LanguageCode   string          `json:"languageCode,omitempty"`
}

// WebhookRequest is the Dialogflow ES fulfillment request body.
type WebhookRequest struct {
	ResponseID  string      `json:"responseId"`
	Session     string      `json:"session" binding:"required"`
	QueryResult QueryResult `json:"queryResult"`
}

// WebhookResponse is the fulfillment reply returned to Dialogflow.
type WebhookResponse struct {
	FulfillmentText string          `json:"fulfillmentText"`
	OutputContexts  []OutputContext `json:"outputContexts,omitempty"`
}
