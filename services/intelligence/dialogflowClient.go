package intelligence

import (
	"context"
	"fmt"

	dialogflow "cloud.google.com/go/dialogflow/apiv2"
	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/option"
)

const noDialogflowResponse = "No response from Dialogflow"

type sessionsAPI interface {
	DetectIntent(ctx context.Context, req *dialogflowpb.DetectIntentRequest, opts ...gax.CallOption) (*dialogflowpb.DetectIntentResponse, error)
}

// DialogflowResponder forwards messages to a Dialogflow ES agent, which in
// turn calls the fulfillment webhook for booking intents.
type DialogflowResponder struct {
	sessions     sessionsAPI
	closer       func() error
	projectID    string
	languageCode string
	requests     *prometheus.CounterVec
}

// NewDialogflowResponder creates a sessions client. An empty keyFile falls back
// to application default credentials.
func NewDialogflowResponder(ctx context.Context, projectID, keyFile, languageCode string, requests *prometheus.CounterVec) (*DialogflowResponder, error) {
	var opts []option.ClientOption
	if keyFile != "" {
		opts = append(opts, option.WithCredentialsFile(keyFile))
	}
	client, err := dialogflow.NewSessionsClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create dialogflow sessions client: %w", err)
	}
	return &DialogflowResponder{
		sessions:     client,
		closer:       client.Close,
		projectID:    projectID,
		languageCode: languageCode,
		requests:     requests,
	}, nil
}

func (d *DialogflowResponder) sessionPath(sessionID string) string {
	return fmt.Sprintf("projects/%s/agent/sessions/%s", d.projectID, sessionID)
}

func (d *DialogflowResponder) Respond(ctx context.Context, sessionID, text string) (string, error) {
	req := &dialogflowpb.DetectIntentRequest{
		Session: d.sessionPath(sessionID),
		QueryInput: &dialogflowpb.QueryInput{
			Input: &dialogflowpb.QueryInput_Text{
				Text: &dialogflowpb.TextInput{Text: text, LanguageCode: d.languageCode},
			},
		},
	}

	resp, err := d.sessions.DetectIntent(ctx, req)
	if err != nil {
		d.observe("error")
		return "", fmt.Errorf("dialogflow detect intent: %w", err)
	}
	d.observe("ok")

	if reply := resp.GetQueryResult().GetFulfillmentText(); reply != "" {
		return reply, nil
	}
	return noDialogflowResponse, nil
}

func (d *DialogflowResponder) observe(status string) {
	if d.requests != nil {
		d.requests.WithLabelValues("dialogflow", status).Inc()
	}
}

func (d *DialogflowResponder) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer()
}
