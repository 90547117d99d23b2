package intelligence

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
)

// SpeechTranscriber wraps the Google Speech-to-Text client.
type SpeechTranscriber struct {
	client *speech.Client
}

// NewSpeechTranscriber creates a speech client. An empty keyFile falls back to
// application default credentials.
func NewSpeechTranscriber(ctx context.Context, keyFile string) (*SpeechTranscriber, error) {
	var opts []option.ClientOption
	if keyFile != "" {
		opts = append(opts, option.WithCredentialsFile(keyFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	return &SpeechTranscriber{client: client}, nil
}

func (s *SpeechTranscriber) Transcribe(ctx context.Context, audio []byte, sampleRate int32, languageCode string) (string, error) {
	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   sampleRate,
			LanguageCode:      languageCode,
			AudioChannelCount: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := s.client.Recognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			transcript.WriteString(result.Alternatives[0].Transcript + " ")
		}
	}
	return strings.TrimSpace(transcript.String()), nil
}

func (s *SpeechTranscriber) Close() error {
	return s.client.Close()
}
