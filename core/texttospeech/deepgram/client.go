// Package deepgram synthesizes utterances with Deepgram's streaming speak
// API. Every utterance gets its own websocket bound to the utterance's voice.
package deepgram

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-assist/core/texttospeech"
	"github.com/koscakluka/ema-assist/core/voice"
)

const defaultEndpoint = "wss://api.deepgram.com/v1/speak"

var (
	ErrMissingAPIKey = errors.New("deepgram api key not found")
	ErrUnknownVoice  = errors.New("invalid voice")
)

type TextToSpeechClient struct {
	apiKey   string
	endpoint *url.URL
	dialer   *websocket.Dialer
	options  []texttospeech.TextToSpeechOption
}

type ClientOption func(*TextToSpeechClient)

// WithEndpoint points the client at a different speak endpoint.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *TextToSpeechClient) {
		if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
			c.endpoint = parsed
		}
	}
}

func WithDialer(dialer *websocket.Dialer) ClientOption {
	return func(c *TextToSpeechClient) {
		if dialer != nil {
			c.dialer = dialer
		}
	}
}

// WithDefaultOptions applies opts to every utterance before the per-call
// options.
func WithDefaultOptions(opts ...texttospeech.TextToSpeechOption) ClientOption {
	return func(c *TextToSpeechClient) {
		c.options = append(c.options, opts...)
	}
}

// NewTextToSpeechClient creates a client authenticated with apiKey, or with
// DEEPGRAM_API_KEY when apiKey is empty.
func NewTextToSpeechClient(apiKey string, opts ...ClientOption) (*TextToSpeechClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY"))
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint, _ := url.Parse(defaultEndpoint)
	client := &TextToSpeechClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		dialer:   websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func validateVoice(v voice.Voice) error {
	if !IsAvailableVoice(v) {
		return fmt.Errorf("%w %q", ErrUnknownVoice, v)
	}
	return nil
}
