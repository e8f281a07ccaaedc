package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-assist/core/audio"
	"github.com/koscakluka/ema-assist/core/texttospeech"
	"github.com/koscakluka/ema-assist/core/voice"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Synthesize speaks text in the utterance's voice and returns once Deepgram
// confirms all audio for it has been sent.
func (c *TextToSpeechClient) Synthesize(ctx context.Context, utterance voice.Utterance, text string, opts ...texttospeech.TextToSpeechOption) (err error) {
	ctx, span := tracer.Start(ctx, "synthesize utterance")
	defer span.End()
	span.SetAttributes(
		attribute.String("voice", string(utterance.Voice)),
		attribute.Int64("utterance.seq", int64(utterance.Seq)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if err := validateVoice(utterance.Voice); err != nil {
		return err
	}
	options := texttospeech.ApplyOptions(append(c.options, opts...)...)

	conn, err := c.connectWebsocket(ctx, utterance.Voice, options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}
	req := &streamingRequest{ws: conn}
	defer req.Close()

	stop := context.AfterFunc(ctx, func() { _ = req.Cancel() })
	defer stop()

	if err := req.send(speakMsg(text)); err != nil {
		return fmt.Errorf("failed to send text: %w", err)
	}
	if err := req.send(flushMsg); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	err = req.receive(ctx, options)
	if err != nil && ctx.Err() != nil {
		options.ErrorCallback(ctx.Err())
		return ctx.Err()
	}
	return err
}

func (c *TextToSpeechClient) connectWebsocket(ctx context.Context, v voice.Voice, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	urlValues := c.endpoint.Query()
	urlValues.Set("encoding", encodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(encodingInfo.SampleRate))
	urlValues.Set("model", string(v))
	urlValues.Set("container", "none")

	endpoint := *c.endpoint
	endpoint.RawQuery = urlValues.Encode()

	conn, resp, err := c.dialer.DialContext(ctx, endpoint.String(),
		http.Header{"Authorization": {"token " + c.apiKey}})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}
	return conn, nil
}

type streamingRequest struct {
	ws *websocket.Conn
	mu sync.Mutex

	closed bool
}

func (r *streamingRequest) receive(ctx context.Context, options texttospeech.TextToSpeechOptions) error {
	for {
		msgType, msg, err := r.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("websocket read failed: %w", err)
		}

		switch msgType {
		case websocket.BinaryMessage:
			options.SpeechAudioCallback(msg)
		case websocket.TextMessage:
			var parsedMsg struct {
				Type        string `json:"type"`
				Description string `json:"description"`
			}
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				logger.WarnContext(ctx, "failed to decode deepgram message", "error", err)
				continue
			}

			switch parsedMsg.Type {
			case "Flushed":
				return nil
			case "Warning":
				logger.WarnContext(ctx, "deepgram warning", "description", parsedMsg.Description)
			case "Error":
				return fmt.Errorf("deepgram error: %s", parsedMsg.Description)
			}
		}
	}
}

// Cancel asks Deepgram to drop buffered text and closes the connection,
// which unblocks a pending read.
func (r *streamingRequest) Cancel() error {
	_ = r.send(clearMsg)
	return r.Close()
}

func (r *streamingRequest) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	writeErr := r.ws.WriteJSON(closeMsg)
	if closeErr := r.ws.Close(); closeErr != nil {
		return fmt.Errorf("failed to close websocket: %w", errors.Join(writeErr, closeErr))
	}
	return nil
}

type websocketMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

var (
	flushMsg = websocketMessage{Type: "Flush"}
	clearMsg = websocketMessage{Type: "Clear"}
	closeMsg = websocketMessage{Type: "Close"}
)

func speakMsg(text string) websocketMessage {
	return websocketMessage{Type: "Speak", Text: text}
}

func (r *streamingRequest) send(msg websocketMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.ws == nil {
		return fmt.Errorf("websocket connection closed")
	}
	if err := r.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to websocket: %w", err)
	}
	return nil
}
