// Package texttospeech turns narrated tool results into speech, one
// utterance at a time, in the voice the utterance started with.
package texttospeech

import "github.com/koscakluka/ema-assist/core/audio"

type TextToSpeechOptions struct {
	// SpeechAudioCallback is called for every chunk of synthesized audio, in
	// order.
	SpeechAudioCallback func(audio []byte)
	// ErrorCallback is called when synthesis stops early, usually because
	// the utterance was cancelled.
	ErrorCallback func(error)

	EncodingInfo audio.EncodingInfo
}

type TextToSpeechOption func(*TextToSpeechOptions)

// DefaultOptions has no-op callbacks and the default encoding.
func DefaultOptions() TextToSpeechOptions {
	return TextToSpeechOptions{
		SpeechAudioCallback: func([]byte) {},
		ErrorCallback:       func(error) {},
		EncodingInfo:        audio.GetDefaultEncodingInfo(),
	}
}

func ApplyOptions(opts ...TextToSpeechOption) TextToSpeechOptions {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func WithSpeechAudioCallback(callback func([]byte)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		if callback != nil {
			o.SpeechAudioCallback = callback
		}
	}
}

func WithErrorCallback(callback func(error)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		if callback != nil {
			o.ErrorCallback = callback
		}
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		if encodingInfo.Validate() != nil {
			return
		}
		o.EncodingInfo = encodingInfo
	}
}
