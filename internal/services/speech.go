package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hireflow/internal/apperr"
)

// TTS output format: raw PCM, 24kHz, 16-bit, mono.
const (
	pcmSampleRate     = 24000
	pcmBytesPerSample = 2
	pcmMIMEType       = "audio/pcm;rate=24000"
)

// Narration is synthesized speech plus the metadata the playback protocol
// needs (duration drives word-highlight timing).
type Narration struct {
	Audio    []byte
	MIMEType string
	Duration time.Duration
}

// SpeechService converts text to spoken audio and captured audio to text.
// The server-mediated Gemini implementation is the primary one; a
// browser-native variant is just another implementation of this interface.
type SpeechService interface {
	Synthesize(ctx context.Context, text string) (*Narration, error)
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type geminiSpeechService struct {
	geminiService GeminiService
}

func NewSpeechService(geminiService GeminiService) SpeechService {
	return &geminiSpeechService{geminiService: geminiService}
}

// Synthesize implements SpeechService.
func (s *geminiSpeechService) Synthesize(ctx context.Context, text string) (*Narration, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("narration text must not be empty")
	}

	audio, err := s.geminiService.GenerateSpeech(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize narration: %w", err)
	}

	return &Narration{
		Audio:    audio,
		MIMEType: pcmMIMEType,
		Duration: pcmDuration(len(audio)),
	}, nil
}

// Transcribe implements SpeechService.
func (s *geminiSpeechService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", apperr.Validation("audio payload must not be empty")
	}
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	text, err := s.geminiService.GenerateWithFile(ctx, TranscriptionPrompt, audio, mimeType, 0)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty transcription", apperr.ErrMalformedResponse)
	}

	return text, nil
}

// pcmDuration computes playback duration from the raw PCM byte length.
func pcmDuration(byteLen int) time.Duration {
	if byteLen <= 0 {
		return 0
	}
	samples := byteLen / pcmBytesPerSample
	return time.Duration(samples) * time.Second / pcmSampleRate
}
