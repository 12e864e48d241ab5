package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hireflow/internal/apperr"
)

func TestPCMDuration(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		want    time.Duration
	}{
		{"one second", 48000, time.Second},
		{"half second", 24000, 500 * time.Millisecond},
		{"empty", 0, 0},
		{"negative", -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pcmDuration(tt.byteLen); got != tt.want {
				t.Errorf("pcmDuration(%d) = %v, want %v", tt.byteLen, got, tt.want)
			}
		})
	}
}

func TestSynthesizeComputesDuration(t *testing.T) {
	gemini := &stubGemini{
		speechFn: func(text string) ([]byte, error) {
			return make([]byte, 48000), nil
		},
	}
	svc := NewSpeechService(gemini)

	narration, err := svc.Synthesize(context.Background(), "Welcome to the interview.")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if narration.Duration != time.Second {
		t.Errorf("duration = %v, want 1s", narration.Duration)
	}
	if narration.MIMEType != pcmMIMEType {
		t.Errorf("mime type = %q, want %q", narration.MIMEType, pcmMIMEType)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	svc := NewSpeechService(&stubGemini{})

	_, err := svc.Synthesize(context.Background(), "   ")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("error = %v, want validation error", err)
	}
}

func TestTranscribe(t *testing.T) {
	gemini := &stubGemini{
		fileFn: func(prompt string, data []byte, mimeType string) (string, error) {
			if mimeType != "audio/webm" {
				t.Errorf("mime type = %q, want default audio/webm", mimeType)
			}
			return "  hello world  ", nil
		},
	}
	svc := NewSpeechService(gemini)

	text, err := svc.Transcribe(context.Background(), []byte{1, 2, 3}, "")
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if text != "hello world" {
		t.Errorf("transcript = %q, want trimmed text", text)
	}

	if _, err := svc.Transcribe(context.Background(), nil, ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("empty audio error = %v, want validation error", err)
	}
}
