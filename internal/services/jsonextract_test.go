package services

import (
	"errors"
	"testing"

	"hireflow/internal/apperr"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "bare object",
			input:  `{"a": 1}`,
			want:   `{"a": 1}`,
			wantOK: true,
		},
		{
			name:   "markdown fences",
			input:  "```json\n{\"a\": 1}\n```",
			want:   "{\"a\": 1}",
			wantOK: true,
		},
		{
			name:   "surrounding prose",
			input:  `Here is the result: {"a": {"b": 2}} hope that helps!`,
			want:   `{"a": {"b": 2}}`,
			wantOK: true,
		},
		{
			name:   "braces inside strings",
			input:  `{"text": "use {curly} braces and a \" quote"}`,
			want:   `{"text": "use {curly} braces and a \" quote"}`,
			wantOK: true,
		},
		{
			name:   "no object",
			input:  "sorry, I cannot answer that",
			wantOK: false,
		},
		{
			name:   "unbalanced",
			input:  `{"a": 1`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("extracted %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseJSONResponse(t *testing.T) {
	var target struct {
		Score float64 `json:"score"`
	}

	if err := parseJSONResponse("```json\n{\"score\": 72.5}\n```", &target); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if target.Score != 72.5 {
		t.Fatalf("score = %v, want 72.5", target.Score)
	}

	err := parseJSONResponse("no json here", &target)
	if !errors.Is(err, apperr.ErrMalformedResponse) {
		t.Fatalf("error = %v, want malformed response", err)
	}

	err = parseJSONResponse(`{"score": "not a number"}`, &target)
	if !errors.Is(err, apperr.ErrMalformedResponse) {
		t.Fatalf("error = %v, want malformed response", err)
	}
}
