package service

import (
	"context"
	"strings"
)

// letterVector embeds text as lowercase letter counts. Texts sharing letters
// land close together, which is enough to exercise ranking without a model.
func letterVector(text string) []float32 {
	vec := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec
}

type stubEmbedder struct {
	err    error
	failOn int // fail only on the nth call when set
	calls  int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil && (s.failOn == 0 || s.calls == s.failOn) {
		return nil, s.err
	}
	return letterVector(text), nil
}

type stubGenerator struct {
	answer  string
	err     error
	prompts []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}
