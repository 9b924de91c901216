package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiService_RequiresAPIKeys(t *testing.T) {
	svc, err := NewGeminiService(nil, "gemini-1.5-pro", "embedding-001")
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "no API keys")
}

func TestNewOpenAIService(t *testing.T) {
	svc := NewOpenAIService("http://localhost:8081/v1", "sk-test", "gpt-4o-mini", "text-embedding-3-small")
	require.NotNil(t, svc)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ AIService = (*OpenAIService)(nil)
	var _ AIService = (*GeminiService)(nil)
}
