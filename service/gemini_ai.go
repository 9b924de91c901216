package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiService struct {
	apiKeys    []string
	currentKey int
	client     *genai.Client
	model      *genai.GenerativeModel
	embedModel *genai.EmbeddingModel
	modelName  string
	embedName  string
	mu         sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName, embedName string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	service := &GeminiService{
		apiKeys:    apiKeys,
		currentKey: 0,
		modelName:  modelName,
		embedName:  embedName,
	}

	err := service.initClient()
	if err != nil {
		return nil, err
	}
	return service, nil
}

// initClient assumes the caller holds s.mu or that no other goroutine
// has a reference to the service yet.
func (s *GeminiService) initClient() error {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	s.model = client.GenerativeModel(s.modelName)
	s.model.SetTemperature(0.3)
	s.embedModel = client.EmbeddingModel(s.embedName)
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		return err
	}
	return s.initClient()
}

func (s *GeminiService) embedder() *genai.EmbeddingModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.embedModel
}

func (s *GeminiService) generator() *genai.GenerativeModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := s.embedder().EmbedContent(ctx, genai.Text(text))
	if err != nil {
		// Try rotating API key if there's an error
		if err := s.rotateAPIKey(); err != nil {
			return nil, err
		}
		res, err = s.embedder().EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, err
		}
	}

	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, errors.New("no embedding generated")
	}
	return res.Embedding.Values, nil
}

func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.generator().GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		// Try rotating API key if there's an error
		if err := s.rotateAPIKey(); err != nil {
			return "", err
		}
		resp, err = s.generator().GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}

	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					content += string(text)
				}
			}
		}
	}

	return content, nil
}
