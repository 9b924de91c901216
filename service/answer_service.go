package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/studymate/study-assistant-be/types"
)

// DefaultContextK is how many retrieved chunks ground an answer when the
// caller does not say.
const DefaultContextK = 3

const answerPromptTemplate = `You are a helpful study assistant. Answer the following question based on the provided documents.

REFERENCE DOCUMENTS:
%s

QUESTION: %s

Provide a comprehensive but concise answer. Only use information from the provided documents.
Do not include 'Document from' or other reference markers in your answer.`

// AnswerService produces answers grounded in retrieved material. Answer
// never fails hard: any retrieval or generation error comes back as the
// answer text with no sources, so the caller always has something to show.
type AnswerService struct {
	retrieval *RetrievalService
	generator Generator
}

func NewAnswerService(retrieval *RetrievalService, generator Generator) *AnswerService {
	return &AnswerService{
		retrieval: retrieval,
		generator: generator,
	}
}

func (s *AnswerService) Answer(ctx context.Context, question string, contextK int) types.AnsweredQuery {
	if contextK <= 0 {
		contextK = DefaultContextK
	}

	sources, err := s.retrieval.Retrieve(ctx, question, contextK)
	if err != nil {
		return failedAnswer(question, err)
	}

	answer, err := s.generator.Generate(ctx, buildPrompt(question, sources))
	if err != nil {
		return failedAnswer(question, &types.GenerationError{Err: err})
	}

	return types.AnsweredQuery{
		Question: question,
		Answer:   answer,
		Sources:  sources,
	}
}

func buildPrompt(question string, sources []types.RetrievalResult) string {
	contexts := make([]string, 0, len(sources))
	for _, source := range sources {
		contexts = append(contexts, fmt.Sprintf("Document from %s:\n%s", source.SourceLabel, source.Content))
	}
	return fmt.Sprintf(answerPromptTemplate, strings.Join(contexts, "\n\n"), question)
}

func failedAnswer(question string, err error) types.AnsweredQuery {
	log.Error("failed to answer question", "error", err)
	return types.AnsweredQuery{
		Question: question,
		Answer:   "Error: " + err.Error(),
		Sources:  []types.RetrievalResult{},
	}
}
