package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate/study-assistant-be/database"
)

func seededAnswerer(t *testing.T, gen *stubGenerator, contents ...string) *AnswerService {
	t.Helper()
	store := database.NewMemoryStore()
	for i, content := range contents {
		err := store.Upsert(context.Background(), []database.Entry{{
			Vector:   letterVector(content),
			Content:  content,
			Metadata: database.EntryMetadata{SourceID: "notes.txt", ChunkIndex: i},
		}})
		require.NoError(t, err)
	}
	return NewAnswerService(NewRetrievalService(&stubEmbedder{}, store), gen)
}

func TestAnswer_GroundedSuccess(t *testing.T) {
	gen := &stubGenerator{answer: "Mitosis has four phases."}
	svc := seededAnswerer(t, gen,
		"Prophase comes first.",
		"Metaphase lines up the chromosomes.",
		"Anaphase pulls them apart.",
	)

	answered := svc.Answer(context.Background(), "What are the phases of mitosis?", 2)
	assert.Equal(t, "What are the phases of mitosis?", answered.Question)
	assert.Equal(t, "Mitosis has four phases.", answered.Answer)
	assert.Len(t, answered.Sources, 2)
}

func TestAnswer_PromptCarriesContext(t *testing.T) {
	gen := &stubGenerator{answer: "ok"}
	svc := seededAnswerer(t, gen, "Prophase comes first.")

	svc.Answer(context.Background(), "What happens in prophase?", 1)
	require.Len(t, gen.prompts, 1)

	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "Document from notes.txt:\nProphase comes first.")
	assert.Contains(t, prompt, "QUESTION: What happens in prophase?")
	assert.Contains(t, prompt, "Do not include 'Document from'")
}

func TestAnswer_DefaultContextK(t *testing.T) {
	gen := &stubGenerator{answer: "ok"}
	svc := seededAnswerer(t, gen, "one fact", "two facts", "three facts", "four facts", "five facts")

	for _, contextK := range []int{0, -2} {
		answered := svc.Answer(context.Background(), "how many facts?", contextK)
		assert.Len(t, answered.Sources, DefaultContextK)
	}
}

func TestAnswer_RetrievalFailureIsSoft(t *testing.T) {
	retrieval := NewRetrievalService(&stubEmbedder{err: errors.New("no capacity")}, database.NewMemoryStore())
	svc := NewAnswerService(retrieval, &stubGenerator{answer: "unused"})

	answered := svc.Answer(context.Background(), "anything", 2)
	assert.Equal(t, "anything", answered.Question)
	assert.True(t, strings.HasPrefix(answered.Answer, "Error: "))
	assert.Contains(t, answered.Answer, "embedding")
	assert.NotNil(t, answered.Sources)
	assert.Empty(t, answered.Sources)
}

func TestAnswer_GenerationFailureIsSoft(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model overloaded")}
	svc := seededAnswerer(t, gen, "Prophase comes first.")

	answered := svc.Answer(context.Background(), "what happens?", 1)
	assert.Equal(t, "Error: generation: model overloaded", answered.Answer)
	assert.NotNil(t, answered.Sources)
	assert.Empty(t, answered.Sources)
}

func TestAnswer_EmptyStoreStillAnswers(t *testing.T) {
	gen := &stubGenerator{answer: "I could not find that in your materials."}
	svc := seededAnswerer(t, gen)

	answered := svc.Answer(context.Background(), "what is osmosis?", 3)
	assert.Equal(t, "I could not find that in your materials.", answered.Answer)
	assert.Empty(t, answered.Sources)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "REFERENCE DOCUMENTS:")
}
