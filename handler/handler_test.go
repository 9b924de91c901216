package handler

import (
	"context"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/studymate/study-assistant-be/database"
	"github.com/studymate/study-assistant-be/service"
	"github.com/studymate/study-assistant-be/types"
)

// stubAI provides deterministic letter-count embeddings and a canned answer,
// so handlers run against the real pipeline without a model.
type stubAI struct {
	answer string
}

func (s *stubAI) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec, nil
}

func (s *stubAI) Generate(context.Context, string) (string, error) {
	return s.answer, nil
}

type fixture struct {
	study *service.StudyService
	files *service.FileService
	store *database.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := database.NewMemoryStore()
	ai := &stubAI{answer: "Photosynthesis turns light into sugar."}
	documents := service.NewDocumentService()
	chunker, err := service.NewChunkService(types.DocumentServiceConfig{MaxChunkSize: 200, OverlapSize: 40})
	require.NoError(t, err)
	indexer := service.NewIndexService(ai, store)
	retrieval := service.NewRetrievalService(ai, store)
	answerer := service.NewAnswerService(retrieval, ai)

	files, err := service.NewFileService(t.TempDir(), documents, chunker, indexer)
	require.NoError(t, err)

	return &fixture{
		study: service.NewStudyService(documents, chunker, indexer, retrieval, answerer, store),
		files: files,
		store: store,
	}
}

// ingest indexes an in-memory text document through the real pipeline.
func (f *fixture) ingest(t *testing.T, sourceID, content string) {
	t.Helper()
	doc := types.NewSourceDocument(sourceID, types.FormatText, []byte(content))
	sections, err := f.study.Ingest(context.Background(), &doc)
	require.NoError(t, err)
	require.Greater(t, sections, 0)
}
