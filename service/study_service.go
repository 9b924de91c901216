package service

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/studymate/study-assistant-be/database"
	"github.com/studymate/study-assistant-be/types"
)

// StudyService wires the ingestion and answering pipeline behind the four
// operations the request layer consumes. It owns the store handle it was
// built with; nothing here is a package-level singleton.
type StudyService struct {
	documents *DocumentService
	chunker   *ChunkService
	indexer   *IndexService
	retrieval *RetrievalService
	answerer  *AnswerService
	store     database.VectorStore
}

func NewStudyService(
	documents *DocumentService,
	chunker *ChunkService,
	indexer *IndexService,
	retrieval *RetrievalService,
	answerer *AnswerService,
	store database.VectorStore,
) *StudyService {
	return &StudyService{
		documents: documents,
		chunker:   chunker,
		indexer:   indexer,
		retrieval: retrieval,
		answerer:  answerer,
		store:     store,
	}
}

// Ingest loads, chunks and indexes one document, returning the number of
// sections added. A document with nothing to extract adds zero sections and
// is not an error.
func (s *StudyService) Ingest(ctx context.Context, doc *types.SourceDocument) (int, error) {
	units, err := s.documents.Load(doc)
	if err != nil {
		return 0, err
	}
	if len(units) == 0 {
		log.Info("document has no extractable text", "source", doc.SourceID)
		return 0, nil
	}

	chunks, err := s.chunker.Split(units)
	if err != nil {
		return 0, err
	}

	return s.indexer.Index(ctx, chunks)
}

// Ask answers a question from the indexed material.
func (s *StudyService) Ask(ctx context.Context, question string, contextK int) types.AnsweredQuery {
	return s.answerer.Answer(ctx, question, contextK)
}

// Search runs bare retrieval, no answer generation.
func (s *StudyService) Search(ctx context.Context, query string, k int) ([]types.RetrievalResult, error) {
	return s.retrieval.Retrieve(ctx, query, k)
}

// Count reports how many sections are currently indexed.
func (s *StudyService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
