package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studymate/study-assistant-be/config"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const BATCH_SIZE = 200

var (
	SECTION_CLASS        = "StudySection"
	SECTION_CLASS_OBJECT = &models.Class{
		Class: SECTION_CLASS,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "sourceId", DataType: []string{"text"}},
			{Name: "page", DataType: []string{"int"}},
			{Name: "jsonKey", DataType: []string{"text"}},
			{Name: "startOffset", DataType: []string{"int"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
			{Name: "createdAt", DataType: []string{"int"}},
		},
		// Vectors are computed by the pipeline's embedder so that index-time
		// and query-time embeddings always come from the same model.
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
)

// WeaviateStore is the remote VectorStore backend.
type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(config config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(config.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(config.Host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: config.APIKey,
		}
		cfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     config.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasSectionClass := false
	for _, class := range schema.Classes {
		if class.Class == SECTION_CLASS {
			hasSectionClass = true
			break
		}
	}
	// Create StudySection class if it doesn't exist
	if !hasSectionClass {
		err = client.Schema().ClassCreator().WithClass(SECTION_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create StudySection class: %v", err)
		}
	}
	return &WeaviateStore{
		client: client,
	}, nil
}

// ReInit drops and recreates the section class, discarding every entry.
func (s *WeaviateStore) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(SECTION_CLASS).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete StudySection class: %v", err)
	}

	err = s.client.Schema().ClassCreator().WithClass(SECTION_CLASS_OBJECT).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create StudySection class: %v", err)
	}
	return nil
}

func (s *WeaviateStore) Upsert(ctx context.Context, entries []Entry) error {
	total := len(entries)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()

		for j := i; j < end; j++ {
			properties := map[string]interface{}{
				"content":     entries[j].Content,
				"sourceId":    entries[j].Metadata.SourceID,
				"page":        entries[j].Metadata.Page,
				"jsonKey":     entries[j].Metadata.Key,
				"startOffset": entries[j].Metadata.StartOffset,
				"chunkIndex":  entries[j].Metadata.ChunkIndex,
				"createdAt":   time.Now().Unix(),
			}

			batcher = batcher.WithObjects(&models.Object{
				Class:      SECTION_CLASS,
				Properties: properties,
				Vector:     entries[j].Vector,
			})
		}

		_, err := batcher.Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %v", i, end, err)
		}
	}

	return nil
}

func (s *WeaviateStore) Query(ctx context.Context, vector []float32, k int) ([]Match, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "sourceId"},
		{Name: "page"},
		{Name: "jsonKey"},
		{Name: "startOffset"},
		{Name: "chunkIndex"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}, {Name: "id"}}},
	}
	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	result, err := s.client.GraphQL().Get().
		WithClassName(SECTION_CLASS).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(k).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	var matches []Match
	if data, ok := result.Data["Get"].(map[string]interface{})[SECTION_CLASS].([]interface{}); ok {
		for _, item := range data {
			if obj, ok := item.(map[string]interface{}); ok {
				match := Match{
					Content: asString(obj["content"]),
					Metadata: EntryMetadata{
						SourceID:    asString(obj["sourceId"]),
						Page:        asInt(obj["page"]),
						Key:         asString(obj["jsonKey"]),
						StartOffset: asInt(obj["startOffset"]),
						ChunkIndex:  asInt(obj["chunkIndex"]),
					},
				}
				if additional, ok := obj["_additional"].(map[string]interface{}); ok {
					match.Score = asFloat(additional["certainty"])
				}
				matches = append(matches, match)
			}
		}
	}

	return matches, nil
}

func (s *WeaviateStore) Count(ctx context.Context) (int, error) {
	result, err := s.client.GraphQL().Aggregate().
		WithClassName(SECTION_CLASS).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, err
	}
	if result.Errors != nil {
		return 0, fmt.Errorf("count failed: %v", result.Errors[0].Message)
	}

	if data, ok := result.Data["Aggregate"].(map[string]interface{})[SECTION_CLASS].([]interface{}); ok {
		if len(data) > 0 {
			if obj, ok := data[0].(map[string]interface{}); ok {
				if meta, ok := obj["meta"].(map[string]interface{}); ok {
					return asInt(meta["count"]), nil
				}
			}
		}
	}
	return 0, fmt.Errorf("unexpected aggregate response shape")
}

func (s *WeaviateStore) Close() error {
	return nil
}

// Helper functions
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asFloat(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}

func asInt(v interface{}) int {
	return int(asFloat(v))
}
