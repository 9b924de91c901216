/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/studymate/study-assistant-be/config"
	"github.com/studymate/study-assistant-be/database"
	"github.com/studymate/study-assistant-be/handler"
	"github.com/studymate/study-assistant-be/service"
	"github.com/studymate/study-assistant-be/types"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the study assistant server",
	Long:  `Starts a server that ingests study material and answers questions about it`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		store, err := buildStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open vector store: %v", err)
		}
		defer store.Close()

		aiService, err := buildAIService(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize AI provider: %v", err)
		}

		// Initialize services
		documentService := service.NewDocumentService()
		chunkService, err := service.NewChunkService(types.DocumentServiceConfig{
			MaxChunkSize: cfg.Chunking.MaxChunkSize,
			OverlapSize:  cfg.Chunking.OverlapSize,
		})
		if err != nil {
			log.Fatalf("Invalid chunking configuration: %v", err)
		}
		indexService := service.NewIndexService(aiService, store)
		retrievalService := service.NewRetrievalService(aiService, store)
		answerService := service.NewAnswerService(retrievalService, aiService)
		studyService := service.NewStudyService(
			documentService,
			chunkService,
			indexService,
			retrievalService,
			answerService,
			store,
		)
		fileService, err := service.NewFileService(cfg.UploadDir, documentService, chunkService, indexService)
		if err != nil {
			log.Fatalf("Failed to prepare upload directory: %v", err)
		}
		wsService := service.NewWebSocketService(answerService)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		queryHandler := handler.NewQueryHandler(studyService, cfg.ContextK)
		searchHandler := handler.NewSearchHandler(studyService)
		uploadHandler := handler.NewUploadHandler(fileService)
		documentHandler := handler.NewDocumentHandler(fileService, studyService)

		// Setup Gin router
		router := gin.Default()

		// Apply global middleware
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, types.DataResponse{
				Status:  "success",
				Message: "study assistant is running",
			})
		})
		router.GET("/ws", func(c *gin.Context) {
			wsService.HandleAsk(c.Writer, c.Request)
		})

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/query", queryHandler.HandleQuery)
			apiV1.POST("/upload", uploadHandler.HandleUpload)
			apiV1.GET("/search", searchHandler.HandleSearch)
			apiV1.GET("/documents", documentHandler.HandleList)
			apiV1.GET("/documents/count", documentHandler.HandleCount)
			apiV1.DELETE("/documents/:filename", documentHandler.HandleDelete)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}

// buildStore opens the configured vector store backend.
func buildStore(cfg *config.Config) (database.VectorStore, error) {
	switch cfg.Store.Backend {
	case "memory":
		return database.NewMemoryStore(), nil
	case "sqlite":
		return database.NewSQLiteStore(cfg.Store.SQLitePath)
	case "weaviate":
		return database.NewWeaviateStore(cfg.Store.Weaviate)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

// buildAIService picks the configured provider for both embedding and
// generation.
func buildAIService(cfg *config.Config) (service.AIService, error) {
	switch cfg.AI.Provider {
	case "openai":
		return service.NewOpenAIService(cfg.AI.OpenAI.BaseURL, cfg.AI.OpenAI.APIKey, cfg.AI.OpenAI.Model, cfg.AI.OpenAI.EmbedModel), nil
	case "gemini":
		return service.NewGeminiService(cfg.AI.Gemini.APIKeys, cfg.AI.Gemini.Model, cfg.AI.Gemini.EmbedModel)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.AI.Provider)
	}
}

// buildStudyService assembles the full pipeline for the one-shot commands.
// The caller closes the returned store.
func buildStudyService(cfg *config.Config) (*service.StudyService, database.VectorStore, error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	aiService, err := buildAIService(cfg)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	chunkService, err := service.NewChunkService(types.DocumentServiceConfig{
		MaxChunkSize: cfg.Chunking.MaxChunkSize,
		OverlapSize:  cfg.Chunking.OverlapSize,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	documentService := service.NewDocumentService()
	indexService := service.NewIndexService(aiService, store)
	retrievalService := service.NewRetrievalService(aiService, store)
	answerService := service.NewAnswerService(retrievalService, aiService)
	studyService := service.NewStudyService(
		documentService,
		chunkService,
		indexService,
		retrievalService,
		answerService,
		store,
	)
	return studyService, store, nil
}
