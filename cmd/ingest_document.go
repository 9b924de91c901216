/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/studymate/study-assistant-be/config"
	"github.com/studymate/study-assistant-be/database"
	"github.com/studymate/study-assistant-be/types"
	"github.com/studymate/study-assistant-be/utils"
)

// ingestDocumentCmd represents the ingestDocument command
var ingestDocumentCmd = &cobra.Command{
	Use:   "ingest",
	Short: "A brief description of your command",
	Long: `A longer description that spans multiple lines and likely contains examples
and usage of using your command. For example:

Cobra is a CLI library for Go that empowers applications.
This application is a tool to generate the needed files
to quickly create a Cobra application.`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		keep, _ := cmd.Flags().GetBool("keep")
		reinit, _ := cmd.Flags().GetBool("reinit")
		if filePath == "" {
			log.Fatal("--file is required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		studyService, store, err := buildStudyService(cfg)
		if err != nil {
			log.Fatalf("Failed to build pipeline: %v", err)
		}
		defer store.Close()

		if reinit {
			weaviateStore, ok := store.(*database.WeaviateStore)
			if !ok {
				log.Fatal("--reinit only applies to the weaviate backend")
			}
			if err := weaviateStore.ReInit(); err != nil {
				log.Fatalf("Failed to reinitialize store: %v", err)
			}
		}

		// With --keep the file is copied into the upload dir first, so the
		// stored material matches what the server would keep
		if keep {
			filePath, err = utils.CopyFileWithTimestamp(filePath, cfg.UploadDir)
			if err != nil {
				log.Fatalf("Failed to copy file: %v", err)
			}
		}

		doc, err := types.NewSourceDocumentFromFile(filePath)
		if err != nil {
			log.Fatalf("Unsupported document: %v", err)
		}
		count, err := studyService.Ingest(context.Background(), &doc)
		if err != nil {
			log.Fatalf("Failed to ingest document: %v", err)
		}
		if count == 0 {
			fmt.Println("Nothing to index")
			return
		}
		fmt.Printf("Indexed %d sections from %s\n", count, doc.SourceID)
	},
}

func init() {
	rootCmd.AddCommand(ingestDocumentCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// ingestDocumentCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// ingestDocumentCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
	ingestDocumentCmd.Flags().StringP("file", "f", "", "Path to the document to ingest")
	ingestDocumentCmd.Flags().BoolP("keep", "k", false, "Copy the file into the upload directory")
	ingestDocumentCmd.Flags().BoolP("reinit", "r", false, "Reinitialize the database")
}
