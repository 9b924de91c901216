/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/studymate/study-assistant-be/config"
	"github.com/studymate/study-assistant-be/service"
	"github.com/studymate/study-assistant-be/types"
)

// batchIngestCmd represents the batchIngest command
var batchIngestCmd = &cobra.Command{
	Use:   "batch-ingest",
	Short: "A brief description of your command",
	Long: `A longer description that spans multiple lines and likely contains examples
and usage of using your command. For example:

Cobra is a CLI library for Go that empowers applications.
This application is a tool to generate the needed files
to quickly create a Cobra application.`,
	Run: func(cmd *cobra.Command, args []string) {
		directory, _ := cmd.Flags().GetString("dir")
		if directory == "" {
			log.Fatal("--dir is required")
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

		files, err := os.ReadDir(directory)
		if err != nil {
			log.Fatalf("Failed to read directory: %v", err)
		}
		total := 0
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			filePath := filepath.Join(directory, file.Name())
			count, err := ingestFile(studyService, filePath)
			if err != nil {
				log.Printf("Skipping %s: %v", filePath, err)
				continue
			}
			fmt.Printf("Indexed %d sections from %s\n", count, file.Name())
			total += count
		}
		fmt.Printf("Done, %d sections indexed\n", total)
	},
}

func init() {
	rootCmd.AddCommand(batchIngestCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// batchIngestCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// batchIngestCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")

	batchIngestCmd.Flags().String("dir", "", "Path to the directory to ingest")
}

func ingestFile(studyService *service.StudyService, filePath string) (int, error) {
	doc, err := types.NewSourceDocumentFromFile(filePath)
	if err != nil {
		return 0, err
	}
	return studyService.Ingest(context.Background(), &doc)
}
