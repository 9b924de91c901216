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
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "A brief description of your command",
	Long: `A longer description that spans multiple lines and likely contains examples
and usage of using your command. For example:

Cobra is a CLI library for Go that empowers applications.
This application is a tool to generate the needed files
to quickly create a Cobra application.`,
	Run: func(cmd *cobra.Command, args []string) {
		question, _ := cmd.Flags().GetString("question")
		contextK, _ := cmd.Flags().GetInt("context-k")
		if question == "" {
			log.Fatal("--question is required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if contextK <= 0 {
			contextK = cfg.ContextK
		}
		studyService, store, err := buildStudyService(cfg)
		if err != nil {
			log.Fatalf("Failed to build pipeline: %v", err)
		}
		defer store.Close()

		answered := studyService.Ask(context.Background(), question, contextK)
		fmt.Println(answered.Answer)
		if len(answered.Sources) > 0 {
			fmt.Println("\nSources:")
			for i, source := range answered.Sources {
				fmt.Printf("%d. %s (score %.3f)\n", i+1, source.SourceLabel, source.Score)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringP("question", "q", "", "Question to ask about the indexed material")
	askCmd.Flags().Int("context-k", 0, "How many sections to ground the answer on")
}
