/*
Copyright © 2025 studymate
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/studymate/study-assistant-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// Optional; API keys may come from the shell environment instead
	_ = godotenv.Load()
}
