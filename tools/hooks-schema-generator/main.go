package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/quill/hooks"
)

func main() {
	schemaBytes, err := hooks.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	// Write next to the package so go:embed picks it up.
	outputPath := filepath.Join("hooks", "precommit.schema.json")
	if err := os.WriteFile(outputPath, schemaBytes, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated hook schema at %s", outputPath)
}
