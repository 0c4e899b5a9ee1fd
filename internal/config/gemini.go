package config

import (
	"os"
	"sync"
)

type GeminiConfig struct {
	APIKey         string
	EmbeddingModel string
	// EmbeddingDim must match the vector column width of jobs and resumes.
	EmbeddingDim int
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = &GeminiConfig{
			APIKey:         os.Getenv("GEMINI_API_KEY"),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "gemini-embedding-001"),
			EmbeddingDim:   getEnvInt("EMBEDDING_DIM", 768),
		}
	})
	return geminiConfig
}
