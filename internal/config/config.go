package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all EmotionLLM configuration.
type Config struct {
	Model   ModelConfig
	Journal JournalConfig
	Server  ServerConfig
	Log     LogConfig
}

// ModelConfig holds classifier model settings.
type ModelConfig struct {
	ModelPath string
	VocabPath string
	LabelPath string
	MaxSeqLen int
}

// JournalConfig holds journal store settings.
type JournalConfig struct {
	Path string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is loaded first when
// present, so local setups can avoid exporting variables by hand.
func Load() Config {
	godotenv.Load() // missing file is fine

	return Config{
		Model: ModelConfig{
			ModelPath: getenv("EMOTIONLLM_MODEL_PATH", "models/emotion_quantized.onnx"),
			VocabPath: getenv("EMOTIONLLM_VOCAB_PATH", "models/vocab.txt"),
			LabelPath: getenv("EMOTIONLLM_LABELS_PATH", "models/labels.txt"),
			MaxSeqLen: getenvInt("EMOTIONLLM_MAX_SEQ_LEN", 128),
		},
		Journal: JournalConfig{
			Path: getenv("EMOTIONLLM_JOURNAL_PATH", "data/emotion_journal.csv"),
		},
		Server: ServerConfig{
			Addr: getenv("EMOTIONLLM_ADDR", ":8090"),
		},
		Log: LogConfig{
			Level: getenv("EMOTIONLLM_LOG_LEVEL", "info"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
