package config

import "github.com/caarlos0/env/v6"

type Config struct {
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5260"`
	}

	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/estatequery.db"`
	}

	// Dataset ingestion at startup. An empty path skips ingestion.
	Ingest struct {
		DatasetPath string `env:"DATASET_PATH" envDefault:""`

		// Maximum number of records per batch pushed to the queue
		MaxBatchSize int `env:"INGEST_MAX_BATCH_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"INGEST_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"INGEST_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"INGEST_RETRY_DELAY" envDefault:"5"`

		// Queue buffer size in batches
		QueueSize int `env:"INGEST_QUEUE_SIZE" envDefault:"50"`
	}

	Gemini struct {
		APIKey  string `env:"GEMINI_API_KEY" envDefault:""`
		Model   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
		BaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`

		Temperature     float32 `env:"GEMINI_TEMPERATURE" envDefault:"0.4"`
		TopP            float32 `env:"GEMINI_TOP_P" envDefault:"0.95"`
		TopK            int     `env:"GEMINI_TOP_K" envDefault:"40"`
		MaxOutputTokens int     `env:"GEMINI_MAX_OUTPUT_TOKENS" envDefault:"1024"`

		// Harm-category block threshold passed as a safetySetting for
		// every category (e.g. BLOCK_MEDIUM_AND_ABOVE).
		SafetyThreshold string `env:"GEMINI_SAFETY_THRESHOLD" envDefault:"BLOCK_MEDIUM_AND_ABOVE"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
