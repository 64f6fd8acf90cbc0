package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Backend   BackendConfig
	Pipeline  PipelineConfig
	Resources ResourceConfig
	Store     StoreConfig
}

// BackendConfig holds generation-backend configuration
type BackendConfig struct {
	Binary        string
	BaseURL       string
	BaseModel     string
	CustomModel   string
	ModelfilePath string
	StartTimeout  time.Duration
}

// PipelineConfig carries the thresholds, artifact paths, and working
// directory for a run, so the pipeline has no hidden reliance on process
// environment or current directory.
type PipelineConfig struct {
	WorkDir       string
	MaxInputBytes int64
	MinTextBytes  int
	MaxAttempts   int
	RetryBackoff  time.Duration

	TextArtifact     string
	PromptArtifact   string
	OutputArtifact   string
	ErrorLogArtifact string
}

// ResourceConfig holds the warn-only resource floors
type ResourceConfig struct {
	MinMemoryMB  uint64
	MinDiskBytes uint64
}

// StoreConfig holds run-history configuration. An empty path disables
// persistence.
type StoreConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Binary:        getEnv("OLLAMA_BINARY", "ollama"),
			BaseURL:       getEnv("OLLAMA_API_URL", "http://localhost:11434"),
			BaseModel:     getEnv("BASE_MODEL", "llama2"),
			CustomModel:   getEnv("CUSTOM_MODEL", "mcq-generator"),
			ModelfilePath: getEnv("MODELFILE_PATH", "./Modelfile"),
			StartTimeout:  getEnvAsDuration("BACKEND_START_TIMEOUT", 5*time.Second),
		},
		Pipeline: PipelineConfig{
			WorkDir:          getEnv("WORK_DIR", "."),
			MaxInputBytes:    getEnvAsInt64("MAX_INPUT_BYTES", 50*1024*1024),
			MinTextBytes:     getEnvAsInt("MIN_TEXT_BYTES", 100),
			MaxAttempts:      getEnvAsInt("MAX_ATTEMPTS", 3),
			RetryBackoff:     getEnvAsDuration("RETRY_BACKOFF", 5*time.Second),
			TextArtifact:     getEnv("TEXT_ARTIFACT", "extracted_text.txt"),
			PromptArtifact:   getEnv("PROMPT_ARTIFACT", "prompt.txt"),
			OutputArtifact:   getEnv("OUTPUT_ARTIFACT", "mcq_output.json"),
			ErrorLogArtifact: getEnv("ERROR_LOG_ARTIFACT", "generation_error.log"),
		},
		Resources: ResourceConfig{
			MinMemoryMB:  getEnvAsUint64("MIN_MEMORY_MB", 2048),
			MinDiskBytes: getEnvAsUint64("MIN_DISK_BYTES", 1<<30),
		},
		Store: StoreConfig{
			Path: getEnv("RUN_DB_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Backend.Binary == "" {
		return NewAppError("CONFIG_ERROR", "OLLAMA_BINARY is required", ErrBackendUnavailable)
	}
	if c.Backend.BaseURL == "" {
		return NewAppError("CONFIG_ERROR", "OLLAMA_API_URL is required", ErrBackendUnavailable)
	}
	if c.Backend.BaseModel == "" {
		return NewAppError("CONFIG_ERROR", "BASE_MODEL is required", ErrBackendUnavailable)
	}
	if c.Pipeline.MaxAttempts < 1 {
		return NewAppError("CONFIG_ERROR", "MAX_ATTEMPTS must be at least 1", ErrGenerationFailed)
	}
	return nil
}
