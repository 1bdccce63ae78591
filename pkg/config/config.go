package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Log       LogConfig       `koanf:"log"`
	LLM       LLMConfig       `koanf:"llm"`
	Interview InterviewConfig `koanf:"interview"`
	FollowUp  FollowUpConfig  `koanf:"follow_up"`
	Storage   StorageConfig   `koanf:"storage"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type LLMConfig struct {
	Provider string `koanf:"provider"` // openai, ollama, mock
	Model    string `koanf:"model"`
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
}

type InterviewConfig struct {
	Position string `koanf:"position"`
	// RoundsFile optionally overrides the built-in round table (YAML).
	RoundsFile string `koanf:"rounds_file"`
}

type FollowUpConfig struct {
	Enabled         bool     `koanf:"enabled"`
	MaxFollowUps    int      `koanf:"max_follow_ups"`
	ScoreThreshold  int      `koanf:"score_threshold"`
	TriggerKeywords []string `koanf:"trigger_keywords"`
	MinAnswerLength int      `koanf:"min_answer_length"`
}

type StorageConfig struct {
	// Dir is the root storage directory; candidates, sessions and reports
	// live in subdirectories underneath it.
	Dir string `koanf:"dir"`
	// ArchiveDB is the SQLite session index. Empty disables the archive.
	ArchiveDB string `koanf:"archive_db"`
}

type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Exporter     string `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

// Global k instance
var k = koanf.New(".")

func Load(path string) (*Config, error) {
	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")

	k.Set("llm.provider", "openai")
	k.Set("llm.model", "qwen-plus")
	k.Set("llm.base_url", "https://dashscope.aliyuncs.com/compatible-mode/v1")

	k.Set("interview.position", "Data Analyst")

	k.Set("follow_up.enabled", true)
	k.Set("follow_up.max_follow_ups", 1)
	k.Set("follow_up.score_threshold", 6)
	k.Set("follow_up.trigger_keywords", []string{"not sure", "i think", "maybe", "probably"})
	k.Set("follow_up.min_answer_length", 50)

	k.Set("storage.dir", "storage")
	k.Set("storage.archive_db", "storage/archive.db")

	k.Set("telemetry.enabled", false)
	k.Set("telemetry.exporter", "stdout")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (PARLEY_LLM_PROVIDER -> llm.provider)
	if err := k.Load(env.Provider("PARLEY_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "PARLEY_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
