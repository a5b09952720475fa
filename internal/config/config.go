package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// LLMConfig holds connection details for an OpenAI-compatible service,
// used for both the generative and the embedding endpoint.
type LLMConfig struct {
	BaseURL     string `yaml:"base_url"`
	Key         string `yaml:"key"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// RAGConfig carries the chunking, retrieval and grounding policy constants.
// The overlap thresholds are heuristics, not derived values; they are exposed
// here so they can be tuned and tested independently of the algorithms.
type RAGConfig struct {
	ChunkSize      int `yaml:"chunk_size"`
	ChunkOverlap   int `yaml:"chunk_overlap"`
	MinChunkLength int `yaml:"min_chunk_length"`
	TopK           int `yaml:"top_k"`

	SnippetChars     int `yaml:"snippet_chars"`
	MaxContextChars  int `yaml:"max_context_chars"`
	EvalContextChars int `yaml:"eval_context_chars"`

	AnswerOverlap      int `yaml:"answer_overlap"`
	EvalContextOverlap int `yaml:"eval_context_overlap"`
	EvalAnswerOverlap  int `yaml:"eval_answer_overlap"`
	QuestionOverlap    int `yaml:"question_overlap"`

	MaxAttempts      int `yaml:"max_attempts"`
	SummaryWordLimit int `yaml:"summary_word_limit"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	LLM      LLMConfig     `yaml:"llm"`
	EmbedLLM LLMConfig     `yaml:"embedding"`
	RAG      RAGConfig     `yaml:"rag"`
	Storage  StorageConfig `yaml:"storage"`
}

const apiKeyEnv = "OPENROUTER_API_KEY"

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Validate reports missing required external-service configuration.
// Failing here is fatal at startup, not recoverable per-request.
func (c *Config) Validate() error {
	if c.LLM.Key == "" {
		return errors.New("llm key is required (set llm.key or " + apiKeyEnv + ")")
	}
	if c.LLM.Model == "" {
		return errors.New("llm model is required")
	}
	if c.EmbedLLM.Model == "" {
		return errors.New("embedding model is required")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "./data"
	}
	if key := os.Getenv(apiKeyEnv); key != "" {
		if cfg.LLM.Key == "" {
			cfg.LLM.Key = key
		}
		if cfg.EmbedLLM.Key == "" {
			cfg.EmbedLLM.Key = key
		}
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.EmbedLLM.TimeoutSecs == 0 {
		cfg.EmbedLLM.TimeoutSecs = 60
	}

	r := &cfg.RAG
	if r.ChunkSize == 0 {
		r.ChunkSize = 600
	}
	if r.ChunkOverlap == 0 {
		r.ChunkOverlap = 100
	}
	if r.MinChunkLength == 0 {
		r.MinChunkLength = 30
	}
	if r.TopK == 0 {
		r.TopK = 5
	}
	if r.SnippetChars == 0 {
		r.SnippetChars = 300
	}
	if r.MaxContextChars == 0 {
		r.MaxContextChars = 2000
	}
	if r.EvalContextChars == 0 {
		r.EvalContextChars = 1800
	}
	if r.AnswerOverlap == 0 {
		r.AnswerOverlap = 3
	}
	if r.EvalContextOverlap == 0 {
		r.EvalContextOverlap = 5
	}
	if r.EvalAnswerOverlap == 0 {
		r.EvalAnswerOverlap = 3
	}
	if r.QuestionOverlap == 0 {
		r.QuestionOverlap = 2
	}
	if r.MaxAttempts == 0 {
		r.MaxAttempts = 3
	}
	if r.SummaryWordLimit == 0 {
		r.SummaryWordLimit = 150
	}
}
