package main

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"document-mentor/internal/api"
	"document-mentor/internal/config"
	"document-mentor/internal/document"
	"document-mentor/internal/embedding"
	"document-mentor/internal/helper"
	"document-mentor/internal/llmservice"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := helper.CreateFolder(cfg.Storage.DataDir); err != nil {
		log.Fatal().Err(err).Msg("Error creating data directory")
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	llm, err := llmservice.NewOpenAI(&cfg.LLM, cfg.RAG.MaxAttempts)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing LLM client")
	}

	svc := document.NewService(cfg, embedder, llm)
	router := api.NewRouter(svc)

	log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
