package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"legal-assistant/internal/agents"
	"legal-assistant/internal/chromemdb"
	"legal-assistant/internal/config"
	"legal-assistant/internal/db"
	"legal-assistant/internal/embedding"
	"legal-assistant/internal/helper"
	"legal-assistant/internal/ingest"
	"legal-assistant/internal/llmservice"
	"legal-assistant/internal/models"
	"legal-assistant/internal/server"
)

const configFilePath = "./configs/config.yaml"

// vectorStore is what both index backends provide.
type vectorStore interface {
	Add(ctx context.Context, chunkEmbeddings []models.ChunkEmbedding) error
	Search(ctx context.Context, queryEmbedding []float32, topK int) ([]models.SearchResult, error)
	Count() int
	Reset() error
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	reingest := flag.Bool("reingest", false, "Drop the index and re-ingest documents")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	ctx := context.Background()

	store := openStore(ctx, cfg)

	var queryAgent server.QueryProcessor
	embedder, err := embedding.NewEmbedder(&cfg.Embedder, os.Getenv(cfg.Embedder.KeyEnv))
	if err != nil {
		log.Error().Err(err).Msg("Error initializing embedder")
	} else if store != nil {
		runIngestion(ctx, cfg, embedder, store, *reingest)
		queryAgent = agents.NewQueryAgent(embedder, store, cfg.RAG.TopK)
	}

	var summaryAgent server.SummaryProcessor
	model, err := llmservice.New(ctx, &cfg.LLM, os.Getenv(cfg.LLM.KeyEnv))
	if err != nil {
		log.Error().Err(err).Msg("Error initializing generative model")
	} else {
		summaryAgent = agents.NewSummaryAgent(model)
	}

	srv := server.New(queryAgent, summaryAgent)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().Str("addr", cfg.Server.Addr).Msg("Legal Assistant API listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server error")
	}
}

func openStore(ctx context.Context, cfg *config.Config) vectorStore {
	switch cfg.Store.Type {
	case "chromem", "":
		if err := helper.CreateFolder(cfg.Store.Path); err != nil {
			log.Error().Err(err).Msg("Error creating vector database folder")
			return nil
		}
		store, err := chromemdb.NewStore(cfg.Store.Path, cfg.Store.Collection, false)
		if err != nil {
			log.Error().Err(err).Msg("Error opening vector database")
			return nil
		}
		return store
	case "postgres":
		store, err := db.Connect(ctx, &cfg.Store)
		if err != nil {
			log.Error().Err(err).Msg("Error connecting to database")
			return nil
		}
		return store
	default:
		log.Error().Str("type", cfg.Store.Type).Msg("Unknown store type")
		return nil
	}
}

func runIngestion(ctx context.Context, cfg *config.Config, embedder embedding.Embedder, store vectorStore, reingest bool) {
	if store.Count() > 0 {
		if !reingest {
			log.Info().Int("chunks", store.Count()).Msg("Index already populated, skipping ingestion")
			return
		}
		if err := store.Reset(); err != nil {
			log.Fatal().Err(err).Msg("Error resetting index")
		}
	}

	res, err := ingest.Run(ctx, cfg, embedder, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Error ingesting documents")
	}
	log.Info().Int("files", res.Files).Int("chunks", res.Chunks).Msg("Ingestion complete")
}
