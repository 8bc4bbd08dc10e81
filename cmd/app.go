package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recruitflow/recruiter/internal/ai"
	"github.com/recruitflow/recruiter/internal/ai/gemini"
	"github.com/recruitflow/recruiter/internal/knowledge"
	"github.com/recruitflow/recruiter/internal/logger"
	"github.com/recruitflow/recruiter/internal/recruiting"
	"github.com/recruitflow/recruiter/internal/secrets"
	"github.com/recruitflow/recruiter/internal/storage"
)

// application holds every wired component shared by the subcommands.
type application struct {
	config *Config
	logger *zap.Logger
	db     *gorm.DB

	postings       *storage.PostingRepository
	knowledgeStore *storage.KnowledgeRepository
	dataset        *knowledge.Dataset

	pipeline     *ai.Pipeline
	applications *recruiting.Service
	knowledge    *knowledge.Service
	assistant    *knowledge.Assistant
}

func newLogger() *zap.Logger {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return logger
}

// newApplication opens the database and wires the services. A missing model
// credential is not an error: evaluations degrade and the assistant answers
// from the knowledge base alone.
func newApplication(ctx context.Context, logger *zap.Logger) (*application, error) {
	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	if logger.Core().Enabled(zap.DebugLevel) {
		// secrets are never printed
		redacted := *config.AI.Gemini
		if redacted.APIKey != "" {
			redacted.APIKey = "<redacted>"
		}
		pretty, _ := json.MarshalIndent(map[string]any{
			"server":    config.Server,
			"database":  map[string]string{"driver": config.Database.Driver},
			"ai":        map[string]any{"provider": config.AI.Provider, "gemini": redacted},
			"knowledge": config.Knowledge,
		}, "", "  ")
		logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))
	}

	db, err := storage.Open(config.Database.Driver, config.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(db); err != nil {
		_ = storage.Close(db)
		return nil, err
	}

	dataset, err := knowledge.LoadDataset()
	if err != nil {
		_ = storage.Close(db)
		return nil, err
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		_ = storage.Close(db)
		return nil, fmt.Errorf("building ai generator: %w", err)
	}

	evaluatorLogger := logger.Named("evaluator")
	var (
		evaluator *gemini.Evaluator
		chat      knowledge.ChatCompleter
	)
	if generator != nil {
		evaluator = gemini.NewEvaluator(generator, evaluatorLogger, config.AI.Gemini.MaxLogLength)
		chat = generator
	} else {
		evaluator = gemini.NewEvaluator(nil, evaluatorLogger, config.AI.Gemini.MaxLogLength)
	}

	a := &application{
		config:         config,
		logger:         logger,
		db:             db,
		postings:       storage.NewPostingRepository(db),
		knowledgeStore: storage.NewKnowledgeRepository(db),
		dataset:        dataset,
	}

	a.pipeline = ai.NewPipeline(a.postings, evaluator, logger.Named("pipeline"))
	a.applications = recruiting.NewService(storage.NewApplicationRepository(db), a.pipeline, logger.Named("applications"))

	reader := knowledge.NewFallbackReader(a.knowledgeStore, dataset, logger.Named("knowledge"))
	a.knowledge = knowledge.NewService(reader, a.knowledgeStore, config.Knowledge.TopN, logger.Named("knowledge"))
	a.assistant = knowledge.NewAssistant(a.knowledge, chat, config.Knowledge.TopN, logger.Named("assistant"))

	return a, nil
}

func (a *application) Close() {
	if err := storage.Close(a.db); err != nil {
		a.logger.Warn("closing database", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// newGenerator returns nil without an error when no api key is configured.
func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.ProviderName {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if errors.Is(err, secrets.ErrNotConfigured) {
		logger.Warn("gemini api key is not configured; evaluations will be degraded",
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file in the configuration file"),
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
}

// seedKnowledge fills an empty knowledge store from the embedded dataset.
func (a *application) seedKnowledge(ctx context.Context, actor string) error {
	seeded, err := a.knowledgeStore.Seed(ctx, a.dataset.Items(), actor)
	if err != nil {
		return fmt.Errorf("seeding knowledge store: %w", err)
	}
	if seeded > 0 {
		a.logger.Info("knowledge store seeded from embedded dataset", zap.Int("count", seeded))
	}
	return nil
}
