package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/plata/internal/assistant"
	"github.com/Veraticus/plata/internal/common"
	"github.com/Veraticus/plata/internal/config"
	"github.com/Veraticus/plata/internal/llm"
	"github.com/Veraticus/plata/internal/metrics"
	"github.com/Veraticus/plata/internal/pending"
	"github.com/Veraticus/plata/internal/pipeline"
	"github.com/Veraticus/plata/internal/service"
	"github.com/Veraticus/plata/internal/sheets"
	"github.com/Veraticus/plata/internal/storage"
	"github.com/Veraticus/plata/internal/transcribe"
	"github.com/spf13/viper"
)

// components holds everything built from configuration. close releases them
// in reverse order of creation.
type components struct {
	metrics      *metrics.Collector
	gateway      *llm.Gateway
	orchestrator *pipeline.Orchestrator
	assistant    *assistant.Assistant
	closers      []func() error
}

func (c *components) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			common.LogError(err, "Failed to close component", common.Fields{"index": i})
		}
	}
}

// buildPipeline creates the provider pool, the gateway and the orchestrator.
func buildPipeline(ctx context.Context, logger *slog.Logger) (*components, *config.LLMConfig, error) {
	llmCfg, err := config.LoadLLMConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}

	c := &components{metrics: metrics.NewCollector()}

	var fallback llm.Provider
	if llmCfg.Fallback != nil {
		fallback, err = llm.NewProvider(ctx, *llmCfg.Fallback)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create fallback provider: %w", err)
		}
	}

	pool, err := llm.NewPool(ctx, llmCfg.Primary, llmCfg.Keys)
	if err != nil {
		closeProvider(fallback)
		return nil, nil, fmt.Errorf("failed to create provider pool: %w", err)
	}

	gateway, err := llm.NewGateway(pool, fallback,
		llm.WithLogger(logger),
		llm.WithObserver(c.metrics),
		llm.WithRetry(llmCfg.Retry),
		llm.WithTimeout(llmCfg.Timeout),
	)
	if err != nil {
		return nil, nil, err
	}
	c.gateway = gateway
	c.closers = append(c.closers, gateway.Close)

	c.orchestrator = pipeline.NewOrchestrator(gateway,
		pipeline.WithLogger(logger),
		pipeline.WithRecorder(c.metrics),
	)

	logger.Info("LLM gateway ready",
		"provider", llmCfg.Primary.Provider,
		"pool_size", len(pool),
		"fallback", fallback != nil)

	return c, llmCfg, nil
}

func closeProvider(p llm.Provider) {
	if closer, ok := p.(io.Closer); ok {
		_ = closer.Close()
	}
}

// buildAssistant adds persistence, pending storage and transcription on top
// of the pipeline.
func buildAssistant(ctx context.Context, logger *slog.Logger) (*components, error) {
	c, llmCfg, err := buildPipeline(ctx, logger)
	if err != nil {
		return nil, err
	}

	records, err := openStore(ctx)
	if err != nil {
		c.close()
		return nil, err
	}
	c.closers = append(c.closers, records.Close)

	store, err := pending.New(ctx, config.LoadPendingConfig(viper.GetViper()))
	if err != nil {
		c.close()
		return nil, fmt.Errorf("failed to create pending store: %w", err)
	}
	c.closers = append(c.closers, store.Close)

	sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		c.close()
		return nil, fmt.Errorf("invalid sheets configuration: %w", err)
	}
	appender, err := sheets.NewAppender(ctx, *sheetsCfg, logger)
	if err != nil {
		c.close()
		return nil, err
	}

	opts := []assistant.Option{assistant.WithLogger(logger)}
	if key := config.LoadTranscriptionKey(viper.GetViper(), llmCfg); key != "" {
		tr, err := transcribe.New(ctx, transcribe.Config{
			APIKey: key,
			Model:  viper.GetString("transcribe.model"),
		})
		if err != nil {
			c.close()
			return nil, err
		}
		opts = append(opts, assistant.WithTranscriber(tr))
	}

	c.assistant = assistant.New(c.orchestrator, store, appender, records, opts...)
	return c, nil
}

// openStore opens the configured database and applies pending migrations.
func openStore(ctx context.Context) (service.RecordStore, error) {
	cfg := config.LoadStorageConfig(viper.GetViper())

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return store, nil
}
