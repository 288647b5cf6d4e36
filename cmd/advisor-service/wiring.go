package main

import (
	"context"
	"fmt"
	"strings"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/redis"
	"golang-stock-advisor/pkg/sqlite"
	"golang-stock-advisor/pkg/telegram"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

func loadConfigAndLogger() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, appLogger, nil
}

func newRecordRepository(cfg *config.Config, log *logger.Logger) repository.AnalysisRecordRepository {
	return repository.NewAnalysisRecordRepository(sqlite.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
		LogLevel:    cfg.Database.LogLevel,
	}, log)
}

// newMarketCache uses Redis when redis.host is set and reachable, otherwise an in-process cache.
// The returned cleanup closes the Redis connection.
func newMarketCache(cfg *config.Config, log *logger.Logger) (repository.MarketDataCache, func()) {
	if cfg.Redis.Host == "" {
		return repository.NewInMemoryMarketDataCache(cfg.Cache.MarketDataTTL), func() {}
	}
	client, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory market data cache", zap.Error(err))
		return repository.NewInMemoryMarketDataCache(cfg.Cache.MarketDataTTL), func() {}
	}
	return repository.NewRedisMarketDataCache(client, log), func() { _ = client.Close() }
}

func newAIRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.AIRepository, error) {
	switch strings.ToLower(cfg.AI.Provider) {
	case "openai":
		return repository.NewOpenAIAgentsRepository(cfg, log, nil), nil
	case "", "gemini":
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini AI client: %w", err)
		}
		return repository.NewGeminiAIRepository(cfg, log, genAiClient)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}

func newNotifier(cfg *config.Config, log *logger.Logger) telegram.Notifier {
	if !cfg.Telegram.Enabled {
		return telegram.NewNopNotifier()
	}
	notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		log.Warn("Telegram notifier disabled", zap.Error(err))
		return telegram.NewNopNotifier()
	}
	return notifier
}
