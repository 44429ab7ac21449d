// Package app wires the configured services together for the server and
// the command line.
package app

import (
	"fmt"

	"github.com/kanekosora-114/Tune-into-English/cache"
	"github.com/kanekosora-114/Tune-into-English/config"
	"github.com/kanekosora-114/Tune-into-English/core/agent"
	"github.com/kanekosora-114/Tune-into-English/core/lrclib"
	"github.com/kanekosora-114/Tune-into-English/core/lyrics"
	"github.com/kanekosora-114/Tune-into-English/core/translate"
	"github.com/kanekosora-114/Tune-into-English/db"
	"github.com/kanekosora-114/Tune-into-English/logger"
	"github.com/kanekosora-114/Tune-into-English/repository"
)

// App holds the services built from a Config. Pipeline and Batch are nil
// when no chat API key is configured; Lookups is nil unless the lookup log
// is enabled.
type App struct {
	Config   *config.Config
	Lyrics   lyrics.Finder
	Pipeline *translate.Pipeline
	Batch    *translate.BatchTranslator
	Lookups  repository.LookupRepository

	closers []func() error
}

// InitLogger configures the global logger from cfg.
func InitLogger(cfg *config.Config) error {
	return logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	})
}

// New connects the optional backends and builds the services.
func New(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	client := lrclib.NewClient(cfg.LRCLibBaseURL, cfg.LRCLibTimeout)
	client.SetUserAgent(cfg.LRCLibUserAgent)

	var opts []lyrics.Option
	if cfg.LookupLogEnabled {
		if err := db.ConnectGormDB(cfg); err != nil {
			return nil, fmt.Errorf("lookup log: %w", err)
		}
		a.closers = append(a.closers, db.CloseGormDB)
		a.Lookups = repository.NewGormLookupRepository(db.GormDB)
		opts = append(opts, lyrics.WithRecorder(a.Lookups))
	}

	var finder lyrics.Finder = lyrics.NewResolver(client, opts...)
	if cfg.CacheEnabled() {
		if err := cache.ConnectRedis(cfg); err != nil {
			a.Close()
			return nil, fmt.Errorf("lyrics cache: %w", err)
		}
		a.closers = append(a.closers, cache.CloseRedis)
		var cacheOpts []lyrics.CacheOption
		if a.Lookups != nil {
			cacheOpts = append(cacheOpts, lyrics.WithHitRecorder(a.Lookups))
		}
		finder = lyrics.NewCachingResolver(finder, cache.NewLyricsCache(cache.RedisClient, cfg.LyricsCacheTTL), cacheOpts...)
		logger.Info("[App] lyrics cache enabled",
			logger.String("redis", cfg.RedisAddr()),
			logger.Duration("ttl", cfg.LyricsCacheTTL))
	}
	a.Lyrics = finder

	if cfg.TranslationEnabled() {
		chat := agent.NewChatClient(&agent.ChatClientConfig{
			APIBaseURL: cfg.OpenAIBaseURL,
			APIKey:     cfg.OpenAIAPIKey,
			Timeout:    cfg.OpenAITimeout,
		})
		a.Pipeline = translate.NewPipeline(chat,
			translate.WithDefaultModel(cfg.OpenAIModel),
			translate.WithTemperature(cfg.OpenAITemperature))
		a.Batch = translate.NewBatchTranslator(chat,
			translate.WithBatchModel(cfg.OpenAIModel),
			translate.WithBatchTemperature(cfg.OpenAITemperature))
	} else {
		logger.Warn("[App] OPENAI_API_KEY not set, translation disabled")
	}

	return a, nil
}

// Close releases the backends opened by New.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("[App] close failed", logger.ErrorField(err))
		}
	}
	a.closers = nil
}
