package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/nguyentantai21042004/minutes-flow/internal/audio"
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/infra/cache"
	"github.com/nguyentantai21042004/minutes-flow/internal/infra/database"
	"github.com/nguyentantai21042004/minutes-flow/internal/infra/repository"
	"github.com/nguyentantai21042004/minutes-flow/internal/interface/rest"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/pipeline"
	"github.com/nguyentantai21042004/minutes-flow/internal/render"
	"github.com/nguyentantai21042004/minutes-flow/internal/service"
	"github.com/nguyentantai21042004/minutes-flow/internal/sllm"
	"github.com/nguyentantai21042004/minutes-flow/internal/storage"
	"github.com/nguyentantai21042004/minutes-flow/internal/stt"
	"github.com/nguyentantai21042004/minutes-flow/internal/summary"
	"github.com/nguyentantai21042004/minutes-flow/pkg/executor"
)

type App struct {
	Config   *config.Config
	Logger   logger.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Store    storage.Store
	Pipeline pipeline.Pipeline
	Handler  *rest.Handler
}

// New connects every backing service and assembles the pipeline.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	db, err := database.NewPostgres(cfg.Database.PostgresDSN, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	fail := func(err error) (*App, error) {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}

	blob, err := storage.NewMinioBlob(storage.MinioOptions{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return fail(err)
	}
	if err := storage.EnsureBucket(ctx, blob); err != nil {
		log.Warn(ctx, "Bucket check failed: %v", err)
	}

	meetings := repository.NewMeetingRepository(db)
	users := repository.NewUserRepository(db)
	store := storage.New(repository.NewAudioRepository(db), blob, storage.Options{
		KeyPrefix:  cfg.Storage.KeyPrefix,
		UploadTTL:  cfg.Storage.UploadTTL,
		LinkTTL:    cfg.Storage.LinkTTL,
		PresignTTL: cfg.Storage.PresignTTL,
	}, log)

	summarizer, err := sllm.New(cfg.SLLM, log)
	if err != nil {
		return fail(err)
	}

	transcoder := audio.New(cfg.Audio, executor.New(), log)
	if err := transcoder.Check(ctx); err != nil {
		return fail(err)
	}

	deps := pipeline.Deps{
		Meetings:   meetings,
		Users:      users,
		Store:      store,
		Transcoder: transcoder,
		STT:        stt.New(cfg.STT.BaseURL, cfg.STT.Timeout, log),
		SLLM:       summarizer,
		Extractor:  summary.New(users, log),
		Renderer:   render.New(cfg.Renderer, log),
	}
	if cfg.Memcached.Addr != "" {
		deps.Cache = cache.NewDocumentCache(database.NewMemcached(cfg.Memcached.Addr), cfg.Memcached.Lifetime)
	}

	a := &App{
		Config: cfg,
		Logger: log,
		DB:     db,
		Store:  store,
	}

	var subscriber rest.Subscriber
	if cfg.Redis.Addr != "" {
		a.Redis = database.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		signal := service.NewSignalService(a.Redis, log)
		deps.Events = signal
		subscriber = signal
	}

	a.Pipeline = pipeline.New(deps, log)
	a.Handler = rest.NewHandler(a.Pipeline, subscriber, log)
	return a, nil
}

// Close releases connections opened by New.
func (a *App) Close() error {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
