package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/courtdocs/internal/common"
	"github.com/joseph-ayodele/courtdocs/internal/parser"
	"github.com/joseph-ayodele/courtdocs/internal/pipeline"
	"github.com/joseph-ayodele/courtdocs/internal/qa"
	"github.com/joseph-ayodele/courtdocs/internal/repository"
	"github.com/joseph-ayodele/courtdocs/internal/source"
	"github.com/joseph-ayodele/courtdocs/internal/storage"
	"github.com/joseph-ayodele/courtdocs/internal/tagger"
)

// app holds the wired dependencies shared by the subcommands.
type app struct {
	cfg    *common.Config
	logger *slog.Logger

	db    *repository.DB
	jobs  repository.ParseJobRepository
	docs  repository.ParsedDocumentRepository
	store storage.Storage
	proc  *pipeline.Processor

	closers []io.Closer
}

type appOptions struct {
	withDB     bool
	withParser bool
}

func newApp(ctx context.Context, cfg *common.Config, logger *slog.Logger, opts appOptions) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	store, err := storage.NewStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	a.store = store

	if opts.withDB {
		db, err := repository.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		a.db = db
		if err := repository.Migrate(ctx, db, logger); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		a.jobs = repository.NewParseJobRepository(db, logger)
		a.docs = repository.NewParsedDocumentRepository(db, logger)
	}

	if opts.withParser {
		svc, err := a.taggerService()
		if err != nil {
			a.Close()
			return nil, err
		}
		model := qa.NewHTTPModel(qa.Config{
			URL:        cfg.QA.URL,
			Timeout:    cfg.QA.Timeout,
			MaxRetries: cfg.QA.MaxRetries,
		}, logger)

		a.proc = &pipeline.Processor{
			Logger: logger,
			Reader: source.NewReader(source.Config{PdfToText: cfg.Source.PdfToText}, nil, logger),
			Tagger: tagger.New(svc, logger),
			NewQA: func() parser.QA {
				return qa.NewSession(model, cfg.QA.ScoreThreshold, logger)
			},
			Store: a.store,
			Jobs:  a.jobs,
			Docs:  a.docs,
		}
	}
	return a, nil
}

func (a *app) taggerService() (tagger.Service, error) {
	client := tagger.NewClient(tagger.Config{
		URL:        a.cfg.Tagger.URL,
		Model:      a.cfg.Tagger.Model,
		Timeout:    a.cfg.Tagger.Timeout,
		MaxRetries: a.cfg.Tagger.MaxRetries,
	}, a.logger)

	switch a.cfg.Cache.Type {
	case "memory":
		return tagger.NewCachedService(client, tagger.NewMemoryCache(a.cfg.Cache.TTL), a.cfg.Tagger.Model, a.logger), nil
	case "redis":
		opts, err := redis.ParseURL(a.cfg.Cache.RedisURL)
		if err != nil {
			return nil, common.NewAppError(common.CodeConfig, "invalid REDIS_URL", err)
		}
		rdb := redis.NewClient(opts)
		a.closers = append(a.closers, rdb)
		return tagger.NewCachedService(client, tagger.NewRedisCache(rdb, a.cfg.Cache.TTL), a.cfg.Tagger.Model, a.logger), nil
	default:
		return client, nil
	}
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	if a.db != nil {
		a.db.Close(a.logger)
	}
}
