// Package setup turns a config.Config into the wired component graph shared
// by the CLI and the HTTP server.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/fitroom/internal/config"
	"github.com/dmitrijs2005/fitroom/internal/dbx"
	"github.com/dmitrijs2005/fitroom/internal/imaging"
	"github.com/dmitrijs2005/fitroom/internal/journal"
	"github.com/dmitrijs2005/fitroom/internal/kling"
	"github.com/dmitrijs2005/fitroom/internal/logging"
	"github.com/dmitrijs2005/fitroom/internal/netx"
	"github.com/dmitrijs2005/fitroom/internal/outfits"
	"github.com/dmitrijs2005/fitroom/internal/storage"
	"github.com/dmitrijs2005/fitroom/internal/storage/blobstore"
	"github.com/dmitrijs2005/fitroom/internal/storage/s3store"
	"github.com/dmitrijs2005/fitroom/internal/tryon"
)

type Components struct {
	Log          logging.Logger
	Kling        *kling.Client
	Journal      *journal.Repository
	Scratch      *tryon.Scratch
	Orchestrator *tryon.Orchestrator
	Runner       *tryon.Runner
	Outfits      *outfits.Service

	closers []func() error
}

// Logger builds the process logger from cfg.
func Logger(cfg *config.Config, w io.Writer) logging.Logger {
	return logging.New(w, cfg.LogFormat, cfg.LogLevel)
}

// Build opens every backend named in cfg. On error the already opened ones
// are closed again.
func Build(ctx context.Context, cfg *config.Config, log logging.Logger) (_ *Components, err error) {
	c := &Components{Log: log}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if err := c.openJournal(ctx, cfg); err != nil {
		return nil, err
	}

	scratch, err := blobstore.OpenDir(ctx, cfg.ScratchDir)
	if err != nil {
		return nil, fmt.Errorf("open scratch dir: %w", err)
	}
	c.closers = append(c.closers, scratch.Close)
	c.Scratch = tryon.NewScratch(scratch)

	c.Kling = kling.NewClient(kling.ClientConfig{
		BaseURL:     cfg.KlingBaseURL,
		ModelName:   cfg.KlingModelName,
		CallbackURL: cfg.KlingCallbackURL,
		Timeout:     cfg.RequestTimeout,
		SubmitRate:  cfg.SubmitRate,
	}, kling.NewSigner(cfg.KlingAccessKey, cfg.KlingSecretKey), log.With("module", "kling"))

	c.Orchestrator = tryon.NewOrchestrator(tryon.Deps{
		Images:  imaging.NewProcessor(log.With("module", "imaging")),
		Jobs:    c.Kling,
		Fetcher: netx.NewFetcher(cfg.DownloadTimeout),
		Scratch: c.Scratch,
		Journal: c.Journal,
		Poll:    kling.PollOptions{Interval: cfg.PollInterval, MaxAttempts: cfg.PollMaxAttempts},
	}, log.With("module", "tryon"))

	c.Runner = tryon.NewRunner(c.Orchestrator, cfg.MaxConcurrentJobs, log)

	if err := c.openOutfits(ctx, cfg); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Components) openJournal(ctx context.Context, cfg *config.Config) error {
	dialect, dsn := dbx.SQLite, cfg.JournalDSN
	if cfg.DatabaseDSN != "" {
		dialect, dsn = dbx.Postgres, cfg.DatabaseDSN
	}

	repo, db, err := journal.Open(ctx, dialect, dsn)
	if err != nil {
		return fmt.Errorf("journal init error: %w", err)
	}
	c.closers = append(c.closers, db.Close)
	c.Journal = repo
	return nil
}

func (c *Components) openOutfits(ctx context.Context, cfg *config.Config) error {
	docs, err := outfits.OpenStore(ctx, outfits.StoreConfig{
		URL:           cfg.OutfitStoreURL,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	})
	if err != nil {
		return err
	}
	c.closers = append(c.closers, docs.Close)

	images, err := c.openImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	var analyzer outfits.Analyzer
	if cfg.GeminiAPIKey != "" {
		g, err := outfits.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, g.Close)
		analyzer = g
	}

	c.Outfits = outfits.NewService(docs, images, outfits.NewCache(), analyzer, c.Log.With("module", "outfits"))
	return nil
}

func (c *Components) openImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	switch cfg.ImageStore {
	case "s3":
		return s3store.New(ctx, s3store.Config{
			Region:       cfg.S3Region,
			User:         cfg.S3RootUser,
			Password:     cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	case "mem":
		s, err := blobstore.Open(ctx, "mem://")
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, s.Close)
		return s, nil
	case "file", "":
		s, err := blobstore.OpenDir(ctx, cfg.ImageStoreDir)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, s.Close)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown image store %q", cfg.ImageStore)
	}
}

// Close releases backends in reverse opening order.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
