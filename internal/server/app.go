// Package server wires the try-on HTTP API: it builds the components from
// configuration, serves the API and shuts down gracefully on SIGINT/SIGTERM.
package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/fitroom/internal/config"
	"github.com/dmitrijs2005/fitroom/internal/logging"
	"github.com/dmitrijs2005/fitroom/internal/server/httpapi"
	"github.com/dmitrijs2005/fitroom/internal/setup"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	components *setup.Components
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := setup.Logger(c, os.Stdout)

	components, err := setup.Build(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	return &App{config: c, logger: logger, components: components}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) handler() *httpapi.Handler {
	c := app.components
	return httpapi.NewHandler(c.Runner, c.Scratch, c.Journal, c.Outfits, app.config.JWTSecret, app.logger.With("module", "http"))
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.HTTPAddr, app.handler().Routes(), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is canceled or a termination signal arrives, then
// waits for running try-on jobs and closes the backends.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.components.Runner.Wait()
	if err := app.components.Close(); err != nil {
		app.logger.Error(ctx, "close backends", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
