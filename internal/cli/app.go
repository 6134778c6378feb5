package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/fitroom/internal/config"
	"github.com/dmitrijs2005/fitroom/internal/logging"
	"github.com/dmitrijs2005/fitroom/internal/setup"
)

const defaultUser = "local"

var errUsage = errors.New("usage error")

type App struct {
	config     *config.Config
	log        logging.Logger
	out        io.Writer
	reader     *bufio.Reader
	components *setup.Components
}

func NewApp(c *config.Config, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{config: c, log: log, out: out, reader: bufio.NewReader(in)}
}

// open builds the component graph once per App.
func (a *App) open(ctx context.Context) (*setup.Components, error) {
	if a.components != nil {
		return a.components, nil
	}
	c, err := setup.Build(ctx, a.config, a.log)
	if err != nil {
		return nil, err
	}
	a.components = c
	return c, nil
}

func (a *App) Close() error {
	if a.components == nil {
		return nil
	}
	a.components.Runner.Wait()
	err := a.components.Close()
	a.components = nil
	return err
}

// Run executes one command. args must already be stripped of config flags.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "generate":
		return a.generate(ctx, rest)
	case "status":
		return a.status(ctx, rest)
	case "history":
		return a.history(ctx, rest)
	case "outfits":
		return a.outfits(ctx, rest)
	case "help", "-h", "--help":
		a.usage()
		return nil
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
		a.usage()
		return errUsage
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Available commands: generate, status, history, outfits (list|save|delete|favorite)")
}

// Main is the entry point used by cmd/fitroom. It returns the process exit code.
func Main(ctx context.Context, cfg *config.Config, args []string) int {
	log := setup.Logger(cfg, os.Stderr)
	app := NewApp(cfg, log, os.Stdin, os.Stdout)
	defer func() {
		if err := app.Close(); err != nil {
			log.Error(ctx, "close", "error", err)
		}
	}()

	if err := app.Run(ctx, args); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}
