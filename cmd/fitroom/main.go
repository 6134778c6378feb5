package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/fitroom/internal/cli"
	"github.com/dmitrijs2005/fitroom/internal/config"
	"github.com/dmitrijs2005/fitroom/internal/flagx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg := config.LoadConfig()
	args := flagx.Exclude(os.Args[1:], config.FlagNames())

	code := cli.Main(ctx, cfg, args)
	stop()
	os.Exit(code)
}
