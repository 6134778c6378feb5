package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/fitroom/internal/buildinfo"
	"github.com/dmitrijs2005/fitroom/internal/config"
	"github.com/dmitrijs2005/fitroom/internal/server"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
