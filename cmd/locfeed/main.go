package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/locfeed/locfeed/internal/app"
	"github.com/locfeed/locfeed/internal/config"
)

func main() {
	locationApp := &app.LocationApplication{}

	if err := locationApp.Initialize(context.Background()); err != nil {
		slog.Error("Failed to initialize application", config.ErrAttr(err))
		os.Exit(1)
	}

	locationApp.Run()
}
