package main

import (
	"context"
	"flag"
	"log"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/goliatone/go-geoidentify/internal/config"
	"github.com/goliatone/go-geoidentify/pkg/client"
	"github.com/goliatone/go-geoidentify/pkg/render"
	"github.com/goliatone/go-geoidentify/pkg/renderers/desktop"
	"github.com/goliatone/go-geoidentify/pkg/sanitize"
)

func main() {
	configFile := flag.String("config", "", "YAML config file")
	apiBase := flag.String("api", "", "prediction API base URL")
	flag.Parse()

	logger := log.New(os.Stderr, "geoidentify-desktop: ", log.LstdFlags)
	fyneApp := app.NewWithID("io.goliatone.geoidentify")

	cfg, err := config.Load(config.LoadOptions{File: *configFile})
	if err != nil {
		showFatalError(fyneApp, err)
		return
	}
	if *apiBase != "" {
		cfg.API.BaseURL = *apiBase
	}

	clientOptions := []client.Option{client.WithBaseURL(cfg.API.BaseURL), client.WithLogger(logger)}
	if cfg.API.StripMarkup {
		clientOptions = append(clientOptions, client.WithSanitizer(sanitize.Text))
	}
	backend, err := client.New(clientOptions...)
	if err != nil {
		showFatalError(fyneApp, err)
		return
	}

	win := desktop.New(context.Background(), fyneApp, backend,
		desktop.WithLocale(render.MatchLocale(cfg.UI.Locale)),
		desktop.WithLogger(logger),
	)
	logger.Printf("backend: %s", backend.BaseURL())
	win.ShowAndRun()
}

func showFatalError(a fyne.App, err error) {
	win := a.NewWindow("GeoIdentify")
	win.SetContent(widget.NewLabel(err.Error()))
	win.Resize(fyne.NewSize(480, 160))
	dialog.ShowError(err, win)
	win.ShowAndRun()
}
