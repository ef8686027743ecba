package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/handpong/internal/app"
	"github.com/ayusman/handpong/internal/capture"
	"github.com/ayusman/handpong/internal/config"
	"github.com/ayusman/handpong/internal/detector"
	"github.com/ayusman/handpong/internal/display"
	"github.com/ayusman/handpong/internal/feed"
	"github.com/ayusman/handpong/internal/render"
	"github.com/ayusman/handpong/internal/server"
	"github.com/ayusman/handpong/internal/store"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred cleanup runs before exiting.
func run(args []string) int {
	flags := flag.NewFlagSet("handpong", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to the TOML config file (default "+config.DefaultPath()+")")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	fmt.Println("Handpong - Hand-Controlled Pong")

	var (
		cfg config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Printf("Failed to create data directory: %v", err)
		return 1
	}

	// Initialize the store
	var st *store.Store
	if cfg.RecordMatches {
		st, err = store.New(cfg.DatabasePath())
		if err != nil {
			log.Printf("Failed to initialize store: %v", err)
			return 1
		}
		defer st.Close()
	}

	assetsDir := cfg.AssetsDir
	if assetsDir == "" {
		assetsDir = render.FindAssetsDir()
	}
	if assetsDir == "" {
		log.Printf("Resources directory not found")
		return 1
	}
	assets, err := render.LoadAssets(assetsDir)
	if err != nil {
		log.Printf("Failed to load assets: %v", err)
		return 1
	}
	defer assets.Close()
	fmt.Printf("Loaded assets from: %s\n", assetsDir)

	// The collision box follows the bat sprite.
	gameCfg := cfg.Game.WithPaddleSize(assets.PaddleSize())

	// Try MediaPipe first, fall back to mock detector
	var det detector.Detector
	if mp, err := detector.NewMediaPipeDetector(cfg.Detector); err == nil {
		det = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		det = detector.NewMockDetector()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := feed.New()
	if cfg.ServerAddr != "" {
		srv := server.New(server.Config{Store: st, Feed: f})
		go func() {
			fmt.Printf("Spectator server on http://%s\n", cfg.ServerAddr)
			if err := srv.ListenAndServe(ctx, cfg.ServerAddr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	a := app.New(app.Config{
		Game:     gameCfg,
		Camera:   capture.NewCamera(cfg.Camera),
		Detector: det,
		Surface:  display.NewWindow(cfg.WindowTitle),
		Renderer: render.NewRenderer(assets, render.DefaultLayout(), render.OpenCV{}),
		Store:    st,
		Feed:     f,
	})

	// The window must be driven from the main goroutine.
	if err := a.Run(ctx); err != nil {
		log.Printf("Game failed: %v", err)
		return 1
	}
	return 0
}
