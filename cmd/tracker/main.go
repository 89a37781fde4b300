package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/WireNext/RodaliesCV-RealTIme/internal/config"
	"github.com/WireNext/RodaliesCV-RealTIme/internal/geo"
	"github.com/WireNext/RodaliesCV-RealTIme/internal/markers"
	"github.com/WireNext/RodaliesCV-RealTIme/internal/realtime/cercanias"
	"github.com/WireNext/RodaliesCV-RealTIme/internal/scheduler"
	"github.com/WireNext/RodaliesCV-RealTIme/internal/static"
	"github.com/WireNext/RodaliesCV-RealTIme/internal/tracker"
)

func main() {
	log.Println("Starting Cercanías Valencia live tracker...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Config loaded: poll_interval=%v, region=[%v,%v]x[%v,%v]",
		cfg.PollInterval, cfg.MinLat, cfg.MaxLat, cfg.MinLon, cfg.MaxLon)

	store := static.NewStore()
	board := markers.NewBoard()
	bounds := geo.Bounds{
		MinLat: cfg.MinLat,
		MinLon: cfg.MinLon,
		MaxLat: cfg.MaxLat,
		MaxLon: cfg.MaxLon,
	}
	engine := tracker.NewEngine(store, bounds, board)
	feeds := cercanias.NewClient(cfg.GTFSVehiclePositionsURL, cfg.GTFSTripUpdatesURL)

	sched := scheduler.New(scheduler.Config{
		Store:    store,
		Engine:   engine,
		Feeds:    feeds,
		Interval: cfg.PollInterval,
		LoadStatic: func(ctx context.Context) error {
			zipPath := filepath.Join(cfg.CacheDir, "fomento_transit.zip")
			log.Printf("Downloading static GTFS from %s...", cfg.RenfeGTFSURL)
			if err := static.Fetch(ctx, cfg.RenfeGTFSURL, zipPath); err != nil {
				return err
			}
			return store.LoadFromZip(zipPath)
		},
		// The server keeps running after a fatal load so the map can show
		// a blocking error instead of an empty page.
		OnFatal: board.SetFatal,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Run(ctx)

	router := markers.NewRouter(board, func() string { return sched.State().String() }, cfg.AllowedOrigins)
	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	go func() {
		log.Printf("API server starting on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("Shutting down...")
	sched.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Goodbye!")
}
