// viewportd is a headless soak daemon for the viewport orchestrator: a
// scripted orbit camera drives the orchestrator against the demo tracer,
// with stats exposed over HTTP (and optionally MQTT) for observation.
package main

import (
	"context"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	viewport "github.com/e7canasta/orion-viewport"
	"github.com/e7canasta/orion-viewport/internal/config"
	"github.com/e7canasta/orion-viewport/internal/emitter"
	"github.com/e7canasta/orion-viewport/internal/logger"
	"github.com/e7canasta/orion-viewport/internal/metrics"
	"github.com/e7canasta/orion-viewport/internal/sim"
	"github.com/e7canasta/orion-viewport/render"
	"github.com/e7canasta/orion-viewport/sink"
)

const defaultConfigPath = "config/viewport.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	_ = config.LoadEnv()
	log := logger.New(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FORMAT", "text"))
	slog.SetDefault(log)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err, "path", *configPath)
		os.Exit(1)
	}

	tier, err := viewport.ParseQualityTier(cfg.Viewport.Quality)
	if err != nil {
		slog.Error("invalid quality tier", "error", err)
		os.Exit(1)
	}

	slog.Info("starting viewportd",
		"instance", cfg.InstanceID,
		"quality", cfg.Viewport.Quality,
		"viewport", fmt.Sprintf("%dx%d", cfg.Viewport.Width, cfg.Viewport.Height),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer := render.NewTracer(nil, cfg.Simulation.Seed)
	frames := sink.NewImageSink()
	orbit := sim.NewOrbitSource(cfg.Simulation, cfg.Viewport.Width, cfg.Viewport.Height)

	orch := viewport.New(viewport.Config{
		Renderer:        tracer,
		Sink:            frames,
		Pacer:           viewport.NewTimerPacer(cfg.Viewport.PaceInterval()),
		Poses:           orbit,
		Tier:            tier,
		SettleWindow:    cfg.Viewport.SettleWindow,
		SettleThreshold: cfg.Viewport.SettleThreshold,
		Logger:          log,
	})

	if err := orch.Start(ctx); err != nil {
		slog.Error("failed to start orchestrator", "error", err)
		os.Exit(1)
	}
	go orbit.Run(ctx)

	var srv *http.Server
	if cfg.HTTP.Addr != "" {
		srv = &http.Server{Addr: cfg.HTTP.Addr, Handler: newRouter(cfg, orch, frames, log)}
		go func() {
			slog.Info("http listener started", "addr", cfg.HTTP.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("http server error", "error", err)
				stop()
			}
		}()
	}

	var em *emitter.MQTTEmitter
	if cfg.MQTT.Broker != "" {
		em = emitter.NewMQTTEmitter(cfg, orch)
		if err := em.Connect(ctx); err != nil {
			slog.Error("mqtt connect failed, continuing without emission", "error", err)
			em = nil
		} else {
			go em.Run(ctx)
		}
	}

	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ShutdownTimeoutS)*time.Second)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}
	if em != nil {
		em.Close()
	}
	orch.Stop()

	slog.Info("viewportd stopped", "stats", orch.Stats())
}

func newRouter(cfg *config.Config, orch viewport.Orchestrator, frames *sink.ImageSink, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/metrics", metrics.Handler(orch, cfg.InstanceID).ServeHTTP)

	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(orch.Stats()); err != nil {
			slog.Warn("stats encode failed", "error", err)
		}
	})

	r.Get("/frame.png", func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		ok, err := frames.EncodePNG(&buf)
		if err != nil {
			http.Error(w, "frame encode failed", http.StatusInternalServerError)
			slog.Warn("frame encode failed", "error", err)
			return
		}
		if !ok {
			http.Error(w, "no frame yet", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	})

	return r
}
