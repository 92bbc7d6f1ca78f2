package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imkonsowa/restaurant-recommender/catalog"
	"github.com/imkonsowa/restaurant-recommender/config"
	"github.com/imkonsowa/restaurant-recommender/llm"
	"github.com/imkonsowa/restaurant-recommender/metrics"
	"github.com/imkonsowa/restaurant-recommender/recommend"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Agent struct {
	config  *config.Config
	handler *Handler
}

func main() {
	cfg := config.LoadConfig()
	slog.SetDefault(cfg.Log.Logger(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := catalog.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	if store.Len() == 0 {
		slog.Warn("catalog is empty, every recommendation will report no data")
	}
	metrics.CatalogRecords.Set(float64(store.Len()))

	completer, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		log.Fatal(err)
	}

	engine := recommend.NewEngine(store, completer, cfg.Recommender.CompletionTimeout, slog.Default())

	agent := &Agent{
		config:  cfg,
		handler: NewHandler(engine, store),
	}

	if err := agent.Run(ctx); err != nil {
		log.Fatalf("failed to run the agent: %v", err)
	}
}

func (a *Agent) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", a.handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/places", a.handler.ListPlaces)
	api.POST("/recommend", rateLimiter(a.config.Server.RateLimit), a.handler.Recommend)

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *Agent) Run(ctx context.Context) error {
	if a.config.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              a.config.Server.Address(),
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server started", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
