package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/catalog"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/gateway"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/generator"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/hub"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/metrics"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/sink"
	"github.com/shubham-shewale/stock-market-feed/pkg/config"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	// 2. Initialize Zap Logger
	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Feed.Fallback != "" {
		logger.Warn("Invalid instrument bounds, using defaults",
			zap.String("reason", cfg.Feed.Fallback),
			zap.Int("min", cfg.Feed.Min),
			zap.Int("max", cfg.Feed.Max),
		)
	}

	// 3. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// 4. Hubs and generator
	instruments := hub.NewInstrumentHub(logger.Named("instruments"), m)
	quotes := hub.NewQuoteHub(logger.Named("quotes"), m)

	rnd := generator.NewRealRand(time.Now().UnixNano())
	gen := generator.NewGenerator(
		logger.Named("generator"),
		generator.DefaultConfig(cfg.Feed.Min, cfg.Feed.Max, cfg.Feed.Tick),
		catalog.NewPool(catalog.Stocks(), rnd),
		instruments,
		quotes,
		rnd,
		generator.RealClock{},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Optional sinks
	dispatcher := buildSinks(ctx, cfg, logger, m)
	if dispatcher != nil {
		gen.SetSink(dispatcher)
	}

	// 6. HTTP surface
	h := gateway.NewHandler(instruments, quotes, logger.Named("gateway"), gateway.Options{
		SendBuffer: cfg.Gateway.SendBuffer,
		WriteWait:  cfg.Gateway.WriteWait,
		PongWait:   cfg.Gateway.PongWait,
		PingPeriod: cfg.Gateway.PingPeriod,
		MaxFrame:   cfg.Gateway.MaxFrame,
	})
	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           h.Routes(cfg.App.StaticDir, cfg.App.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gen.Run(gctx)
		return nil
	})
	if dispatcher != nil {
		g.Go(func() error { return dispatcher.Run(gctx) })
	}
	g.Go(func() error {
		logger.Info("Server Started",
			zap.String("addr", srv.Addr),
			zap.String("instruments", "ws://localhost"+srv.Addr+"/instruments"),
			zap.String("quotes", "ws://localhost"+srv.Addr+"/quotes"),
			zap.String("metrics", cfg.App.MetricsPath),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Feed stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Shutdown Complete")
}

// buildSinks returns nil when no external mirror is enabled.
func buildSinks(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *sink.Dispatcher {
	var writers []sink.Writer

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("Redis unreachable, mirror will retry per write", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		writers = append(writers, sink.NewRedisWriter(rdb, cfg.Redis.QuoteTTL))
		logger.Info("Redis mirror enabled", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.Kafka.Enabled {
		tc := sink.NewTopicCreator(logger.Named("kafka"), &sink.RealKafkaDialer{Dialer: &kafka.Dialer{Timeout: 5 * time.Second}}, generator.RealClock{})
		if !tc.Create(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Partitions) {
			logger.Warn("Kafka topic not confirmed, exporting anyway", zap.String("topic", cfg.Kafka.Topic))
		}
		writers = append(writers, sink.NewKafkaWriter(sink.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)))
		logger.Info("Kafka export enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	if len(writers) == 0 {
		return nil
	}
	return sink.NewDispatcher(logger.Named("sink"), m, cfg.Sink.Buffer, writers...)
}
