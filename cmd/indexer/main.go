package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/chainwalker/internal/chain/bitcoin"
	"github.com/goodnatureofminers/chainwalker/internal/chain/ethereum"
	"github.com/goodnatureofminers/chainwalker/internal/config"
	"github.com/goodnatureofminers/chainwalker/internal/metrics"
	"github.com/goodnatureofminers/chainwalker/internal/model"
	"github.com/goodnatureofminers/chainwalker/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/chainwalker/internal/repository/postgres"
	"github.com/goodnatureofminers/chainwalker/internal/service/indexer"
	"github.com/goodnatureofminers/chainwalker/internal/transport"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const healthInterval = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}
	if cfg.LogJSON {
		if logger, err = zap.NewProduction(); err != nil {
			panic("can't initialize zap logger: " + err.Error())
		}
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	repo, err := postgres.Open(ctx, cfg.PostgresDSN, metrics.NewPostgresRepository())
	if err != nil {
		logger.Fatal("Failed to connect to postgres", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close postgres", zap.Error(err))
		}
	}()

	var schedules []indexer.Schedule
	if !cfg.Ethereum.Disable {
		sched, err := ethereumSchedule(ctx, cfg.Ethereum, repo, logger)
		if err != nil {
			logger.Fatal("Failed to set up ethereum", zap.Error(err))
		}
		schedules = append(schedules, sched)
	}
	if !cfg.Bitcoin.Disable {
		sched, err := bitcoinSchedule(ctx, cfg.Bitcoin, repo, logger)
		if err != nil {
			logger.Fatal("Failed to set up bitcoin", zap.Error(err))
		}
		schedules = append(schedules, sched)
	}
	scheduler, err := indexer.NewScheduler(logger, schedules...)
	if err != nil {
		logger.Fatal("Failed to create scheduler", zap.Error(err))
	}

	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	probes := make([]transport.Probe, 0, len(schedules))
	for _, r := range scheduler.Runners() {
		probes = append(probes, r)
	}
	reporter := transport.NewHealthReporter(healthServer, healthInterval, logger, probes...)

	socket, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("net.Listen error", zap.Error(err))
	}
	go func() {
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Fatal("Start GRPC server", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
	}()

	healthConn, err := grpc.NewClient(cfg.GRPCAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatal("Dial health service", zap.Error(err))
	}
	defer func() {
		_ = healthConn.Close()
	}()

	gw := gwruntime.NewServeMux(
		gwruntime.WithHealthzEndpoint(healthpb.NewHealthClient(healthConn)),
	)
	if err := transport.NewExplorerHandler(repo.Reader(), scheduler, logger).Register(gw); err != nil {
		logger.Fatal("Register explorer handler", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/", gw)
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	go func() {
		_ = reporter.Run(ctx)
	}()
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Scheduler stopped", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", cfg.HTTPAddr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to listen and serve", zap.Error(err))
		stop()
	}
	<-schedulerDone
	logger.Info("Indexer stopped")
}

func ethereumSchedule(ctx context.Context, c config.Ethereum, repo *postgres.Repository, logger *zap.Logger) (indexer.Schedule, error) {
	network := model.Ethereum
	if err := repo.EnsureNetwork(ctx, postgres.NetworkConfig{
		Network:     network,
		RPCURL:      c.RPCURL,
		StartHeight: c.StartHeight,
	}); err != nil {
		return indexer.Schedule{}, err
	}

	sourceLogger := logger.With(zap.String("network", network.Name))
	source := ethereum.NewSource(ethereum.Dialer(c.RPCURL, metrics.NewRPCClient(network.Name)), c.ReceiptWorkers, sourceLogger)
	runner, err := indexer.NewRunner(
		indexer.RunnerConfig{
			Network:         network,
			Confirmations:   c.Confirmations,
			BatchSize:       c.BatchSize,
			SkipParentCheck: c.SkipParentCheck,
		},
		source,
		ethereum.NewNormalizer(network.ID),
		repo,
		metrics.NewIndexer(network.Name),
		logger,
	)
	if err != nil {
		return indexer.Schedule{}, err
	}
	return indexer.Schedule{Runner: runner, Interval: c.Interval}, nil
}

func bitcoinSchedule(ctx context.Context, c config.Bitcoin, repo *postgres.Repository, logger *zap.Logger) (indexer.Schedule, error) {
	network := model.Bitcoin
	sourceLogger := logger.With(zap.String("network", network.Name))
	rpcMetrics := metrics.NewRPCClient(network.Name)

	var (
		source indexer.Source
		rpcURL string
	)
	switch c.Source {
	case config.SourceRPC:
		rpcURL = c.RPCHost
		source = bitcoin.NewRPCSource(func() (bitcoin.RPCClient, error) {
			client, err := rpcclient.Dial(c.RPCHost, c.RPCUser, c.RPCPassword, c.RPCDisableTLS, rpcMetrics)
			if err != nil {
				return nil, err
			}
			return client, nil
		}, sourceLogger)
	default:
		rpcURL = c.EsploraURL
		limiter := ratelimit.NewUnlimited()
		if c.EsploraRPS > 0 {
			limiter = ratelimit.New(c.EsploraRPS)
		}
		source = bitcoin.NewEsploraSource(bitcoin.NewEsploraClient(c.EsploraURL, nil, limiter, rpcMetrics), sourceLogger)
	}

	decoder, err := bitcoin.NewScriptDecoder(c.Chain)
	if err != nil {
		return indexer.Schedule{}, fmt.Errorf("script decoder: %w", err)
	}
	if err := repo.EnsureNetwork(ctx, postgres.NetworkConfig{
		Network:     network,
		RPCURL:      rpcURL,
		StartHeight: c.StartHeight,
	}); err != nil {
		return indexer.Schedule{}, err
	}

	runner, err := indexer.NewRunner(
		indexer.RunnerConfig{
			Network:         network,
			Confirmations:   c.Confirmations,
			BatchSize:       c.BatchSize,
			SkipParentCheck: c.SkipParentCheck,
		},
		source,
		bitcoin.NewNormalizer(network.ID, decoder),
		repo,
		metrics.NewIndexer(network.Name),
		logger,
	)
	if err != nil {
		return indexer.Schedule{}, err
	}

	blockSignal, err := startBlockSignal(ctx, c.ZMQAddr, sourceLogger)
	if err != nil {
		return indexer.Schedule{}, err
	}
	return indexer.Schedule{Runner: runner, Interval: c.Interval, Signal: blockSignal}, nil
}
