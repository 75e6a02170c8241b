package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abgdnv/freshcart/internal/app"
	"github.com/abgdnv/freshcart/internal/config"
	"github.com/abgdnv/freshcart/internal/subscriber"
	"github.com/abgdnv/freshcart/pkg/bootstrap"
	"github.com/abgdnv/freshcart/pkg/config/configloader"
	"github.com/abgdnv/freshcart/pkg/server"
	"github.com/abgdnv/freshcart/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const serviceName = "storefront"

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the configuration, wires the storefront and serves HTTP, gRPC health, pprof
// and the fulfillment subscriber until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)
	otel.SetTextMapPropagator(telemetry.NewPropagator())

	meterProvider, err := telemetry.NewMeterProvider(serviceName)
	if err != nil {
		return err
	}
	var shutdowns app.Shutdowns
	shutdowns.Add(meterProvider.Shutdown)
	// release undoes everything acquired so far when startup fails.
	release := func(err error) error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return errors.Join(err, shutdowns.Run(shutdownCtx))
	}
	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry)
		if err != nil {
			logger.Error("error creating tracer provider", slog.Any("error", err))
			return release(err)
		}
		shutdowns.Add(tracerProvider.Shutdown)
	}

	msg, err := app.SetupMessaging(ctx, cfg, logger)
	if err != nil {
		return release(fmt.Errorf("failed to set up messaging: %w", err))
	}
	shutdowns.Add(func(context.Context) error { return msg.Close() })
	deps, err := app.SetupDependencies(msg.Publisher, logger)
	if err != nil {
		return release(err)
	}

	httpServer := server.NewHTTPServer(cfg.HTTPServer, app.SetupHttpHandler(deps, meterProvider.Handler))
	grpcHealth, registerHealth := server.NewHealthServer()
	grpcServer := server.NewGRPCServer(cfg.GRPC.ReflectionEnabled, registerHealth)
	pprofServer := &http.Server{Addr: cfg.PProf.Addr}

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the gRPC health server
	g.Go(func() error {
		grpcAddr := ":" + cfg.GRPC.Port
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}
		logger.Info("gRPC server listening", slog.String("addr", grpcAddr))
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down gRPC server...")
		grpcHealth.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			grpcHealth.Shutdown()
			close(stopped)
		}()
		select {
		case <-stopped:
			logger.Info("gRPC server stopped gracefully.")
			return nil
		case <-time.After(cfg.Shutdown.Timeout):
			logger.Warn("gRPC server graceful stop timed out. Forcing stop.")
			grpcServer.Stop()
			return fmt.Errorf("grpc server graceful stop timed out")
		}
	})

	// Start the fulfillment subscriber if enabled
	if cfg.Fulfillment.Enabled {
		g.Go(func() error {
			logger.Info("Fulfillment subscriber started", slog.String("subject", cfg.Fulfillment.Subject))
			return subscriber.Start(gCtx, msg.JetStream, cfg.Fulfillment, deps.Service, logger.With("component", "subscriber"))
		})
	}

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	// drain the broker and flush telemetry last
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Closing messaging and telemetry")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return shutdowns.Run(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}
