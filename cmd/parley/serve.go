package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/internal/metrics"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/adapters/redis"
	"github.com/aretw0/parley/pkg/config"
	"github.com/aretw0/parley/pkg/persistence/middleware"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/aretw0/parley/pkg/rpc"
	"github.com/prometheus/client_golang/prometheus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the orchestrator front door",
	Long:  `Starts the Parley orchestrator, exposing the create/learn/infer contract over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")
		port, _ := cmd.Flags().GetString("port")
		levelFlag, _ := cmd.Flags().GetString("log-level")

		level, err := logging.ParseLevel(levelFlag)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		logger := logging.New(level)

		cfg, err := config.Load(cfgPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		opts := []parley.Option{
			parley.WithLogger(logger),
			parley.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
		}

		var store ports.SessionStore = memory.NewStore()
		if cfg.Store.Backend == "redis" {
			ttl, err := cfg.SessionTTL()
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			client := backend.NewClient(&backend.Options{
				Addr:     cfg.Store.Redis.Address,
				Password: cfg.Store.Redis.Password,
				DB:       cfg.Store.Redis.DB,
			})
			store = redis.NewFromClient(client, redis.WithTTL(ttl))
			opts = append(opts, parley.WithLocker(redis.NewLocker(client, "parley:")))
		}

		activeKey, fallbackKeys, err := cfg.SessionKeys()
		if err != nil {
			fmt.Printf("Error resolving session keys: %v\n", err)
			os.Exit(1)
		}
		if activeKey != nil {
			store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
				ActiveKey:    activeKey,
				FallbackKeys: fallbackKeys,
			})(store)
			logger.Info("Session encryption at rest enabled")
		}
		opts = append(opts, parley.WithSessionStore(store))

		orch, err := parley.New(cfg, opts...)
		if err != nil {
			fmt.Printf("Error initializing parley: %v\n", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: rpc.NewHandler(orch, logger),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting Parley orchestrator", "addr", srv.Addr, "config", cfgPath)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "err", err)
				}
			}
			logger.Info("Parley orchestrator stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
