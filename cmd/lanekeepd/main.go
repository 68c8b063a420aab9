// Command lanekeepd serves the lane keeping worker over the
// create/learn/infer contract.
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

	"github.com/aretw0/parley/internal/lanekeep"
	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/rpc"
)

var rootCmd = &cobra.Command{
	Use:   "lanekeepd",
	Short: "Lane keeping worker service",
	Long:  `Serves per-user lane keeping system state (power, vibration intensity) over the infer contract.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		levelFlag, _ := cmd.Flags().GetString("log-level")
		redisAddr, _ := cmd.Flags().GetString("redis")

		level, err := logging.ParseLevel(levelFlag)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		logger := logging.New(level)

		var store lanekeep.Store = lanekeep.NewMemoryStore()
		if redisAddr != "" {
			client := backend.NewClient(&backend.Options{Addr: redisAddr})
			store = lanekeep.NewRedisStore(client, "")
		}

		handler := lanekeep.NewHandler(store, lanekeep.WithLogger(logger))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: rpc.NewHandler(handler, logger),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting lane keeping worker", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "err", err)
				}
			}
			logger.Info("Lane keeping worker stopped gracefully")
		}
	},
}

func main() {
	rootCmd.Flags().StringP("port", "p", "8090", "Port to listen on")
	rootCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().String("redis", "", "Redis address for shared system state (empty = in-memory)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
