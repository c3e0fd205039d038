package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/satchelhq/satchel"
	"github.com/satchelhq/satchel/internal/logging"
	"github.com/satchelhq/satchel/pkg/adapters/httpapi"
	"github.com/satchelhq/satchel/pkg/adapters/memory"
	"github.com/satchelhq/satchel/pkg/adapters/middleware"
	redisstore "github.com/satchelhq/satchel/pkg/adapters/redis"
	"github.com/satchelhq/satchel/pkg/ports"
	"github.com/satchelhq/satchel/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the donation HTTP server",
	Long:  `Starts satchel in server mode, exposing session and donation management as a JSON API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisPassword, _ := cmd.Flags().GetString("redis-password")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		maxIdle, _ := cmd.Flags().GetDuration("max-idle")
		encryptionKey, _ := cmd.Flags().GetString("encryption-key")
		redact, _ := cmd.Flags().GetStringSlice("redact")
		levelName, _ := cmd.Flags().GetString("log-level")

		logger := logging.New(logging.ParseLevel(levelName))

		var store ports.DonationStore
		if redisAddr != "" {
			store = redisstore.New(redisAddr, redisPassword, redisDB, redisstore.WithTTL(ttl))
			logger.Info("using redis donation store", "address", redisAddr)
		} else {
			store = memory.NewStore()
			logger.Info("using in-memory donation store")
		}

		var mws []middleware.Middleware
		if len(redact) > 0 {
			mws = append(mws, middleware.NewRedaction(redact))
		}
		if encryptionKey != "" {
			key, err := base64.StdEncoding.DecodeString(encryptionKey)
			if err != nil || len(key) != 32 {
				fmt.Println("encryption key must be 32 bytes, base64 encoded")
				os.Exit(1)
			}
			mws = append(mws, middleware.NewEncryption(middleware.EncryptionConfig{ActiveKey: key}))
		}
		store = middleware.Chain(store, mws...)

		registry := session.NewRegistry(session.WithLogger(logger))
		defer registry.Close()

		server := httpapi.NewServer(registry, store, satchel.Flows(), httpapi.WithLogger(logger))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: server.Handler(),
		}

		// Evict abandoned and finished sessions in the background.
		sweepDone := make(chan struct{})
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if swept := registry.Sweep(maxIdle); len(swept) > 0 {
						logger.Info("swept idle sessions", "count", len(swept))
					}
				case <-sweepDone:
					return
				}
			}
		}()
		defer close(sweepDone)

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Satchel Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Satchel Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for donation storage (in-memory when empty)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database number")
	serveCmd.Flags().Duration("ttl", 0, "Donation retention period in redis (0 keeps forever)")
	serveCmd.Flags().Duration("max-idle", 30*time.Minute, "Evict sessions idle for longer than this")
	serveCmd.Flags().String("encryption-key", "", "Base64 AES-256 key; encrypts stored donations when set")
	serveCmd.Flags().StringSlice("redact", nil, "Key patterns to mask in stored donations")
}
