package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	hposconfig "github.com/aretw0/hpos-config"
	"github.com/aretw0/hpos-config/internal/cli"
	httpAdapter "github.com/aretw0/hpos-config/pkg/adapters/http"
	"github.com/aretw0/hpos-config/pkg/adapters/memory"
	"github.com/aretw0/hpos-config/pkg/adapters/redis"
	"github.com/aretw0/hpos-config/pkg/observability"
	"github.com/aretw0/hpos-config/pkg/persistence/middleware"
	"github.com/aretw0/hpos-config/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validation HTTP server",
	Long: `Serves POST /validate, GET /reports/{id}, /health, /info and /metrics.
Reports are kept in memory unless --redis is given.

Stored reports can be sealed with AES-256-GCM by passing a base64 key via
--encryption-key or the HPOS_CONFIG_ENCRYPTION_KEY environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisPassword, _ := cmd.Flags().GetString("redis-password")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		logger := loggerFor(cmd)

		var store ports.ReportStore = memory.NewStore()
		if redisAddr != "" {
			rs := redis.New(redisAddr, redisPassword, redisDB, redis.WithTTL(ttl))
			defer rs.Close()
			if err := rs.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("failed to connect to redis at %s: %w", redisAddr, err)
			}
			store = rs
		}

		mws, err := storeMiddlewares(cmd)
		if err != nil {
			return err
		}
		store = middleware.Chain(store, mws...)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		svc := hposconfig.NewService(
			hposconfig.WithLogger(logger),
			hposconfig.WithStore(store),
			hposconfig.WithMetrics(observability.NewMetrics(reg)),
		)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           httpAdapter.NewHandler(svc, reg, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Starting hpos-config server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			fmt.Fprintf(cmd.ErrOrStderr(), "\nStart shutdown... Signal: %v\n", ctx.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "hpos-config server stopped gracefully")
			return nil
		}
	},
}

// EncryptionKeyEnv names the environment variable consulted when
// --encryption-key is not set.
const EncryptionKeyEnv = "HPOS_CONFIG_ENCRYPTION_KEY"

func storeMiddlewares(cmd *cobra.Command) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware

	if patterns, _ := cmd.Flags().GetStringSlice("redact"); len(patterns) > 0 {
		redact, err := middleware.NewRedactMiddleware(patterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, redact)
	}

	encoded, _ := cmd.Flags().GetString("encryption-key")
	if encoded == "" {
		encoded = os.Getenv(EncryptionKeyEnv)
	}
	if encoded == "" {
		return mws, nil
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	var fallbacks [][]byte
	olds, _ := cmd.Flags().GetStringSlice("fallback-key")
	for _, old := range olds {
		k, err := base64.StdEncoding.DecodeString(old)
		if err != nil {
			return nil, fmt.Errorf("invalid fallback key: %w", err)
		}
		fallbacks = append(fallbacks, k)
	}

	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    key,
		FallbackKeys: fallbacks,
	})
	if err != nil {
		return nil, err
	}
	return append(mws, enc), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for report storage (default: in-memory)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database")
	serveCmd.Flags().Duration("ttl", 0, "Report expiration in Redis (0 keeps reports)")
	serveCmd.Flags().String("encryption-key", "", "Base64 AES-256 key for stored reports (env "+EncryptionKeyEnv+")")
	serveCmd.Flags().StringSlice("fallback-key", nil, "Base64 keys still accepted for reading older reports")
	serveCmd.Flags().StringSlice("redact", nil, "Regexp over report paths whose offending values are masked (e.g. '\\.admin\\.email$')")
}
