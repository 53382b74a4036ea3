// Copyright 2026 The LexDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/lexdesk/lexdesk/docs"
	"github.com/lexdesk/lexdesk/internal/audit"
	"github.com/lexdesk/lexdesk/internal/auth"
	"github.com/lexdesk/lexdesk/internal/config"
	"github.com/lexdesk/lexdesk/internal/observability/logger"
	"github.com/lexdesk/lexdesk/internal/observability/metrics"
	"github.com/lexdesk/lexdesk/internal/observability/tracing"
	"github.com/lexdesk/lexdesk/internal/practice"
	"github.com/lexdesk/lexdesk/internal/store/postgres"
	"github.com/lexdesk/lexdesk/internal/tenant"
	transportHTTP "github.com/lexdesk/lexdesk/internal/transport/http"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Printf("Failed to read .env: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
		OTELEnabled: cfg.Observability.OTELEnabled,
	})

	// Phase: CLI Commands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := runMigrate(cfg); err != nil {
				fmt.Printf("Migration failed: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		case "token":
			if err := runToken(cfg, os.Args[2:]); err != nil {
				fmt.Printf("Token issue failed: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		}
	}

	slog.Info("starting lexdesk api")
	if err := run(cfg); err != nil {
		slog.Error("server failed", logger.Error(err))
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.Observability.Environment,
		Endpoint:       cfg.Observability.OTLPEndpoint,
		Insecure:       cfg.Observability.Environment == "development",
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
		tracer = tracing.Noop()
	}
	defer tracer.Shutdown(context.Background())

	// Initialize meter
	meter, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize meter: %w", err)
	}
	instruments, err := metrics.NewStoreInstruments(meter)
	if err != nil {
		return fmt.Errorf("failed to initialize store instruments: %w", err)
	}

	// Initialize database
	dbConfig := databaseConfig(cfg)
	db, err := postgres.New(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	slog.Info("connected to database")

	if err := db.Migrate(ctx, postgres.ControlPlaneSchema); err != nil {
		return err
	}

	// Tenant connection routing
	factory := postgres.SharedPool(db.Pool())
	if cfg.Tenancy.PoolPerTenant {
		base, err := dbConfig.PoolConfig()
		if err != nil {
			return err
		}
		factory = postgres.PoolPerTenant(base, int32(cfg.Tenancy.MaxConnsPerTenant))
	}
	registry := postgres.NewRegistry(factory, instruments)
	defer registry.DisposeAll(context.Background())

	router := postgres.NewRouter(registry,
		postgres.WithTracer(tracer),
		postgres.WithInstruments(instruments),
	)
	tables := postgres.NewTables(router)

	// Initialize services
	auditLogger := audit.NewSlogLogger()
	keyHasher := tenant.NewKeyHasher(
		cfg.Security.Argon2Memory,
		cfg.Security.Argon2Iterations,
		cfg.Security.Argon2Parallelism,
		cfg.Security.Argon2SaltLength,
		cfg.Security.Argon2KeyLength,
	)
	tenantService := tenant.NewService(
		postgres.NewTenantRepository(db),
		postgres.NewKeyRepository(db),
		keyHasher,
		tables.Provisioner(),
		auditLogger,
	)
	services := transportHTTP.PracticeServices{
		Clients:       practice.NewService[practice.Client](practice.KindClient, tables.Clients, auditLogger),
		Projects:      practice.NewService[practice.Project](practice.KindProject, tables.Projects, auditLogger),
		Tasks:         practice.NewService[practice.Task](practice.KindTask, tables.Tasks, auditLogger),
		Transactions:  practice.NewService[practice.Transaction](practice.KindTransaction, tables.Transactions, auditLogger),
		Invoices:      practice.NewService[practice.Invoice](practice.KindInvoice, tables.Invoices, auditLogger),
		Notifications: practice.NewService[practice.Notification](practice.KindNotification, tables.Notifications, auditLogger),
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return err
	}

	// Rate Limiter
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	defer rateLimiter.Close()

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(tenantService, verifier, issuer, auditLogger, services.Resources()...)
	httpRouter := transportHTTP.NewRouter(handler, rateLimiter, transportHTTP.RouterConfig{
		RequestTimeout: cfg.Server.WriteTimeout,
		AllowedOrigins: splitList(cfg.Server.AllowedOrigins),
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}
	return nil
}

func databaseConfig(cfg *config.Config) postgres.Config {
	return postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
	}
}

func runMigrate(cfg *config.Config) error {
	ctx := context.Background()
	db, err := postgres.New(ctx, databaseConfig(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Applying control-plane schema...")
	if err := db.Migrate(ctx, postgres.ControlPlaneSchema); err != nil {
		return err
	}
	fmt.Println("Migration successful.")
	return nil
}

// runToken prints a signed token, for bootstrapping the first platform admin.
func runToken(cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: server token <user-id> <tenant-id|-> <role>")
	}
	tenantID := args[1]
	if tenantID == "-" {
		tenantID = ""
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	token, err := issuer.Issue(args[0], tenantID, args[2])
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
