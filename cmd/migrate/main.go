package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lexdesk/lexdesk/internal/config"
	"github.com/lexdesk/lexdesk/internal/store/postgres"
)

// migrate applies the control-plane schema and then brings every tenant
// schema up to date. Tenant DDL is idempotent.
func main() {
	only := flag.String("tenant", "", "provision a single tenant")
	flag.Parse()

	ctx := context.Background()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("Failed to read .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	fmt.Println("✓ Connected to database")

	if err := db.Migrate(ctx, postgres.ControlPlaneSchema); err != nil {
		log.Fatalf("Failed to apply control-plane schema: %v", err)
	}
	fmt.Println("✓ Control-plane schema applied")

	tenantIDs := []string{*only}
	if *only == "" {
		tenantIDs, err = postgres.NewTenantRepository(db).ListIDs(ctx)
		if err != nil {
			log.Fatalf("Failed to list tenants: %v", err)
		}
	}

	registry := postgres.NewRegistry(postgres.SharedPool(db.Pool()), nil)
	defer registry.DisposeAll(ctx)
	provisioner := postgres.NewTables(postgres.NewRouter(registry)).Provisioner()

	failed := 0
	for _, tenantID := range tenantIDs {
		if err := provisioner.Provision(ctx, tenantID); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", tenantID, err)
			continue
		}
		fmt.Printf("✓ %s provisioned\n", tenantID)
	}

	if failed > 0 {
		log.Fatalf("%d of %d tenants failed", failed, len(tenantIDs))
	}
	fmt.Printf("\n✓✓✓ %d tenant schemas up to date\n", len(tenantIDs))
}
