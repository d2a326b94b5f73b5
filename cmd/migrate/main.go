// Command migrate applies, inspects and rolls back the SportSync schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"sportsync/internal/config"
	"sportsync/internal/database"

	"gorm.io/gorm"
)

const usageText = `usage: migrate <command> [args]

commands:
  up              apply pending SQL migrations
  auto            run GORM AutoMigrate over every model
  apply           run the steps DB_SCHEMA_MODE selects (what the server does on boot)
  status          show the schema plan and pending migrations
  down <version>  roll back one applied migration`

type command func(ctx context.Context, db *gorm.DB, cfg *config.Config, args []string) error

var commands = map[string]command{
	"up": func(ctx context.Context, db *gorm.DB, _ *config.Config, _ []string) error {
		if err := database.RunMigrations(ctx, db); err != nil {
			return err
		}
		log.Println("✅ SQL migrations applied")
		return nil
	},
	"auto": func(ctx context.Context, db *gorm.DB, cfg *config.Config, _ []string) error {
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return err
		}
		log.Println("✅ AutoMigrate complete")
		return nil
	},
	"apply": func(ctx context.Context, db *gorm.DB, cfg *config.Config, _ []string) error {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return err
		}
		log.Println("✅ Schema applied")
		return nil
	},
	"status": status,
	"down": func(ctx context.Context, db *gorm.DB, _ *config.Config, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf("down needs a version\n\n%s", usageText)
		}
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return err
		}
		log.Printf("↩️  Rolled back migration %d", version)
		return nil
	},
}

func main() {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usageText) }
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%s", usageText)
	}
	cmd, ok := commands[strings.ToLower(strings.TrimSpace(args[0]))]
	if !ok {
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usageText)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close() }()

	return cmd(context.Background(), db, cfg, args[1:])
}

func status(ctx context.Context, db *gorm.DB, cfg *config.Config, _ []string) error {
	st, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return err
	}
	log.Printf("mode=%s env=%s sql=%t automigrate=%t", st.Mode, st.Environment, st.WillRunSQL, st.WillRunAutoMigrate)
	if !st.WillRunSQL {
		return nil
	}
	log.Printf("applied: %d, pending: %d", len(st.AppliedVersions), len(st.PendingMigrations))
	for _, m := range st.PendingMigrations {
		log.Printf("  pending %s", m)
	}
	return nil
}
