package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sportsync/internal/config"
	"sportsync/internal/middleware"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaStatus describes what ApplySchema would do against the current database.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
}

type schemaPlan struct {
	mode    string
	runSQL  bool
	runAuto bool
}

func isProdLikeEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

// planSchema decides which schema steps run. SQL migrations are the source
// of truth everywhere; AutoMigrate only fills gaps outside production unless
// explicitly allowed.
func planSchema(cfg *config.Config) (schemaPlan, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		mode = SchemaModeHybrid
	}
	prod := isProdLikeEnv(cfg.Env)

	switch mode {
	case SchemaModeSQL:
		return schemaPlan{mode: mode, runSQL: true}, nil
	case SchemaModeHybrid:
		return schemaPlan{mode: mode, runSQL: true, runAuto: !prod}, nil
	case SchemaModeAuto:
		if prod && !cfg.DBAutoMigrateAllowDestructive {
			return schemaPlan{}, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		return schemaPlan{mode: mode, runAuto: true}, nil
	}
	return schemaPlan{}, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
}

// ApplySchema runs SQL migrations and/or AutoMigrate according to DB_SCHEMA_MODE.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := planSchema(cfg)
	if err != nil {
		return err
	}

	if plan.runSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return err
		}
	}
	if plan.runAuto {
		if plan.mode == SchemaModeAuto && isProdLikeEnv(cfg.Env) {
			middleware.Logger.Warn("AutoMigrate enabled in a production-like environment", slog.String("env", cfg.Env))
		}
		middleware.Logger.Info("Running GORM AutoMigrate", slog.String("mode", plan.mode), slog.String("env", cfg.Env))
		if err := Migrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// GetSchemaStatus reports the schema plan and, when SQL migrations are in
// play, which of them are still pending.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := planSchema(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               plan.mode,
		Environment:        cfg.Env,
		WillRunSQL:         plan.runSQL,
		WillRunAutoMigrate: plan.runAuto,
	}
	if !plan.runSQL {
		return status, nil
	}

	if status.AppliedVersions, err = appliedVersions(ctx, db); err != nil {
		return nil, err
	}
	if status.PendingMigrations, err = pendingMigrations(status.AppliedVersions, registered); err != nil {
		return nil, err
	}
	return status, nil
}
