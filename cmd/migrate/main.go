package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/erp/erpcore/internal/infrastructure/config"
	"github.com/erp/erpcore/internal/infrastructure/logger"
	"github.com/erp/erpcore/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var errUsage = errors.New("usage")

type options struct {
	root   string
	scope  migration.Scope
	schema string
}

func main() {
	var (
		opts     options
		path     string
		scope    string
		logLevel string
	)
	flag.StringVar(&path, "path", defaultMigrationsPath, "Root of the migrations tree (holds shared/ and tenant/)")
	flag.StringVar(&scope, "scope", string(migration.ScopeShared), "Migration set: shared or tenant")
	flag.StringVar(&opts.schema, "schema", "", "Tenant schema (required with -scope tenant)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	opts.scope = migration.Scope(scope)
	if opts.root, err = filepath.Abs(path); err != nil {
		log.Fatal("Failed to get absolute path", zap.Error(err))
	}

	if err := run(context.Background(), opts, flag.Args(), log); err != nil {
		if errors.Is(err, errUsage) {
			if err != errUsage {
				fmt.Fprintln(os.Stderr, err)
			}
			printUsage()
			os.Exit(2)
		}
		log.Fatal("Migration command failed", zap.Error(err))
	}
}

func run(ctx context.Context, opts options, args []string, log *zap.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	command, rest := args[0], args[1:]

	// create and list work on files only
	switch command {
	case "create":
		if len(rest) == 0 {
			return fmt.Errorf("%w: create needs a migration name", errUsage)
		}
		description := ""
		if len(rest) > 1 {
			description = rest[1]
		}
		mf, err := migration.CreateMigration(opts.root, opts.scope, rest[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	case "list":
		names, err := migration.ListMigrations(filepath.Join(opts.root, string(opts.scope)))
		if err != nil {
			return err
		}
		log.Info("Available migrations", zap.String("scope", string(opts.scope)), zap.Int("count", len(names)))
		for _, name := range names {
			fmt.Println("  -", name)
		}
		return nil
	}

	m, closeDB, err := openMigrator(ctx, opts, log)
	if err != nil {
		return err
	}
	defer closeDB()
	defer m.Close()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(rest, "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "force":
		v, err := intArg(rest, "version")
		if err != nil {
			return err
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, command)
}

// openMigrator connects to the target schema, creating a tenant schema first
// when it is missing.
func openMigrator(ctx context.Context, opts options, log *zap.Logger) (*migration.Migrator, func(), error) {
	var (
		target migration.Target
		err    error
	)
	switch opts.scope {
	case migration.ScopeShared:
		target = migration.SharedTarget()
	case migration.ScopeTenant:
		if target, err = migration.TenantTarget(opts.schema); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("%w: unknown scope %q", errUsage, opts.scope)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	if target.Scope == migration.ScopeTenant {
		admin, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		err = migration.EnsureSchema(ctx, admin, target)
		_ = admin.Close()
		if err != nil {
			return nil, nil, err
		}
	}

	dsn, err := target.DSN(cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, opts.root, target, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() { _ = db.Close() }, nil
}

func intArg(args []string, name string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s required", errUsage, name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[0])
	}
	return n, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `ERP core migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  version               Show current migration version
  force <version>       Force set migration version (repairs a dirty state)
  create <name> [desc]  Create the next numbered migration file pair
  list                  List available migrations

Flags:
  -path string          Root of the migrations tree (default: ./migrations)
  -scope string         shared or tenant (default: shared)
  -schema string        Tenant schema, e.g. tenant_acme (tenant scope only)
  -log-level string     Log level: debug, info, warn, error (default: info)

Examples:
  migrate up
  migrate -scope tenant -schema tenant_acme up
  migrate -scope tenant create add_stock_index "Speed up key lookups"`)
}
