// Notekeeper serves a per-user note store over HTTP. Users register and log in
// to obtain a token; every note operation is scoped to the token's user.
//
// @title Notekeeper API
// @version 1.0
// @description Per-user note storage with token authentication.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey TokenAuth
// @in header
// @name auth-token
// @description JWT returned by /auth/createuser or /auth/login
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/user/notekeeper/auth"
	"github.com/user/notekeeper/config"
	"github.com/user/notekeeper/db"
	"github.com/user/notekeeper/notes"
	"github.com/user/notekeeper/users"
)

func main() {
	app := &cli.App{
		Name:  "notekeeper",
		Usage: "per-user note storage API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "load environment variables from `FILE` before reading configuration",
				Value:   ".env",
				EnvVars: []string{"NOTEKEEPER_ENV_FILE"},
			},
		},
		Before: loadEnvFile,
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and exit",
				Action: migrateOnly,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("notekeeper exited with error", "error", err)
		os.Exit(1)
	}
}

// loadEnvFile seeds the environment from the --env-file. A missing file is not
// an error; production deployments set variables directly.
func loadEnvFile(c *cli.Context) error {
	path := c.String("env-file")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// setup loads configuration and installs the JSON logger as the slog default.
func setup() (*config.AppConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

// stores bundles the user and note stores of one backend.
type stores struct {
	users users.Store
	notes notes.Store
	ping  func(context.Context) error
	close func()
}

// openStores connects to the backend named by DATABASE_URL. For PostgreSQL the
// embedded migrations run first when migrate is set; for MongoDB the indexes
// are created.
func openStores(ctx context.Context, cfg config.DatabaseConfig, migrate bool) (*stores, error) {
	backend, err := cfg.Backend()
	if err != nil {
		return nil, err
	}

	switch backend {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		sqlDB := db.NewSQLX(pool)
		if migrate {
			if err := db.RunMigrations(ctx, sqlDB.DB); err != nil {
				sqlDB.Close()
				pool.Close()
				return nil, err
			}
		}
		return &stores{
			users: users.NewPostgresStore(sqlDB),
			notes: notes.NewPostgresStore(sqlDB),
			ping:  pool.Ping,
			close: func() {
				sqlDB.Close()
				pool.Close()
			},
		}, nil

	case config.BackendMongo:
		mdb, err := db.NewMongo(ctx, cfg.URL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		userStore := users.NewMongoStore(mdb)
		noteStore := notes.NewMongoStore(mdb)
		disconnect := func() {
			if err := mdb.Client().Disconnect(context.Background()); err != nil {
				slog.Warn("error disconnecting from mongodb", "error", err)
			}
		}
		if err := userStore.EnsureIndexes(ctx); err != nil {
			disconnect()
			return nil, err
		}
		if err := noteStore.EnsureIndexes(ctx); err != nil {
			disconnect()
			return nil, err
		}
		ping := func(ctx context.Context) error { return mdb.Client().Ping(ctx, nil) }
		return &stores{users: userStore, notes: noteStore, ping: ping, close: disconnect}, nil

	default:
		slog.Warn("using in-memory storage; data is lost on exit")
		return &stores{
			users: users.NewMemoryStore(),
			notes: notes.NewMemoryStore(),
			ping:  func(context.Context) error { return nil },
			close: func() {},
		}, nil
	}
}

func serve(c *cli.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg.Database, cfg.Database.RunMigrations)
	if err != nil {
		return err
	}
	defer st.close()

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	authService := auth.NewAuthService(st.users, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens)
	noteService := notes.NewNoteService(st.notes, st.users)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      newRouter(cfg, st.ping, tokens, auth.NewHandlers(authService), notes.NewNoteHandler(noteService)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * cfg.Server.ReadTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		slog.Info("server stopped gracefully")
		return nil
	})
	return g.Wait()
}

func migrateOnly(c *cli.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	st, err := openStores(c.Context, cfg.Database, true)
	if err != nil {
		return err
	}
	st.close()
	slog.Info("migrations complete")
	return nil
}
