package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/config"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/admin"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/emergency"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/facility"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/staff"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/platform/auth"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/platform/db"
	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/platform/middleware"
	"github.com/singh-deepanshu-578/SmartCare-HMS/migrations"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "hms-server",
		Short: "SmartCare hospital emergency intake API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// openPool loads configuration and connects to the database.
func openPool(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, migrationSource(cmd, cfg)).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Read migrations from this directory instead of the embedded schema")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, migrationSource(cmd, cfg)).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printStatus(cmd, statuses)
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Read migrations from this directory instead of the embedded schema")
	cmd.AddCommand(statusCmd)

	return cmd
}

// migrationSource picks the --dir flag, then MIGRATIONS_DIR, then the schema
// compiled into the binary.
func migrationSource(cmd *cobra.Command, cfg *config.Config) fs.FS {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = cfg.MigrationsDir
	}
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}

func printStatus(cmd *cobra.Command, statuses []db.MigrationStatus) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	for _, s := range statuses {
		status, appliedAt := "pending", ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format(time.DateTime)
			}
		}
		fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo doctors and hospitals if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			var res seedResult
			err = db.WithTx(ctx, pool, func(ctx context.Context) error {
				var err error
				res, err = seed(ctx, staff.NewDoctorRepoPG(pool), facility.NewHospitalRepoPG(pool))
				return err
			})
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d doctor(s) and %d hospital(s); %d already present.\n",
				res.Doctors, res.Hospitals, res.Skipped)
			return nil
		},
	}
}

// services bundles the domain services behind the HTTP surface.
type services struct {
	staff     *staff.Service
	facility  *facility.Service
	emergency *emergency.Service
	admin     *admin.Service
}

func newServices(pool *pgxpool.Pool, cfg *config.Config, logger zerolog.Logger) *services {
	staffSvc := staff.NewService(staff.NewDoctorRepoPG(pool), staff.NewActivityRepoPG(pool), logger)
	facilitySvc := facility.NewService(facility.NewHospitalRepoPG(pool))

	emergencySvc := emergency.NewService(
		emergency.NewCaseRepoPG(pool),
		emergency.NewHomeCareRepoPG(pool),
		staffSvc,
		facilitySvc,
		staffSvc,
		logger,
		emergency.Config{
			MaxTokenAttempts:  cfg.TokenMaxAttempts,
			StrictTransitions: cfg.StrictStatusTransitions,
		},
	)
	emergencySvc.SetTxRunner(func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	})

	return &services{
		staff:     staffSvc,
		facility:  facilitySvc,
		emergency: emergencySvc,
		admin:     admin.NewService(staffSvc, facilitySvc, emergencySvc, logger),
	}
}

type routeRegistrar interface {
	RegisterRoutes(api *echo.Group, _ *echo.Group)
}

func (s *services) handlers() []routeRegistrar {
	return []routeRegistrar{
		staff.NewHandler(s.staff),
		facility.NewHandler(s.facility),
		emergency.NewHandler(s.emergency),
		admin.NewHandler(s.admin),
	}
}

// newLimiter shares rate limits through Redis when REDIS_URL is set and keeps
// them in process otherwise.
func newLimiter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (middleware.Limiter, func(), error) {
	if cfg.RedisURL == "" {
		rl := middleware.RateLimitConfig{RequestsPerSecond: cfg.RateLimitRPS, BurstSize: cfg.RateLimitBurst}
		if rl.RequestsPerSecond <= 0 {
			rl = middleware.DefaultRateLimitConfig()
		}
		mem := middleware.NewMemoryLimiter(rl)
		sweepCtx, cancel := context.WithCancel(ctx)
		mem.StartSweeper(sweepCtx, 10*time.Minute)
		return mem, cancel, nil
	}

	client, err := middleware.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Int("limit", cfg.RedisWindowLimit()).Dur("window", cfg.RateLimitWindow).Msg("rate limiting through redis")
	return middleware.NewRedisLimiter(client, cfg.RedisWindowLimit(), cfg.RateLimitWindow), func() { client.Close() }, nil
}

// newEcho builds the router. pool may be nil in tests, in which case the
// database health endpoint is not mounted.
func newEcho(cfg *config.Config, logger zerolog.Logger, limiter middleware.Limiter, pool *pgxpool.Pool, hs []routeRegistrar) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.TLSEnabled))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader, "X-Doctor-ID"},
	}))
	e.Use(echomw.BodyLimit("64K"))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout, "/api/v1/emergency-cases/export"))

	if cfg.ResolvedAuthMode() == "development" {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
			JWKSURL:  cfg.AuthJWKSURL,
			Skipper:  auth.AuthSkipper,
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": version})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(limiter, logger))
	for _, h := range hs {
		h.RegisterRoutes(apiV1, nil)
	}
	return e
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := newLogger(os.Getenv("ENV"))
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	limiter, closeLimiter, err := newLimiter(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up rate limiting")
	}
	defer closeLimiter()

	e := newEcho(cfg, logger, limiter, pool, newServices(pool, cfg, logger).handlers())

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("auth_mode", cfg.ResolvedAuthMode()).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
