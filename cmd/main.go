package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/telebot.v3"

	"shift-bot/config"
	"shift-bot/internal/app/service"
	"shift-bot/internal/clock"
	"shift-bot/internal/delivery/telegram"
	"shift-bot/internal/domain"
	"shift-bot/internal/repository/sqlite"
	"shift-bot/internal/telemetry"
	"shift-bot/pkg/workerpool"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "shift-bot",
	Short:         "Telegram bot tracking work shifts and breaks",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(envFiles()...)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(envFiles()...)
		var noToken config.ErrNoToken
		if errors.As(err, &noToken) {
			cfg, err = config.FromEnv()
		}
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := sqlite.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		logger.Info("schema ready", zap.String("db", cfg.DBPath))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	rootCmd.AddCommand(migrateCmd)
}

func envFiles() []string {
	if envFile == "" {
		return nil
	}
	return []string{envFile}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger.Info("starting shift bot", zap.String("db", cfg.DBPath))

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := sqlite.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	pool := workerpool.NewWorkerPool(cfg.Workers, cfg.QueueSize)
	defer pool.Close()

	store := sqlite.NewStore(db)
	clk := clock.System{}
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c telebot.Context) {
			logger.Error("telebot error", zap.Error(err))
		},
	})
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	handler := &telegram.Handler{
		Shifts:    service.NewShiftService(store, clk),
		Breaks:    service.NewBreakService(store, clk, cfg.BreakPolicy),
		Async:     service.NewAsyncService(pool),
		Employees: service.NewEmployeeService(store.Repos().Employees),
		Clock:     clk,
		Log:       logger,
		Metrics:   metrics,
	}
	routes := handler.Register(bot)
	if err := bot.SetCommands(routes.Commands()); err != nil {
		logger.Warn("set bot commands", zap.Error(err))
	}
	if cfg.BreakPolicy != (domain.BreakPolicy{}) {
		logger.Info("strict break policy",
			zap.Bool("require_shift", cfg.BreakPolicy.RequireShift),
			zap.Bool("single_open_break", cfg.BreakPolicy.SingleOpenBreak))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("bot polling", zap.String("username", bot.Me.Username))
		bot.Start()
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		bot.Stop()
		return nil
	})

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logger.Info("shift bot stopped")
	return err
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "shift-bot:", err)
		os.Exit(1)
	}
}
