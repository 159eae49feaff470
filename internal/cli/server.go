package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"globetrotter/internal/app"
	"globetrotter/internal/auth"
	"globetrotter/internal/config"
	"globetrotter/internal/infra/memory"
	transport "globetrotter/internal/transport/http"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runServer(ctx, *configPath, *port)
		},
	}
	cmd.Flags().StringVar(port, "port", os.Getenv("PORT"), "port to listen on (overrides config)")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(os.Stdout, cfg)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("auth jwt_secret not set, tokens will not survive a restart")
	}
	issuer := auth.NewIssuer(secret, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))

	board := app.NewLeaderboardService(b.users, cfg.Leaderboard.Limit, logger)
	svc := transport.Services{
		Users: app.NewUserService(b.users, b.challenges, issuer, b.denylist),
		Questions: app.NewQuestionService(b.catalog, b.users, board, app.QuestionConfig{
			OptionsPerQuestion: cfg.Game.OptionsPerQuestion,
			MatchMode:          app.MatchMode(cfg.Game.AnswerMatch),
		}),
		Leaderboard: board,
		Challenges: app.NewChallengeService(b.challenges, b.users,
			config.TTLDuration(cfg.Game.ChallengeTTL, app.DefaultChallengeTTL), cfg.Server.PublicURL),
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	addr := ":" + finalPort

	srv := transport.New(transport.Options{
		Addr:          addr,
		Logger:        logger,
		Production:    cfg.Production(),
		AllowedOrigin: cfg.Server.FrontendURL,
		HealthChecks:  b.healthChecks,
	}, svc)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", addr, "mode", cfg.Server.Mode, "destinations", b.destinationDriver)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		return board.Run(gctx)
	})

	if len(b.reapers) > 0 {
		g.Go(func() error {
			interval := config.TTLDuration(cfg.Game.ReaperInterval, time.Minute)
			return memory.RunReaper(gctx, interval, logger, b.reapers...)
		})
	}

	return g.Wait()
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Log.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", "globetrotter")
}
