package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"syscall"

	route "github.com/bassista/go_quotes/internal/api/route"
	appctx "github.com/bassista/go_quotes/internal/app"
	"github.com/bassista/go_quotes/internal/config"
	"github.com/bassista/go_quotes/internal/logger"
	"github.com/gin-gonic/gin"

	"github.com/enrichman/httpgrace"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithComponent("main").Fatalf("configuration error: %v", err)
	}

	if err := logger.SetLevel(cfg.Misc.LogLevel); err != nil {
		logger.WithComponent("main").Warnf("invalid log level '%s', keeping '%s': %v", cfg.Misc.LogLevel, logger.Logger.GetLevel(), err)
	}
	logger.WithComponent("main").Debugf("log level set to: %s", logger.Logger.GetLevel())

	app, err := appctx.NewFromConfig(cfg)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init app: %v", err)
	}
	if err := run(app); err != nil {
		logger.WithComponent("main").Fatal(err)
	}
}

// run serves app until shutdown. app is always shut down before run returns.
func run(app *appctx.App) error {
	defer app.Shutdown()

	cfg := app.Config
	if err := app.Init(app.BaseCtx); err != nil {
		return fmt.Errorf("cannot load quotes: %w", err)
	}
	if err := app.StartWatchers(); err != nil {
		return fmt.Errorf("cannot start background work: %w", err)
	}
	logger.WithComponent("main").Infof("serving quotes from %s on port %d", cfg.Data.Dir, cfg.Server.Port)

	gin.SetMode(cfg.Misc.GinMode)
	gin.DefaultWriter = logger.Logger.Writer()
	gin.DefaultErrorWriter = logger.Logger.Writer()

	r := route.SetupRoutes(app, logger.Logger)
	// Request contexts derive from BaseCtx: cancelling it ends SSE streams before shutdown.
	srv := createGraceHttpServer(app.BaseCtx, "quotes", cfg.Server, r, app.Cancel)

	if err := srv.ListenAndServe(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func createGraceHttpServer(ctx context.Context, name string, serverConfig config.ServerConfig, r *gin.Engine, beforeShutdown func()) *httpgrace.Server {
	slogLogger := slog.New(slog.NewTextHandler(logger.Logger.Writer(), nil))

	return httpgrace.NewServer(r,
		httpgrace.WithTimeout(serverConfig.ShutDownTimeout),
		httpgrace.WithSignals(syscall.SIGTERM, syscall.SIGINT),
		httpgrace.WithLogger(slogLogger),
		httpgrace.WithBeforeShutdown(func() {
			logger.WithComponent("http").Infof("shutting down %s server", name)
			beforeShutdown()
		}),
		httpgrace.WithServerOptions(
			httpgrace.WithReadTimeout(serverConfig.ReadTimeout),
			httpgrace.WithWriteTimeout(serverConfig.WriteTimeout),
			httpgrace.WithIdleTimeout(serverConfig.IdleTimeout),
			func(srv *http.Server) {
				srv.BaseContext = func(_ net.Listener) context.Context {
					return ctx
				}
			},
			func(srv *http.Server) {
				srv.ErrorLog = log.New(logger.Logger.Writer(), fmt.Sprintf("[%s] ", name), log.LstdFlags)
			},
		),
	)
}
