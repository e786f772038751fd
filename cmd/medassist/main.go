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
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"

	"github.com/xiaoyibao/medassist/internal/config"
	"github.com/xiaoyibao/medassist/internal/handler"
	"github.com/xiaoyibao/medassist/internal/middleware"
	"github.com/xiaoyibao/medassist/internal/service"
	"github.com/xiaoyibao/medassist/internal/web"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	appCfg, err := config.LoadAppConfig(cfg.ConfigPath)
	if err != nil {
		return err
	}
	if cfg.UploadPath != "" {
		appCfg.SystemConfig.UploadPath = cfg.UploadPath
	}

	uploadDir, err := appCfg.ResolveDir(config.DirUpload)
	if err != nil {
		return err
	}
	if _, err := appCfg.ResolveDir(config.DirCache); err != nil {
		return err
	}

	gateway, err := service.NewGeminiClient(ctx, cfg.GeminiAPIKey, appCfg)
	if err != nil {
		return err
	}

	sessions := service.NewSessionStore()
	chat := service.NewChatService(appCfg, gateway, sessions)
	resolver := service.NewPromptResolver(appCfg)
	ingestor := service.NewIngestor(uploadDir)
	files := service.NewFileManager(gateway)
	auth := service.NewAuthenticator(appCfg.LoginPolicy())

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: web.NewServer(web.Deps{
			Cfg:      appCfg,
			Chat:     chat,
			Resolver: resolver,
			Ingestor: ingestor,
			Files:    files,
			Auth:     auth,
		}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cfg.BotToken != "" {
		var h *handler.Handler
		b, err := bot.New(cfg.BotToken,
			bot.WithMiddlewares(middleware.Recover(), middleware.Logging()),
			bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
				h.HandleUpdate(ctx, b, update)
			}),
		)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}

		h = handler.New(handler.Deps{
			Bot:      b,
			Cfg:      appCfg,
			Chat:     chat,
			Resolver: resolver,
			Ingestor: ingestor,
			Files:    files,
		})
		h.Register()

		go func() {
			slog.Info("telegram bot starting")
			b.Start(ctx)
		}()
	}

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	slog.Info("stopped")
	return nil
}
