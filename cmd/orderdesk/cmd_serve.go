package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/orderdesk/internal/gateway"
	"github.com/user/orderdesk/internal/interpreter"
	"github.com/user/orderdesk/internal/menu"
	"github.com/user/orderdesk/internal/orderstore"
	"github.com/user/orderdesk/internal/ratelimit"
	"github.com/user/orderdesk/internal/server"
	"github.com/user/orderdesk/internal/telegram"
	"github.com/user/orderdesk/internal/tokens"
	"github.com/user/orderdesk/internal/usage"
	"github.com/user/orderdesk/pkg/llm"
	"github.com/user/orderdesk/pkg/llm/openai"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the order desk backend",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	catalog := menu.Load(cfg.MenuPath)

	meter := usage.NewMeter(usage.Rates{
		ExternalPerMinuteUSD: cfg.ExternalRatePerMinuteUSD,
		TokensPerThousandUSD: cfg.TokenRatePerThousandUSD,
		USDToINR:             cfg.USDToINR,
	})

	limiter := ratelimit.New(map[string]int{
		interpreter.ModelDependency: cfg.ModelRequestsPerMinute,
	})

	provider := openai.New(&llm.Config{
		BaseURL:     cfg.OpenAIBaseURL,
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.OpenAIModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	})

	interp := interpreter.New(provider, limiter, meter,
		tokens.NewEstimator(cfg.OpenAIModel), catalog, cfg.ShopName)

	store := orderstore.New(cfg.DataDir, meter)
	gw := gateway.New(interp, meter, int64(cfg.MaxConcurrentTurns))

	srv := server.New(server.Options{
		Gateway:       gw,
		Store:         store,
		Meter:         meter,
		Menu:          catalog,
		AdminPassword: cfg.AdminPassword,
		UPIID:         cfg.UPIID,
		ShopName:      cfg.ShopName,
		CORSOrigins:   cfg.CORSOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("order desk starting",
		"addr", cfg.HTTPAddr,
		"shop", cfg.ShopName,
		"menu_available", catalog.Available(),
		"model", cfg.OpenAIModel,
		"model_rpm", cfg.ModelRequestsPerMinute,
		"data_dir", cfg.DataDir,
	)

	if cfg.TelegramBotToken != "" {
		adapter, err := telegram.New(cfg.TelegramBotToken, gw, store, catalog)
		if err != nil {
			return fmt.Errorf("create telegram adapter: %w", err)
		}
		go adapter.Start(ctx)
		slog.Info("telegram adapter started")
	} else {
		slog.Warn("telegram adapter disabled (no token)")
	}

	if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	slog.Info("shutting down")
	return nil
}
