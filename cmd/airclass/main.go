package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/airclass/airclass/internal/config"
	"github.com/airclass/airclass/internal/handler"
	"github.com/airclass/airclass/internal/job"
	"github.com/airclass/airclass/internal/kvstore"
	"github.com/airclass/airclass/internal/llm"
	"github.com/airclass/airclass/internal/rag"
	"github.com/airclass/airclass/internal/ragclient"
	"github.com/airclass/airclass/internal/schedule"
	"github.com/airclass/airclass/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "airclass",
		Short: "airclass course portal backend",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run airclass server",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json (optional)")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("kvstore", cfg.KVStore.Type),
		zap.Bool("rag_backend", cfg.RAG.BackendURL != ""),
	)

	kv, err := kvstore.New(cfg.KVStore.Type, cfg.KVStore.Data)
	if err != nil {
		return fmt.Errorf("init kvstore: %w", err)
	}
	ragStore, err := rag.NewDefaultStore(cfg.Chunks.ExtraPath)
	if err != nil {
		return fmt.Errorf("init chunk store: %w", err)
	}

	chatter, err := buildChatter(cfg.AI)
	if err != nil {
		return fmt.Errorf("init llm providers: %w", err)
	}

	ragClient := ragclient.New(cfg.RAG.BackendURL, time.Duration(cfg.RAG.TimeoutSeconds)*time.Second)
	conv := service.NewConversationTracker()

	chatService := service.NewChatService(ragClient, chatter, ragStore, conv, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	threadService := service.NewThreadService(kv, ragClient, conv)
	commentService := service.NewCommentService(kv)
	exportService := service.NewExportService(threadService)
	courseService := service.NewCourseService()

	router := handler.NewRouter(handler.RouterDeps{
		Chat:          handler.NewChatHandler(chatService, ragClient),
		Threads:       handler.NewThreadHandler(threadService, exportService),
		Comments:      handler.NewCommentHandler(commentService),
		Courses:       handler.NewCourseHandler(courseService),
		CORSAllowlist: cfg.CORSAllowlist,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Retention.MaxAgeDays > 0 {
		scheduler := schedule.NewCronScheduler()
		maxAge := time.Duration(cfg.Retention.MaxAgeDays) * 24 * time.Hour
		if err := scheduler.AddJob(job.NewRetentionJob(threadService, commentService, maxAge), cfg.Retention.Cron); err != nil {
			return fmt.Errorf("schedule retention job: %w", err)
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: router}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildChatter chains the configured hosted providers in priority order.
// A provider without an API key is skipped; nil means none are usable.
func buildChatter(cfg config.AIConfig) (llm.Chatter, error) {
	type candidate struct {
		name     string
		provider config.ProviderConfig
	}
	var entries []llm.ChatterEntry
	for _, cand := range []candidate{
		{name: "huggingface", provider: cfg.HuggingFace},
		{name: "openai", provider: cfg.OpenAI},
		{name: "gemini", provider: cfg.Gemini},
	} {
		if cand.provider.APIKey == "" {
			continue
		}
		provider, err := llm.New(cand.name, map[string]interface{}{
			"api_key":     cand.provider.APIKey,
			"max_tokens":  cfg.MaxTokens,
			"temperature": cfg.Temperature,
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, llm.ChatterEntry{
			Name:    cand.name,
			Chatter: llm.NewChatter(provider, cand.provider.Model),
		})
	}
	return llm.NewGroupChatter(entries), nil
}
