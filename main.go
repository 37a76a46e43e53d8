package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/majubom/majubom/api"
	"github.com/majubom/majubom/chat"
	"github.com/majubom/majubom/config"
	"github.com/majubom/majubom/database"
	"github.com/majubom/majubom/embeddings"
	"github.com/majubom/majubom/ingestion"
	"github.com/majubom/majubom/llm"
	"github.com/majubom/majubom/retrieval"
	"github.com/majubom/majubom/splitter"
	"github.com/majubom/majubom/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	switch os.Args[1] {
	case "serve":
		serveCmd(cfg, logger, os.Args[2:])
	case "ingest":
		ingestCmd(cfg, logger, os.Args[2:])
	case "chat":
		chatCmd(cfg, logger, os.Args[2:])
	case "clear":
		clearCmd(cfg, logger, os.Args[2:])
	default:
		logger.Error("unknown command", zap.String("command", os.Args[1]))
		printUsage()
		os.Exit(1)
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// deps bundles the long-lived collaborators the commands share.
type deps struct {
	store    *store.Store
	embedder embeddings.Embedder
	split    *splitter.CharacterSplitter
	close    func()
}

func buildDeps(ctx context.Context, cfg config.Config, logger *zap.Logger) (*deps, error) {
	pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("postgres connection: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("embedder setup: %w", err)
	}
	embedder = embeddings.NewCachedEmbedder(embedder, time.Hour)

	st, err := store.Connect(ctx, pool, embedder, logger, cfg.Collection, cfg.EmbeddingDimension)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("vector store: %w", err)
	}

	split, err := splitter.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("splitter setup: %w", err)
	}

	return &deps{
		store:    st,
		embedder: embedder,
		split:    split,
		close:    pool.Close,
	}, nil
}

func buildChatService(cfg config.Config, d *deps, logger *zap.Logger) (*chat.Service, error) {
	generator, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("llm setup: %w", err)
	}

	// A second, independently constructed instance handles translation
	// calls only.
	translator, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("translator setup: %w", err)
	}

	retriever := retrieval.New(d.store, d.embedder, cfg.TopK, cfg.FetchK)
	return chat.NewService(retriever, generator, translator, logger), nil
}

func serveCmd(cfg config.Config, logger *zap.Logger, args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", cfg.ServerAddr, "listen address")
	if err := flags.Parse(args); err != nil {
		logger.Fatal("parse serve flags", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("setup failed", zap.Error(err))
	}
	defer d.close()

	svc, err := buildChatService(cfg, d, logger)
	if err != nil {
		logger.Fatal("chat setup failed", zap.Error(err))
	}

	ingester := func(ctx context.Context, dir string) (int, error) {
		return ingestion.NewService(cfg.DataAPIKey, logger).IngestDirectory(ctx, dir, d.split, d.store)
	}

	server := &http.Server{
		Addr:    *addr,
		Handler: api.NewServer(svc, ingester, logger),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("serving chat API", zap.String("addr", *addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func ingestCmd(cfg config.Config, logger *zap.Logger, args []string) {
	flags := flag.NewFlagSet("ingest", flag.ExitOnError)
	dataDir := flags.String("dir", cfg.DataDir, "directory containing PDF, JSON and CSV sources")
	openData := flags.Bool("opendata", false, "also pull the public data-portal APIs")
	if err := flags.Parse(args); err != nil {
		logger.Fatal("parse ingest flags", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("setup failed", zap.Error(err))
	}
	defer d.close()

	svc := ingestion.NewService(cfg.DataAPIKey, logger)

	total, err := svc.IngestDirectory(ctx, *dataDir, d.split, d.store)
	if err != nil {
		logger.Fatal("ingestion failed", zap.Error(err))
	}

	if *openData {
		count, err := svc.IngestOpenData(ctx, d.split, d.store)
		if err != nil {
			logger.Fatal("open data ingestion failed", zap.Error(err))
		}
		total += count
	}

	logger.Info("ingestion complete", zap.Int("chunks", total))
}

func chatCmd(cfg config.Config, logger *zap.Logger, args []string) {
	flags := flag.NewFlagSet("chat", flag.ExitOnError)
	question := flags.String("question", "", "question to ask")
	area := flags.String("area", "", "residence area, e.g. 강남구")
	visa := flags.String("visa", "", "visa status, e.g. 결혼이민")
	language := flags.String("language", "", "preferred answer language")
	if err := flags.Parse(args); err != nil {
		logger.Fatal("parse chat flags", zap.Error(err))
	}

	if strings.TrimSpace(*question) == "" {
		fmt.Print("질문을 입력하세요: ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			*question = scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			logger.Fatal("read question", zap.Error(err))
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("setup failed", zap.Error(err))
	}
	defer d.close()

	svc, err := buildChatService(cfg, d, logger)
	if err != nil {
		logger.Fatal("chat setup failed", zap.Error(err))
	}

	profile := chat.UserProfile{
		ResidenceArea:     *area,
		VisaStatus:        *visa,
		PreferredLanguage: *language,
	}

	answer, err := svc.Answer(ctx, *question, profile, nil)
	if err != nil {
		logger.Fatal("chat failed", zap.Error(err))
	}

	fmt.Println(answer)
}

func clearCmd(cfg config.Config, logger *zap.Logger, args []string) {
	flags := flag.NewFlagSet("clear", flag.ExitOnError)
	confirmed := flags.Bool("confirm", false, "skip confirmation prompt")
	if err := flags.Parse(args); err != nil {
		logger.Fatal("parse clear flags", zap.Error(err))
	}

	if !*confirmed {
		fmt.Printf("Collection %q의 모든 데이터를 삭제합니다. 계속할까요? [y/N]: ", cfg.Collection)
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			logger.Info("clear aborted")
			return
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer != "y" && answer != "yes" {
			logger.Info("clear aborted")
			return
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("setup failed", zap.Error(err))
	}
	defer d.close()

	if err := d.store.Clear(ctx); err != nil {
		logger.Fatal("clear failed", zap.Error(err))
	}
	logger.Info("collection cleared", zap.String("collection", cfg.Collection))
}

func printUsage() {
	fmt.Println("Usage: majubom <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  serve    Run the chat HTTP API")
	fmt.Println("  ingest   Ingest welfare documents into the vector store (--dir, --opendata)")
	fmt.Println("  chat     Ask a one-shot question from the terminal")
	fmt.Println("  clear    Delete all entries in the configured collection")
}
