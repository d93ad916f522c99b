// Package main is the entry point for the uniadvisor service.
// It wires together all dependencies and serves either the HTTP API or
// the MCP stdio surface.
//
// This file is intentionally minimal - all business logic lives in internal/.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"uniadvisor/internal/chat"
	"uniadvisor/internal/chunker"
	"uniadvisor/internal/config"
	"uniadvisor/internal/embedding"
	"uniadvisor/internal/gate"
	"uniadvisor/internal/knowledge"
	"uniadvisor/internal/mcptools"
	"uniadvisor/internal/server"
	"uniadvisor/internal/vectorstore"
	"uniadvisor/internal/webfetch"
)

const (
	serverName    = "uniadvisor"
	serverVersion = "v0.1.0"
)

func main() {
	// MCP stdio servers must log to stderr only.
	log.SetOutput(os.Stderr)

	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	mcpMode := flag.Bool("mcp", false, "Serve MCP tools over stdio instead of HTTP")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "path", *configPath, "error", err)
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger.Info("service starting",
		"name", serverName,
		"version", serverVersion,
		"data_file", cfg.Knowledge.DataFile,
	)

	// --- 1. Embedder and vector store ---

	var embedder embedding.Embedder
	switch cfg.Embedder.Type {
	case "ollama":
		ollama, err := embedding.NewOllamaEmbedder(embedding.Config{
			Host:  cfg.Embedder.Host,
			Model: cfg.Embedder.Model,
		})
		if err != nil {
			logger.Warn("ollama embedder unavailable, using local embedder", "error", err)
			embedder = embedding.NewLocalEmbedder(cfg.Embedder.Dimension)
		} else {
			embedder = ollama
			logger.Info("using ollama embedder", "host", cfg.Embedder.Host, "model", cfg.Embedder.Model)
		}
	default:
		embedder = embedding.NewLocalEmbedder(cfg.Embedder.Dimension)
	}

	store := vectorstore.NewMemory(embedder)

	// --- 2. Web content collaborator ---

	var scraper webfetch.Scraper
	switch cfg.Scraper.Type {
	case "firecrawl":
		fc, err := webfetch.NewFirecrawl(webfetch.FirecrawlConfig{
			APIKey: config.FirecrawlAPIKey(),
		})
		if err != nil {
			logger.Warn("firecrawl unavailable, using direct HTTP fetcher", "error", err)
			scraper = webfetch.NewHTTPFetcher()
		} else {
			scraper = fc
			logger.Info("using firecrawl scraper")
		}
	default:
		scraper = webfetch.NewHTTPFetcher()
	}

	// --- 3. Knowledge base ---

	kb := knowledge.New(store, chunker.New(cfg.Knowledge.ChunkSize), scraper,
		knowledge.OSFileStore{}, cfg.Knowledge.DataFile, logger)

	n, err := kb.LoadFile(context.Background())
	if err != nil {
		logger.Warn("initial corpus load failed, starting with empty knowledge base",
			"data_file", cfg.Knowledge.DataFile, "error", err)
	} else {
		logger.Info("corpus loaded", "chunks", n)
	}

	// --- 4. Chat service ---

	var model chat.Synthesizer
	if cfg.Model.Model != "" {
		modelCfg := chat.ModelConfig{
			Host:        cfg.Model.Host,
			Model:       cfg.Model.Model,
			MaxTokens:   cfg.Model.MaxTokens,
			Temperature: cfg.Model.Temperature,
			Timeout:     time.Duration(cfg.Model.TimeoutSecs) * time.Second,
		}
		client, err := chat.NewOllamaModel(modelCfg)
		if err != nil {
			logger.Warn("chat model unavailable, answers use extractive fallback", "error", err)
		} else {
			model = chat.NewModel(client, modelCfg)
			logger.Info("using chat model", "host", cfg.Model.Host, "model", cfg.Model.Model)
		}
	} else {
		logger.Info("no chat model configured, answers use extractive fallback")
	}

	svc := chat.NewService(gate.New(), kb, model, logger)

	// --- 5. Serve ---

	if *mcpMode {
		runMCP(svc, kb, logger)
		return
	}
	runHTTP(cfg.Server.Addr, svc, kb, logger)
}

func runHTTP(addr string, svc *chat.Service, kb *knowledge.Base, logger *slog.Logger) {
	srv := server.New(svc, kb, logger)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("http server listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil {
		logger.Error("http server error", "error", err)
		log.Fatal(err)
	}
}

func runMCP(svc *chat.Service, kb *knowledge.Base, logger *slog.Logger) {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, &mcp.ServerOptions{
		Instructions: "Use ask for questions about UK universities, kb_search for raw passage lookup, and kb_stats for corpus size.",
	})

	handlers := mcptools.NewHandlers(svc, kb, logger)
	mcptools.Register(mcpServer, handlers)

	logger.Info("mcp server ready, waiting for requests")
	if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("mcp server error", "error", err)
		log.Fatal(err)
	}
}
