package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/massivelabs/mcp-massive/internal/config"
	"github.com/massivelabs/mcp-massive/internal/httpx"
	"github.com/massivelabs/mcp-massive/internal/massive"
	"github.com/massivelabs/mcp-massive/internal/proc"
	"github.com/massivelabs/mcp-massive/internal/tools"
	"github.com/massivelabs/mcp-massive/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	envFile := flag.String("env-file", ".env", "path to .env file")
	transport := flag.String("transport", "", "MCP transport: stdio, sse, or streamable-http (overrides config)")
	host := flag.String("host", "", "listen host for HTTP transports (overrides config)")
	port := flag.Int("port", 0, "listen port for HTTP transports (overrides config)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	freePort := flag.Bool("free-port", false, "terminate any process already listening on the port before starting")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Log to stderr: stdout belongs to the stdio transport.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("starting mcp-massive",
		"version", version.Version,
		"commit", version.Commit,
	)

	if err := config.LoadDotenv(*envFile); err != nil {
		logger.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath, *transport, *host, *port)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"transport", cfg.Server.Transport,
		"api_url", cfg.API.BaseURL,
		"strict_calendar", cfg.Options.StrictCalendar,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := massive.NewClient(
		cfg.API.BaseURL,
		cfg.API.Key,
		massive.WithLogger(logger),
		massive.WithTimeout(cfg.API.Timeout),
		massive.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	// Fail fast on a missing or rejected key rather than on the first
	// tool call. Transient upstream trouble does not block startup.
	keyCtx, keyCancel := context.WithTimeout(ctx, 10*time.Second)
	err = client.ValidateKey(keyCtx)
	keyCancel()
	if err != nil {
		logger.Error("api key validation failed", "error", err)
		os.Exit(1)
	}
	logger.Info("api key validated")

	mcpServer := server.NewMCPServer("mcp-massive", version.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Proxies the Massive market-data API. Build or decode OCC option tickers, fetch option chain snapshots, or query arbitrary API paths."),
	)

	tools.Register(mcpServer, tools.Deps{
		Client:         client,
		Logger:         logger,
		LadderStep:     cfg.Ladder.Step,
		MinStrike:      cfg.Ladder.MinStrike,
		MaxStrike:      cfg.Ladder.MaxStrike,
		StrictCalendar: cfg.Options.StrictCalendar,
	})

	if cfg.Server.Transport == config.TransportStdio {
		logger.Info("serving on stdio")
		if err := server.ServeStdio(mcpServer); err != nil {
			logger.Error("stdio server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := serveHTTP(ctx, logger, cfg, mcpServer, *freePort); err != nil {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig builds the effective configuration from file, environment
// and flag overrides, then validates it.
func loadConfig(path, transport, host string, port int) (*config.ServerConfig, error) {
	var cfg *config.ServerConfig
	var err error
	if path != "" {
		cfg, err = config.LoadWithDefaults(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if transport != "" {
		cfg.Server.Transport = transport
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serveHTTP runs the SSE or streamable HTTP transport, optionally
// freeing the port and holding an ngrok tunnel for the server's
// lifetime.
func serveHTTP(ctx context.Context, logger *slog.Logger, cfg *config.ServerConfig, mcpServer *server.MCPServer, freePort bool) error {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	if freePort {
		if err := proc.FreePort(ctx, logger, cfg.Server.Port); err != nil {
			return fmt.Errorf("free port %d: %w", cfg.Server.Port, err)
		}
	}

	var handler http.Handler
	switch cfg.Server.Transport {
	case config.TransportSSE:
		handler = server.NewSSEServer(mcpServer)
	case config.TransportStreamableHTTP:
		handler = server.NewStreamableHTTPServer(mcpServer)
	default:
		return fmt.Errorf("unsupported transport %q", cfg.Server.Transport)
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: httpx.Wrap(handler),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving http", "transport", cfg.Server.Transport, "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	tunnelDone := make(<-chan error)
	if cfg.Tunnel.Enabled {
		tunnel, err := proc.StartTunnel(logger, cfg.Tunnel.Binary, cfg.Server.Port, cfg.Tunnel.Domain, cfg.Tunnel.ExtraArgs)
		if err != nil {
			shutdown(httpServer, logger)
			<-errCh
			return err
		}
		defer tunnel.Stop()
		tunnelDone = tunnel.Done()
	}

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-tunnelDone:
		logger.Error("tunnel exited", "error", err)
	case err := <-errCh:
		return err
	}

	shutdown(httpServer, logger)
	return <-errCh
}

func shutdown(httpServer *http.Server, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", "error", err)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
