// Command candyland starts the Candy Land game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, the config, save slot and session directories,
// logging, version output, and optional ngrok tunneling for easy external
// access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/candyland-game/api"
	"github.com/wricardo/candyland-game/game/config"
	"github.com/wricardo/candyland-game/game/savegame"
	"github.com/wricardo/candyland-game/game/service"
	"github.com/wricardo/candyland-game/game/session"
	"github.com/wricardo/candyland-game/transport/mcp"
	"github.com/wricardo/candyland-game/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Candy Land Game Server"
)

// Configuration flags control how the server starts and which services are enabled.
var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	configDir    = flag.String("config-dir", envDefault("CONFIG_DIR", "configs"), "Directory containing game configurations")
	savesDir     = flag.String("saves-dir", envDefault("SAVES_DIR", "."), "Directory holding the saved_game_data_<slot>.txt files")
	sessionsDir  = flag.String("sessions-dir", envDefault("SESSIONS_DIR", "sessions"), "Directory for session snapshots")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	logFormat    = flag.String("log-format", envDefault("LOG_FORMAT", "text"), "Log format: text or json")
	version      = flag.Bool("version", false, "Show version information")
	finishedTTL  = flag.Duration("finished-ttl", time.Hour, "Delete finished games unused for this long (0 keeps them)")
	idleTTL      = flag.Duration("idle-ttl", 24*time.Hour, "Evict unfinished games from memory after this long unused (0 keeps them)")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

const (
	cleanupInterval = time.Hour
	syncInterval    = 5 * time.Second
)

// envDefault returns the environment variable key, or fallback when unset.
func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                       # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090            # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -saves-dir saves      # Keep save slots in ./saves\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp             # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	envErr := godotenv.Load()

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	setupLogging(*debug, *logFormat)

	// .env is optional
	if envErr == nil {
		log.Debug("loaded environment variables from .env file")
	} else if !os.IsNotExist(envErr) {
		log.WithError(envErr).Warn("error loading .env file")
	}

	mode := "server"
	if args := flag.Args(); len(args) > 0 {
		mode = args[0]
	}

	log.WithFields(log.Fields{
		"version": Version,
		"mode":    mode,
	}).Infof("starting %s", AppName)

	svc, err := initializeServices()
	if err != nil {
		log.WithError(err).Fatal("failed to initialize services")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		err = runStdioMCPWithInternalServer(ctx, svc)
	case "server", "http":
		err = runHTTPServer(ctx, svc)
	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
	if err != nil {
		log.WithError(err).Fatal("server stopped with error")
	}
	log.Info("server stopped")
}

// setupLogging configures the global logrus logger.
func setupLogging(debug bool, format string) {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// services holds the wired game stack.
type services struct {
	game        service.GameService
	sessions    *session.Manager
	persistence session.SessionPersistence
}

// initializeServices wires session/config managers, the save slot store and
// the game service.
func initializeServices() (*services, error) {
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(*sessionsDir, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManager(session.WithPersistence(persistence))
	if _, err := sessionManager.Restore(); err != nil {
		log.WithError(err).Warn("failed to load persisted sessions")
	}

	if err := os.MkdirAll(*savesDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create saves directory: %w", err)
	}
	saves := savegame.NewSlotStore(*savesDir)

	log.WithFields(log.Fields{
		"config_dir":   *configDir,
		"saves_dir":    *savesDir,
		"sessions_dir": *sessionsDir,
		"sessions":     sessionManager.Count(),
	}).Info("services initialized")

	return &services{
		game:        service.NewGameService(sessionManager, configManager, saves),
		sessions:    sessionManager,
		persistence: persistence,
	}, nil
}

// startMaintenance runs the session cleanup and filesystem sync loops in g.
func (s *services) startMaintenance(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error {
		sessionCleanupRoutine(ctx, s.sessions, session.Retention{Finished: *finishedTTL, Idle: *idleTTL})
		return nil
	})
	g.Go(func() error {
		filesystemSyncRoutine(ctx, s.sessions, s.persistence)
		return nil
	})
}

// mcpHandler serves single JSON-RPC messages against the MCP client.
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newRouter combines the REST API, WebSocket endpoint and /mcp proxy.
func newRouter(gameService service.GameService, hub *websocket.Hub, baseURL string) http.Handler {
	apiServer := api.NewServer(gameService, hub)
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcp.NewClient(baseURL)))
	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, svc *services) error {
	g, ctx := errgroup.WithContext(ctx)

	hub := websocket.NewHub()
	g.Go(func() error { return hub.Run(ctx) })

	addr := fmt.Sprintf("%s:%d", *host, *port)
	handler := newRouter(svc.game, hub, fmt.Sprintf("http://%s", addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g.Go(func() error {
		log.WithFields(log.Fields{
			"rest_api":  fmt.Sprintf("http://%s/api", addr),
			"websocket": fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp":       fmt.Sprintf("http://%s/mcp", addr),
		}).Infof("HTTP server listening on %s", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("HTTP server shutdown error")
		}
		if err := svc.sessions.Flush(); err != nil {
			log.WithError(err).Warn("failed to save sessions on shutdown")
		}
		return nil
	})

	if ngrokRequested() {
		g.Go(func() error {
			runNgrok(ctx, handler)
			return nil
		})
	}

	svc.startMaintenance(ctx, g)

	return g.Wait()
}

// ngrokRequested reports whether the tunnel is enabled by flag or NGROK_ENABLED.
func ngrokRequested() bool {
	if *ngrokEnabled {
		return true
	}
	env := os.Getenv("NGROK_ENABLED")
	return env == "true" || env == "1"
}

// runNgrok serves handler through an ngrok tunnel until ctx is done. A
// tunnel that cannot start is logged and otherwise ignored.
func runNgrok(ctx context.Context, handler http.Handler) {
	authToken := *ngrokAuth
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
		if authToken == "" {
			authToken = os.Getenv("NGROK_AUTH_TOKEN")
		}
	}
	if authToken == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.WithField("domain", domain).Info("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.WithError(err).Warn("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.WithError(err).Debug("failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.WithFields(log.Fields{
		"rest_api":  ngrokURL + "/api",
		"websocket": ngrokURL + "/ws?session=<session_id>",
		"mcp":       ngrokURL + "/mcp",
	}).Infof("ngrok tunnel established: %s", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.WithError(err).Warn("ngrok server error")
	}
	log.Info("ngrok tunnel closed")
}

// sessionCleanupRoutine periodically applies the retention policy: finished
// games are deleted, idle unfinished ones are evicted to disk.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, retention session.Retention) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, evicted := manager.Expire(retention)
			stats := manager.Stats()
			log.WithFields(log.Fields{
				"deleted":     deleted,
				"evicted":     evicted,
				"in_progress": stats.InProgress,
				"finished":    stats.Finished,
			}).Info("session retention pass")
		}
	}
}

// filesystemSyncRoutine periodically syncs in-memory sessions with filesystem state.
// It removes sessions from memory when their corresponding files are deleted.
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	if persistence == nil {
		return
	}

	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruneOrphanedSessions(manager, persistence)
		}
	}
}

// pruneOrphanedSessions drops sessions whose snapshot file was deleted and
// returns how many were removed.
func pruneOrphanedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.Evict(sess.ID); err == nil {
			pruned++
			log.WithField("session", sess.ID).Info("pruned session from memory (file deleted)")
		}
	}
	return pruned
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API on the configured port; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, svc *services) error {
	g, ctx := errgroup.WithContext(ctx)

	externalURL := fmt.Sprintf("http://localhost:%d", *port)
	baseURL := externalURL
	log.WithField("url", externalURL).Info("checking for external API server")

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil && resp.StatusCode == http.StatusOK {
		resp.Body.Close()
		log.WithField("url", externalURL).Info("external API server found, using it for MCP")
	} else {
		if resp != nil {
			resp.Body.Close()
		}
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		log.WithField("url", baseURL).Info("no external API server found, starting internal HTTP server")

		hub := websocket.NewHub()
		g.Go(func() error { return hub.Run(ctx) })

		httpServer := &http.Server{Handler: api.NewServer(svc.game, hub)}
		g.Go(func() error {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("internal http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			return httpServer.Close()
		})
		svc.startMaintenance(ctx, g)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.WithField("api", baseURL).Info("MCP stdio server ready")

	stdio := server.NewStdioServer(mcpClient.GetMCPServer())
	g.Go(func() error {
		err := stdio.Listen(ctx, os.Stdin, os.Stdout)
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("mcp stdio server: %w", err)
		}
		// stdin closed: stop the internal server too
		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
