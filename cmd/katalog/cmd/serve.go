package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/katalog/internal/client"
	"github.com/erazemk/katalog/internal/config"
	"github.com/erazemk/katalog/internal/db"
	"github.com/erazemk/katalog/internal/httplog"
	"github.com/erazemk/katalog/internal/web"
)

// sweepInterval is how often expired sessions are purged.
const sweepInterval = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin web interface",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveKeys = map[string]string{
	config.KeyAddr:           "addr",
	config.KeyDB:             "db",
	config.KeyAPIURL:         "api-url",
	config.KeyCookieSecure:   "cookie-secure",
	config.KeySessionTTL:     "session-ttl",
	config.KeyRequestTimeout: "request-timeout",
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.StringP("addr", "a", ":8080", "listen address")
	flags.StringP("db", "d", "katalog.sqlite3", "SQLite database for sessions")
	flags.String("api-url", client.DefaultBaseURL, "base URL of the catalog backend")
	flags.Bool("cookie-secure", false, "mark the session cookie Secure (serve behind HTTPS)")
	flags.Duration("session-ttl", 24*time.Hour, "how long a login is kept")
	flags.Duration("request-timeout", 0, "backend request timeout (0 = none)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, closeLog, err := loadConfig(cmd, serveKeys)
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := db.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.DB)

	srv, err := web.NewServer(web.Config{
		DB:           database,
		Backend:      client.Config{BaseURL: cfg.APIURL, Timeout: cfg.RequestTimeout},
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
		Logger:       slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("setting up web server: %w", err)
	}
	slog.Info("using catalog backend", "url", cfg.APIURL)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go srv.RunSweeper(ctx, sweepInterval)

	return listenAndServe(ctx, cfg.Addr, httplog.Middleware(slog.Default())(srv.Handler()))
}
