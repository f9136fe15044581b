package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/katalog/internal/config"
	"github.com/erazemk/katalog/internal/db"
	"github.com/erazemk/katalog/internal/httplog"
	"github.com/erazemk/katalog/internal/mockapi"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run an in-process catalog backend for development",
	Long: `mock serves the catalog REST API from a local SQLite database.

Without --admin-email the first administrator is created through the
bootstrap endpoint, which is enabled by --bootstrap-secret.`,
	Args: cobra.NoArgs,
	RunE: runMock,
}

var (
	mockAdminEmail string
	mockAdminName  string
)

var mockKeys = map[string]string{
	config.KeyMockAddr:        "addr",
	config.KeyMockDB:          "db",
	config.KeyBootstrapSecret: "bootstrap-secret",
}

func init() {
	rootCmd.AddCommand(mockCmd)

	flags := mockCmd.Flags()
	flags.StringP("addr", "a", ":3000", "listen address")
	flags.StringP("db", "d", ":memory:", "SQLite database of the mock backend")
	flags.String("bootstrap-secret", "", "enable POST /admin/bootstrap with this secret")
	flags.StringVar(&mockAdminEmail, "admin-email", "", "create an administrator with this email on first run")
	flags.StringVar(&mockAdminName, "admin-name", "Admin", "name of the administrator created on first run")
}

func runMock(cmd *cobra.Command, _ []string) error {
	cfg, closeLog, err := loadConfig(cmd, mockKeys)
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := db.Open(cfg.MockDB)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.EnsureBackendSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.MockDB)

	ctx := cmd.Context()
	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}

	admins, err := store.CountAdmins(ctx, database)
	if err != nil {
		return err
	}
	if admins == 0 && mockAdminEmail != "" {
		password, err := createAdmin(ctx, database, mockAdminName, mockAdminEmail)
		if err != nil {
			return err
		}
		printAdminResult(mockAdminEmail, password)
		admins++
	}
	if admins == 0 && strings.TrimSpace(cfg.BootstrapSecret) == "" {
		slog.Warn("no administrator exists and bootstrap is disabled; pass --admin-email or --bootstrap-secret")
	}

	router := mockapi.NewRouter(database, mockapi.Config{
		JWTSecret:       jwtSecret,
		BootstrapSecret: strings.TrimSpace(cfg.BootstrapSecret),
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return listenAndServe(ctx, cfg.MockAddr, httplog.Middleware(slog.Default())(router))
}

// createAdmin creates an administrator with a random password.
func createAdmin(ctx context.Context, database *sql.DB, name, email string) (string, error) {
	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := store.CreateUser(ctx, database, name, email, string(hash), model.RoleAdmin); err != nil {
		return "", fmt.Errorf("creating admin user: %w", err)
	}
	return password, nil
}

// printAdminResult prints the created account to stdout.
func printAdminResult(email, password string) {
	fmt.Println("Admin account created:")
	fmt.Printf("  Email:    %s\n", email)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
}
