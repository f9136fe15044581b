package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erazemk/katalog/internal/client"
	"github.com/erazemk/katalog/internal/config"
	"github.com/erazemk/katalog/internal/credential"
	"github.com/erazemk/katalog/internal/validate"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the first administrator of a catalog backend",
	Long: `bootstrap calls POST /admin/bootstrap with the backend's one-time
secret. The secret is sent once and not stored. Without --password a
random password is generated and printed.`,
	Args: cobra.NoArgs,
	RunE: runBootstrap,
}

var (
	bootstrapName     string
	bootstrapEmail    string
	bootstrapPassword string
)

var bootstrapKeys = map[string]string{
	config.KeyAPIURL:          "api-url",
	config.KeyBootstrapSecret: "secret",
	config.KeyRequestTimeout:  "request-timeout",
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)

	flags := bootstrapCmd.Flags()
	flags.String("api-url", client.DefaultBaseURL, "base URL of the catalog backend")
	flags.String("secret", "", "bootstrap secret of the backend")
	flags.Duration("request-timeout", 0, "backend request timeout (0 = none)")
	flags.StringVar(&bootstrapName, "name", "Admin", "administrator name")
	flags.StringVar(&bootstrapEmail, "email", "", "administrator email")
	flags.StringVar(&bootstrapPassword, "password", "", "administrator password (default: generated)")
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	cfg, closeLog, err := loadConfig(cmd, bootstrapKeys)
	if err != nil {
		return err
	}
	defer closeLog()

	secret := strings.TrimSpace(cfg.BootstrapSecret)
	if secret == "" {
		return fmt.Errorf("a bootstrap secret is required (--secret or %s_%s)", config.EnvPrefix, config.KeyBootstrapSecret)
	}

	password := bootstrapPassword
	generated := password == ""
	if generated {
		if password, err = generatePassword(16); err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
	}

	req := client.BootstrapRequest{
		Name:     strings.TrimSpace(bootstrapName),
		Email:    strings.TrimSpace(bootstrapEmail),
		Password: password,
	}
	if err := validate.Error(req); err != nil {
		return err
	}

	c := client.New(client.Config{BaseURL: cfg.APIURL, Timeout: cfg.RequestTimeout}, &credential.Memory{}, slog.Default())
	resp, err := c.Bootstrap(cmd.Context(), secret, req)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	slog.Info("first administrator created", "email", resp.User.Email, "backend", cfg.APIURL)
	if generated {
		printAdminResult(resp.User.Email, password)
	}
	return nil
}
