package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytbridge/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Run the interactive authorization flow and store the token",
	Long: `Run the browser-based OAuth2 flow once and persist the resulting
token. Use this to seed a headless deployment before starting serve
with --headless.`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	// Login is interactive by definition.
	cfg.Headless = false

	manager, err := buildManager(cfg)
	if err != nil {
		return err
	}

	cred, err := manager.Authorize(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Authorized. Token stored in %s (expires %s).\n",
		cfg.TokenFile, cred.Expiry.Format("2006-01-02 15:04:05"))
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the stored token",
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	manager, err := buildManager(cfg)
	if err != nil {
		return err
	}

	if err := manager.Revoke(); err != nil {
		return err
	}
	fmt.Printf("Token removed from %s.\n", cfg.TokenFile)
	return nil
}
