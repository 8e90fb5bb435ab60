// Command issue-token mints a bearer token that signs requests as one account.
package main

import (
	"fmt"
	"os"
	"time"

	"asset-exchange/config"
	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/service"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config file")
	account := pflag.StringP("account", "a", "", "account the token authorizes (required)")
	expiry := pflag.Duration("expiry", 0, "token lifetime; defaults to jwt.expiry")
	pflag.Parse()

	if err := run(*configPath, *account, *expiry); err != nil {
		fmt.Fprintf(os.Stderr, "issue-token: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, account string, expiry time.Duration) error {
	name, err := domain.ParseName(account)
	if err != nil {
		return fmt.Errorf("account: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if expiry <= 0 {
		expiry = cfg.JWT.Expiry
	}

	token, expiresAt, err := service.NewJWTTokenService(cfg.JWT.Secret, expiry, cfg.JWT.Issuer).Generate(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "token for %s expires %s\n", name, expiresAt.Format(time.RFC3339))
	fmt.Println(token)
	return nil
}
