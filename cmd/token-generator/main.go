// Command token-generator mints an access token for the task API using the
// JWT secret from the server configuration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/service/auth"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "token-generator: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token-generator", flag.ContinueOnError)
	subject := fs.String("subject", "", "subject (client identifier) the token is issued to")
	lifetime := fs.Int("lifetime", 0, "token lifetime in minutes (defaults to auth.token_lifetime_minutes)")
	configPath := fs.String("config", "", "path to a config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *subject == "" {
		return errors.New("-subject is required")
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	authCfg := cfg.Auth
	if *lifetime > 0 {
		authCfg.TokenLifetimeMinutes = *lifetime
	}

	svc, err := auth.NewJWTService(authCfg)
	if err != nil {
		return fmt.Errorf("create jwt service: %w", err)
	}

	token, err := svc.GenerateToken(ctx, *subject)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
