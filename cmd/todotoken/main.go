// todotoken mints a bearer token for the todo API's mutating routes.
//
// The signing secret comes from the config file's security.jwt.secret or
// TODOAPI_JWT_SECRET.
//
//	todotoken -sub ops -ttl 1h
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nerrad567/todo-api/internal/auth"
	"github.com/nerrad567/todo-api/internal/infrastructure/config"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	//nolint:errcheck // A missing .env is expected
	godotenv.Load()

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, signs a token and prints it to stdout.
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("todotoken", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", configPathFromEnv(), "path to config.yaml")
	subject := fs.String("sub", "", "token subject (required)")
	ttl := fs.Duration("ttl", 0, "token lifetime; defaults to security.jwt.access_token_ttl minutes")
	scopes := fs.String("scope", auth.ScopeRead+","+auth.ScopeWrite, "comma-separated scopes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *subject == "" {
		fs.Usage()
		return errors.New("-sub is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Security.JWT.Secret == "" {
		return errors.New("no signing secret: set security.jwt.secret or TODOAPI_JWT_SECRET")
	}

	lifetime := *ttl
	if lifetime == 0 {
		lifetime = time.Duration(cfg.Security.JWT.AccessTokenTTL) * time.Minute
	}

	token, err := auth.GenerateAccessToken(*subject, cfg.Security.JWT.Secret, lifetime, splitScopes(*scopes)...)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	fmt.Fprintln(stdout, token)
	return nil
}

func configPathFromEnv() string {
	if path := os.Getenv("TODOAPI_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

func splitScopes(s string) []string {
	var out []string
	for _, scope := range strings.Split(s, ",") {
		if scope = strings.TrimSpace(scope); scope != "" {
			out = append(out, scope)
		}
	}
	return out
}
