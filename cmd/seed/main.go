// Package main seeds a development database with demo accounts and a
// sample snippet. Running it twice leaves the data unchanged.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/snipbox/snippet-api/internal/core/authz"
	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
	"github.com/snipbox/snippet-api/internal/core/service"
	"github.com/snipbox/snippet-api/internal/infrastructure/db/mysql"
	"github.com/snipbox/snippet-api/internal/infrastructure/token"
	"github.com/snipbox/snippet-api/internal/pkg/config"
	"github.com/snipbox/snippet-api/pkg/logger"
)

const sampleSnippetBody = `<!DOCTYPE html>
<html>
  <head><title>Hello</title></head>
  <body><h1>Hello, snipbox!</h1></body>
</html>`

type seedOptions struct {
	adminPassword string
	userPassword  string
	skipSnippet   bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts seedOptions

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVar(&opts.adminPassword, "admin-password", "admin", "password for the DemoAdmin account")
	flagSet.StringVar(&opts.userPassword, "user-password", "user", "password for the DemoUser account")
	flagSet.BoolVar(&opts.skipSnippet, "skip-snippet", false, "do not create the sample snippet")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "snippet-seed",
	})

	ctx := context.Background()

	db, err := mysql.Connect(ctx, mysql.Config{DSN: cfg.MySQL.DSN})
	if err != nil {
		return err
	}
	defer func() { _ = mysql.Close(db) }()

	if err := mysql.Migrate(ctx, db); err != nil {
		return err
	}
	if err := mysql.SeedSystemRoles(ctx, db); err != nil {
		return err
	}

	accountRepo := mysql.NewAccountRepository(db)
	settings := service.Settings{BcryptCost: cfg.Auth.BcryptCost, ListLimitCap: cfg.Auth.ListLimitCap}
	issuer := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	accounts := service.NewAccountService(
		accountRepo,
		mysql.NewRoleRepository(db),
		mysql.NewSnippetRepository(db),
		issuer,
		nil,
		nil,
		settings,
		log,
	)
	snippets := service.NewSnippetService(mysql.NewSnippetRepository(db), nil, nil, settings, log)

	// No account exists yet to vouch for the first Admin, so the seeder acts
	// as one.
	seeder := authz.Authenticated(0, domain.RoleAdmin.String())

	if _, err := ensureAccount(ctx, accounts, accountRepo, seeder, ports.RegisterAccountInput{
		Username: "DemoAdmin",
		Email:    "demo-admin@snipbox.dev",
		Password: opts.adminPassword,
		Role:     domain.RoleAdmin.String(),
	}, log); err != nil {
		return err
	}

	user, err := ensureAccount(ctx, accounts, accountRepo, authz.Anonymous(), ports.RegisterAccountInput{
		Username: "DemoUser",
		Email:    "demo-user@snipbox.dev",
		Password: opts.userPassword,
		Role:     domain.RoleUser.String(),
	}, log)
	if err != nil {
		return err
	}

	if opts.skipSnippet {
		return nil
	}

	owner := authz.Authenticated(user.ID, user.RoleName())
	snippet, err := snippets.Create(ctx, owner, ports.CreateSnippetInput{
		Name: "simple-html",
		Body: sampleSnippetBody,
	})
	switch {
	case errors.Is(err, domain.ErrConflict):
		log.Info().Str("name", "simple-html").Msg("sample snippet already present")
	case err != nil:
		return fmt.Errorf("create sample snippet: %w", err)
	default:
		log.Info().Int64("snippet_id", snippet.ID).Msg("sample snippet created")
	}
	return nil
}

// ensureAccount registers the account, or loads it when the username or
// email is already taken.
func ensureAccount(
	ctx context.Context,
	accounts ports.AccountService,
	repo ports.AccountRepository,
	actor authz.Actor,
	in ports.RegisterAccountInput,
	log zerolog.Logger,
) (*domain.Account, error) {
	account, _, err := accounts.Register(ctx, actor, in)
	if err == nil {
		log.Info().Str("username", in.Username).Str("role", in.Role).Msg("account created")
		return account, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, fmt.Errorf("create %s: %w", in.Username, err)
	}

	account, err = repo.FindByLogin(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", in.Username, err)
	}
	log.Info().Str("username", in.Username).Msg("account already present")
	return account, nil
}
