package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nutriva/brand-site-server/internal/config"
	"github.com/nutriva/brand-site-server/internal/database"
	"github.com/nutriva/brand-site-server/internal/repository"
	"github.com/nutriva/brand-site-server/internal/service"
	"github.com/nutriva/brand-site-server/internal/util"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	hashOnly := flag.String("hash", "", "print the bcrypt hash of the given password and exit")
	email := flag.String("email", "", "admin email (default $SEED_ADMIN_EMAIL)")
	password := flag.String("password", "", "admin password (default $SEED_ADMIN_PASSWORD)")
	flag.Parse()

	if *hashOnly != "" {
		hash, err := util.NewBcryptHasher(config.DefaultBcryptCost).Hash(*hashOnly)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if *email == "" {
		*email = cfg.SeedAdminEmail
	}
	if *password == "" {
		*password = cfg.SeedAdminPassword
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Usage: seedadmin -email <email> -password <password>  (or set SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD)")
		os.Exit(2)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	accountRepo := repository.NewAccountRepository(db.DB)
	sessionService := service.NewSessionService(repository.NewPostgresSessionStore(db.DB), accountRepo, cfg.SessionSecret)
	accountService := service.NewAccountService(accountRepo, sessionService, util.NewBcryptHasher(cfg.BcryptCost))

	created, err := accountService.EnsureAdmin(ctx, *email, *password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin")
	}
	if created {
		log.Info().Str("email", util.NormalizeEmail(*email)).Msg("admin account created")
	} else {
		log.Info().Str("email", util.NormalizeEmail(*email)).Msg("account already exists, nothing to do")
	}
}
