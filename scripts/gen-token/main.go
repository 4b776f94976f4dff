// gen-token issues a stored bearer token for an existing user. Run from project
// root: go run ./scripts/gen-token -email demo@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"taskify-api/internal/auth"
	"taskify-api/internal/config"
	"taskify-api/internal/database"
	"taskify-api/internal/models"
	"taskify-api/internal/redisstore"
	"taskify-api/internal/repository"
	"taskify-api/internal/service"
)

func main() {
	email := flag.String("email", "demo@example.com", "user to issue the token for")
	flag.Parse()

	_ = config.LoadEnvFile()
	ctx := context.Background()
	cfg := config.Get()

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "JWT_SECRET not set:", err)
		os.Exit(1)
	}
	db := database.DB(ctx)
	if db == nil {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set or DB connection failed")
		os.Exit(1)
	}

	user, err := repository.NewUserRepository(db).FindByEmail(ctx, *email)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Lookup failed:", err)
		os.Exit(1)
	}

	var tokens service.TokenStore = repository.NewTokenRepository(db)
	if cfg.UsesRedis() {
		rdb := redisstore.Client(ctx)
		if rdb == nil {
			fmt.Fprintln(os.Stderr, "Redis unavailable")
			os.Exit(1)
		}
		tokens = redisstore.NewTokenStore(rdb)
	}

	tok, err := issuer.Issue(user.ID)
	if err != nil {
		panic(err)
	}
	record := &models.AccessToken{
		ID:        tok.ID,
		UserID:    user.ID,
		Name:      "cli",
		CreatedAt: tok.IssuedAt,
		ExpiresAt: tok.ExpiresAt,
	}
	if err := tokens.Save(ctx, record); err != nil {
		fmt.Fprintln(os.Stderr, "Save failed:", err)
		os.Exit(1)
	}

	fmt.Println(tok.Token)
}
