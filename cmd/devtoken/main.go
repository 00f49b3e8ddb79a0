package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"seller-onboarding.backend/internal/config"
	"seller-onboarding.backend/pkg/crypto"
	"seller-onboarding.backend/pkg/jwt"
)

type options struct {
	userID string
	email  string
	role   string
	ttl    time.Duration
}

func main() {
	opts := options{}
	flag.StringVar(&opts.userID, "user", "", "seller user id (random when empty)")
	flag.StringVar(&opts.email, "email", "seller@example.com", "email claim")
	flag.StringVar(&opts.role, "role", "SELLER", "role claim")
	flag.DurationVar(&opts.ttl, "ttl", time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := run(os.Stdout, cfg.JWT.Secret, opts); err != nil {
		log.Fatal(err)
	}
}

func run(out io.Writer, secret string, opts options) error {
	userID := uuid.New()
	if opts.userID != "" {
		parsed, err := uuid.Parse(opts.userID)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		userID = parsed
	}
	if opts.ttl <= 0 {
		return fmt.Errorf("invalid ttl: %s (must be positive)", opts.ttl)
	}

	token, err := jwt.NewJWTService(secret, opts.ttl).GenerateAccessToken(userID, opts.email, opts.role)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	draftSecret, err := crypto.GenerateRandomToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate draft secret: %w", err)
	}

	fmt.Fprintln(out, "Generated development credentials")
	fmt.Fprintf(out, "USER_ID=%s\n", userID)
	fmt.Fprintf(out, "ACCESS_TOKEN=%s\n", token)
	fmt.Fprintf(out, "DRAFT_ENCRYPTION_SECRET=%s\n", draftSecret)
	return nil
}
