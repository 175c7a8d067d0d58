// Command token mints an ID token for an API running with AUTH_PROVIDER=local.
// It signs with AUTH_LOCAL_SECRET and AUTH_LOCAL_ISSUER, the same settings the
// API verifies with.
//
//	token -uid admin-1 -email admin@powerise.com -admin
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"powerise-api/internal/auth"
	"powerise-api/internal/config"
	"powerise-api/internal/rbac"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "token:", err)
		}
		os.Exit(2)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	uid := fs.String("uid", "", "subject of the token (required)")
	email := fs.String("email", "", "email claim")
	verified := fs.Bool("email-verified", true, "email_verified claim")
	name := fs.String("name", "", "display name claim")
	admin := fs.Bool("admin", false, "grant the admin claim")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *uid == "" {
		fs.Usage()
		return errors.New("-uid is required")
	}

	cfg, err := config.LoadLocalAuth()
	if err != nil {
		return err
	}
	issuer, err := auth.NewLocalIssuer(cfg)
	if err != nil {
		return err
	}

	claims := map[string]any{}
	if *admin {
		claims[rbac.ClaimAdmin] = true
	}
	if *name != "" {
		claims["name"] = *name
	}

	tok, err := issuer.Issue(time.Now(), auth.LocalUser{
		UID:           *uid,
		Email:         *email,
		EmailVerified: *verified,
		Claims:        claims,
	})
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	_, err = fmt.Fprintln(stdout, tok)
	return err
}
