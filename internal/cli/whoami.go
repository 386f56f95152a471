package cli

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"innosistemas/api/internal/identity"
	"innosistemas/api/internal/model"
	"innosistemas/api/internal/session"
)

// cmdWhoami signs in with the given credentials, prints the resulting
// authentication state and signs out again.
func cmdWhoami() *cli.Command {
	var email, password string
	var required []string
	return &cli.Command{
		Name:  "whoami",
		Usage: "Verify credentials and print the resolved user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true, Destination: &email},
			&cli.StringFlag{Name: "password", Sources: cli.EnvVars("WHOAMI_PASSWORD"), Destination: &password},
			&cli.StringSliceFlag{Name: "require", Usage: "fail unless the user holds this permission", Destination: &required},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			denylist, closeDenylist, err := openDenylist(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDenylist()

			svc := identity.NewService(store, denylist, identity.Options{
				Secret:     cfg.JWTSecret,
				Issuer:     cfg.JWTIssuer,
				AccessTTL:  cfg.AccessTokenTTL,
				RefreshTTL: cfg.RefreshTokenTTL,
			})
			auth := session.New(svc)
			if err := auth.Login(ctx, email, password); err != nil {
				return goerr.Wrap(err, "login", goerr.V("email", email))
			}
			defer func() { _ = auth.Logout(ctx) }()

			for _, perm := range required {
				if !auth.HasPermission(perm) {
					return goerr.Wrap(model.ErrForbidden, "missing permission", goerr.V("email", email), goerr.V("permission", perm))
				}
			}

			state := auth.Snapshot()
			state.Token = nil
			encoder := json.NewEncoder(cmd.Root().Writer)
			encoder.SetIndent("", "  ")
			return encoder.Encode(state)
		},
	}
}
