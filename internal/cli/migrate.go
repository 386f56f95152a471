package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"innosistemas/api/internal/catalog"
	"innosistemas/api/internal/dto"
	"innosistemas/api/internal/identity"
	"innosistemas/api/internal/model"
)

func cmdMigrate() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the database schema",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.UsesMemoryStore() {
				return goerr.New("migrate requires a PostgreSQL DATABASE_URL")
			}
			_, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			ctxlog.From(ctx).Info("schema applied")
			return nil
		},
	}
}

func cmdSeed() *cli.Command {
	var adminEmail, adminName, adminPassword string
	return &cli.Command{
		Name:  "seed",
		Usage: "Load the course catalog and optionally an admin account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "admin-email",
				Sources:     cli.EnvVars("ADMIN_EMAIL"),
				Usage:       "Create an ADMIN account with this email",
				Destination: &adminEmail,
			},
			&cli.StringFlag{
				Name:        "admin-name",
				Sources:     cli.EnvVars("ADMIN_NAME"),
				Value:       "Administrator",
				Destination: &adminName,
			},
			&cli.StringFlag{
				Name:        "admin-password",
				Sources:     cli.EnvVars("ADMIN_PASSWORD"),
				Destination: &adminPassword,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.UsesMemoryStore() {
				return goerr.New("seed requires a PostgreSQL DATABASE_URL")
			}
			entries, err := catalog.Load(cfg.CourseCatalogFile)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			created, err := catalog.Seed(ctx, store, entries)
			if err != nil {
				return err
			}
			ctxlog.From(ctx).Info("catalog seeded", "created", created, "total", len(entries))

			if adminEmail == "" {
				return nil
			}
			denylist, closeDenylist, err := openDenylist(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDenylist()

			svc := identity.NewService(store, denylist, identity.Options{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
			_, err = svc.CreateUser(ctx, dto.CreateUserDto{Email: adminEmail, NameUser: adminName, Password: adminPassword}, model.RoleAdmin)
			if err != nil {
				return goerr.Wrap(err, "create admin", goerr.V("email", adminEmail))
			}
			return nil
		},
	}
}
