package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"innosistemas/api/internal/academics"
	"innosistemas/api/internal/catalog"
	internalgrpc "innosistemas/api/internal/grpc"
	internalhttp "innosistemas/api/internal/http"
	"innosistemas/api/internal/identity"
	"innosistemas/api/internal/jobs"
	"innosistemas/api/internal/teams"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the HTTP and gRPC servers",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			logger := ctxlog.From(ctx)

			entries, err := catalog.Load(cfg.CourseCatalogFile)
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

			if cfg.UsesMemoryStore() {
				if _, err := catalog.Seed(ctx, store, entries); err != nil {
					return err
				}
			}

			identitySvc := identity.NewService(store, denylist, identity.Options{
				Secret:     cfg.JWTSecret,
				Issuer:     cfg.JWTIssuer,
				AccessTTL:  cfg.AccessTokenTTL,
				RefreshTTL: cfg.RefreshTokenTTL,
			})
			teamsSvc := teams.NewService(store)
			server := internalhttp.NewServer(identitySvc, academics.NewService(store), teamsSvc, entries, logger)

			httpServer := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           server.Router(),
				ReadHeaderTimeout: 5 * time.Second,
				BaseContext: func(net.Listener) context.Context {
					return ctx
				},
			}

			grpcServer, err := internalgrpc.NewServer(store, cfg.ServiceAuthToken)
			if err != nil {
				return err
			}
			listener, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				return goerr.Wrap(err, "grpc listen", goerr.V("addr", cfg.GRPCAddr))
			}

			jobs.StartSessionCleanupJob(ctx, cfg, store)
			jobs.StartFormationDeadlineJob(ctx, cfg, teamsSvc)

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				logger.Info("http listening", "addr", cfg.HTTPAddr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "http serve", goerr.V("addr", cfg.HTTPAddr))
				}
				return nil
			})
			eg.Go(func() error {
				logger.Info("grpc listening", "addr", cfg.GRPCAddr)
				return grpcServer.Serve(ctx, listener)
			})
			eg.Go(func() error {
				grpcServer.WatchHealth(ctx, cfg.HealthCheckInterval)
				return nil
			})
			eg.Go(func() error {
				<-ctx.Done()
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "http shutdown")
				}
				return nil
			})
			return eg.Wait()
		},
	}
}
