package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/cobranzacloud/cobranza-cloud/internal/api"
	"github.com/cobranzacloud/cobranza-cloud/internal/api/handler"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/service"
	mongodb "github.com/cobranzacloud/cobranza-cloud/internal/infrastructure/db/mongo"
	redisdb "github.com/cobranzacloud/cobranza-cloud/internal/infrastructure/db/redis"
	"github.com/cobranzacloud/cobranza-cloud/internal/infrastructure/queue"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "ensure MongoDB indexes before serving")
	return cmd
}

func (a *app) serve(ctx context.Context, migrate bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log := a.cfg, a.log

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if migrate {
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	audit := queue.NewAuditDispatcher(cfg.AuditWorkers, mongodb.NewAuditRepository(db), log)
	audit.Start(ctx)
	defer audit.Close()

	// --- Services ---
	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret:              cfg.JWT.Secret,
		Issuer:              cfg.JWT.Issuer,
		Audience:            cfg.JWT.Audience,
		AccessTTL:           cfg.JWT.AccessTTL,
		RefreshTTL:          cfg.JWT.RefreshTTL,
		ConnectorAccessTTL:  cfg.JWT.ConnectorAccessTTL,
		ConnectorRefreshTTL: cfg.JWT.ConnectorRefreshTTL,
	})
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	tx := mongodb.NewTransactor(mongoClient)
	cache := redisdb.NewCache(rdb)
	refreshTokens := mongodb.NewRefreshTokenRepository(db)
	connectors := mongodb.NewConnectorRepository(db)
	clientes := mongodb.NewClienteRepository(db)
	facturas := mongodb.NewFacturaRepository(db)
	contactos := mongodb.NewContactoRepository(db)

	authService := service.NewAuthService(service.AuthDeps{
		Users:         mongodb.NewUserRepository(db),
		Organizations: mongodb.NewOrganizationRepository(db),
		RefreshTokens: refreshTokens,
		Transactor:    tx,
		Tokens:        tokens,
		Audit:         audit,
	}, log.With().Str("component", "auth").Logger())

	connectorService := service.NewConnectorService(service.ConnectorDeps{
		Connectors:    connectors,
		LinkCodes:     mongodb.NewLinkCodeRepository(db),
		RefreshTokens: refreshTokens,
		Transactor:    tx,
		Tokens:        tokens,
		Audit:         audit,
	}, log.With().Str("component", "connectors").Logger())

	syncService := service.NewSyncService(service.SyncDeps{
		Clientes:   clientes,
		Facturas:   facturas,
		Contactos:  contactos,
		Connectors: connectors,
		SyncRuns:   mongodb.NewSyncRunRepository(db),
		Transactor: tx,
		Cache:      cache,
		Audit:      audit,
	}, log.With().Str("component", "sync").Logger())

	carteraService := service.NewCarteraService(service.CarteraDeps{
		Clientes:  clientes,
		Facturas:  facturas,
		Contactos: contactos,
		Cache:     cache,
		TTL:       cfg.Cache.TTL,
		ShortTTL:  cfg.Cache.ShortTTL,
	}, log.With().Str("component", "cartera").Logger())

	// --- HTTP ---
	router := api.NewRouter(api.RouterDeps{
		Tokens:     tokens,
		Auth:       authService,
		Connectors: connectorService,
		Sync:       syncService,
		Cartera:    carteraService,
		Checks: []handler.DependencyCheck{
			{Name: "mongodb", Ping: func(ctx context.Context) error { return mongodb.Ping(ctx, mongoClient) }},
			{Name: "redis", Ping: func(ctx context.Context) error { return pingRedis(ctx, rdb) }},
		},
		Production:   cfg.IsProduction(),
		RateLimitRPS: cfg.HTTP.RateLimitRPS,
	}, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func pingRedis(ctx context.Context, rdb *goredis.Client) error {
	return rdb.Ping(ctx).Err()
}
