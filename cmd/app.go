package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/habedi/mscli/auth"
	"github.com/habedi/mscli/client"
	"github.com/habedi/mscli/config"
	"github.com/habedi/mscli/db"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// app is everything a command needs once the configuration is known.
type app struct {
	cfg      config.Config
	nav      *terminalNavigator
	store    auth.CredentialStore
	coord    *auth.Coordinator
	gate     *auth.Gate
	registry *prometheus.Registry
	metrics  *client.Metrics

	customers *client.Customers
	products  *client.Products
	bills     *client.Bills

	closers []func() error
}

func newApp(ctx context.Context, cfg config.Config, errOut io.Writer) (*app, error) {
	a := &app{cfg: cfg, nav: &terminalNavigator{w: errOut}}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.store = store

	a.registry = prometheus.NewRegistry()
	a.metrics = client.NewMetrics(a.registry)

	hc := &http.Client{Timeout: cfg.RequestTimeout}
	raw := client.Chain(client.Transport(hc), client.RequestID(), client.Logging(), a.metrics.Instrument())
	a.coord = auth.NewCoordinator(client.NewAuthAPI(cfg.AuthURL(), raw), store, a.nav)

	a.gate = auth.NewGate(a.coord.Refresh, a.coord.AccessToken,
		auth.WithRefreshTimeout(cfg.RefreshTimeout),
		auth.WithRefreshHook(a.metrics.ObserveRefresh))
	icpt := client.NewInterceptor(a.coord, a.gate, a.nav, a.metrics)

	h := client.Chain(client.Transport(hc),
		client.RequestID(),
		client.Logging(),
		a.metrics.Instrument(),
		client.RateLimit(cfg.RateLimit, cfg.RateBurst),
		icpt.Middleware(),
	)
	a.customers = client.NewCustomers(client.NewClient(cfg.CustomerURL(), h))
	a.products = client.NewProducts(client.NewClient(cfg.ProductURL(), h))
	a.bills = client.NewBills(client.NewClient(cfg.BillingURL(), h))
	return a, nil
}

func (a *app) openStore(ctx context.Context) (auth.CredentialStore, error) {
	switch a.cfg.Store {
	case config.StoreMemory:
		return auth.NewMemoryStore(), nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", a.cfg.RedisAddr, err)
		}
		a.closers = append(a.closers, rdb.Close)
		return db.NewRedisStore(rdb, a.cfg.RedisKey), nil

	default:
		db.Path = a.cfg.DBPath
		if err := db.InitDB(); err != nil {
			return nil, fmt.Errorf("failed to open credential database: %w", err)
		}
		a.closers = append(a.closers, db.CloseDB)
		return db.NewSQLStore(ctx, db.NewCredentialRepository(db.GetDB())), nil
	}
}

// requireAuth sends signed-out users to login instead of issuing a request
// that can only fail.
func (a *app) requireAuth() error {
	if a.coord.IsAuthenticated() {
		return nil
	}
	a.nav.ToLogin()
	return auth.ErrNotAuthenticated
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Error().Err(err).Msg("Failed to release resource")
		}
	}
	a.closers = nil
}
