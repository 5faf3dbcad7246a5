// Command gated runs an example API server with subscription enforcement
// wired end to end: permission table, feature flags, usage quotas, and the
// route map, all behind one middleware chain.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/athenahq/gatekit/pkg/config"
	"github.com/athenahq/gatekit/pkg/enforce"
	"github.com/athenahq/gatekit/pkg/feature"
	"github.com/athenahq/gatekit/pkg/httpserver"
	"github.com/athenahq/gatekit/pkg/logger"
	"github.com/athenahq/gatekit/pkg/mongo"
	"github.com/athenahq/gatekit/pkg/permission"
	"github.com/athenahq/gatekit/pkg/pg"
	"github.com/athenahq/gatekit/pkg/redis"
	"github.com/athenahq/gatekit/pkg/routemap"
	"github.com/athenahq/gatekit/pkg/tier"
	"github.com/athenahq/gatekit/pkg/usage"
)

type appConfig struct {
	Logger logger.Config
	HTTP   httpserver.Config

	// TierTablePath points at a YAML permission table; empty means the
	// built-in production table.
	TierTablePath string `env:"TIER_TABLE_PATH"`

	// UsageDriver selects the usage ledger: "memory" or "postgres".
	UsageDriver string `env:"USAGE_DRIVER" envDefault:"memory"`

	// FlagsDriver selects the flag registry: "memory", "redis", or "mongo".
	FlagsDriver string `env:"FLAGS_DRIVER" envDefault:"memory"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("gated exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	log := logger.New(cfg.Logger, logger.WithAttr(slog.String("service", "gated")))
	slog.SetDefault(log)

	resolver, err := newResolver(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("permission table loaded", "version", resolver.TableVersion())

	store, err := newUsageStore(ctx, cfg)
	if err != nil {
		return err
	}
	flags, err := newFlagRegistry(ctx, cfg)
	if err != nil {
		return err
	}

	recorder, err := usage.NewRecorder(store, usage.WithLogger(log))
	if err != nil {
		return err
	}
	if err := recorder.Start(ctx); err != nil {
		return err
	}
	defer recorder.Stop()

	enforcer, err := enforce.NewEnforcer(resolver, newDemoSubscriptions(),
		enforce.WithFlags(flags),
		enforce.WithUsage(store, usage.DefaultWindows()),
		enforce.WithRecorder(recorder),
		enforce.WithMatcher(routemap.MustMatcher(routemap.DefaultRules())),
		enforce.WithLogger(log))
	if err != nil {
		return err
	}

	return httpserver.New(cfg.HTTP, log).Run(ctx, newRouter(enforcer, log))
}

func newResolver(ctx context.Context, cfg appConfig) (permission.Resolver, error) {
	var src tier.Source
	if cfg.TierTablePath != "" {
		src = tier.NewYAMLSource(cfg.TierTablePath)
	} else {
		src = tier.NewInMemSource(tier.DefaultTable())
	}
	return permission.NewResolver(ctx, src)
}

func newUsageStore(ctx context.Context, cfg appConfig) (usage.Store, error) {
	switch cfg.UsageDriver {
	case "postgres":
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		store, err := usage.NewPostgresStore(pool)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "memory", "":
		return usage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown usage driver %q", cfg.UsageDriver)
	}
}

func newFlagRegistry(ctx context.Context, cfg appConfig) (feature.Registry, error) {
	switch cfg.FlagsDriver {
	case "redis":
		var rCfg redis.Config
		if err := config.Load(&rCfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, rCfg)
		if err != nil {
			return nil, err
		}
		return feature.NewRedisRegistry(client)
	case "mongo":
		var mCfg mongo.Config
		if err := config.Load(&mCfg); err != nil {
			return nil, err
		}
		db, err := mongo.Database(ctx, mCfg)
		if err != nil {
			return nil, err
		}
		return feature.NewMongoRegistry(db.Collection("feature_flags"))
	case "memory", "":
		return feature.NewMemoryRegistry(), nil
	default:
		return nil, fmt.Errorf("unknown flags driver %q", cfg.FlagsDriver)
	}
}

func newRouter(enforcer *enforce.Enforcer, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(identify)
	r.Use(enforcer.Auto())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	// The route map gates these; handlers only do their own work and read
	// the grant for quota reporting.
	r.Post("/api/messages", func(w http.ResponseWriter, r *http.Request) {
		grant, _ := enforce.GrantFromContext(r.Context())
		if grant != nil && grant.Quota != nil {
			log.InfoContext(r.Context(), "message sent",
				"tier", grant.Tier,
				"remaining", grant.Quota.Remaining)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"status":"sent"}`)
	})
	r.Post("/api/ai/career-compass", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"analyzed"}`)
	})

	return r
}

// identify resolves the caller from the X-User-ID header. A real deployment
// replaces this with session or token authentication.
func identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := uuid.Parse(r.Header.Get("X-User-ID")); err == nil {
			r = r.WithContext(enforce.SetCallerIDToContext(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// demoSubscriptions is a fixed in-memory subscription store so the example
// server runs without a billing system behind it.
type demoSubscriptions struct {
	subs map[uuid.UUID]enforce.Subscription
}

func newDemoSubscriptions() *demoSubscriptions {
	return &demoSubscriptions{subs: map[uuid.UUID]enforce.Subscription{
		uuid.MustParse("00000000-0000-0000-0000-000000000001"): {
			Tier: tier.TierCareerPremium, Status: tier.StatusActive,
		},
		uuid.MustParse("00000000-0000-0000-0000-000000000002"): {
			Tier: tier.TierEnterprise, Status: tier.StatusActive,
		},
		uuid.MustParse("00000000-0000-0000-0000-000000000003"): {
			Tier: tier.TierCareerPremium, Status: tier.StatusPastDue,
		},
	}}
}

func (d *demoSubscriptions) Get(_ context.Context, userID uuid.UUID) (enforce.Subscription, error) {
	sub, ok := d.subs[userID]
	if !ok {
		return enforce.Subscription{}, enforce.ErrSubscriptionNotFound
	}
	return sub, nil
}
