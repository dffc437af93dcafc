package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/cashflowgame/finance-service/internal/application/usecase"
	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/port"
	"github.com/cashflowgame/finance-service/internal/infrastructure/config"
	"github.com/cashflowgame/finance-service/internal/infrastructure/kafka"
	"github.com/cashflowgame/finance-service/internal/infrastructure/memory"
	"github.com/cashflowgame/finance-service/internal/infrastructure/metrics"
	pgstore "github.com/cashflowgame/finance-service/internal/infrastructure/postgres"
	"github.com/cashflowgame/finance-service/internal/infrastructure/redis"
	"github.com/cashflowgame/finance-service/internal/presentation/rest"
	"github.com/cashflowgame/finance-service/pkg/events"
	pkgkafka "github.com/cashflowgame/finance-service/pkg/kafka"
	"github.com/cashflowgame/finance-service/pkg/observability"
	pkgpostgres "github.com/cashflowgame/finance-service/pkg/postgres"
)

// app is the wired service. Commands build one, use it and close it.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	engine  *usecase.Engine
	checks  map[string]rest.Pinger
	// outbox is nil for the memory store.
	outbox  events.OutboxRepository
	closers []func() error
}

// loadConfig reads and validates the environment. Command output goes to
// stdout, so logs go to stderr.
func loadConfig(logOut io.Writer) (config.Config, *slog.Logger, error) {
	cfg := config.Load()
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
		Output:  logOut,
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	cfg, logger, err := loadConfig(os.Stderr)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, checks: make(map[string]rest.Pinger)}
	if err := a.wire(ctx, cmd); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context, cmd *cobra.Command) error {
	rules, err := config.LoadRules(a.cfg.RulesFile)
	if err != nil {
		return err
	}

	a.metrics, err = observability.InitMetrics(observability.MetricsConfig{ServiceName: "finance", RuntimeCollectors: true})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() error { return a.metrics.Shutdown(context.Background()) })
	recorder, err := metrics.NewRecorder(a.metrics.Provider)
	if err != nil {
		return err
	}

	var (
		uow     port.UnitOfWork
		players port.PlayerRepository
		debts   port.DebtRepository
		put     func(context.Context, model.Player) error
	)
	switch a.cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := a.connect(ctx)
		if err != nil {
			return err
		}
		playerRepo := pgstore.NewPlayerRepo(pool)
		uow, players, debts = pgstore.NewUnitOfWork(pool), playerRepo, pgstore.NewDebtRepo(pool)
		put = func(ctx context.Context, p model.Player) error {
			return pkgpostgres.WithTransaction(ctx, pool, func(tx pgx.Tx) error {
				return pgstore.NewPlayerRepo(tx).Put(ctx, p)
			})
		}
		a.outbox = pgstore.NewOutboxRepo(pool)
		a.checks["store"] = rest.PingFunc(func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) })
	default:
		store := memory.NewStore()
		uow, players, debts = memory.NewUnitOfWork(store), store.Players(), store.Debts()
		put = func(_ context.Context, p model.Player) error { store.PutPlayer(p); return nil }
		a.checks["store"] = store
	}

	if path, _ := cmd.Flags().GetString("seed"); path != "" {
		if err := seed(ctx, path, put); err != nil {
			return err
		}
	}

	var eventLog port.EventLog = memory.NewEventLog(a.logger)
	if a.cfg.Kafka.Enabled() {
		producer, err := pkgkafka.NewProducer(pkgkafka.Config{Brokers: a.cfg.Kafka.Brokers, ClientID: a.cfg.ServiceName})
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		a.closers = append(a.closers, producer.Close)
		eventLog = kafka.NewEventLog(producer, a.cfg.Kafka.EventsTopic, a.logger)
	}

	var cache port.CreditScoreCache = port.NoopCreditScoreCache{}
	if a.cfg.Redis.Enabled() {
		client := redis.NewClient(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
		a.closers = append(a.closers, client.Close)
		scoreCache := redis.NewCreditScoreCache(client, a.cfg.Redis.ScoreTTL)
		cache = scoreCache
		a.checks["cache"] = scoreCache
	}

	underwriting, portfolio, payoff, win := rules.UnderwritingPolicy(), rules.PortfolioPolicy(), rules.PayoffPolicy(), rules.WinPolicy()
	a.engine = usecase.NewEngine(usecase.EngineConfig{
		UnitOfWork:   uow,
		Players:      players,
		Debts:        debts,
		EventLog:     eventLog,
		Cache:        cache,
		Underwriting: &underwriting,
		Portfolio:    &portfolio,
		Payoff:       &payoff,
		Win:          &win,
		Simulator:    rules.Simulator(),
		Instrumentation: usecase.Instrumentation{
			Logger:  a.logger,
			Metrics: recorder,
		},
	})
	return nil
}

func (a *app) connect(ctx context.Context) (*pgxpool.Pool, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pkgpostgres.NewPool(dbCtx, a.cfg.PostgresConfig())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	a.closers = append(a.closers, func() error { pool.Close(); return nil })
	a.logger.Debug("connected to database", "host", a.cfg.DB.Host, "database", a.cfg.DB.Name)
	return pool, nil
}

// Close releases everything wire acquired, newest first.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func seed(ctx context.Context, path string, put func(context.Context, model.Player) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	players, err := config.ParseSeed(f)
	if err != nil {
		return err
	}
	for _, p := range players {
		if err := put(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
