package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/darts-league/internal/config"
	"github.com/riskibarqy/darts-league/internal/domain/fixture"
	"github.com/riskibarqy/darts-league/internal/infrastructure/account/anubis"
	cacherepo "github.com/riskibarqy/darts-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/darts-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/darts-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/darts-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/darts-league/internal/observability"
	basecache "github.com/riskibarqy/darts-league/internal/platform/cache"
	idgen "github.com/riskibarqy/darts-league/internal/platform/id"
	"github.com/riskibarqy/darts-league/internal/platform/logging"
	"github.com/riskibarqy/darts-league/internal/platform/resilience"
	"github.com/riskibarqy/darts-league/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

type repositories struct {
	fixtures    fixture.Repository
	submissions fixture.SubmissionRepository
	close       func() error
}

// NewHTTPServer builds the API server. The returned cleanup releases the
// storage connections and must run after the server has stopped.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	fixtures := repos.fixtures
	if cfg.CacheEnabled {
		fixtures = cacherepo.NewFixtureRepository(fixtures, basecache.NewStore(cfg.CacheTTL))
	}

	guard := resilience.NewInFlight()
	reporter := observability.NewErrorReporter(logger, cfg.ServiceVersion)

	fixtureSvc := usecase.NewFixtureService(fixtures, idgen.NewUUIDGenerator("fx-"), guard, reporter)
	sheetSvc := usecase.NewSheetService(fixtures, repos.submissions, guard, reporter)
	mergeSvc := usecase.NewMergeService(
		fixtures,
		repos.submissions,
		guard,
		reporter,
		logger,
		usecase.MergeServiceConfig{WorkerCount: cfg.MergeWorkerCount},
	)

	anubisClient := anubis.NewClient(anubis.Config{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CircuitBreaker: cfg.AnubisCircuit,
	}, logger)

	handler := httpapi.NewHandler(fixtureSvc, sheetSvc, mergeSvc, logger)
	router := httpapi.NewRouter(handler, anubisClient, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, repos.close, nil
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(cfg)
		if err != nil {
			return repositories{}, err
		}
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			return repositories{}, errors.Join(fmt.Errorf("bootstrap seed: %w", err), db.Close())
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver, "db_name", dbNameFromURL(cfg.DBURL))
		return repositories{
			fixtures:    postgres.NewFixtureRepository(db),
			submissions: postgres.NewSubmissionRepository(db),
			close:       db.Close,
		}, nil
	default:
		logger.Info("storage ready", "driver", config.StorageMemory)
		return repositories{
			fixtures:    memory.NewFixtureRepository(memory.SeedFixtures()),
			submissions: memory.NewSubmissionRepository(nil),
			close:       func() error { return nil },
		}, nil
	}
}

func openPostgres(cfg config.Config) (*sqlx.DB, error) {
	dbURL := NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Join(fmt.Errorf("ping postgres: %w", err), db.Close())
	}
	return db, nil
}
