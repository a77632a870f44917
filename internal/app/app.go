package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/hoops-reconciler/external/balldontlie"
	"github.com/riskibarqy/hoops-reconciler/external/bbref"
	"github.com/riskibarqy/hoops-reconciler/external/nbastats"
	"github.com/riskibarqy/hoops-reconciler/external/oddsfeed"
	"github.com/riskibarqy/hoops-reconciler/internal/config"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/boxscore"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/identity"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/pipeline"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/player"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/rawdata"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/reconcile"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/team"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/validation"
	cacherepo "github.com/riskibarqy/hoops-reconciler/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/hoops-reconciler/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/hoops-reconciler/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/hoops-reconciler/internal/observability"
	basecache "github.com/riskibarqy/hoops-reconciler/internal/platform/cache"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/capability"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

// Container holds the wired services for one process. Close releases the
// database and flushes telemetry.
type Container struct {
	Config  config.Config
	Logger  *logging.Logger
	DB      *sqlx.DB
	Metrics *observability.RunMetrics

	Identity         *usecase.IdentityService
	Ingestion        *usecase.IngestionService
	Canonicalization *usecase.CanonicalizationService
	BoxScores        *usecase.BoxScoreService
	Validation       *usecase.ValidationService
	Reports          *usecase.ReportService
	Pipeline         *usecase.PipelineService

	closers []func(context.Context) error
}

type repositories struct {
	teams     team.Repository
	players   player.Repository
	mappings  identity.MappingRepository
	issues    identity.IssueRepository
	sources   game.SourceRepository
	canonical game.CanonicalRepository
	lines     boxscore.LineRepository
	stats     boxscore.Repository
	results   validation.Repository
	runs      pipeline.Repository
	rawData   rawdata.Repository
}

// New builds the container. Telemetry is started first so the database
// driver picks up the configured tracer provider.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewRunMetrics(),
	}

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	c.closers = append(c.closers, shutdownUptrace)

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		_ = c.Close(ctx)
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}
	c.closers = append(c.closers, func(context.Context) error { return stopProfiler() })

	repos, err := c.buildRepositories(ctx)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.wire(repos)
	return c, nil
}

func (c *Container) buildRepositories(ctx context.Context) (repositories, error) {
	switch c.Config.StorageDriver {
	case config.StorageDriverMemory:
		return c.memoryRepositories()
	default:
		db, err := openDB(ctx, c.Config)
		if err != nil {
			return repositories{}, err
		}
		c.DB = db
		c.closers = append(c.closers, func(context.Context) error { return db.Close() })

		seeded, err := postgres.BootstrapSeed(ctx, db)
		if err != nil {
			return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
		}
		if seeded > 0 {
			c.Logger.Info("team catalog seeded", "teams", seeded)
		}
		return c.postgresRepositories(db), nil
	}
}

func (c *Container) memoryRepositories() (repositories, error) {
	teams, err := memory.SeedTeams()
	if err != nil {
		return repositories{}, fmt.Errorf("seed memory teams: %w", err)
	}
	results := memory.NewValidationRepository()
	canonical := memory.NewCanonicalGameRepository(results)
	return repositories{
		teams:     memory.NewTeamRepository(teams),
		players:   memory.NewPlayerRepository(nil),
		mappings:  memory.NewMappingRepository(),
		issues:    memory.NewIdentityIssueRepository(),
		sources:   memory.NewSourceRecordRepository(),
		canonical: canonical,
		lines:     memory.NewStatLineRepository(),
		stats:     memory.NewBoxScoreRepository(canonical),
		results:   results,
		runs:      memory.NewPipelineRunRepository(),
		rawData:   memory.NewRawDataRepository(),
	}, nil
}

func (c *Container) postgresRepositories(db *sqlx.DB) repositories {
	ttl := c.Config.TeamCacheTTL
	return repositories{
		teams:     cacherepo.NewTeamRepository(postgres.NewTeamRepository(db), basecache.NewStore[[]team.Team](ttl)),
		players:   cacherepo.NewPlayerRepository(postgres.NewPlayerRepository(db), basecache.NewStore[[]player.Player](ttl)),
		mappings:  postgres.NewMappingRepository(db),
		issues:    postgres.NewIdentityIssueRepository(db),
		sources:   postgres.NewSourceRecordRepository(db),
		canonical: postgres.NewCanonicalGameRepository(db),
		lines:     postgres.NewStatLineRepository(db),
		stats:     postgres.NewBoxScoreRepository(db),
		results:   postgres.NewValidationRepository(db),
		runs:      postgres.NewPipelineRunRepository(db),
		rawData:   postgres.NewRawDataRepository(db),
	}
}

func (c *Container) wire(repos repositories) {
	cfg := c.Config
	logger := c.Logger

	recentStats := capability.NewFlag("player_stats", repos.stats.HasPlayerStats)

	c.Identity = usecase.NewIdentityService(
		repos.teams,
		repos.players,
		repos.mappings,
		repos.issues,
		repos.stats,
		recentStats,
		usecase.IdentityServiceConfig{
			RecentWindow: cfg.IdentityRecentWindow,
			TeamCacheTTL: cfg.TeamCacheTTL,
		},
		logger,
	)

	c.Ingestion = usecase.NewIngestionService(
		[]usecase.ProviderNormalizer{
			nbastats.NewNormalizer(logger),
			balldontlie.NewNormalizer(logger),
			bbref.NewNormalizer(logger),
			oddsfeed.NewNormalizer(logger),
		},
		repos.sources,
		repos.lines,
		repos.rawData,
		c.Identity,
		logger,
	)

	c.Canonicalization = usecase.NewCanonicalizationService(
		repos.sources,
		repos.canonical,
		c.Identity,
		repos.runs,
		c.Metrics,
		usecase.CanonicalizationConfig{
			Options:            reconcileOptions(cfg.Reconcile),
			ExtendLoadWindowBy: cfg.Reconcile.ExtendLoadWindowBy,
			Workers:            cfg.Reconcile.Workers,
			GroupTimeout:       cfg.Reconcile.PersistGroupTimeout,
		},
		logger,
	)

	c.BoxScores = usecase.NewBoxScoreService(
		repos.canonical,
		repos.lines,
		repos.stats,
		c.Identity,
		recentStats,
		repos.runs,
		c.Metrics,
		cfg.LinkWorkers,
		logger,
	)

	c.Validation = usecase.NewValidationService(
		repos.canonical,
		repos.sources,
		repos.stats,
		repos.results,
		c.Identity,
		repos.runs,
		c.Metrics,
		usecase.ValidationConfig{
			Workers:     cfg.ValidationWorkers,
			GameTimeout: cfg.ValidationGameTimeout,
		},
		logger,
	)

	c.Reports = usecase.NewReportService(repos.canonical, repos.results, repos.issues, repos.runs)
	c.Pipeline = usecase.NewPipelineService(c.Canonicalization, c.BoxScores, c.Validation, logger)
}

func reconcileOptions(cfg config.ReconcileConfig) reconcile.Options {
	return reconcile.Options{
		MatchWindow: cfg.MatchWindow,
		Weights: reconcile.Weights{
			FinalScored:      cfg.WeightFinalScored,
			Final:            cfg.WeightFinal,
			Timed:            cfg.WeightTimed,
			ProviderPriority: cfg.WeightPriority,
			NumericID:        cfg.WeightNumericID,
		},
	}
}

// PushMetrics ships the run metrics gathered by this process when a
// pushgateway is configured.
func (c *Container) PushMetrics(ctx context.Context, job string) error {
	return c.Metrics.Push(ctx, c.Config.MetricsPushgatewayURL, job)
}

// Close runs the registered closers in reverse order.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// PostgresDSN returns the connection string the service and the migration
// tool both use.
func PostgresDSN(cfg config.Config) string {
	return normalizeDBURL(cfg.DBURL, cfg.ServiceName, cfg.DBDisablePreparedBinary)
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := PostgresDSN(cfg)
	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithAttributes(attribute.String("service.name", cfg.ServiceName)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(dsn); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBSystem("postgresql"))
	return db, nil
}
