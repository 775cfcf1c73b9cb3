package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/marketplace-sync/internal/cfg"
	v1Grpc "github.com/DRSN-tech/marketplace-sync/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/marketplace-sync/internal/delivery/v1/http"
	"github.com/DRSN-tech/marketplace-sync/internal/infrastructure/events"
	"github.com/DRSN-tech/marketplace-sync/internal/infrastructure/i18n"
	"github.com/DRSN-tech/marketplace-sync/internal/infrastructure/kafka"
	"github.com/DRSN-tech/marketplace-sync/internal/infrastructure/metrics"
	minioInfra "github.com/DRSN-tech/marketplace-sync/internal/infrastructure/minio"
	"github.com/DRSN-tech/marketplace-sync/internal/infrastructure/permissions"
	s3Repo "github.com/DRSN-tech/marketplace-sync/internal/repository/minio"
	"github.com/DRSN-tech/marketplace-sync/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/marketplace-sync/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/marketplace-sync/internal/repository/redis"
	redisConv "github.com/DRSN-tech/marketplace-sync/internal/repository/redis/converter"
	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/DRSN-tech/marketplace-sync/pkg/clients"
	"github.com/DRSN-tech/marketplace-sync/pkg/closer"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/DRSN-tech/marketplace-sync/pkg/postgres"
	"github.com/DRSN-tech/marketplace-sync/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

// App владеет всеми ресурсами процесса и закрывает их в обратном порядке через closer.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	worker  *kafka.OutboxWorker
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := a.closer.Close(ctx); cerr != nil {
			log.Warnf("cleanup after failed init: %v", cerr)
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := initPGDB(ctx, a.logger, a.cfg)
	if err != nil {
		return err
	}
	a.closer.Add("postgres", db.Close)

	// === Репозитории PostgreSQL ===
	shopRepo := pgdb.NewShopRepo(db.Pool, pgdbConv.NewShopConverter())
	catalogRepo := pgdb.NewCatalogProductRepo(db.Pool, pgdbConv.NewCatalogProductConverter())
	shopProductRepo := pgdb.NewShopProductRepo(db.Pool, pgdbConv.NewShopProductConverter())
	notSyncedRepo := pgdb.NewNotSyncedRepo(db.Pool, pgdbConv.NewNotSyncedProductConverter())
	syncIntersectRepo := pgdb.NewSyncIntersectRepo(db.Pool, pgdbConv.NewSyncIntersectConverter())
	blacklistRepo := pgdb.NewBlacklistRepo(db.Pool)
	orderRepo := pgdb.NewOrderRepo(db.Pool, pgdbConv.NewOrderConverter())
	promoRepo := pgdb.NewPromoRepo(db.Pool, pgdbConv.NewOrderConverter())
	orderLogRepo := pgdb.NewOrderLogRepo(db.Pool, pgdbConv.NewOrderLogConverter())
	cartRepo := pgdb.NewCartRepo(db.Pool, pgdbConv.NewCartConverter())
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverter())

	txManager := tr.NewTxManager(db.Pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})

	// === Redis: кэш магазинов по токену ===
	var shopCache usecase.ShopCacheRepository
	redisClient := clients.NewRedisClient(a.cfg.Redis)
	if err := redisClient.Ping(ctx); err != nil {
		// Без кэша синхронизация ходит в PostgreSQL напрямую
		a.logger.Warnf("redis unavailable, shop token cache disabled: %v", err)
		_ = redisClient.Close(ctx)
	} else {
		a.closer.Add("redis", redisClient.Close)
		shopCache = redis.NewShopCacheRepo(redisClient, redisConv.NewShopConverter(), a.cfg.Redis, a.logger)
	}

	// === MinIO: архив сырых фидов ===
	var archive usecase.FeedArchive
	if a.cfg.Minio.Enabled {
		minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
		if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
		archiveCtx, cancelArchive := context.WithCancel(context.Background())
		archiver := minioInfra.NewFeedArchiver(
			s3Repo.NewFeedArchiveRepo(minioClient, a.cfg.Minio),
			a.cfg.Minio,
			a.logger,
			archiveCtx,
		)
		a.closer.Add("feed archive", func(ctx context.Context) error {
			defer cancelArchive()
			return archiver.Wait(ctx)
		})
		archive = archiver
	}

	// === Инфраструктура ===
	localizer, err := i18n.NewLocalizer(a.cfg.Locale.DefaultLanguage)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	checker := permissions.NewRoleChecker(a.cfg.Permissions, localizer, a.logger)
	encoder := events.NewProtoEncoder()
	promMetrics := metrics.NewPrometheus()

	// === Use cases ===
	backlogUC := usecase.NewBacklogUseCase(notSyncedRepo, syncIntersectRepo, a.logger)
	syncUC := usecase.NewSyncUseCase(
		shopRepo,
		shopCache,
		blacklistRepo,
		catalogRepo,
		shopProductRepo,
		syncIntersectRepo,
		outboxRepo,
		backlogUC,
		archive,
		encoder,
		promMetrics,
		a.logger,
	)
	orderUC := usecase.NewOrderUseCase(
		txManager,
		orderRepo,
		orderLogRepo,
		shopProductRepo,
		promoRepo,
		outboxRepo,
		checker,
		localizer,
		encoder,
		promMetrics,
		a.logger,
	)
	cartUC := usecase.NewCartUseCase(
		txManager,
		cartRepo,
		catalogRepo,
		shopProductRepo,
		orderRepo,
		localizer,
		promMetrics,
		a.logger,
	)

	// === Kafka: outbox relay ===
	if a.cfg.Kafka.Enabled {
		producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
		if err := producer.EnsureTopic(startupTimeout); err != nil {
			a.logger.Warnf("kafka topic check failed: %v", err)
		}
		a.closer.Add("kafka producer", producer.Close)

		a.worker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, db.Dsn, a.cfg.Kafka.OutboxBatchSize)
	} else {
		a.logger.Warnf("KAFKA_BROKERS is empty, outbox events stay in PostgreSQL")
	}

	// === Транспорт ===
	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)
	a.grpcSrv.RegisterServices()

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.cfg, promMetrics, a.logger).Init(v1Http.UseCases{
		Sync:    syncUC,
		Backlog: backlogUC,
		Order:   orderUC,
		Cart:    cartUC,
	})
	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)

	return nil
}

// Run блокируется до сигнала остановки или фатальной ошибки сервера.
func (a *App) Run() error {
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if a.worker != nil {
		a.worker.Start(workerCtx)
		a.closer.Add("outbox worker", a.worker.Stop)
	}

	errCh := make(chan error, 2)

	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()
	a.closer.Add("http server", a.httpSrv.Stop)

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	a.grpcSrv.SetServing(false)
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown error")
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Pool.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
