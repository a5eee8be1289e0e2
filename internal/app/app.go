package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/einspot/storefront/internal/cfg"
	v1Http "github.com/einspot/storefront/internal/delivery/v1/http"
	"github.com/einspot/storefront/internal/infrastructure/kafka"
	minioInfra "github.com/einspot/storefront/internal/infrastructure/minio"
	"github.com/einspot/storefront/internal/repository/pgdb"
	pgdbConv "github.com/einspot/storefront/internal/repository/pgdb/converter"
	"github.com/einspot/storefront/internal/repository/redis"
	redisConv "github.com/einspot/storefront/internal/repository/redis/converter"
	"github.com/einspot/storefront/internal/usecase"
	"github.com/einspot/storefront/pkg/clients"
	"github.com/einspot/storefront/pkg/closer"
	"github.com/einspot/storefront/pkg/e"
	"github.com/einspot/storefront/pkg/logger"
	"github.com/einspot/storefront/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// App собирает зависимости сервиса витрины и управляет их жизненным циклом.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	const forcedCloseTimeout = 2 * time.Second

	cl := closer.NewCloser(forcedCloseTimeout)

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		log.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		log.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	producer, err := kafka.NewProducer(log, cfg.Kafka, cfg.Cart.EventRetries)
	if err != nil {
		log.Errorf(err, "failed to initialize kafka producer")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		log.Errorf(err, "failed to ensure kafka topic")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(producer.Close)

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverter())
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.NewCategoryConverter())
	cartSlotRepo := redis.NewCartSlotRepo(redisClient, redisConv.NewCartLineConverter(), cfg.Cart)
	cardCacheRepo := redis.NewCardCacheRepo(redisClient, redisConv.NewProductCardConverter(), cfg.Redis, log)

	imagesInfra := minioInfra.NewImagesInfrastructure(minioClient, cfg.Minio)

	catalogUC := usecase.NewCatalogUC(
		productRepo,
		categoryRepo,
		db.Pool,
		imagesInfra,
		cardCacheRepo,
		log,
		cfg.Redis,
	)

	cartUC := usecase.NewCartUC(
		cartSlotRepo,
		catalogUC,
		producer,
		log,
		cfg.Cart,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(cartUC, catalogUC)

	return &App{
		cfg:     cfg,
		logger:  log,
		closer:  cl,
		httpSrv: v1Http.NewServer(r, cfg.Http),
	}, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "resource shutdown error")
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
