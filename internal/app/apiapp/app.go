package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/config"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	s3infra "github.com/joaoFerreiragHub/API-finhub-sub002/internal/infra/s3"
	pgrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/postgres"
	redrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/redis"
	adminauth "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/adminauth"
	creatoropssvc "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/creatorops"
	modqueuesvc "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/modqueue"
	policysvc "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/policy"
	reportssvc "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/reports"
	signalssvc "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/signals"
	trustsvc "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/trust"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	controlRepo := redrepo.NewControlRepo(redisClient)

	contentRepos, err := pgrepo.NewContentRepos(pool)
	if err != nil {
		return nil, fmt.Errorf("build content repos: %w", err)
	}
	reportRepo := pgrepo.NewReportRepo(pool)
	eventRepo := pgrepo.NewModerationEventRepo(pool)
	creatorRepo := pgrepo.NewCreatorRepo(pool)
	controlEventRepo := pgrepo.NewControlEventRepo(pool)

	jwtManager := adminauth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := adminauth.NewService(jwtManager, sessionRepo, cfg.Auth.SessionTTL)

	signalService := signalssvc.NewService(reportRepo)

	queueStores := make(map[enums.ContentKind]modqueuesvc.ContentStore, len(contentRepos))
	policyStores := make(map[enums.ContentKind]policysvc.ContentStore, len(contentRepos))
	trustStores := make(map[enums.ContentKind]trustsvc.ContentStore, len(contentRepos))
	reportStores := make(map[enums.ContentKind]reportssvc.ContentStore, len(contentRepos))
	for kind, repo := range contentRepos {
		queueStores[kind] = repo
		policyStores[kind] = repo
		trustStores[kind] = repo
		reportStores[kind] = repo
	}

	queueService := modqueuesvc.NewService(queueStores, signalService, reportRepo, eventRepo, modqueuesvc.Config{
		DefaultPageSize:      cfg.Moderation.Queue.DefaultPageSize,
		MaxPageSize:          cfg.Moderation.Queue.MaxPageSize,
		MaxBulkItems:         cfg.Moderation.Queue.MaxBulkItems,
		BulkConfirmThreshold: cfg.Moderation.Queue.BulkConfirmThreshold,
	})

	policyConfig, err := buildPolicyConfig(cfg.Moderation.AutoHide)
	if err != nil {
		return nil, fmt.Errorf("build policy config: %w", err)
	}
	policyService := policysvc.NewService(policyStores, signalService, policyConfig)

	trustService := trustsvc.NewService(
		trustStores,
		signalService,
		eventRepo,
		controlRepo,
		controlEventRepo,
		creatorRepo,
		trustsvc.Config{LookbackDays: cfg.Moderation.Trust.LookbackDays},
	)

	reportsService := reportssvc.NewService(reportStores, reportRepo)
	creatorOpsService := creatoropssvc.NewService(controlRepo, controlEventRepo, creatorRepo)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
		queueService.AttachPreviewSigner(s3infra.NewStorage(s3Client, cfg.S3.Bucket))
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:       authService,
		QueueService:      queueService,
		PolicyService:     policyService,
		TrustService:      trustService,
		ReportsService:    reportsService,
		CreatorOpsService: creatorOpsService,
		Logger:            log,
		Config:            cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func buildPolicyConfig(cfg config.AutoHideConfig) (policysvc.Config, error) {
	tier, err := enums.ParsePriorityTier(cfg.MinPriorityTier)
	if err != nil {
		return policysvc.Config{}, err
	}

	reasons := make([]enums.ReportReason, 0, len(cfg.AllowedReasons))
	for _, raw := range cfg.AllowedReasons {
		reason, err := enums.ParseReportReason(raw)
		if err != nil {
			return policysvc.Config{}, err
		}
		reasons = append(reasons, reason)
	}

	return policysvc.Config{
		AutoHideEnabled:    cfg.Enabled,
		AutoHideActorID:    cfg.ActorID,
		MinPriorityTier:    tier,
		MinUniqueReporters: cfg.MinUniqueReporters,
		AllowedReasons:     reasons,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
