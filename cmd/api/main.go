package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"sportsbooking/internal/config"
	"sportsbooking/internal/handler"
	"sportsbooking/internal/infra/db"
	"sportsbooking/internal/infra/ratelimit"
	infraRepo "sportsbooking/internal/infra/repository"
	"sportsbooking/internal/logger"
	"sportsbooking/internal/metrics"
	"sportsbooking/internal/middleware"
	"sportsbooking/internal/server"
	"sportsbooking/internal/token"
	"sportsbooking/internal/usecase"
	"sportsbooking/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	//メトリクス
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	facilityRepo := infraRepo.NewFacilityGormRepository(gormDB)
	fieldRepo := infraRepo.NewFieldGormRepository(gormDB)
	pricingRepo := infraRepo.NewPricingGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//JWT（access/refreshで別シークレット）
	accessSigner := token.NewSigner(cfg.AccessTokenSecret, cfg.AccessTokenTTL)
	refreshSigner := token.NewSigner(cfg.RefreshTokenSecret, cfg.RefreshTokenTTL)

	//Usecase生成
	hasher := usecase.NewBcryptPasswordHasher(cfg.BcryptCost)
	sessions := usecase.NewSessionUsecase(userRepo, rtRepo, txm, accessSigner, refreshSigner, log, m)
	authUC := usecase.NewAuthUsecase(userRepo, sessions, txm, hasher, hasher)
	facilityUC := usecase.NewFacilityUsecase(
		facilityRepo, fieldRepo, pricingRepo, reviewRepo, txm, log, m,
		usecase.WithLocation(cfg.Location()),
		usecase.WithStrictDayFilter(cfg.AvailabilityStrictDayFilter),
	)

	guards := handler.Guards{
		Auth: []echo.MiddlewareFunc{
			middleware.AuthJWT(accessSigner, log, m),
			middleware.ActiveUserGuard(userRepo),
		},
	}

	//Redisがあれば認証系にレート制限
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := ratelimit.Ping(ctx, rdb); err != nil {
			log.Warn("redis unreachable, rate limit fails open", zap.Error(err))
		}
		limiter := ratelimit.NewRedisLimiter(rdb, cfg.AuthRateLimit, cfg.AuthRateWindow)
		guards.RateLimit = middleware.RateLimit(limiter, log)
	}

	e := server.New(server.Deps{
		Log:        log,
		Metrics:    m,
		Gatherer:   reg,
		Health:     sqlDB.PingContext,
		Guards:     guards,
		Auth:       handler.NewAuthHandler(authUC, cfg.RefreshTokenTTL, cfg.CookieSecure),
		Facilities: handler.NewFacilityHandler(facilityUC),
		Owner:      handler.NewOwnerHandler(facilityUC),
	})

	//期限切れトークンの掃除
	go worker.NewTokenSweeper(sessions, cfg.TokenSweepInterval, log).Start(ctx)

	//Server起動
	return server.Start(ctx, server.Addr(cfg.Port), e, log)
}
