package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"

	"github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/database/mongoclient"
	"github.com/dropstation/marketapi/base/database/redisclient"
	"github.com/dropstation/marketapi/base/log"
	bValidator "github.com/dropstation/marketapi/base/validator"
	"github.com/dropstation/marketapi/domain"
	"github.com/dropstation/marketapi/domain/keys"
	dMarketplace "github.com/dropstation/marketapi/domain/marketplace"
	mmiddleware "github.com/dropstation/marketapi/middleware"
	"github.com/dropstation/marketapi/service/bridge"
	"github.com/dropstation/marketapi/service/cache"
	"github.com/dropstation/marketapi/service/cache/provider/primitive"
	redisprovider "github.com/dropstation/marketapi/service/cache/provider/redis"
	"github.com/dropstation/marketapi/service/query"
	auth_delivery "github.com/dropstation/marketapi/stores/auth/delivery/http"
	auth_middleware "github.com/dropstation/marketapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/dropstation/marketapi/stores/auth/usecase"
	deposit_delivery "github.com/dropstation/marketapi/stores/deposit/delivery/http"
	deposit_repository "github.com/dropstation/marketapi/stores/deposit/repository"
	deposit_usecase "github.com/dropstation/marketapi/stores/deposit/usecase"
	event_delivery "github.com/dropstation/marketapi/stores/event/delivery/http"
	event_repository "github.com/dropstation/marketapi/stores/event/repository"
	event_usecase "github.com/dropstation/marketapi/stores/event/usecase"
	hc_delivery "github.com/dropstation/marketapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/dropstation/marketapi/stores/healthcheck/repository"
	hc_usecase "github.com/dropstation/marketapi/stores/healthcheck/usecase"
	listing_delivery "github.com/dropstation/marketapi/stores/listing/delivery/http"
	listing_repository "github.com/dropstation/marketapi/stores/listing/repository"
	listing_usecase "github.com/dropstation/marketapi/stores/listing/usecase"
	marketplace_delivery "github.com/dropstation/marketapi/stores/marketplace/delivery/http"
	marketplace_repository "github.com/dropstation/marketapi/stores/marketplace/repository"
	marketplace_usecase "github.com/dropstation/marketapi/stores/marketplace/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init redis cache
	context.Info("init redis cache")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})

	configCache := cache.New(cache.ServiceConfig{
		Ttl:   5 * time.Minute,
		Pfx:   keys.PfxMarketConfig,
		Cache: primitive.NewPrimitive(keys.PfxMarketConfig, 1024),
	})
	listingCache := cache.New(cache.ServiceConfig{
		Ttl:   30 * time.Second,
		Pfx:   keys.PfxListing,
		Cache: redisprovider.NewRedis(redisCachePool),
	})

	bridgeClient := bridge.NewClient(&bridge.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    viper.GetDuration("bridge.timeout"),
		Endpoint:   viper.GetString("bridge.endpoint"),
		Apikey:     viper.GetString("bridge.apikey"),
	})

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCachePool)
	eventRepo := event_repository.NewEventRepo(q)
	listingRepo := listing_repository.NewListingRepo(q, listingCache)
	marketplaceRepo := marketplace_repository.NewMarketplaceRepo(q, configCache)
	depositRepo := deposit_repository.NewDepositRepo(q)

	seedMarketConfig(context, marketplaceRepo)

	emitter := event_usecase.NewEmitter(eventRepo)
	eventUC := event_usecase.New(eventRepo)
	hc := hc_usecase.New(hcRepo)
	marketplaceUC := marketplace_usecase.New(&marketplace_usecase.MarketplaceUseCaseCfg{
		MarketplaceRepo: marketplaceRepo,
		Emitter:         emitter,
	})
	depositUC := deposit_usecase.New(&deposit_usecase.DepositUseCaseCfg{
		DepositRepo: depositRepo,
		ListingRepo: listingRepo,
		Bridge:      bridgeClient,
		Emitter:     emitter,
		MinBalance:  viper.GetString("market.minDepositBalance"),
	})
	listingUC := listing_usecase.New(&listing_usecase.ListingUseCaseCfg{
		ListingRepo:       listingRepo,
		MarketplaceRepo:   marketplaceRepo,
		DepositRepo:       depositRepo,
		Bridge:            bridgeClient,
		Emitter:           emitter,
		MarketAccount:     domain.Address(viper.GetString("market.account")).ToLower(),
		MinDepositBalance: viper.GetString("market.minDepositBalance"),
		PriceDecimals:     viper.GetInt32("market.priceDecimals"),
		MaxBids:           viper.GetInt("market.maxBids"),
		ExtensionWindow:   viper.GetDuration("market.extensionWindow"),
	})
	authUC := auth_usecase.New(viper.GetString("auth.jwtSecret"), viper.GetString("auth.signatureMsg"))

	authMiddleware := auth_middleware.New(authUC)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, authUC, viper.GetString("auth.signatureMsg"))
	listing_delivery.New(e, authMiddleware.Auth(), listingUC)
	marketplace_delivery.New(e, authMiddleware.Auth(), marketplaceUC)
	deposit_delivery.New(e, authMiddleware.Auth(), depositUC)
	event_delivery.New(e, eventUC)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}

// seedMarketConfig writes the initial market config when the collection
// is still empty. Later changes go through the admin endpoints.
func seedMarketConfig(context ctx.Ctx, repo dMarketplace.Repo) {
	if _, err := repo.Get(context); err == nil {
		return
	} else if err != domain.ErrNotFound {
		log.Log().WithField("err", err).Panic("read market config failed")
	}
	cfg := &dMarketplace.Config{
		Owner:             domain.Address(viper.GetString("market.owner")).ToLower(),
		Treasury:          domain.Address(viper.GetString("market.treasury")).ToLower(),
		FeeBps:            uint16(viper.GetUint32("market.feeBps")),
		ApprovedContracts: []domain.Address{},
	}
	for _, addr := range viper.GetStringSlice("market.approvedContracts") {
		cfg.ApprovedContracts = append(cfg.ApprovedContracts, domain.Address(addr).ToLower())
	}
	if err := repo.Upsert(context, cfg); err != nil {
		log.Log().WithField("err", err).Panic("seed market config failed")
	}
	context.WithField("owner", cfg.Owner).Info("seeded market config")
}
