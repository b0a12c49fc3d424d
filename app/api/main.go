package main

import (
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/database/mongoclient"
	"github.com/x-xyz/editionmarket/base/database/redisclient"
	"github.com/x-xyz/editionmarket/base/goroutine"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/base/metrics"
	bValidator "github.com/x-xyz/editionmarket/base/validator"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/activity"
	"github.com/x-xyz/editionmarket/domain/market"
	mmiddleware "github.com/x-xyz/editionmarket/middleware"
	"github.com/x-xyz/editionmarket/service/access"
	"github.com/x-xyz/editionmarket/service/cache"
	"github.com/x-xyz/editionmarket/service/cache/provider"
	"github.com/x-xyz/editionmarket/service/cache/provider/compound"
	"github.com/x-xyz/editionmarket/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/editionmarket/service/cache/provider/redis"
	"github.com/x-xyz/editionmarket/service/eventbus"
	"github.com/x-xyz/editionmarket/service/ledger"
	"github.com/x-xyz/editionmarket/service/query"
	"github.com/x-xyz/editionmarket/service/royalty"
	"github.com/x-xyz/editionmarket/service/treasury"
	activity_repository "github.com/x-xyz/editionmarket/stores/activity/repository"
	activity_usecase "github.com/x-xyz/editionmarket/stores/activity/usecase"
	auth_delivery "github.com/x-xyz/editionmarket/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/editionmarket/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/x-xyz/editionmarket/stores/auth/usecase"
	hc_delivery "github.com/x-xyz/editionmarket/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/editionmarket/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/editionmarket/stores/healthcheck/usecase"
	market_delivery "github.com/x-xyz/editionmarket/stores/market/delivery/http"
	market_repository "github.com/x-xyz/editionmarket/stores/market/repository"
	market_usecase "github.com/x-xyz/editionmarket/stores/market/usecase"
)

// editionCfg mints an edition into the in-memory ledger at boot
type editionCfg struct {
	Id      int64          `mapstructure:"id"`
	Size    uint64         `mapstructure:"size"`
	Creator domain.Address `mapstructure:"creator"`
	// royalty in percent on secondary sales, paid to RoyaltyReceiver or Creator
	Royalty         string         `mapstructure:"royalty"`
	RoyaltyReceiver domain.Address `mapstructure:"royalty_receiver"`
}

type proxyCfg struct {
	Seller   domain.Address `mapstructure:"seller"`
	Operator domain.Address `mapstructure:"operator"`
}

func init() {
	configPath := pflag.String("config", "infra/configs/config.yaml", "path of the config file")
	pflag.Parse()

	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("jwt.ttl", 24*time.Hour)
	viper.SetDefault("cache.size_mb", 64)
	viper.SetDefault("cache.edition_size_ttl", time.Hour)
	viper.SetDefault("cache.activity_ttl", 5*time.Second)

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configPath)
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	if err := log.Configure(viper.GetBool("debug")); err != nil {
		panic(err)
	}
	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func mustParams(context ctx.Ctx) market.Params {
	params := market.DefaultParams()
	m := viper.Sub("market")
	if m == nil {
		context.Panic("market section missing")
	}

	var err error
	ether := func(key string, dst **big.Int) {
		if err == nil && m.IsSet(key) {
			*dst, err = domain.ParseEther(m.GetString(key))
		}
	}
	rate := func(key string, dst *market.Rate) {
		if err == nil && m.IsSet(key) {
			*dst, err = market.ParsePercent(m.GetString(key))
		}
	}
	duration := func(key string, dst *time.Duration) {
		if m.IsSet(key) {
			*dst = m.GetDuration(key)
		}
	}

	ether("min_bid", &params.MinBidAmount)
	ether("min_increment", &params.MinIncrement)
	rate("primary_commission", &params.PrimaryCommission)
	rate("secondary_commission", &params.SecondaryCommission)
	duration("bid_lockup", &params.BidLockupPeriod)
	duration("extension_window", &params.ReserveAuctionBidExtensionWindow)
	duration("auction_length", &params.ReserveAuctionLengthOnceReserveMet)
	if m.IsSet("max_bid_extensions") {
		params.MaxBidExtensions = m.GetUint32("max_bid_extensions")
	}
	if m.IsSet("platform_account") {
		params.PlatformAccount = mustAddress(context, m.GetString("platform_account"))
	}

	if err == nil {
		err = params.Validate()
	}
	if err != nil {
		context.WithField("err", err).Panic("invalid market params")
	}
	return params
}

func mustAddress(context ctx.Ctx, s string) domain.Address {
	addr, err := domain.NormalizeAddress(s)
	if err != nil {
		context.WithFields(log.Fields{"err": err, "address": s}).Panic("invalid address in config")
	}
	return addr
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.AddContext())
	e.Use(middL.ResponseLogger(metrics.New("http")))
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	context := ctx.Background()
	defer log.Sync()

	// in-process cache, backed by redis when configured
	context.Info("init cache")
	layers := []provider.Provider{primitive.NewPrimitive("local", viper.GetInt("cache.size_mb"))}
	var redisPool hc_repo.ConnGetter
	if viper.IsSet("redis_cache.uri") {
		redisCfg := redisclient.Config{}
		if err := viper.UnmarshalKey("redis_cache", &redisCfg); err != nil {
			context.WithField("err", err).Panic("invalid redis_cache config")
		}
		pool := redisclient.MustConnectRedis(redisCfg)
		defer pool.Close()
		redisPool = pool
		layers = append(layers, redisCache.NewRedis(pool))
	}
	cacheProvider := compound.NewCompound(layers...)

	// collaborators
	marketAccount := mustAddress(context, viper.GetString("market.account"))
	memLedger := ledger.NewMemory()
	memTreasury := treasury.NewMemory(marketAccount)
	memRoyalty := royalty.NewMemory()
	admins := []domain.Address{}
	for _, a := range viper.GetStringSlice("admins") {
		admins = append(admins, mustAddress(context, a))
	}
	controls := access.NewStatic(admins...)

	editions := []editionCfg{}
	if err := viper.UnmarshalKey("ledger.editions", &editions); err != nil {
		context.WithField("err", err).Panic("invalid ledger.editions")
	}
	for _, ed := range editions {
		creator := mustAddress(context, string(ed.Creator))
		if err := memLedger.MintEdition(context, big.NewInt(ed.Id), ed.Size, creator); err != nil {
			context.WithFields(log.Fields{"err": err, "edition": ed.Id}).Panic("ledger.MintEdition failed")
		}
		memLedger.SetApprovalForAll(context, creator, marketAccount, true)
		if ed.Royalty != "" {
			rate, err := market.ParsePercent(ed.Royalty)
			if err != nil {
				context.WithFields(log.Fields{"err": err, "edition": ed.Id}).Panic("invalid royalty")
			}
			receiver := creator
			if ed.RoyaltyReceiver != "" {
				receiver = mustAddress(context, string(ed.RoyaltyReceiver))
			}
			memRoyalty.SetEditionRoyalty(big.NewInt(ed.Id), receiver, rate)
		}
	}
	for addr, amount := range viper.GetStringMapString("treasury.deposits") {
		wei, err := domain.ParseEther(amount)
		if err != nil {
			context.WithFields(log.Fields{"err": err, "address": addr}).Panic("invalid deposit")
		}
		memTreasury.Deposit(context, mustAddress(context, addr), wei)
	}
	proxies := []proxyCfg{}
	if err := viper.UnmarshalKey("proxies", &proxies); err != nil {
		context.WithField("err", err).Panic("invalid proxies")
	}
	for _, p := range proxies {
		controls.GrantProxy(mustAddress(context, string(p.Seller)), mustAddress(context, string(p.Operator)))
	}

	cachedLedger := ledger.NewCached(memLedger, cache.New(cache.ServiceConfig{
		Ttl:   viper.GetDuration("cache.edition_size_ttl"),
		Pfx:   "ledger",
		Cache: cacheProvider,
	}))

	bus := eventbus.New()

	// init usecases
	marketUC := market_usecase.New(&market_usecase.MarketUseCaseCfg{
		MarketAccount: marketAccount,
		Params:        mustParams(context),
		Store:         market_repository.NewMemoryRepo(),
		Ledger:        cachedLedger,
		Royalty:       memRoyalty,
		Treasury:      memTreasury,
		Access:        controls,
		Publisher:     bus,
		Clock:         clock.New(),
		Metrics:       metrics.New("market"),
	})

	// activity log is kept only when mongo is configured
	var (
		activityUC  activity.UseCase
		mongoClient *mongoclient.Client
	)
	if viper.IsSet("mongo.uri") {
		context.Info("init mongo")
		mongoCfg := mongoclient.Config{}
		if err := viper.UnmarshalKey("mongo", &mongoCfg); err != nil {
			context.WithField("err", err).Panic("invalid mongo config")
		}
		mongoClient = mongoclient.MustConnectMongoClient(mongoCfg)
		defer mongoClient.Close()

		q := query.New(mongoClient, viper.GetBool("mongo.check_index"))
		if err := activity_repository.EnsureIndexes(context, q); err != nil {
			context.WithField("err", err).Panic("activity indexes")
		}
		activityUC = activity_usecase.New(&activity_usecase.ActivityUseCaseCfg{
			Repo:     activity_repository.NewActivityRepo(q),
			Workers:  viper.GetInt("activity.workers"),
			Attempts: viper.GetInt("activity.attempts"),
		})
		defer activityUC.Close()
		if err := bus.SubscribeAsync(eventbus.TopicAll, activityUC.Handle); err != nil {
			context.WithField("err", err).Panic("bus.SubscribeAsync failed")
		}
		defer bus.WaitAsync()
	}

	auth := auth_usecase.New(&auth_usecase.AuthUseCaseCfg{
		JwtSecret:          viper.GetString("jwt.secret"),
		TokenTTL:           viper.GetDuration("jwt.ttl"),
		SigningMsgTemplate: viper.GetString("jwt.signing_msg"),
	})
	authMiddleware := auth_middleware.New(auth, controls)

	activityCache := mmiddleware.CacheHttp(cache.New(cache.ServiceConfig{
		Ttl:   viper.GetDuration("cache.activity_ttl"),
		Pfx:   "httpCacheMiddleware",
		Cache: cacheProvider,
	}))

	hc_delivery.New(e, hc_usecase.New(hc_repo.New(mongoClient, redisPool), marketUC))
	auth_delivery.New(e, auth)
	market_delivery.New(e, &market_delivery.HandlerCfg{
		Market:         marketUC,
		Activity:       activityUC,
		AuthMiddleware: authMiddleware,
		ActivityCache:  activityCache,
	})

	serverPanic := goroutine.RecoverableGo(func() {
		if err := e.Start(viper.GetString("http.addr")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}, goroutine.WithName("http"))

	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case sig := <-quit:
		log.Log().WithField("signal", sig).Info("received signal")
	case evt, ok := <-serverPanic:
		if ok {
			log.Log().WithField("panic", evt.Panic).Error("server crashed")
		}
	}

	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
