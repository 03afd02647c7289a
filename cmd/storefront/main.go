package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/adapters/bookingapi"
	server "github.com/Misho1412/hotel-booking-app-sub000/internal/adapters/http_server"
	"github.com/Misho1412/hotel-booking-app-sub000/internal/adapters/memcache"
	"github.com/Misho1412/hotel-booking-app-sub000/internal/adapters/notify"
	"github.com/Misho1412/hotel-booking-app-sub000/internal/adapters/observability"
	redisad "github.com/Misho1412/hotel-booking-app-sub000/internal/adapters/redis"
	"github.com/Misho1412/hotel-booking-app-sub000/internal/adapters/stripegw"
	"github.com/Misho1412/hotel-booking-app-sub000/internal/adapters/tokenstore"
	"github.com/Misho1412/hotel-booking-app-sub000/internal/app"
	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
	"github.com/Misho1412/hotel-booking-app-sub000/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// session + caches
	tokens := tokenstore.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	stayCache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	featuredCache := memcache.New()

	events := app.NewAuthBroadcaster()

	// remote booking backend
	api, err := bookingapi.New(cfg.APIBase, cfg.APIKey, cfg.RequestTimeout, cfg.APIRPS, tokens, events.Publish)
	if err != nil {
		log.Fatal().Err(err).Msg("booking api client init failed")
	}
	api.UseMockData(cfg.UseMockData)

	var gateway domain.PaymentGateway
	if cfg.StripeSecretKey != "" {
		gateway = stripegw.New(cfg.StripeSecretKey,
			"https://storefront.example/checkout/confirmed?session_id={CHECKOUT_SESSION_ID}",
			"https://storefront.example/checkout/failed?session_id={CHECKOUT_SESSION_ID}")
	}
	var notifier domain.Notifier
	if cfg.SendGridKey != "" {
		notifier = notify.NewEmail(cfg.SendGridKey, cfg.FromEmail)
	}

	// services
	q := app.NewStayQueryService(api, api, stayCache, cfg.CacheTTL)
	f := app.NewFeaturedService(api, tokens, featuredCache, cfg.FeaturedTTL, cfg.MinFetchInterval)
	c := app.NewCheckoutService(api, api, tokens, gateway, notifier)

	// login/logout invalidates the per-auth-state featured entries
	go func() {
		for ev := range events.Subscribe() {
			log.Info().Bool("authenticated", ev.IsAuthenticated).Str("source", ev.Source).
				Msg("auth state changed")
			for _, city := range cfg.WarmCities {
				f.Refresh(context.Background(), city, 4)
			}
		}
	}()

	jobs := app.NewJobs(featuredCache, f, cfg.WarmCities, 4)
	if err := jobs.Start(); err != nil {
		log.Fatal().Err(err).Msg("background jobs failed to start")
	}
	defer jobs.Stop()

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, F: f, C: c, Auth: api})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("storefront listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
