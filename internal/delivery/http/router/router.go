package router

import (
	"net/http"

	"github.com/LavaJover/shvark-wallet-service/internal/delivery/http/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Wallet   *handlers.WalletHandler
	Exchange *handlers.ExchangeHandler
	Pool     *handlers.PoolHandler
}

// SetupRoutes mounts every wallet service endpoint. gatherer backs /metrics.
func SetupRoutes(h Handlers, gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()

	// ---- Global Middleware ----
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false, // must be false when using "*"
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Post("/exchange", h.Exchange.Exchange)
	r.Post("/exchange/recommendation", h.Exchange.Recommend)
	r.Get("/currencies", h.Exchange.Currencies)

	r.Route("/wallet", func(r chi.Router) {
		r.Post("/", h.Wallet.CreateWallet)
		r.Get("/", h.Wallet.GetWallet)
		r.Post("/deposit", h.Wallet.Deposit)
		r.Post("/bank", h.Wallet.LinkBank)
		r.Get("/banks", h.Wallet.ListBanks)
		r.Post("/return", h.Wallet.ReturnMoney)
		r.Get("/history", h.Wallet.History)
	})

	r.Post("/pool/init", h.Pool.InitPool)
	r.Get("/pool", h.Pool.GetPool)

	return r
}
