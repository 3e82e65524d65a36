package router

import (
	_ "go-finance-api/docs"
	"go-finance-api/handler"
	"go-finance-api/service"
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Entries     *handler.EntryHandler
	Investments *handler.InvestmentHandler
	Goals       *handler.GoalHandler
	Verifier    service.TokenVerifier
	Limiter     handler.Limiter
	Limits      Limits
	// ClientIPs picks the rate limit key; nil keys on the connection address.
	ClientIPs *handler.ClientIPResolver
	StaticDir string
}

// Limits holds the per-route rate limit rules.
type Limits struct {
	API      handler.RateLimitRule
	Login    handler.RateLimitRule
	Register handler.RateLimitRule
}

func NewRouter(h Handlers) http.Handler {
	r := mux.NewRouter()
	r.Use(handler.RecoveryMiddleware, handler.RequestLoggingMiddleware)

	r.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Auth routes are reachable both at /auth and /api/auth.
	for _, prefix := range []string{"/auth", "/api/auth"} {
		mountAuth(r.PathPrefix(prefix).Subrouter(), h)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(handler.RateLimitMiddleware(h.Limiter, h.Limits.API, h.ClientIPs))
	api.Use(handler.AuthMiddleware(h.Verifier))
	mountEntries(api, h.Entries)
	mountInvestments(api, h.Investments)
	mountGoals(api, h.Goals)

	if h.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(h.StaticDir)))
	}
	return r
}

func mountAuth(auth *mux.Router, h Handlers) {
	registerLimit := handler.RateLimitMiddleware(h.Limiter, h.Limits.Register, h.ClientIPs)
	auth.Handle("/register", registerLimit(handler.ErrorHandlingMiddleware(h.Auth.Register))).Methods(http.MethodPost)

	loginLimit := handler.RateLimitMiddleware(h.Limiter, h.Limits.Login, h.ClientIPs)
	auth.Handle("/login", loginLimit(handler.ErrorHandlingMiddleware(h.Auth.Login))).Methods(http.MethodPost)

	auth.Handle("/refresh", handler.ErrorHandlingMiddleware(h.Auth.Refresh)).Methods(http.MethodPost)
	auth.Handle("/logout", handler.ErrorHandlingMiddleware(h.Auth.Logout)).Methods(http.MethodPost)

	protected := auth.NewRoute().Subrouter()
	protected.Use(handler.AuthMiddleware(h.Verifier))
	protected.Handle("/me", handler.ErrorHandlingMiddleware(h.Auth.Me)).Methods(http.MethodGet)
	protected.Handle("/deactivate", handler.ErrorHandlingMiddleware(h.Auth.Deactivate)).Methods(http.MethodPost)
	protected.Handle("/change-password", handler.ErrorHandlingMiddleware(h.Auth.ChangePassword)).Methods(http.MethodPost)
	protected.Handle("/profile", handler.ErrorHandlingMiddleware(h.Auth.UpdateProfile)).Methods(http.MethodPut)
}

func mountEntries(api *mux.Router, e *handler.EntryHandler) {
	api.Handle("/daily-entries", handler.ErrorHandlingMiddleware(e.ListEntries)).Methods(http.MethodGet)
	api.Handle("/daily-entries", handler.ErrorHandlingMiddleware(e.CreateEntry)).Methods(http.MethodPost)
	api.Handle("/daily-entries/stats/{year:[0-9]+}/{month:[0-9]+}", handler.ErrorHandlingMiddleware(e.MonthlyStats)).Methods(http.MethodGet)
	api.Handle("/daily-entries/{id:[0-9]+}", handler.ErrorHandlingMiddleware(e.GetEntry)).Methods(http.MethodGet)
	api.Handle("/daily-entries/{id:[0-9]+}", handler.ErrorHandlingMiddleware(e.UpdateEntry)).Methods(http.MethodPut)
	api.Handle("/daily-entries/{id:[0-9]+}", handler.ErrorHandlingMiddleware(e.DeleteEntry)).Methods(http.MethodDelete)
}

func mountInvestments(api *mux.Router, i *handler.InvestmentHandler) {
	api.Handle("/investments", handler.ErrorHandlingMiddleware(i.ListInvestments)).Methods(http.MethodGet)
	api.Handle("/investments", handler.ErrorHandlingMiddleware(i.CreateInvestment)).Methods(http.MethodPost)
	api.Handle("/investments/stats/{year:[0-9]+}/{month:[0-9]+}", handler.ErrorHandlingMiddleware(i.MonthlyStats)).Methods(http.MethodGet)
	api.Handle("/investments/{id:[0-9]+}", handler.ErrorHandlingMiddleware(i.GetInvestment)).Methods(http.MethodGet)
	api.Handle("/investments/{id:[0-9]+}", handler.ErrorHandlingMiddleware(i.UpdateInvestment)).Methods(http.MethodPut)
	api.Handle("/investments/{id:[0-9]+}", handler.ErrorHandlingMiddleware(i.DeleteInvestment)).Methods(http.MethodDelete)
}

func mountGoals(api *mux.Router, g *handler.GoalHandler) {
	api.Handle("/goals", handler.ErrorHandlingMiddleware(g.ListGoals)).Methods(http.MethodGet)
	api.Handle("/goals", handler.ErrorHandlingMiddleware(g.SaveGoals)).Methods(http.MethodPost)
	api.Handle("/goals/{year:[0-9]+}/{month:[0-9]+}", handler.ErrorHandlingMiddleware(g.GetMonthGoals)).Methods(http.MethodGet)
	api.Handle("/goals/{id:[0-9]+}", handler.ErrorHandlingMiddleware(g.UpdateGoals)).Methods(http.MethodPut)
	api.Handle("/goals/{id:[0-9]+}", handler.ErrorHandlingMiddleware(g.DeleteGoals)).Methods(http.MethodDelete)
}
