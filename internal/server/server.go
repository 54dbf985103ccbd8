package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"blog_publisher/internal/config"
	"blog_publisher/internal/service"
)

type Server struct {
	cfg          config.ServerConfig
	subscription config.SubscriptionConfig
	articles     *service.ArticleService
	subscribers  *service.SubscriptionService
	news         *service.NewsService
	auth         *service.AuthService
	logger       *slog.Logger
	router       *mux.Router
	httpServer   *http.Server
}

func New(
	cfg config.ServerConfig,
	subscription config.SubscriptionConfig,
	articles *service.ArticleService,
	subscribers *service.SubscriptionService,
	news *service.NewsService,
	auth *service.AuthService,
	logger *slog.Logger,
) *Server {
	s := &Server{
		cfg:          cfg,
		subscription: subscription,
		articles:     articles,
		subscribers:  subscribers,
		news:         news,
		auth:         auth,
		logger:       logger.With("component", "server"),
		router:       mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.logRequests)

	api.HandleFunc("/auth/register/", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login/", s.handleLogin).Methods(http.MethodPost)

	// latest/ must be registered ahead of the numeric {id} route.
	api.HandleFunc("/articles/latest/", s.handleLatestArticle).Methods(http.MethodGet)
	api.Handle("/articles/", s.requireAuth(s.handleListArticles)).Methods(http.MethodGet)
	api.Handle("/articles/", s.requireAuth(s.handleCreateArticle)).Methods(http.MethodPost)
	api.Handle("/articles/{id:[0-9]+}/", s.requireAuth(s.handleGetArticle)).Methods(http.MethodGet)
	api.Handle("/articles/{id:[0-9]+}/", s.requireAuth(s.handleUpdateArticle)).Methods(http.MethodPut)
	api.Handle("/articles/{id:[0-9]+}/", s.requireAuth(s.handleDeleteArticle)).Methods(http.MethodDelete)

	api.HandleFunc("/subscribe/", s.handleSubscribe).Methods(http.MethodPost)

	api.HandleFunc("/news/", s.handleListNews).Methods(http.MethodGet)
	api.HandleFunc("/news/", s.handleCreateNews).Methods(http.MethodPost)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("http server listening", "addr", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
