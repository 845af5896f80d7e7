package http

import (
	"net/http"

	"github.com/rallyrank/rating-engine/internal/config"
	"github.com/rallyrank/rating-engine/internal/metrics"
	"github.com/rallyrank/rating-engine/internal/notifier"
	"github.com/rallyrank/rating-engine/internal/players"
	"github.com/rallyrank/rating-engine/internal/processor"
	"github.com/rallyrank/rating-engine/internal/pubsub"
)

func NewServer(store players.Store, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/ratings", Chain(s.ListRatingsHandler(), paramsMiddleware))
	s.Router.Handle("/apply-result", Chain(s.ApplyResultHandler(), paramsMiddleware))
	s.Router.Handle("/pubsub/apply-result", Chain(s.ApplyResultPushHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/player", Chain(s.PlayerHandler(), paramsMiddleware))
	s.Router.Handle("/player/events", Chain(s.RatingEventsHandler(), paramsMiddleware))
	s.Router.Handle("/migrate-legacy", Chain(s.MigrateLegacyHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/rating", Chain(s.PlayerRatingCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
