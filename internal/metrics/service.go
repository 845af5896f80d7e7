package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RatingUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rating_updates_total",
			Help: "The total number of match outcomes applied to player ratings.",
		}),
		OutcomesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rating_outcomes_rejected_total",
			Help: "The total number of match outcomes rejected as invalid input.",
		}),
		TierPromotions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rating_tier_promotions_total",
			Help: "The total number of tier promotions produced by rating updates.",
		}),
		LegacyMigrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rating_legacy_migrations_total",
			Help: "The total number of legacy records normalized into the unified representation.",
		}),
		UpdateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rating_update_duration_seconds",
			Help:    "The duration of individual rating updates, persistence included.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		LeaderboardDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rating_leaderboard_query_duration_seconds",
			Help:    "The duration of leaderboard snapshot queries and ranking.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rating_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rating_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rating_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RatingUpdates,
		s.OutcomesRejected,
		s.TierPromotions,
		s.LegacyMigrations,
		s.UpdateDuration,
		s.LeaderboardDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRatingUpdates() {
	s.RatingUpdates.Inc()
}

func (s *Service) IncOutcomesRejected() {
	s.OutcomesRejected.Inc()
}

func (s *Service) IncTierPromotions() {
	s.TierPromotions.Inc()
}

func (s *Service) IncLegacyMigrations() {
	s.LegacyMigrations.Inc()
}

func (s *Service) ObserveUpdateDuration(duration float64) {
	s.UpdateDuration.Observe(duration)
}

func (s *Service) ObserveLeaderboardDuration(duration float64) {
	s.LeaderboardDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
