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

type Server struct {
	Store          players.Store
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
