package processor

import (
	"github.com/rallyrank/rating-engine/internal/metrics"
	"github.com/rallyrank/rating-engine/internal/pubsub"
)

// Processor handles the business logic of applying match outcomes and
// migrating legacy skill data.
type Processor struct {
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
}

// MigrationSummary reports the outcome of a legacy migration batch.
type MigrationSummary struct {
	Total    int `json:"total"`
	Migrated int `json:"migrated"`
	Skipped  int `json:"skipped"`
}
