package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRatingUpdates()
	IncOutcomesRejected()
	IncTierPromotions()
	IncLegacyMigrations()
	ObserveUpdateDuration(duration float64)
	ObserveLeaderboardDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
