package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	// EventApplyResult carries a MatchOutcome to be applied to ratings.
	EventApplyResult EventType = "apply-result"
	// EventRatingUpdated announces a completed rating update to downstream
	// consumers (feed generation, push fan-out).
	EventRatingUpdated EventType = "rating-updated"
	// EventTierPromoted announces a player crossing into a higher tier.
	EventTierPromoted EventType = "tier-promoted"
)
