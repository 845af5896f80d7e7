package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rallyrank/rating-engine/internal/leaderboard"
	"github.com/rallyrank/rating-engine/internal/metrics"
	"github.com/rallyrank/rating-engine/internal/notifier"
	"github.com/rallyrank/rating-engine/internal/rating"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendTierPromotion(rec rating.RatingRecord, previous rating.Tier, dryRun bool) error {
	msg := s.formatTierPromotion(rec, previous)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(entries []leaderboard.RankedEntry, title string, dryRun bool) error {
	msg := s.formatLeaderboard(entries, title)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendPlayerRating(rec *rating.RatingRecord, query string, dryRun bool) error {
	msg := s.formatPlayerRating(rec, query)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendPlayerNotFound(query string, dryRun bool) error {
	msg := s.formatPlayerNotFound(query)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(entries []leaderboard.RankedEntry, title string) (any, error) {
	return s.formatLeaderboard(entries, title), nil
}

// FormatPlayerRatingResponse formats a player rating message for a slash command response.
func (s *Notifier) FormatPlayerRatingResponse(rec *rating.RatingRecord, query string) (any, error) {
	return s.formatPlayerRating(rec, query), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

// formatTierPromotion creates the Slack message announcing a tier promotion using Block Kit.
func (s *Notifier) formatTierPromotion(rec rating.RatingRecord, previous rating.Tier) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header - The Header block itself provides bolding. No asterisks needed.
	headerText := slack.NewTextBlockObject("plain_text", "🎉 Tier promotion! 🎉", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s climbed from %s to %s!", rec.Name, previous, rec.Tier)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	// Context - For simpler, single-line info.
	contextText := fmt.Sprintf("Rating: %.0f • Matches played: %d", rec.Rating, rec.MatchesPlayed)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display a ranked leaderboard.
func (s *Notifier) formatLeaderboard(entries []leaderboard.RankedEntry, title string) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s 🏆", title), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No ratings available yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	// Player Ranks
	for _, entry := range entries {
		var medal string
		switch entry.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		tieMarker := ""
		if entry.IsTied {
			tieMarker = " (tied)"
		}

		playerText := fmt.Sprintf("%d. %s %s%s\n> *Rating*: %.0f | *Tier*: %s",
			entry.Rank,
			medal,
			entry.Name,
			tieMarker,
			entry.Score,
			entry.Tier,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerRating creates a Slack message to display a single player's rating card.
func (s *Notifier) formatPlayerRating(rec *rating.RatingRecord, query string) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := fmt.Sprintf("🏆 Rating for %s 🏆", rec.Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	playerText := fmt.Sprintf("> *Rating*: %.0f (%s)\n> *Record*: %d-%d (%.2f%% win rate)\n> *Streak*: %d (best: %d)",
		rec.Rating,
		rec.Tier,
		rec.Wins,
		rec.Losses,
		rec.WinRate,
		rec.CurrentStreak,
		rec.LongestStreak,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))

	typeText := fmt.Sprintf("Singles: %.0f • Doubles: %.0f • Mixed: %.0f",
		rec.SinglesRating,
		rec.DoublesRating,
		rec.MixedRating,
	)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", typeText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player's rating is not found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
