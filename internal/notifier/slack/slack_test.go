package slack

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rallyrank/rating-engine/internal/leaderboard"
	"github.com/rallyrank/rating-engine/internal/metrics"
	"github.com/rallyrank/rating-engine/internal/rating"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

// Test one of the public methods to ensure it calls the private sender.
func TestSendTierPromotion_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	rec := rating.NewRatingRecord("p1", "Alice")
	rec.Rating = 1403
	rec.Tier = rating.TierPlatinum

	err := notifier.SendTierPromotion(rec, rating.TierGold, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendTierPromotion")
}

func TestFormatTierPromotion(t *testing.T) {
	rec := rating.NewRatingRecord("p1", "Alice")
	rec.Rating = 1403
	rec.Tier = rating.TierPlatinum
	rec.MatchesPlayed = 51

	client := &Notifier{channelID: "C123"}
	msg := client.formatTierPromotion(rec, rating.TierGold)
	require.Len(t, msg.Blocks.BlockSet, 3, "Expected 3 blocks")

	// 1. Header Block
	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "Tier promotion")

	// 2. Section Block with the climb
	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "Alice climbed from GOLD to PLATINUM")

	// 3. Context Block with the numbers
	contextBlock, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	textObj, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Contains(t, textObj.Text, "1403")
}

func TestFormatLeaderboard(t *testing.T) {
	entries := []leaderboard.RankedEntry{
		{Rank: 1, PlayerID: "p1", Name: "Alice", Score: 1500, Tier: rating.TierPlatinum},
		{Rank: 2, PlayerID: "p2", Name: "Bob", Score: 1400, Tier: rating.TierPlatinum, IsTied: true},
		{Rank: 2, PlayerID: "p3", Name: "Carol", Score: 1400, Tier: rating.TierPlatinum, IsTied: true},
	}

	client := &Notifier{channelID: "C123"}
	msg := client.formatLeaderboard(entries, "Leaderboard (global)")
	require.Len(t, msg.Blocks.BlockSet, 4, "Expected a header plus one block per entry")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "Leaderboard (global)")

	first, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(first.Text.Text, "1. 🥇 Alice"))

	second, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, second.Text.Text, "🥈 Bob (tied)")
	assert.Contains(t, second.Text.Text, "*Rating*: 1400")
}

func TestFormatLeaderboard_Empty(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	msg := client.formatLeaderboard(nil, "Leaderboard (global)")
	require.Len(t, msg.Blocks.BlockSet, 2)

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "No ratings available yet")
}

func TestFormatPlayerRating(t *testing.T) {
	rec := rating.NewRatingRecord("p1", "Alice")
	rec.Rating = 1500
	rec.Tier = rating.TierPlatinum
	rec.Wins = 6
	rec.Losses = 4
	rec.WinRate = 0.6
	rec.CurrentStreak = 2
	rec.LongestStreak = 3
	rec.SinglesRating = 1520
	rec.DoublesRating = 1480
	rec.MixedRating = 1500

	client := &Notifier{channelID: "C123"}
	msg := client.formatPlayerRating(&rec, "alice")
	require.Len(t, msg.Blocks.BlockSet, 3)

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "Alice")

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "*Record*: 6-4")

	contextBlock, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	textObj, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Contains(t, textObj.Text, "Singles: 1520")
}

func TestFormatPlayerNotFound(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	msg := client.formatPlayerNotFound("nobody")
	require.Len(t, msg.Blocks.BlockSet, 1)

	section, ok := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "*nobody*")
}
