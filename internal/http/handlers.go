package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/rallyrank/rating-engine/internal/engine"
	"github.com/rallyrank/rating-engine/internal/leaderboard"
	"github.com/rallyrank/rating-engine/internal/migration"
	"github.com/rallyrank/rating-engine/internal/players"
	"github.com/rallyrank/rating-engine/internal/rating"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear entire store")
		s.Store.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}

func (s *Server) ListRatingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.Store.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

// ApplyResultHandler accepts a match outcome as JSON and runs it through the
// rating engine.
func (s *Server) ApplyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var outcome rating.MatchOutcome
		if err := json.NewDecoder(r.Body).Decode(&outcome); err != nil {
			log.Error("Failed to decode match outcome", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if outcome.MatchID == "" {
			outcome.MatchID = uuid.NewString()
		}
		if outcome.PlayedAt == 0 {
			outcome.PlayedAt = time.Now().Unix()
		}

		isDryRun := isDryRunFromContext(r)
		update, err := s.Processor.ApplyOutcome(outcome, isDryRun)
		if err != nil {
			if errors.Is(err, engine.ErrInvalidOutcome) || errors.Is(err, engine.ErrMissingClub) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("Failed to apply match outcome", "error", err, "matchID", outcome.MatchID)
			http.Error(w, "Failed to apply match outcome", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(update); err != nil {
			log.Error("Failed to encode update to JSON", "error", err)
		}
	}
}

// ApplyResultPushHandler accepts a match outcome delivered through a pub/sub
// push subscription.
func (s *Server) ApplyResultPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received apply result message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		outcome := rating.MatchOutcome{}
		if err := s.pubsub.ProcessMessage(rawData, &outcome); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if _, err := s.Processor.ApplyOutcome(outcome, isDryRun); err != nil {
			if errors.Is(err, engine.ErrInvalidOutcome) || errors.Is(err, engine.ErrMissingClub) {
				// Acknowledge bad outcomes so the subscription does not redeliver them forever.
				log.Warn("Dropping invalid match outcome from push subscription", "error", err, "matchID", outcome.MatchID)
				w.Write([]byte("OK"))
				return
			}
			log.Error("Failed to apply match outcome", "error", err, "matchID", outcome.MatchID)
			http.Error(w, "Failed to apply match outcome", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// leaderboardFilterFromQuery maps the query string onto a leaderboard filter.
func leaderboardFilterFromQuery(r *http.Request) leaderboard.Filter {
	q := r.URL.Query()
	f := leaderboard.Filter{
		Key:    leaderboard.Key(q.Get("key")),
		Window: leaderboard.Window(q.Get("window")),
		Gender: q.Get("gender"),
		ClubID: q.Get("club_id"),
	}
	if f.Key == "" {
		f.Key = leaderboard.KeyGlobal
	}
	if f.Window == "" {
		f.Window = leaderboard.WindowAllTime
	}
	return f
}

// buildLeaderboard computes a ranked leaderboard for the given filter from a
// fresh store snapshot.
func (s *Server) buildLeaderboard(f leaderboard.Filter) ([]leaderboard.RankedEntry, error) {
	startTime := time.Now()

	var entries []leaderboard.Entry
	if f.Key == leaderboard.KeyClub {
		if f.ClubID == "" {
			return nil, fmt.Errorf("club leaderboard requires a club_id")
		}
		stats, err := s.Store.ListClubStats(f.ClubID)
		if err != nil {
			return nil, err
		}
		records, err := s.Store.GetAllPlayers()
		if err != nil {
			return nil, err
		}
		recordsByID := make(map[string]rating.RatingRecord, len(records))
		for _, rec := range records {
			recordsByID[rec.PlayerID] = rec
		}
		entries = leaderboard.BuildClubEntries(stats, recordsByID, f)
	} else {
		records, err := s.Store.GetAllPlayers()
		if err != nil {
			return nil, err
		}
		entries = leaderboard.BuildEntries(records, f)
	}

	ranked := leaderboard.Rank(entries)
	s.Metrics.ObserveLeaderboardDuration(float64(time.Since(startTime).Milliseconds()))
	return ranked, nil
}

// LeaderboardHandler serves a ranked leaderboard. The ranking key, time
// window, gender and club filters all come from the query string; an optional
// player_id returns that player's rank within the filtered board instead of
// the full listing.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := leaderboardFilterFromQuery(r)
		ranked, err := s.buildLeaderboard(f)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			log.Error("Failed to build leaderboard", "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if playerID := r.URL.Query().Get("player_id"); playerID != "" {
			rank, ok := leaderboard.RankOf(ranked, playerID)
			resp := struct {
				PlayerID string `json:"player_id"`
				Rank     int    `json:"rank,omitempty"`
				Ranked   bool   `json:"ranked"`
			}{PlayerID: playerID, Rank: rank, Ranked: ok}
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				log.Error("Failed to encode rank to JSON", "error", err)
			}
			return
		}

		if err := json.NewEncoder(w).Encode(ranked); err != nil {
			log.Error("Failed to encode leaderboard to JSON", "error", err)
		}
	}
}

// PlayerHandler serves a single rating record, looked up by id or by a
// case-insensitive name fragment.
func (s *Server) PlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			rec *rating.RatingRecord
			err error
		)
		if id := r.URL.Query().Get("id"); id != "" {
			rec, err = s.Store.GetPlayer(id)
		} else if name := r.URL.Query().Get("name"); name != "" {
			rec, err = s.Store.GetPlayerByName(name)
		} else {
			http.Error(w, "id or name is required", http.StatusBadRequest)
			return
		}

		if err != nil {
			if errors.Is(err, players.ErrNotFound) {
				http.Error(w, "Player not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to get player", http.StatusInternalServerError)
			log.Error("Failed to get player from store", "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rec); err != nil {
			log.Error("Failed to encode player to JSON", "error", err)
		}
	}
}

// RatingEventsHandler serves the audit trail of rating changes for a player.
func (s *Server) RatingEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("player_id")
		if playerID == "" {
			http.Error(w, "player_id is required", http.StatusBadRequest)
			return
		}
		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err == nil && parsed > 0 {
				limit = parsed
			} else {
				log.Warn("Invalid 'limit' parameter provided. Using default.", "limit_param", limitStr)
			}
		}

		events, err := s.Store.ListRatingEvents(playerID, limit)
		if err != nil {
			http.Error(w, "Failed to get rating events", http.StatusInternalServerError)
			log.Error("Failed to get rating events from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(events); err != nil {
			log.Error("Failed to encode rating events to JSON", "error", err)
		}
	}
}

// MigrateLegacyHandler accepts a JSON array of legacy player documents and
// migrates them into unified rating records. The raw payload of every
// document is kept verbatim on the migrated record.
func (s *Server) MigrateLegacyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var rawBlobs []json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&rawBlobs); err != nil {
			log.Error("Failed to decode legacy documents", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		blobs := make([]migration.LegacyBlob, 0, len(rawBlobs))
		for _, raw := range rawBlobs {
			var blob migration.LegacyBlob
			if err := json.Unmarshal(raw, &blob); err != nil {
				log.Error("Failed to decode legacy document", "error", err)
				http.Error(w, "Invalid legacy document", http.StatusBadRequest)
				return
			}
			blob.Raw = raw
			blobs = append(blobs, blob)
		}

		isDryRun := isDryRunFromContext(r)
		summary := s.Processor.MigrateLegacy(blobs, isDryRun)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			log.Error("Failed to encode migration summary to JSON", "error", err)
		}
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
// The command text selects the ranking key, e.g. "/leaderboard singles".
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		f := leaderboard.Filter{Key: leaderboard.KeyGlobal, Window: leaderboard.WindowAllTime}
		if text := strings.TrimSpace(r.FormValue("text")); text != "" {
			f.Key = leaderboard.Key(strings.ToLower(text))
		}

		ranked, err := s.buildLeaderboard(f)
		if err != nil {
			http.Error(w, "Failed to build leaderboard", http.StatusInternalServerError)
			log.Error("Failed to build leaderboard", "error", err)
			return
		}

		title := fmt.Sprintf("Leaderboard (%s)", f.Key)
		msg, err := s.Notifier.FormatLeaderboardResponse(ranked, title)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// PlayerRatingCommandHandler returns a handler for the /rating Slack command.
func (s *Server) PlayerRatingCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		playerName := r.FormValue("text")
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player rating command", "player", playerName)

		rec, err := s.Store.GetPlayerByName(playerName)
		var msg any
		if err != nil {
			log.Warn("Could not find player rating", "player", playerName, "error", err)
			msg, err = s.Notifier.FormatPlayerNotFoundResponse(playerName)
		} else {
			msg, err = s.Notifier.FormatPlayerRatingResponse(rec, playerName)
		}

		if err != nil {
			http.Error(w, "Failed to format player rating", http.StatusInternalServerError)
			log.Error("Failed to format player rating", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
