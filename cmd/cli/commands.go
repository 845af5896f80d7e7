package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	leaderboardKey    string
	leaderboardWindow string
	leaderboardGender string
	leaderboardClub   string
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(ratingsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(metricsCmd)

	leaderboardCmd.Flags().StringVar(&leaderboardKey, "key", "global", "Ranking key: global, singles, doubles, mixed, overall or club")
	leaderboardCmd.Flags().StringVar(&leaderboardWindow, "window", "all", "Time window: all, month or quarter")
	leaderboardCmd.Flags().StringVar(&leaderboardGender, "gender", "", "Restrict to a gender")
	leaderboardCmd.Flags().StringVar(&leaderboardClub, "club", "", "Club ID, required for the club key")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "List all rating records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/ratings")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Fetch a ranked leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		params.Set("key", leaderboardKey)
		params.Set("window", leaderboardWindow)
		if leaderboardGender != "" {
			params.Set("gender", leaderboardGender)
		}
		if leaderboardClub != "" {
			params.Set("club_id", leaderboardClub)
		}
		return performGetRequest("/leaderboard?" + params.Encode())
	},
}

var playerCmd = &cobra.Command{
	Use:   "player [name]",
	Short: "Look up a player's rating record by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/player?name=" + url.QueryEscape(args[0]))
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a match outcome read as JSON from stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		return performPostRequest("/apply-result", string(body))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

func performPostRequest(endpoint, payload string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", strings.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
