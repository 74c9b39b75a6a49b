package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/netpong/internal/storage"
)

var (
	flagResultsDB string
	flagLimit     int
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show recorded match outcomes",
	Long: `Show the most recent decided matches from the outcome ledger.

Examples:
  pongd results
  pongd results --limit 20
  pongd results --db ./outcomes.db`,
	Run: runResults,
}

func init() {
	resultsCmd.Flags().StringVar(&flagResultsDB, "db", "", "Path to outcome ledger")
	resultsCmd.Flags().IntVarP(&flagLimit, "limit", "n", 10, "Number of matches to show")
}

func runResults(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)
	if cmd.Flags().Changed("db") {
		cfg.Server.DBPath = flagResultsDB
	}
	if cfg.Server.DBPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no outcome ledger configured (use --db)")
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Server.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	entries, err := store.RecentOutcomes(flagLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error loading outcomes: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent Matches")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Run 'pongd serve' and have two clients play to record one.")
		return
	}

	fmt.Printf("  %-8s  %-10s  %-8s  %-8s  %s\n", "Match", "Winner", "Ticks", "Speed", "Date")
	fmt.Printf("  %-8s  %-10s  %-8s  %-8s  %s\n", "-----", "------", "-----", "-----", "----")
	for _, e := range entries {
		id := e.MatchID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Printf("  %-8s  %-10s  %-8d  %-8.2f  %s\n",
			id, e.Winner, e.Ticks, e.BallSpeed, e.DecidedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println()

	stats, err := store.Stats()
	if err != nil {
		return
	}
	fmt.Printf("Matches: %d  (Player 1: %d, Player 2: %d)\n", stats.Matches, stats.Player1Wins, stats.Player2Wins)
	fmt.Printf("Longest rally: %d ticks\n", stats.LongestRally)
}
