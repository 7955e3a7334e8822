package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/equity"
	"github.com/tablestakes/holdem/internal/ranker"
)

// OddsCmd estimates equity for a hand against random opponents
type OddsCmd struct {
	Hole      string `arg:"" help:"Hole cards, e.g. 'Ah Kh'"`
	Board     string `short:"b" help:"Community cards, e.g. '7h 8h 9h'"`
	Opponents int    `short:"o" default:"1" help:"Number of opponents"`
	Trials    int    `short:"t" default:"50000" help:"Number of Monte Carlo trials"`
	Seed      *int64 `help:"Random seed for reproducible results"`
}

var (
	oddsHandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	oddsWinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	oddsTieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	oddsCategoryStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("12"))
)

func (c *OddsCmd) Run() error {
	hole, err := deck.ParseCards(c.Hole)
	if err != nil {
		return fmt.Errorf("parsing hole cards: %w", err)
	}
	if len(hole) != 2 {
		return fmt.Errorf("expected 2 hole cards, got %d", len(hole))
	}

	var board []deck.Card
	if c.Board != "" {
		if board, err = deck.ParseCards(c.Board); err != nil {
			return fmt.Errorf("parsing board: %w", err)
		}
		if len(board) > 5 {
			return fmt.Errorf("board cannot have more than 5 cards")
		}
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	est := equity.New(ranker.NewStandardRanker())
	start := time.Now()
	result, err := est.Estimate(context.Background(), rng, hole, board, c.Opponents, c.Trials)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Hand: %s", oddsHandStyle.Render(cardList(hole)))
	if len(board) > 0 {
		fmt.Printf("   Board: %s", oddsHandStyle.Render(cardList(board)))
	}
	fmt.Printf("\nOpponents: %d   Trials: %d   (%s)\n\n", c.Opponents, result.Trials, elapsed.Round(time.Millisecond))

	lower, upper := result.ConfidenceInterval()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Win:\t%s\n", oddsWinStyle.Render(percent(result.WinRate())))
	fmt.Fprintf(w, "Tie:\t%s\n", oddsTieStyle.Render(percent(result.TieRate())))
	fmt.Fprintf(w, "Loss:\t%s\n", percent(result.LossRate()))
	fmt.Fprintf(w, "Equity:\t%s (95%% CI %s - %s)\n", oddsWinStyle.Render(percent(result.Equity())), percent(lower), percent(upper))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nHand categories:")
	cw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, entry := range sortedDistribution(result.Distribution) {
		fmt.Fprintf(cw, "  %s\t%s\n", oddsCategoryStyle.Render(entry.name), percent(entry.fraction))
	}
	return cw.Flush()
}

func cardList(cards []deck.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

type distEntry struct {
	name     string
	fraction float64
}

// sortedDistribution orders categories most-frequent first
func sortedDistribution(dist map[string]float64) []distEntry {
	entries := make([]distEntry, 0, len(dist))
	for name, fraction := range dist {
		if fraction > 0 {
			entries = append(entries, distEntry{name: name, fraction: fraction})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].fraction != entries[j].fraction {
			return entries[i].fraction > entries[j].fraction
		}
		return entries[i].name < entries[j].name
	})
	return entries
}
