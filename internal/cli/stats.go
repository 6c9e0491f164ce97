package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/julianstephens/habitlit/internal/analytics"
	"github.com/julianstephens/habitlit/internal/constants"
)

const trendBarWidth = 20

type StatsCmd struct {
	Top int `help:"Number of habits in the streak ranking." default:"3"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	if c.Top <= 0 {
		c.Top = constants.DefaultRankingSize
	}

	store, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	defer store.Close()

	habits := store.Habits()
	today := store.Today()

	ctx.Println(headerStyle.Render("Today"))
	ctx.Printf("  Completion rate: %d%%\n", analytics.CompletionRate(habits, today))
	ctx.Println()

	ctx.Println(headerStyle.Render(fmt.Sprintf("Last %d days", constants.TrailingWindowDays)))
	trend := analytics.WeeklyTrend(habits, today)
	labels := analytics.TrendLabels(today)
	peak := slices.Max(trend)
	for i, count := range trend {
		ctx.Println("  " + renderBar(labels[i], count, peak, trendBarWidth))
	}
	ctx.Println()

	ctx.Println(headerStyle.Render("Top streaks"))
	ranked := analytics.Ranking(habits, c.Top)
	if len(ranked) == 0 {
		ctx.Println("  No habits yet.")
		return nil
	}
	for i, h := range ranked {
		ctx.Printf("  %d. %s  %s\n", i+1, h.Title, mutedStyle.Render(fmt.Sprintf("%d days", h.Streak)))
	}
	return nil
}
