package cli

import (
	"strings"
	"testing"
)

func TestStatsCmd_Empty(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&StatsCmd{Top: 3}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{"Completion rate: 0%", "Last 7 days", "No habits yet."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stats output missing %q: %q", want, out.String())
		}
	}
}

func TestStatsCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addHabit(t, ctx, HabitAddCmd{Title: "Read"})
	addHabit(t, ctx, HabitAddCmd{Title: "Walk"})
	if err := (&HabitDoneCmd{Habit: "Walk"}).Run(ctx); err != nil {
		t.Fatalf("habit done failed: %v", err)
	}

	out.Reset()
	if err := (&StatsCmd{Top: 1}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Completion rate: 50%") {
		t.Errorf("expected 50%% completion: %q", got)
	}
	if !strings.Contains(got, "1. Walk") {
		t.Errorf("expected Walk to top the ranking: %q", got)
	}
	if strings.Contains(got, "2. ") {
		t.Errorf("ranking should be limited to one entry: %q", got)
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		count, peak int
		want        int
	}{
		{count: 0, peak: 0, want: 0},
		{count: 2, peak: 4, want: 10},
		{count: 1, peak: 100, want: 1},
		{count: 4, peak: 4, want: 20},
	}
	for _, tt := range tests {
		bar := renderBar("Mon", tt.count, tt.peak, 20)
		if got := strings.Count(bar, "█"); got != tt.want {
			t.Errorf("renderBar(%d, %d) has %d blocks, want %d", tt.count, tt.peak, got, tt.want)
		}
	}
}
