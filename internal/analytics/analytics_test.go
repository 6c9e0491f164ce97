package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitlit/internal/models"
)

const today = "2024-06-10" // a Monday

func habit(id string, streak int, dates ...string) models.Habit {
	return models.Habit{ID: id, Streak: streak, CompletedDates: dates}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name   string
		habits []models.Habit
		want   int
	}{
		{name: "no habits", habits: nil, want: 0},
		{name: "half", habits: []models.Habit{habit("a", 1, today), habit("b", 0)}, want: 50},
		{name: "all", habits: []models.Habit{habit("a", 1, today)}, want: 100},
		{name: "rounded", habits: []models.Habit{habit("a", 1, today), habit("b", 0), habit("c", 0)}, want: 33},
		{name: "rounded up", habits: []models.Habit{habit("a", 1, today), habit("b", 1, today), habit("c", 0)}, want: 67},
		{name: "yesterday only", habits: []models.Habit{habit("a", 1, "2024-06-09")}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletionRate(tt.habits, today); got != tt.want {
				t.Errorf("CompletionRate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeeklyTrend(t *testing.T) {
	habits := []models.Habit{
		habit("a", 0, "2024-06-04", "2024-06-09", today),
		habit("b", 0, "2024-06-03", today),
		habit("c", 0, "2024-06-05"),
	}

	got := WeeklyTrend(habits, today)
	// 06-04 .. 06-10; 06-03 is outside the window
	want := []int{1, 1, 0, 0, 0, 1, 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WeeklyTrend() mismatch (-want +got):\n%s", diff)
	}

	if got := WeeklyTrend(nil, today); len(got) != 7 {
		t.Errorf("expected 7 entries for empty collection, got %d", len(got))
	}
}

func TestWeeklyTrend_CrossesMonth(t *testing.T) {
	got := WeeklyTrend([]models.Habit{habit("a", 0, "2024-02-28", "2024-02-29", "2024-03-01")}, "2024-03-02")
	want := []int{0, 0, 0, 1, 1, 1, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WeeklyTrend() mismatch (-want +got):\n%s", diff)
	}
}

func TestTrendLabels(t *testing.T) {
	want := []string{"Tu", "We", "Th", "Fr", "Sa", "Su", "Mo"}
	if diff := cmp.Diff(want, TrendLabels(today)); diff != "" {
		t.Errorf("TrendLabels() mismatch (-want +got):\n%s", diff)
	}
}

func TestRanking(t *testing.T) {
	habits := []models.Habit{
		habit("a", 1),
		habit("b", 4),
		habit("c", 4),
		habit("d", 0),
		habit("e", 2),
	}

	ids := func(hs []models.Habit) []string {
		var out []string
		for _, h := range hs {
			out = append(out, h.ID)
		}
		return out
	}

	if diff := cmp.Diff([]string{"b", "c", "e", "a", "d"}, ids(Ranking(habits, 0))); diff != "" {
		t.Errorf("Ranking() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "c", "e"}, ids(Ranking(habits, 3))); diff != "" {
		t.Errorf("Ranking(3) mismatch (-want +got):\n%s", diff)
	}
	if habits[0].ID != "a" {
		t.Error("Ranking must not reorder its input")
	}
}

func TestMonthCalendar(t *testing.T) {
	days := MonthCalendar(habit("a", 0, "2024-06-01", today, "2024-07-01"), today)
	if len(days) != 30 {
		t.Fatalf("expected 30 days in June, got %d", len(days))
	}
	if !days[0].Completed || days[0].Day != 1 {
		t.Errorf("unexpected first day: %+v", days[0])
	}
	if !days[9].Completed || !days[9].Today {
		t.Errorf("expected today marked and completed: %+v", days[9])
	}
	for _, d := range days {
		if d.Date == "2024-07-01" {
			t.Error("calendar leaked into the next month")
		}
	}

	if got := MonthCalendar(habit("a", 0), "not-a-date"); got != nil {
		t.Errorf("expected nil for invalid date, got %v", got)
	}
}
