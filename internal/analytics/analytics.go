// Package analytics derives read-only statistics from a habit collection.
package analytics

import (
	"math"
	"slices"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

// CalendarDay is one cell of a month calendar.
type CalendarDay struct {
	Date      string
	Day       int
	Completed bool
	Today     bool
}

// trailingDays returns the dates of the window ending at today, oldest first.
func trailingDays(today string) []string {
	days := make([]string, 0, constants.TrailingWindowDays)
	for i := constants.TrailingWindowDays - 1; i >= 0; i-- {
		day, err := utils.AddDays(today, -i)
		if err != nil {
			return nil
		}
		days = append(days, day)
	}
	return days
}

// WeeklyTrend counts completed habits for each of the seven days ending at
// today, oldest first.
func WeeklyTrend(habits []models.Habit, today string) []int {
	days := trailingDays(today)
	trend := make([]int, len(days))
	for i, day := range days {
		for _, h := range habits {
			if h.IsCompletedOn(day) {
				trend[i]++
			}
		}
	}
	return trend
}

// TrendLabels returns two-letter weekday labels aligned with WeeklyTrend.
func TrendLabels(today string) []string {
	days := trailingDays(today)
	labels := make([]string, len(days))
	for i, day := range days {
		wd, err := utils.Weekday(day)
		if err != nil {
			continue
		}
		labels[i] = wd.String()[:2]
	}
	return labels
}

// CompletionRate returns the percentage of habits completed today, rounded to
// the nearest integer. It is 0 for an empty collection.
func CompletionRate(habits []models.Habit, today string) int {
	if len(habits) == 0 {
		return 0
	}
	done := 0
	for _, h := range habits {
		if h.IsCompletedOn(today) {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(habits)) * 100))
}

// Ranking orders habits by current streak, longest first, keeping collection
// order among ties. n > 0 truncates the result.
func Ranking(habits []models.Habit, n int) []models.Habit {
	ranked := slices.Clone(habits)
	slices.SortStableFunc(ranked, func(a, b models.Habit) int {
		return b.Streak - a.Streak
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// MonthCalendar lists every day of today's month with the habit's completion.
func MonthCalendar(habit models.Habit, today string) []CalendarDay {
	days, err := utils.MonthDays(today)
	if err != nil {
		return nil
	}
	out := make([]CalendarDay, len(days))
	for i, day := range days {
		out[i] = CalendarDay{
			Date:      day,
			Day:       i + 1,
			Completed: habit.IsCompletedOn(day),
			Today:     day == today,
		}
	}
	return out
}
