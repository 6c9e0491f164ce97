package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/analytics"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	todayStyle  = lipgloss.NewStyle().Underline(true).Bold(true)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

// ShortID returns the first eight characters of an id for display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func statusMark(done bool) string {
	if done {
		return doneStyle.Render("✓")
	}
	return mutedStyle.Render("○")
}

// renderCalendar lays out one month as a Monday-first grid. Completed days
// use the habit color.
func renderCalendar(days []analytics.CalendarDay, color string) string {
	if len(days) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(mutedStyle.Render("Mo Tu We Th Fr Sa Su"))
	b.WriteString("\n")

	first, err := utils.Weekday(days[0].Date)
	if err != nil {
		return ""
	}
	// Monday-first column of the 1st
	offset := (int(first) + 6) % 7
	b.WriteString(strings.Repeat("   ", offset))

	completed := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	col := offset
	for _, d := range days {
		cell := fmt.Sprintf("%2d", d.Day)
		switch {
		case d.Completed:
			cell = completed.Render(cell)
		case !d.Today:
			cell = mutedStyle.Render(cell)
		}
		if d.Today {
			cell = todayStyle.Render(cell)
		}
		b.WriteString(cell)

		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		} else {
			b.WriteString(" ")
		}
	}
	return strings.TrimRight(b.String(), " \n")
}

func renderHabitLine(h models.Habit, today string) string {
	return fmt.Sprintf("%s %s  %s  %s  %s",
		statusMark(h.IsCompletedOn(today)),
		mutedStyle.Render(ShortID(h.ID)),
		h.Title,
		mutedStyle.Render(h.FormatFrequency()),
		fmt.Sprintf("streak %d (best %d)", h.Streak, h.LongestStreak),
	)
}

func renderBar(label string, count, peak, width int) string {
	n := 0
	if peak > 0 {
		n = count * width / peak
	}
	if count > 0 && n == 0 {
		n = 1
	}
	return fmt.Sprintf("%s %s %d", label, barStyle.Render(strings.Repeat("█", n)), count)
}
