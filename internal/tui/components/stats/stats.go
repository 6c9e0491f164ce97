package stats

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/analytics"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

const barWidth = 24

type Model struct {
	habits []models.Habit
	today  string
	width  int
	height int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	rateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

func New(habits []models.Habit, today string, width, height int) Model {
	return Model{habits: habits, today: today, width: width, height: height}
}

func (m *Model) SetHabits(habits []models.Habit, today string) {
	m.habits = habits
	m.today = today
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Today"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Completion rate %s\n\n", rateStyle.Render(fmt.Sprintf("%d%%", analytics.CompletionRate(m.habits, m.today))))

	b.WriteString(titleStyle.Render(fmt.Sprintf("Last %d days", constants.TrailingWindowDays)))
	b.WriteString("\n")
	trend := analytics.WeeklyTrend(m.habits, m.today)
	labels := analytics.TrendLabels(m.today)
	peak := slices.Max(trend)
	for i, count := range trend {
		n := 0
		if peak > 0 {
			n = count * barWidth / peak
		}
		fmt.Fprintf(&b, "%s %s %d\n", mutedStyle.Render(labels[i]), barStyle.Render(strings.Repeat("█", n)), count)
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Top streaks"))
	b.WriteString("\n")
	ranked := analytics.Ranking(m.habits, constants.DefaultRankingSize)
	if len(ranked) == 0 {
		b.WriteString(mutedStyle.Render("No habits yet."))
	}
	for i, h := range ranked {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, h.Title, mutedStyle.Render(fmt.Sprintf("%d days", h.Streak)))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		MaxHeight(m.height).
		Padding(1, 2).
		Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
