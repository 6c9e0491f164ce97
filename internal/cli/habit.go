package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/analytics"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tui"
	"github.com/julianstephens/habitlit/internal/validation"
)

// habitForm runs the interactive add form. Swapped out in tests.
var habitForm = func(fm *tui.HabitFormModel) error {
	return tui.NewHabitForm(fm).Run()
}

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit an existing habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
	Done   HabitDoneCmd   `cmd:"" help:"Toggle today's completion of a habit."`
	List   HabitListCmd   `cmd:"" help:"List habits." default:"1"`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit with its month calendar."`
}

type HabitAddCmd struct {
	Title       string   `arg:"" optional:"" help:"Habit title. Opens a form when omitted."`
	Description string   `help:"Habit description."`
	Icon        string   `help:"Icon name from the palette."`
	Color       string   `help:"Color token (#RRGGBB)."`
	Frequency   string   `help:"daily, weekly or custom."`
	Days        []string `help:"Target days for a custom frequency (e.g. mon,wed,fri)."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	var draft models.HabitDraft
	if strings.TrimSpace(c.Title) == "" {
		fm := tui.NewHabitFormModel()
		if err := habitForm(fm); err != nil {
			return err
		}
		draft = fm.Draft()
	} else {
		days, err := ParseWeekdays(c.Days)
		if err != nil {
			return err
		}
		draft = models.HabitDraft{
			Title:       strings.TrimSpace(c.Title),
			Description: c.Description,
			Icon:        c.Icon,
			Color:       c.Color,
			Frequency:   models.Frequency(strings.ToLower(c.Frequency)),
			TargetDays:  days,
		}
	}

	if result := validation.New().ValidateDraft(draft); result.HasIssues() {
		return result.Err()
	}

	store, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	defer store.Close()

	if result := validation.New().ValidateNewHabit(draft, store.Habits()); result.HasIssues() {
		return result.Err()
	}

	habit := store.AddHabit(draft)
	ctx.Printf("Added habit: %s (%s)\n", habit.Title, ShortID(habit.ID))
	return nil
}

type HabitEditCmd struct {
	Habit       string   `arg:"" help:"Habit id, id prefix or title."`
	Title       *string  `help:"New title."`
	Description *string  `help:"New description."`
	Icon        *string  `help:"New icon."`
	Color       *string  `help:"New color token."`
	Frequency   *string  `help:"New frequency (daily, weekly, custom)."`
	Days        []string `help:"New target days."`
	Start       *string  `help:"New start date (YYYY-MM-DD)."`
}

func (c *HabitEditCmd) patch() (models.HabitPatch, error) {
	patch := models.HabitPatch{
		Title:       c.Title,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		StartDate:   c.Start,
	}
	if c.Frequency != nil {
		freq := models.Frequency(strings.ToLower(*c.Frequency))
		patch.Frequency = &freq
	}
	if c.Days != nil {
		days, err := ParseWeekdays(c.Days)
		if err != nil {
			return patch, err
		}
		patch.TargetDays = &days
	}
	return patch, nil
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	patch, err := c.patch()
	if err != nil {
		return err
	}
	if patch == (models.HabitPatch{}) {
		ctx.Println("No changes specified. Use flags such as --title or --frequency to edit the habit.")
		return nil
	}

	store, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	defer store.Close()

	habit, err := ResolveHabit(store.Habits(), c.Habit)
	if err != nil {
		return err
	}

	// A custom frequency needs days, either from the patch or already stored
	check := patch
	if check.Frequency != nil && *check.Frequency == models.FrequencyCustom && check.TargetDays == nil {
		check.TargetDays = &habit.TargetDays
	}
	result := validation.New().ValidatePatch(check)
	if err := result.Err(); err != nil {
		return err
	}

	store.UpdateHabit(habit.ID, patch)
	ctx.Printf("Updated habit: %s\n", habit.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	store, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	defer store.Close()

	habit, err := ResolveHabit(store.Habits(), c.Habit)
	if err != nil {
		return err
	}

	store.DeleteHabit(habit.ID)
	ctx.Printf("Deleted habit: %s\n", habit.Title)
	return nil
}

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
}

func (c *HabitDoneCmd) Run(ctx *Context) error {
	store, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	defer store.Close()

	habit, err := ResolveHabit(store.Habits(), c.Habit)
	if err != nil {
		return err
	}

	today := store.Today()
	store.ToggleCompletion(habit.ID, today)

	updated, _ := store.Habit(habit.ID)
	if updated.IsCompletedOn(today) {
		ctx.Printf("Marked %q done for %s (streak %d)\n", updated.Title, today, updated.Streak)
	} else {
		ctx.Printf("Unmarked %q for %s (streak %d)\n", updated.Title, today, updated.Streak)
	}
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	store, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	defer store.Close()

	habits := store.Habits()
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	today := store.Today()
	ctx.Println(headerStyle.Render(fmt.Sprintf("Habits for %s", today)))
	for _, h := range habits {
		ctx.Println(renderHabitLine(h, today))
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	store, err := ctx.OpenHabits(context.Background())
	if err != nil {
		return err
	}
	defer store.Close()

	habit, err := ResolveHabit(store.Habits(), c.Habit)
	if err != nil {
		return err
	}

	today := store.Today()
	ctx.Println(headerStyle.Render(habit.Title))
	if habit.Description != "" {
		ctx.Println(habit.Description)
	}
	ctx.Printf("  ID:             %s\n", habit.ID)
	ctx.Printf("  Frequency:      %s\n", habit.FormatFrequency())
	ctx.Printf("  Icon:           %s\n", habit.Icon)
	ctx.Printf("  Color:          %s\n", habit.Color)
	ctx.Printf("  Started:        %s\n", habit.StartDate)
	ctx.Printf("  Streak:         %d\n", habit.Streak)
	ctx.Printf("  Longest Streak: %d\n", habit.LongestStreak)
	ctx.Printf("  Done Today:     %v\n", habit.IsCompletedOn(today))
	ctx.Println()
	ctx.Println(renderCalendar(analytics.MonthCalendar(habit, today), habit.Color))
	return nil
}
