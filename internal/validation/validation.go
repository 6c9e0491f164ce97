package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

// IssueType represents the kind of validation problem
type IssueType string

const (
	IssueEmptyTitle         IssueType = "empty_title"
	IssueUnknownIcon        IssueType = "unknown_icon"
	IssueInvalidColor       IssueType = "invalid_color"
	IssueInvalidFrequency   IssueType = "invalid_frequency"
	IssueInvalidWeekday     IssueType = "invalid_weekday"
	IssueMissingTargetDays  IssueType = "missing_target_days"
	IssueInvalidDate        IssueType = "invalid_date"
	IssueDuplicateID        IssueType = "duplicate_id"
	IssueDuplicateTitle     IssueType = "duplicate_title"
	IssueStreakInconsistent IssueType = "streak_inconsistent"
)

// Issue represents one detected problem
type Issue struct {
	Type        IssueType
	Description string
	HabitID     string // empty for drafts
}

// ValidationResult contains all detected issues
type ValidationResult struct {
	Issues []Issue
}

func (vr *ValidationResult) HasIssues() bool {
	return len(vr.Issues) > 0
}

func (vr *ValidationResult) add(t IssueType, habitID, format string, args ...any) {
	vr.Issues = append(vr.Issues, Issue{Type: t, Description: fmt.Sprintf(format, args...), HabitID: habitID})
}

// Err returns the issues as a single error, or nil.
func (vr *ValidationResult) Err() error {
	if !vr.HasIssues() {
		return nil
	}
	msgs := make([]string, len(vr.Issues))
	for i, issue := range vr.Issues {
		msgs[i] = issue.Description
	}
	return fmt.Errorf("invalid habit: %s", strings.Join(msgs, "; "))
}

// FormatReport returns a human-readable report of all issues
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasIssues() {
		return "No issues detected."
	}

	var b strings.Builder
	b.WriteString("Issues detected:\n")
	for _, issue := range vr.Issues {
		fmt.Fprintf(&b, "- %s\n", issue.Description)
	}
	return b.String()
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validator checks habit input before it reaches the store
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateDraft checks a new habit. Empty icon, color and frequency are
// allowed; the store fills in defaults for them.
func (v *Validator) ValidateDraft(d models.HabitDraft) ValidationResult {
	result := ValidationResult{Issues: []Issue{}}

	if strings.TrimSpace(d.Title) == "" {
		result.add(IssueEmptyTitle, "", "Title cannot be empty")
	}
	v.checkIcon(&result, "", d.Icon)
	v.checkColor(&result, "", d.Color)
	v.checkSchedule(&result, "", d.Frequency, d.TargetDays)
	return result
}

// ValidateNewHabit is ValidateDraft plus a case-insensitive check that no
// existing habit already uses the title.
func (v *Validator) ValidateNewHabit(d models.HabitDraft, existing []models.Habit) ValidationResult {
	result := v.ValidateDraft(d)

	title := strings.TrimSpace(d.Title)
	for _, h := range existing {
		if title != "" && strings.EqualFold(strings.TrimSpace(h.Title), title) {
			result.add(IssueDuplicateTitle, h.ID, "Habit with title %q already exists", title)
			break
		}
	}
	return result
}

// ValidatePatch checks the fields a patch sets.
func (v *Validator) ValidatePatch(p models.HabitPatch) ValidationResult {
	result := ValidationResult{Issues: []Issue{}}

	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		result.add(IssueEmptyTitle, "", "Title cannot be empty")
	}
	if p.Icon != nil {
		if *p.Icon == "" {
			result.add(IssueUnknownIcon, "", "Icon cannot be empty")
		} else {
			v.checkIcon(&result, "", *p.Icon)
		}
	}
	if p.Color != nil {
		if *p.Color == "" {
			result.add(IssueInvalidColor, "", "Color cannot be empty")
		} else {
			v.checkColor(&result, "", *p.Color)
		}
	}
	if p.Frequency != nil || p.TargetDays != nil {
		var freq models.Frequency
		if p.Frequency != nil {
			freq = *p.Frequency
			if freq == "" {
				result.add(IssueInvalidFrequency, "", "Frequency cannot be empty")
			}
		}
		var days []models.Weekday
		if p.TargetDays != nil {
			days = *p.TargetDays
		}
		// Target days alone cannot be checked against a frequency the patch does not carry
		if p.Frequency == nil {
			v.checkWeekdays(&result, "", days)
		} else {
			v.checkSchedule(&result, "", freq, days)
		}
	}
	if p.StartDate != nil && !utils.ValidateDateFormat(*p.StartDate) {
		result.add(IssueInvalidDate, "", "Invalid start date %q (expected YYYY-MM-DD)", *p.StartDate)
	}
	return result
}

// ValidateHabits checks a stored collection for integrity problems.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	result := ValidationResult{Issues: []Issue{}}

	ids := make(map[string]int)
	titles := make(map[string][]string)
	for _, h := range habits {
		ids[h.ID]++
		if key := strings.ToLower(strings.TrimSpace(h.Title)); key != "" {
			titles[key] = append(titles[key], h.ID)
		}

		if h.StartDate != "" && !utils.ValidateDateFormat(h.StartDate) {
			result.add(IssueInvalidDate, h.ID, "Habit %q has invalid start date: %s", h.Title, h.StartDate)
		}
		seen := make(map[string]bool, len(h.CompletedDates))
		for _, d := range h.CompletedDates {
			if !utils.ValidateDateFormat(d) {
				result.add(IssueInvalidDate, h.ID, "Habit %q has invalid completion date: %s", h.Title, d)
			}
			if seen[d] {
				result.add(IssueInvalidDate, h.ID, "Habit %q lists %s more than once", h.Title, d)
			}
			seen[d] = true
		}
		if h.Streak < 0 || h.LongestStreak < h.Streak {
			result.add(IssueStreakInconsistent, h.ID, "Habit %q has streak %d but longest streak %d", h.Title, h.Streak, h.LongestStreak)
		}
		v.checkIcon(&result, h.ID, h.Icon)
		v.checkColor(&result, h.ID, h.Color)
		v.checkSchedule(&result, h.ID, h.Frequency, h.TargetDays)
	}

	for id, n := range ids {
		if n > 1 {
			result.add(IssueDuplicateID, id, "Habit ID %s is used %d times", id, n)
		}
	}
	for _, matching := range titles {
		if len(matching) > 1 {
			result.add(IssueDuplicateTitle, matching[0], "Duplicate habit title shared by IDs %v", matching)
		}
	}
	return result
}

func (v *Validator) checkIcon(result *ValidationResult, id, icon string) {
	if icon != "" && !models.IsKnownIcon(icon) {
		result.add(IssueUnknownIcon, id, "Unknown icon %q", icon)
	}
}

func (v *Validator) checkColor(result *ValidationResult, id, color string) {
	if color != "" && !colorPattern.MatchString(color) {
		result.add(IssueInvalidColor, id, "Invalid color %q (expected #RRGGBB)", color)
	}
}

func (v *Validator) checkSchedule(result *ValidationResult, id string, freq models.Frequency, days []models.Weekday) {
	if freq != "" && !freq.IsValid() {
		result.add(IssueInvalidFrequency, id, "Invalid frequency %q (expected daily, weekly or custom)", freq)
	}
	v.checkWeekdays(result, id, days)
	if freq == models.FrequencyCustom && len(days) == 0 {
		result.add(IssueMissingTargetDays, id, "Custom frequency needs at least one target day")
	}
}

func (v *Validator) checkWeekdays(result *ValidationResult, id string, days []models.Weekday) {
	for _, d := range days {
		if !d.IsValid() {
			result.add(IssueInvalidWeekday, id, "Invalid weekday %q (expected Mon..Sun)", d)
		}
	}
}
