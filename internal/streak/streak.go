// Package streak derives consecutive-day completion counts from a set of dates.
package streak

import "github.com/julianstephens/habitlit/internal/utils"

// Set builds a lookup set from a list of YYYY-MM-DD dates.
func Set(dates []string) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// Current returns the length of the run of consecutive completed days ending
// today, or ending yesterday when today has not been completed yet.
// An unparseable today yields 0.
func Current(dates []string, today string) int {
	return CurrentFromSet(Set(dates), today)
}

// CurrentFromSet is Current over a prebuilt set.
func CurrentFromSet(set map[string]struct{}, today string) int {
	if len(set) == 0 || !utils.ValidateDateFormat(today) {
		return 0
	}

	cursor := today
	if _, ok := set[cursor]; !ok {
		cursor = utils.MustAddDays(cursor, -1)
	}

	count := 0
	for {
		if _, ok := set[cursor]; !ok {
			return count
		}
		count++
		cursor = utils.MustAddDays(cursor, -1)
	}
}
