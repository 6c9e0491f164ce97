package models

// State is a consistent snapshot of the habit collection and settings.
type State struct {
	Habits   []Habit
	Settings Settings
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s State) Clone() State {
	out := State{
		Habits:   make([]Habit, len(s.Habits)),
		Settings: s.Settings,
	}
	for i, h := range s.Habits {
		out.Habits[i] = h.Clone()
	}
	return out
}

// AllCompletedOn reports whether the collection is non-empty and every habit
// was completed on day.
func (s State) AllCompletedOn(day string) bool {
	if len(s.Habits) == 0 {
		return false
	}
	for _, h := range s.Habits {
		if !h.IsCompletedOn(day) {
			return false
		}
	}
	return true
}

// Find returns the index of the habit with id, or -1.
func (s State) Find(id string) int {
	for i, h := range s.Habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}
