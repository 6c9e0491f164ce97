package models

import "slices"

// Icons is the fixed palette of symbolic icon tags a habit may use.
var Icons = []string{
	"fitness", "walk", "bicycle", "barbell",
	"book", "school", "library", "language",
	"water", "cafe", "restaurant", "nutrition",
	"moon", "sunny", "alarm", "bed",
	"code", "laptop", "desktop", "game-controller",
	"brush", "color-palette", "musical-notes", "camera",
}

// Colors is the palette of theme tokens offered for habits.
var Colors = []string{"#007AFF", "#FF9500", "#FF3B30", "#5856D6", "#34C759", "#FF2D55"}

func IsKnownIcon(icon string) bool {
	return slices.Contains(Icons, icon)
}
