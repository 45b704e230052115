package models

// Icon is the symbolic name of a badge or challenge glyph.
type Icon string

const (
	IconMountain Icon = "Mountain"
	IconTimer    Icon = "Timer"
	IconTarget   Icon = "Target"
	IconZap      Icon = "Zap"
	IconMedal    Icon = "Medal"
	IconStar     Icon = "Star"
	IconCrown    Icon = "Crown"
	IconAward    Icon = "Award"
	IconFlame    Icon = "Flame"
	IconTrophy   Icon = "Trophy"
	IconUnknown  Icon = "unknown"
)

var iconGlyphs = map[Icon]string{
	IconMountain: "⛰️",
	IconTimer:    "⏱️",
	IconTarget:   "🎯",
	IconZap:      "⚡",
	IconMedal:    "🏅",
	IconStar:     "⭐",
	IconCrown:    "👑",
	IconAward:    "🎖️",
	IconFlame:    "🔥",
	IconTrophy:   "🏆",
}

// ParseIcon maps a stored icon name onto the known set, falling back to IconUnknown.
func ParseIcon(name string) Icon {
	if icon := Icon(name); icon.Known() {
		return icon
	}
	return IconUnknown
}

// Known reports whether the icon is part of the closed set.
func (i Icon) Known() bool {
	_, ok := iconGlyphs[i]
	return ok
}

// Glyph resolves the display glyph. Unknown icons render as a trophy.
func (i Icon) Glyph() string {
	if g, ok := iconGlyphs[ParseIcon(string(i))]; ok {
		return g
	}
	return iconGlyphs[IconTrophy]
}
