package coach

// UIMode is a top-level screen of the terminal UI.
type UIMode int

const (
	UIModeRoutines UIMode = iota
	UIModePlayer
	UIModeHistory
)

// UIModeInfo describes a UI mode for display and key dispatch.
type UIModeInfo struct {
	Mode        UIMode
	DisplayName string
	KeyBinding  rune
}

// AllUIModes lists the modes in display order.
var AllUIModes = []UIModeInfo{
	{Mode: UIModeRoutines, DisplayName: "Routines", KeyBinding: '1'},
	{Mode: UIModePlayer, DisplayName: "Player", KeyBinding: '2'},
	{Mode: UIModeHistory, DisplayName: "History", KeyBinding: '3'},
}

// GetUIModeInfo returns the info for a mode, defaulting to Routines for an
// unknown mode.
func GetUIModeInfo(mode UIMode) UIModeInfo {
	for _, info := range AllUIModes {
		if info.Mode == mode {
			return info
		}
	}
	return AllUIModes[0]
}

// GetUIModeByKey maps a key binding to its mode.
func GetUIModeByKey(key rune) (UIMode, bool) {
	for _, info := range AllUIModes {
		if info.KeyBinding == key {
			return info.Mode, true
		}
	}
	return UIModeRoutines, false
}
