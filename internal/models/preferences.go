package models

import "github.com/julianstephens/daydicated/internal/constants"

// Preferences are the client-side display settings
type Preferences struct {
	Theme  string `json:"theme"`  // "dark" or "light"
	Accent string `json:"accent"` // hex color, e.g. "#0d6efd"
}

// DefaultPreferences returns the preferences used before anything is saved
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:  constants.DefaultTheme,
		Accent: constants.DefaultAccent,
	}
}
