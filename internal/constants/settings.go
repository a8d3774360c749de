package constants

const (
	// Preference keys
	SettingTheme  = "theme"
	SettingAccent = "accent"

	// Theme values
	ThemeDark  = "dark"
	ThemeLight = "light"

	// Default preference values
	DefaultTheme  = ThemeDark
	DefaultAccent = "#0d6efd"

	// PrefsFileName is the client-side preferences file kept next to the config
	PrefsFileName = "prefs.json"
)
