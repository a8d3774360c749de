package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

// ExportFormat identifies one of the supported export serializations
type ExportFormat string

const (
	AppName            = "daydicated"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "session"
	DefaultConfigPath  = "~/.config/daydicated/daydicated.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// CalendarYear is the fixed year every calendar and export is scoped to
	CalendarYear = 2026

	// Rating bounds
	MinRating = 1
	MaxRating = 5

	// NotePreviewLen is the number of characters of a note shown inside a day cell
	NotePreviewLen = 10

	// NotificationLifetime is how long a notification stays on screen
	NotificationLifetime = 5 * time.Second

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "daydicated-"
	BackupFileSuffix = ".db"

	// Export constants
	ExportCSV    ExportFormat = "csv"
	ExportJSON   ExportFormat = "json"
	ExportICS    ExportFormat = "ics"
	MIMECSV                   = "text/csv"
	MIMEJSON                  = "application/json"
	MIMEICS                   = "text/calendar"
	ICSProductID              = "-//julianstephens//daydicated//EN"
)

// Session States
const (
	StateLogin SessionState = iota
	StateCalendar
	StateUsers
	StateSettings
	StateEditDay
	StateEditSettings
	StateExport
)
