package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daydicated/internal/constants"
	"github.com/julianstephens/daydicated/internal/controller"
	"github.com/julianstephens/daydicated/internal/prefs"
)

type LoginFormModel struct {
	Email    string
	Password string
}

type DayFormModel struct {
	Date   string
	Rating string
	Note   string
}

type SettingsFormModel struct {
	Theme  string
	Accent string
}

type ExportFormModel struct {
	Format constants.ExportFormat
}

func NewLoginForm(fm *LoginFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("enter an email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password cannot be empty")
					}
					return nil
				}),
		).Title(constants.AppName).Description("Sign in to your mood calendar"),
	).WithTheme(huh.ThemeDracula())
}

func NewDayForm(fm *DayFormModel) *huh.Form {
	options := make([]huh.Option[string], 0, constants.MaxRating)
	for r := constants.MinRating; r <= constants.MaxRating; r++ {
		v := strconv.Itoa(r)
		options = append(options, huh.NewOption(strings.Repeat("★", r)+" "+v, v))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Rating for "+fm.Date).
				Options(options...).
				Value(&fm.Rating).
				Validate(func(s string) error {
					_, err := controller.ParseRating(s)
					return err
				}),
			huh.NewText().
				Title("Note").
				Description("Optional").
				Value(&fm.Note),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewSettingsForm(fm *SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Dark", constants.ThemeDark),
					huh.NewOption("Light", constants.ThemeLight),
				).
				Value(&fm.Theme),
			huh.NewInput().
				Title("Accent color").
				Description("Hex value, e.g. "+constants.DefaultAccent).
				Value(&fm.Accent).
				Validate(func(s string) error {
					_, err := prefs.NormalizeAccent(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewExportForm(fm *ExportFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[constants.ExportFormat]().
				Title("Export every user's entries as").
				Options(
					huh.NewOption("CSV", constants.ExportCSV),
					huh.NewOption("JSON", constants.ExportJSON),
					huh.NewOption("iCalendar", constants.ExportICS),
				).
				Value(&fm.Format),
		),
	).WithTheme(huh.ThemeDracula())
}
