package settings

import (
	"fmt"

	"github.com/julianstephens/daydicated/internal/cli"
	"github.com/julianstephens/daydicated/internal/prefs"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Theme  *string `help:"Color theme: dark or light."`
	Accent *string `help:"Accent color as a hex value, e.g. #0d6efd."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	ctrl := ctx.NewController()
	if !ctrl.Config().SettingsEnabled {
		return fmt.Errorf("settings are disabled (started with --no-settings)")
	}

	if c.List {
		p := ctrl.Preferences()
		ctx.Println("Current Settings:")
		ctx.Printf("  Theme:   %s\n", p.Theme)
		ctx.Printf("  Accent:  %s (text on accent: %s)\n", p.Accent, prefs.Contrast(p.Accent))
		ctx.Printf("  File:    %s\n", ctx.Prefs.Path())
		return nil
	}

	updated := false
	if c.Theme != nil {
		if err := ctrl.SetTheme(*c.Theme); err != nil {
			return err
		}
		updated = true
	}
	if c.Accent != nil {
		if err := ctrl.SetAccent(*c.Accent); err != nil {
			return err
		}
		updated = true
	}

	if updated {
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}
