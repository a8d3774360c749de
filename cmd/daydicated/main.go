package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daydicated/internal/auth"
	"github.com/julianstephens/daydicated/internal/cli"
	"github.com/julianstephens/daydicated/internal/cli/accounts"
	"github.com/julianstephens/daydicated/internal/cli/backups"
	"github.com/julianstephens/daydicated/internal/cli/days"
	"github.com/julianstephens/daydicated/internal/cli/settings"
	"github.com/julianstephens/daydicated/internal/cli/system"
	"github.com/julianstephens/daydicated/internal/constants"
	"github.com/julianstephens/daydicated/internal/controller"
	apperrors "github.com/julianstephens/daydicated/internal/errors"
	"github.com/julianstephens/daydicated/internal/logger"
	"github.com/julianstephens/daydicated/internal/prefs"
	"github.com/julianstephens/daydicated/internal/storage"
)

var CLI struct {
	Version    kong.VersionFlag
	Config     string `help:"SQLite file path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded; use the keyring, ${conn_env}, or .pgpass." env:"DAYDICATED_CONFIG" default:"${default_config}"`
	Debug      bool   `help:"Log debug output to stderr as well as the log file."`
	NoSettings bool   `help:"Disable theme and accent settings."`

	Init    system.InitCmd    `cmd:"" help:"Initialize daydicated storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive calendar." default:"1"`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage SQLite database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring availability and contents."`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
	User struct {
		Add  accounts.UserAddCmd  `cmd:"" help:"Create an account."`
		List accounts.UserListCmd `cmd:"" help:"List accounts."`
	} `cmd:"" help:"Manage accounts."`
	Login  accounts.LoginCmd  `cmd:"" help:"Sign in."`
	Logout accounts.LogoutCmd `cmd:"" help:"Sign out."`
	Whoami accounts.WhoamiCmd `cmd:"" help:"Show the signed-in account."`
	Day    struct {
		Set  days.DaySetCmd  `cmd:"" help:"Rate a day."`
		Show days.DayShowCmd `cmd:"" help:"Show a day's rating and note."`
	} `cmd:"" help:"Rate and inspect days."`
	Calendar days.CalendarCmd     `cmd:"" help:"Print a year calendar."`
	Export   days.ExportCmd       `cmd:"" help:"Export every user's entries."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage display settings."`
}

// commands that open the store themselves, or never need it
var skipLoad = []string{"init", "migrate", "doctor", "keyring"}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("A daily mood calendar for "+fmt.Sprint(constants.CalendarYear)),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"conn_env":       cli.EnvConnection,
		},
	)

	configDir := storage.ConfigDir(CLI.Config, constants.AppName)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := cli.ResolveStore(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store: store,
		Auth:  auth.NewService(store, auth.KeyringSessions{}),
		Config: controller.Config{
			SettingsEnabled: !CLI.NoSettings,
			Year:            constants.CalendarYear,
		},
	}
	if !CLI.NoSettings {
		appCtx.Prefs = prefs.Open(configDir)
	}

	if needsLoad(ctx.Command()) {
		if err := store.Load(context.Background()); err != nil {
			store.Close()
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

func needsLoad(command string) bool {
	for _, name := range skipLoad {
		if command == name || strings.HasPrefix(command, name+" ") {
			return false
		}
	}
	return true
}
