package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/campuspulse/campuspulse/internal/api"
	"github.com/campuspulse/campuspulse/internal/auth"
	"github.com/campuspulse/campuspulse/internal/cli"
	"github.com/campuspulse/campuspulse/internal/constants"
	"github.com/campuspulse/campuspulse/internal/logger"
	"github.com/campuspulse/campuspulse/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/campuspulse/campuspulse.db"`
	APIURL  string `name:"api-url" env:"CAMPUSPULSE_API_URL" default:"${default_api_url}" help:"Feedback service base URL."`
	Debug   bool   `help:"Log debug output to stderr as well as the log file."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize campuspulse storage."`
	Login    cli.LoginCmd    `cmd:"" help:"Log in to the feedback service."`
	Logout   cli.LogoutCmd   `cmd:"" help:"Log out and clear the stored session."`
	Whoami   cli.WhoamiCmd   `cmd:"" help:"Show the logged-in identity."`
	Status   cli.StatusCmd   `cmd:"" help:"Show pending and completed feedback."`
	Feedback cli.FeedbackCmd `cmd:"" help:"Fill in pending feedback interactively." default:"1"`
	Report   cli.ReportCmd   `cmd:"" help:"Render a consolidated feedback report for a staff member."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Admin    struct {
		Metadata  cli.AdminMetadataCmd  `cmd:"" help:"List staff, subjects, batches, and templates."`
		Schedule  cli.AdminScheduleCmd  `cmd:"" help:"Schedule feedback for a subject."`
		Schedules cli.AdminSchedulesCmd `cmd:"" help:"List existing schedules."`
		Analytics cli.AdminAnalyticsCmd `cmd:"" help:"Show aggregated feedback results."`
	} `cmd:"" help:"Administrative commands."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Terminal client for the campus feedback service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":         "v0.1.0",
			"default_api_url": constants.DefaultAPIBaseURL,
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	// Storage backend follows the config extension.
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}
	appCtx := &cli.Context{
		Store: store,
		API:   api.New(CLI.APIURL, auth.TokenSource(store)),
	}

	err := ctx.Run(appCtx)
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
