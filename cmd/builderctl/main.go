// Command builderctl lets a user with temporary SSH access to an ephemeral
// build machine inspect and adjust the machine's lifetime, and release it
// early.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"

	builderctl "github.com/buildfleet/builderctl"
	"github.com/buildfleet/builderctl/config"
	"github.com/buildfleet/builderctl/lifetime"
)

const helpText = `You have been granted temporary SSH access to this build machine so you can
inspect a build interactively. The machine is ephemeral: once its expiration
passes, the fleet manager destroys it together with everything stored on it.

The machine keeps running as long as its expiration lies in the future. Check
how much time is left with:

    builderctl show

Extend the expiration when you need more time (the request is rejected if it
would push past the allowed ceiling, which is anchored to the age of your SSH
access):

    builderctl prolong --hours 8

Please release the machine as soon as you are done with it, so it can be
returned to the pool instead of idling until it expires:

    builderctl release

Nothing on this machine survives teardown. Copy out anything you want to keep
before releasing it or letting it expire.`

type showCmd struct{}

func (c *showCmd) Run(app *appEnv) error {
	return app.status.Show(app.stdout)
}

type prolongCmd struct {
	Hours int `required:"" help:"Number of hours to add to the current expiration (may be negative)."`
}

func (c *prolongCmd) Run(app *appEnv) error {
	exp, err := app.status.Prolong(c.Hours)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Expiration prolonged to %s\n", exp.Format(builderctl.StampFormat))
	return nil
}

type releaseCmd struct{}

func (c *releaseCmd) Run(app *appEnv) error {
	stamp, err := app.status.Release()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Builder released, expired as of %s\n", stamp.Format(builderctl.StampFormat))
	return nil
}

type helpCmd struct{}

func (c *helpCmd) Run(app *appEnv) error {
	fmt.Fprintln(app.stdout, helpText)
	return nil
}

type cli struct {
	Config   string `help:"Builder deployment configuration file." default:"${config_path}" type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error)." enum:"debug,info,warn,error" default:"warn"`

	Help    helpCmd    `cmd:"" help:"Print instructions for using this build machine."`
	Show    showCmd    `cmd:"" help:"Print the remaining time and the build PID."`
	Prolong prolongCmd `cmd:"" help:"Extend the expiration by a number of hours."`
	Release releaseCmd `cmd:"" help:"Mark the machine expired immediately."`
}

type appEnv struct {
	status *lifetime.Status
	stdout io.Writer
}

func main() {
	// Exit codes: 1 for policy rejections, 2 for environment faults.
	var flags cli

	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"--help"}
	}

	parser := kong.Must(&flags,
		kong.Name("builderctl"),
		kong.Description("Inspect and adjust this build machine's lifetime."),
		kong.UsageOnError(),
		kong.Vars{"config_path": builderctl.DefaultConfigPath},
	)
	kctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevel(flags.LogLevel),
	}))

	cfg, err := config.Load(flags.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	app := &appEnv{
		status: lifetime.NewStatus(cfg, logger),
		stdout: os.Stdout,
	}

	if err := kctx.Run(app); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var limitErr *lifetime.ExceedsLimitError
		if errors.As(err, &limitErr) || errors.Is(err, lifetime.ErrNoExpiration) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
