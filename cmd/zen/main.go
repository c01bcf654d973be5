package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"zen/config"
	"zen/convert"
	"zen/filters"
	"zen/misc"
	"zen/state"
)

// initializeAppContext runs after command line is parsed and before any
// command: loads configuration, sets up logging and debug report.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
			if len(env.Cfg.Resources.Path) > 0 {
				env.Rpt.Store("resources/"+filepath.Base(env.Cfg.Resources.Path), env.Cfg.Resources.Path)
			}
		}
		env.Rpt.StoreData("args.txt", []byte(strings.Join(os.Args, "\n")))
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	env.RestoreStdLog()

	// from here on log is closed, errors go to stderr
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// empty panic file is not worth keeping
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Commands return plain errors instead of cli.Exit(), exit code is set in
// main.
var errWasHandled bool

// exitErrHandler runs before destroyAppContext so error still gets into log.
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {
	// commands check context before doing any work
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "expands CSS-like abbreviations into HTML, XML and HAML markup",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "expand",
				Usage:        "Expands abbreviation into markup",
				OnUsageError: usageErrorHandler,
				Action:       convert.Expand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "syntax", Aliases: []string{"s"}, Value: "html", Usage: "document `SYNTAX` (html, xhtml, xml, xsl, haml or one defined in resources)"},
					&cli.StringFlag{Name: "profile", Aliases: []string{"p"}, Usage: "output `PROFILE` (xhtml, html, xml, plain or custom), if absent - syntax default"},
					&cli.BoolFlag{Name: "strip-caret", Aliases: []string{"sc"}, Usage: "remove caret placeholders from output"},
				},
				ArgsUsage: "ABBREVIATION",
				CustomHelpTemplate: fmt.Sprintf(`%s
ABBREVIATION:
    CSS-like abbreviation, for example "ul#nav>li.item$*3>a", filters may be
    added at the end: "div>p|e" (available filters: %s)
`, cli.CommandHelpTemplate, strings.Join(filters.Default().Names(), ", ")),
			},
			{
				Name:         "wrap",
				Usage:        "Wraps text with abbreviation",
				OnUsageError: usageErrorHandler,
				Action:       convert.Wrap,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "syntax", Aliases: []string{"s"}, Value: "html", Usage: "document `SYNTAX` (html, xhtml, xml, xsl, haml or one defined in resources)"},
					&cli.StringFlag{Name: "profile", Aliases: []string{"p"}, Usage: "output `PROFILE` (xhtml, html, xml, plain or custom), if absent - syntax default"},
					&cli.BoolFlag{Name: "strip-caret", Aliases: []string{"sc"}, Usage: "remove caret placeholders from output"},
					&cli.StringFlag{Name: "encoding", Usage: "decode input text from `ENCODING` when it has no byte order mark (see IANA.org for character set names)"},
					&cli.IntFlag{Name: "cursor", Value: -1, Usage: "wrap only element around byte `OFFSET` and output the whole text"},
				},
				ArgsUsage: "ABBREVIATION [SOURCE]",
				CustomHelpTemplate: fmt.Sprintf(`%s
ABBREVIATION:
    abbreviation to wrap text with, text goes into element repeated by line
    ("ul>li*") or into the last element

SOURCE:
    path to text file, if absent or "-" - STDIN
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "match",
				Usage:        "Finds tag pair around cursor",
				OnUsageError: usageErrorHandler,
				Action:       convert.Match,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "syntax", Aliases: []string{"s"}, Value: "html", Usage: "document `SYNTAX` (html, xhtml, xml, xsl, haml or one defined in resources)"},
					&cli.StringFlag{Name: "encoding", Usage: "decode input text from `ENCODING` when it has no byte order mark (see IANA.org for character set names)"},
					&cli.IntFlag{Name: "cursor", Required: true, Usage: "byte `OFFSET` of the cursor in text"},
					&cli.StringFlag{Name: "balance", Usage: "move selection one step `DIRECTION` (in, out)"},
				},
				ArgsUsage: "[SOURCE]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to text file, if absent or "-" - STDIN

Outputs start and end offsets of the selection followed by selected text.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "list",
				Usage:        "Lists abbreviations and snippets available for syntax",
				OnUsageError: usageErrorHandler,
				Action:       convert.List,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "syntax", Aliases: []string{"s"}, Value: "html", Usage: "document `SYNTAX` (html, xhtml, xml, xsl, haml or one defined in resources)"},
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// os.Exit must stay the last deferred call
	defer func() {
		stop()
		if err != nil {
			// log is not ready yet or already closed
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Writing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
