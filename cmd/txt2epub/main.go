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

	"txt2epub/common"
	"txt2epub/config"
	"txt2epub/convert"
	"txt2epub/misc"
	"txt2epub/state"
)

// initializeAppContext prepares application context before command execution
// but after command line has been parsed.
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
		}
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
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	env.RestoreStdLog()

	// log is synced, from now on errors go directly to stderr
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := env.Cfg.Logging.PanicLogName()
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Subcommands return regular errors, they are logged once here before
// application context is destroyed.
var errWasHandled bool

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
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

func splitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "method", Aliases: []string{"m"},
			Usage: "chapter detection `METHOD` (" + strings.Join(common.SplitMethodNames(), ", ") + ")"},
		&cli.StringFlag{Name: "regex", Aliases: []string{"r"}, Usage: "chapter boundary `PATTERN`, matched at line starts"},
		&cli.StringFlag{Name: "regex-file", Usage: "read chapter boundary pattern from `FILE`, implies --method file"},
		&cli.StringFlag{Name: "preset",
			Usage: "built-in boundary `PATTERN` used when no regex is given (" + strings.Join(common.PresetNames(), ", ") + ")"},
		&cli.StringFlag{Name: "encoding", Aliases: []string{"e"},
			Usage: "manuscript character set `ENCODING` (see IANA.org for names), detected when absent"},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "converts plain text novels to styled EPUB books",
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
				Name:         "convert",
				Usage:        "Converts text manuscript to EPUB",
				OnUsageError: usageErrorHandler,
				Action:       convert.Run,
				Flags: append(splitFlags(),
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "book `TITLE`, guessed from file name when absent"},
					&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "book `AUTHOR`"},
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "book `LANGUAGE` tag (zh, en, ...)"},
					&cli.StringFlag{Name: "template",
						Usage: "visual `TEMPLATE` (" + strings.Join(common.CssTemplateNames(), ", ") + ")"},
					&cli.StringFlag{Name: "cover", Usage: "cover image `FILE`, text cover page is generated when absent"},
					&cli.StringFlag{Name: "header-image", Usage: "image `FILE` put on top of every chapter"},
					&cli.StringSliceFlag{Name: "gallery", Aliases: []string{"g"}, Usage: "gallery image `FILE` or directory, may be repeated"},
					&cli.StringFlag{Name: "font", Usage: "TTF or OTF font `FILE` to embed"},
					&cli.StringFlag{Name: "css", Usage: "base stylesheet `FILE` replacing embedded one"},
					&cli.StringFlag{Name: "chapters", Usage: "use chapter list `FILE` produced by split command instead of detection"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
				),
				ArgsUsage: "SOURCE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to manuscript, following forms are supported:
        path to a file: "[path_to_file]file.txt"
        path to archive with path inside archive to a particular file: "[path_to_archive]archive.zip[path_in_archive]/file.txt"
        path to archive with optional path inside archive: "[path_to_archive]archive.zip[path_in_archive]" - first .txt file under path is used

    Manuscript character set is taken from byte order mark, --encoding or
    detected as UTF-8 with GB18030 fallback.

DESTINATION:
    output directory, book file name is derived from output name template
    if absent - directory from configuration (current working directory by default)
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "split",
				Usage:        "Shows detected chapters, optionally saves them for editing",
				OnUsageError: usageErrorHandler,
				Action:       convert.Split,
				Flags: append(splitFlags(),
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "save chapter list to `FILE` (YAML) for later use with convert --chapters"},
				),
				ArgsUsage: "SOURCE",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to manuscript, same forms as for convert command

Saved chapter list may be edited (titles changed, chapters merged or split)
and passed to convert. When manuscript or detection settings change after the
list was saved convert warns about stale list.
`, cli.CommandHelpTemplate),
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
	// os.Exit is called at the end of main to set exit code, there must be no
	// other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			// log may be not set yet or already closed
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		data []byte
		kind string
	)
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		kind = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	out := os.Stdout
	if len(fname) > 0 {
		if out, err = os.Create(fname); err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer func() {
			err = multierr.Append(err, out.Close())
		}()
	} else {
		fname = "STDOUT"
	}
	env.Log.Info("Outputting configuration", zap.String("state", kind), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
