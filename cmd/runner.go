package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/termkit/internal/formatter"
	"github.com/desertthunder/termkit/internal/prompt"
	"github.com/desertthunder/termkit/internal/shared"
	"github.com/desertthunder/termkit/internal/tasks"
	"github.com/desertthunder/termkit/internal/terminal"
	"github.com/desertthunder/termkit/internal/ui"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// TerminalOpener opens the terminal prompts draw on. out receives all rendering.
type TerminalOpener func(out io.Writer) (*terminal.Terminal, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config       *shared.Config
	configPath   string
	logger       *log.Logger
	output       io.Writer // results for the calling script
	errOutput    io.Writer // prompts, spinners and bars
	input        io.Reader // piped candidates or job lines, nil when stdin is a terminal
	openTerminal TerminalOpener
	engine       *tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config       *shared.Config
	ConfigPath   string
	Logger       *log.Logger
	Output       io.Writer
	ErrOutput    io.Writer
	Input        io.Reader
	OpenTerminal TerminalOpener
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.OpenTerminal == nil {
		opts.OpenTerminal = terminal.OpenTTY
	}

	return &Runner{
		config:       opts.Config,
		configPath:   opts.ConfigPath,
		logger:       opts.Logger,
		output:       opts.Output,
		errOutput:    opts.ErrOutput,
		input:        opts.Input,
		openTerminal: opts.OpenTerminal,
		engine:       tasks.NewEngine(opts.Logger),
	}
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "termkit",
		Usage:   "Fuzzy pickers, prompts, spinners and progress bars for shell scripts",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
				Sources: cli.EnvVars("TERMKIT_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log at debug level",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file instead of stderr (default: log.file)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colors",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		pickCommand, branchCommand, spinCommand, progressCommand, batchCommand, setupCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before loads the config file and applies the global flags. A missing default config file is not an error.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")
	config, err := shared.LoadConfig(r.configPath)
	switch {
	case err == nil:
		r.config = config
	case errors.Is(err, shared.ErrMissingConfig) && !cmd.IsSet("config"):
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	default:
		return ctx, err
	}

	if cmd.Bool("no-color") || os.Getenv("NO_COLOR") != "" {
		r.config.Theme.Color = false
	}

	logFile := r.config.Log.File
	if cmd.IsSet("log-file") {
		logFile = cmd.String("log-file")
	}
	if logFile != "" {
		logger, err := shared.NewFileLogger(logFile)
		if err != nil {
			return ctx, err
		}
		r.logger = logger
	}

	level, err := shared.ParseLogLevel(r.config.Log.Level)
	if err != nil {
		return ctx, err
	}
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	r.engine = tasks.NewEngine(r.logger)
	return ctx, nil
}

func (r *Runner) theme() *ui.Theme {
	return ui.NewTheme(r.errOutput, r.config.Theme)
}

// console opens the terminal and wraps it in a prompt console. The returned func closes the terminal.
func (r *Runner) console() (*prompt.Console, func() error, error) {
	t, err := r.openTerminal(r.errOutput)
	if err != nil {
		return nil, nil, err
	}
	t.SetLogger(r.logger)
	return prompt.NewConsole(t, r.theme(), r.logger), t.Close, nil
}

// outputFormat resolves --format with the --print0 and --json shortcuts.
func outputFormat(cmd *cli.Command) (formatter.Format, error) {
	switch {
	case cmd.Bool("print0") && cmd.Bool("json"):
		return "", fmt.Errorf("%w: --print0 and --json are exclusive", shared.ErrInvalidFlag)
	case cmd.Bool("print0"):
		return formatter.Null, nil
	case cmd.Bool("json"):
		return formatter.JSON, nil
	}
	return formatter.ParseFormat(cmd.String("format"))
}

// readLines returns the non-blank lines of the named file, or of the piped input when path is empty.
func (r *Runner) readLines(path string) ([]string, error) {
	var data []byte
	var err error
	switch {
	case path != "":
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	case r.input != nil:
		if data, err = io.ReadAll(r.input); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
	default:
		return nil, nil
	}

	var lines []string
	for line := range strings.SplitSeq(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// status writes a final status line to the UI stream.
func (r *Runner) status(s ui.Status, msg string) {
	fmt.Fprintln(r.errOutput, r.theme().Status(s, msg))
}
