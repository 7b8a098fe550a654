// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format: plain, null, json, csv or table",
			Value: "plain",
		},
		&cli.BoolFlag{
			Name:  "print0",
			Usage: "Terminate values with NUL instead of newline (same as --format null)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output JSON (same as --format json)",
		},
	}
}

func selectorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "message",
			Aliases: []string{"m"},
			Usage:   "Question shown above the list",
		},
		&cli.StringFlag{
			Name:  "prompt",
			Usage: "Text shown before the query (default: selector.prompt)",
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "Visible rows (default: selector.height)",
		},
	}
}

// pickCommand selects from a list of candidates.
func pickCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Read candidates from a file, one per line",
		},
		&cli.StringFlag{
			Name:    "delimiter",
			Aliases: []string{"d"},
			Usage:   "Split each line into value and label on the first delimiter",
		},
		&cli.StringFlag{
			Name:  "default",
			Usage: "Value returned for an empty list when --empty is default",
		},
		&cli.StringFlag{
			Name:  "empty",
			Usage: "Empty-list policy: cancel or default (default: selector.empty)",
		},
		&cli.StringFlag{
			Name:  "initial",
			Usage: "Value highlighted at start",
		},
		&cli.BoolFlag{
			Name:  "multi",
			Usage: "Select several candidates with space",
		},
		&cli.IntFlag{
			Name:  "min",
			Usage: "Minimum number of selections (with --multi)",
		},
		&cli.IntFlag{
			Name:  "max",
			Usage: "Maximum number of selections, 0 for no limit (with --multi)",
		},
	}
	flags = append(flags, selectorFlags()...)
	flags = append(flags, formatFlags()...)

	return &cli.Command{
		Name:      "pick",
		Aliases:   []string{"p"},
		Usage:     "Fuzzy-select from arguments, a file or piped lines and print the choice",
		ArgsUsage: "[items...]",
		Flags:     flags,
		Action:    r.Pick,
	}
}

// branchCommand picks and checks out a local git branch.
func branchCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "dir",
			Usage: "Repository directory",
			Value: ".",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the chosen branch without checking it out",
		},
	}
	flags = append(flags, selectorFlags()...)

	return &cli.Command{
		Name:    "branch",
		Aliases: []string{"br"},
		Usage:   "Pick a local git branch and check it out",
		Flags:   flags,
		Action:  r.Branch,
	}
}

// spinCommand runs a command under a spinner.
func spinCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "spin",
		Usage:     "Run a command while showing a spinner",
		ArgsUsage: "-- command [args...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "label",
				Aliases: []string{"l"},
				Usage:   "Text shown next to the spinner (default: the command line)",
			},
			&cli.StringFlag{
				Name:  "style",
				Usage: "Spinner style (default: spinner.style)",
			},
			&cli.BoolFlag{
				Name:  "show-output",
				Usage: "Show the latest output line next to the label",
			},
		},
		Action: r.Spin,
	}
}

// progressCommand counts stdin lines into a progress bar.
func progressCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "progress",
		Usage: "Draw a progress bar advanced by each line read on stdin",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "total",
				Aliases:  []string{"n"},
				Usage:    "Number of lines that completes the bar",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "bar-format",
				Usage: "Bar format with :bar :percent :current :total :elapsed :eta (default: progress.format)",
			},
		},
		Action: r.Progress,
	}
}

// batchCommand runs command lines from stdin on a worker pool.
func batchCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Read command lines from a file instead of stdin",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Concurrent workers",
			Value:   4,
		},
		&cli.FloatFlag{
			Name:  "rate",
			Usage: "Job starts per second, 0 for no limit",
		},
	}
	flags = append(flags, formatFlags()...)

	return &cli.Command{
		Name:   "batch",
		Usage:  "Run one command per input line with a progress bar",
		Flags:  flags,
		Action: r.Batch,
	}
}

// setupCommand walks through writing a config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Interactively create or update the configuration file",
		Action: r.Setup,
	}
}

// configCommand prints the effective configuration.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration as TOML",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "init",
				Usage: "Write the commented default config to the config path instead",
			},
		},
		Action: r.ShowConfig,
	}
}
