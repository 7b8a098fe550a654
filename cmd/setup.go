package main

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/desertthunder/termkit/internal/models"
	"github.com/desertthunder/termkit/internal/prompt"
	"github.com/desertthunder/termkit/internal/shared"
	"github.com/desertthunder/termkit/internal/ui"
	"github.com/urfave/cli/v3"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// validColor accepts #rgb, #rrggbb and ANSI 256 color numbers, the forms lipgloss understands.
func validColor(s string) error {
	if hexColor.MatchString(s) {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 255 {
		return nil
	}
	return fmt.Errorf("%w: %q is not a hex color or ANSI number", shared.ErrInvalidInput, s)
}

func validHeight(s string) error {
	if n, err := strconv.Atoi(s); err != nil || n < 1 {
		return fmt.Errorf("%w: height must be a positive number", shared.ErrInvalidInput)
	}
	return nil
}

// setupFlow asks for the settings a user is likely to change. exists adds an overwrite confirmation.
func setupFlow(cfg *shared.Config, path string, exists bool) *prompt.Flow {
	return prompt.NewFlow(
		prompt.ConfirmStep("color", "Use colors?", cfg.Theme.Color),
		prompt.When(func(a prompt.Answers) bool { return a.Bool("color") }, prompt.InputStep("accent", prompt.InputOptions{
			Message:  "Accent color",
			Initial:  cfg.Theme.Accent,
			Required: true,
			Validate: validColor,
		})),
		prompt.InputStep("height", prompt.InputOptions{
			Message:  "Selector height",
			Initial:  strconv.Itoa(cfg.Selector.Height),
			Required: true,
			Validate: validHeight,
		}),
		prompt.SelectStep("spinner", prompt.SelectOptions{
			Message:    "Spinner style",
			Candidates: models.Strings(shared.SpinnerStyles...),
			Initial:    cfg.Spinner.Style,
		}),
		prompt.SelectStep("empty", prompt.SelectOptions{
			Message: "When a list is empty",
			Candidates: []models.Candidate{
				{Value: shared.EmptyCancel, Label: "cancel the prompt"},
				{Value: shared.EmptyDefault, Label: "return a default value"},
			},
			Initial: cfg.Selector.Empty,
		}),
		prompt.When(func(a prompt.Answers) bool { return a.String("empty") == shared.EmptyDefault },
			prompt.InputStep("default", prompt.InputOptions{
				Message:  "Default value",
				Initial:  cfg.Selector.Default,
				Required: true,
			})),
		prompt.When(func(prompt.Answers) bool { return exists },
			prompt.ConfirmStep("overwrite", fmt.Sprintf("Overwrite %s?", path), false)),
	)
}

// applyAnswers copies flow answers onto a copy of cfg.
func applyAnswers(cfg *shared.Config, a prompt.Answers) (*shared.Config, error) {
	updated := *cfg
	updated.Theme.Color = a.Bool("color")
	if a.Has("accent") {
		updated.Theme.Accent = a.String("accent")
	}

	height, err := strconv.Atoi(a.String("height"))
	if err != nil {
		return nil, fmt.Errorf("%w: height %q", shared.ErrInvalidInput, a.String("height"))
	}
	updated.Selector.Height = height
	updated.Spinner.Style = a.String("spinner")
	updated.Selector.Empty = a.String("empty")
	if a.Has("default") {
		updated.Selector.Default = a.String("default")
	}
	return &updated, nil
}

// Setup walks through the main settings and writes them to the config path.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = defaultConfigPath
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil

	c, closeTerm, err := r.console()
	if err != nil {
		return err
	}
	defer closeTerm()

	answers, err := setupFlow(r.config, path, exists).Run(ctx, c)
	if err != nil {
		return err
	}
	if exists && !answers.Bool("overwrite") {
		r.status(ui.StatusInfo, fmt.Sprintf("%s left unchanged", path))
		return nil
	}

	updated, err := applyAnswers(r.config, answers)
	if err != nil {
		return err
	}
	if err := shared.WriteConfig(path, updated); err != nil {
		return err
	}

	r.config = updated
	r.logger.Info("config written", "path", path)
	r.status(ui.StatusSuccess, fmt.Sprintf("config saved to %s", path))
	return nil
}

// ShowConfig prints the effective configuration, or with --init writes the default template.
func (r *Runner) ShowConfig(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("init") {
		return shared.EncodeConfig(r.output, r.config)
	}

	path := r.configPath
	if path == "" {
		path = defaultConfigPath
	}
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.status(ui.StatusSuccess, fmt.Sprintf("config written to %s", path))
	return nil
}
