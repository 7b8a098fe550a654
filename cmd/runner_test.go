package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/termkit/internal/shared"
	"github.com/desertthunder/termkit/internal/terminal"
	tu "github.com/desertthunder/termkit/internal/testing"
)

type harness struct {
	runner *Runner
	out    *bytes.Buffer
	ui     *tu.SyncBuffer
}

// newHarness builds a runner whose prompts read keys and whose stdin is input. It runs in a fresh directory so
// config.toml lookups start empty.
func newHarness(t *testing.T, keys io.Reader, input io.Reader) *harness {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("NO_COLOR", "")

	h := &harness{out: &bytes.Buffer{}, ui: &tu.SyncBuffer{}}
	h.runner = NewRunner(RunnerOpts{
		Logger:    shared.NewDiscardLogger(),
		Output:    h.out,
		ErrOutput: h.ui,
		Input:     input,
		OpenTerminal: func(w io.Writer) (*terminal.Terminal, error) {
			return terminal.NewVirtual(keys, w), nil
		},
	})
	return h
}

// withoutTerminal makes every terminal open fail, as it does when no tty is attached.
func (h *harness) withoutTerminal() *harness {
	h.runner.openTerminal = func(io.Writer) (*terminal.Terminal, error) {
		return nil, fmt.Errorf("%w: no tty", shared.ErrNotTerminal)
	}
	return h
}

func (h *harness) run(args ...string) error {
	return h.runner.app().Run(context.Background(), append([]string{"termkit"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.engine == nil {
				t.Error("expected engine to be created")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.errOutput != os.Stderr {
				t.Error("expected UI output to default to os.Stderr")
			}
			if runner.openTerminal == nil {
				t.Error("expected a terminal opener")
			}
			if runner.input != nil {
				t.Error("expected no piped input")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		seen := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if seen[cmd.Name] {
				t.Errorf("command %q registered twice", cmd.Name)
			}
			seen[cmd.Name] = true
		}
		for _, name := range []string{"pick", "branch", "spin", "progress", "batch", "setup", "config"} {
			if !seen[name] {
				t.Errorf("expected %q to be registered", name)
			}
		}
	})

	t.Run("readLines", func(t *testing.T) {
		t.Run("skips blank lines and carriage returns", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Input: strings.NewReader("one\r\n\n  \ntwo\n")})
			lines, err := runner.readLines("")
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(lines, ",") != "one,two" {
				t.Errorf("unexpected lines %q", lines)
			}
		})

		t.Run("file wins over input", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "items.txt")
			tu.MustWriteFile(t, path, "from-file\n")
			runner := NewRunner(RunnerOpts{Input: strings.NewReader("from-stdin\n")})

			lines, err := runner.readLines(path)
			if err != nil {
				t.Fatal(err)
			}
			if len(lines) != 1 || lines[0] != "from-file" {
				t.Errorf("unexpected lines %q", lines)
			}
		})

		t.Run("no source", func(t *testing.T) {
			lines, err := NewRunner(RunnerOpts{}).readLines("")
			if err != nil || lines != nil {
				t.Errorf("expected nothing, got %q, %v", lines, err)
			}
		})

		t.Run("missing file", func(t *testing.T) {
			if _, err := NewRunner(RunnerOpts{}).readLines(filepath.Join(t.TempDir(), "nope")); err == nil {
				t.Error("expected error")
			}
		})
	})
}

func TestPick(t *testing.T) {
	t.Run("filters and prints the value", func(t *testing.T) {
		h := newHarness(t, tu.Keys("dev", tu.KeyEnter), nil)
		if err := h.run("pick", "main", "develop", "feature/login"); err != nil {
			t.Fatal(err)
		}
		if h.out.String() != "develop\n" {
			t.Errorf("expected develop, got %q", h.out.String())
		}
		if !strings.Contains(h.ui.String(), "Pick one") {
			t.Errorf("expected summary line on the UI stream, got %q", h.ui.String())
		}
	})

	t.Run("reads delimited pairs from stdin", func(t *testing.T) {
		h := newHarness(t, tu.Keys("bet", tu.KeyEnter), strings.NewReader("a\tAlpha\nb\tBeta\n"))
		if err := h.run("pick", "--delimiter", "\t", "--json"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(h.out.String(), `"value": "b"`) || !strings.Contains(h.out.String(), `"label": "Beta"`) {
			t.Errorf("unexpected output %q", h.out.String())
		}
	})

	t.Run("multi select with print0", func(t *testing.T) {
		h := newHarness(t, tu.Keys(tu.KeySpace, tu.KeyDown, tu.KeySpace, tu.KeyEnter), nil)
		if err := h.run("pick", "--multi", "--print0", "main", "develop", "release"); err != nil {
			t.Fatal(err)
		}
		if h.out.String() != "main\x00develop\x00" {
			t.Errorf("unexpected output %q", h.out.String())
		}
	})

	t.Run("escape cancels", func(t *testing.T) {
		h := newHarness(t, tu.Keys(tu.KeyEscape), nil)
		err := h.run("pick", "a", "b")
		if !errors.Is(err, shared.ErrCancelled) {
			t.Errorf("expected ErrCancelled, got %v", err)
		}
		if h.out.Len() != 0 {
			t.Errorf("expected no output, got %q", h.out.String())
		}
	})

	t.Run("empty list", func(t *testing.T) {
		t.Run("cancels by default", func(t *testing.T) {
			h := newHarness(t, tu.Keys(), nil).withoutTerminal()
			err := h.run("pick")
			if !errors.Is(err, shared.ErrCancelled) || !errors.Is(err, shared.ErrNoCandidates) {
				t.Errorf("expected ErrCancelled and ErrNoCandidates, got %v", err)
			}
		})

		t.Run("resolves to the default without a terminal", func(t *testing.T) {
			h := newHarness(t, tu.Keys(), nil).withoutTerminal()
			if err := h.run("pick", "--empty", "default", "--default", "fallback"); err != nil {
				t.Fatal(err)
			}
			if h.out.String() != "fallback\n" {
				t.Errorf("expected fallback, got %q", h.out.String())
			}
		})

		t.Run("multi resolves to the default without a terminal", func(t *testing.T) {
			h := newHarness(t, tu.Keys(), strings.NewReader("\n")).withoutTerminal()
			if err := h.run("pick", "--multi", "--json", "--empty", "default", "--default", "fallback"); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(h.out.String(), `"value": "fallback"`) {
				t.Errorf("unexpected output %q", h.out.String())
			}
		})

		t.Run("multi with no default prints nothing", func(t *testing.T) {
			h := newHarness(t, tu.Keys(), nil).withoutTerminal()
			if err := h.run("pick", "--multi", "--empty", "default"); err != nil {
				t.Fatal(err)
			}
			if h.out.Len() != 0 {
				t.Errorf("expected no output, got %q", h.out.String())
			}
		})
	})

	t.Run("candidates without a terminal fail", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil).withoutTerminal()
		if err := h.run("pick", "a", "b"); !errors.Is(err, shared.ErrNotTerminal) {
			t.Errorf("expected ErrNotTerminal, got %v", err)
		}
	})

	t.Run("invalid flags", func(t *testing.T) {
		tc := []struct {
			name string
			args []string
		}{
			{name: "print0 and json", args: []string{"pick", "--print0", "--json", "a"}},
			{name: "unknown format", args: []string{"pick", "--format", "yaml", "a"}},
			{name: "unknown empty policy", args: []string{"pick", "--empty", "ignore", "a"}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				h := newHarness(t, tu.Keys(tu.KeyEnter), nil)
				if err := h.run(tt.args...); !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected ErrInvalidFlag, got %v", err)
				}
			})
		}
	})
}

func TestBranch(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	setup := func(t *testing.T, keys io.Reader) (*harness, string) {
		h := newHarness(t, keys, nil)
		dir := t.TempDir()
		t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
		t.Setenv("LC_ALL", "C")
		for _, args := range [][]string{
			{"init", "-q"},
			{"symbolic-ref", "HEAD", "refs/heads/main"},
			{"commit", "-q", "--allow-empty", "-m", "init"},
			{"branch", "feature/login"},
		} {
			args = append([]string{"-c", "user.name=termkit", "-c", "user.email=termkit@example.com", "-c", "commit.gpgsign=false"}, args...)
			cmd := exec.Command("git", args...)
			cmd.Dir = dir
			if out, err := cmd.CombinedOutput(); err != nil {
				t.Fatalf("git %v failed: %v\n%s", args, err, out)
			}
		}
		return h, dir
	}

	current := func(t *testing.T, dir string) string {
		out, err := exec.Command("git", "-C", dir, "branch", "--show-current").Output()
		if err != nil {
			t.Fatal(err)
		}
		return strings.TrimSpace(string(out))
	}

	t.Run("dry run", func(t *testing.T) {
		h, dir := setup(t, tu.Keys("feat", tu.KeyEnter))
		if err := h.run("branch", "--dir", dir, "--dry-run"); err != nil {
			t.Fatal(err)
		}
		if h.out.String() != "feature/login\n" {
			t.Errorf("unexpected output %q", h.out.String())
		}
		if !strings.Contains(h.ui.String(), "would switch to feature/login") {
			t.Errorf("expected dry-run notice, got %q", h.ui.String())
		}
		if current(t, dir) != "main" {
			t.Error("dry run should not check out")
		}
	})

	t.Run("checks out", func(t *testing.T) {
		h, dir := setup(t, tu.Keys("feat", tu.KeyEnter))
		if err := h.run("branch", "--dir", dir); err != nil {
			t.Fatal(err)
		}
		if current(t, dir) != "feature/login" {
			t.Errorf("expected feature/login, got %q", current(t, dir))
		}
	})

	t.Run("current branch is not checked out again", func(t *testing.T) {
		h, dir := setup(t, tu.Keys("main", tu.KeyEnter))
		if err := h.run("branch", "--dir", dir); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(h.ui.String(), "already on main") {
			t.Errorf("expected notice, got %q", h.ui.String())
		}
	})

	t.Run("outside a repository", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(t.TempDir()))
		t.Setenv("LC_ALL", "C")
		if err := h.run("branch", "--dir", t.TempDir()); !errors.Is(err, shared.ErrNotRepository) {
			t.Errorf("expected ErrNotRepository, got %v", err)
		}
	})
}

func TestSpin(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	t.Run("passes stdout through on success", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		if err := h.run("spin", "--label", "greeting", "--", "sh", "-c", "echo hello"); err != nil {
			t.Fatal(err)
		}
		if h.out.String() != "hello\n" {
			t.Errorf("expected command output, got %q", h.out.String())
		}
		if !strings.Contains(h.ui.String(), "✓ greeting") {
			t.Errorf("expected success line, got %q", h.ui.String())
		}
	})

	t.Run("reports failure", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		err := h.run("spin", "--label", "failing", "--", "sh", "-c", "echo oops >&2; exit 3")
		if !errors.Is(err, shared.ErrCommandFailed) {
			t.Errorf("expected ErrCommandFailed, got %v", err)
		}
		if !strings.Contains(h.ui.String(), "✖ failing") || !strings.Contains(h.ui.String(), "oops") {
			t.Errorf("expected failure line and stderr, got %q", h.ui.String())
		}
	})

	t.Run("requires a command", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		if err := h.run("spin"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("unknown style", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		if err := h.run("spin", "--style", "wobble", "--", "true"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestProgress(t *testing.T) {
	t.Run("completes at total", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), strings.NewReader("a\nb\nc\n"))
		if err := h.run("progress", "--total", "3"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(h.ui.String(), "100%") {
			t.Errorf("expected a full bar, got %q", h.ui.String())
		}
		if h.out.Len() != 0 {
			t.Errorf("progress should not echo input, got %q", h.out.String())
		}
	})

	t.Run("input ends early", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), strings.NewReader("a\nb\n"))
		if err := h.run("progress", "--total", "5", "--bar-format", ":current/:total"); err != nil {
			t.Fatal(err)
		}
		ui := h.ui.String()
		if !strings.Contains(ui, "2/5") || !strings.Contains(ui, "input ended at 2 of 5") {
			t.Errorf("unexpected UI output %q", ui)
		}
	})

	t.Run("requires piped input", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		if err := h.run("progress", "--total", "3"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("rejects a zero total", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), strings.NewReader("a\n"))
		if err := h.run("progress", "--total", "0"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestBatch(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}

	t.Run("summarizes jobs in order", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), strings.NewReader("true\n# skipped\nfalse\n"))
		err := h.run("batch", "--format", "csv", "--workers", "2")
		if !errors.Is(err, shared.ErrCommandFailed) {
			t.Errorf("expected ErrCommandFailed, got %v", err)
		}

		lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and two rows, got %q", h.out.String())
		}
		if !strings.HasPrefix(lines[1], "true,0,") || !strings.HasPrefix(lines[2], "false,1,") {
			t.Errorf("unexpected rows %q", lines[1:])
		}
		if !strings.Contains(h.ui.String(), "100%") {
			t.Errorf("expected a full bar, got %q", h.ui.String())
		}
	})

	t.Run("all succeed", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), strings.NewReader("true\ntrue\n"))
		if err := h.run("batch"); err != nil {
			t.Fatal(err)
		}
		if h.out.String() != "ok\ttrue\nok\ttrue\n" {
			t.Errorf("unexpected output %q", h.out.String())
		}
	})

	t.Run("no jobs", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), strings.NewReader("# nothing\n"))
		if err := h.run("batch"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestConfig(t *testing.T) {
	t.Run("prints defaults without a file", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		if err := h.run("config"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(h.out.String(), "[selector]") || !strings.Contains(h.out.String(), "height = 10") {
			t.Errorf("unexpected config output %q", h.out.String())
		}
	})

	t.Run("merges the file over defaults", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		tu.MustWriteFile(t, "config.toml", "[selector]\nheight = 4\n")
		if err := h.run("config"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(h.out.String(), "height = 4") || !strings.Contains(h.out.String(), `style = "minidot"`) {
			t.Errorf("unexpected config output %q", h.out.String())
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		tu.MustWriteFile(t, "config.toml", "[selector]\nheight = 0\n")
		if err := h.run("config"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		if err := h.run("--config", "missing.toml", "config"); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("init writes the template once", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		if err := h.run("config", "--init"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(tu.MustReadFile(t, "config.toml"), "# termkit configuration") {
			t.Error("expected the commented template")
		}
		if err := h.run("config", "--init"); !errors.Is(err, fs.ErrExist) {
			t.Errorf("expected fs.ErrExist, got %v", err)
		}
	})

	t.Run("no-color flag", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		if err := h.run("--no-color", "config"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(h.out.String(), "color = false") {
			t.Errorf("expected color disabled, got %q", h.out.String())
		}
	})

	t.Run("log file", func(t *testing.T) {
		h := newHarness(t, tu.Keys(), nil)
		if err := h.run("--log-file", "logs/termkit.log", "--verbose", "config"); err != nil {
			t.Fatal(err)
		}
		tu.AssertFileExists(t, "logs/termkit.log")
	})
}

func TestSetup(t *testing.T) {
	t.Run("writes a new config", func(t *testing.T) {
		h := newHarness(t, tu.Keys(
			// colors: default yes, accent: keep
			tu.KeyEnter, tu.KeyEnter,
			// height 10 -> 5
			tu.KeyBackspace, tu.KeyBackspace, "5", tu.KeyEnter,
			// spinner: keep minidot
			tu.KeyEnter,
			// empty list policy: default, then its value
			tu.KeyDown, tu.KeyEnter,
			"none", tu.KeyEnter,
		), nil)
		if err := h.run("setup"); err != nil {
			t.Fatal(err)
		}

		config, err := shared.LoadConfig("config.toml")
		if err != nil {
			t.Fatal(err)
		}
		if config.Selector.Height != 5 || config.Selector.Empty != shared.EmptyDefault || config.Selector.Default != "none" {
			t.Errorf("unexpected selector config %+v", config.Selector)
		}
		if config.Spinner.Style != "minidot" {
			t.Errorf("expected minidot, got %q", config.Spinner.Style)
		}
		if !strings.Contains(h.ui.String(), "config saved to config.toml") {
			t.Errorf("expected confirmation, got %q", h.ui.String())
		}
	})

	t.Run("keeps an existing file when overwrite is declined", func(t *testing.T) {
		h := newHarness(t, tu.Keys(
			"n",         // colors: no, accent is skipped
			tu.KeyEnter, // height
			tu.KeyEnter, // spinner
			tu.KeyEnter, // empty: cancel
			"n",         // overwrite
		), nil)
		original := "[selector]\nheight = 4\n"
		tu.MustWriteFile(t, "config.toml", original)

		if err := h.run("setup"); err != nil {
			t.Fatal(err)
		}
		if got := tu.MustReadFile(t, "config.toml"); got != original {
			t.Errorf("config was rewritten: %q", got)
		}
		if !strings.Contains(h.ui.String(), "left unchanged") {
			t.Errorf("expected notice, got %q", h.ui.String())
		}
	})

	t.Run("cancel stops the flow", func(t *testing.T) {
		h := newHarness(t, tu.Keys(tu.KeyCtrlC), nil)
		if err := h.run("setup"); !errors.Is(err, shared.ErrCancelled) {
			t.Errorf("expected ErrCancelled, got %v", err)
		}
		if _, err := os.Stat("config.toml"); !os.IsNotExist(err) {
			t.Error("no config should be written")
		}
	})
}

func TestValidators(t *testing.T) {
	tc := []struct {
		in     string
		color  bool
		height bool
	}{
		{in: "#fff", color: true},
		{in: "#7D56F4", color: true},
		{in: "212", color: true, height: true},
		{in: "256", height: true},
		{in: "0", color: true},
		{in: "purple"},
		{in: "-1"},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			if got := validColor(tt.in) == nil; got != tt.color {
				t.Errorf("validColor(%q) ok = %v, want %v", tt.in, got, tt.color)
			}
			if got := validHeight(tt.in) == nil; got != tt.height {
				t.Errorf("validHeight(%q) ok = %v, want %v", tt.in, got, tt.height)
			}
		})
	}
}
