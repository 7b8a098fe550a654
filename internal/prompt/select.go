package prompt

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/termkit/internal/fuzzy"
	"github.com/desertthunder/termkit/internal/models"
	"github.com/desertthunder/termkit/internal/shared"
	"github.com/desertthunder/termkit/internal/terminal"
	"github.com/desertthunder/termkit/internal/ui"
)

const (
	DefaultHeight = 10
	DefaultPrompt = "> "
)

// EmptyPolicy decides what a selector does when it is started with no candidates.
type EmptyPolicy int

const (
	EmptyCancel  EmptyPolicy = iota // resolve as cancelled
	EmptyDefault                    // resolve to the configured default value
)

// ParseEmptyPolicy maps a config value to a policy.
func ParseEmptyPolicy(name string) (EmptyPolicy, error) {
	switch name {
	case shared.EmptyCancel, "":
		return EmptyCancel, nil
	case shared.EmptyDefault:
		return EmptyDefault, nil
	default:
		return EmptyCancel, fmt.Errorf("%w: unknown empty-list policy %q", shared.ErrInvalidArgument, name)
	}
}

// SelectOptions configures [Console.Select].
type SelectOptions struct {
	Message    string
	Candidates []models.Candidate
	Prompt     string // shown before the query
	Height     int    // visible rows
	Initial    string // value highlighted at start
	Empty      EmptyPolicy
	Default    string // returned for an empty list under [EmptyDefault]
}

// MultiSelectOptions configures [Console.MultiSelect].
type MultiSelectOptions struct {
	Message    string
	Candidates []models.Candidate
	Prompt     string
	Height     int
	Selected   []string // values checked at start
	Min        int      // enter is refused below this count
	Max        int      // toggling is refused at this count; zero means no limit
	Empty      EmptyPolicy
	Default    string
}

// ResolveEmpty is what [Console.Select] returns for an empty list. It needs no terminal.
func ResolveEmpty(policy EmptyPolicy, def string) (models.Candidate, error) {
	if policy == EmptyDefault {
		return models.Candidate{Value: def}, nil
	}
	return models.Candidate{}, fmt.Errorf("%w: %w", shared.ErrCancelled, shared.ErrNoCandidates)
}

// ResolveEmptyMulti is what [Console.MultiSelect] returns for an empty list. An empty default resolves to no
// selection.
func ResolveEmptyMulti(policy EmptyPolicy, def string) ([]models.Candidate, error) {
	if policy != EmptyDefault {
		return nil, fmt.Errorf("%w: %w", shared.ErrCancelled, shared.ErrNoCandidates)
	}
	if def == "" {
		return []models.Candidate{}, nil
	}
	return []models.Candidate{{Value: def}}, nil
}

// Select asks for one candidate. The returned candidate is only meaningful when err is nil.
func (c *Console) Select(ctx context.Context, opts SelectOptions) (models.Candidate, error) {
	if len(opts.Candidates) == 0 {
		c.logger.Debug("empty selector", "message", opts.Message, "policy", opts.Empty)
		return ResolveEmpty(opts.Empty, opts.Default)
	}

	s := newSelector(c, opts.Message, opts.Prompt, opts.Height, opts.Candidates, false)
	if opts.Initial != "" {
		if i := slices.IndexFunc(s.results, func(r fuzzy.Result) bool { return r.Candidate.Value == opts.Initial }); i >= 0 {
			s.move(i)
		}
	}

	if err := c.run(ctx, opts.Message, s); err != nil {
		return models.Candidate{}, err
	}
	return s.results[s.cursor].Candidate, nil
}

// MultiSelect asks for a set of candidates, returned in list order. Resolving with nothing checked returns an
// empty, non-nil slice.
func (c *Console) MultiSelect(ctx context.Context, opts MultiSelectOptions) ([]models.Candidate, error) {
	if opts.Min < 0 || opts.Max < 0 || (opts.Max > 0 && opts.Min > opts.Max) {
		return nil, fmt.Errorf("%w: min %d max %d", shared.ErrInvalidArgument, opts.Min, opts.Max)
	}
	if len(opts.Candidates) == 0 {
		c.logger.Debug("empty selector", "message", opts.Message, "policy", opts.Empty)
		return ResolveEmptyMulti(opts.Empty, opts.Default)
	}

	s := newSelector(c, opts.Message, opts.Prompt, opts.Height, opts.Candidates, true)
	s.min, s.max = opts.Min, opts.Max
	for i, item := range opts.Candidates {
		if slices.Contains(opts.Selected, item.Value) && (s.max == 0 || len(s.checked) < s.max) {
			s.checked[i] = true
		}
	}

	if err := c.run(ctx, opts.Message, s); err != nil {
		return nil, err
	}
	return s.selection(), nil
}

// selector is the state machine behind both select widgets. cursor indexes results, checked is keyed by the
// candidate's index in items so it survives refiltering.
type selector struct {
	c       *Console
	keys    ui.KeyMap
	message string
	prompt  string
	height  int
	items   []models.Candidate
	query   []rune
	results []fuzzy.Result
	cursor  int
	offset  int
	multi   bool
	checked map[int]bool
	min     int
	max     int
	notice  string
}

func newSelector(c *Console, message, prompt string, height int, items []models.Candidate, multi bool) *selector {
	if height <= 0 {
		height = DefaultHeight
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}
	s := &selector{
		c:       c,
		keys:    ui.SelectKeyMap(multi),
		message: message,
		prompt:  prompt,
		height:  height,
		items:   items,
		multi:   multi,
		checked: map[int]bool{},
	}
	s.refilter()
	return s
}

func (s *selector) handle(k terminal.Key) outcome {
	s.notice = ""

	switch {
	case key.Matches(k, s.keys.Cancel):
		return cancelled
	case key.Matches(k, s.keys.Accept):
		if len(s.results) == 0 {
			return active
		}
		if s.multi && len(s.checked) < s.min {
			s.notice = fmt.Sprintf("select at least %d", s.min)
			return active
		}
		return resolved
	case key.Matches(k, s.keys.Up):
		s.move(s.cursor - 1)
	case key.Matches(k, s.keys.Down):
		s.move(s.cursor + 1)
	case key.Matches(k, s.keys.Toggle):
		s.toggle()
	case key.Matches(k, s.keys.Erase):
		if len(s.query) > 0 {
			s.query = s.query[:len(s.query)-1]
			s.refilter()
		}
	default:
		if r, ok := k.Text(); ok {
			s.query = append(s.query, r)
			s.refilter()
		}
	}
	return active
}

func (s *selector) refilter() {
	s.results = fuzzy.Filter(s.items, string(s.query))
	s.c.logger.Debug("selector filtered", "query", string(s.query), "matched", len(s.results), "total", len(s.items))
	s.move(s.cursor)
}

// move puts the cursor at i, clamped to the view, and scrolls the window to keep it visible.
func (s *selector) move(i int) {
	s.cursor = max(0, min(i, len(s.results)-1))
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+s.height {
		s.offset = s.cursor - s.height + 1
	}
	s.offset = max(0, min(s.offset, len(s.results)-s.height))
}

func (s *selector) toggle() {
	if len(s.results) == 0 {
		return
	}
	idx := s.results[s.cursor].Index
	switch {
	case s.checked[idx]:
		delete(s.checked, idx)
	case s.max > 0 && len(s.checked) >= s.max:
		s.notice = fmt.Sprintf("select at most %d", s.max)
	default:
		s.checked[idx] = true
	}
}

func (s *selector) selection() []models.Candidate {
	out := make([]models.Candidate, 0, len(s.checked))
	for i, item := range s.items {
		if s.checked[i] {
			out = append(out, item)
		}
	}
	return out
}

func (s *selector) view(width, height int) []string {
	// header and status line take two rows
	if height > 0 && s.height > height-2 {
		s.height = max(1, height-2)
		s.move(s.cursor)
	}

	t := s.c.theme
	lines := make([]string, 0, s.height+2)
	lines = append(lines, s.c.header(s.message)+" "+t.Muted.Render(ui.Sanitize(s.prompt))+ui.Sanitize(string(s.query)))

	if len(s.results) == 0 {
		lines = append(lines, t.Muted.Render("  no matches"))
	}
	end := min(s.offset+s.height, len(s.results))
	for i := s.offset; i < end; i++ {
		r := s.results[i]
		lines = append(lines, t.RenderRow(ui.Row{
			Label:       r.Candidate.Display(),
			Positions:   r.Positions,
			Highlighted: i == s.cursor,
			Checkbox:    s.multi,
			Checked:     s.checked[r.Index],
		}, width))
	}

	count := fmt.Sprintf("%d/%d", len(s.results), len(s.items))
	if s.multi {
		count += fmt.Sprintf(" · %d selected", len(s.checked))
	}
	notice := ""
	if s.notice != "" {
		notice = t.Warning.Render(s.notice)
	}
	lines = append(lines, joinStatus(t.Muted.Render(count), notice, s.c.helpView(s.keys)))
	return lines
}

func (s *selector) answer() string {
	if !s.multi {
		return ui.Sanitize(s.results[s.cursor].Candidate.Display())
	}
	picked := s.selection()
	if len(picked) == 0 {
		return s.c.theme.Muted.Render("none")
	}
	labels := make([]string, len(picked))
	for i, p := range picked {
		labels[i] = ui.Sanitize(p.Display())
	}
	return strings.Join(labels, ", ")
}
