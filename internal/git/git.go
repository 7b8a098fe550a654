// package git lists and checks out local branches by shelling out to git
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/desertthunder/termkit/internal/models"
	"github.com/desertthunder/termkit/internal/shared"
)

const branchFormat = "--format=%(refname:short)%00%(HEAD)"

// Branch is a local branch.
type Branch struct {
	Name    string
	Current bool
}

// Branches lists the local branches of the repository containing dir, in refname order.
func Branches(ctx context.Context, dir string) ([]Branch, error) {
	out, err := run(ctx, dir, "branch", "--list", branchFormat)
	if err != nil {
		return nil, err
	}
	return parseBranches(out), nil
}

// Current returns the checked out branch, or "" for a detached HEAD.
func Current(branches []Branch) string {
	for _, b := range branches {
		if b.Current {
			return b.Name
		}
	}
	return ""
}

// Checkout switches the repository containing dir to branch.
func Checkout(ctx context.Context, dir, branch string) error {
	if branch == "" || strings.HasPrefix(branch, "-") {
		return fmt.Errorf("%w: branch name %q", shared.ErrInvalidArgument, branch)
	}
	_, err := run(ctx, dir, "checkout", branch, "--")
	return err
}

// Candidates turns branches into selector candidates. The current branch is labelled with a marker.
func Candidates(branches []Branch) []models.Candidate {
	out := make([]models.Candidate, len(branches))
	for i, b := range branches {
		out[i] = models.Candidate{Value: b.Name}
		if b.Current {
			out[i].Label = b.Name + " (current)"
		}
	}
	return out
}

func parseBranches(out string) []Branch {
	var branches []Branch
	for _, line := range strings.Split(out, "\n") {
		name, head, ok := strings.Cut(line, "\x00")
		if !ok || name == "" {
			continue
		}
		// detached HEAD shows up as "(HEAD detached at ...)"
		if strings.HasPrefix(name, "(") {
			continue
		}
		branches = append(branches, Branch{Name: name, Current: strings.TrimSpace(head) == "*"})
	}
	return branches
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "not a git repository") {
			return "", fmt.Errorf("%w: %s", shared.ErrNotRepository, dir)
		}
		return "", fmt.Errorf("%w: git %s: %v: %s", shared.ErrCommandFailed, args[0], err, msg)
	}
	return string(output), nil
}
