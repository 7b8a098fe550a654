package models

import (
	"strings"
)

// Candidate is one selectable entry. Value is what a prompt returns, Label is what it displays.
type Candidate struct {
	Value string
	Label string
}

// Display returns the label, falling back to the value.
func (c Candidate) Display() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Value
}

// Strings builds candidates whose label and value are the same string.
func Strings(values ...string) []Candidate {
	candidates := make([]Candidate, len(values))
	for i, v := range values {
		candidates[i] = Candidate{Value: v}
	}
	return candidates
}

// Pairs builds candidates from "value<sep>label" lines. A line without sep is used as both.
func Pairs(lines []string, sep string) []Candidate {
	candidates := make([]Candidate, 0, len(lines))
	for _, line := range lines {
		if sep == "" {
			candidates = append(candidates, Candidate{Value: line})
			continue
		}
		value, label, _ := strings.Cut(line, sep)
		candidates = append(candidates, Candidate{Value: value, Label: label})
	}
	return candidates
}

// Values returns the value of every candidate, in order.
func Values(candidates []Candidate) []string {
	values := make([]string, len(candidates))
	for i, c := range candidates {
		values[i] = c.Value
	}
	return values
}
