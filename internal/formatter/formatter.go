// package formatter writes prompt results and job summaries for shell consumption (plain lines, NUL separated, JSON, CSV)
// or for people (bordered tables)
package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/termkit/internal/models"
	"github.com/desertthunder/termkit/internal/shared"
	"github.com/desertthunder/termkit/internal/tasks"
)

// Format selects how results are written.
type Format string

const (
	Plain Format = "plain" // one value per line
	Null  Format = "null"  // values terminated by NUL, for xargs -0
	JSON  Format = "json"
	CSV   Format = "csv" // value,label rows with a header
	Table Format = "table"
)

// Formats lists every supported format.
var Formats = []Format{Plain, Null, JSON, CSV, Table}

// ParseFormat maps a flag value to a [Format]. An empty name means plain.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return Plain, nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, name)
}

type candidateJSON struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

func toJSON(items []models.Candidate) []candidateJSON {
	out := make([]candidateJSON, len(items))
	for i, c := range items {
		out[i] = candidateJSON{Value: c.Value, Label: c.Label}
	}
	return out
}

// WriteCandidate writes a single selection. JSON output is an object.
func WriteCandidate(w io.Writer, format Format, item models.Candidate) error {
	if format == JSON {
		return writeJSON(w, toJSON([]models.Candidate{item})[0])
	}
	return WriteCandidates(w, format, []models.Candidate{item})
}

// WriteCandidates writes a set of selections. JSON output is an array, empty sets included.
func WriteCandidates(w io.Writer, format Format, items []models.Candidate) error {
	switch format {
	case JSON:
		return writeJSON(w, toJSON(items))
	case CSV:
		writer := csv.NewWriter(w)
		if err := writer.Write([]string{"value", "label"}); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
		for _, c := range items {
			if err := writer.Write([]string{c.Value, c.Label}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return fmt.Errorf("CSV writer error: %w", err)
		}
		return nil
	case Table:
		rows := make([][]string, len(items))
		for i, c := range items {
			rows[i] = []string{c.Value, c.Label}
		}
		return writeTable(w, []string{"value", "label"}, rows)
	case Null:
		return writeTerminated(w, models.Values(items), "\x00")
	default:
		return writeTerminated(w, models.Values(items), "\n")
	}
}

func writeTerminated(w io.Writer, values []string, term string) error {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(v)
		b.WriteString(term)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

type jobJSON struct {
	Name     string `json:"name"`
	ExitCode int    `json:"exit_code"`
	Duration string `json:"duration,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (r jobJSON) status() string {
	if r.Error == "" {
		return "ok"
	}
	return fmt.Sprintf("exit %d", r.ExitCode)
}

// WriteBatch writes one row per job of a batch.
func WriteBatch(w io.Writer, format Format, result *tasks.BatchResult) error {
	rows := make([]jobJSON, 0, len(result.Results))
	for _, r := range result.Results {
		row := jobJSON{Name: r.Job.Name, ExitCode: -1}
		if r.Result != nil {
			row.ExitCode = r.Result.ExitCode
			row.Duration = r.Result.Duration.String()
		}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		rows = append(rows, row)
	}

	switch format {
	case JSON:
		return writeJSON(w, rows)
	case CSV:
		writer := csv.NewWriter(w)
		writer.Write([]string{"name", "exit_code", "duration", "error"})
		for _, r := range rows {
			writer.Write([]string{r.Name, fmt.Sprint(r.ExitCode), r.Duration, r.Error})
		}
		writer.Flush()
		return writer.Error()
	case Table:
		cells := make([][]string, len(rows))
		for i, r := range rows {
			cells[i] = []string{r.Name, r.status(), r.Duration, r.Error}
		}
		return writeTable(w, []string{"job", "status", "duration", "error"}, cells)
	default:
		term := "\n"
		if format == Null {
			term = "\x00"
		}
		var b strings.Builder
		for _, r := range rows {
			fmt.Fprintf(&b, "%s\t%s%s", r.status(), r.Name, term)
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
}
