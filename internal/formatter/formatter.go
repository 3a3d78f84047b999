// package formatter renders ranked lineup results as JSON, CSV, Markdown, plain text or YAML
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/desertthunder/lineuplens/internal/tasks"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
	YAML     Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{JSON, CSV, Markdown, Text, YAML}

// ParseFormat accepts a format name or a common alias such as "md" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (want one of %v)", shared.ErrInvalidArgument, s, Formats)
}

// CSVHeaders are the columns written by [ExportToCSV].
var CSVHeaders = []string{"Rank", "Artist", "Matched Name", "Spotify ID", "Liked Songs"}

// Limit returns a copy of result keeping only the top n results. n <= 0 keeps everything.
func Limit(result *tasks.LineupResult, n int) *tasks.LineupResult {
	out := *result
	out.Results = slices.Clone(result.Results)
	if n > 0 && n < len(out.Results) {
		out.Results = out.Results[:n]
	}
	return &out
}

// ExportToJSON renders the full result, indented.
func ExportToJSON(result *tasks.LineupResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML renders the full result as YAML.
func ExportToYAML(result *tasks.LineupResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToCSV writes one row per ranked artist with columns [CSVHeaders].
func ExportToCSV(result *tasks.LineupResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(CSVHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, r := range result.Results {
		record := []string{
			strconv.Itoa(i + 1),
			r.OriginalName,
			r.MatchedName,
			r.ArtistID,
			strconv.Itoa(r.LikedSongCount),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders a heading, a summary and a results table.
func ExportToMarkdown(result *tasks.LineupResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", result.Festival.Name)
	fmt.Fprintf(&buf, "**Artists you know**: %d of %d\n", result.Summary.Artists, result.Summary.Catalog)
	fmt.Fprintf(&buf, "**Liked songs scanned**: %d\n", result.Summary.Library)
	if !result.GeneratedAt.IsZero() {
		fmt.Fprintf(&buf, "**Generated**: %s\n", result.GeneratedAt.Format(time.RFC3339))
	}
	buf.WriteString("\n")

	if len(result.Results) == 0 {
		buf.WriteString("_No artists from this lineup appear in your liked songs._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| Rank | Artist | Liked Songs |\n")
	buf.WriteString("| ---: | --- | ---: |\n")
	for i, r := range result.Results {
		fmt.Fprintf(&buf, "| %d | %s | %d |\n", i+1, markdownArtist(r), r.LikedSongCount)
	}
	return buf.Bytes(), nil
}

// ExportToText renders a numbered list.
func ExportToText(result *tasks.LineupResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Festival: %s\n", result.Festival.Name)
	fmt.Fprintf(&buf, "Artists you know: %d of %d (%d liked songs scanned)\n\n",
		result.Summary.Artists, result.Summary.Catalog, result.Summary.Library)

	if len(result.Results) == 0 {
		buf.WriteString("No artists from this lineup appear in your liked songs.\n")
		return buf.Bytes(), nil
	}

	width := len(strconv.Itoa(len(result.Results)))
	for i, r := range result.Results {
		fmt.Fprintf(&buf, "%*d. %s (%s)\n", width, i+1, r.OriginalName, songs(r.LikedSongCount))
	}
	return buf.Bytes(), nil
}

// Export renders result in format.
func Export(result *tasks.LineupResult, format Format) ([]byte, error) {
	switch format {
	case JSON:
		return ExportToJSON(result)
	case CSV:
		return ExportToCSV(result)
	case Markdown:
		return ExportToMarkdown(result)
	case Text:
		return ExportToText(result)
	case YAML:
		return ExportToYAML(result)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
}

// Write renders result to w.
func Write(w io.Writer, result *tasks.LineupResult, format Format) error {
	data, err := Export(result, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s output: %w", format, err)
	}
	return nil
}

// WriteFile renders result to path, replacing any existing file.
func WriteFile(path string, result *tasks.LineupResult, format Format) error {
	data, err := Export(result, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func markdownArtist(r models.MatchResult) string {
	name := strings.ReplaceAll(r.OriginalName, "|", `\|`)
	if r.MatchedName != "" && r.MatchedName != r.OriginalName {
		name += " _(" + strings.ReplaceAll(r.MatchedName, "|", `\|`) + ")_"
	}
	return name
}

func songs(n int) string {
	if n == 1 {
		return "1 song"
	}
	return strconv.Itoa(n) + " songs"
}
