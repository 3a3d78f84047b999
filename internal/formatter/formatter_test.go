package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/lineuplens/internal/matcher"
	"github.com/desertthunder/lineuplens/internal/models"
	"github.com/desertthunder/lineuplens/internal/shared"
	"github.com/desertthunder/lineuplens/internal/tasks"
	th "github.com/desertthunder/lineuplens/internal/testing"
	"gopkg.in/yaml.v3"
)

func sampleResult() *tasks.LineupResult {
	results := th.Results("Alpha", 5, "Beta | Gamma", 2, "Zeta", 1)
	results[0].MatchedName = "Alpha Official"
	return &tasks.LineupResult{
		Festival:    models.Festival{ID: "ultra", Name: "Ultra Music Festival"},
		Results:     results,
		Summary:     matcher.Summarize(results, 120, 900),
		GeneratedAt: time.Date(2026, 3, 27, 18, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", JSON},
		{"CSV", CSV},
		{"md", Markdown},
		{"markdown", Markdown},
		{"yml", YAML},
		{"", Text},
		{" txt ", Text},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleResult())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 4 {
			t.Fatalf("expected header + 3 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "Rank,Artist,Matched Name,Spotify ID,Liked Songs" {
			t.Errorf("unexpected headers %v", records[0])
		}
		if got := records[1]; got[0] != "1" || got[1] != "Alpha" || got[2] != "Alpha Official" || got[3] != th.ArtistID('a') || got[4] != "5" {
			t.Errorf("unexpected first row %v", got)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleResult())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# Ultra Music Festival",
			"**Artists you know**: 3 of 120",
			"| Rank | Artist | Liked Songs |",
			"| 1 | Alpha _(Alpha Official)_ | 5 |",
			`| 2 | Beta \| Gamma | 2 |`,
			"2026-03-27T18:00:00Z",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleResult())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		output := string(data)

		if !strings.Contains(output, "Festival: Ultra Music Festival") {
			t.Errorf("Text missing festival, got: %s", output)
		}
		if !strings.Contains(output, "1. Alpha (5 songs)") {
			t.Errorf("Text missing first artist, got: %s", output)
		}
		if !strings.Contains(output, "3. Zeta (1 song)") {
			t.Errorf("Text should use singular for one song, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleResult())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			Festival models.Festival      `json:"festival"`
			Results  []models.MatchResult `json:"results"`
			Summary  matcher.Summary      `json:"summary"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Festival.ID != "ultra" || len(decoded.Results) != 3 || decoded.Summary.Songs != 8 {
			t.Errorf("unexpected decoded output %+v", decoded)
		}
	})

	t.Run("ExportToYAML", func(t *testing.T) {
		data, err := ExportToYAML(sampleResult())
		if err != nil {
			t.Fatalf("ExportToYAML failed: %v", err)
		}

		var decoded map[string]any
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		results, ok := decoded["results"].([]any)
		if !ok || len(results) != 3 {
			t.Fatalf("expected 3 results, got %v", decoded["results"])
		}
		first := results[0].(map[string]any)
		if first["original_name"] != "Alpha" || first["liked_song_count"] != 5 {
			t.Errorf("unexpected first result %v", first)
		}
	})

	t.Run("Empty results", func(t *testing.T) {
		result := sampleResult()
		result.Results = nil

		md, _ := ExportToMarkdown(result)
		if !strings.Contains(string(md), "No artists from this lineup") {
			t.Errorf("expected empty message in markdown, got %s", md)
		}
		text, _ := ExportToText(result)
		if !strings.Contains(string(text), "No artists from this lineup") {
			t.Errorf("expected empty message in text, got %s", text)
		}
	})
}

func TestLimit(t *testing.T) {
	result := sampleResult()

	top := Limit(result, 2)
	if len(top.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(top.Results))
	}
	if len(result.Results) != 3 {
		t.Error("Limit must not modify its input")
	}
	if got := Limit(result, 0); len(got.Results) != 3 {
		t.Errorf("expected all results for 0, got %d", len(got.Results))
	}
	if got := Limit(result, 10); len(got.Results) != 3 {
		t.Errorf("expected all results for large n, got %d", len(got.Results))
	}
}

func TestWrite(t *testing.T) {
	t.Run("WriteFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ultra.md")
		if err := WriteFile(path, sampleResult(), Markdown); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		th.AssertFileExists(t, path)
		if !strings.HasPrefix(th.MustReadFile(t, path), "# Ultra Music Festival") {
			t.Error("unexpected file content")
		}
	})

	t.Run("Writer failure", func(t *testing.T) {
		if err := Write(&th.FWriter{}, sampleResult(), CSV); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("Unknown format", func(t *testing.T) {
		var sb strings.Builder
		if err := Write(&sb, sampleResult(), Format("xml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
