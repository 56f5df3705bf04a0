package main

import (
	"reflect"
	"strings"
	"testing"

	"github.com/mondocite/mondocite/internal/citation"
	"github.com/mondocite/mondocite/internal/config"
	"github.com/mondocite/mondocite/internal/style"
)

func TestApplyAddFlags(t *testing.T) {
	looked := citation.Citation{
		Title:   "Looked Up Title",
		Authors: []citation.Author{{FirstName: "Ada", LastName: "Lovelace"}},
		Journal: "Journal of Things",
		Year:    2019,
		Type:    citation.TypeArticle,
	}

	got := applyAddFlags(looked, addFlags{
		title:    "  Override  ",
		authors:  []string{"Grace Hopper", "  "},
		year:     2021,
		tags:     []string{"ml", "ml", " "},
		favorite: true,
	})

	if got.Title != "Override" {
		t.Errorf("Title = %q, want %q", got.Title, "Override")
	}
	if got.Journal != "Journal of Things" {
		t.Errorf("Journal = %q, want looked-up value kept", got.Journal)
	}
	if got.Year != 2021 {
		t.Errorf("Year = %d, want 2021", got.Year)
	}
	if len(got.Authors) != 1 || got.Authors[0].LastName != "Hopper" {
		t.Errorf("Authors = %+v, want single Hopper", got.Authors)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "ml" || got.Tags[0].ID == "" {
		t.Errorf("Tags = %+v, want one ml tag with ID", got.Tags)
	}
	if !got.IsFavorite {
		t.Error("IsFavorite = false, want true")
	}
}

func TestApplyAddFlags_TypeDefault(t *testing.T) {
	tests := []struct {
		name string
		opts addFlags
		want string
	}{
		{"bare", addFlags{title: "T"}, citation.TypeArticle},
		{"journal", addFlags{title: "T", journal: "J"}, citation.TypeArticle},
		{"publisher only", addFlags{title: "T", source: "Penguin"}, citation.TypeBook},
		{"explicit", addFlags{title: "T", typ: "Thesis"}, "thesis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyAddFlags(citation.Citation{}, tt.opts)
			if got.Type != tt.want {
				t.Errorf("Type = %q, want %q", got.Type, tt.want)
			}
			if got.Authors == nil || got.Tags == nil {
				t.Error("Authors and Tags should be non-nil")
			}
		})
	}
}

func TestSplitIDs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{"a,,a,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		if got := splitIDs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitIDs(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMissingIDs(t *testing.T) {
	got := missingIDs(
		[]string{"a", "b", "c"},
		[]citation.Citation{{ID: "b"}},
	)
	want := []string{"a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("missingIDs = %v, want %v", got, want)
	}

	if got := missingIDs([]string{"a"}, []citation.Citation{{ID: "a"}}); got != nil {
		t.Errorf("missingIDs = %v, want nil", got)
	}
}

func TestResolveStyle(t *testing.T) {
	cfg := &config.Config{DefaultStyle: "mla", DefaultFormat: "bibtex"}

	if got := resolveStyle("", cfg); got != style.MLA {
		t.Errorf("resolveStyle(\"\") = %q, want %q", got, style.MLA)
	}
	if got := resolveStyle("ieee", cfg); got != style.IEEE {
		t.Errorf("resolveStyle(ieee) = %q, want %q", got, style.IEEE)
	}
	if got := resolveStyle("IEEE", cfg); got != style.IEEE {
		t.Errorf("resolveStyle(IEEE) = %q, want %q", got, style.IEEE)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"ééééééééééé", 5, "éé..."},
	}

	for _, tt := range tests {
		if got := truncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("the quick brown fox jumps", 10, "  ")
	want := "the quick\n  brown fox\n  jumps"
	if got != want {
		t.Errorf("wrapText = %q, want %q", got, want)
	}

	if got := wrapText("short", 10, "  "); got != "short" {
		t.Errorf("wrapText(short) = %q", got)
	}
}

func TestNormalizeKey(t *testing.T) {
	for _, in := range []string{"default_style", "DEFAULT-STYLE", " default-style "} {
		if got := normalizeKey(in); got != "default-style" {
			t.Errorf("normalizeKey(%q) = %q, want default-style", in, got)
		}
	}
}

func TestSetConfigValue(t *testing.T) {
	cfg := config.Default()

	if err := setConfigValue(cfg, "default-style", "chicago"); err != nil {
		t.Fatalf("setConfigValue(style) error = %v", err)
	}
	if cfg.DefaultStyle != "chicago" {
		t.Errorf("DefaultStyle = %q, want chicago", cfg.DefaultStyle)
	}

	if err := setConfigValue(cfg, "default-format", "bib"); err != nil {
		t.Fatalf("setConfigValue(format) error = %v", err)
	}
	if cfg.DefaultFormat != "bibtex" {
		t.Errorf("DefaultFormat = %q, want bibtex", cfg.DefaultFormat)
	}

	if err := setConfigValue(cfg, "default-style", "vancouver"); err == nil {
		t.Error("expected error for unknown style")
	}
	err := setConfigValue(cfg, "colour", "red")
	if err == nil || !strings.Contains(err.Error(), "unknown configuration key") {
		t.Errorf("setConfigValue(colour) error = %v", err)
	}
}

func TestCollectionMembers(t *testing.T) {
	col := citation.Collection{CitationIDs: []string{"a"}}

	if n := addMembers(&col, []string{"a", "b", "c", "b"}); n != 2 {
		t.Errorf("addMembers added %d, want 2", n)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(col.CitationIDs, want) {
		t.Errorf("CitationIDs = %v, want %v", col.CitationIDs, want)
	}

	if n := removeMembers(&col, []string{"b", "zzz"}); n != 1 {
		t.Errorf("removeMembers removed %d, want 1", n)
	}
	if want := []string{"a", "c"}; !reflect.DeepEqual(col.CitationIDs, want) {
		t.Errorf("CitationIDs = %v, want %v", col.CitationIDs, want)
	}
}
