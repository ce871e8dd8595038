package rules

import (
	"errors"
	"testing"

	"github.com/fenilsonani/tidyplan/internal/testutil"
)

func TestLoadYAMLRules(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.WriteRules("rules.yaml", `
default_category: Misc
categories:
  Images: [jpg, png]
  Archives: [zip, tar.gz]
patterns:
  - pattern: "invoice*"
    category: Finance
    priority: 5
ignore:
  - pattern: "*.bak"
`)

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if set.DefaultCategory() != "Misc" {
		t.Errorf("default category = %q, want Misc", set.DefaultCategory())
	}
	if d := set.Resolve("/d/a.png", "a.png"); d.Category != "Images" {
		t.Errorf("a.png resolved to %q", d.Category)
	}
	if d := set.Resolve("/d/invoice-03.pdf", "invoice-03.pdf"); d.Category != "Finance" {
		t.Errorf("invoice resolved to %q", d.Category)
	}
	if d := set.Resolve("/d/old.bak", "old.bak"); !d.Ignored {
		t.Error("*.bak not ignored")
	}
}

func TestLoadJSONRules(t *testing.T) {
	// The original rules shipped as JSON; the YAML decoder accepts it as-is.
	f := testutil.NewFixture(t)
	path := f.WriteRules("extensions.json", `{
  "categories": {
    "Images": ["jpg", "jpeg"],
    "Documents": ["pdf"]
  }
}`)

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d := set.Resolve("/d/scan.jpeg", "scan.jpeg"); d.Category != "Images" {
		t.Errorf("scan.jpeg resolved to %q", d.Category)
	}
}

func TestLoadErrors(t *testing.T) {
	f := testutil.NewFixture(t)

	tests := []struct {
		name    string
		content string
	}{
		{"malformed document", "{bad yaml: ["},
		{"duplicate extension", "categories:\n  Images: [jpg]\n  Photos: [jpg]\n"},
		{"unknown ignore scope", "ignore:\n  - pattern: '*.tmp'\n    scope: everywhere\n"},
		{"empty ignore pattern", "ignore:\n  - pattern: ''\n"},
		{"pattern without category", "patterns:\n  - pattern: 'x*'\n"},
		{"invalid glob", "ignore:\n  - pattern: '[unclosed'\n"},
		{"empty extension", "categories:\n  Images: ['']\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := f.WriteRules(tt.name+".yaml", tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Errorf("error is %T, want *LoadError", err)
			}
			if loadErr.Path != path {
				t.Errorf("LoadError.Path = %q, want %q", loadErr.Path, path)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/rules.yaml")

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error is %T, want *LoadError", err)
	}
}

func TestDuplicateExtensionSameCategoryAllowed(t *testing.T) {
	// Listing the same extension twice under one category is harmless.
	_, err := Compile(&File{Categories: map[string][]string{"Images": {"jpg", "JPG"}}})
	if err != nil {
		t.Errorf("same-category duplicate rejected: %v", err)
	}
}

func TestDefaultRuleSet(t *testing.T) {
	set := Default()

	tests := []struct {
		file string
		want string
	}{
		{"photo.jpg", "Images"},
		{"song.mp3", "Audios"},
		{"backup.tar.gz", "Archives"},
		{"installer.dmg", "Executables"},
		{"unknown.zzz", "Other"},
	}

	for _, tt := range tests {
		if d := set.Resolve("/d/"+tt.file, tt.file); d.Category != tt.want {
			t.Errorf("Default().Resolve(%q) = %q, want %q", tt.file, d.Category, tt.want)
		}
	}

	if d := set.Resolve("/d/half.crdownload", "half.crdownload"); !d.Ignored {
		t.Error("default set does not ignore partial downloads")
	}
}

func TestNormalizeExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jpg", ".jpg"},
		{".jpg", ".jpg"},
		{"JPG", ".jpg"},
		{" tar.gz ", ".tar.gz"},
	}
	for _, tt := range tests {
		if got := normalizeExt(tt.in); got != tt.want {
			t.Errorf("normalizeExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
