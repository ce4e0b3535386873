package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadLibraryEmptyPath(t *testing.T) {
	lib, err := LoadLibrary("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lib.Len() != 0 {
		t.Fatalf("expected empty library, got %d papers", lib.Len())
	}

	if got := lib.Summary(DefaultDetailedPapers); got != "No Zotero library provided." {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestLoadLibraryUnsupportedFormat(t *testing.T) {
	path := writeTempFile(t, "library.xml", "<library/>")

	if _, err := LoadLibrary(path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLoadLibraryJSON(t *testing.T) {
	content := `{
  "items": [
    {
      "key": "ABCD1234",
      "title": "Dark Matter Searches with Xenon",
      "abstractNote": "We review recent direct detection results.",
      "date": "2023-06-01",
      "creators": [
        {"firstName": "Jane", "lastName": "Doe"},
        {"firstName": "John", "lastName": "Smith"}
      ],
      "tags": [{"tag": "dark matter"}, "xenon"]
    },
    {
      "key": "EFGH5678",
      "title": "Neutrino Oscillations",
      "abstractNote": "",
      "date": "",
      "creators": []
    }
  ]
}`
	path := writeTempFile(t, "library.json", content)

	lib, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lib.Len() != 2 {
		t.Fatalf("expected 2 papers, got %d", lib.Len())
	}

	first := lib.Papers()[0]
	if first.Title != "Dark Matter Searches with Xenon" {
		t.Fatalf("unexpected title: %q", first.Title)
	}
	if first.Authors != "Jane Doe, John Smith" {
		t.Fatalf("unexpected authors: %q", first.Authors)
	}
	if first.Year != "2023" {
		t.Fatalf("unexpected year: %q", first.Year)
	}
	if first.Keywords != "dark matter, xenon" {
		t.Fatalf("unexpected keywords: %q", first.Keywords)
	}

	second := lib.Papers()[1]
	if second.Year != "" || second.Authors != "" {
		t.Fatalf("expected empty year and authors, got %q / %q", second.Year, second.Authors)
	}
}

func TestLoadLibraryJSONBareList(t *testing.T) {
	content := `[{"key": "K1", "title": "Only Item", "abstractNote": "Short.", "date": "2021"}]`
	path := writeTempFile(t, "library.json", content)

	lib, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lib.Len() != 1 {
		t.Fatalf("expected 1 paper, got %d", lib.Len())
	}

	if lib.Papers()[0].Year != "2021" {
		t.Fatalf("unexpected year: %q", lib.Papers()[0].Year)
	}
}

func TestLoadLibraryBibtex(t *testing.T) {
	content := `@article{doe2022liquid,
  title = {Liquid Argon Detectors},
  author = {Doe, Jane},
  year = {2022},
  abstract = {A survey of liquid argon detector technology.},
  keywords = {argon, detectors}
}
`
	path := writeTempFile(t, "library.bib", content)

	lib, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lib.Len() != 1 {
		t.Fatalf("expected 1 paper, got %d", lib.Len())
	}

	paper := lib.Papers()[0]
	if paper.ID != "doe2022liquid" {
		t.Fatalf("unexpected id: %q", paper.ID)
	}
	if paper.Title != "Liquid Argon Detectors" {
		t.Fatalf("unexpected title: %q", paper.Title)
	}
	if paper.Year != "2022" {
		t.Fatalf("unexpected year: %q", paper.Year)
	}
	if !strings.Contains(paper.Abstract, "liquid argon") {
		t.Fatalf("unexpected abstract: %q", paper.Abstract)
	}
}
