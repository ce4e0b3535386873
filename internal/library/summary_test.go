package library

import (
	"fmt"
	"strings"
	"testing"
)

func testLibrary(n int) *Library {
	lib := &Library{}
	for i := 0; i < n; i++ {
		lib.papers = append(lib.papers, &Paper{
			Title:    fmt.Sprintf("Paper %d", i+1),
			Abstract: fmt.Sprintf("Abstract of paper %d.", i+1),
		})
	}
	return lib
}

func TestSummaryDetailedAndCompactSections(t *testing.T) {
	lib := testLibrary(5)

	summary := lib.Summary(3)

	if !strings.Contains(summary, "Research Background from Zotero library (5 papers):") {
		t.Fatalf("missing header: %s", summary)
	}

	if !strings.Contains(summary, "Recent papers with details (most recent 3):") {
		t.Fatalf("missing detailed section header: %s", summary)
	}

	if !strings.Contains(summary, "1. Paper 1") || !strings.Contains(summary, "   Abstract: Abstract of paper 1.") {
		t.Fatalf("missing detailed entry: %s", summary)
	}

	if !strings.Contains(summary, "Additional papers in library (2 more):") {
		t.Fatalf("missing compact section header: %s", summary)
	}

	if !strings.Contains(summary, "- Paper 5") {
		t.Fatalf("missing compact entry: %s", summary)
	}

	// Detailed entries must not leak into the compact section.
	if strings.Contains(summary, "- Paper 3") {
		t.Fatalf("paper 3 should only appear in the detailed section: %s", summary)
	}
}

func TestSummaryTruncatesLongAbstracts(t *testing.T) {
	lib := &Library{papers: []*Paper{{
		Title:    "Long One",
		Abstract: strings.Repeat("x", 450),
	}}}

	summary := lib.Summary(10)

	if !strings.Contains(summary, strings.Repeat("x", 200)+"...") {
		t.Fatalf("expected truncated abstract: %s", summary)
	}

	if strings.Contains(summary, strings.Repeat("x", 201)) {
		t.Fatalf("abstract not truncated at 200 characters: %s", summary)
	}
}

func TestSummaryOmitsCompactSectionWhenAllDetailed(t *testing.T) {
	lib := testLibrary(2)

	summary := lib.Summary(30)

	if strings.Contains(summary, "Additional papers in library") {
		t.Fatalf("unexpected compact section: %s", summary)
	}
}

func TestSummaryUntitledPaper(t *testing.T) {
	lib := &Library{papers: []*Paper{{Abstract: "Orphan abstract."}}}

	if summary := lib.Summary(5); !strings.Contains(summary, "1. No title") {
		t.Fatalf("expected placeholder title: %s", summary)
	}
}
