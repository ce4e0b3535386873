package filtering

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/FaroutYLq/whatsup/internal/library"
)

func testPapers() *library.Papers {
	return &library.Papers{Items: []*library.Paper{
		{ID: "2401.0001", Title: "Dark matter searches with xenon detectors"},
		{ID: "2401.0002", Title: "A survey of graph databases"},
		{ID: "2401.0003", Title: "Neutrinoless double beta decay sensitivity"},
	}}
}

func TestSeenFileFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	seen := &library.SeenPapers{Items: []*library.SeenPaper{{ID: "2401.0002"}}}
	if err := seen.ToFile(path); err != nil {
		t.Fatalf("writing seen file: %v", err)
	}

	papers, err := Run(context.Background(), zap.NewNop(), []Filter{NewSeenFile(path)}, testPapers())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if papers.Len() != 2 {
		t.Fatalf("expected 2 papers left, got %d", papers.Len())
	}
	if papers.FindByID("2401.0002") != nil {
		t.Fatal("seen paper must be dropped")
	}
}

func TestSeenFileFilterMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")

	papers, err := Run(context.Background(), zap.NewNop(), []Filter{NewSeenFile(path)}, testPapers())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if papers.Len() != 3 {
		t.Fatalf("missing seen file must drop nothing, got %d papers", papers.Len())
	}
}

func TestSeenFileFilterEmptyPath(t *testing.T) {
	papers, err := Run(context.Background(), zap.NewNop(), []Filter{NewSeenFile("")}, testPapers())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if papers.Len() != 3 {
		t.Fatalf("empty path must drop nothing, got %d papers", papers.Len())
	}
}

func TestKeywordsFilter(t *testing.T) {
	papers, err := Run(context.Background(), zap.NewNop(), []Filter{NewExcludedKeywords([]string{"graph databases"})}, testPapers())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if papers.Len() != 2 {
		t.Fatalf("expected 2 papers left, got %d", papers.Len())
	}
	for _, paper := range papers.Items {
		if strings.Contains(strings.ToLower(paper.Title), "graph databases") {
			t.Fatalf("keyword paper survived: %s", paper.Title)
		}
	}
}

func TestDisableByName(t *testing.T) {
	steps := []Filter{NewExcludedKeywords([]string{"xenon"})}
	DisableByName(steps, "excluded_keywords", "testing")

	papers, err := Run(context.Background(), zap.NewNop(), steps, testPapers())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if papers.Len() != 3 {
		t.Fatalf("disabled filter must drop nothing, got %d papers", papers.Len())
	}
}

type failingFilter struct{}

func (failingFilter) Name() string         { return "failing" }
func (failingFilter) Disable(string)       {}
func (failingFilter) IsEnabled() bool      { return true }
func (failingFilter) Validate() error      { return nil }
func (failingFilter) Apply(context.Context, *library.Papers) (*library.Papers, Step, error) {
	return nil, Step{}, errors.New("boom")
}

func TestRunWrapsStepErrors(t *testing.T) {
	_, err := Run(context.Background(), zap.NewNop(), []Filter{failingFilter{}}, testPapers())
	if err == nil || !strings.Contains(err.Error(), "failing: boom") {
		t.Fatalf("expected wrapped step error, got %v", err)
	}
}
