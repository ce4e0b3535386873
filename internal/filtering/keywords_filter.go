package filtering

import (
	"context"

	"github.com/FaroutYLq/whatsup/internal/library"
)

type keywordsFilter struct {
	disabled bool
	reason   string
	keywords []string
}

// NewExcludedKeywords creates a filter that removes papers whose title
// contains any configured keyword.
func NewExcludedKeywords(keywords []string) Filter {
	return &keywordsFilter{keywords: keywords}
}

func (f *keywordsFilter) Name() string { return "excluded_keywords" }

func (f *keywordsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *keywordsFilter) IsEnabled() bool { return !f.disabled }

func (f *keywordsFilter) Validate() error { return nil }

func (f *keywordsFilter) Apply(_ context.Context, p *library.Papers) (*library.Papers, Step, error) {
	initial := p.Len()
	if len(f.keywords) == 0 {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	excluded := p.ExcludeByTitleKeyword(f.keywords)

	return p, Step{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}
