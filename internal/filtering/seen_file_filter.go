package filtering

import (
	"context"
	"fmt"

	"github.com/FaroutYLq/whatsup/internal/library"
)

type seenFileFilter struct {
	disabled bool
	reason   string
	path     string
}

// NewSeenFile creates a filter that removes papers recorded in the seen file.
func NewSeenFile(path string) Filter {
	return &seenFileFilter{path: path}
}

func (f *seenFileFilter) Name() string { return "seen_file" }

func (f *seenFileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *seenFileFilter) IsEnabled() bool { return !f.disabled }

func (f *seenFileFilter) Validate() error { return nil }

func (f *seenFileFilter) Apply(_ context.Context, p *library.Papers) (*library.Papers, Step, error) {
	initial := p.Len()
	if f.path == "" {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	seen, err := library.GetSeenPapersFromFile(f.path)
	if err != nil {
		return p, Step{}, fmt.Errorf("getting seen papers from file: %w", err)
	}

	removed := p.Exclude(seen.IDs())

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}
