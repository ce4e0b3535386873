package library

import (
	"fmt"
	"strings"
)

const (
	// DefaultDetailedPapers is how many recent papers get abstracts in the summary.
	DefaultDetailedPapers = 30

	abstractPreviewLimit = 200
)

// Summary renders the library as a research-context block for the scoring
// prompt: the most recent papers with truncated abstracts, then the remaining
// titles in compact form.
func (l *Library) Summary(detailed int) string {
	if len(l.papers) == 0 {
		return "No Zotero library provided."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Research Background from Zotero library (%d papers):\n\n", len(l.papers))

	if detailed > 0 {
		fmt.Fprintf(&b, "Recent papers with details (most recent %d):\n\n", detailed)

		count := detailed
		if count > len(l.papers) {
			count = len(l.papers)
		}

		for i, paper := range l.papers[:count] {
			title := paper.Title
			if title == "" {
				title = "No title"
			}

			abstract := paper.Abstract
			if runes := []rune(abstract); len(runes) > abstractPreviewLimit {
				abstract = string(runes[:abstractPreviewLimit]) + "..."
			}

			fmt.Fprintf(&b, "%d. %s\n", i+1, title)
			if abstract != "" {
				fmt.Fprintf(&b, "   Abstract: %s\n", abstract)
			}
			b.WriteString("\n")
		}
	}

	if len(l.papers) > detailed {
		fmt.Fprintf(&b, "\nAdditional papers in library (%d more):\n\n", len(l.papers)-detailed)
		for _, paper := range l.papers[detailed:] {
			title := paper.Title
			if title == "" {
				title = "No title"
			}
			fmt.Fprintf(&b, "- %s\n", title)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
