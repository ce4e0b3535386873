package library

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// Paper is a single bibliography or feed entry. Fields beyond Title and
// Abstract are carried through evaluation unmodified.
type Paper struct {
	ID         string   `json:"id,omitempty"`
	Title      string   `json:"title"`
	Abstract   string   `json:"abstract"`
	Authors    string   `json:"authors,omitempty"`
	Year       string   `json:"year,omitempty"`
	Keywords   string   `json:"keywords,omitempty"`
	Categories []string `json:"categories,omitempty"`
	URL        string   `json:"url,omitempty"`
}

// ScoredPaper is a Paper copy augmented with the evaluation outcome. The
// original Paper is never mutated.
type ScoredPaper struct {
	Paper
	RelevanceScore  float64 `json:"relevance_score"`
	RelevanceReason string  `json:"relevance_reason"`
}

type Papers struct {
	Items []*Paper
}

func (p *Papers) Len() int {
	return len(p.Items)
}

func (p *Papers) FindByID(id string) *Paper {
	for _, paper := range p.Items {
		if paper.ID == id {
			return paper
		}
	}
	return nil
}

func (p *Papers) Titles() []string {
	titles := make([]string, 0, len(p.Items))
	for _, paper := range p.Items {
		titles = append(titles, paper.Title)
	}
	return titles
}

// Exclude removes papers whose ID is in targets, returning the removed IDs.
// Order of the remaining papers is preserved.
func (p *Papers) Exclude(targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(targets))
	for _, id := range targets {
		drop[id] = struct{}{}
	}

	var excluded []string
	kept := make([]*Paper, 0, len(p.Items))
	for _, paper := range p.Items {
		if _, ok := drop[paper.ID]; ok {
			excluded = append(excluded, paper.ID)
			continue
		}
		kept = append(kept, paper)
	}
	p.Items = kept

	return excluded
}

// ExcludeByTitleKeyword removes papers whose title contains any of the given
// keywords, case-insensitively, returning the removed IDs.
func (p *Papers) ExcludeByTitleKeyword(keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}

	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}

	var excluded []string
	kept := make([]*Paper, 0, len(p.Items))
	for _, paper := range p.Items {
		title := strings.ToLower(paper.Title)
		dropped := false
		for _, kw := range lowered {
			if strings.Contains(title, kw) {
				dropped = true
				break
			}
		}
		if dropped {
			excluded = append(excluded, paper.ID)
			continue
		}
		kept = append(kept, paper)
	}
	p.Items = kept

	return excluded
}

func (p *Papers) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "papers_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Digest is the final, sorted output of an evaluation run.
type Digest struct {
	Items []*ScoredPaper
}

func (d *Digest) Len() int {
	return len(d.Items)
}

func (d *Digest) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "digest_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByCategory groups digest entries by their primary arXiv category.
func (d *Digest) ReportByCategory() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, paper := range d.Items {
		category := "uncategorized"
		if len(paper.Categories) > 0 {
			category = paper.Categories[0]
		}
		report[category] = append(report[category], map[string]string{
			"title":  paper.Title,
			"url":    paper.URL,
			"score":  strconv.FormatFloat(paper.RelevanceScore, 'f', 1, 64),
			"reason": paper.RelevanceReason,
		})
	}
	return report
}
